package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kilupskalvis/givc/internal/models"
)

// SaveBody writes the issue body to issue.md with exactly one trailing
// newline.
func (s *IssueStorage) SaveBody(body string) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", s.dir, err)
	}
	content := strings.TrimRight(body, "\n") + "\n"
	if err := os.WriteFile(s.bodyPath(), []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", s.bodyPath(), err)
	}
	return nil
}

// SaveMetadata writes metadata.json pretty-printed.
func (s *IssueStorage) SaveMetadata(meta *models.IssueMetadata) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", s.dir, err)
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(s.metadataPath(), data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", s.metadataPath(), err)
	}
	return nil
}

// SaveComments writes one file per remote comment, named
// NNN_comment_<databaseId>.md in the given order. Each file carries a
// header block followed by a blank line and the body verbatim. Drafts
// already present in the directory are left alone.
func (s *IssueStorage) SaveComments(comments []models.Comment) error {
	if err := os.MkdirAll(s.commentsPath(), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", s.commentsPath(), err)
	}
	for i, c := range comments {
		name := fmt.Sprintf("%03d_comment_%d.md", i+1, c.DatabaseID)
		path := filepath.Join(s.commentsPath(), name)

		var b strings.Builder
		fmt.Fprintf(&b, "<!-- author: %s -->\n", c.AuthorLogin())
		fmt.Fprintf(&b, "<!-- createdAt: %s -->\n", c.CreatedAt.Format(time.RFC3339))
		fmt.Fprintf(&b, "<!-- id: %s -->\n", c.ID)
		fmt.Fprintf(&b, "<!-- databaseId: %d -->\n", c.DatabaseID)
		b.WriteString("\n")
		b.WriteString(c.Body)

		if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

// CreateDraftComment writes comments/new_<name>.md with the given body
// and returns its path. An existing draft with the same name is never
// overwritten.
func (s *IssueStorage) CreateDraftComment(name, body string) (string, error) {
	if err := os.MkdirAll(s.commentsPath(), 0755); err != nil {
		return "", fmt.Errorf("creating %s: %w", s.commentsPath(), err)
	}
	path := filepath.Join(s.commentsPath(), DraftPrefix+name+".md")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("draft already exists: %w: %s", fs.ErrExist, path)
		}
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := f.WriteString(body); err != nil {
		f.Close()
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// RemoveCommentFile deletes a single file from the comments directory.
// Push uses this to clean up drafts once the comment exists remotely.
func (s *IssueStorage) RemoveCommentFile(filename string) error {
	path := filepath.Join(s.commentsPath(), filename)
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}

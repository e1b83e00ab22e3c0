package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kilupskalvis/givc/internal/models"
)

// CommentFileMetadata is the parsed header block of a synced comment
// file. Zero values mean the header line was absent.
type CommentFileMetadata struct {
	Author     string
	CreatedAt  string
	ID         string
	DatabaseID int64
}

// LocalComment is one file from the comments directory.
type LocalComment struct {
	Filename string
	Meta     CommentFileMetadata
	Body     string
}

// IsNew reports whether the file is an unpushed draft.
func (c *LocalComment) IsNew() bool {
	return strings.HasPrefix(c.Filename, DraftPrefix)
}

// ReadBody returns issue.md without its trailing newline.
func (s *IssueStorage) ReadBody() (string, error) {
	data, err := os.ReadFile(s.bodyPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, s.bodyPath())
		}
		return "", fmt.Errorf("reading %s: %w", s.bodyPath(), err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// ReadMetadata loads metadata.json.
func (s *IssueStorage) ReadMetadata() (*models.IssueMetadata, error) {
	data, err := os.ReadFile(s.metadataPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.metadataPath())
		}
		return nil, fmt.Errorf("reading %s: %w", s.metadataPath(), err)
	}
	var meta models.IssueMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.metadataPath(), err)
	}
	return &meta, nil
}

// ReadComments returns every .md file under comments/ sorted by
// filename. Synced files carry a parsed header block; drafts come back
// body-only with zero metadata. A missing comments directory yields an
// empty slice.
func (s *IssueStorage) ReadComments() ([]LocalComment, error) {
	entries, err := os.ReadDir(s.commentsPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", s.commentsPath(), err)
	}

	var comments []LocalComment
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		path := filepath.Join(s.commentsPath(), entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		meta, body, err := parseComment(path, string(data))
		if err != nil {
			return nil, err
		}
		comments = append(comments, LocalComment{Filename: entry.Name(), Meta: meta, Body: body})
	}
	// os.ReadDir sorts by filename, which is the display order for the
	// NNN_comment_<id>.md naming scheme.
	return comments, nil
}

// parseComment splits a comment file into its header block and body.
// The header is a run of "<!-- key: value -->" lines; it ends at the
// first line that does not match. Unknown keys are ignored. The body
// starts at the first non-empty line after the header.
func parseComment(path, content string) (CommentFileMetadata, string, error) {
	var meta CommentFileMetadata
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")

	i := 0
	for ; i < len(lines); i++ {
		key, value, ok := parseHeaderLine(lines[i])
		if !ok {
			break
		}
		switch key {
		case "author":
			meta.Author = value
		case "createdAt":
			meta.CreatedAt = value
		case "id":
			meta.ID = value
		case "databaseId":
			id, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return meta, "", &CommentParseError{Path: path, Message: fmt.Sprintf("invalid databaseId %q", value)}
			}
			meta.DatabaseID = id
		}
	}
	for i < len(lines) && lines[i] == "" {
		i++
	}
	return meta, strings.Join(lines[i:], "\n"), nil
}

func parseHeaderLine(line string) (key, value string, ok bool) {
	inner, ok := strings.CutPrefix(line, "<!-- ")
	if !ok {
		return "", "", false
	}
	inner, ok = strings.CutSuffix(inner, " -->")
	if !ok {
		return "", "", false
	}
	key, value, ok = strings.Cut(inner, ": ")
	if !ok {
		return "", "", false
	}
	return key, value, true
}

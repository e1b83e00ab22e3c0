// Package storage persists the local editable copy of a GitHub issue:
// the body as issue.md, a frozen remote snapshot as metadata.json, and
// one markdown file per comment under comments/.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	bodyFile     = "issue.md"
	metadataFile = "metadata.json"
	commentsDir  = "comments"

	// DraftPrefix marks comment files that have not been pushed yet.
	DraftPrefix = "new_"
)

// IssueStorage reads and writes the on-disk copy of a single issue.
type IssueStorage struct {
	dir string
}

// NewIssueStorage returns storage rooted at
// <cacheRoot>/<owner>/<repo>/<number>.
func NewIssueStorage(cacheRoot, owner, repo string, number int64) *IssueStorage {
	return &IssueStorage{dir: filepath.Join(cacheRoot, owner, repo, fmt.Sprintf("%d", number))}
}

// FromDir returns storage over an existing issue directory.
func FromDir(dir string) *IssueStorage {
	return &IssueStorage{dir: dir}
}

// Dir returns the issue directory.
func (s *IssueStorage) Dir() string {
	return s.dir
}

// Exists reports whether the issue has been pulled into the cache.
func (s *IssueStorage) Exists() bool {
	info, err := os.Stat(s.dir)
	return err == nil && info.IsDir()
}

// Remove deletes the issue directory and everything under it.
func (s *IssueStorage) Remove() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("removing %s: %w", s.dir, err)
	}
	return nil
}

func (s *IssueStorage) bodyPath() string     { return filepath.Join(s.dir, bodyFile) }
func (s *IssueStorage) metadataPath() string { return filepath.Join(s.dir, metadataFile) }
func (s *IssueStorage) commentsPath() string { return filepath.Join(s.dir, commentsDir) }

package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an expected cache file is missing.
var ErrNotFound = errors.New("file not found")

// CommentParseError reports a comment file whose metadata header block
// could not be parsed.
type CommentParseError struct {
	Path    string
	Message string
}

func (e *CommentParseError) Error() string {
	return fmt.Sprintf("invalid comment metadata in %s: %s", e.Path, e.Message)
}

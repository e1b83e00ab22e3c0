package core

import "fmt"

// NotCachedError is returned when push or diff is run for an issue
// that has never been pulled.
type NotCachedError struct {
	Number int64
}

func (e *NotCachedError) Error() string {
	return fmt.Sprintf("issue #%d not found locally; run 'givc pull %d' first", e.Number, e.Number)
}

// ConflictError is returned when the remote issue changed after the
// last pull. Local and Remote hold the two updatedAt tokens.
type ConflictError struct {
	Local  string
	Remote string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("remote has changed since last pull (local: %s, remote: %s); use --force to overwrite or 'givc refresh' to discard local changes", e.Local, e.Remote)
}

// PermissionError is returned when detection finds an edit or a
// deletion of a comment authored by someone else and --edit-others is
// not set. Action names the refused operation, "edit" or "delete".
type PermissionError struct {
	Action      string
	Author      string
	CurrentUser string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("cannot %s comment by %s as %s; use --edit-others to allow", e.Action, e.Author, e.CurrentUser)
}

// LocalChangesError is returned when pull would overwrite local edits.
type LocalChangesError struct {
	Number int64
}

func (e *LocalChangesError) Error() string {
	return fmt.Sprintf("issue #%d has local changes; push them first or discard with 'givc refresh %d'", e.Number, e.Number)
}

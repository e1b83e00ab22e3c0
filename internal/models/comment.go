package models

import "time"

// Comment represents an issue comment. ID is the GraphQL node id used
// to match local files against remote comments; DatabaseID is the
// numeric id the REST mutation endpoints take.
type Comment struct {
	ID         string    `json:"id"`
	DatabaseID int64     `json:"databaseId"`
	Author     *Author   `json:"author"`
	CreatedAt  time.Time `json:"createdAt"`
	Body       string    `json:"body"`
}

// AuthorLogin returns the comment author's login, or "unknown" when the
// account has been deleted.
func (c *Comment) AuthorLogin() string {
	if c.Author == nil {
		return "unknown"
	}
	return c.Author.Login
}

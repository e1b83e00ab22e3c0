package models

import "time"

// Label is an issue label.
type Label struct {
	Name string `json:"name"`
}

// Milestone is the milestone an issue is assigned to.
type Milestone struct {
	Title string `json:"title"`
}

// Author is a GitHub user reference.
type Author struct {
	Login string `json:"login"`
}

// Issue represents a GitHub issue as returned by the REST API.
type Issue struct {
	Number    int64      `json:"number"`
	Title     string     `json:"title"`
	Body      *string    `json:"body"`
	State     string     `json:"state"`
	Labels    []Label    `json:"labels"`
	Assignees []Author   `json:"assignees"`
	Milestone *Milestone `json:"milestone"`
	Author    *Author    `json:"user"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// AuthorLogin returns the author's login, or "unknown" when the author
// account no longer exists.
func (i *Issue) AuthorLogin() string {
	if i.Author == nil {
		return "unknown"
	}
	return i.Author.Login
}

// BodyText returns the issue body, treating a missing body as empty.
func (i *Issue) BodyText() string {
	if i.Body == nil {
		return ""
	}
	return *i.Body
}

// LabelNames returns the label names in API order.
func (i *Issue) LabelNames() []string {
	names := make([]string, len(i.Labels))
	for idx, l := range i.Labels {
		names[idx] = l.Name
	}
	return names
}

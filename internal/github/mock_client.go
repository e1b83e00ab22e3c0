package github

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/kilupskalvis/givc/internal/models"
)

// MockClient is an in-memory Client for testing. Issues and comments
// are keyed by "owner/repo/number". Mutations update the stored state
// the way GitHub would (including bumping the issue's UpdatedAt to
// MutatedAt) and are recorded in Calls in invocation order.
type MockClient struct {
	// Issues stores issues by key
	Issues map[string]*models.Issue
	// Comments stores comment lists by key
	Comments map[string][]models.Comment
	// CurrentUser is the login GetCurrentUser returns
	CurrentUser string
	// MutatedAt is stamped on an issue's UpdatedAt by every mutation
	MutatedAt time.Time
	// Err can be set to make methods return an error
	Err error

	// Calls records mutations in order, e.g. "RemoveLabel bug"
	Calls []string

	UpdatedBodies   []string
	UpdatedTitles   []string
	AddedLabels     [][]string
	RemovedLabels   []string
	CreatedBodies   []string
	UpdatedComments map[int64]string
	DeletedComments []int64

	nextCommentID int64
}

// NewMockClient creates a new MockClient for testing.
func NewMockClient() *MockClient {
	return &MockClient{
		Issues:          make(map[string]*models.Issue),
		Comments:        make(map[string][]models.Comment),
		CurrentUser:     "testuser",
		MutatedAt:       time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		UpdatedComments: make(map[int64]string),
		nextCommentID:   9000,
	}
}

func issueKey(owner, repo string, number int64) string {
	return fmt.Sprintf("%s/%s/%d", owner, repo, number)
}

// WithIssue registers an issue under its own number.
func (m *MockClient) WithIssue(owner, repo string, issue *models.Issue) *MockClient {
	m.Issues[issueKey(owner, repo, issue.Number)] = issue
	return m
}

// WithComments registers the comment list for an issue.
func (m *MockClient) WithComments(owner, repo string, number int64, comments []models.Comment) *MockClient {
	m.Comments[issueKey(owner, repo, number)] = comments
	return m
}

// WithCurrentUser sets the login GetCurrentUser returns.
func (m *MockClient) WithCurrentUser(login string) *MockClient {
	m.CurrentUser = login
	return m
}

// GetIssue returns the registered issue.
func (m *MockClient) GetIssue(_ context.Context, owner, repo string, number int64) (*models.Issue, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	issue, ok := m.Issues[issueKey(owner, repo, number)]
	if !ok {
		return nil, &APIError{Method: "GET", Path: fmt.Sprintf("/repos/%s/%s/issues/%d", owner, repo, number), StatusCode: 404, Message: "Not Found"}
	}
	return issue, nil
}

// GetComments returns the registered comments.
func (m *MockClient) GetComments(_ context.Context, owner, repo string, number int64) ([]models.Comment, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return slices.Clone(m.Comments[issueKey(owner, repo, number)]), nil
}

// GetCurrentUser returns the canned login.
func (m *MockClient) GetCurrentUser(_ context.Context) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.CurrentUser, nil
}

// UpdateIssueBody replaces the stored issue body.
func (m *MockClient) UpdateIssueBody(_ context.Context, owner, repo string, number int64, body string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Calls = append(m.Calls, "UpdateIssueBody")
	m.UpdatedBodies = append(m.UpdatedBodies, body)
	if issue, ok := m.Issues[issueKey(owner, repo, number)]; ok {
		issue.Body = &body
		issue.UpdatedAt = m.MutatedAt
	}
	return nil
}

// UpdateIssueTitle replaces the stored issue title.
func (m *MockClient) UpdateIssueTitle(_ context.Context, owner, repo string, number int64, title string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Calls = append(m.Calls, "UpdateIssueTitle")
	m.UpdatedTitles = append(m.UpdatedTitles, title)
	if issue, ok := m.Issues[issueKey(owner, repo, number)]; ok {
		issue.Title = title
		issue.UpdatedAt = m.MutatedAt
	}
	return nil
}

// AddLabels attaches labels to the stored issue.
func (m *MockClient) AddLabels(_ context.Context, owner, repo string, number int64, labels []string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Calls = append(m.Calls, "AddLabels "+fmt.Sprint(labels))
	m.AddedLabels = append(m.AddedLabels, labels)
	if issue, ok := m.Issues[issueKey(owner, repo, number)]; ok {
		for _, name := range labels {
			issue.Labels = append(issue.Labels, models.Label{Name: name})
		}
		issue.UpdatedAt = m.MutatedAt
	}
	return nil
}

// RemoveLabel detaches one label from the stored issue.
func (m *MockClient) RemoveLabel(_ context.Context, owner, repo string, number int64, label string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Calls = append(m.Calls, "RemoveLabel "+label)
	m.RemovedLabels = append(m.RemovedLabels, label)
	if issue, ok := m.Issues[issueKey(owner, repo, number)]; ok {
		issue.Labels = slices.DeleteFunc(issue.Labels, func(l models.Label) bool {
			return l.Name == label
		})
		issue.UpdatedAt = m.MutatedAt
	}
	return nil
}

// CreateComment appends a comment with generated ids.
func (m *MockClient) CreateComment(_ context.Context, owner, repo string, number int64, body string) (*models.Comment, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.Calls = append(m.Calls, "CreateComment")
	m.CreatedBodies = append(m.CreatedBodies, body)

	m.nextCommentID++
	created := models.Comment{
		ID:         fmt.Sprintf("IC_mock%d", m.nextCommentID),
		DatabaseID: m.nextCommentID,
		Author:     &models.Author{Login: m.CurrentUser},
		CreatedAt:  m.MutatedAt,
		Body:       body,
	}
	key := issueKey(owner, repo, number)
	m.Comments[key] = append(m.Comments[key], created)
	if issue, ok := m.Issues[key]; ok {
		issue.UpdatedAt = m.MutatedAt
	}
	return &created, nil
}

// UpdateComment replaces the body of a stored comment.
func (m *MockClient) UpdateComment(_ context.Context, owner, repo string, commentID int64, body string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Calls = append(m.Calls, fmt.Sprintf("UpdateComment %d", commentID))
	m.UpdatedComments[commentID] = body

	for key, comments := range m.Comments {
		for i := range comments {
			if comments[i].DatabaseID == commentID {
				comments[i].Body = body
				if issue, ok := m.Issues[key]; ok {
					issue.UpdatedAt = m.MutatedAt
				}
				return nil
			}
		}
	}
	return &APIError{Method: "PATCH", Path: fmt.Sprintf("/repos/%s/%s/issues/comments/%d", owner, repo, commentID), StatusCode: 404, Message: "Not Found"}
}

// DeleteComment removes a stored comment.
func (m *MockClient) DeleteComment(_ context.Context, owner, repo string, commentID int64) error {
	if m.Err != nil {
		return m.Err
	}
	m.Calls = append(m.Calls, fmt.Sprintf("DeleteComment %d", commentID))
	m.DeletedComments = append(m.DeletedComments, commentID)

	for key, comments := range m.Comments {
		trimmed := slices.DeleteFunc(comments, func(c models.Comment) bool {
			return c.DatabaseID == commentID
		})
		if len(trimmed) == len(comments) {
			continue
		}
		m.Comments[key] = trimmed
		if issue, ok := m.Issues[key]; ok {
			issue.UpdatedAt = m.MutatedAt
		}
	}
	return nil
}

// Verify MockClient implements Client
var _ Client = (*MockClient)(nil)

package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"github.com/kilupskalvis/givc/internal/models"
)

const (
	defaultAPIURL     = "https://api.github.com"
	defaultGraphQLURL = "https://api.github.com/graphql"

	commentsPageSize = 100
)

// GitHubClient is the concrete Client backed by api.github.com.
// Issue reads and all mutations go through REST; comment listing goes
// through GraphQL, which is the only surface that exposes both the
// node id and the numeric databaseId in one call.
type GitHubClient struct {
	httpClient *http.Client
	apiURL     string
	graphqlURL string
}

// NewClient returns a client authenticated with token. Empty URLs fall
// back to api.github.com.
func NewClient(token, apiURL, graphqlURL string) *GitHubClient {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), src)
	httpClient.Timeout = 30 * time.Second

	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	if graphqlURL == "" {
		graphqlURL = defaultGraphQLURL
	}
	return &GitHubClient{httpClient: httpClient, apiURL: apiURL, graphqlURL: graphqlURL}
}

// APIError is a non-2xx response from the GitHub API.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("github: %s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("github: %s %s: %d", e.Method, e.Path, e.StatusCode)
}

// do sends a REST request and decodes the JSON response into out.
// Pass nil out to discard the response body.
func (c *GitHubClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(method, path, resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeError(method, path string, resp *http.Response) error {
	var ghErr struct {
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(data, &ghErr)
	return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: ghErr.Message}
}

// GetIssue fetches a single issue over REST.
func (c *GitHubClient) GetIssue(ctx context.Context, owner, repo string, number int64) (*models.Issue, error) {
	var issue models.Issue
	path := fmt.Sprintf("/repos/%s/%s/issues/%d", owner, repo, number)
	if err := c.do(ctx, http.MethodGet, path, nil, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// GetCurrentUser returns the login the token authenticates as.
func (c *GitHubClient) GetCurrentUser(ctx context.Context) (string, error) {
	var user struct {
		Login string `json:"login"`
	}
	if err := c.do(ctx, http.MethodGet, "/user", nil, &user); err != nil {
		return "", err
	}
	return user.Login, nil
}

// UpdateIssueBody replaces the issue body.
func (c *GitHubClient) UpdateIssueBody(ctx context.Context, owner, repo string, number int64, body string) error {
	path := fmt.Sprintf("/repos/%s/%s/issues/%d", owner, repo, number)
	return c.do(ctx, http.MethodPatch, path, map[string]string{"body": body}, nil)
}

// UpdateIssueTitle replaces the issue title.
func (c *GitHubClient) UpdateIssueTitle(ctx context.Context, owner, repo string, number int64, title string) error {
	path := fmt.Sprintf("/repos/%s/%s/issues/%d", owner, repo, number)
	return c.do(ctx, http.MethodPatch, path, map[string]string{"title": title}, nil)
}

// AddLabels attaches labels to the issue, creating them in the
// repository if needed.
func (c *GitHubClient) AddLabels(ctx context.Context, owner, repo string, number int64, labels []string) error {
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/labels", owner, repo, number)
	return c.do(ctx, http.MethodPost, path, map[string][]string{"labels": labels}, nil)
}

// RemoveLabel detaches a single label from the issue.
func (c *GitHubClient) RemoveLabel(ctx context.Context, owner, repo string, number int64, label string) error {
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/labels/%s", owner, repo, number, url.PathEscape(label))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// restComment is the REST wire shape of an issue comment.
type restComment struct {
	ID        int64          `json:"id"`
	NodeID    string         `json:"node_id"`
	User      *models.Author `json:"user"`
	CreatedAt time.Time      `json:"created_at"`
	Body      string         `json:"body"`
}

func (rc *restComment) toModel() *models.Comment {
	return &models.Comment{
		ID:         rc.NodeID,
		DatabaseID: rc.ID,
		Author:     rc.User,
		CreatedAt:  rc.CreatedAt,
		Body:       rc.Body,
	}
}

// CreateComment posts a new comment and returns it with the ids the
// server assigned.
func (c *GitHubClient) CreateComment(ctx context.Context, owner, repo string, number int64, body string) (*models.Comment, error) {
	var created restComment
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/comments", owner, repo, number)
	if err := c.do(ctx, http.MethodPost, path, map[string]string{"body": body}, &created); err != nil {
		return nil, err
	}
	return created.toModel(), nil
}

// UpdateComment replaces a comment body by its numeric id.
func (c *GitHubClient) UpdateComment(ctx context.Context, owner, repo string, commentID int64, body string) error {
	path := fmt.Sprintf("/repos/%s/%s/issues/comments/%d", owner, repo, commentID)
	return c.do(ctx, http.MethodPatch, path, map[string]string{"body": body}, nil)
}

// DeleteComment removes a comment by its numeric id.
func (c *GitHubClient) DeleteComment(ctx context.Context, owner, repo string, commentID int64) error {
	path := fmt.Sprintf("/repos/%s/%s/issues/comments/%d", owner, repo, commentID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

var commentsQuery = fmt.Sprintf(`query($owner: String!, $repo: String!, $number: Int!, $cursor: String) {
  repository(owner: $owner, name: $repo) {
    issue(number: $number) {
      comments(first: %d, after: $cursor) {
        pageInfo { hasNextPage endCursor }
        nodes { id databaseId author { login } createdAt body }
      }
    }
  }
}`, commentsPageSize)

type commentsResponse struct {
	Data struct {
		Repository *struct {
			Issue *struct {
				Comments struct {
					PageInfo struct {
						HasNextPage bool   `json:"hasNextPage"`
						EndCursor   string `json:"endCursor"`
					} `json:"pageInfo"`
					Nodes []struct {
						ID         string         `json:"id"`
						DatabaseID int64          `json:"databaseId"`
						Author     *models.Author `json:"author"`
						CreatedAt  time.Time      `json:"createdAt"`
						Body       string         `json:"body"`
					} `json:"nodes"`
				} `json:"comments"`
			} `json:"issue"`
		} `json:"repository"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// GetComments lists every comment on the issue via GraphQL, following
// cursors until the connection is drained.
func (c *GitHubClient) GetComments(ctx context.Context, owner, repo string, number int64) ([]models.Comment, error) {
	var comments []models.Comment
	var cursor *string
	for {
		vars := map[string]interface{}{"owner": owner, "repo": repo, "number": number, "cursor": cursor}

		var resp commentsResponse
		if err := c.graphql(ctx, commentsQuery, vars, &resp); err != nil {
			return nil, err
		}
		if len(resp.Errors) > 0 {
			return nil, fmt.Errorf("github: comments query: %s", resp.Errors[0].Message)
		}
		if resp.Data.Repository == nil || resp.Data.Repository.Issue == nil {
			return nil, fmt.Errorf("github: issue %s/%s#%d not found", owner, repo, number)
		}

		conn := resp.Data.Repository.Issue.Comments
		for _, n := range conn.Nodes {
			comments = append(comments, models.Comment{
				ID:         n.ID,
				DatabaseID: n.DatabaseID,
				Author:     n.Author,
				CreatedAt:  n.CreatedAt,
				Body:       n.Body,
			})
		}
		if !conn.PageInfo.HasNextPage {
			return comments, nil
		}
		cursor = &conn.PageInfo.EndCursor
	}
}

// graphql posts a query to the GraphQL endpoint and decodes the
// response envelope into out.
func (c *GitHubClient) graphql(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	data, err := json.Marshal(map[string]interface{}{"query": query, "variables": variables})
	if err != nil {
		return fmt.Errorf("encoding query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", c.graphqlURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(http.MethodPost, "/graphql", resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding graphql response: %w", err)
	}
	return nil
}

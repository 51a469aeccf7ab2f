package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const DefaultBaseURL = "https://api.github.com"

// Client is a minimal GitHub REST client covering repo provisioning and
// tree pushes. Requests authenticate with the configured token.
type Client struct {
	BaseURL string
	Owner   string
	http    *http.Client
}

func NewClient(ctx context.Context, token, owner string) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(ctx, src)
	httpClient.Timeout = 60 * time.Second

	return &Client{
		BaseURL: DefaultBaseURL,
		Owner:   owner,
		http:    httpClient,
	}
}

// NewClientWithHTTP is for tests pointing at a stub server.
func NewClientWithHTTP(baseURL, owner string, httpClient *http.Client) *Client {
	return &Client{
		BaseURL: baseURL,
		Owner:   owner,
		http:    httpClient,
	}
}

// APIError carries the GitHub status code and response body.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: status %d, body: %s", e.StatusCode, e.Body)
}

// --- Wire types ---

type Repo struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
	HTMLURL       string `json:"html_url"`
}

type TreeEntry struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
	Type string `json:"type"`
	SHA  string `json:"sha"`
}

type blobRequest struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

type shaResponse struct {
	SHA string `json:"sha"`
}

type treeRequest struct {
	BaseTree string      `json:"base_tree,omitempty"`
	Tree     []TreeEntry `json:"tree"`
}

type commitRequest struct {
	Message string   `json:"message"`
	Tree    string   `json:"tree"`
	Parents []string `json:"parents"`
}

type refRequest struct {
	SHA   string `json:"sha"`
	Force bool   `json:"force"`
}

type createRefRequest struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

type refResponse struct {
	Object struct {
		SHA string `json:"sha"`
	} `json:"object"`
}

func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("github request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

// EnsureRepo creates the repo, or fetches it when creation reports it
// already exists (422).
func (c *Client) EnsureRepo(ctx context.Context, name string, private bool) (*Repo, error) {
	var repo Repo
	err := c.do(ctx, "POST", "/user/repos", map[string]interface{}{
		"name":       name,
		"private":    private,
		"auto_init":  true,
		"has_issues": false,
	}, &repo)
	if err == nil {
		return &repo, nil
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnprocessableEntity {
		return nil, err
	}

	if err := c.do(ctx, "GET", fmt.Sprintf("/repos/%s/%s", c.Owner, name), nil, &repo); err != nil {
		return nil, err
	}
	return &repo, nil
}

// CreateBlob uploads one base64-encoded blob and returns its SHA.
func (c *Client) CreateBlob(ctx context.Context, repo, contentB64 string) (string, error) {
	var out shaResponse
	err := c.do(ctx, "POST", fmt.Sprintf("/repos/%s/%s/git/blobs", c.Owner, repo), blobRequest{
		Content:  contentB64,
		Encoding: "base64",
	}, &out)
	if err != nil {
		return "", err
	}
	return out.SHA, nil
}

// CreateTree builds a git tree from the given entries.
func (c *Client) CreateTree(ctx context.Context, repo, baseTree string, entries []TreeEntry) (string, error) {
	var out shaResponse
	err := c.do(ctx, "POST", fmt.Sprintf("/repos/%s/%s/git/trees", c.Owner, repo), treeRequest{
		BaseTree: baseTree,
		Tree:     entries,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.SHA, nil
}

// CreateCommit records a commit pointing at the tree.
func (c *Client) CreateCommit(ctx context.Context, repo, message, tree string, parents []string) (string, error) {
	if parents == nil {
		parents = []string{}
	}
	var out shaResponse
	err := c.do(ctx, "POST", fmt.Sprintf("/repos/%s/%s/git/commits", c.Owner, repo), commitRequest{
		Message: message,
		Tree:    tree,
		Parents: parents,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.SHA, nil
}

// GetRefSHA resolves the commit a branch head points at.
func (c *Client) GetRefSHA(ctx context.Context, repo, branch string) (string, error) {
	var out refResponse
	err := c.do(ctx, "GET", fmt.Sprintf("/repos/%s/%s/git/ref/heads/%s", c.Owner, repo, branch), nil, &out)
	if err != nil {
		return "", err
	}
	return out.Object.SHA, nil
}

// UpdateRef force-moves the branch head, creating the ref when it does
// not exist yet.
func (c *Client) UpdateRef(ctx context.Context, repo, branch, sha string) error {
	err := c.do(ctx, "PATCH", fmt.Sprintf("/repos/%s/%s/git/refs/heads/%s", c.Owner, repo, branch), refRequest{
		SHA:   sha,
		Force: true,
	}, nil)
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnprocessableEntity {
		return err
	}

	return c.do(ctx, "POST", fmt.Sprintf("/repos/%s/%s/git/refs", c.Owner, repo), createRefRequest{
		Ref: "refs/heads/" + branch,
		SHA: sha,
	}, nil)
}

// EnablePages turns on GitHub Pages for the branch. An existing Pages
// site reports 409, which is fine.
func (c *Client) EnablePages(ctx context.Context, repo, branch string) error {
	err := c.do(ctx, "POST", fmt.Sprintf("/repos/%s/%s/pages", c.Owner, repo), map[string]interface{}{
		"source": map[string]string{
			"branch": branch,
			"path":   "/",
		},
	}, nil)
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
		return nil
	}
	return err
}

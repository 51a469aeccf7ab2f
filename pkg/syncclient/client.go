// Package syncclient submits a resolved file selection to the sync backend.
package syncclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"bolt-sync-be/pkg/snapshot"
)

// Template tags every import produced by this client.
const Template = "bolt-import"

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 60 * time.Second,
			Jar:     jar,
		},
	}
}

// NewClientWithHTTP lets callers supply a pre-configured http.Client
// (custom credentials, transport, timeouts).
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, client: httpClient}
}

type PushRequest struct {
	// ProjectID may be empty; the backend generates one.
	ProjectID   string
	ProjectName string
	Framework   string
	Files       []snapshot.FileEntry
}

type PushResponse struct {
	ProjectID string `json:"projectId"`
	FileCount int    `json:"fileCount"`
}

// StatusError carries a non-2xx backend response verbatim.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sync upload rejected: status %d, body: %s", e.Code, e.Body)
}

type pushPayload struct {
	ProjectID   string               `json:"projectId,omitempty"`
	ProjectName string               `json:"projectName"`
	Framework   string               `json:"framework"`
	Template    string               `json:"template"`
	Files       []snapshot.FileEntry `json:"files"`
}

// Push issues the single upload request. This is the only side effect of the
// whole resolution pipeline; there are no retries in either direction.
func (c *Client) Push(ctx context.Context, req PushRequest) (*PushResponse, error) {
	payload := pushPayload{
		ProjectID:   req.ProjectID,
		ProjectName: req.ProjectName,
		Framework:   req.Framework,
		Template:    Template,
		Files:       req.Files,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal sync request: %w", err)
	}

	url := c.baseURL + "/api/sync/files"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create sync request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sync upload failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read sync response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}

	// The success body is optional JSON; an empty or odd body is not an
	// error once the status said 2xx.
	out := &PushResponse{FileCount: len(req.Files)}
	if len(respBody) > 0 {
		_ = json.Unmarshal(respBody, out)
	}
	return out, nil
}

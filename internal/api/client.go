// Package api is the HTTP client for the board backend. It exposes the two
// calls the board view needs: fetching a board and updating a task's status.
// Every failure, transport or HTTP, wraps types.ErrRemote.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/kanban/pkg/types"
)

// DefaultTimeout bounds a single request when the caller does not set one.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is kept for messages.
const maxErrorBody = 512

// RequestError describes a failed backend call.
type RequestError struct {
	Op         string // "get board" or "update task".
	StatusCode int    // Zero when no response was received.
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if e.Body != "" {
		fmt.Fprintf(&b, ": %s", e.Body)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap exposes both types.ErrRemote and the underlying cause to errors.Is.
func (e *RequestError) Unwrap() []error {
	if e.Err == nil {
		return []error{types.ErrRemote}
	}
	return []error{types.ErrRemote, e.Err}
}

// Client wraps http.Client with the backend's JSON endpoints.
type Client struct {
	BaseURL string
	Bearer  string
	HTTP    *http.Client
	Log     logrus.FieldLogger
}

// New creates a Client for baseURL, e.g. "http://localhost:5000/api".
// A zero timeout selects DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		Log:     logrus.StandardLogger(),
	}
}

// GetBoard fetches a board with all of its tasks.
func (c *Client) GetBoard(ctx context.Context, boardID string) (*types.Board, error) {
	var board types.Board
	path := "/boards/" + url.PathEscape(boardID)
	if err := c.do(ctx, "get board", http.MethodGet, path, nil, &board); err != nil {
		return nil, err
	}
	if board.Tasks == nil {
		board.Tasks = []types.Task{}
	}
	return &board, nil
}

// UpdateTask sends a status patch for one task and returns the task as the
// backend stored it. The returned task may be nil when the backend replies
// without a body.
func (c *Client) UpdateTask(ctx context.Context, boardID, taskID string, patch types.TaskPatch) (*types.Task, error) {
	path := "/boards/" + url.PathEscape(boardID) + "/tasks/" + url.PathEscape(taskID)
	var task *types.Task
	if err := c.do(ctx, "update task", http.MethodPut, path, patch, &task); err != nil {
		return nil, err
	}
	return task, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return &RequestError{Op: op, Err: fmt.Errorf("encoding request: %w", err)}
		}
		reader = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.Bearer)
	}

	start := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.logger().WithFields(logrus.Fields{
		"method":   method,
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &RequestError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &RequestError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

func (c *Client) logger() logrus.FieldLogger {
	if c.Log == nil {
		return logrus.StandardLogger()
	}
	return c.Log
}

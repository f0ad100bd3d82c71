// Package todoist implements the service.Service interface using the Todoist
// REST API.
package todoist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"craftdoist/internal/service"
)

const (
	// DefaultBaseURL is the REST API root.
	DefaultBaseURL = "https://api.todoist.com/rest/v1"

	// APITimeout is the timeout for API calls.
	APITimeout = 10 * time.Second

	// WebTaskURL and WebProjectURL prefix browsable links by ID.
	WebTaskURL    = "https://todoist.com/showTask?id="
	WebProjectURL = "https://todoist.com/showProject?id="

	// maxErrorBody bounds how much of an error response is kept.
	maxErrorBody = 512
)

// Links are the Todoist app deep links.
var Links = service.AppLinks{
	Task:    "todoist://task?id=%s",
	Project: "todoist://project?id=%s",
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.base = strings.TrimRight(u, "/") }
}

// WithHTTPClient sets the base HTTP client. Bearer auth is layered on top.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.baseClient = hc }
}

// Client implements service.Service using the Todoist REST API.
type Client struct {
	base       string
	baseClient *http.Client
	http       *http.Client
}

// New creates a client authenticating with token.
func New(ctx context.Context, token string, opts ...Option) *Client {
	c := &Client{base: DefaultBaseURL}
	for _, opt := range opts {
		opt(c)
	}
	if c.baseClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.baseClient)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	c.http = oauth2.NewClient(ctx, ts)
	return c
}

// Tasks returns open tasks, optionally narrowed by a filter query and
// project.
func (c *Client) Tasks(ctx context.Context, q service.TaskQuery) ([]service.Task, error) {
	params := url.Values{}
	if q.Filter != "" {
		params.Set("filter", q.Filter)
	}
	if q.ProjectID != "" {
		params.Set("project_id", q.ProjectID)
	}

	var wire []wireTask
	if err := c.do(ctx, "get tasks", http.MethodGet, "/tasks", params, nil, &wire); err != nil {
		return nil, err
	}
	out := make([]service.Task, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toTask())
	}
	return out, nil
}

// Task returns a single task, including completed ones.
func (c *Client) Task(ctx context.Context, id string) (service.Task, error) {
	var wire wireTask
	if err := c.do(ctx, "get task", http.MethodGet, "/tasks/"+url.PathEscape(id), nil, nil, &wire); err != nil {
		return service.Task{}, err
	}
	return wire.toTask(), nil
}

// Projects returns all projects.
func (c *Client) Projects(ctx context.Context) ([]service.Project, error) {
	var wire []wireProject
	if err := c.do(ctx, "get projects", http.MethodGet, "/projects", nil, nil, &wire); err != nil {
		return nil, err
	}
	out := make([]service.Project, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toProject())
	}
	return out, nil
}

// Sections returns all sections.
func (c *Client) Sections(ctx context.Context) ([]service.Section, error) {
	var wire []wireSection
	if err := c.do(ctx, "get sections", http.MethodGet, "/sections", nil, nil, &wire); err != nil {
		return nil, err
	}
	out := make([]service.Section, 0, len(wire))
	for _, w := range wire {
		out = append(out, service.Section{ID: string(w.ID), Name: w.Name, ProjectID: string(w.ProjectID)})
	}
	return out, nil
}

// Labels returns all labels.
func (c *Client) Labels(ctx context.Context) ([]service.Label, error) {
	var wire []wireLabel
	if err := c.do(ctx, "get labels", http.MethodGet, "/labels", nil, nil, &wire); err != nil {
		return nil, err
	}
	out := make([]service.Label, 0, len(wire))
	for _, w := range wire {
		out = append(out, service.Label{ID: string(w.ID), Name: w.Name})
	}
	return out, nil
}

// CreateTask creates a task. An empty project puts it in the inbox.
func (c *Client) CreateTask(ctx context.Context, nt service.NewTask) (service.Task, error) {
	body := wireNewTask{
		Content:     nt.Content,
		Description: nt.Description,
		ProjectID:   wireID(nt.ProjectID),
		DueDate:     nt.DueDate,
	}
	var wire wireTask
	if err := c.do(ctx, "create task", http.MethodPost, "/tasks", nil, body, &wire); err != nil {
		return service.Task{}, err
	}
	return wire.toTask(), nil
}

// CloseTask closes a task. Recurring tasks move to their next occurrence.
func (c *Client) CloseTask(ctx context.Context, id string) error {
	return c.do(ctx, "close task", http.MethodPost, "/tasks/"+url.PathEscape(id)+"/close", nil, nil, nil)
}

// AppLinks implements service.Service.
func (c *Client) AppLinks() service.AppLinks {
	return Links
}

func (c *Client) do(ctx context.Context, op, method, path string, params url.Values, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	u := c.base + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = errors.New("request timed out")
		}
		return &service.UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(op, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &service.UpstreamError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// statusError maps a non-2xx response to an UpstreamError with a
// user-friendly message.
func statusError(op string, resp *http.Response) error {
	e := &service.UpstreamError{Op: op, Status: resp.StatusCode}
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		e.Err = errors.New("token expired or revoked (run: craftdoist login)")
	case http.StatusNotFound:
		e.Err = service.ErrNotFound
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		text := strings.TrimSpace(string(msg))
		if text == "" {
			text = http.StatusText(resp.StatusCode)
		}
		e.Err = errors.New(text)
	}
	return e
}

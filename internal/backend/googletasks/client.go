// Package googletasks implements the service.Service interface using Google Tasks API.
//
// Task lists map to projects. Google Tasks has no sections, labels or
// priorities, so those lists are always empty.
package googletasks

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"craftdoist/internal/config"
	"craftdoist/internal/service"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"
)

// Client implements service.Service using Google Tasks API.
type Client struct {
	svc *tasks.Service
	now func() time.Time
}

// OAuthConfig reads the OAuth client credentials from the config directory.
func OAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}
	return oauthConfig, nil
}

// LoadToken reads the stored OAuth token.
func LoadToken(cfg *config.Config) (*oauth2.Token, error) {
	data, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}
	return &token, nil
}

// SaveToken saves an OAuth token with mode 0600.
func SaveToken(cfg *config.Config, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(cfg.TokenPath(), data, 0600)
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	token, err := LoadToken(cfg)
	if err != nil {
		return nil, err
	}

	// Token source refreshes automatically.
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, token))
	return NewWithHTTPClient(ctx, httpClient)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Client{svc: svc, now: time.Now}, nil
}

// Tasks returns open tasks of one list, or of every list when no project is
// given. Only the today filter is supported.
func (c *Client) Tasks(ctx context.Context, q service.TaskQuery) ([]service.Task, error) {
	var dueMax string
	switch q.Filter {
	case "":
	case service.TodayFilter:
		y, m, d := c.now().Date()
		dueMax = time.Date(y, m, d, 23, 59, 59, 0, time.UTC).Format(time.RFC3339)
	default:
		return nil, fmt.Errorf("filter not supported by the google backend: %s", q.Filter)
	}

	listIDs := []string{q.ProjectID}
	if q.ProjectID == "" {
		projects, err := c.Projects(ctx)
		if err != nil {
			return nil, err
		}
		listIDs = listIDs[:0]
		for _, p := range projects {
			listIDs = append(listIDs, p.ID)
		}
	}

	var result []service.Task
	for _, listID := range listIDs {
		items, err := c.listTasks(ctx, listID, dueMax)
		if err != nil {
			return nil, err
		}
		result = append(result, items...)
	}
	return result, nil
}

func (c *Client) listTasks(ctx context.Context, listID, dueMax string) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	call := c.svc.Tasks.List(listID).
		MaxResults(PageSize).
		ShowCompleted(false).
		ShowDeleted(false).
		ShowHidden(false)
	if dueMax != "" {
		call = call.DueMax(dueMax)
	}

	var items []*tasks.Task
	err := call.Pages(ctx, func(resp *tasks.Tasks) error {
		items = append(items, resp.Items...)
		return nil
	})
	if err != nil {
		return nil, wrapError("get tasks", err)
	}

	rank := positionRanks(items)
	result := make([]service.Task, 0, len(items))
	for _, item := range items {
		t := toTask(listID, item)
		t.Order = rank[item]
		result = append(result, t)
	}
	return result, nil
}

// positionRanks numbers the items of one list by position, starting at 1.
// Equal positions keep API order.
func positionRanks(items []*tasks.Task) map[*tasks.Task]int {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b *tasks.Task) int {
		return comparePositions(a.Position, b.Position)
	})
	rank := make(map[*tasks.Task]int, len(sorted))
	for i, item := range sorted {
		rank[item] = i + 1
	}
	return rank
}

// comparePositions orders zero-padded decimal positions. They can exceed 64
// bits, so they are compared by digit count and then as strings.
func comparePositions(a, b string) int {
	a, b = strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		return cmp.Compare(len(a), len(b))
	}
	return strings.Compare(a, b)
}

// Task returns a task by ID, searching every list.
func (c *Client) Task(ctx context.Context, id string) (service.Task, error) {
	listID, item, err := c.find(ctx, id)
	if err != nil {
		return service.Task{}, err
	}
	return toTask(listID, item), nil
}

func (c *Client) find(ctx context.Context, id string) (string, *tasks.Task, error) {
	projects, err := c.Projects(ctx)
	if err != nil {
		return "", nil, err
	}
	for _, p := range projects {
		item, err := c.getTask(ctx, p.ID, id)
		if errors.Is(err, service.ErrNotFound) {
			continue
		}
		if err != nil {
			return "", nil, err
		}
		return p.ID, item, nil
	}
	return "", nil, service.ErrNotFound
}

func (c *Client) getTask(ctx context.Context, listID, id string) (*tasks.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	item, err := c.svc.Tasks.Get(listID, id).Context(ctx).Do()
	if err != nil {
		return nil, wrapError("get task", err)
	}
	return item, nil
}

// Projects returns all task lists in API order.
func (c *Client) Projects(ctx context.Context) ([]service.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var result []service.Project
	err := c.svc.Tasklists.List().MaxResults(100).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			result = append(result, service.Project{ID: list.Id, Name: list.Title})
		}
		return nil
	})
	if err != nil {
		return nil, wrapError("get projects", err)
	}
	return result, nil
}

// Sections implements service.Service. Google Tasks has no sections.
func (c *Client) Sections(ctx context.Context) ([]service.Section, error) {
	return nil, nil
}

// Labels implements service.Service. Google Tasks has no labels.
func (c *Client) Labels(ctx context.Context) ([]service.Label, error) {
	return nil, nil
}

// CreateTask creates a task. An empty project means the default list.
func (c *Client) CreateTask(ctx context.Context, nt service.NewTask) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	listID := nt.ProjectID
	if listID == "" {
		listID = DefaultListID
	}
	item := &tasks.Task{Title: nt.Content, Notes: nt.Description}
	if nt.DueDate != "" {
		day, err := time.Parse(time.DateOnly, nt.DueDate)
		if err != nil {
			return service.Task{}, fmt.Errorf("invalid due date %q: %w", nt.DueDate, err)
		}
		item.Due = day.Format(time.RFC3339)
	}

	created, err := c.svc.Tasks.Insert(listID, item).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError("create task", err)
	}
	return toTask(listID, created), nil
}

// CloseTask marks a task as completed.
func (c *Client) CloseTask(ctx context.Context, id string) error {
	listID, _, err := c.find(ctx, id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err = c.svc.Tasks.Patch(listID, id, &tasks.Task{Status: "completed"}).Context(ctx).Do()
	if err != nil {
		return wrapError("close task", err)
	}
	return nil
}

// AppLinks implements service.Service. Google Tasks has no app deep links.
func (c *Client) AppLinks() service.AppLinks {
	return service.AppLinks{}
}

// toTask maps an API task of list listID. Order is set by positionRanks,
// which needs the whole list.
func toTask(listID string, item *tasks.Task) service.Task {
	t := service.Task{
		ID:          item.Id,
		Content:     item.Title,
		Description: item.Notes,
		ProjectID:   listID,
		ParentID:    item.Parent,
		URL:         item.WebViewLink,
		Completed:   item.Status == "completed",
	}
	if item.Due != "" {
		// Only the date part of due is meaningful.
		date := item.Due
		if len(date) > len(time.DateOnly) {
			date = date[:len(time.DateOnly)]
		}
		t.Due = &service.Due{Date: date}
	}
	return t
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &service.UpstreamError{Op: op, Err: errors.New("request timed out")}
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return &service.UpstreamError{Op: op, Status: http.StatusUnauthorized, Err: errors.New("token expired or revoked (run: craftdoist login)")}
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return &service.UpstreamError{Op: op, Err: err}
	}
	switch apiErr.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &service.UpstreamError{Op: op, Status: apiErr.Code, Err: errors.New("token expired or revoked (run: craftdoist login)")}
	case http.StatusNotFound:
		return &service.UpstreamError{Op: op, Status: apiErr.Code, Err: service.ErrNotFound}
	}
	return &service.UpstreamError{Op: op, Status: apiErr.Code, Err: err}
}

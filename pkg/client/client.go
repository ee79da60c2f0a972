// Package client is a typed HTTP client for the ticktrack API.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/curaious/ticktrack/internal/services/project"
	"github.com/curaious/ticktrack/internal/services/task"
	"github.com/curaious/ticktrack/internal/services/timeentry"
	"github.com/curaious/ticktrack/internal/services/user"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Err     string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d): %s: %s", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Err)
}

type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default traced client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// New creates a client for endpoint authenticating with the bearer token.
func New(endpoint, token string, opts ...Option) *Client {
	c := &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		token:    token,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) RegisterUser(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	return send[*user.User](ctx, c, http.MethodPost, "/users", req, "user")
}

func (c *Client) ListProjects(ctx context.Context) ([]*project.ProjectSummary, error) {
	return send[[]*project.ProjectSummary](ctx, c, http.MethodGet, "/projects", nil, "projects")
}

func (c *Client) GetProject(ctx context.Context, id uuid.UUID) (*project.ProjectSummary, error) {
	return send[*project.ProjectSummary](ctx, c, http.MethodGet, "/projects/"+id.String(), nil, "project")
}

func (c *Client) CreateProject(ctx context.Context, req *project.CreateProjectRequest) (*project.Project, error) {
	return send[*project.Project](ctx, c, http.MethodPost, "/projects", req, "project")
}

func (c *Client) ListProjectTasks(ctx context.Context, projectID uuid.UUID) ([]*task.Task, error) {
	return send[[]*task.Task](ctx, c, http.MethodGet, "/projects/"+projectID.String()+"/tasks", nil, "tasks")
}

func (c *Client) CreateTask(ctx context.Context, req *task.CreateTaskRequest) (*task.Task, error) {
	return send[*task.Task](ctx, c, http.MethodPost, "/tasks", req, "task")
}

func (c *Client) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+id.String(), nil, "", nil)
}

func (c *Client) CreateTimeEntry(ctx context.Context, req *timeentry.CreateTimeEntryRequest) (*timeentry.TimeEntry, error) {
	return send[*timeentry.TimeEntry](ctx, c, http.MethodPost, "/time-entries", req, "timeEntry")
}

func (c *Client) ListTimeEntries(ctx context.Context) ([]*timeentry.TimeEntryDetail, error) {
	return send[[]*timeentry.TimeEntryDetail](ctx, c, http.MethodGet, "/time-entries", nil, "timeEntries")
}

// send performs the request and decodes the envelope field named key.
func send[T any](ctx context.Context, c *Client, method, path string, body any, key string) (T, error) {
	var out T
	if err := c.do(ctx, method, path, body, key, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// do sends body as JSON and decodes the envelope field named key into out.
func (c *Client) do(ctx context.Context, method, path string, body any, key string, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	target, err := url.JoinPath(c.endpoint, path)
	if err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(raw, apiErr)
		return apiErr
	}

	if key == "" || out == nil {
		return nil
	}

	node, err := json.Get(raw, key)
	if err != nil {
		return fmt.Errorf("response has no %q field: %w", key, err)
	}

	data, err := node.Raw()
	if err != nil {
		return fmt.Errorf("failed to read %q field: %w", key, err)
	}

	if err := json.UnmarshalString(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

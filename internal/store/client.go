// Package store is the HTTP client for the task-store API. Every task
// request carries the display name in the X-User-Name header so the store
// can scope tasks per user.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"taskdeck/internal/models"
)

// ErrNotFound reports a 404 from the store, as opposed to a transport
// failure.
var ErrNotFound = errors.New("store: task not found")

// userHeader carries the scoping identity on every task request.
const userHeader = "X-User-Name"

// Client talks to one task store on behalf of one user. The name is read
// through a func so a session change is picked up without rebuilding the
// client.
type Client struct {
	baseURL string
	http    *http.Client
	name    func() string
}

// New returns a Client rooted at baseURL (e.g. http://localhost:8080/api).
// name supplies the current display name per request.
func New(baseURL string, name func() string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		name:    name,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if name := c.name(); name != "" {
		req.Header.Set(userHeader, name)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("store: %s %s returned %s", method, path, resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// List returns all tasks for the current user.
func (c *Client) List(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/todos", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Create adds a task and returns the server record with its assigned id.
func (c *Client) Create(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPost, "/todos", req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Toggle flips a task's completed flag and returns the full updated record.
func (c *Client) Toggle(ctx context.Context, id int64) (*models.Task, error) {
	var task models.Task
	path := "/todos/" + strconv.FormatInt(id, 10) + "/toggle"
	if err := c.do(ctx, http.MethodPut, path, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Update applies a full update and returns the updated record.
func (c *Client) Update(ctx context.Context, id int64, req models.UpdateTaskRequest) (*models.Task, error) {
	var task models.Task
	path := "/todos/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodPut, path, req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Delete removes a task.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/todos/"+strconv.FormatInt(id, 10), nil, nil)
}

// CreateUser registers or echoes a user record by name.
func (c *Client) CreateUser(ctx context.Context, name string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPost, "/users", map[string]string{"name": name}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

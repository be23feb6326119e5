// Package api is the single point of outbound calls to the tracker
// server. The client itself is stateless; the bearer token is read from
// the Session object it was handed at construction.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"taskdeck/internal/model"
	"taskdeck/internal/session"
)

// APIError is a request the server received and rejected
// (success:false). The message is server-supplied and shown verbatim
// where the UI surfaces it.
type APIError struct {
	Message string
}

func (e *APIError) Error() string { return e.Message }

// TransportError is a request that never produced a server verdict:
// connection refused, timeout, or an unreadable response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "server unreachable: " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

type Client struct {
	base string
	http *http.Client
	sess *session.Session
}

func New(baseURL string, timeout time.Duration, sess *session.Session) *Client {
	return &Client{
		base: baseURL,
		http: &http.Client{Timeout: timeout},
		sess: sess,
	}
}

// envelope is the body shape of every response except login.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.sess.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &TransportError{Err: fmt.Errorf("decode response: %w", err)}
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "request failed"
		}
		return &APIError{Message: msg}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &TransportError{Err: fmt.Errorf("decode data: %w", err)}
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// --- Authentication ---

// loginResponse is flat, not enveloped: token and user sit beside success.
type loginResponse struct {
	Success bool       `json:"success"`
	Token   string     `json:"token"`
	User    model.User `json:"user"`
	Error   string     `json:"error"`
}

// Login authenticates and, on success, establishes the session (token
// and user persisted). A rejected login leaves any existing session
// untouched.
func (c *Client) Login(ctx context.Context, username, password string) (model.User, error) {
	body := map[string]string{"username": username, "password": password}
	raw, err := json.Marshal(body)
	if err != nil {
		return model.User{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/login", bytes.NewReader(raw))
	if err != nil {
		return model.User{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return model.User{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return model.User{}, &TransportError{Err: fmt.Errorf("decode response: %w", err)}
	}
	if !lr.Success {
		msg := lr.Error
		if msg == "" {
			msg = "login failed"
		}
		return model.User{}, &APIError{Message: msg}
	}
	if err := c.sess.Establish(lr.Token, lr.User); err != nil {
		return model.User{}, err
	}
	return lr.User, nil
}

// Logout notifies the server best-effort and clears the session. The
// clear runs on every path, including transport failure.
func (c *Client) Logout(ctx context.Context) error {
	defer c.sess.Clear()
	return c.do(ctx, http.MethodPost, "/logout", nil, nil)
}

// --- Tasks ---

func (c *Client) Tasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := c.get(ctx, "/tasks", &tasks)
	return tasks, err
}

func (c *Client) MyTasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := c.get(ctx, "/tasks/my", &tasks)
	return tasks, err
}

func (c *Client) OverdueTasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := c.get(ctx, "/tasks/overdue", &tasks)
	return tasks, err
}

func (c *Client) DueSoonTasks(ctx context.Context, days int) ([]model.Task, error) {
	var tasks []model.Task
	err := c.get(ctx, fmt.Sprintf("/tasks/due-soon?days=%d", days), &tasks)
	return tasks, err
}

func (c *Client) TasksByStatus(ctx context.Context, status string) ([]model.Task, error) {
	var tasks []model.Task
	err := c.get(ctx, "/tasks/by-status/"+url.PathEscape(status), &tasks)
	return tasks, err
}

func (c *Client) TasksByProject(ctx context.Context, project string) ([]model.Task, error) {
	var tasks []model.Task
	err := c.get(ctx, "/tasks/by-project/"+url.PathEscape(project), &tasks)
	return tasks, err
}

// TasksFor dispatches a view filter to its endpoint.
func (c *Client) TasksFor(ctx context.Context, filter model.ViewFilter) ([]model.Task, error) {
	switch filter.Kind {
	case model.ViewMine:
		return c.MyTasks(ctx)
	case model.ViewOverdue:
		return c.OverdueTasks(ctx)
	case model.ViewDueSoon:
		return c.DueSoonTasks(ctx, filter.Days)
	default:
		return c.Tasks(ctx)
	}
}

func (c *Client) CreateTask(ctx context.Context, title, description string, deadlineDays int) (model.Task, error) {
	body := map[string]any{
		"title":        title,
		"description":  description,
		"deadlineDays": deadlineDays,
	}
	var task model.Task
	err := c.do(ctx, http.MethodPost, "/tasks", body, &task)
	return task, err
}

func (c *Client) UpdateTaskStatus(ctx context.Context, taskID int64, status string) error {
	body := map[string]string{"status": status}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d/status", taskID), body, nil)
}

func (c *Client) UpdateTaskPriority(ctx context.Context, taskID int64, priority string) error {
	body := map[string]string{"priority": priority}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d/priority", taskID), body, nil)
}

func (c *Client) AssignTask(ctx context.Context, taskID, assigneeID int64) error {
	body := map[string]int64{"assigneeId": assigneeID}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d/assign", taskID), body, nil)
}

func (c *Client) TaskComments(ctx context.Context, taskID int64) ([]string, error) {
	var comments []string
	err := c.get(ctx, fmt.Sprintf("/tasks/%d/comments", taskID), &comments)
	return comments, err
}

func (c *Client) AddTaskComment(ctx context.Context, taskID int64, comment string) error {
	body := map[string]string{"comment": comment}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/tasks/%d/comments", taskID), body, nil)
}

func (c *Client) TaskMessages(ctx context.Context, taskID int64) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	err := c.get(ctx, fmt.Sprintf("/tasks/%d/messages", taskID), &msgs)
	return msgs, err
}

func (c *Client) RecommendAssignee(ctx context.Context) (model.Recommendation, error) {
	var rec model.Recommendation
	err := c.get(ctx, "/tasks/recommend-assignee", &rec)
	return rec, err
}

// --- Chat ---

func (c *Client) Messages(ctx context.Context) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	err := c.get(ctx, "/chat", &msgs)
	return msgs, err
}

func (c *Client) SendMessage(ctx context.Context, content string) error {
	body := map[string]string{"content": content}
	return c.do(ctx, http.MethodPost, "/chat", body, nil)
}

func (c *Client) PrivateMessages(ctx context.Context, userID int64) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	err := c.get(ctx, fmt.Sprintf("/chat/private/%d", userID), &msgs)
	return msgs, err
}

func (c *Client) SendPrivateMessage(ctx context.Context, targetUserID int64, content string) error {
	body := map[string]any{"targetUserId": targetUserID, "content": content}
	return c.do(ctx, http.MethodPost, "/chat/private", body, nil)
}

// --- Users ---

func (c *Client) Users(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := c.get(ctx, "/users", &users)
	return users, err
}

func (c *Client) OnlineUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := c.get(ctx, "/users/online", &users)
	return users, err
}

// --- Aggregates ---

func (c *Client) Stats(ctx context.Context) (model.Stats, error) {
	var stats model.Stats
	err := c.get(ctx, "/stats", &stats)
	return stats, err
}

func (c *Client) Dashboard(ctx context.Context) (string, error) {
	var data struct {
		Dashboard string `json:"dashboard"`
	}
	err := c.get(ctx, "/dashboard", &data)
	return data.Dashboard, err
}

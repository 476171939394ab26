package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mkarpova/focusdo/internal/model"
)

// DefaultBaseURL is where the development server listens.
const DefaultBaseURL = "http://localhost:8000"

// CredentialSource supplies the token attached to authenticated requests.
// The session store implements this; the client never holds the token
// itself.
type CredentialSource interface {
	Credential() (string, bool)
}

// Client talks to the task-tracker REST service.
type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialSource
}

// NewClient creates a REST client. creds may be nil for a client that only
// performs unauthenticated calls (register/login).
func NewClient(baseURL string, creds CredentialSource) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		creds:   creds,
	}
}

// LoginResult is the token endpoint's success payload.
type LoginResult struct {
	Token    string `json:"token"`
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

// RegisterResult echoes the created user. The server issues a token at
// registration time, so a successful register can log the user in directly.
type RegisterResult struct {
	Token    string `json:"token"`
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, username, email, password string) (RegisterResult, error) {
	var out RegisterResult
	body := map[string]string{"username": username, "email": email, "password": password}
	err := c.do(ctx, http.MethodPost, "/api/register/", body, &out, false)
	return out, err
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	var out LoginResult
	body := map[string]string{"username": username, "password": password}
	err := c.do(ctx, http.MethodPost, "/api-token-auth/", body, &out, false)
	if err != nil {
		return out, err
	}
	if out.Token == "" {
		return out, NewError(KindValidation, "no token received")
	}
	if out.Username == "" {
		out.Username = username
	}
	return out, nil
}

// ListTasks fetches the full task collection.
func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	var out []model.Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks/", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTask sends a draft and returns the server-assigned task.
func (c *Client) CreateTask(ctx context.Context, draft model.Draft) (model.Task, error) {
	var out model.Task
	err := c.do(ctx, http.MethodPost, "/api/tasks/", draft, &out, true)
	return out, err
}

// UpdateTask replaces the task's fields server-side (full PUT).
func (c *Client) UpdateTask(ctx context.Context, task model.Task) (model.Task, error) {
	var out model.Task
	path := fmt.Sprintf("/api/tasks/%d/", task.ID)
	err := c.do(ctx, http.MethodPut, path, task, &out, true)
	return out, err
}

// DeleteTask removes the task server-side.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	path := fmt.Sprintf("/api/tasks/%d/", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, true)
}

// Profile fetches the account summary.
func (c *Client) Profile(ctx context.Context) (model.Profile, error) {
	var out model.Profile
	err := c.do(ctx, http.MethodGet, "/api/user/profile/", nil, &out, true)
	return out, err
}

// do performs one request and maps the outcome onto the error taxonomy.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return wrapError(KindValidation, "encoding request", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return wrapError(KindNetwork, "building request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		token, ok := c.credential()
		if !ok {
			return NewError(KindUnauthenticated, "not logged in")
		}
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return wrapError(KindNetwork, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return NewError(KindUnauthorized, "session expired")
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return NewError(KindValidation, serverMessage(resp.Body))
	case resp.StatusCode >= 500:
		return NewError(KindNetwork, fmt.Sprintf("server error (%d)", resp.StatusCode))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return wrapError(KindNetwork, "decoding response", err)
	}
	return nil
}

func (c *Client) credential() (string, bool) {
	if c.creds == nil {
		return "", false
	}
	return c.creds.Credential()
}

// serverMessage extracts a human-readable message from a DRF-style error
// body: either {"detail": "..."} or {"field": ["msg", ...], ...}.
func serverMessage(r io.Reader) string {
	const fallback = "request rejected by server"

	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return fallback
	}

	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &detail); err == nil && detail.Detail != "" {
		return detail.Detail
	}

	var fields map[string][]string
	if err := json.Unmarshal(data, &fields); err == nil {
		for field, msgs := range fields {
			if len(msgs) > 0 {
				return fmt.Sprintf("%s: %s", field, msgs[0])
			}
		}
	}

	return fallback
}

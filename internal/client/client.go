// Package client is a typed HTTP client for the user API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/restdemo/userapi/internal/apidoc"
	"github.com/restdemo/userapi/internal/handler"
	"github.com/restdemo/userapi/internal/handler/dto"
	"github.com/restdemo/userapi/internal/model"
)

const defaultTimeout = 10 * time.Second

var (
	ErrBadRequest       = errors.New("bad request")
	ErrNotFound         = errors.New("not found")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrTooLarge         = errors.New("payload too large")
	ErrUnavailable      = errors.New("service unavailable")
	ErrInternal         = errors.New("internal server error")
	ErrUnexpected       = errors.New("unexpected response")
)

// APIError is a non-2xx response decoded from the error envelope.
// It unwraps to one of the sentinel errors above.
type APIError struct {
	Status  int
	Message string
	Detail  string
	kind    error
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Message, e.Detail)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to a running user API.
type Client struct {
	http *resty.Client
}

// New creates a Client. A base URL without a scheme is treated as http.
func New(cfg Config) (*Client, error) {
	base, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := resty.New().
		SetBaseURL(base).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{http: c}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	base := strings.TrimSpace(raw)
	if base == "" {
		return "", errors.New("base URL is required")
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return strings.TrimRight(base, "/"), nil
}

// envelope mirrors dto.Response with a typed payload.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

// Root fetches the welcome document.
func (c *Client) Root(ctx context.Context) (*handler.RootResponse, error) {
	var out handler.RootResponse
	if err := c.do(ctx, http.MethodGet, "/", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health fetches the detailed health report.
func (c *Client) Health(ctx context.Context) (*handler.HealthData, error) {
	var out handler.HealthData
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Docs fetches the endpoint summary.
func (c *Client) Docs(ctx context.Context) (*apidoc.Summary, error) {
	var out apidoc.Summary
	if err := c.do(ctx, http.MethodGet, "/api/docs", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Page is one page of users.
type Page struct {
	Items      []model.User   `json:"items"`
	Pagination dto.Pagination `json:"pagination"`
}

// ListUsers fetches a page of users. Zero page or limit uses the server default.
func (c *Client) ListUsers(ctx context.Context, page, limit int) (*Page, error) {
	var out Page
	if err := c.do(ctx, http.MethodGet, "/api/users", pageQuery(page, limit), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchUsers fetches a page of users whose name or email contains q.
func (c *Client) SearchUsers(ctx context.Context, q string, page, limit int) (*Page, error) {
	query := pageQuery(page, limit)
	query["q"] = q

	var out Page
	if err := c.do(ctx, http.MethodGet, "/api/users/search", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats fetches aggregate user statistics.
func (c *Client) Stats(ctx context.Context) (*model.UserStats, error) {
	var out model.UserStats
	if err := c.do(ctx, http.MethodGet, "/api/users/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUser fetches one user by id.
func (c *Client) GetUser(ctx context.Context, id string) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, http.MethodGet, userPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateUser creates a user.
func (c *Client) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, http.MethodPost, "/api/users", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser applies a partial update.
func (c *Client) UpdateUser(ctx context.Context, id string, req dto.UpdateUserRequest) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, http.MethodPut, userPath(id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser deletes a user.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, userPath(id), nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query map[string]string, body, out any) error {
	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.IsError() {
		return mapHTTPError(resp)
	}

	// Data holds out so the payload decodes straight into it.
	env := envelope[any]{Data: out}
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", ErrUnexpected, method, path, err)
	}
	if !env.Success {
		return fmt.Errorf("%w: %s", ErrUnexpected, env.Message)
	}
	return nil
}

func mapHTTPError(resp *resty.Response) error {
	var env envelope[json.RawMessage]
	_ = json.Unmarshal(resp.Body(), &env)

	apiErr := &APIError{
		Status:  resp.StatusCode(),
		Message: env.Message,
		Detail:  env.Error,
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode())
	}

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		apiErr.kind = ErrBadRequest
	case http.StatusNotFound:
		apiErr.kind = ErrNotFound
	case http.StatusMethodNotAllowed:
		apiErr.kind = ErrMethodNotAllowed
	case http.StatusRequestEntityTooLarge:
		apiErr.kind = ErrTooLarge
	case http.StatusServiceUnavailable:
		apiErr.kind = ErrUnavailable
	default:
		if resp.StatusCode() >= http.StatusInternalServerError {
			apiErr.kind = ErrInternal
		} else {
			apiErr.kind = ErrUnexpected
		}
	}
	return apiErr
}

func pageQuery(page, limit int) map[string]string {
	q := make(map[string]string, 3)
	if page > 0 {
		q["page"] = strconv.Itoa(page)
	}
	if limit > 0 {
		q["limit"] = strconv.Itoa(limit)
	}
	return q
}

func userPath(id string) string {
	return "/api/users/" + url.PathEscape(id)
}

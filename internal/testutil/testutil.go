// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/restdemo/userapi/internal/handler/dto"
	"github.com/restdemo/userapi/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Clock is a manually advanced time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a Clock frozen at start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// UserCreator is satisfied by the repository and the service.
type UserCreator interface {
	CreateUser(ctx context.Context, input model.CreateUserInput) (*model.User, error)
}

// DemoUsers returns the three sample users used across tests.
func DemoUsers() []model.CreateUserInput {
	return []model.CreateUserInput{
		{Name: "John Doe", Email: "john@example.com", Age: IntPtr(30)},
		{Name: "Jane Smith", Email: "jane@example.com", Age: IntPtr(25)},
		{Name: "Bob Johnson", Email: "bob@example.com"},
	}
}

// Seed creates every input in order and fails the test on error.
func Seed(t testing.TB, c UserCreator, inputs ...model.CreateUserInput) []*model.User {
	t.Helper()

	users := make([]*model.User, 0, len(inputs))
	for _, in := range inputs {
		u, err := c.CreateUser(context.Background(), in)
		if err != nil {
			t.Fatalf("seed %q: %v", in.Name, err)
		}
		users = append(users, u)
	}
	return users
}

// DecodeEnvelope decodes a response envelope, keeping data as raw JSON.
func DecodeEnvelope(t testing.TB, r io.Reader) (dto.Response, json.RawMessage) {
	t.Helper()

	var raw struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}

	return dto.Response{
		Success: raw.Success,
		Message: raw.Message,
		Error:   raw.Error,
	}, raw.Data
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// StrPtr returns a pointer to v.
func StrPtr(v string) *string {
	return &v
}

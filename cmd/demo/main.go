// Package main walks a running user API through a typical session.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/restdemo/userapi/internal/client"
	"github.com/restdemo/userapi/internal/handler/dto"
)

type demoConfig struct {
	BaseURL string        `env:"API_URL" envDefault:"http://localhost:3000"`
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	var cfg demoConfig
	if err := env.Parse(&cfg); err != nil {
		logger.Error("failed to parse config", "error", err)
		os.Exit(1)
	}

	c, err := client.New(client.Config{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout})
	if err != nil {
		logger.Error("failed to create client", "error", err)
		os.Exit(1)
	}

	logger.Info("starting demo", "base_url", cfg.BaseURL)
	if err := run(context.Background(), c, logger); err != nil {
		logger.Error("demo failed", "error", err)
		os.Exit(1)
	}
	logger.Info("demo completed")
}

func run(ctx context.Context, c *client.Client, logger *slog.Logger) error {
	health, err := c.Health(ctx)
	if err != nil {
		return fmt.Errorf("health: %w", err)
	}
	logger.Info("health check", "version", health.Version, "uptime", health.Uptime)

	docs, err := c.Docs(ctx)
	if err != nil {
		return fmt.Errorf("docs: %w", err)
	}
	for _, key := range docs.Keys() {
		e := docs.Endpoints[key]
		logger.Info("endpoint", "method", e.Method, "path", e.Path, "description", e.Description)
	}

	page, err := c.ListUsers(ctx, 0, 0)
	if err != nil {
		return fmt.Errorf("initial list: %w", err)
	}
	logger.Info("initial users", "total", page.Pagination.Total)

	inputs := []dto.CreateUserRequest{
		{Name: "John Doe", Email: "john@example.com", Age: age(30)},
		{Name: "Jane Smith", Email: "jane@example.com", Age: age(25)},
		{Name: "Bob Johnson", Email: "bob@example.com", Age: age(35)},
	}
	ids := make([]string, 0, len(inputs))
	for _, in := range inputs {
		u, err := c.CreateUser(ctx, in)
		if err != nil {
			return fmt.Errorf("create %s: %w", in.Name, err)
		}
		ids = append(ids, u.ID)
		logger.Info("user created", "id", u.ID, "name", u.Name)
	}

	page, err = c.ListUsers(ctx, 1, 10)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	logger.Info("all users", "total", page.Pagination.Total, "total_pages", page.Pagination.TotalPages)

	found, err := c.SearchUsers(ctx, "John", 0, 0)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	logger.Info("search results", "query", "John", "matches", found.Pagination.Total)

	u, err := c.GetUser(ctx, ids[0])
	if err != nil {
		return fmt.Errorf("get %s: %w", ids[0], err)
	}
	logger.Info("user fetched", "id", u.ID, "email", u.Email)

	name := "John Updated"
	u, err = c.UpdateUser(ctx, ids[0], dto.UpdateUserRequest{Name: &name, Age: age(31)})
	if err != nil {
		return fmt.Errorf("update %s: %w", ids[0], err)
	}
	logger.Info("user updated", "id", u.ID, "name", u.Name)

	stats, err := c.Stats(ctx)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	args := []any{"total_users", stats.TotalUsers, "age_groups", stats.AgeGroups}
	if stats.AverageAge != nil {
		args = append(args, "average_age", *stats.AverageAge)
	}
	logger.Info("user statistics", args...)

	if err := c.DeleteUser(ctx, ids[2]); err != nil {
		return fmt.Errorf("delete %s: %w", ids[2], err)
	}
	logger.Info("user deleted", "id", ids[2])

	page, err = c.ListUsers(ctx, 0, 0)
	if err != nil {
		return fmt.Errorf("final list: %w", err)
	}
	for _, u := range page.Items {
		logger.Info("remaining user", "id", u.ID, "name", u.Name)
	}

	return nil
}

func age(v float64) *float64 {
	return &v
}

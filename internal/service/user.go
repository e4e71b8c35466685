// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/restdemo/userapi/internal/metrics"
	"github.com/restdemo/userapi/internal/model"
	"github.com/restdemo/userapi/internal/repository"
)

// Service errors.
var (
	ErrUserNotFound = errors.New("user not found")
)

// UserStore is the storage contract the service depends on.
type UserStore interface {
	CreateUser(ctx context.Context, input model.CreateUserInput) (*model.User, error)
	ListUsers(ctx context.Context, page, limit int) ([]*model.User, int, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	UpdateUser(ctx context.Context, id string, input model.UpdateUserInput) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
	SearchUsers(ctx context.Context, query string, page, limit int) ([]*model.User, int, error)
	Stats(ctx context.Context) (*model.UserStats, error)
}

// UserService handles user business logic.
type UserService struct {
	store   UserStore
	metrics metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(store UserStore, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		store:   store,
		metrics: recorder,
	}
}

// ListUsersOutput is one page of users with pagination metadata.
type ListUsersOutput struct {
	Users      []*model.User
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// CreateUser stores a new user. Input must already be validated.
func (s *UserService) CreateUser(ctx context.Context, input model.CreateUserInput) (*model.User, error) {
	user, err := s.store.CreateUser(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncUserCreated()

	return user, nil
}

// ListUsers retrieves a page of users in insertion order.
func (s *UserService) ListUsers(ctx context.Context, page, limit int) (*ListUsersOutput, error) {
	users, total, err := s.store.ListUsers(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return newListOutput(users, page, limit, total), nil
}

// SearchUsers retrieves a page of users whose name or email contains query.
func (s *UserService) SearchUsers(ctx context.Context, query string, page, limit int) (*ListUsersOutput, error) {
	users, total, err := s.store.SearchUsers(ctx, query, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	s.metrics.IncUserSearch()

	return newListOutput(users, page, limit, total), nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return user, nil
}

// UpdateUser applies a partial update.
func (s *UserService) UpdateUser(ctx context.Context, id string, input model.UpdateUserInput) (*model.User, error) {
	user, err := s.store.UpdateUser(ctx, id, input)
	if err != nil {
		return nil, mapStoreError(err)
	}

	s.metrics.IncUserUpdated()

	return user, nil
}

// DeleteUser removes a user.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return mapStoreError(err)
	}

	s.metrics.IncUserDeleted()

	return nil
}

// Stats returns aggregate user statistics.
func (s *UserService) Stats(ctx context.Context) (*model.UserStats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute user stats: %w", err)
	}
	return stats, nil
}

// TotalPages returns ceil(total/limit), or 0 for a non-positive limit.
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

func newListOutput(users []*model.User, page, limit, total int) *ListUsersOutput {
	return &ListUsersOutput{
		Users:      users,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: TotalPages(total, limit),
	}
}

func mapStoreError(err error) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrUserNotFound
	}
	return err
}

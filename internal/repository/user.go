package repository

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/restdemo/userapi/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrIDCollision  = errors.New("could not allocate a unique user id")
)

const maxIDRetries = 3

// CreateUser assigns an id and timestamps, appends the user, and returns a copy.
// Input is expected to be validated by the caller.
func (r *Repository) CreateUser(ctx context.Context, input model.CreateUserInput) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkReady(ctx); err != nil {
		return nil, err
	}

	id, err := r.allocateID()
	if err != nil {
		return nil, err
	}

	now := r.now()
	user := &model.User{
		ID:        id,
		Name:      input.Name,
		Email:     input.Email,
		Age:       copyInt(input.Age),
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.index[id] = len(r.users)
	r.users = append(r.users, user)

	return user.Clone(), nil
}

// ListUsers returns one page of users in insertion order plus the total count.
// A page past the end yields an empty slice.
func (r *Repository) ListUsers(ctx context.Context, page, limit int) ([]*model.User, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.checkReady(ctx); err != nil {
		return nil, 0, err
	}

	return paginate(r.users, page, limit), len(r.users), nil
}

// GetUserByID retrieves a user by id.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.checkReady(ctx); err != nil {
		return nil, err
	}

	pos, ok := r.index[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return r.users[pos].Clone(), nil
}

// UpdateUser overwrites the fields present in input and bumps UpdatedAt.
// ID and CreatedAt are never touched.
func (r *Repository) UpdateUser(ctx context.Context, id string, input model.UpdateUserInput) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkReady(ctx); err != nil {
		return nil, err
	}

	pos, ok := r.index[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	user := r.users[pos]
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Age != nil {
		user.Age = copyInt(input.Age)
	}
	user.UpdatedAt = r.nextUpdatedAt(user.UpdatedAt)

	return user.Clone(), nil
}

// DeleteUser removes a user. Deleting a missing id returns ErrUserNotFound.
func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkReady(ctx); err != nil {
		return err
	}

	pos, ok := r.index[id]
	if !ok {
		return ErrUserNotFound
	}

	copy(r.users[pos:], r.users[pos+1:])
	r.users[len(r.users)-1] = nil
	r.users = r.users[:len(r.users)-1]
	delete(r.index, id)

	for i := pos; i < len(r.users); i++ {
		r.index[r.users[i].ID] = i
	}

	return nil
}

// SearchUsers matches query case-insensitively against name or email over the
// whole collection, then paginates the matches like ListUsers.
func (r *Repository) SearchUsers(ctx context.Context, query string, page, limit int) ([]*model.User, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.checkReady(ctx); err != nil {
		return nil, 0, err
	}

	q := strings.ToLower(query)
	matches := make([]*model.User, 0)
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Email), q) {
			matches = append(matches, u)
		}
	}

	return paginate(matches, page, limit), len(matches), nil
}

// Stats aggregates the collection. AverageAge is nil when no user has an age.
func (r *Repository) Stats(ctx context.Context) (*model.UserStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.checkReady(ctx); err != nil {
		return nil, err
	}

	stats := &model.UserStats{
		TotalUsers: len(r.users),
		AgeGroups:  make(map[string]int),
	}

	sum, n := 0, 0
	for _, u := range r.users {
		if u.Age == nil {
			continue
		}
		sum += *u.Age
		n++
		stats.AgeGroups[model.AgeBandFor(*u.Age)]++
	}

	if n > 0 {
		avg := math.Round(float64(sum)/float64(n)*100) / 100
		stats.AverageAge = &avg
	}

	return stats, nil
}

// allocateID must be called with the write lock held.
func (r *Repository) allocateID() (string, error) {
	for i := 0; i < maxIDRetries; i++ {
		id := r.ids.NextID()
		if _, taken := r.index[id]; !taken {
			return id, nil
		}
	}
	return "", ErrIDCollision
}

// nextUpdatedAt guarantees UpdatedAt strictly increases even on coarse clocks.
func (r *Repository) nextUpdatedAt(prev time.Time) time.Time {
	now := r.now()
	if !now.After(prev) {
		return prev.Add(time.Nanosecond)
	}
	return now
}

// paginate returns copies of users[(page-1)*limit : (page-1)*limit+limit].
func paginate(users []*model.User, page, limit int) []*model.User {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || page-1 > len(users)/limit {
		return []*model.User{}
	}

	start := (page - 1) * limit
	end := len(users)
	if limit < end-start {
		end = start + limit
	}
	if start >= end {
		return []*model.User{}
	}

	out := make([]*model.User, 0, end-start)
	for _, u := range users[start:end] {
		out = append(out, u.Clone())
	}
	return out
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restdemo/userapi/internal/model"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

// stepClock advances by one second on every call.
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	cur := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		cur = cur.Add(time.Second)
		return cur
	}
}

func newTestRepository(t *testing.T, opts ...Option) *Repository {
	t.Helper()
	return New(opts...)
}

func mustCreate(t *testing.T, r *Repository, name, email string, age *int) *model.User {
	t.Helper()
	u, err := r.CreateUser(context.Background(), model.CreateUserInput{Name: name, Email: email, Age: age})
	require.NoError(t, err)
	return u
}

func TestRepository_CreateUser(t *testing.T) {
	r := newTestRepository(t)

	u := mustCreate(t, r, "John Doe", "john@example.com", intPtr(30))

	assert.Equal(t, "user_1", u.ID)
	assert.Equal(t, "John Doe", u.Name)
	assert.Equal(t, "john@example.com", u.Email)
	require.NotNil(t, u.Age)
	assert.Equal(t, 30, *u.Age)
	assert.False(t, u.CreatedAt.IsZero())
	assert.Equal(t, u.CreatedAt, u.UpdatedAt)
}

func TestRepository_CreateUser_UniqueIDs(t *testing.T) {
	r := newTestRepository(t)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		u := mustCreate(t, r, fmt.Sprintf("user %d", i), fmt.Sprintf("u%d@example.com", i), nil)
		assert.False(t, seen[u.ID], "duplicate id %s", u.ID)
		seen[u.ID] = true
	}
}

func TestRepository_CreateUser_IDNotReusedAfterDelete(t *testing.T) {
	ctx := context.Background()
	r := newTestRepository(t)

	first := mustCreate(t, r, "A", "a@example.com", nil)
	require.NoError(t, r.DeleteUser(ctx, first.ID))

	second := mustCreate(t, r, "B", "b@example.com", nil)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "user_2", second.ID)
}

func TestRepository_CreateUser_NoAliasing(t *testing.T) {
	ctx := context.Background()
	r := newTestRepository(t)

	age := 40
	u := mustCreate(t, r, "A", "a@example.com", &age)
	age = 1
	u.Name = "mutated"
	*u.Age = 2

	got, err := r.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)
	assert.Equal(t, 40, *got.Age)
}

func TestRepository_ListUsers_Pagination(t *testing.T) {
	ctx := context.Background()
	r := newTestRepository(t)
	for i := 1; i <= 25; i++ {
		mustCreate(t, r, fmt.Sprintf("user %d", i), fmt.Sprintf("u%d@example.com", i), nil)
	}

	tests := []struct {
		name      string
		page      int
		limit     int
		wantCount int
		wantFirst string
	}{
		{name: "first page", page: 1, limit: 10, wantCount: 10, wantFirst: "user_1"},
		{name: "second page", page: 2, limit: 10, wantCount: 10, wantFirst: "user_11"},
		{name: "partial last page", page: 3, limit: 10, wantCount: 5, wantFirst: "user_21"},
		{name: "beyond end", page: 4, limit: 10, wantCount: 0},
		{name: "far beyond end", page: 1 << 40, limit: 100, wantCount: 0},
		{name: "limit exceeds total", page: 1, limit: 100, wantCount: 25, wantFirst: "user_1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := r.ListUsers(ctx, tt.page, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, 25, total)
			require.Len(t, items, tt.wantCount)
			assert.NotNil(t, items)
			if tt.wantCount > 0 {
				assert.Equal(t, tt.wantFirst, items[0].ID)
			}
		})
	}
}

func TestRepository_ListUsers_CountFormula(t *testing.T) {
	ctx := context.Background()

	for n := 0; n <= 7; n++ {
		r := newTestRepository(t)
		for i := 0; i < n; i++ {
			mustCreate(t, r, "x", "x@example.com", nil)
		}
		for page := 1; page <= 4; page++ {
			for limit := 1; limit <= 4; limit++ {
				items, total, err := r.ListUsers(ctx, page, limit)
				require.NoError(t, err)
				want := min(limit, max(0, n-(page-1)*limit))
				assert.Equal(t, n, total)
				assert.Len(t, items, want, "n=%d page=%d limit=%d", n, page, limit)
			}
		}
	}
}

func TestRepository_GetUserByID_NotFound(t *testing.T) {
	r := newTestRepository(t)

	_, err := r.GetUserByID(context.Background(), "user_404")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRepository_UpdateUser_PartialFields(t *testing.T) {
	ctx := context.Background()
	r := newTestRepository(t, WithClock(stepClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))))

	orig := mustCreate(t, r, "John Doe", "john@example.com", intPtr(30))

	updated, err := r.UpdateUser(ctx, orig.ID, model.UpdateUserInput{Age: intPtr(31)})
	require.NoError(t, err)

	assert.Equal(t, orig.ID, updated.ID)
	assert.Equal(t, orig.Name, updated.Name)
	assert.Equal(t, orig.Email, updated.Email)
	assert.Equal(t, orig.CreatedAt, updated.CreatedAt)
	assert.Equal(t, 31, *updated.Age)
	assert.True(t, updated.UpdatedAt.After(orig.UpdatedAt))
}

func TestRepository_UpdateUser_StrictlyIncreasesWithFrozenClock(t *testing.T) {
	ctx := context.Background()
	frozen := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := newTestRepository(t, WithClock(func() time.Time { return frozen }))

	u := mustCreate(t, r, "A", "a@example.com", nil)

	prev := u.UpdatedAt
	for i := 0; i < 3; i++ {
		next, err := r.UpdateUser(ctx, u.ID, model.UpdateUserInput{Name: strPtr(fmt.Sprintf("A%d", i))})
		require.NoError(t, err)
		assert.True(t, next.UpdatedAt.After(prev))
		assert.Equal(t, frozen, next.CreatedAt)
		prev = next.UpdatedAt
	}
}

func TestRepository_UpdateUser_NotFound(t *testing.T) {
	r := newTestRepository(t)

	_, err := r.UpdateUser(context.Background(), "user_9", model.UpdateUserInput{Age: intPtr(31)})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRepository_DeleteUser(t *testing.T) {
	ctx := context.Background()
	r := newTestRepository(t)

	a := mustCreate(t, r, "A", "a@example.com", nil)
	b := mustCreate(t, r, "B", "b@example.com", nil)
	c := mustCreate(t, r, "C", "c@example.com", nil)

	require.NoError(t, r.DeleteUser(ctx, b.ID))

	_, err := r.GetUserByID(ctx, b.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.ErrorIs(t, r.DeleteUser(ctx, b.ID), ErrUserNotFound)

	// Index must still resolve entries after the removed position.
	got, err := r.GetUserByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "C", got.Name)

	items, total, err := r.ListUsers(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, []string{a.ID, c.ID}, []string{items[0].ID, items[1].ID})
}

func TestRepository_SearchUsers(t *testing.T) {
	ctx := context.Background()
	r := newTestRepository(t)

	john := mustCreate(t, r, "John Doe", "jd@example.com", nil)
	jane := mustCreate(t, r, "Jane", "jane@x.com", nil)
	other := mustCreate(t, r, "Someone", "john@x.com", nil)

	items, total, err := r.SearchUsers(ctx, "JOHN", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	ids := make([]string, 0, len(items))
	for _, u := range items {
		ids = append(ids, u.ID)
	}
	assert.Equal(t, []string{john.ID, other.ID}, ids)
	assert.NotContains(t, ids, jane.ID)
}

func TestRepository_SearchUsers_Paginates(t *testing.T) {
	ctx := context.Background()
	r := newTestRepository(t)
	for i := 0; i < 5; i++ {
		mustCreate(t, r, fmt.Sprintf("match %d", i), "m@example.com", nil)
		mustCreate(t, r, "other", "o@example.com", nil)
	}

	items, total, err := r.SearchUsers(ctx, "match", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, items, 2)
	assert.Equal(t, "match 2", items[0].Name)

	items, total, err = r.SearchUsers(ctx, "match", 9, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Empty(t, items)
}

func TestRepository_Stats(t *testing.T) {
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		r := newTestRepository(t)
		stats, err := r.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, stats.TotalUsers)
		assert.Nil(t, stats.AverageAge)
		assert.NotNil(t, stats.AgeGroups)
		assert.Empty(t, stats.AgeGroups)
	})

	t.Run("two ages", func(t *testing.T) {
		r := newTestRepository(t)
		mustCreate(t, r, "A", "a@example.com", intPtr(30))
		mustCreate(t, r, "B", "b@example.com", intPtr(25))

		stats, err := r.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.TotalUsers)
		require.NotNil(t, stats.AverageAge)
		assert.Equal(t, 27.5, *stats.AverageAge)
		assert.Equal(t, map[string]int{"25-34": 2}, stats.AgeGroups)
	})

	t.Run("no ages", func(t *testing.T) {
		r := newTestRepository(t)
		mustCreate(t, r, "A", "a@example.com", nil)

		stats, err := r.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.TotalUsers)
		assert.Nil(t, stats.AverageAge)
		assert.Empty(t, stats.AgeGroups)
	})

	t.Run("rounding and bands", func(t *testing.T) {
		r := newTestRepository(t)
		mustCreate(t, r, "A", "a@example.com", intPtr(10))
		mustCreate(t, r, "B", "b@example.com", intPtr(20))
		mustCreate(t, r, "C", "c@example.com", intPtr(70))
		mustCreate(t, r, "D", "d@example.com", nil)

		stats, err := r.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, stats.TotalUsers)
		assert.Equal(t, 33.33, *stats.AverageAge)
		assert.Equal(t, map[string]int{"0-17": 1, "18-24": 1, "65+": 1}, stats.AgeGroups)
	})

	t.Run("zero average is not null", func(t *testing.T) {
		r := newTestRepository(t)
		mustCreate(t, r, "Baby", "b@example.com", intPtr(0))

		stats, err := r.Stats(ctx)
		require.NoError(t, err)
		require.NotNil(t, stats.AverageAge)
		assert.Equal(t, 0.0, *stats.AverageAge)
	})
}

func TestRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	r := newTestRepository(t)

	mustCreate(t, r, "A", "a@example.com", nil)
	b := mustCreate(t, r, "B", "b@example.com", nil)
	mustCreate(t, r, "C", "c@example.com", nil)

	_, total, err := r.ListUsers(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	require.NoError(t, r.DeleteUser(ctx, b.ID))

	items, total, err := r.ListUsers(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, u := range items {
		assert.NotEqual(t, b.ID, u.ID)
	}
}

func TestRepository_Closed(t *testing.T) {
	ctx := context.Background()
	r := newTestRepository(t)
	mustCreate(t, r, "A", "a@example.com", nil)

	require.NoError(t, r.Ping(ctx))
	require.NoError(t, r.Close())

	assert.ErrorIs(t, r.Ping(ctx), ErrClosed)
	_, err := r.CreateUser(ctx, model.CreateUserInput{Name: "B", Email: "b@example.com"})
	assert.ErrorIs(t, err, ErrClosed)
	_, _, err = r.ListUsers(ctx, 1, 10)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestRepository_CancelledContext(t *testing.T) {
	r := newTestRepository(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.CreateUser(ctx, model.CreateUserInput{Name: "A", Email: "a@example.com"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, r.Len())
}

func TestRepository_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	r := newTestRepository(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := r.CreateUser(ctx, model.CreateUserInput{Name: "n", Email: "e@example.com", Age: intPtr(i)})
			if err != nil {
				t.Error(err)
				return
			}
			_, _, _ = r.SearchUsers(ctx, "n", 1, 5)
			_, _ = r.Stats(ctx)
			if i%2 == 0 {
				_ = r.DeleteUser(ctx, u.ID)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, r.Len())
}

// collidingGenerator always returns the same id.
type collidingGenerator struct{}

func (collidingGenerator) NextID() string { return "dup" }

func TestRepository_CreateUser_IDCollision(t *testing.T) {
	r := newTestRepository(t, WithIDGenerator(collidingGenerator{}))

	mustCreate(t, r, "A", "a@example.com", nil)
	_, err := r.CreateUser(context.Background(), model.CreateUserInput{Name: "B", Email: "b@example.com"})
	assert.ErrorIs(t, err, ErrIDCollision)
}

package metrics

import (
	"sync/atomic"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersCreated       uint64
	UsersUpdated       uint64
	UsersDeleted       uint64
	UserSearches       uint64
	ValidationFailures uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	usersCreated       uint64
	usersUpdated       uint64
	usersDeleted       uint64
	userSearches       uint64
	validationFailures uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersCreated:       atomic.LoadUint64(&m.usersCreated),
		UsersUpdated:       atomic.LoadUint64(&m.usersUpdated),
		UsersDeleted:       atomic.LoadUint64(&m.usersDeleted),
		UserSearches:       atomic.LoadUint64(&m.userSearches),
		ValidationFailures: atomic.LoadUint64(&m.validationFailures),
	}
}

// IncUserCreated increments the user created counter.
func (m *InMemoryRecorder) IncUserCreated() {
	atomic.AddUint64(&m.usersCreated, 1)
}

// IncUserUpdated increments the user updated counter.
func (m *InMemoryRecorder) IncUserUpdated() {
	atomic.AddUint64(&m.usersUpdated, 1)
}

// IncUserDeleted increments the user deleted counter.
func (m *InMemoryRecorder) IncUserDeleted() {
	atomic.AddUint64(&m.usersDeleted, 1)
}

// IncUserSearch increments the search counter.
func (m *InMemoryRecorder) IncUserSearch() {
	atomic.AddUint64(&m.userSearches, 1)
}

// IncValidationFailure increments the rejected-request counter.
func (m *InMemoryRecorder) IncValidationFailure() {
	atomic.AddUint64(&m.validationFailures, 1)
}

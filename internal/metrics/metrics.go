// Package metrics counts user API events.
package metrics

// Recorder receives one call per countable event.
type Recorder interface {
	IncUserCreated()
	IncUserUpdated()
	IncUserDeleted()
	IncUserSearch()
	IncValidationFailure()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}

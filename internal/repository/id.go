package repository

import (
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// DefaultIDPrefix is the prefix used by sequential ids ("user_1", "user_2", ...).
const DefaultIDPrefix = "user_"

// Supported id strategies.
const (
	IDStrategySequential = "sequential"
	IDStrategyUUID       = "uuid"
	IDStrategyULID       = "ulid"
)

// ErrUnknownIDStrategy is returned for an unsupported strategy name.
var ErrUnknownIDStrategy = errors.New("unknown id strategy")

// IDGenerator produces opaque user ids.
type IDGenerator interface {
	NextID() string
}

// SequentialIDGenerator issues prefix+N with N strictly increasing from 1.
// Ids are never reused, even after a delete.
type SequentialIDGenerator struct {
	prefix string
	next   atomic.Uint64
}

// NewSequentialIDGenerator creates a counter-based generator.
func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	return &SequentialIDGenerator{prefix: prefix}
}

// NextID returns the next id in sequence.
func (g *SequentialIDGenerator) NextID() string {
	return g.prefix + strconv.FormatUint(g.next.Add(1), 10)
}

// UUIDGenerator issues random v4 UUIDs.
type UUIDGenerator struct{}

// NextID returns a new UUID string.
func (UUIDGenerator) NextID() string {
	return uuid.New().String()
}

// ULIDGenerator issues lexicographically sortable ULIDs.
type ULIDGenerator struct{}

// NextID returns a new ULID string.
func (ULIDGenerator) NextID() string {
	return ulid.Make().String()
}

// NewIDGenerator resolves a strategy name from configuration.
func NewIDGenerator(strategy string) (IDGenerator, error) {
	switch strategy {
	case "", IDStrategySequential:
		return NewSequentialIDGenerator(DefaultIDPrefix), nil
	case IDStrategyUUID:
		return UUIDGenerator{}, nil
	case IDStrategyULID:
		return ULIDGenerator{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownIDStrategy, strategy)
	}
}

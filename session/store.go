// Package session keeps the per-user conversation transcript shown by the
// front end. The matcher never reads it.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultMaxTurns = 50
	DefaultTTL      = 24 * time.Hour
)

type Turn struct {
	Query string    `json:"query"`
	Reply string    `json:"reply"`
	Kind  string    `json:"kind"`
	At    time.Time `json:"at"`
}

type Store interface {
	Append(ctx context.Context, id string, turn Turn) error
	History(ctx context.Context, id string) ([]Turn, error)
}

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like a session identifier issued by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

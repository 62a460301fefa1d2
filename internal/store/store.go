// internal/store/store.go
//
// Room persistence contract used by the rooms service.
//
// Every backend keeps one record per room code plus a version counter.
// Writes that depend on a previous read go through CompareAndSwap so two
// browsers updating the same room cannot silently overwrite each other.

package store

import (
	"context"
	"errors"

	"github.com/robalobadob/rummy-rooms/internal/game"
)

var (
	// ErrNotFound is returned when no room exists for a code.
	ErrNotFound = errors.New("store: room not found")
	// ErrExists is returned by Create when the code is already taken.
	ErrExists = errors.New("store: room already exists")
)

// Version identifies one stored revision of a room. It starts at 1 on
// Create and increases by one on every successful write.
type Version uint64

// Store defines the persistence interface for rooms.
// Implementations: memory (this package), SQLite, Redis.
type Store interface {
	// Get returns a private copy of the room and its current version.
	// Returns ErrNotFound if the code is unknown.
	Get(ctx context.Context, code string) (*game.Room, Version, error)

	// Create stores a new room only if its code is unused.
	// Returns ErrExists if the code is taken.
	Create(ctx context.Context, room *game.Room) error

	// Put overwrites the room unconditionally and returns the new version.
	Put(ctx context.Context, room *game.Room) (Version, error)

	// CompareAndSwap writes room only if the stored version still equals
	// expected. A lost race reports (false, nil); a vanished room reports
	// ErrNotFound.
	CompareAndSwap(ctx context.Context, expected Version, room *game.Room) (bool, error)

	// Close releases backend resources.
	Close() error
}

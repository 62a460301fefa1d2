// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Used in development/testing, or when durability is not required.
//
// Characteristics:
//   - Rooms are keyed by code in a map, each with its version.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Rooms are deep-copied in and out so callers never share slices.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sync"

	"github.com/robalobadob/rummy-rooms/internal/game"
)

type memEntry struct {
	room    *game.Room
	version Version
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex         // guards rooms map
	rooms map[string]*memEntry // keyed by Room.Code
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{rooms: make(map[string]*memEntry)}
}

func (m *memory) Get(ctx context.Context, code string) (*game.Room, Version, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.rooms[code]
	if !ok {
		return nil, 0, ErrNotFound
	}
	return e.room.Clone(), e.version, nil
}

func (m *memory) Create(ctx context.Context, room *game.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[room.Code]; ok {
		return ErrExists
	}
	m.rooms[room.Code] = &memEntry{room: room.Clone(), version: 1}
	return nil
}

func (m *memory) Put(ctx context.Context, room *game.Room) (Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var v Version = 1
	if e, ok := m.rooms[room.Code]; ok {
		v = e.version + 1
	}
	m.rooms[room.Code] = &memEntry{room: room.Clone(), version: v}
	return v, nil
}

func (m *memory) CompareAndSwap(ctx context.Context, expected Version, room *game.Room) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rooms[room.Code]
	if !ok {
		return false, ErrNotFound
	}
	if e.version != expected {
		return false, nil
	}
	e.room = room.Clone()
	e.version++
	return true, nil
}

func (m *memory) Close() error { return nil }

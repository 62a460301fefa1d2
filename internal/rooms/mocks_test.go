package rooms

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/robalobadob/rummy-rooms/internal/game"
	"github.com/robalobadob/rummy-rooms/internal/store"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, code string) (*game.Room, store.Version, error) {
	args := m.Called(ctx, code)
	r, _ := args.Get(0).(*game.Room)
	if r != nil {
		r = r.Clone()
	}
	return r, args.Get(1).(store.Version), args.Error(2)
}

func (m *MockStore) Create(ctx context.Context, room *game.Room) error {
	return m.Called(ctx, room).Error(0)
}

func (m *MockStore) Put(ctx context.Context, room *game.Room) (store.Version, error) {
	args := m.Called(ctx, room)
	return args.Get(0).(store.Version), args.Error(1)
}

func (m *MockStore) CompareAndSwap(ctx context.Context, expected store.Version, room *game.Room) (bool, error) {
	args := m.Called(ctx, expected, room)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) Close() error { return m.Called().Error(0) }

// racingStore lets one other writer sneak in before the first CompareAndSwap,
// reproducing the lost-update interleaving deterministically.
type racingStore struct {
	store.Store
	interfere func()
	fired     bool
}

func (r *racingStore) CompareAndSwap(ctx context.Context, expected store.Version, room *game.Room) (bool, error) {
	if !r.fired {
		r.fired = true
		r.interfere()
	}
	return r.Store.CompareAndSwap(ctx, expected, room)
}

// internal/rooms/service.go
//
// Store-backed room operations.
// Responsibilities:
//   - Create rooms under fresh, store-unique codes.
//   - Run every mutation as read → apply → compare-and-swap, retrying on a
//     lost race up to MaxAttempts before reporting game.ErrConflict.
//   - Build the board view (totals, current round, requirement).
//
// Notes:
//   - The service holds no room state of its own; any number of requests
//     for unrelated or identical rooms can run concurrently.
//   - Validation failures are returned immediately and never retried.

package rooms

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/rummy-rooms/internal/game"
	"github.com/robalobadob/rummy-rooms/internal/store"
)

const (
	// DefaultMaxAttempts bounds the compare-and-swap loop per operation.
	DefaultMaxAttempts = 8
	maxCodeAttempts    = 10
)

// Service applies game operations to rooms held in a store.Store.
type Service struct {
	store       store.Store
	rounding    game.Rounding
	maxAttempts int
	newCode     func() (string, error)
}

// Option configures a Service.
type Option func(*Service)

// WithRounding sets the policy applied to submitted scores.
func WithRounding(p game.Rounding) Option {
	return func(s *Service) { s.rounding = p }
}

// WithMaxAttempts bounds the compare-and-swap retries per operation.
func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithCodeGenerator replaces game.NewCode (tests use it to force collisions).
func WithCodeGenerator(gen func() (string, error)) Option {
	return func(s *Service) { s.newCode = gen }
}

// NewService constructs a Service. Scores are stored raw unless WithRounding
// says otherwise.
func NewService(st store.Store, opts ...Option) *Service {
	if st == nil {
		panic("store cannot be nil for rooms.Service")
	}
	s := &Service{
		store:       st,
		rounding:    game.RoundingRaw,
		maxAttempts: DefaultMaxAttempts,
		newCode:     game.NewCode,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Rounding reports the score policy in effect.
func (s *Service) Rounding() game.Rounding { return s.rounding }

// CreateRoom stores a new empty room under a freshly generated code.
// A code that already exists is never reused; a new one is drawn instead.
func (s *Service) CreateRoom(ctx context.Context) (*game.Room, error) {
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, fmt.Errorf("generate room code: %w", err)
		}
		room := game.NewRoom(code)
		err = s.store.Create(ctx, room)
		if err == nil {
			log.Info().Str("room", room.Code).Int("attempt", attempt).Msg("room created")
			return room, nil
		}
		if !errors.Is(err, store.ErrExists) {
			return nil, fmt.Errorf("create room: %w", err)
		}
		log.Warn().Str("room", room.Code).Int("attempt", attempt).Msg("room code taken, retrying")
	}
	return nil, fmt.Errorf("no free room code after %d attempts", maxCodeAttempts)
}

// Get loads a room by code (case-insensitive).
func (s *Service) Get(ctx context.Context, code string) (*game.Room, error) {
	code = game.NormalizeCode(code)
	if !game.ValidCode(code) {
		return nil, fmt.Errorf("%w: %q", game.ErrNotFound, code)
	}
	room, _, err := s.store.Get(ctx, code)
	if err != nil {
		return nil, mapStoreError(code, err)
	}
	return room, nil
}

// Join resolves a typed room code to an existing room.
func (s *Service) Join(ctx context.Context, code string) (*game.Room, error) {
	room, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("room", room.Code).Msg("room joined")
	return room, nil
}

// SetPlayers records the roster of a room that has none yet.
func (s *Service) SetPlayers(ctx context.Context, code string, names []string) (*game.Room, error) {
	return s.update(ctx, code, func(r *game.Room) (bool, error) {
		return true, r.SetPlayers(names)
	})
}

// AddRound appends one round of scores, one per player.
func (s *Service) AddRound(ctx context.Context, code string, scores []int) (*game.Room, error) {
	return s.update(ctx, code, func(r *game.Room) (bool, error) {
		return true, r.AddRound(scores, s.rounding)
	})
}

// UndoLastRound removes the most recent round. On a room without rounds it
// returns the room unchanged and does not write.
func (s *Service) UndoLastRound(ctx context.Context, code string) (*game.Room, error) {
	return s.update(ctx, code, func(r *game.Room) (bool, error) {
		return r.UndoLastRound(), nil
	})
}

// update runs one read-modify-write cycle under optimistic concurrency.
// apply reports whether it changed the room; unchanged rooms are not written.
func (s *Service) update(ctx context.Context, code string, apply func(*game.Room) (bool, error)) (*game.Room, error) {
	code = game.NormalizeCode(code)
	if !game.ValidCode(code) {
		return nil, fmt.Errorf("%w: %q", game.ErrNotFound, code)
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		room, version, err := s.store.Get(ctx, code)
		if err != nil {
			return nil, mapStoreError(code, err)
		}
		changed, err := apply(room)
		if err != nil {
			return nil, err
		}
		if !changed {
			return room, nil
		}
		ok, err := s.store.CompareAndSwap(ctx, version, room)
		if err != nil {
			return nil, mapStoreError(code, err)
		}
		if ok {
			return room, nil
		}
		log.Debug().Str("room", code).Int("attempt", attempt).Uint64("version", uint64(version)).Msg("lost update race, retrying")
	}

	log.Warn().Str("room", code).Int("attempts", s.maxAttempts).Msg("update gave up")
	return nil, fmt.Errorf("%w: room %s changed %d times while updating", game.ErrConflict, code, s.maxAttempts)
}

func mapStoreError(code string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %s", game.ErrNotFound, code)
	}
	return fmt.Errorf("room %s: %w", code, err)
}

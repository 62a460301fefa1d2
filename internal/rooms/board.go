package rooms

import (
	"context"

	"github.com/robalobadob/rummy-rooms/internal/game"
)

// Board is everything a client needs to draw a room.
type Board struct {
	Room         *game.Room       `json:"room"`
	Totals       []int            `json:"totals"`
	RoundIndex   int              `json:"roundIndex"`  // zero-based round about to be played
	RoundNumber  int              `json:"roundNumber"` // RoundIndex + 1, for display
	Requirement  string           `json:"requirement"`
	Requirements []string         `json:"requirements"`
	CardValues   []game.CardValue `json:"cardValues"`
	Staffed      bool             `json:"staffed"`
	Rounding     string           `json:"rounding"`
}

// NewBoard derives the board view of a room.
func NewBoard(r *game.Room, policy game.Rounding) *Board {
	idx := r.CurrentRoundIndex()
	return &Board{
		Room:         r,
		Totals:       r.Totals(),
		RoundIndex:   idx,
		RoundNumber:  idx + 1,
		Requirement:  game.RequirementFor(idx),
		Requirements: game.Requirements(),
		CardValues:   game.CardValues(),
		Staffed:      r.Staffed(),
		Rounding:     policy.String(),
	}
}

// Board loads a room and derives its board view.
func (s *Service) Board(ctx context.Context, code string) (*Board, error) {
	r, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	return NewBoard(r, s.rounding), nil
}

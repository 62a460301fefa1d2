// internal/game/engine.go
//
// Core engine for a single Rummy room.
// Responsibilities:
//   - Create empty rooms and short room codes.
//   - Register the roster exactly once (Empty → Staffed).
//   - Append and undo rounds, validating width against the roster.
//   - Derive totals and the current round index from the rounds.
//
// Notes:
//   - Nothing here touches storage; rooms.Service wraps these methods in a
//     compare-and-swap loop against a store.Store.
//   - Totals are never stored, only recomputed.
package game

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"strings"
)

const (
	codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeLength   = 4
	maxCodeLen   = 16
)

// NewRoom returns an empty room (no players, no rounds) for code.
func NewRoom(code string) *Room {
	return &Room{
		Code:    NormalizeCode(code),
		Players: []string{},
		Rounds:  []Round{},
	}
}

// NewCode returns a random 4-character room code from crypto/rand.
// Uniqueness is the store's job: callers retry on store.ErrExists.
func NewCode() (string, error) {
	var b [codeLength]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b[:]), nil
}

// NormalizeCode returns the canonical (trimmed, uppercase) form of a code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidCode reports whether a normalized code could name a room.
func ValidCode(code string) bool {
	if code == "" || len(code) > maxCodeLen {
		return false
	}
	for _, r := range code {
		if !strings.ContainsRune(codeAlphabet, r) {
			return false
		}
	}
	return true
}

// Staffed reports whether the roster has been set.
func (r *Room) Staffed() bool { return len(r.Players) > 0 }

// SetPlayers records the roster. It can only happen once per room.
//
// Validation rules:
//   - Room must not already have players.
//   - names must hold 1..MaxPlayers non-empty strings.
//
// Names are stored verbatim, duplicates included.
func (r *Room) SetPlayers(names []string) error {
	if r.Staffed() {
		return fmt.Errorf("%w: players already set for room %s", ErrInvalidState, r.Code)
	}
	if len(names) == 0 {
		return fmt.Errorf("%w: player list is empty", ErrInvalidInput)
	}
	if len(names) > MaxPlayers {
		return fmt.Errorf("%w: at most %d players", ErrInvalidInput, MaxPlayers)
	}
	for i, n := range names {
		if n == "" {
			return fmt.Errorf("%w: player %d has no name", ErrInvalidInput, i+1)
		}
	}
	r.Players = append([]string(nil), names...)
	return nil
}

// AddRound appends one score per player, transformed by policy.
// The scores slice must be exactly as wide as the roster.
func (r *Room) AddRound(scores []int, policy Rounding) error {
	if !r.Staffed() {
		return fmt.Errorf("%w: room %s has no players yet", ErrInvalidState, r.Code)
	}
	if len(scores) != len(r.Players) {
		return fmt.Errorf("%w: got %d scores for %d players", ErrInvalidInput, len(scores), len(r.Players))
	}
	round := make(Round, len(scores))
	for i, s := range scores {
		round[i] = policy.apply(s)
	}
	r.Rounds = append(r.Rounds, round)
	return nil
}

// UndoLastRound drops the most recent round.
// With no rounds recorded it does nothing and returns false, so repeated
// clicks are harmless.
func (r *Room) UndoLastRound() bool {
	if len(r.Rounds) == 0 {
		return false
	}
	r.Rounds = r.Rounds[:len(r.Rounds)-1]
	return true
}

// Totals sums each player's column across all rounds.
func (r *Room) Totals() []int {
	out := make([]int, len(r.Players))
	for _, round := range r.Rounds {
		for i := 0; i < len(out) && i < len(round); i++ {
			out[i] += round[i]
		}
	}
	return out
}

// CurrentRoundIndex is the zero-based index of the round about to be entered.
func (r *Room) CurrentRoundIndex() int { return len(r.Rounds) }

// Clone returns a deep copy that shares no slices with r.
func (r *Room) Clone() *Room {
	c := &Room{
		Code:    r.Code,
		Players: append([]string{}, r.Players...),
		Rounds:  make([]Round, len(r.Rounds)),
	}
	for i, round := range r.Rounds {
		c.Rounds[i] = append(Round{}, round...)
	}
	return c
}

// ParseScores converts submitted score text to integers.
// Blank entries count as 0; anything that is not a whole number is rejected.
func ParseScores(raw []string) ([]int, error) {
	out := make([]int, len(raw))
	for i, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%w: score %d (%q) is not a whole number", ErrInvalidInput, i+1, s)
		}
		out[i] = n
	}
	return out, nil
}

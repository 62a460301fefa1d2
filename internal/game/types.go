// internal/game/types.go
//
// Core type definitions for the Rummy score engine.
// Defines:
//   - Round: one recorded scoring event (one integer per player).
//   - Room: a shared game session keyed by a short code.
//   - Rounding: how submitted scores are stored.

package game

import (
	"fmt"
	"strings"
)

// MaxPlayers is the largest roster a room accepts.
const MaxPlayers = 8

// Round is one score per player, aligned with Room.Players by index.
type Round []int

// Room holds the state of a single scorekeeping session.
//
// Players is fixed once set; its order is the column order every Round is
// aligned to, so it is never reordered afterwards.
type Room struct {
	Code    string   `json:"code"`    // Uppercase room code.
	Players []string `json:"players"` // Roster in display order.
	Rounds  []Round  `json:"rounds"`  // Append-only except for undo of the last entry.
}

// Rounding selects how AddRound stores submitted scores.
type Rounding int

const (
	// RoundingRaw stores each score exactly as submitted.
	RoundingRaw Rounding = iota
	// RoundingNearest5 rounds each score to the nearest multiple of 5,
	// with halves going up.
	RoundingNearest5
)

// ParseRounding maps a config value to a Rounding policy.
func ParseRounding(s string) (Rounding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "raw":
		return RoundingRaw, nil
	case "nearest5":
		return RoundingNearest5, nil
	}
	return RoundingRaw, fmt.Errorf("unknown score rounding %q (want raw or nearest5)", s)
}

func (p Rounding) String() string {
	switch p {
	case RoundingRaw:
		return "raw"
	case RoundingNearest5:
		return "nearest5"
	}
	return fmt.Sprintf("Rounding(%d)", int(p))
}

// apply transforms a single score under the policy.
func (p Rounding) apply(v int) int {
	if p != RoundingNearest5 {
		return v
	}
	r := v % 5
	if r < 0 {
		r += 5
	}
	if r >= 3 {
		return v - r + 5
	}
	return v - r
}

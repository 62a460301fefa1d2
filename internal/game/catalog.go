package game

// requirements is the contract each round has to meet, in play order.
var requirements = [...]string{
	"2 Aces and 1 Set of 3",
	"2 Sets of 3",
	"1 Set of 3 and 1 Run of 4",
	"2 Runs of 4",
	"3 Sets of 3",
	"1 Run of 4, 2 Sets of 3",
	"2 Runs of 4, 1 Set of 3",
	"1 Run of 5, 1 Run of 6",
	"4 Sets of 3",
	"1 Run of 7, 1 Set of 3",
	"3 Runs of 4",
	"1 Run of 4, 1 Run of 8",
}

// CatalogSize is the number of rounds in a standard game.
const CatalogSize = len(requirements)

// CardValue is the point value of a group of cards left in hand.
type CardValue struct {
	Cards  string `json:"cards"`
	Points int    `json:"points"`
}

var cardValues = [...]CardValue{
	{Cards: "2s & Aces", Points: 20},
	{Cards: "Face Cards & 10s", Points: 10},
	{Cards: "3 - 9", Points: 5},
}

// RequirementFor returns the requirement for a zero-based round index.
// Indexes past the last round stay on the last requirement; negative
// indexes map to the first.
func RequirementFor(round int) string {
	if round < 0 {
		round = 0
	}
	if round >= CatalogSize {
		round = CatalogSize - 1
	}
	return requirements[round]
}

// Requirements returns the full catalog in play order.
func Requirements() []string {
	out := make([]string, CatalogSize)
	copy(out, requirements[:])
	return out
}

// CardValues returns the scoring reference shown next to the board.
func CardValues() []CardValue {
	out := make([]CardValue, len(cardValues))
	copy(out, cardValues[:])
	return out
}

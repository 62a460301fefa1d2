package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staffedRoom(t *testing.T, players ...string) *Room {
	t.Helper()
	r := NewRoom("abcd")
	require.NoError(t, r.SetPlayers(players))
	return r
}

func TestNewRoom_Empty(t *testing.T) {
	r := NewRoom(" abcd ")
	assert.Equal(t, "ABCD", r.Code)
	assert.Empty(t, r.Players)
	assert.Empty(t, r.Rounds)
	assert.False(t, r.Staffed())
	assert.Equal(t, 0, r.CurrentRoundIndex())
}

func TestRoom_Example(t *testing.T) {
	r := staffedRoom(t, "Ann", "Bo")

	scores, err := ParseScores([]string{"10", "0"})
	require.NoError(t, err)
	require.NoError(t, r.AddRound(scores, RoundingRaw))
	assert.Equal(t, []Round{{10, 0}}, r.Rounds)
	assert.Equal(t, []int{10, 0}, r.Totals())

	scores, err = ParseScores([]string{"5", "15"})
	require.NoError(t, err)
	require.NoError(t, r.AddRound(scores, RoundingRaw))
	assert.Equal(t, []Round{{10, 0}, {5, 15}}, r.Rounds)
	assert.Equal(t, []int{15, 15}, r.Totals())
	assert.Equal(t, 2, r.CurrentRoundIndex())

	assert.True(t, r.UndoLastRound())
	assert.Equal(t, []Round{{10, 0}}, r.Rounds)
	assert.Equal(t, []int{10, 0}, r.Totals())
}

func TestRoom_SetPlayers(t *testing.T) {
	tests := []struct {
		name    string
		names   []string
		wantErr error
	}{
		{"single player", []string{"Ann"}, nil},
		{"duplicates kept", []string{"Ann", "Ann"}, nil},
		{"untrimmed kept", []string{" Ann "}, nil},
		{"empty list", []string{}, ErrInvalidInput},
		{"nil list", nil, ErrInvalidInput},
		{"blank name", []string{"Ann", ""}, ErrInvalidInput},
		{"too many", []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRoom("ABCD")
			err := r.SetPlayers(tt.names)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, r.Players)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.names, r.Players)
		})
	}
}

func TestRoom_SetPlayersTwice(t *testing.T) {
	r := staffedRoom(t, "Ann", "Bo")

	err := r.SetPlayers([]string{"Cy", "Di"})
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, []string{"Ann", "Bo"}, r.Players)
	assert.NotContains(t, r.Players, "Cy")
}

func TestRoom_SetPlayersCopiesInput(t *testing.T) {
	names := []string{"Ann", "Bo"}
	r := staffedRoom(t, names...)
	names[0] = "Zed"
	assert.Equal(t, "Ann", r.Players[0])
}

func TestRoom_AddRoundWidthMismatch(t *testing.T) {
	r := staffedRoom(t, "Ann", "Bo")

	assert.ErrorIs(t, r.AddRound([]int{10}, RoundingRaw), ErrInvalidInput)
	assert.ErrorIs(t, r.AddRound([]int{10, 0, 5}, RoundingRaw), ErrInvalidInput)
	assert.ErrorIs(t, r.AddRound(nil, RoundingRaw), ErrInvalidInput)
	assert.Empty(t, r.Rounds)
}

func TestRoom_AddRoundBeforePlayers(t *testing.T) {
	r := NewRoom("ABCD")
	assert.ErrorIs(t, r.AddRound([]int{}, RoundingRaw), ErrInvalidState)
	assert.Empty(t, r.Rounds)
}

func TestRoom_AddRoundCopiesScores(t *testing.T) {
	r := staffedRoom(t, "Ann", "Bo")
	scores := []int{10, 20}
	require.NoError(t, r.AddRound(scores, RoundingRaw))
	scores[0] = 99
	assert.Equal(t, Round{10, 20}, r.Rounds[0])
}

func TestRoom_UndoEmptyIsNoop(t *testing.T) {
	r := staffedRoom(t, "Ann")
	assert.False(t, r.UndoLastRound())
	assert.False(t, r.UndoLastRound())
	assert.Empty(t, r.Rounds)
	assert.Equal(t, []int{0}, r.Totals())
}

func TestRoom_AddThenUndoRestoresTotals(t *testing.T) {
	r := staffedRoom(t, "Ann", "Bo", "Cy")
	for _, s := range [][]int{{5, 10, 0}, {0, 0, 45}, {-5, 20, 15}} {
		require.NoError(t, r.AddRound(s, RoundingRaw))
	}
	before := r.Totals()
	assert.Equal(t, []int{0, 30, 60}, before)

	require.NoError(t, r.AddRound([]int{100, 200, 300}, RoundingRaw))
	assert.NotEqual(t, before, r.Totals())
	require.True(t, r.UndoLastRound())
	assert.Equal(t, before, r.Totals())
}

func TestRoom_TotalsAreColumnSums(t *testing.T) {
	r := staffedRoom(t, "Ann", "Bo")
	want := []int{0, 0}
	for i := 0; i < 20; i++ {
		s := []int{i * 5, 100 - i}
		require.NoError(t, r.AddRound(s, RoundingRaw))
		want[0] += s[0]
		want[1] += s[1]
	}
	assert.Equal(t, want, r.Totals())
	assert.Equal(t, 20, r.CurrentRoundIndex())
}

func TestRounding_Nearest5(t *testing.T) {
	tests := map[int]int{
		0: 0, 1: 0, 2: 0, 3: 5, 4: 5, 5: 5, 7: 5, 8: 10, 12: 10, 13: 15,
		-1: 0, -2: 0, -3: -5, -7: -5, -8: -10,
	}
	for in, want := range tests {
		assert.Equal(t, want, RoundingNearest5.apply(in), "input %d", in)
		assert.Equal(t, in, RoundingRaw.apply(in), "raw input %d", in)
	}

	r := staffedRoom(t, "Ann", "Bo")
	require.NoError(t, r.AddRound([]int{12, 13}, RoundingNearest5))
	assert.Equal(t, Round{10, 15}, r.Rounds[0])
}

func TestParseRounding(t *testing.T) {
	p, err := ParseRounding("raw")
	require.NoError(t, err)
	assert.Equal(t, RoundingRaw, p)

	p, err = ParseRounding(" Nearest5 ")
	require.NoError(t, err)
	assert.Equal(t, RoundingNearest5, p)
	assert.Equal(t, "nearest5", p.String())

	_, err = ParseRounding("")
	assert.Error(t, err)
	_, err = ParseRounding("ten")
	assert.Error(t, err)
}

func TestParseScores(t *testing.T) {
	got, err := ParseScores([]string{"10", " 5 ", "", "-15"})
	require.NoError(t, err)
	assert.Equal(t, []int{10, 5, 0, -15}, got)

	_, err = ParseScores([]string{"10", "1.5"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = ParseScores([]string{"ten"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRoom_Clone(t *testing.T) {
	r := staffedRoom(t, "Ann", "Bo")
	require.NoError(t, r.AddRound([]int{10, 0}, RoundingRaw))

	c := r.Clone()
	assert.Equal(t, r, c)
	c.Players[0] = "Zed"
	c.Rounds[0][0] = 99
	require.NoError(t, c.AddRound([]int{1, 1}, RoundingRaw))

	assert.Equal(t, "Ann", r.Players[0])
	assert.Equal(t, Round{10, 0}, r.Rounds[0])
	assert.Len(t, r.Rounds, 1)
}

func TestCodes(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		c, err := NewCode()
		require.NoError(t, err)
		assert.Len(t, c, 4)
		assert.True(t, ValidCode(c), c)
		seen[c] = true
	}
	assert.Greater(t, len(seen), 1)

	assert.Equal(t, "AB12", NormalizeCode("  ab12\n"))
	assert.False(t, ValidCode(""))
	assert.False(t, ValidCode("AB-1"))
	assert.False(t, ValidCode("ab12"))
	assert.False(t, ValidCode("ABCDEFGHIJKLMNOPQ"))
}

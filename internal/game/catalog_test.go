package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequirementFor(t *testing.T) {
	assert.Equal(t, 12, CatalogSize)
	assert.Equal(t, "2 Aces and 1 Set of 3", RequirementFor(0))
	assert.Equal(t, "3 Sets of 3", RequirementFor(4))
	assert.Equal(t, "1 Run of 4, 1 Run of 8", RequirementFor(11))

	// past the last round the board stays on round 12
	assert.Equal(t, RequirementFor(11), RequirementFor(12))
	assert.Equal(t, RequirementFor(11), RequirementFor(40))
	assert.Equal(t, RequirementFor(0), RequirementFor(-1))
}

func TestRequirementsIsACopy(t *testing.T) {
	all := Requirements()
	assert.Len(t, all, CatalogSize)
	all[0] = "changed"
	assert.Equal(t, "2 Aces and 1 Set of 3", RequirementFor(0))
}

func TestCardValues(t *testing.T) {
	v := CardValues()
	assert.Equal(t, []CardValue{
		{Cards: "2s & Aces", Points: 20},
		{Cards: "Face Cards & 10s", Points: 10},
		{Cards: "3 - 9", Points: 5},
	}, v)
}

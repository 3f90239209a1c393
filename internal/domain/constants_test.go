package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextMatchStatus(t *testing.T) {
	next, ok := NextMatchStatus(MatchStatusPending)
	assert.True(t, ok)
	assert.Equal(t, MatchStatusMatched, next)

	next, ok = NextMatchStatus(MatchStatusInTransit)
	assert.True(t, ok)
	assert.Equal(t, MatchStatusCompleted, next)

	_, ok = NextMatchStatus(MatchStatusCompleted)
	assert.False(t, ok, "completed is terminal")

	_, ok = NextMatchStatus("bogus")
	assert.False(t, ok)
}

func TestItemPhase(t *testing.T) {
	assert.Equal(t, ItemStatusOpen, ItemPhase(ItemStatusOpen, 0))
	assert.Equal(t, ItemPhaseRequested, ItemPhase(ItemStatusOpen, 2))
	// A matched or completed item never reads as Requested.
	assert.Equal(t, ItemStatusMatched, ItemPhase(ItemStatusMatched, 3))
	assert.Equal(t, ItemStatusCompleted, ItemPhase(ItemStatusCompleted, 1))
}

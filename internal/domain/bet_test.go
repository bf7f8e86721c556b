package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBetKind_Shorthand(t *testing.T) {
	cases := map[string]BetKind{
		"HRs":        KindHomeRuns,
		"hr":         KindHomeRuns,
		"Ks":         KindStrikeouts,
		"total bases": KindTotalBases,
		"TB":         KindTotalBases,
		"ML":         KindMoneyline,
		"run line":   KindSpread,
		"o/u":        KindTotal,
		" hits ":     KindHits,
	}
	for in, want := range cases {
		got, ok := ParseBetKind(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseBetKind("parlay")
	assert.False(t, ok)
}

func TestParseGameStatus_UnknownStaysScheduled(t *testing.T) {
	assert.Equal(t, GameFinal, ParseGameStatus("Game Over"))
	assert.Equal(t, GameInProgress, ParseGameStatus("Live"))
	assert.Equal(t, GameScheduled, ParseGameStatus("Umpire Review"), "new feed states must not settle bets")
}

func TestBetSubject(t *testing.T) {
	batter := Bet{Kind: KindHits, PlayerID: 500, TeamID: 10}
	assert.Equal(t, int64(500), batter.Subject())

	pitcher := Bet{Kind: KindStrikeouts, PitcherID: 600}
	assert.Equal(t, int64(600), pitcher.Subject())

	team := Bet{Kind: KindMoneyline, TeamID: 10}
	assert.Equal(t, int64(10), team.Subject())
}

func TestBetStatus_Terminal(t *testing.T) {
	assert.True(t, BetWon.IsTerminal())
	assert.True(t, BetLost.IsTerminal())
	assert.True(t, BetCancelled.IsTerminal())
	assert.False(t, BetPending.IsTerminal())
	assert.False(t, BetLive.IsTerminal())
}

func TestStatLine_SinglesNeverNegative(t *testing.T) {
	// An upstream correction can momentarily report more extra-base hits
	// than hits.
	l := StatLine{Hits: 1, Doubles: 1, HomeRuns: 1}
	assert.Equal(t, 0, l.Singles())
}

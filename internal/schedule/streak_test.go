package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settledRun(statuses ...domain.BetStatus) []domain.Bet {
	// Most recent first, matching the store's ordering.
	bets := make([]domain.Bet, len(statuses))
	for i, s := range statuses {
		bets[i] = domain.Bet{ID: int64(i + 1), Status: s}
	}
	return bets
}

func TestStreak_BroadcastsToAllTiers(t *testing.T) {
	store := &mockBetStore{
		communities: threeCommunities(),
		settled: map[int64][]domain.Bet{
			2: settledRun(domain.BetWon, domain.BetWon, domain.BetWon, domain.BetLost),
		},
	}
	sink := &mockSink{}

	s := NewStreak(store, sink, 3)
	s.now = func() time.Time { return morning }

	queued, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, queued, "one event per community")

	// Each event is addressed to its own community so delivery can route it;
	// the streaking community rides along for the copy.
	byCommunity := make(map[int64]domain.NotificationEvent)
	for _, ev := range sink.events {
		assert.Equal(t, domain.NotifyStreak, ev.Kind)
		assert.Equal(t, "StatEdge+", ev.AboutCommunity)
		byCommunity[ev.CommunityID] = ev
	}
	require.Len(t, byCommunity, 3, "one event per community id")
	assert.Equal(t, domain.TierFree, byCommunity[1].Priority)
	assert.Equal(t, "StatEdge Premium", byCommunity[3].Community)
}

func TestStreak_LossBreaksTheRun(t *testing.T) {
	store := &mockBetStore{
		communities: threeCommunities(),
		settled: map[int64][]domain.Bet{
			1: settledRun(domain.BetWon, domain.BetWon, domain.BetLost, domain.BetWon, domain.BetWon),
		},
	}
	sink := &mockSink{}

	s := NewStreak(store, sink, 3)
	s.now = func() time.Time { return morning }

	queued, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, queued, "two wins then a loss is not a streak of three")
}

func TestStreak_OncePerDay(t *testing.T) {
	store := &mockBetStore{
		communities: threeCommunities(),
		settled: map[int64][]domain.Bet{
			1: settledRun(domain.BetWon, domain.BetWon, domain.BetWon),
		},
	}
	sink := &mockSink{}

	s := NewStreak(store, sink, 3)
	s.now = func() time.Time { return morning }

	_, err := s.Run(context.Background())
	require.NoError(t, err)

	queued, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, queued)
	assert.Len(t, sink.events, 3)
}

package schedule

// streak.go — a run of consecutive wins in one community is broadcast to
// every tier, once per day. Consecutive counts from the most recent settled
// bet backwards; the first loss ends the run.

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/domain"
	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/ports"
)

const streakLookback = 7 * 24 * time.Hour

// Streak detects winning streaks and queues cross-tier notifications.
type Streak struct {
	bets      ports.BetStore
	sink      ports.Sink
	threshold int
	now       func() time.Time
}

// NewStreak creates the detector with the given win threshold.
func NewStreak(bets ports.BetStore, sink ports.Sink, threshold int) *Streak {
	return &Streak{bets: bets, sink: sink, threshold: threshold, now: time.Now}
}

// Run checks every community for an active streak and queues notifications
// to all tiers for each one found. Returns the number of events queued.
func (s *Streak) Run(ctx context.Context) (int, error) {
	communities, err := s.bets.ListCommunities(ctx)
	if err != nil {
		return 0, fmt.Errorf("schedule.Streak: list communities: %w", err)
	}

	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	queued := 0
	for _, c := range communities {
		wins, err := s.consecutiveWins(ctx, c.ID)
		if err != nil {
			return queued, err
		}
		if wins < s.threshold {
			continue
		}

		// One streak broadcast per day: a prior blast queued an event for
		// every community, this one included, so one queued streak event
		// here means today's audiences are already covered.
		sent, err := s.sink.QueuedCount(ctx, c.ID, domain.NotifyStreak, midnight)
		if err != nil {
			return queued, fmt.Errorf("schedule.Streak: count for %q: %w", c.Name, err)
		}
		if sent > 0 {
			continue
		}

		slog.Info("winning streak detected", "community", c.Name, "wins", wins)

		// Each event is addressed to its target community; the streaking
		// community rides along so the delivery process can name it in the
		// copy.
		for _, target := range communities {
			ev := domain.NewNotificationEvent(domain.NotifyStreak, target.ID, target.Name, target.Tier, now.UTC())
			ev.AboutCommunity = c.Name
			if err := s.sink.Enqueue(ctx, ev); err != nil {
				return queued, fmt.Errorf("schedule.Streak: enqueue to %q: %w", target.Name, err)
			}
			queued++
		}
	}
	return queued, nil
}

// consecutiveWins counts the run of Won bets from the most recent settled
// bet backwards.
func (s *Streak) consecutiveWins(ctx context.Context, communityID int64) (int, error) {
	settled, err := s.bets.ListSettledBets(ctx, communityID, s.now().Add(-streakLookback))
	if err != nil {
		return 0, fmt.Errorf("schedule.Streak: settled bets for %d: %w", communityID, err)
	}
	wins := 0
	for _, b := range settled {
		if b.Status != domain.BetWon {
			break
		}
		wins++
	}
	return wins, nil
}

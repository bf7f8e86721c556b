package schedule

// pregame.go — queues pre-game alerts at fixed offsets before first pitch,
// one consolidated event per (game, community, offset). The exact-slot dedup
// in the outbox makes re-running the scheduler a no-op.

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/domain"
	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/ports"
)

// Pregame schedules pre-game notifications for today's pending bets.
type Pregame struct {
	bets    ports.BetStore
	sink    ports.Sink
	offsets []int // minutes before first pitch
	now     func() time.Time
}

// NewPregame creates the scheduler with the given alert offsets.
func NewPregame(bets ports.BetStore, sink ports.Sink, offsets []int) *Pregame {
	return &Pregame{bets: bets, sink: sink, offsets: offsets, now: time.Now}
}

// ScheduleDay queues alerts for every (game, community) pair that has
// pending bets on a game that has not started. Returns the number of events
// queued.
func (p *Pregame) ScheduleDay(ctx context.Context) (int, error) {
	now := p.now()
	active, err := p.bets.ListActiveBets(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("schedule.Pregame: list bets: %w", err)
	}

	type slot struct {
		gameID      int64
		communityID int64
	}
	seen := make(map[slot]ports.ActiveBet)
	for _, ab := range active {
		if ab.Bet.Status != domain.BetPending {
			continue
		}
		if ab.Game.Status != domain.GameScheduled && ab.Game.Status != domain.GamePreGame {
			continue
		}
		key := slot{ab.Bet.GameID, ab.Bet.CommunityID}
		if _, ok := seen[key]; !ok {
			seen[key] = ab
		}
	}

	queued := 0
	for key, ab := range seen {
		for _, minutes := range p.offsets {
			at := ab.Game.StartTime.Add(-time.Duration(minutes) * time.Minute).UTC()
			if !at.After(now) {
				continue // never schedule in the past
			}

			exists, err := p.sink.HasScheduled(ctx, key.gameID, key.communityID, domain.NotifyPregame, at)
			if err != nil {
				return queued, fmt.Errorf("schedule.Pregame: check slot: %w", err)
			}
			if exists {
				continue
			}

			ev := domain.NewNotificationEvent(domain.NotifyPregame, ab.Bet.CommunityID, ab.Bet.Community, ab.Bet.Tier, at)
			ev.GameID = key.gameID
			if err := p.sink.Enqueue(ctx, ev); err != nil {
				return queued, fmt.Errorf("schedule.Pregame: enqueue: %w", err)
			}
			queued++
		}
	}

	if queued > 0 {
		slog.Info("pregame alerts scheduled", "count", queued)
	}
	return queued, nil
}

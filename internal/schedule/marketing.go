package schedule

// marketing.go — at most one marketing event per community per day, at a
// random minute inside the configured window. The daily count in the outbox
// is the dedup, so re-running only fills communities not yet scheduled.

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/domain"
	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/ports"
)

// Marketing schedules the daily upsell/teaser messages.
type Marketing struct {
	bets        ports.BetStore
	sink        ports.Sink
	windowStart int // hour of day, inclusive
	windowEnd   int
	now         func() time.Time
	rand        *rand.Rand
}

// NewMarketing creates the scheduler with the given send window.
func NewMarketing(bets ports.BetStore, sink ports.Sink, windowStart, windowEnd int) *Marketing {
	return &Marketing{
		bets:        bets,
		sink:        sink,
		windowStart: windowStart,
		windowEnd:   windowEnd,
		now:         time.Now,
		rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ScheduleDay queues today's marketing events. Returns the number queued.
func (m *Marketing) ScheduleDay(ctx context.Context) (int, error) {
	communities, err := m.bets.ListCommunities(ctx)
	if err != nil {
		return 0, fmt.Errorf("schedule.Marketing: list communities: %w", err)
	}

	now := m.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	queued := 0
	for _, c := range communities {
		sent, err := m.sink.QueuedCount(ctx, c.ID, domain.NotifyMarketing, midnight)
		if err != nil {
			return queued, fmt.Errorf("schedule.Marketing: count for %q: %w", c.Name, err)
		}
		if sent > 0 {
			slog.Debug("marketing already scheduled today", "community", c.Name)
			continue
		}

		at := m.randomSlot(midnight)
		if !at.After(now) {
			// The drawn slot already passed; try again on tomorrow's run.
			continue
		}

		ev := domain.NewNotificationEvent(domain.NotifyMarketing, c.ID, c.Name, c.Tier, at.UTC())
		if err := m.sink.Enqueue(ctx, ev); err != nil {
			return queued, fmt.Errorf("schedule.Marketing: enqueue for %q: %w", c.Name, err)
		}
		queued++
	}

	if queued > 0 {
		slog.Info("marketing messages scheduled", "count", queued)
	}
	return queued, nil
}

func (m *Marketing) randomSlot(midnight time.Time) time.Time {
	hour := m.windowStart + m.rand.Intn(m.windowEnd-m.windowStart+1)
	minute := m.rand.Intn(60)
	return midnight.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

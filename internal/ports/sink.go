package ports

import (
	"context"
	"time"

	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/domain"
)

// Sink queues outbound notification events. Enqueue is a fire-and-forget
// durable write; an external delivery process consumes and retires events.
type Sink interface {
	Enqueue(ctx context.Context, ev domain.NotificationEvent) error

	// QueuedCount returns how many events of the given kind were queued for
	// the community since the given time. Schedulers use it for their
	// one-per-day limits.
	QueuedCount(ctx context.Context, communityID int64, kind domain.NotificationKind, since time.Time) (int, error)

	// HasScheduled reports whether an event of the given kind is already
	// queued for exactly this (game, community, send time) slot.
	HasScheduled(ctx context.Context, gameID, communityID int64, kind domain.NotificationKind, at time.Time) (bool, error)
}

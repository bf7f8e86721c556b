package ports

import (
	"context"

	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/domain"
)

// Ledger is the per-bet tracking cursor store. Updates are safe under
// at-least-once re-evaluation: fired milestones are upserted by key, never
// appended, so replaying an update cannot duplicate a record.
type Ledger interface {
	// Cursor returns the bet's cursor, creating an empty one if absent.
	Cursor(ctx context.Context, betID int64) (domain.TrackingCursor, error)

	// UpdateCursor persists the latest observation and, when fired is
	// non-nil, upserts that milestone into the fired set and bumps the
	// alerts-sent counter (only if the key was not already present).
	UpdateCursor(ctx context.Context, betID int64, value, pct float64, inning int, fired *domain.FiredMilestone) error
}

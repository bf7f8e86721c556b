package storage

// outbox.go — the durable notification queue. This side only writes; the
// external delivery process consumes rows and advances their status.

import (
	"context"
	"fmt"
	"time"

	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/domain"
)

// Enqueue durably records one outbound notification event.
func (s *SQLiteStorage) Enqueue(ctx context.Context, ev domain.NotificationEvent) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = s.now().UTC()
	}
	if ev.Status == "" {
		ev.Status = domain.DeliveryPending
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO message_log
			(id, community_id, kind, milestone, bet_id, game_id,
			 about_community, priority, scheduled_at, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		ev.ID, ev.CommunityID, string(ev.Kind), string(ev.Milestone),
		ev.BetID, ev.GameID, ev.AboutCommunity, int(ev.Priority),
		ev.ScheduledAt.UTC(), string(ev.Status), ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("storage.Enqueue: event %s: %w", ev.ID, err)
	}
	return nil
}

// QueuedCount counts events of a kind queued for a community since the
// given time.
func (s *SQLiteStorage) QueuedCount(ctx context.Context, communityID int64, kind domain.NotificationKind, since time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM message_log
		WHERE community_id = ? AND kind = ? AND created_at >= ?
	`, communityID, string(kind), since.UTC()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("storage.QueuedCount: %w", err)
	}
	return n, nil
}

// HasScheduled reports whether an event already occupies the exact
// (game, community, kind, send time) slot.
func (s *SQLiteStorage) HasScheduled(ctx context.Context, gameID, communityID int64, kind domain.NotificationKind, at time.Time) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM message_log
		WHERE game_id = ? AND community_id = ? AND kind = ? AND scheduled_at = ?
	`, gameID, communityID, string(kind), at.UTC()).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("storage.HasScheduled: %w", err)
	}
	return n > 0, nil
}

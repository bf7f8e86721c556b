package storage

// ledger.go — the tracking cursor store.
//
// Fired milestones are upserted by (bet, milestone key): replaying an update
// with a key that already fired inserts nothing and leaves the alert counter
// alone, which is the idempotence guarantee the milestone policy relies on.

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/domain"
)

// Cursor returns the bet's tracking cursor, creating an empty one if absent.
func (s *SQLiteStorage) Cursor(ctx context.Context, betID int64) (domain.TrackingCursor, error) {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO bet_tracking (bet_id, last_value, last_pct, alerts_sent, inning, updated_at)
		VALUES (?, 0, 0, 0, 0, ?)
		ON CONFLICT(bet_id) DO NOTHING
	`, betID, s.now().UTC()); err != nil {
		return domain.TrackingCursor{}, fmt.Errorf("storage.Cursor: create bet %d: %w", betID, err)
	}

	c := domain.NewTrackingCursor(betID)
	err := s.db.QueryRowContext(ctx, `
		SELECT last_value, last_pct, alerts_sent, updated_at
		FROM bet_tracking WHERE bet_id = ?
	`, betID).Scan(&c.LastValue, &c.LastPct, &c.AlertsSent, &c.UpdatedAt)
	if err != nil {
		return domain.TrackingCursor{}, fmt.Errorf("storage.Cursor: load bet %d: %w", betID, err)
	}

	if err := s.loadFired(ctx, &c); err != nil {
		return domain.TrackingCursor{}, err
	}
	return c, nil
}

// UpdateCursor persists the latest observation. When fired is non-nil the
// milestone is upserted by key; the alerts counter only moves if the key is
// new for this bet.
func (s *SQLiteStorage) UpdateCursor(ctx context.Context, betID int64, value, pct float64, inning int, fired *domain.FiredMilestone) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.UpdateCursor: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO bet_tracking (bet_id, last_value, last_pct, alerts_sent, inning, updated_at)
		VALUES (?, ?, ?, 0, ?, ?)
		ON CONFLICT(bet_id) DO UPDATE SET
			last_value = excluded.last_value,
			last_pct   = excluded.last_pct,
			inning     = excluded.inning,
			updated_at = excluded.updated_at
	`, betID, value, pct, inning, s.now().UTC()); err != nil {
		return fmt.Errorf("storage.UpdateCursor: bet %d: %w", betID, err)
	}

	if fired != nil {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO fired_milestones (bet_id, milestone, fired_at, inning, value)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(bet_id, milestone) DO NOTHING
		`, betID, string(fired.Key), fired.FiredAt.UTC(), fired.Inning, fired.Value)
		if err != nil {
			return fmt.Errorf("storage.UpdateCursor: milestone %s: %w", fired.Key, err)
		}
		inserted, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("storage.UpdateCursor: rows affected: %w", err)
		}
		if inserted > 0 {
			if _, err := tx.ExecContext(ctx,
				`UPDATE bet_tracking SET alerts_sent = alerts_sent + 1 WHERE bet_id = ?`,
				betID,
			); err != nil {
				return fmt.Errorf("storage.UpdateCursor: bump alerts: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.UpdateCursor: commit: %w", err)
	}
	return nil
}

// loadFired fills the cursor's fired-milestone set.
func (s *SQLiteStorage) loadFired(ctx context.Context, c *domain.TrackingCursor) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT milestone, fired_at, inning, value
		FROM fired_milestones WHERE bet_id = ?
	`, c.BetID)
	if err != nil {
		return fmt.Errorf("storage.loadFired: bet %d: %w", c.BetID, err)
	}
	defer rows.Close()

	if c.Fired == nil {
		c.Fired = make(map[domain.MilestoneKey]domain.FiredMilestone)
	}
	for rows.Next() {
		var fm domain.FiredMilestone
		var key string
		var firedAt sql.NullTime
		if err := rows.Scan(&key, &firedAt, &fm.Inning, &fm.Value); err != nil {
			return fmt.Errorf("storage.loadFired: scan: %w", err)
		}
		fm.Key = domain.MilestoneKey(key)
		if firedAt.Valid {
			fm.FiredAt = firedAt.Time
		}
		c.Fired[fm.Key] = fm
	}
	return rows.Err()
}

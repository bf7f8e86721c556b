package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/domain"
	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/ports"
)

// CreateBet inserts a new bet and fills in its generated identifier.
func (s *SQLiteStorage) CreateBet(ctx context.Context, b *domain.Bet) error {
	if b.Status == "" {
		b.Status = domain.BetPending
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = s.now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO bets
			(game_id, player_id, pitcher_id, team_id, kind, target, operator,
			 odds, units, community_id, status, raw_input, confidence,
			 interpretation, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		b.GameID, b.PlayerID, b.PitcherID, b.TeamID, string(b.Kind), b.Target,
		string(b.Operator), b.Odds, b.Units, b.CommunityID, string(b.Status),
		b.RawInput, b.Confidence, b.Interpretation, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("storage.CreateBet: %w", err)
	}
	b.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("storage.CreateBet: last insert id: %w", err)
	}
	return nil
}

// ListActiveBets returns all Pending/Live bets whose game is on the given
// date, each with its game and tracking cursor snapshot attached.
func (s *SQLiteStorage) ListActiveBets(ctx context.Context, date time.Time) ([]ports.ActiveBet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.bet_id, b.game_id, b.player_id, b.pitcher_id, b.team_id,
		       b.kind, b.target, b.operator, b.odds, b.units,
		       b.community_id, c.community_name, c.tier,
		       b.status, b.raw_input, b.confidence, b.interpretation, b.created_at,
		       g.game_id, g.game_date, g.start_time, g.status, g.inning, g.inning_half,
		       g.home_team_id, g.away_team_id, g.home_score, g.away_score,
		       g.home_probable_pitcher, g.away_probable_pitcher,
		       COALESCE(t.last_value, 0), COALESCE(t.last_pct, 0), COALESCE(t.alerts_sent, 0)
		FROM bets b
		JOIN games g       ON b.game_id = g.game_id
		JOIN communities c ON b.community_id = c.community_id
		LEFT JOIN bet_tracking t ON b.bet_id = t.bet_id
		WHERE b.status IN ('Pending', 'Live') AND g.game_date = ?
		ORDER BY b.bet_id
	`, date.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("storage.ListActiveBets: %w", err)
	}
	defer rows.Close()

	var active []ports.ActiveBet
	for rows.Next() {
		var ab ports.ActiveBet
		var kind, op, status, gDate, gStatus string
		var tier int
		var start sql.NullTime
		if err := rows.Scan(
			&ab.Bet.ID, &ab.Bet.GameID, &ab.Bet.PlayerID, &ab.Bet.PitcherID, &ab.Bet.TeamID,
			&kind, &ab.Bet.Target, &op, &ab.Bet.Odds, &ab.Bet.Units,
			&ab.Bet.CommunityID, &ab.Bet.Community, &tier,
			&status, &ab.Bet.RawInput, &ab.Bet.Confidence, &ab.Bet.Interpretation, &ab.Bet.CreatedAt,
			&ab.Game.ID, &gDate, &start, &gStatus, &ab.Game.Inning, &ab.Game.InningHalf,
			&ab.Game.HomeTeamID, &ab.Game.AwayTeamID, &ab.Game.HomeScore, &ab.Game.AwayScore,
			&ab.Game.HomeProbablePitcher, &ab.Game.AwayProbablePitcher,
			&ab.Cursor.LastValue, &ab.Cursor.LastPct, &ab.Cursor.AlertsSent,
		); err != nil {
			return nil, fmt.Errorf("storage.ListActiveBets: scan: %w", err)
		}
		ab.Bet.Kind = domain.BetKind(kind)
		ab.Bet.Operator = domain.Operator(op)
		ab.Bet.Status = domain.BetStatus(status)
		ab.Bet.Tier = domain.CommunityTier(tier)
		ab.Game.Date, _ = time.Parse(dateFormat, gDate)
		if start.Valid {
			ab.Game.StartTime = start.Time
		}
		ab.Game.Status = domain.GameStatus(gStatus)
		ab.Cursor.BetID = ab.Bet.ID
		ab.Cursor.Fired = make(map[domain.MilestoneKey]domain.FiredMilestone)
		active = append(active, ab)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage.ListActiveBets: rows: %w", err)
	}

	for i := range active {
		if err := s.loadFired(ctx, &active[i].Cursor); err != nil {
			return nil, err
		}
	}
	return active, nil
}

// SetBetStatus transitions a bet's status. The WHERE guard makes settled
// bets immutable: a Won or Lost row never matches, so re-running a cycle
// cannot overwrite a settlement.
func (s *SQLiteStorage) SetBetStatus(ctx context.Context, betID int64, to domain.BetStatus, value float64) (bool, error) {
	var res sql.Result
	var err error
	if to.IsTerminal() {
		res, err = s.db.ExecContext(ctx, `
			UPDATE bets SET status = ?, result_value = ?, settled_at = ?
			WHERE bet_id = ? AND status IN ('Pending', 'Live')
		`, string(to), value, s.now().UTC(), betID)
	} else {
		res, err = s.db.ExecContext(ctx, `
			UPDATE bets SET status = ?, result_value = ?
			WHERE bet_id = ? AND status IN ('Pending', 'Live')
		`, string(to), value, betID)
	}
	if err != nil {
		return false, fmt.Errorf("storage.SetBetStatus: bet %d → %s: %w", betID, to, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage.SetBetStatus: rows affected: %w", err)
	}
	return n > 0, nil
}

// ListSettledBets returns a community's Won/Lost bets settled since the given
// time, most recent first.
func (s *SQLiteStorage) ListSettledBets(ctx context.Context, communityID int64, since time.Time) ([]domain.Bet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT bet_id, game_id, kind, target, operator, odds, units, status,
		       raw_input, created_at, settled_at
		FROM bets
		WHERE community_id = ? AND status IN ('Won', 'Lost') AND settled_at >= ?
		ORDER BY settled_at DESC
	`, communityID, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("storage.ListSettledBets: %w", err)
	}
	defer rows.Close()

	var bets []domain.Bet
	for rows.Next() {
		var b domain.Bet
		var kind, op, status string
		var settled sql.NullTime
		if err := rows.Scan(&b.ID, &b.GameID, &kind, &b.Target, &op, &b.Odds,
			&b.Units, &status, &b.RawInput, &b.CreatedAt, &settled); err != nil {
			return nil, fmt.Errorf("storage.ListSettledBets: scan: %w", err)
		}
		b.Kind = domain.BetKind(kind)
		b.Operator = domain.Operator(op)
		b.Status = domain.BetStatus(status)
		b.CommunityID = communityID
		if settled.Valid {
			b.SettledAt = settled.Time
		}
		bets = append(bets, b)
	}
	return bets, rows.Err()
}

// ListCommunities returns all active communities ordered by tier.
func (s *SQLiteStorage) ListCommunities(ctx context.Context) ([]domain.Community, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT community_id, community_name, tier, active FROM communities WHERE active = 1 ORDER BY tier`)
	if err != nil {
		return nil, fmt.Errorf("storage.ListCommunities: %w", err)
	}
	defer rows.Close()

	var communities []domain.Community
	for rows.Next() {
		var c domain.Community
		var tier, active int
		if err := rows.Scan(&c.ID, &c.Name, &tier, &active); err != nil {
			return nil, fmt.Errorf("storage.ListCommunities: scan: %w", err)
		}
		c.Tier = domain.CommunityTier(tier)
		c.Active = active == 1
		communities = append(communities, c)
	}
	return communities, rows.Err()
}

// GetCommunity looks up a community by name.
func (s *SQLiteStorage) GetCommunity(ctx context.Context, name string) (domain.Community, error) {
	var c domain.Community
	var tier, active int
	err := s.db.QueryRowContext(ctx,
		`SELECT community_id, community_name, tier, active FROM communities WHERE community_name = ?`,
		name,
	).Scan(&c.ID, &c.Name, &tier, &active)
	if err != nil {
		return domain.Community{}, fmt.Errorf("storage.GetCommunity: %q: %w", name, err)
	}
	c.Tier = domain.CommunityTier(tier)
	c.Active = active == 1
	return c, nil
}

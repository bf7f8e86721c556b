package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/domain"
)

// UpsertTeams writes the team table keyed by team identifier.
func (s *SQLiteStorage) UpsertTeams(ctx context.Context, teams []domain.Team) error {
	if len(teams) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.UpsertTeams: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO teams (team_id, team_name, abbreviation, league, division, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(team_id) DO UPDATE SET
			team_name    = excluded.team_name,
			abbreviation = excluded.abbreviation,
			league       = excluded.league,
			division     = excluded.division,
			updated_at   = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("storage.UpsertTeams: prepare: %w", err)
	}
	defer stmt.Close()

	now := s.now().UTC()
	for _, t := range teams {
		if _, err := stmt.ExecContext(ctx, t.ID, t.Name, t.Abbreviation, t.League, t.Division, now); err != nil {
			return fmt.Errorf("storage.UpsertTeams: team %d: %w", t.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.UpsertTeams: commit: %w", err)
	}
	return nil
}

// UpsertPlayers writes the player table keyed by player identifier.
func (s *SQLiteStorage) UpsertPlayers(ctx context.Context, players []domain.Player) error {
	if len(players) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.UpsertPlayers: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO players (player_id, full_name, position, team_id, active, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(player_id) DO UPDATE SET
			full_name  = excluded.full_name,
			position   = excluded.position,
			team_id    = excluded.team_id,
			active     = excluded.active,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("storage.UpsertPlayers: prepare: %w", err)
	}
	defer stmt.Close()

	now := s.now().UTC()
	for _, p := range players {
		if _, err := stmt.ExecContext(ctx, p.ID, p.FullName, p.Position, p.TeamID, boolInt(p.Active), now); err != nil {
			return fmt.Errorf("storage.UpsertPlayers: player %d: %w", p.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.UpsertPlayers: commit: %w", err)
	}
	return nil
}

// ListTeams returns every known team.
func (s *SQLiteStorage) ListTeams(ctx context.Context) ([]domain.Team, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT team_id, team_name, abbreviation, league, division FROM teams ORDER BY team_name`)
	if err != nil {
		return nil, fmt.Errorf("storage.ListTeams: %w", err)
	}
	defer rows.Close()

	var teams []domain.Team
	for rows.Next() {
		var t domain.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Abbreviation, &t.League, &t.Division); err != nil {
			return nil, fmt.Errorf("storage.ListTeams: scan: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// ListActivePlayers returns the active players on the given teams.
func (s *SQLiteStorage) ListActivePlayers(ctx context.Context, teamIDs []int64) ([]domain.Player, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(teamIDs)), ",")
	args := make([]any, len(teamIDs))
	for i, id := range teamIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT player_id, full_name, position, team_id, active
		FROM players WHERE active = 1 AND team_id IN (%s)
		ORDER BY full_name
	`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("storage.ListActivePlayers: %w", err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		var p domain.Player
		var active int
		if err := rows.Scan(&p.ID, &p.FullName, &p.Position, &p.TeamID, &active); err != nil {
			return nil, fmt.Errorf("storage.ListActivePlayers: scan: %w", err)
		}
		p.Active = active == 1
		players = append(players, p)
	}
	return players, rows.Err()
}

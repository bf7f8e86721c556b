package bets

// context.go — the day context is an immutable snapshot of what is playable
// today: games, probable pitchers, active rosters. It is loaded once per
// entry operation and passed explicitly into validation, never cached on the
// registry where it could go stale across calls.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/domain"
	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/ports"
)

// Context is the snapshot of today's playable entities.
type Context struct {
	Date    time.Time
	Games   []domain.Game
	Teams   map[int64]domain.Team
	Players map[string]domain.Player // lower-cased full name → player
	// Pitchers maps lower-cased names of today's probable pitchers.
	Pitchers map[string]domain.Player
}

// LoadContext builds the day snapshot from the stores.
func LoadContext(ctx context.Context, date time.Time, games ports.GameStore, roster ports.RosterStore) (*Context, error) {
	todays, err := games.ListGamesOn(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("bets.LoadContext: list games: %w", err)
	}

	teams, err := roster.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("bets.LoadContext: list teams: %w", err)
	}
	teamsByID := make(map[int64]domain.Team, len(teams))
	for _, t := range teams {
		teamsByID[t.ID] = t
	}

	var teamIDs []int64
	probables := make(map[int64]bool)
	for _, g := range todays {
		teamIDs = append(teamIDs, g.HomeTeamID, g.AwayTeamID)
		if g.HomeProbablePitcher != 0 {
			probables[g.HomeProbablePitcher] = true
		}
		if g.AwayProbablePitcher != 0 {
			probables[g.AwayProbablePitcher] = true
		}
	}

	players, err := roster.ListActivePlayers(ctx, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("bets.LoadContext: list players: %w", err)
	}

	snap := &Context{
		Date:     date,
		Games:    todays,
		Teams:    teamsByID,
		Players:  make(map[string]domain.Player, len(players)),
		Pitchers: make(map[string]domain.Player),
	}
	for _, p := range players {
		key := strings.ToLower(p.FullName)
		snap.Players[key] = p
		if probables[p.ID] {
			snap.Pitchers[key] = p
		}
	}
	return snap, nil
}

// GameForTeam returns the game the given team plays today.
func (c *Context) GameForTeam(teamID int64) (domain.Game, bool) {
	for _, g := range c.Games {
		if g.HomeTeamID == teamID || g.AwayTeamID == teamID {
			return g, true
		}
	}
	return domain.Game{}, false
}

// FindTeam matches a free-text team name against today's team names and
// abbreviations.
func (c *Context) FindTeam(name string) (domain.Team, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return domain.Team{}, false
	}
	for _, t := range c.Teams {
		if strings.Contains(strings.ToLower(t.Name), needle) ||
			strings.EqualFold(t.Abbreviation, needle) {
			return t, true
		}
	}
	return domain.Team{}, false
}

package mlb

// mapping.go — wire payloads → domain types.
//
// The feed omits stat sections for entities that have not appeared, and a
// malformed player entry is skipped, never fatal: absent counting stats
// default to zero per the tracker's error model.

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/domain"
)

// FetchGameFeed pulls the live feed for one game and maps it to a snapshot.
func (c *Client) FetchGameFeed(ctx context.Context, gameID int64) (domain.FeedSnapshot, error) {
	var resp feedResponse
	url := fmt.Sprintf("%s/game/%d/feed/live", c.v11(), gameID)
	if err := c.get(ctx, url, &resp); err != nil {
		return domain.FeedSnapshot{}, fmt.Errorf("mlb.FetchGameFeed: game %d: %w", gameID, err)
	}
	if resp.GameData.Status.DetailedState == "" {
		// Feed exists but carries no game state yet.
		return domain.FeedSnapshot{}, nil
	}

	snap := domain.FeedSnapshot{
		GameID:     gameID,
		Status:     domain.ParseGameStatus(resp.GameData.Status.DetailedState),
		Inning:     resp.LiveData.Linescore.CurrentInning,
		InningHalf: resp.LiveData.Linescore.InningState,
		HomeScore:  resp.LiveData.Linescore.Teams.Home.Runs,
		AwayScore:  resp.LiveData.Linescore.Teams.Away.Runs,
	}

	for _, side := range []boxTeam{resp.LiveData.Boxscore.Teams.Home, resp.LiveData.Boxscore.Teams.Away} {
		for _, p := range side.Players {
			if p.Person.ID == 0 {
				continue
			}
			line := mapStatLine(gameID, p)
			if line != nil {
				snap.Stats = append(snap.Stats, *line)
			}
		}
	}
	return snap, nil
}

// mapStatLine converts one box-score player entry. Returns nil when the
// entry has no batting or pitching section yet.
func mapStatLine(gameID int64, p boxPlayer) *domain.StatLine {
	if p.Stats.Batting == nil && p.Stats.Pitching == nil {
		return nil
	}
	line := domain.StatLine{GameID: gameID, PlayerID: p.Person.ID}
	if b := p.Stats.Batting; b != nil {
		line.AtBats = b.AtBats
		line.Hits = b.Hits
		line.Doubles = b.Doubles
		line.Triples = b.Triples
		line.HomeRuns = b.HomeRuns
		line.Runs = b.Runs
		line.RBIs = b.RBI
		line.Walks = b.BaseOnBalls
		line.StolenBases = b.StolenBases
	}
	if pi := p.Stats.Pitching; pi != nil {
		line.InningsPitched = parseInningsPitched(pi.InningsPitched)
		line.PitcherStrikeouts = pi.StrikeOuts
		line.WalksAllowed = pi.BaseOnBalls
		line.HitsAllowed = pi.Hits
		line.EarnedRuns = pi.EarnedRuns
		line.PitchCount = pi.NumberOfPitches
	}
	return &line
}

// parseInningsPitched converts the API's "5.2" notation (5 innings, 2 outs)
// into fractional innings.
func parseInningsPitched(s string) float64 {
	if s == "" {
		return 0
	}
	whole, frac, _ := strings.Cut(s, ".")
	innings, err := strconv.Atoi(whole)
	if err != nil {
		return 0
	}
	outs := 0
	if frac != "" {
		outs, _ = strconv.Atoi(frac)
	}
	return float64(innings) + float64(outs)/3
}

// FetchSchedule returns the games scheduled on the given date.
func (c *Client) FetchSchedule(ctx context.Context, date time.Time) ([]domain.Game, error) {
	var resp scheduleResponse
	url := fmt.Sprintf("%s/schedule?sportId=1&date=%s", c.v1(), date.Format("2006-01-02"))
	if err := c.get(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("mlb.FetchSchedule: %s: %w", date.Format("2006-01-02"), err)
	}
	if len(resp.Dates) == 0 {
		return nil, nil
	}

	var games []domain.Game
	for _, sg := range resp.Dates[0].Games {
		g := domain.Game{
			ID:         sg.GamePk,
			Status:     domain.ParseGameStatus(sg.Status.DetailedState),
			HomeTeamID: sg.Teams.Home.Team.ID,
			AwayTeamID: sg.Teams.Away.Team.ID,
			HomeScore:  sg.Teams.Home.Score,
			AwayScore:  sg.Teams.Away.Score,
		}
		if d, err := time.Parse("2006-01-02", sg.OfficialDate); err == nil {
			g.Date = d
		}
		if t, err := time.Parse(time.RFC3339, sg.GameDate); err == nil {
			g.StartTime = t
		}
		if pp := sg.Teams.Home.ProbablePitcher; pp != nil {
			g.HomeProbablePitcher = pp.ID
		}
		if pp := sg.Teams.Away.ProbablePitcher; pp != nil {
			g.AwayProbablePitcher = pp.ID
		}
		games = append(games, g)
	}
	return games, nil
}

// FetchTeams returns all MLB teams.
func (c *Client) FetchTeams(ctx context.Context) ([]domain.Team, error) {
	var resp teamsResponse
	if err := c.get(ctx, c.v1()+"/teams?sportId=1", &resp); err != nil {
		return nil, fmt.Errorf("mlb.FetchTeams: %w", err)
	}
	teams := make([]domain.Team, 0, len(resp.Teams))
	for _, t := range resp.Teams {
		teams = append(teams, domain.Team{
			ID:           t.ID,
			Name:         t.Name,
			Abbreviation: t.Abbreviation,
			League:       t.League.Name,
			Division:     t.Division.Name,
		})
	}
	return teams, nil
}

// FetchRoster returns the active roster for one team.
func (c *Client) FetchRoster(ctx context.Context, teamID int64) ([]domain.Player, error) {
	var resp rosterResponse
	url := fmt.Sprintf("%s/teams/%d/roster", c.v1(), teamID)
	if err := c.get(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("mlb.FetchRoster: team %d: %w", teamID, err)
	}
	players := make([]domain.Player, 0, len(resp.Roster))
	for _, r := range resp.Roster {
		if r.Person.ID == 0 {
			continue
		}
		players = append(players, domain.Player{
			ID:       r.Person.ID,
			FullName: r.Person.FullName,
			Position: r.Position.Abbreviation,
			TeamID:   teamID,
			Active:   true,
		})
	}
	return players, nil
}

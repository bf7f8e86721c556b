package domain

import "time"

// GameStatus is the lifecycle state of an MLB game as reported by the feed.
type GameStatus string

const (
	GameScheduled  GameStatus = "Scheduled"
	GamePreGame    GameStatus = "Pre-Game"
	GameWarmup     GameStatus = "Warmup"
	GameInProgress GameStatus = "In Progress"
	GameFinal      GameStatus = "Final"
	GamePostponed  GameStatus = "Postponed"
)

// ParseGameStatus maps the feed's detailedState to a known status.
// Unknown states map to Scheduled so a brand-new feed value never
// accidentally settles bets.
func ParseGameStatus(s string) GameStatus {
	switch s {
	case "Pre-Game":
		return GamePreGame
	case "Warmup":
		return GameWarmup
	case "In Progress", "Live":
		return GameInProgress
	case "Final", "Game Over", "Completed Early":
		return GameFinal
	case "Postponed":
		return GamePostponed
	default:
		return GameScheduled
	}
}

// IsTerminal reports whether no further game-state transitions occur.
func (s GameStatus) IsTerminal() bool {
	return s == GameFinal || s == GamePostponed
}

// IsLive reports whether the game is currently being played.
func (s GameStatus) IsLive() bool {
	return s == GameInProgress || s == GameWarmup
}

// Game is one scheduled MLB game. The identifier is the MLB gamePk and is
// immutable once created; every other field is refreshed on each poll.
type Game struct {
	ID                  int64
	Date                time.Time // calendar date of the game
	StartTime           time.Time
	Status              GameStatus
	Inning              int
	InningHalf          string // "Top" | "Bottom"
	HomeTeamID          int64
	AwayTeamID          int64
	HomeScore           int
	AwayScore           int
	HomeProbablePitcher int64 // 0 when not announced
	AwayProbablePitcher int64
}

// TeamScore returns the score of the given team, or -1 if the team is not
// playing in this game.
func (g Game) TeamScore(teamID int64) int {
	switch teamID {
	case g.HomeTeamID:
		return g.HomeScore
	case g.AwayTeamID:
		return g.AwayScore
	}
	return -1
}

// OpponentScore returns the score of the given team's opponent, or -1 if the
// team is not playing in this game.
func (g Game) OpponentScore(teamID int64) int {
	switch teamID {
	case g.HomeTeamID:
		return g.AwayScore
	case g.AwayTeamID:
		return g.HomeScore
	}
	return -1
}

// TotalRuns is the combined score of both teams.
func (g Game) TotalRuns() int {
	return g.HomeScore + g.AwayScore
}

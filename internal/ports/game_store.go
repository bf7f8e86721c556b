package ports

import (
	"context"
	"time"

	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/domain"
)

// GameStore persists games and box-score stat lines. All writes are upserts
// keyed by (game) or (game, player); the incoming write wins.
type GameStore interface {
	UpsertGame(ctx context.Context, game domain.Game) error
	GetGame(ctx context.Context, gameID int64) (domain.Game, error)
	ListGamesOn(ctx context.Context, date time.Time) ([]domain.Game, error)

	UpsertStatLines(ctx context.Context, lines []domain.StatLine) error
	// GetStatLine returns ok=false when the entity has no line yet, which is
	// not an error — they may simply not have batted or pitched.
	GetStatLine(ctx context.Context, gameID, playerID int64) (domain.StatLine, bool, error)
}

// RosterStore persists teams and players for bet validation.
type RosterStore interface {
	UpsertTeams(ctx context.Context, teams []domain.Team) error
	UpsertPlayers(ctx context.Context, players []domain.Player) error
	ListTeams(ctx context.Context) ([]domain.Team, error)
	ListActivePlayers(ctx context.Context, teamIDs []int64) ([]domain.Player, error)
}

package ports

import (
	"context"
	"time"

	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/domain"
)

// LiveFeed pulls game state from the upstream stats API. A fetch error or an
// empty snapshot is recoverable: the game is skipped for the cycle and
// re-attempted on the next one.
type LiveFeed interface {
	// FetchGameFeed returns the live snapshot for one game.
	FetchGameFeed(ctx context.Context, gameID int64) (domain.FeedSnapshot, error)

	// FetchSchedule returns the games scheduled on the given date, with
	// probable pitchers when announced.
	FetchSchedule(ctx context.Context, date time.Time) ([]domain.Game, error)
}

// RosterFeed pulls reference data (teams, rosters) from the upstream API.
type RosterFeed interface {
	FetchTeams(ctx context.Context) ([]domain.Team, error)
	FetchRoster(ctx context.Context, teamID int64) ([]domain.Player, error)
}

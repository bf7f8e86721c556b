package ports

import (
	"context"
	"time"

	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/domain"
)

// ActiveBet is one bet due for evaluation, annotated with its game and its
// tracking cursor snapshot (a fresh empty cursor when none exists yet).
type ActiveBet struct {
	Bet    domain.Bet
	Game   domain.Game
	Cursor domain.TrackingCursor
}

// BetStore persists bets and communities.
type BetStore interface {
	// CreateBet inserts the bet and fills in its generated ID.
	CreateBet(ctx context.Context, bet *domain.Bet) error

	// ListActiveBets returns all Pending/Live bets whose game is on the
	// given date, with cursor snapshots attached.
	ListActiveBets(ctx context.Context, date time.Time) ([]ActiveBet, error)

	// SetBetStatus transitions a bet's status. Only bets currently in
	// Pending or Live are transitioned; returns whether a row changed, so a
	// settled bet can never be overwritten.
	SetBetStatus(ctx context.Context, betID int64, to domain.BetStatus, value float64) (bool, error)

	// ListSettledBets returns a community's Won/Lost bets settled since the
	// given time, most recent first.
	ListSettledBets(ctx context.Context, communityID int64, since time.Time) ([]domain.Bet, error)

	ListCommunities(ctx context.Context) ([]domain.Community, error)
	GetCommunity(ctx context.Context, name string) (domain.Community, error)
}

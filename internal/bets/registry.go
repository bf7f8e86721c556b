package bets

// registry.go — bet entry. Free-text interpretation is an external service;
// the registry normalizes its output into closed enums, validates the
// subject against the day context and persists the bet.

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/domain"
	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/ports"
)

const lowConfidence = 50

// Registry logs new bets after interpretation and validation.
type Registry struct {
	interp ports.Interpreter
	store  ports.BetStore
	games  ports.GameStore
	roster ports.RosterStore
	now    func() time.Time
}

// NewRegistry creates a Registry with all dependencies injected.
func NewRegistry(interp ports.Interpreter, store ports.BetStore, games ports.GameStore, roster ports.RosterStore) *Registry {
	return &Registry{
		interp: interp,
		store:  store,
		games:  games,
		roster: roster,
		now:    time.Now,
	}
}

// PlaceBet interprets the free-text bet, validates it against today's slate
// and persists it for the given community. The returned Validation carries
// errors and suggestions when the bet is rejected.
func (r *Registry) PlaceBet(ctx context.Context, raw, community string) (domain.Bet, Validation, error) {
	parsed, err := r.interp.Interpret(ctx, raw)
	if err != nil {
		return domain.Bet{}, Validation{}, fmt.Errorf("bets.PlaceBet: interpret: %w", err)
	}
	if parsed.Confidence < lowConfidence {
		slog.Warn("low interpretation confidence", "confidence", parsed.Confidence, "raw", raw)
	}

	kind, ok := domain.ParseBetKind(parsed.BetType)
	if !ok {
		v := Validation{Errors: []string{fmt.Sprintf("unknown bet type %q", parsed.BetType)}}
		return domain.Bet{}, v, nil
	}

	snap, err := LoadContext(ctx, r.now(), r.games, r.roster)
	if err != nil {
		return domain.Bet{}, Validation{}, fmt.Errorf("bets.PlaceBet: %w", err)
	}

	v := Validate(snap, kind, parsed)
	if !v.OK {
		return domain.Bet{}, v, nil
	}

	comm, err := r.store.GetCommunity(ctx, community)
	if err != nil {
		return domain.Bet{}, v, fmt.Errorf("bets.PlaceBet: community %q: %w", community, err)
	}

	bet := domain.Bet{
		GameID:         v.GameID,
		PlayerID:       v.PlayerID,
		PitcherID:      v.PitcherID,
		TeamID:         v.TeamID,
		Kind:           kind,
		Operator:       domain.ParseOperator(parsed.Operator),
		Odds:           parsed.Odds,
		Units:          parsed.Units,
		CommunityID:    comm.ID,
		Community:      comm.Name,
		Tier:           comm.Tier,
		Status:         domain.BetPending,
		RawInput:       strings.TrimSpace(raw),
		Confidence:     parsed.Confidence,
		Interpretation: parsed.Interpretation,
	}
	if parsed.HasTarget {
		bet.Target = parsed.Target
	} else if kind == domain.KindMoneyline {
		bet.Target = 1
	}
	if bet.Units <= 0 {
		bet.Units = 1
	}
	if bet.Odds == "" {
		bet.Odds = "-110"
	}

	if err := r.store.CreateBet(ctx, &bet); err != nil {
		return domain.Bet{}, v, fmt.Errorf("bets.PlaceBet: %w", err)
	}

	slog.Info("bet logged",
		"bet_id", bet.ID,
		"kind", bet.Kind,
		"target", bet.Target,
		"community", comm.Name,
		"confidence", bet.Confidence,
	)
	return bet, v, nil
}

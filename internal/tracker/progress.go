package tracker

// progress.go — maps heterogeneous bet semantics onto one Progress model.
//
// Counting stats read a single StatLine field. TotalBases is derived from the
// hit breakdown. Moneyline, Spread and Total read game-level scores; a
// moneyline lead only counts as a hit once the game is Final, until then it
// is informational (feeds the lead-change milestone only).

import (
	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/domain"
)

// Evaluate computes the current progress of a bet from the stat line of its
// subject (zero value when the entity has no line yet) and the game state.
// prev is the last value recorded in the bet's tracking cursor.
func Evaluate(bet domain.Bet, line domain.StatLine, game domain.Game, prev float64) domain.Progress {
	current := resolveValue(bet, line, game)

	p := domain.Progress{
		BetID:    bet.ID,
		Kind:     bet.Kind,
		Operator: bet.Operator,
		Current:  current,
		Previous: prev,
		Target:   bet.Target,
	}

	switch bet.Kind {
	case domain.KindMoneyline:
		// A live lead is not a win. Hit only settles at Final.
		p.Hit = game.Status.IsTerminal() && current == 1
		if current == 1 {
			p.Pct = 100
		}
	case domain.KindSpread:
		// The margin swings both ways, so covering only settles at Final.
		p.Hit = game.Status.IsTerminal() && compare(current, bet.Target, bet.Operator)
		p.Pct = coveringPct(current, bet.Target)
	default:
		p.Hit = compare(current, bet.Target, bet.Operator)
		if bet.Operator != domain.OpOver {
			// Under and exactly can stop being true as stats accumulate.
			// Only an over on a non-decreasing count settles live.
			p.Hit = p.Hit && game.Status.IsTerminal()
		}
		p.Pct = domain.ClampPct(current, bet.Target)
	}

	return p
}

// resolveValue extracts the bet's current numeric value.
func resolveValue(bet domain.Bet, line domain.StatLine, game domain.Game) float64 {
	switch bet.Kind {
	case domain.KindHomeRuns:
		return float64(line.HomeRuns)
	case domain.KindHits:
		return float64(line.Hits)
	case domain.KindStrikeouts:
		return float64(line.PitcherStrikeouts)
	case domain.KindRBIs:
		return float64(line.RBIs)
	case domain.KindStolenBases:
		return float64(line.StolenBases)
	case domain.KindTotalBases:
		return float64(line.TotalBases())
	case domain.KindRuns:
		return float64(line.Runs)
	case domain.KindWalks:
		return float64(line.Walks)
	case domain.KindMoneyline:
		if game.TeamScore(bet.TeamID) > game.OpponentScore(bet.TeamID) {
			return 1
		}
		return 0
	case domain.KindSpread:
		// Margin relative to the line: positive means the team covers.
		return float64(game.TeamScore(bet.TeamID) - game.OpponentScore(bet.TeamID))
	case domain.KindTotal:
		return float64(game.TotalRuns())
	}
	return 0
}

// compare applies the bet's operator. Over is strict, so fractional targets
// (1.5, 8.5) can never tie and integer targets need target+1 occurrences.
func compare(current, target float64, op domain.Operator) bool {
	switch op {
	case domain.OpOver:
		return current > target
	case domain.OpUnder:
		return current < target
	case domain.OpExactly:
		return current == target
	}
	return false
}

// coveringPct maps a spread margin onto a rough progress percentage: 100 when
// covering, 50 when level with the line, scaled below that.
func coveringPct(margin, target float64) float64 {
	switch {
	case margin > target:
		return 100
	case margin == target:
		return 50
	case target == 0:
		return 0
	}
	return domain.ClampPct(margin, target)
}

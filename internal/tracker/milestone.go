package tracker

// milestone.go — the one-time progress event policy.
//
// Decide is a pure function of (bet, progress, cursor): calling it twice with
// identical inputs yields the same decision, and a key already present in the
// cursor's fired set is never returned again. The ledger's upsert-by-key
// persistence is the second line of defense.

import (
	"github.com/ConcosleyMedia/mlb-bet-tracker/config"
	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/domain"
)

// Policy decides milestone events from bet progress. Thresholds and alert
// budgets come from configuration.
type Policy struct {
	cfg config.MilestoneConfig
}

// NewPolicy creates a Policy with the given thresholds.
func NewPolicy(cfg config.MilestoneConfig) *Policy {
	return &Policy{cfg: cfg}
}

// AllowedAlerts is the per-bet milestone budget: big stakes and the top
// community tier get two alerts, everything else one. The won event is
// exempt and handled by the orchestrator.
func (p *Policy) AllowedAlerts(bet domain.Bet) int {
	if bet.Units >= p.cfg.BudgetUnits || bet.Tier == domain.TierPremium {
		return p.cfg.BudgetPremium
	}
	return p.cfg.BudgetDefault
}

// Decide returns the milestone to fire for this evaluation, or ok=false when
// nothing is due. It never returns a key the cursor has already fired and
// never exceeds the bet's alert budget.
func (p *Policy) Decide(bet domain.Bet, prog domain.Progress, cursor domain.TrackingCursor) (domain.MilestoneKey, bool) {
	if cursor.AlertsSent >= p.AllowedAlerts(bet) {
		return "", false
	}

	cur, prev, target := prog.Current, prog.Previous, prog.Target

	switch {
	case bet.Kind.IsCountingStat():
		if target <= p.cfg.LowTargetMax {
			// Small targets get exactly one alert, on the first occurrence.
			if prev == 0 && cur >= 1 && cursor.AlertsSent == 0 && !cursor.HasFired(domain.MilestoneFirstProgress) {
				return domain.MilestoneFirstProgress, true
			}
			return "", false
		}
		half := target * p.cfg.HalfwayPct
		near := target * p.cfg.NearCompletePct
		if cur >= half && prev < half && !cursor.HasFired(domain.MilestoneHalfway) {
			return domain.MilestoneHalfway, true
		}
		if cur >= near && prev < near && !cursor.HasFired(domain.MilestoneNearComplete) {
			return domain.MilestoneNearComplete, true
		}

	case bet.Kind == domain.KindMoneyline:
		if cur == 1 && prev == 0 && cursor.AlertsSent == 0 && !cursor.HasFired(domain.MilestoneLeadChange) {
			return domain.MilestoneLeadChange, true
		}

	case bet.Kind == domain.KindSpread:
		if cur > target && prev <= target && !cursor.HasFired(domain.MilestoneCovering) {
			return domain.MilestoneCovering, true
		}

	case bet.Kind == domain.KindTotal:
		if target <= p.cfg.LowTargetMax {
			if prev == 0 && cur >= 1 && !cursor.HasFired(domain.MilestoneFirstScore) {
				return domain.MilestoneFirstScore, true
			}
			return "", false
		}
		nearing := target * p.cfg.TotalNearingPct
		if cur >= nearing && prev < nearing && !cursor.HasFired(domain.MilestoneNearingTotal) {
			return domain.MilestoneNearingTotal, true
		}
	}

	return "", false
}

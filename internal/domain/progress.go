package domain

import "math"

// Progress is the evaluated state of one bet against current game state.
type Progress struct {
	BetID    int64
	Kind     BetKind
	Operator Operator

	Current  float64
	Previous float64 // last value recorded in the tracking cursor
	Target   float64

	// Pct is Current/Target clamped to [0,100]. For moneyline it is 0 or 100.
	Pct float64

	// Hit is the operator comparison against Target. For moneyline it is
	// only true once the game is Final.
	Hit bool
}

// Remaining returns how many more occurrences are needed for an `over` bet to
// hit. An integer target needs target+1 total (over is strict); a fractional
// target needs ceil(target). Never computed as target-current, which
// under-counts by one for integer targets.
func (p Progress) Remaining() int {
	if p.Operator != OpOver {
		return 0
	}
	var needed float64
	if p.Target == math.Trunc(p.Target) {
		needed = p.Target + 1
	} else {
		needed = math.Ceil(p.Target)
	}
	r := int(needed) - int(p.Current)
	if r < 0 {
		return 0
	}
	return r
}

// ClampPct converts a current/target pair into a percentage in [0,100].
func ClampPct(current, target float64) float64 {
	if target <= 0 {
		return 0
	}
	pct := current / target * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

package domain

import "time"

// MilestoneKey is the closed set of one-time progress events. The original
// system keyed fired milestones by ad-hoc percentage strings, which made
// dedup fragile; a stable enum key per milestone kind makes the ledger's
// upsert-by-key idempotence trivial.
type MilestoneKey string

const (
	MilestoneFirstProgress MilestoneKey = "first_progress"
	MilestoneHalfway       MilestoneKey = "halfway"
	MilestoneNearComplete  MilestoneKey = "near_complete"
	MilestoneLeadChange    MilestoneKey = "lead_change"
	MilestoneCovering      MilestoneKey = "covering"
	MilestoneNearingTotal  MilestoneKey = "nearing_total"
	MilestoneFirstScore    MilestoneKey = "first_score"
)

// FiredMilestone records one milestone that has already been sent for a bet.
type FiredMilestone struct {
	Key     MilestoneKey
	FiredAt time.Time
	Inning  int
	Value   float64
}

// TrackingCursor is the persisted per-bet progress state. Created lazily on
// first evaluation, updated on every subsequent one, retained for audit while
// the bet exists.
type TrackingCursor struct {
	BetID      int64
	LastValue  float64
	LastPct    float64
	AlertsSent int
	Fired      map[MilestoneKey]FiredMilestone
	UpdatedAt  time.Time
}

// NewTrackingCursor returns an empty cursor for a bet's first evaluation.
func NewTrackingCursor(betID int64) TrackingCursor {
	return TrackingCursor{
		BetID: betID,
		Fired: make(map[MilestoneKey]FiredMilestone),
	}
}

// HasFired reports whether the milestone key already fired for this bet.
func (c TrackingCursor) HasFired(key MilestoneKey) bool {
	_, ok := c.Fired[key]
	return ok
}

package domain

// StatLine is the per-game counting-stat snapshot for one player, batting and
// pitching sections combined like the MLB box score. Upserted on every poll;
// values normally only grow within a game, but upstream corrections can shrink
// them and must be tolerated.
type StatLine struct {
	GameID   int64
	PlayerID int64

	// Batting
	AtBats      int
	Hits        int
	Doubles     int
	Triples     int
	HomeRuns    int
	Runs        int
	RBIs        int
	Walks       int
	StolenBases int

	// Pitching
	InningsPitched    float64
	PitcherStrikeouts int
	WalksAllowed      int
	HitsAllowed       int
	EarnedRuns        int
	PitchCount        int
}

// Singles derives singles from the hit breakdown. The feed reports hits as a
// total, so singles = hits - doubles - triples - home runs.
func (s StatLine) Singles() int {
	n := s.Hits - s.Doubles - s.Triples - s.HomeRuns
	if n < 0 {
		return 0
	}
	return n
}

// TotalBases is 1×singles + 2×doubles + 3×triples + 4×home runs. Summing the
// raw Hits field instead of Singles would double-count extra-base hits.
func (s StatLine) TotalBases() int {
	return s.Singles() + 2*s.Doubles + 3*s.Triples + 4*s.HomeRuns
}

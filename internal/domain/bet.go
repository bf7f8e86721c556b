package domain

import (
	"strings"
	"time"
)

// BetKind is the closed set of statistics and outcomes a bet can target.
type BetKind string

const (
	KindHomeRuns    BetKind = "HomeRuns"
	KindHits        BetKind = "Hits"
	KindStrikeouts  BetKind = "Strikeouts"
	KindRBIs        BetKind = "RBIs"
	KindStolenBases BetKind = "StolenBases"
	KindTotalBases  BetKind = "TotalBases"
	KindRuns        BetKind = "Runs"
	KindWalks       BetKind = "Walks"
	KindMoneyline   BetKind = "Moneyline"
	KindSpread      BetKind = "Spread"
	KindTotal       BetKind = "Total"
)

// ParseBetKind normalizes the interpreter's bet-type strings (and their
// common shorthand) into a BetKind. The original system compared raw strings
// at every call site and silently no-opped on pluralization mismatches; parse
// once at the edge instead.
func ParseBetKind(s string) (BetKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hrs", "hr", "home runs", "homeruns":
		return KindHomeRuns, true
	case "hits", "h":
		return KindHits, true
	case "ks", "k", "strikeouts":
		return KindStrikeouts, true
	case "rbis", "rbi":
		return KindRBIs, true
	case "sbs", "sb", "stolen bases", "stolenbases":
		return KindStolenBases, true
	case "total bases", "totalbases", "tb":
		return KindTotalBases, true
	case "runs", "r":
		return KindRuns, true
	case "walks", "bb":
		return KindWalks, true
	case "moneyline", "ml":
		return KindMoneyline, true
	case "spread", "runline", "run line":
		return KindSpread, true
	case "total", "o/u", "over/under":
		return KindTotal, true
	}
	return "", false
}

// IsCountingStat reports whether the kind resolves from a single StatLine
// field (as opposed to game-level outcomes).
func (k BetKind) IsCountingStat() bool {
	switch k {
	case KindHomeRuns, KindHits, KindStrikeouts, KindRBIs,
		KindStolenBases, KindTotalBases, KindRuns, KindWalks:
		return true
	}
	return false
}

// IsPitcherStat reports whether the kind resolves from the pitching section
// of the subject's StatLine.
func (k BetKind) IsPitcherStat() bool {
	return k == KindStrikeouts
}

// Operator is the comparison applied between current value and target.
type Operator string

const (
	OpOver    Operator = "over"
	OpUnder   Operator = "under"
	OpExactly Operator = "exactly"
	OpNone    Operator = "" // moneyline has no operator
)

// ParseOperator normalizes the interpreter's operator string.
func ParseOperator(s string) Operator {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "over":
		return OpOver
	case "under":
		return OpUnder
	case "exactly":
		return OpExactly
	}
	return OpNone
}

// BetStatus is the bet lifecycle. Pending→Live on first live observation,
// then exactly one of the terminal states. Won and Lost never revert.
type BetStatus string

const (
	BetPending   BetStatus = "Pending"
	BetLive      BetStatus = "Live"
	BetWon       BetStatus = "Won"
	BetLost      BetStatus = "Lost"
	BetCancelled BetStatus = "Cancelled"
	BetCompleted BetStatus = "Completed"
)

// IsTerminal reports whether no further status transitions are allowed.
func (s BetStatus) IsTerminal() bool {
	switch s {
	case BetWon, BetLost, BetCancelled, BetCompleted:
		return true
	}
	return false
}

// Bet is one placed community bet. Exactly one of PlayerID / PitcherID /
// TeamID is set, depending on Kind.
type Bet struct {
	ID        int64
	GameID    int64
	PlayerID  int64 // batter props
	PitcherID int64 // strikeout props
	TeamID    int64 // moneyline / spread

	Kind     BetKind
	Target   float64
	Operator Operator
	Odds     string
	Units    float64

	CommunityID int64
	Community   string
	Tier        CommunityTier

	Status BetStatus

	RawInput       string
	Confidence     int
	Interpretation string

	CreatedAt time.Time
	SettledAt time.Time
}

// Subject is the feed entity whose StatLine resolves this bet's value.
// Team-level kinds return the team ID.
func (b Bet) Subject() int64 {
	switch {
	case b.Kind.IsPitcherStat() && b.PitcherID != 0:
		return b.PitcherID
	case b.PlayerID != 0:
		return b.PlayerID
	}
	return b.TeamID
}

// Winner identifies a won bet in the run summary.
type Winner struct {
	BetID     int64
	Subject   string
	Community string
	Kind      BetKind
	Target    float64
	Value     float64
}

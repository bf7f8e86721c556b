package domain

// FeedSnapshot is one live-feed pull for a game: game state plus the box
// score stat lines for every entity that has appeared. Empty Stats is normal
// early in a game.
type FeedSnapshot struct {
	GameID     int64
	Status     GameStatus
	Inning     int
	InningHalf string
	HomeScore  int
	AwayScore  int
	Stats      []StatLine
}

// Empty reports whether the feed returned no usable game state, which the
// orchestrator treats as "skip this game for the cycle".
func (f FeedSnapshot) Empty() bool {
	return f.GameID == 0
}

package domain

// Team is one MLB franchise, refreshed from the stats API.
type Team struct {
	ID           int64
	Name         string
	Abbreviation string
	League       string
	Division     string
}

// Player is one rostered player. Status tracks roster membership, not
// day-to-day lineup presence.
type Player struct {
	ID       int64
	FullName string
	Position string
	TeamID   int64
	Active   bool
}

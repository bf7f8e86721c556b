package domain

// ParsedBet is the structured record returned by the external free-text
// interpretation service. Fields are raw strings; normalization into closed
// enums happens in the bet registry.
type ParsedBet struct {
	PlayerName     string
	TeamName       string
	BetType        string
	Target         float64
	HasTarget      bool
	Operator       string
	Odds           string
	Units          float64
	Confidence     int
	Interpretation string
}

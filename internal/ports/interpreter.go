package ports

import (
	"context"

	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/domain"
)

// Interpreter is the external natural-language service that turns a free-text
// bet into a structured record with a confidence score. Consumed as a black
// box; a failed interpretation surfaces as an error, never a guess.
type Interpreter interface {
	Interpret(ctx context.Context, raw string) (domain.ParsedBet, error)
}

package notify_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/adapters/notify"
	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/domain"
	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/tracker"
	"github.com/stretchr/testify/assert"
)

func makeSummary() tracker.Summary {
	return tracker.Summary{
		GamesTracked:   2,
		BetsChecked:    5,
		BetsUpdated:    5,
		MessagesQueued: 2,
		Winners: []domain.Winner{
			{BetID: 7, Subject: "Judge over 1.5 HRs", Community: "StatEdge", Kind: domain.KindHomeRuns, Target: 1.5, Value: 2},
		},
		Errors:   []string{"game 200: fetch feed: timeout"},
		Duration: 340 * time.Millisecond,
	}
}

func TestConsole_Compact(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, false)

	c.PrintSummary(makeSummary())

	out := buf.String()
	assert.Contains(t, out, "2 games")
	assert.Contains(t, out, "1 won")
	assert.NotContains(t, out, "Judge", "compact mode omits the winners table")
}

func TestConsole_Table(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, true)

	c.PrintSummary(makeSummary())

	out := buf.String()
	assert.Contains(t, out, "Judge over 1.5 HRs")
	assert.Contains(t, out, "StatEdge")
	assert.Contains(t, out, "2/1.5")
	assert.Contains(t, out, "! game 200: fetch feed: timeout")
}

func TestConsole_TableWithoutWinners(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, true)

	s := makeSummary()
	s.Winners = nil
	s.Errors = nil
	c.PrintSummary(s)

	assert.NotContains(t, buf.String(), "Community")
}

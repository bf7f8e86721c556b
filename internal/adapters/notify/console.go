package notify

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/tracker"
	"github.com/olekukonko/tablewriter"
)

// Console prints run summaries to stdout for interactive use.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole creates a console printer. With table set it prints the full
// winners table instead of the compact one-liner.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter creates a printer for tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// PrintSummary prints the run summary in the configured mode.
func (c *Console) PrintSummary(s tracker.Summary) {
	now := time.Now().Format("15:04:05")

	if !c.table {
		fmt.Fprintf(c.out, "[%s] %d games, %d bets checked, %d updated, %d queued, %d won, %d errors (%s)\n",
			now, s.GamesTracked, s.BetsChecked, s.BetsUpdated, s.MessagesQueued,
			len(s.Winners), len(s.Errors), s.Duration.Round(time.Millisecond))
		return
	}

	fmt.Fprintf(c.out, "\n[%s] tracking run — games:%d checked:%d updated:%d queued:%d errors:%d\n",
		now, s.GamesTracked, s.BetsChecked, s.BetsUpdated, s.MessagesQueued, len(s.Errors))

	if len(s.Winners) > 0 {
		table := tablewriter.NewWriter(c.out)
		table.Header("Bet", "Community", "Kind", "Result", "Pick")

		for _, w := range s.Winners {
			table.Append(
				fmt.Sprintf("%d", w.BetID),
				w.Community,
				string(w.Kind),
				fmt.Sprintf("%.0f/%.1f", w.Value, w.Target),
				truncate(w.Subject, 40),
			)
		}
		table.Render()
	}

	for _, e := range s.Errors {
		fmt.Fprintf(c.out, "  ! %s\n", e)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

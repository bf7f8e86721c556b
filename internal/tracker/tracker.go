package tracker

// tracker.go — the orchestrator for one tracking cycle.
//
// Cycle shape: list active bets → group by game → per game: one feed fetch,
// upsert game + stat lines, evaluate every bet on it → backstop sweep for
// terminal games. Failures are isolated per game and per bet: they land in
// the run summary's error list and never abort sibling work. The cycle
// always returns a Summary; Failed() is true only for a total failure
// (errors and zero bets updated).

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/ConcosleyMedia/mlb-bet-tracker/config"
	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/domain"
	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/ports"
)

// Config controls the tracking loop.
type Config struct {
	PollInterval time.Duration
	Milestone    config.MilestoneConfig
	DryRun       bool // run one cycle and stop
}

// DefaultConfig returns a production-sane tracking configuration.
func DefaultConfig() Config {
	cfg := config.Default()
	return Config{
		PollInterval: cfg.PollInterval(),
		Milestone:    cfg.Milestone,
	}
}

// Summary is the contract returned to the external scheduler after each run.
type Summary struct {
	GamesTracked   int
	BetsChecked    int
	BetsUpdated    int
	MessagesQueued int
	Winners        []domain.Winner
	Errors         []string
	Duration       time.Duration
}

// Failed reports a total failure: errors occurred and not a single bet was
// updated. Partial degradation (some errors, some updates) is not a failure.
func (s Summary) Failed() bool {
	return s.BetsUpdated == 0 && len(s.Errors) > 0
}

// Tracker drives live bet tracking against the injected ports.
type Tracker struct {
	cfg    Config
	feed   ports.LiveFeed
	games  ports.GameStore
	bets   ports.BetStore
	ledger ports.Ledger
	sink   ports.Sink
	policy *Policy
	now    func() time.Time
}

// New creates a Tracker with all dependencies injected.
func New(cfg Config, feed ports.LiveFeed, games ports.GameStore, bets ports.BetStore, ledger ports.Ledger, sink ports.Sink) *Tracker {
	return &Tracker{
		cfg:    cfg,
		feed:   feed,
		games:  games,
		bets:   bets,
		ledger: ledger,
		sink:   sink,
		policy: NewPolicy(cfg.Milestone),
		now:    time.Now,
	}
}

// Run executes tracking cycles until the context is cancelled. With DryRun
// set it executes exactly one cycle.
func (t *Tracker) Run(ctx context.Context) error {
	slog.Info("tracker starting",
		"interval", t.cfg.PollInterval,
		"dry_run", t.cfg.DryRun,
	)

	summary := t.RunOnce(ctx)
	logSummary(summary)
	if t.cfg.DryRun {
		if summary.Failed() {
			return fmt.Errorf("tracker.Run: cycle failed: %d errors", len(summary.Errors))
		}
		return nil
	}

	ticker := time.NewTicker(t.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("tracker stopped")
			return nil
		case <-ticker.C:
			summary := t.RunOnce(ctx)
			logSummary(summary)
		}
	}
}

// RunOnce executes one full tracking cycle. It never returns an error; every
// per-game and per-bet failure is recorded in the summary.
func (t *Tracker) RunOnce(ctx context.Context) Summary {
	start := t.now()
	var summary Summary

	active, err := t.bets.ListActiveBets(ctx, start)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("list active bets: %v", err))
		summary.Duration = t.now().Sub(start)
		return summary
	}
	if len(active) == 0 {
		slog.Info("no active bets to track")
		summary.Duration = t.now().Sub(start)
		return summary
	}

	// One feed fetch serves every bet on the game.
	byGame := groupByGame(active)
	gameIDs := sortedGameIDs(byGame)
	summary.GamesTracked = len(gameIDs)

	games := make(map[int64]domain.Game, len(gameIDs))
	for _, gameID := range gameIDs {
		gameBets := byGame[gameID]
		game, ok := t.trackGame(ctx, gameID, gameBets, &summary)
		if ok {
			games[gameID] = game
		} else {
			// Keep the last stored state for the backstop sweep.
			games[gameID] = gameBets[0].Game
		}
	}

	t.sweepTerminalGames(ctx, active, games, &summary)

	summary.Duration = t.now().Sub(start)
	return summary
}

// trackGame refreshes one game from the feed and evaluates its bets. Returns
// the refreshed game state and whether the refresh succeeded.
func (t *Tracker) trackGame(ctx context.Context, gameID int64, bets []ports.ActiveBet, summary *Summary) (domain.Game, bool) {
	snap, err := t.feed.FetchGameFeed(ctx, gameID)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("game %d: fetch feed: %v", gameID, err))
		return domain.Game{}, false
	}
	if snap.Empty() {
		slog.Debug("feed returned no state, skipping game", "game_id", gameID)
		return domain.Game{}, false
	}

	game := bets[0].Game
	game.Status = snap.Status
	game.Inning = snap.Inning
	game.InningHalf = snap.InningHalf
	game.HomeScore = snap.HomeScore
	game.AwayScore = snap.AwayScore

	if err := t.games.UpsertGame(ctx, game); err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("game %d: upsert game: %v", gameID, err))
		return domain.Game{}, false
	}
	if err := t.games.UpsertStatLines(ctx, snap.Stats); err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("game %d: upsert stat lines: %v", gameID, err))
		return game, true // game state itself is usable
	}

	for _, ab := range bets {
		summary.BetsChecked++
		if err := t.evaluateBet(ctx, ab, game, summary); err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("bet %d: %v", ab.Bet.ID, err))
		}
	}
	return game, true
}

// evaluateBet runs one bet through progress → milestone → ledger → emit.
func (t *Tracker) evaluateBet(ctx context.Context, ab ports.ActiveBet, game domain.Game, summary *Summary) error {
	bet := ab.Bet

	line, _, err := t.games.GetStatLine(ctx, game.ID, bet.Subject())
	if err != nil {
		return fmt.Errorf("get stat line: %w", err)
	}

	prog := Evaluate(bet, line, game, ab.Cursor.LastValue)

	var fired *domain.FiredMilestone
	if !prog.Hit {
		if key, ok := t.policy.Decide(bet, prog, ab.Cursor); ok {
			fired = &domain.FiredMilestone{
				Key:     key,
				FiredAt: t.now(),
				Inning:  game.Inning,
				Value:   prog.Current,
			}
		}
	}

	if err := t.ledger.UpdateCursor(ctx, bet.ID, prog.Current, prog.Pct, game.Inning, fired); err != nil {
		return fmt.Errorf("update cursor: %w", err)
	}
	summary.BetsUpdated++

	if fired != nil {
		ev := domain.NewNotificationEvent(domain.NotifyMilestone, bet.CommunityID, bet.Community, bet.Tier, t.now())
		ev.Milestone = fired.Key
		ev.BetID = bet.ID
		ev.GameID = game.ID
		if err := t.sink.Enqueue(ctx, ev); err != nil {
			return fmt.Errorf("enqueue milestone: %w", err)
		}
		summary.MessagesQueued++
		slog.Info("milestone fired",
			"bet_id", bet.ID,
			"milestone", fired.Key,
			"value", prog.Current,
			"target", prog.Target,
			"inning", game.Inning,
		)
	}

	switch {
	case prog.Hit:
		// Wins always notify, outside the milestone budget. The status guard
		// makes the notification fire exactly once: a bet already settled
		// reports no change.
		changed, err := t.bets.SetBetStatus(ctx, bet.ID, domain.BetWon, prog.Current)
		if err != nil {
			return fmt.Errorf("set status won: %w", err)
		}
		if changed {
			if err := t.recordWin(ctx, bet, game.ID, prog, summary); err != nil {
				return err
			}
		}

	case bet.Status == domain.BetPending && game.Status.IsLive():
		if _, err := t.bets.SetBetStatus(ctx, bet.ID, domain.BetLive, prog.Current); err != nil {
			return fmt.Errorf("set status live: %w", err)
		}
	}

	return nil
}

// recordWin enqueues the win notification and records the winner in the
// summary. Called only after a status transition to Won actually happened.
func (t *Tracker) recordWin(ctx context.Context, bet domain.Bet, gameID int64, prog domain.Progress, summary *Summary) error {
	ev := domain.NewNotificationEvent(domain.NotifyWon, bet.CommunityID, bet.Community, bet.Tier, t.now())
	ev.BetID = bet.ID
	ev.GameID = gameID
	if err := t.sink.Enqueue(ctx, ev); err != nil {
		return fmt.Errorf("enqueue won: %w", err)
	}
	summary.MessagesQueued++
	summary.Winners = append(summary.Winners, domain.Winner{
		BetID:     bet.ID,
		Subject:   bet.RawInput,
		Community: bet.Community,
		Kind:      bet.Kind,
		Target:    bet.Target,
		Value:     prog.Current,
	})
	slog.Info("bet won",
		"bet_id", bet.ID,
		"kind", bet.Kind,
		"value", prog.Current,
		"target", prog.Target,
	)
	return nil
}

// sweepTerminalGames is the backstop: any bet still Pending/Live on a
// terminal game is settled here, even if its per-bet evaluation failed this
// cycle. The status guard in the store makes the sweep idempotent.
func (t *Tracker) sweepTerminalGames(ctx context.Context, active []ports.ActiveBet, games map[int64]domain.Game, summary *Summary) {
	for _, ab := range active {
		game, ok := games[ab.Bet.GameID]
		if !ok || !game.Status.IsTerminal() {
			continue
		}
		if ab.Bet.Status.IsTerminal() {
			continue
		}

		line, _, err := t.games.GetStatLine(ctx, game.ID, ab.Bet.Subject())
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("sweep bet %d: get stat line: %v", ab.Bet.ID, err))
			continue
		}
		prog := Evaluate(ab.Bet, line, game, ab.Cursor.LastValue)

		status := domain.BetLost
		if prog.Hit {
			status = domain.BetWon
		}
		changed, err := t.bets.SetBetStatus(ctx, ab.Bet.ID, status, prog.Current)
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("sweep bet %d: set status: %v", ab.Bet.ID, err))
			continue
		}
		if changed {
			if status == domain.BetWon {
				if err := t.recordWin(ctx, ab.Bet, game.ID, prog, summary); err != nil {
					summary.Errors = append(summary.Errors, fmt.Sprintf("sweep bet %d: %v", ab.Bet.ID, err))
					continue
				}
			}
			slog.Info("settled on final game",
				"bet_id", ab.Bet.ID,
				"status", status,
				"value", prog.Current,
				"target", ab.Bet.Target,
			)
		}
	}
}

func groupByGame(active []ports.ActiveBet) map[int64][]ports.ActiveBet {
	byGame := make(map[int64][]ports.ActiveBet)
	for _, ab := range active {
		byGame[ab.Bet.GameID] = append(byGame[ab.Bet.GameID], ab)
	}
	return byGame
}

func sortedGameIDs(byGame map[int64][]ports.ActiveBet) []int64 {
	ids := make([]int64, 0, len(byGame))
	for id := range byGame {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func logSummary(s Summary) {
	slog.Info("tracking cycle complete",
		"games", s.GamesTracked,
		"bets_checked", s.BetsChecked,
		"bets_updated", s.BetsUpdated,
		"messages_queued", s.MessagesQueued,
		"winners", len(s.Winners),
		"errors", len(s.Errors),
		"duration", s.Duration.Round(time.Millisecond),
	)
	for _, e := range s.Errors {
		slog.Warn("cycle error", "err", e)
	}
}

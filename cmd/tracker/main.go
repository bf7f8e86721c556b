package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ConcosleyMedia/mlb-bet-tracker/config"
	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/adapters/interpreter"
	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/adapters/mlb"
	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/adapters/notify"
	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/adapters/storage"
	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/bets"
	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/domain"
	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/schedule"
	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/tracker"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one tracking cycle and exit")
	sync := flag.Bool("sync", false, "sync today's schedule and rosters, then exit")
	scheduleDay := flag.Bool("schedule", false, "queue pregame/marketing/streak messages for today, then exit")
	betText := flag.String("bet", "", "log a free-text bet and exit (e.g. \"judge over 1.5 hits 2u\")")
	community := flag.String("community", "StatEdge", "community the bet belongs to")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print full winners table (default: compact 1-line)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	slog.Info("bet tracker starting",
		"config", *configPath,
		"interval", cfg.PollInterval(),
		"once", *once,
		"sync", *sync,
		"schedule", *scheduleDay,
	)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := store.SeedCommunities(ctx, domain.DefaultCommunities()); err != nil {
		slog.Error("failed to seed communities", "err", err)
		os.Exit(1)
	}

	client := mlb.NewClient(cfg.API.MLBBase)

	if *sync {
		runSync(ctx, client, store)
		return
	}
	if *scheduleDay {
		runSchedulers(ctx, cfg, store)
		return
	}
	if *betText != "" {
		runPlaceBet(ctx, cfg, store, *betText, *community)
		return
	}

	trackCfg := tracker.Config{
		PollInterval: cfg.PollInterval(),
		Milestone:    cfg.Milestone,
		DryRun:       *once,
	}
	t := tracker.New(trackCfg, client, store, store, store, store)

	if *once {
		summary := t.RunOnce(ctx)
		notify.NewConsole(*table).PrintSummary(summary)
		if summary.Failed() {
			os.Exit(1)
		}
		return
	}

	if err := t.Run(ctx); err != nil {
		slog.Error("tracker exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("bet tracker stopped cleanly")
}

// runSync pulls today's schedule, the team list and every active roster into
// local storage so bet entry can validate names offline.
func runSync(ctx context.Context, client *mlb.Client, store *storage.SQLiteStorage) {
	games, err := client.FetchSchedule(ctx, time.Now())
	if err != nil {
		slog.Error("failed to fetch schedule", "err", err)
		os.Exit(1)
	}
	for _, g := range games {
		if err := store.UpsertGame(ctx, g); err != nil {
			slog.Error("failed to store game", "err", err, "game_id", g.ID)
			os.Exit(1)
		}
	}
	slog.Info("schedule synced", "games", len(games))

	teams, err := client.FetchTeams(ctx)
	if err != nil {
		slog.Error("failed to fetch teams", "err", err)
		os.Exit(1)
	}
	if err := store.UpsertTeams(ctx, teams); err != nil {
		slog.Error("failed to store teams", "err", err)
		os.Exit(1)
	}

	var players int
	for _, t := range teams {
		roster, err := client.FetchRoster(ctx, t.ID)
		if err != nil {
			slog.Warn("failed to fetch roster, skipping team", "err", err, "team_id", t.ID)
			continue
		}
		if err := store.UpsertPlayers(ctx, roster); err != nil {
			slog.Error("failed to store roster", "err", err, "team_id", t.ID)
			os.Exit(1)
		}
		players += len(roster)
	}
	slog.Info("rosters synced", "teams", len(teams), "players", players)
}

// runPlaceBet interprets a free-text bet, validates it against today's slate
// and stores it. Rejections print the validator's errors and suggestions.
func runPlaceBet(ctx context.Context, cfg *config.Config, store *storage.SQLiteStorage, raw, community string) {
	if cfg.API.OpenAIKey == "" {
		slog.Error("OPENAI_API_KEY is not set, cannot interpret bets")
		os.Exit(1)
	}

	interp := interpreter.New(cfg.API.OpenAIBase, cfg.API.OpenAIModel, cfg.API.OpenAIKey)
	registry := bets.NewRegistry(interp, store, store, store)

	bet, v, err := registry.PlaceBet(ctx, raw, community)
	if err != nil {
		slog.Error("failed to place bet", "err", err)
		os.Exit(1)
	}
	if !v.OK {
		for _, e := range v.Errors {
			fmt.Fprintf(os.Stderr, "rejected: %s\n", e)
		}
		for _, s := range v.Suggestions {
			fmt.Fprintf(os.Stderr, "did you mean: %s\n", s)
		}
		os.Exit(1)
	}

	fmt.Printf("bet #%d logged: %s (%s, %.1fu @ %s)\n",
		bet.ID, bet.Interpretation, bet.Community, bet.Units, bet.Odds)
}

// runSchedulers queues the day's pregame reminders, one marketing slot per
// community and any streak celebration. Safe to re-run within the same day.
func runSchedulers(ctx context.Context, cfg *config.Config, store *storage.SQLiteStorage) {
	pregame, err := schedule.NewPregame(store, store, cfg.Schedule.PregameOffsetsMinutes).ScheduleDay(ctx)
	if err != nil {
		slog.Error("pregame scheduling failed", "err", err)
		os.Exit(1)
	}

	marketing, err := schedule.NewMarketing(store, store, cfg.Schedule.MarketingWindowStart, cfg.Schedule.MarketingWindowEnd).ScheduleDay(ctx)
	if err != nil {
		slog.Error("marketing scheduling failed", "err", err)
		os.Exit(1)
	}

	streak, err := schedule.NewStreak(store, store, cfg.Schedule.StreakThreshold).Run(ctx)
	if err != nil {
		slog.Error("streak check failed", "err", err)
		os.Exit(1)
	}

	slog.Info("day scheduled", "pregame", pregame, "marketing", marketing, "streak", streak)
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

package storage

// sqlite.go — one SQLite database for every durable record.
//
// Every write is an upsert keyed by the record's natural key (game, (game,
// player), bet, (bet, milestone)), so re-running a cycle can never duplicate
// rows. Bet settlement is guarded in SQL: only Pending/Live rows transition,
// which is what makes Won/Lost sticky under at-least-once evaluation.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS teams (
    team_id      INTEGER PRIMARY KEY,
    team_name    TEXT NOT NULL,
    abbreviation TEXT NOT NULL DEFAULT '',
    league       TEXT NOT NULL DEFAULT '',
    division     TEXT NOT NULL DEFAULT '',
    updated_at   DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS players (
    player_id  INTEGER PRIMARY KEY,
    full_name  TEXT NOT NULL,
    position   TEXT NOT NULL DEFAULT '',
    team_id    INTEGER NOT NULL,
    active     INTEGER NOT NULL DEFAULT 1,
    updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS games (
    game_id               INTEGER PRIMARY KEY,
    game_date             TEXT NOT NULL,
    start_time            DATETIME,
    status                TEXT NOT NULL,
    inning                INTEGER NOT NULL DEFAULT 0,
    inning_half           TEXT NOT NULL DEFAULT '',
    home_team_id          INTEGER NOT NULL,
    away_team_id          INTEGER NOT NULL,
    home_score            INTEGER NOT NULL DEFAULT 0,
    away_score            INTEGER NOT NULL DEFAULT 0,
    home_probable_pitcher INTEGER NOT NULL DEFAULT 0,
    away_probable_pitcher INTEGER NOT NULL DEFAULT 0,
    updated_at            DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS stat_lines (
    game_id            INTEGER NOT NULL,
    player_id          INTEGER NOT NULL,
    at_bats            INTEGER NOT NULL DEFAULT 0,
    hits               INTEGER NOT NULL DEFAULT 0,
    doubles            INTEGER NOT NULL DEFAULT 0,
    triples            INTEGER NOT NULL DEFAULT 0,
    home_runs          INTEGER NOT NULL DEFAULT 0,
    runs               INTEGER NOT NULL DEFAULT 0,
    rbis               INTEGER NOT NULL DEFAULT 0,
    walks              INTEGER NOT NULL DEFAULT 0,
    stolen_bases       INTEGER NOT NULL DEFAULT 0,
    innings_pitched    REAL    NOT NULL DEFAULT 0,
    pitcher_strikeouts INTEGER NOT NULL DEFAULT 0,
    walks_allowed      INTEGER NOT NULL DEFAULT 0,
    hits_allowed       INTEGER NOT NULL DEFAULT 0,
    earned_runs        INTEGER NOT NULL DEFAULT 0,
    pitch_count        INTEGER NOT NULL DEFAULT 0,
    updated_at         DATETIME NOT NULL,
    PRIMARY KEY (game_id, player_id)
);

CREATE TABLE IF NOT EXISTS communities (
    community_id   INTEGER PRIMARY KEY AUTOINCREMENT,
    community_name TEXT NOT NULL UNIQUE,
    tier           INTEGER NOT NULL,
    active         INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS bets (
    bet_id         INTEGER PRIMARY KEY AUTOINCREMENT,
    game_id        INTEGER NOT NULL,
    player_id      INTEGER NOT NULL DEFAULT 0,
    pitcher_id     INTEGER NOT NULL DEFAULT 0,
    team_id        INTEGER NOT NULL DEFAULT 0,
    kind           TEXT NOT NULL,
    target         REAL NOT NULL DEFAULT 0,
    operator       TEXT NOT NULL DEFAULT '',
    odds           TEXT NOT NULL DEFAULT '',
    units          REAL NOT NULL DEFAULT 1,
    community_id   INTEGER NOT NULL,
    status         TEXT NOT NULL DEFAULT 'Pending',
    raw_input      TEXT NOT NULL DEFAULT '',
    confidence     INTEGER NOT NULL DEFAULT 0,
    interpretation TEXT NOT NULL DEFAULT '',
    result_value   REAL NOT NULL DEFAULT 0,
    created_at     DATETIME NOT NULL,
    settled_at     DATETIME
);

CREATE TABLE IF NOT EXISTS bet_tracking (
    bet_id      INTEGER PRIMARY KEY,
    last_value  REAL NOT NULL DEFAULT 0,
    last_pct    REAL NOT NULL DEFAULT 0,
    alerts_sent INTEGER NOT NULL DEFAULT 0,
    inning      INTEGER NOT NULL DEFAULT 0,
    updated_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS fired_milestones (
    bet_id    INTEGER NOT NULL,
    milestone TEXT NOT NULL,
    fired_at  DATETIME NOT NULL,
    inning    INTEGER NOT NULL DEFAULT 0,
    value     REAL NOT NULL DEFAULT 0,
    PRIMARY KEY (bet_id, milestone)
);

CREATE TABLE IF NOT EXISTS message_log (
    id           TEXT PRIMARY KEY,
    community_id INTEGER NOT NULL,
    kind         TEXT NOT NULL,
    milestone    TEXT NOT NULL DEFAULT '',
    bet_id       INTEGER NOT NULL DEFAULT 0,
    game_id      INTEGER NOT NULL DEFAULT 0,
    about_community TEXT NOT NULL DEFAULT '',
    priority     INTEGER NOT NULL DEFAULT 1,
    scheduled_at DATETIME NOT NULL,
    status       TEXT NOT NULL DEFAULT 'pending',
    created_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_games_date      ON games(game_date);
CREATE INDEX IF NOT EXISTS idx_bets_status     ON bets(status);
CREATE INDEX IF NOT EXISTS idx_bets_game       ON bets(game_id);
CREATE INDEX IF NOT EXISTS idx_bets_settled    ON bets(community_id, settled_at DESC);
CREATE INDEX IF NOT EXISTS idx_msg_community   ON message_log(community_id, kind, created_at);
CREATE INDEX IF NOT EXISTS idx_msg_schedule    ON message_log(game_id, community_id, kind, scheduled_at);
`

const dateFormat = "2006-01-02"

// SQLiteStorage implements the game, roster, bet, ledger and sink ports on a
// single SQLite file (pure Go driver, no CGo).
type SQLiteStorage struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStorage opens (or creates) the database at the given path and
// applies the schema.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	// SQLite is single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	return &SQLiteStorage{db: db, now: time.Now}, nil
}

// Close closes the database handle.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// SeedCommunities inserts the given communities, skipping names that already
// exist. Used at startup to guarantee the tier table is populated.
func (s *SQLiteStorage) SeedCommunities(ctx context.Context, communities []domain.Community) error {
	for _, c := range communities {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO communities (community_name, tier, active) VALUES (?, ?, ?)
			 ON CONFLICT(community_name) DO NOTHING`,
			c.Name, int(c.Tier), boolInt(c.Active),
		); err != nil {
			return fmt.Errorf("storage.SeedCommunities: %q: %w", c.Name, err)
		}
	}
	return nil
}

// --- GameStore ---

// UpsertGame writes the game keyed by its identifier; the incoming row wins.
func (s *SQLiteStorage) UpsertGame(ctx context.Context, g domain.Game) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO games
			(game_id, game_date, start_time, status, inning, inning_half,
			 home_team_id, away_team_id, home_score, away_score,
			 home_probable_pitcher, away_probable_pitcher, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(game_id) DO UPDATE SET
			status                = excluded.status,
			inning                = excluded.inning,
			inning_half           = excluded.inning_half,
			home_score            = excluded.home_score,
			away_score            = excluded.away_score,
			home_probable_pitcher = excluded.home_probable_pitcher,
			away_probable_pitcher = excluded.away_probable_pitcher,
			updated_at            = excluded.updated_at
	`,
		g.ID, g.Date.Format(dateFormat), g.StartTime.UTC(), string(g.Status),
		g.Inning, g.InningHalf, g.HomeTeamID, g.AwayTeamID,
		g.HomeScore, g.AwayScore, g.HomeProbablePitcher, g.AwayProbablePitcher,
		s.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("storage.UpsertGame: game %d: %w", g.ID, err)
	}
	return nil
}

// GetGame loads one game by identifier.
func (s *SQLiteStorage) GetGame(ctx context.Context, gameID int64) (domain.Game, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT game_id, game_date, start_time, status, inning, inning_half,
		       home_team_id, away_team_id, home_score, away_score,
		       home_probable_pitcher, away_probable_pitcher
		FROM games WHERE game_id = ?
	`, gameID)
	g, err := scanGame(row)
	if err != nil {
		return domain.Game{}, fmt.Errorf("storage.GetGame: game %d: %w", gameID, err)
	}
	return g, nil
}

// ListGamesOn returns all games on the given calendar date.
func (s *SQLiteStorage) ListGamesOn(ctx context.Context, date time.Time) ([]domain.Game, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT game_id, game_date, start_time, status, inning, inning_half,
		       home_team_id, away_team_id, home_score, away_score,
		       home_probable_pitcher, away_probable_pitcher
		FROM games WHERE game_date = ? ORDER BY start_time
	`, date.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("storage.ListGamesOn: %w", err)
	}
	defer rows.Close()

	var games []domain.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("storage.ListGamesOn: scan: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(r rowScanner) (domain.Game, error) {
	var g domain.Game
	var date string
	var start sql.NullTime
	var status string
	if err := r.Scan(&g.ID, &date, &start, &status, &g.Inning, &g.InningHalf,
		&g.HomeTeamID, &g.AwayTeamID, &g.HomeScore, &g.AwayScore,
		&g.HomeProbablePitcher, &g.AwayProbablePitcher); err != nil {
		return domain.Game{}, err
	}
	g.Date, _ = time.Parse(dateFormat, date)
	if start.Valid {
		g.StartTime = start.Time
	}
	g.Status = domain.GameStatus(status)
	return g, nil
}

// UpsertStatLines writes box-score lines keyed by (game, player).
func (s *SQLiteStorage) UpsertStatLines(ctx context.Context, lines []domain.StatLine) error {
	if len(lines) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.UpsertStatLines: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO stat_lines
			(game_id, player_id, at_bats, hits, doubles, triples, home_runs,
			 runs, rbis, walks, stolen_bases, innings_pitched,
			 pitcher_strikeouts, walks_allowed, hits_allowed, earned_runs,
			 pitch_count, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(game_id, player_id) DO UPDATE SET
			at_bats            = excluded.at_bats,
			hits               = excluded.hits,
			doubles            = excluded.doubles,
			triples            = excluded.triples,
			home_runs          = excluded.home_runs,
			runs               = excluded.runs,
			rbis               = excluded.rbis,
			walks              = excluded.walks,
			stolen_bases       = excluded.stolen_bases,
			innings_pitched    = excluded.innings_pitched,
			pitcher_strikeouts = excluded.pitcher_strikeouts,
			walks_allowed      = excluded.walks_allowed,
			hits_allowed       = excluded.hits_allowed,
			earned_runs        = excluded.earned_runs,
			pitch_count        = excluded.pitch_count,
			updated_at         = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("storage.UpsertStatLines: prepare: %w", err)
	}
	defer stmt.Close()

	now := s.now().UTC()
	for _, l := range lines {
		if _, err := stmt.ExecContext(ctx,
			l.GameID, l.PlayerID, l.AtBats, l.Hits, l.Doubles, l.Triples,
			l.HomeRuns, l.Runs, l.RBIs, l.Walks, l.StolenBases,
			l.InningsPitched, l.PitcherStrikeouts, l.WalksAllowed,
			l.HitsAllowed, l.EarnedRuns, l.PitchCount, now,
		); err != nil {
			return fmt.Errorf("storage.UpsertStatLines: player %d: %w", l.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.UpsertStatLines: commit: %w", err)
	}
	return nil
}

// GetStatLine returns the stat line for one entity in one game. ok=false
// means the entity has no line yet, which is not an error.
func (s *SQLiteStorage) GetStatLine(ctx context.Context, gameID, playerID int64) (domain.StatLine, bool, error) {
	var l domain.StatLine
	err := s.db.QueryRowContext(ctx, `
		SELECT game_id, player_id, at_bats, hits, doubles, triples, home_runs,
		       runs, rbis, walks, stolen_bases, innings_pitched,
		       pitcher_strikeouts, walks_allowed, hits_allowed, earned_runs,
		       pitch_count
		FROM stat_lines WHERE game_id = ? AND player_id = ?
	`, gameID, playerID).Scan(
		&l.GameID, &l.PlayerID, &l.AtBats, &l.Hits, &l.Doubles, &l.Triples,
		&l.HomeRuns, &l.Runs, &l.RBIs, &l.Walks, &l.StolenBases,
		&l.InningsPitched, &l.PitcherStrikeouts, &l.WalksAllowed,
		&l.HitsAllowed, &l.EarnedRuns, &l.PitchCount,
	)
	if err == sql.ErrNoRows {
		return domain.StatLine{}, false, nil
	}
	if err != nil {
		return domain.StatLine{}, false, fmt.Errorf("storage.GetStatLine: game %d player %d: %w", gameID, playerID, err)
	}
	return l, true, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/adapters/storage"
	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var gameDay = time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedTestData(t *testing.T, db *storage.SQLiteStorage) domain.Community {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, db.SeedCommunities(ctx, domain.DefaultCommunities()))
	community, err := db.GetCommunity(ctx, "StatEdge")
	require.NoError(t, err)

	require.NoError(t, db.UpsertGame(ctx, domain.Game{
		ID:         100,
		Date:       gameDay,
		StartTime:  gameDay.Add(19 * time.Hour),
		Status:     domain.GameScheduled,
		HomeTeamID: 10,
		AwayTeamID: 20,
	}))
	return community
}

func makeStoredBet(gameID, playerID, communityID int64) domain.Bet {
	return domain.Bet{
		GameID:      gameID,
		PlayerID:    playerID,
		Kind:        domain.KindHomeRuns,
		Target:      1.5,
		Operator:    domain.OpOver,
		Odds:        "+320",
		Units:       2,
		CommunityID: communityID,
		RawInput:    "Judge over 1.5 HRs",
	}
}

func TestSeedCommunities_Idempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SeedCommunities(ctx, domain.DefaultCommunities()))
	require.NoError(t, db.SeedCommunities(ctx, domain.DefaultCommunities()))

	communities, err := db.ListCommunities(ctx)
	require.NoError(t, err)
	require.Len(t, communities, 3)
	assert.Equal(t, domain.TierFree, communities[0].Tier, "ordered by tier")
	assert.Equal(t, domain.TierPremium, communities[2].Tier)
}

func TestUpsertGame_SecondWriteWins(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedTestData(t, db)

	g, err := db.GetGame(ctx, 100)
	require.NoError(t, err)
	require.Equal(t, domain.GameScheduled, g.Status)

	g.Status = domain.GameInProgress
	g.Inning = 5
	g.HomeScore = 3
	require.NoError(t, db.UpsertGame(ctx, g))

	g, err = db.GetGame(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.GameInProgress, g.Status)
	assert.Equal(t, 5, g.Inning)
	assert.Equal(t, 3, g.HomeScore)

	games, err := db.ListGamesOn(ctx, gameDay)
	require.NoError(t, err)
	assert.Len(t, games, 1)
}

func TestStatLines_UpsertAndMiss(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, ok, err := db.GetStatLine(ctx, 100, 500)
	require.NoError(t, err)
	assert.False(t, ok, "missing line is not an error")

	lines := []domain.StatLine{{GameID: 100, PlayerID: 500, Hits: 1, HomeRuns: 1}}
	require.NoError(t, db.UpsertStatLines(ctx, lines))

	lines[0].Hits = 2
	lines[0].HomeRuns = 2
	require.NoError(t, db.UpsertStatLines(ctx, lines))

	l, ok, err := db.GetStatLine(ctx, 100, 500)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, l.HomeRuns)
}

func TestCreateBet_AndListActive(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	community := seedTestData(t, db)

	bet := makeStoredBet(100, 500, community.ID)
	require.NoError(t, db.CreateBet(ctx, &bet))
	assert.NotZero(t, bet.ID)

	active, err := db.ListActiveBets(ctx, gameDay)
	require.NoError(t, err)
	require.Len(t, active, 1)

	ab := active[0]
	assert.Equal(t, bet.ID, ab.Bet.ID)
	assert.Equal(t, domain.KindHomeRuns, ab.Bet.Kind)
	assert.Equal(t, domain.BetPending, ab.Bet.Status)
	assert.Equal(t, "StatEdge", ab.Bet.Community)
	assert.Equal(t, domain.TierFree, ab.Bet.Tier)
	assert.Equal(t, int64(100), ab.Game.ID)
	assert.Equal(t, 0, ab.Cursor.AlertsSent, "fresh cursor before first evaluation")

	// Bets on another day are not active today.
	active, err = db.ListActiveBets(ctx, gameDay.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestSetBetStatus_TerminalIsSticky(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	community := seedTestData(t, db)

	bet := makeStoredBet(100, 500, community.ID)
	require.NoError(t, db.CreateBet(ctx, &bet))

	changed, err := db.SetBetStatus(ctx, bet.ID, domain.BetLive, 1)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = db.SetBetStatus(ctx, bet.ID, domain.BetWon, 2)
	require.NoError(t, err)
	assert.True(t, changed)

	// A settled bet never transitions again.
	changed, err = db.SetBetStatus(ctx, bet.ID, domain.BetLost, 1)
	require.NoError(t, err)
	assert.False(t, changed)

	settled, err := db.ListSettledBets(ctx, community.ID, gameDay)
	require.NoError(t, err)
	require.Len(t, settled, 1)
	assert.Equal(t, domain.BetWon, settled[0].Status)
}

func TestCursor_CreateIfAbsent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	c, err := db.Cursor(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.BetID)
	assert.Equal(t, 0, c.AlertsSent)
	assert.Empty(t, c.Fired)

	// Second call returns the same row, not a fresh one.
	require.NoError(t, db.UpdateCursor(ctx, 1, 2, 80, 6, nil))
	c, err = db.Cursor(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2.0, c.LastValue)
	assert.Equal(t, 80.0, c.LastPct)
}

func TestUpdateCursor_MilestoneUpsertByKey(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	fired := &domain.FiredMilestone{
		Key:     domain.MilestoneFirstProgress,
		FiredAt: gameDay.Add(20 * time.Hour),
		Inning:  3,
		Value:   1,
	}
	require.NoError(t, db.UpdateCursor(ctx, 1, 1, 50, 3, fired))

	// Replaying the same milestone key neither duplicates the record nor
	// bumps the counter.
	require.NoError(t, db.UpdateCursor(ctx, 1, 1, 50, 3, fired))

	c, err := db.Cursor(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, c.AlertsSent)
	require.Len(t, c.Fired, 1)
	assert.True(t, c.HasFired(domain.MilestoneFirstProgress))
	assert.Equal(t, 3, c.Fired[domain.MilestoneFirstProgress].Inning)

	// A different key is a new record and a new alert.
	second := &domain.FiredMilestone{Key: domain.MilestoneHalfway, FiredAt: gameDay, Inning: 5, Value: 4}
	require.NoError(t, db.UpdateCursor(ctx, 1, 4, 80, 5, second))

	c, err = db.Cursor(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, c.AlertsSent)
	assert.Len(t, c.Fired, 2)
}

func TestOutbox_EnqueueAndCount(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	sendAt := gameDay.Add(17 * time.Hour)
	ev := domain.NewNotificationEvent(domain.NotifyPregame, 1, "StatEdge", domain.TierFree, sendAt)
	ev.GameID = 100
	require.NoError(t, db.Enqueue(ctx, ev))

	n, err := db.QueuedCount(ctx, 1, domain.NotifyPregame, gameDay)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = db.QueuedCount(ctx, 1, domain.NotifyMarketing, gameDay)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "counts are per kind")

	ok, err := db.HasScheduled(ctx, 100, 1, domain.NotifyPregame, sendAt)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = db.HasScheduled(ctx, 100, 1, domain.NotifyPregame, sendAt.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRosterStore_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	teams := []domain.Team{
		{ID: 10, Name: "New York Yankees", Abbreviation: "NYY"},
		{ID: 20, Name: "Boston Red Sox", Abbreviation: "BOS"},
	}
	require.NoError(t, db.UpsertTeams(ctx, teams))
	require.NoError(t, db.UpsertTeams(ctx, teams)) // idempotent

	got, err := db.ListTeams(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	players := []domain.Player{
		{ID: 500, FullName: "Aaron Judge", Position: "RF", TeamID: 10, Active: true},
		{ID: 600, FullName: "Rafael Devers", Position: "3B", TeamID: 20, Active: true},
	}
	require.NoError(t, db.UpsertPlayers(ctx, players))

	roster, err := db.ListActivePlayers(ctx, []int64{10})
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, "Aaron Judge", roster[0].FullName)
}

package tracker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/domain"
	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/ports"
	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockFeed struct {
	snaps map[int64]domain.FeedSnapshot
	errs  map[int64]error
}

func (m *mockFeed) FetchGameFeed(_ context.Context, gameID int64) (domain.FeedSnapshot, error) {
	if err := m.errs[gameID]; err != nil {
		return domain.FeedSnapshot{}, err
	}
	return m.snaps[gameID], nil
}

func (m *mockFeed) FetchSchedule(_ context.Context, _ time.Time) ([]domain.Game, error) {
	return nil, nil
}

// fakeStore is an in-memory stand-in for the SQLite adapter, honoring the
// same transition guard and milestone upsert semantics.
type fakeStore struct {
	games   map[int64]domain.Game
	lines   map[int64]map[int64]domain.StatLine // gameID → playerID → line
	bets    map[int64]*domain.Bet
	cursors map[int64]*domain.TrackingCursor
	events  []domain.NotificationEvent
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		games:   make(map[int64]domain.Game),
		lines:   make(map[int64]map[int64]domain.StatLine),
		bets:    make(map[int64]*domain.Bet),
		cursors: make(map[int64]*domain.TrackingCursor),
	}
}

func (f *fakeStore) UpsertGame(_ context.Context, g domain.Game) error {
	f.games[g.ID] = g
	return nil
}

func (f *fakeStore) GetGame(_ context.Context, gameID int64) (domain.Game, error) {
	return f.games[gameID], nil
}

func (f *fakeStore) ListGamesOn(_ context.Context, _ time.Time) ([]domain.Game, error) {
	return nil, nil
}

func (f *fakeStore) UpsertStatLines(_ context.Context, lines []domain.StatLine) error {
	for _, l := range lines {
		if f.lines[l.GameID] == nil {
			f.lines[l.GameID] = make(map[int64]domain.StatLine)
		}
		f.lines[l.GameID][l.PlayerID] = l
	}
	return nil
}

func (f *fakeStore) GetStatLine(_ context.Context, gameID, playerID int64) (domain.StatLine, bool, error) {
	l, ok := f.lines[gameID][playerID]
	return l, ok, nil
}

func (f *fakeStore) CreateBet(_ context.Context, bet *domain.Bet) error {
	bet.ID = int64(len(f.bets) + 1)
	f.bets[bet.ID] = bet
	return nil
}

func (f *fakeStore) ListActiveBets(_ context.Context, _ time.Time) ([]ports.ActiveBet, error) {
	var out []ports.ActiveBet
	for _, b := range f.bets {
		if b.Status != domain.BetPending && b.Status != domain.BetLive {
			continue
		}
		cursor := domain.NewTrackingCursor(b.ID)
		if c, ok := f.cursors[b.ID]; ok {
			cursor = *c
		}
		out = append(out, ports.ActiveBet{Bet: *b, Game: f.games[b.GameID], Cursor: cursor})
	}
	return out, nil
}

func (f *fakeStore) SetBetStatus(_ context.Context, betID int64, to domain.BetStatus, _ float64) (bool, error) {
	b, ok := f.bets[betID]
	if !ok {
		return false, nil
	}
	if b.Status != domain.BetPending && b.Status != domain.BetLive {
		return false, nil
	}
	b.Status = to
	return true, nil
}

func (f *fakeStore) ListSettledBets(_ context.Context, _ int64, _ time.Time) ([]domain.Bet, error) {
	return nil, nil
}

func (f *fakeStore) ListCommunities(_ context.Context) ([]domain.Community, error) {
	return nil, nil
}

func (f *fakeStore) GetCommunity(_ context.Context, _ string) (domain.Community, error) {
	return domain.Community{}, nil
}

func (f *fakeStore) Cursor(_ context.Context, betID int64) (domain.TrackingCursor, error) {
	if c, ok := f.cursors[betID]; ok {
		return *c, nil
	}
	c := domain.NewTrackingCursor(betID)
	f.cursors[betID] = &c
	return c, nil
}

func (f *fakeStore) UpdateCursor(_ context.Context, betID int64, value, pct float64, inning int, fired *domain.FiredMilestone) error {
	c, ok := f.cursors[betID]
	if !ok {
		nc := domain.NewTrackingCursor(betID)
		c = &nc
		f.cursors[betID] = c
	}
	c.LastValue = value
	c.LastPct = pct
	if fired != nil {
		if _, dup := c.Fired[fired.Key]; !dup {
			c.Fired[fired.Key] = *fired
			c.AlertsSent++
		}
	}
	return nil
}

func (f *fakeStore) Enqueue(_ context.Context, ev domain.NotificationEvent) error {
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeStore) QueuedCount(_ context.Context, _ int64, _ domain.NotificationKind, _ time.Time) (int, error) {
	return 0, nil
}

func (f *fakeStore) HasScheduled(_ context.Context, _, _ int64, _ domain.NotificationKind, _ time.Time) (bool, error) {
	return false, nil
}

func (f *fakeStore) eventsOfKind(kind domain.NotificationKind) []domain.NotificationEvent {
	var out []domain.NotificationEvent
	for _, ev := range f.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// --- helpers ---

func newTestTracker(feed *mockFeed, store *fakeStore) *tracker.Tracker {
	cfg := tracker.DefaultConfig()
	cfg.DryRun = true
	return tracker.New(cfg, feed, store, store, store, store)
}

func seedGame(store *fakeStore, gameID int64, status domain.GameStatus) {
	store.games[gameID] = domain.Game{
		ID:         gameID,
		Status:     status,
		HomeTeamID: 10,
		AwayTeamID: 20,
	}
}

func seedBet(store *fakeStore, id, gameID, playerID int64, kind domain.BetKind, target float64) {
	store.bets[id] = &domain.Bet{
		ID:        id,
		GameID:    gameID,
		PlayerID:  playerID,
		Kind:      kind,
		Target:    target,
		Operator:  domain.OpOver,
		Units:     1,
		Community: "StatEdge",
		Tier:      domain.TierFree,
		Status:    domain.BetPending,
	}
}

func snapshot(gameID int64, status domain.GameStatus, inning int, lines ...domain.StatLine) domain.FeedSnapshot {
	return domain.FeedSnapshot{
		GameID: gameID,
		Status: status,
		Inning: inning,
		Stats:  lines,
	}
}

func hrLine(gameID, playerID int64, hr int) domain.StatLine {
	return domain.StatLine{GameID: gameID, PlayerID: playerID, HomeRuns: hr}
}

// --- tests ---

func TestTracker_FullBetLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	seedGame(store, 100, domain.GamePreGame)
	seedBet(store, 1, 100, 500, domain.KindHomeRuns, 2)

	feed := &mockFeed{snaps: map[int64]domain.FeedSnapshot{}}
	tr := newTestTracker(feed, store)

	// Pre-game, no home runs: nothing fires, bet stays Pending.
	feed.snaps[100] = snapshot(100, domain.GamePreGame, 0, hrLine(100, 500, 0))
	s := tr.RunOnce(ctx)
	require.Empty(t, s.Errors)
	assert.Equal(t, domain.BetPending, store.bets[1].Status)
	assert.Empty(t, store.events)

	// First home run: first-progress fires once, bet goes Live.
	feed.snaps[100] = snapshot(100, domain.GameInProgress, 3, hrLine(100, 500, 1))
	s = tr.RunOnce(ctx)
	require.Empty(t, s.Errors)
	assert.Equal(t, domain.BetLive, store.bets[1].Status)
	milestones := store.eventsOfKind(domain.NotifyMilestone)
	require.Len(t, milestones, 1)
	assert.Equal(t, domain.MilestoneFirstProgress, milestones[0].Milestone)

	// Replaying the same state fires nothing new.
	s = tr.RunOnce(ctx)
	require.Empty(t, s.Errors)
	assert.Len(t, store.eventsOfKind(domain.NotifyMilestone), 1)

	// Third home run clears the target: won event, status Won.
	feed.snaps[100] = snapshot(100, domain.GameInProgress, 7, hrLine(100, 500, 3))
	s = tr.RunOnce(ctx)
	require.Empty(t, s.Errors)
	assert.Equal(t, domain.BetWon, store.bets[1].Status)
	require.Len(t, s.Winners, 1)
	assert.Equal(t, int64(1), s.Winners[0].BetID)
	assert.Len(t, store.eventsOfKind(domain.NotifyWon), 1)

	// A corrective feed update cannot revert a settled bet.
	feed.snaps[100] = snapshot(100, domain.GameFinal, 9, hrLine(100, 500, 2))
	s = tr.RunOnce(ctx)
	require.Empty(t, s.Errors)
	assert.Equal(t, domain.BetWon, store.bets[1].Status)
	assert.Len(t, store.eventsOfKind(domain.NotifyWon), 1)
}

func TestTracker_SweepSettlesLostOnFinal(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	seedGame(store, 100, domain.GameInProgress)
	seedBet(store, 1, 100, 500, domain.KindHomeRuns, 1.5)
	store.bets[1].Status = domain.BetLive

	feed := &mockFeed{snaps: map[int64]domain.FeedSnapshot{
		100: snapshot(100, domain.GameFinal, 9, hrLine(100, 500, 1)),
	}}
	tr := newTestTracker(feed, store)

	s := tr.RunOnce(ctx)
	require.Empty(t, s.Errors)
	assert.Equal(t, domain.BetLost, store.bets[1].Status)

	// Re-running against the same final state changes nothing.
	s = tr.RunOnce(ctx)
	assert.Equal(t, 0, s.BetsChecked, "settled bets are no longer active")
	assert.Equal(t, domain.BetLost, store.bets[1].Status)
}

func TestTracker_SweepNeverMarksAHitBetLost(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	seedGame(store, 100, domain.GameInProgress)
	seedBet(store, 1, 100, 500, domain.KindHomeRuns, 1.5)
	store.bets[1].Status = domain.BetLive

	feed := &mockFeed{snaps: map[int64]domain.FeedSnapshot{
		100: snapshot(100, domain.GameFinal, 9, hrLine(100, 500, 2)),
	}}
	tr := newTestTracker(feed, store)

	s := tr.RunOnce(ctx)
	require.Empty(t, s.Errors)
	assert.Equal(t, domain.BetWon, store.bets[1].Status)
}

func TestTracker_SweepWinStillNotifies(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	seedGame(store, 100, domain.GameFinal)
	seedBet(store, 1, 100, 500, domain.KindHomeRuns, 1.5)
	store.bets[1].Status = domain.BetLive

	// The winning stat line is already persisted from an earlier cycle; this
	// cycle's feed fetch fails, so only the sweep can settle the bet.
	require.NoError(t, store.UpsertStatLines(ctx, []domain.StatLine{hrLine(100, 500, 2)}))
	feed := &mockFeed{errs: map[int64]error{100: errors.New("upstream 500")}}
	tr := newTestTracker(feed, store)

	s := tr.RunOnce(ctx)
	assert.Equal(t, domain.BetWon, store.bets[1].Status)

	// A sweep win notifies exactly like a tracked one.
	require.Len(t, store.eventsOfKind(domain.NotifyWon), 1)
	require.Len(t, s.Winners, 1)
	assert.Equal(t, int64(1), s.Winners[0].BetID)
	assert.Equal(t, 1, s.MessagesQueued)
}

func TestTracker_FeedErrorIsIsolatedPerGame(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	seedGame(store, 100, domain.GameInProgress)
	seedGame(store, 200, domain.GameInProgress)
	seedBet(store, 1, 100, 500, domain.KindHomeRuns, 2)
	seedBet(store, 2, 200, 600, domain.KindHits, 1.5)

	feed := &mockFeed{
		snaps: map[int64]domain.FeedSnapshot{
			200: snapshot(200, domain.GameInProgress, 4, domain.StatLine{GameID: 200, PlayerID: 600, Hits: 2}),
		},
		errs: map[int64]error{100: errors.New("upstream 500")},
	}
	tr := newTestTracker(feed, store)

	s := tr.RunOnce(ctx)
	require.Len(t, s.Errors, 1)
	assert.False(t, s.Failed(), "one healthy game means the cycle did work")

	// The healthy game's bet settled despite the sibling failure.
	assert.Equal(t, domain.BetWon, store.bets[2].Status)
	assert.Equal(t, domain.BetPending, store.bets[1].Status)
}

func TestTracker_AllGamesFailing(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	seedGame(store, 100, domain.GameInProgress)
	seedBet(store, 1, 100, 500, domain.KindHomeRuns, 2)

	feed := &mockFeed{errs: map[int64]error{100: errors.New("timeout")}}
	tr := newTestTracker(feed, store)

	s := tr.RunOnce(ctx)
	assert.True(t, s.Failed())
	assert.Equal(t, 1, s.GamesTracked)
	assert.Equal(t, 0, s.BetsUpdated)
}

func TestTracker_EmptySnapshotSkipsGame(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	seedGame(store, 100, domain.GameInProgress)
	seedBet(store, 1, 100, 500, domain.KindHomeRuns, 2)

	feed := &mockFeed{snaps: map[int64]domain.FeedSnapshot{}} // zero snapshot
	tr := newTestTracker(feed, store)

	s := tr.RunOnce(ctx)
	assert.Empty(t, s.Errors, "an empty feed is a skip, not a failure")
	assert.Equal(t, 0, s.BetsChecked)
}

func TestTracker_NoActiveBets(t *testing.T) {
	store := newFakeStore()
	tr := newTestTracker(&mockFeed{}, store)

	s := tr.RunOnce(context.Background())
	assert.False(t, s.Failed())
	assert.Equal(t, 0, s.GamesTracked)
}

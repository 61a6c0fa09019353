package expiry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RobMcd12/kiwicook/internal/kvstore"
	"github.com/RobMcd12/kiwicook/internal/timerstore"
)

// mockSystem records system notifications.
type mockSystem struct {
	mu        sync.Mutex
	granted   bool
	requested int
	shown     []string
}

func (m *mockSystem) PermissionGranted() bool { return m.granted }

func (m *mockSystem) RequestPermission(context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requested++
	m.granted = true
	return true, nil
}

func (m *mockSystem) Show(_ context.Context, title, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shown = append(m.shown, title)
	return nil
}

func (m *mockSystem) shownCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.shown)
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func setup(t *testing.T) (*Notifier, *timerstore.Store, *mockSystem, *testClock, *kvstore.MemoryStore) {
	t.Helper()
	clock := &testClock{now: time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)}
	kv := kvstore.NewMemoryStore()
	log := zap.NewNop().Sugar()
	store := timerstore.New(context.Background(), kv, log, timerstore.WithClock(clock.Now))
	sys := &mockSystem{}
	n := New(store, sys, kv, log, WithClock(clock.Now))
	return n, store, sys, clock, kv
}

func TestNotifyExactlyOncePerExpiration(t *testing.T) {
	n, store, sys, clock, _ := setup(t)
	ctx := context.Background()

	timer, err := store.Create(ctx, "Pasta", 60, "", "")
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)

	// Many ticks, one notification.
	for i := 0; i < 10; i++ {
		n.Check(ctx)
	}
	assert.Equal(t, 1, sys.shownCount())

	// The expired timer stopped running but is still visible.
	got, ok := store.Get(ctx, timer.ID)
	require.True(t, ok)
	assert.False(t, got.IsRunning)

	expired := n.Expired(ctx)
	require.Len(t, expired, 1)
	assert.Equal(t, timer.ID, expired[0].ID)
	assert.True(t, expired[0].IsExpired)
}

func TestCheckIgnoresRunningAndPausedTimers(t *testing.T) {
	n, store, sys, clock, _ := setup(t)
	ctx := context.Background()

	_, err := store.Create(ctx, "still going", 600, "", "")
	require.NoError(t, err)
	paused, err := store.Create(ctx, "paused", 600, "", "")
	require.NoError(t, err)

	clock.Advance(time.Minute)
	require.NoError(t, store.Pause(ctx, paused.ID))

	n.Check(ctx)
	assert.Equal(t, 0, sys.shownCount())
	assert.Empty(t, n.Expired(ctx))
}

func TestDismissRemovesEverywhere(t *testing.T) {
	n, store, sys, clock, _ := setup(t)
	ctx := context.Background()

	timer, err := store.Create(ctx, "Pasta", 30, "", "")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	n.Check(ctx)
	require.Equal(t, 1, sys.shownCount())

	require.NoError(t, n.Dismiss(ctx, timer.ID))

	assert.Empty(t, n.Expired(ctx))
	assert.Empty(t, store.List(ctx), "dismiss must remove from the persisted collection")
}

func TestDismissAll(t *testing.T) {
	n, store, _, clock, _ := setup(t)
	ctx := context.Background()

	_, err := store.Create(ctx, "a", 10, "", "")
	require.NoError(t, err)
	_, err = store.Create(ctx, "b", 20, "", "")
	require.NoError(t, err)
	survivor, err := store.Create(ctx, "c", 600, "", "")
	require.NoError(t, err)

	clock.Advance(time.Minute)
	n.Check(ctx)

	assert.Equal(t, 2, n.DismissAll(ctx))
	remaining := store.List(ctx)
	require.Len(t, remaining, 1)
	assert.Equal(t, survivor.ID, remaining[0].ID)
}

func TestEnsurePermissionAsksOnce(t *testing.T) {
	n, _, sys, _, kv := setup(t)
	ctx := context.Background()

	n.EnsurePermission(ctx)
	require.Equal(t, 1, sys.requested)

	// The persisted flag suppresses re-prompting, even with a fresh
	// notifier over the same storage.
	sys2 := &mockSystem{}
	log := zap.NewNop().Sugar()
	store2 := timerstore.New(ctx, kv, log)
	n2 := New(store2, sys2, kv, log)
	n2.EnsurePermission(ctx)
	assert.Equal(t, 0, sys2.requested)
}

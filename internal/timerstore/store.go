// Package timerstore owns the durable collection of cooking timers. It
// is the single source of truth: every mutation goes through the Store
// and is followed by a write-through persist of the whole collection.
package timerstore

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/RobMcd12/kiwicook/internal/domain"
	"github.com/RobMcd12/kiwicook/internal/timemath"
)

// StorageKey is the key-value entry holding the persisted timer
// collection, a single JSON array of StoredTimers.
const StorageKey = "cooking_timers"

// DefaultMaxTimers is the cap on concurrently live timers. The cap is
// independent of recipe: it counts every non-removed timer.
const DefaultMaxTimers = 10

// Option configures the store.
type Option func(*Store)

// WithMaxTimers sets the cap on concurrently live timers.
func WithMaxTimers(n int) Option {
	return func(s *Store) {
		s.maxTimers = n
	}
}

// WithClock sets the time source. Tests inject a fake clock here; the
// production store uses time.Now.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// Store owns the timer collection. All mutators are synchronous and
// atomic with respect to each other; the tick path only reads.
type Store struct {
	kv        domain.KVStore
	log       *zap.SugaredLogger
	clock     func() time.Time
	maxTimers int

	mu     sync.RWMutex
	timers []domain.StoredTimer

	subMu  sync.Mutex
	subs   map[int]func()
	nextID int
}

// New creates a store and loads any persisted timers. Missing or corrupt
// stored data is recovered as an empty collection, never an error.
func New(ctx context.Context, kv domain.KVStore, log *zap.SugaredLogger, opts ...Option) *Store {
	s := &Store{
		kv:        kv,
		log:       log,
		clock:     time.Now,
		maxTimers: DefaultMaxTimers,
		subs:      make(map[int]func()),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load(ctx)
	return s
}

// load reconstructs the collection from durable storage verbatim. The
// device clock is the only time source; no reconciliation happens here.
func (s *Store) load(ctx context.Context) {
	data, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Warnf("timer store: reading persisted timers: %v (starting empty)", err)
		}
		return
	}

	var timers []domain.StoredTimer
	if err := json.Unmarshal(data, &timers); err != nil {
		s.log.Warnf("timer store: corrupt persisted timers: %v (starting empty)", err)
		return
	}

	s.timers = timers
	s.log.Infof("timer store: loaded %d persisted timer(s)", len(timers))
}

// Create appends a new running timer and persists the collection.
// Returns domain.ErrTimerCapReached, without mutating anything, when the
// live-timer cap has been hit.
func (s *Store) Create(ctx context.Context, name string, durationSeconds int, recipeID, recipeName string) (domain.StoredTimer, error) {
	s.mu.Lock()
	if len(s.timers) >= s.maxTimers {
		s.mu.Unlock()
		return domain.StoredTimer{}, domain.ErrTimerCapReached
	}

	timer := domain.StoredTimer{
		ID:              generateID(),
		Name:            name,
		RecipeID:        recipeID,
		RecipeName:      recipeName,
		DurationSeconds: durationSeconds,
		StartedAt:       s.clock(),
		IsRunning:       true,
	}
	s.timers = append(s.timers, timer)
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	if err != nil {
		s.log.Errorf("timer store: persisting after create: %v", err)
	}
	s.log.Infof("timer store: created %q (%ds) id=%s", name, durationSeconds, timer.ID)
	s.notify()
	return timer, nil
}

// Remove deletes a timer unconditionally. Removing an absent timer is a
// no-op, not an error.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	s.timers = append(s.timers[:idx], s.timers[idx+1:]...)
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	if err != nil {
		s.log.Errorf("timer store: persisting after remove: %v", err)
	}
	s.log.Debugf("timer store: removed %s", id)
	s.notify()
	return nil
}

// Pause freezes a running timer. Pausing an absent or already-paused
// timer is a no-op.
func (s *Store) Pause(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 || !s.timers[idx].IsRunning {
		s.mu.Unlock()
		return nil
	}

	now := s.clock()
	remaining := timemath.Remaining(s.timers[idx], now)
	s.timers[idx].IsRunning = false
	s.timers[idx].PausedAt = &now
	s.timers[idx].RemainingAtPause = &remaining
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	if err != nil {
		s.log.Errorf("timer store: persisting after pause: %v", err)
	}
	s.log.Debugf("timer store: paused %s with %ds remaining", id, remaining)
	s.notify()
	return nil
}

// Resume restarts a paused timer. StartedAt is rebased so that the
// derived remaining time immediately after resume equals the frozen
// RemainingAtPause — exact to the second across any number of
// pause/resume cycles, with no accumulated error.
func (s *Store) Resume(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 || s.timers[idx].IsRunning || s.timers[idx].RemainingAtPause == nil {
		s.mu.Unlock()
		return nil
	}

	t := &s.timers[idx]
	elapsed := t.DurationSeconds - *t.RemainingAtPause
	t.StartedAt = s.clock().Add(-time.Duration(elapsed) * time.Second)
	t.IsRunning = true
	t.PausedAt = nil
	t.RemainingAtPause = nil
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	if err != nil {
		s.log.Errorf("timer store: persisting after resume: %v", err)
	}
	s.log.Debugf("timer store: resumed %s", id)
	s.notify()
	return nil
}

// Expire stops an expired timer's countdown without removing it. The
// timer stays visible (frozen at zero remaining) until dismissed.
func (s *Store) Expire(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 || !s.timers[idx].IsRunning {
		s.mu.Unlock()
		return nil
	}

	now := s.clock()
	zero := 0
	s.timers[idx].IsRunning = false
	s.timers[idx].PausedAt = &now
	s.timers[idx].RemainingAtPause = &zero
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	if err != nil {
		s.log.Errorf("timer store: persisting after expire: %v", err)
	}
	s.notify()
	return nil
}

// List returns a copy of the current collection, oldest first.
func (s *Store) List(ctx context.Context) []domain.StoredTimer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.StoredTimer, len(s.timers))
	copy(out, s.timers)
	return out
}

// ListByRecipe returns timers back-referencing the given recipe. The
// reference is display-only: recipe deletion never cascades here.
func (s *Store) ListByRecipe(ctx context.Context, recipeID string) []domain.StoredTimer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.StoredTimer
	for _, t := range s.timers {
		if t.RecipeID == recipeID {
			out = append(out, t)
		}
	}
	return out
}

// Get returns a timer by ID.
func (s *Store) Get(ctx context.Context, id string) (domain.StoredTimer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return domain.StoredTimer{}, false
	}
	return s.timers[idx], true
}

// FindByName resolves a timer by case-insensitive substring match, in
// either direction, against timer names. Returns the first match in
// creation order.
func (s *Store) FindByName(ctx context.Context, name string) (domain.StoredTimer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return domain.StoredTimer{}, false
	}
	for _, t := range s.timers {
		tn := strings.ToLower(t.Name)
		if strings.Contains(tn, q) || strings.Contains(q, tn) {
			return t, true
		}
	}
	return domain.StoredTimer{}, false
}

// RunningCount returns the number of timers currently counting down.
func (s *Store) RunningCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, t := range s.timers {
		if t.IsRunning {
			n++
		}
	}
	return n
}

// Derived returns the recomputed CookingTimer view of every timer at the
// given instant, sorted by remaining time.
func (s *Store) Derived(ctx context.Context, now time.Time) []domain.CookingTimer {
	timers := s.List(ctx)
	out := make([]domain.CookingTimer, 0, len(timers))
	for _, t := range timers {
		out = append(out, timemath.Derive(t, now))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RemainingSeconds < out[j].RemainingSeconds })
	return out
}

// Subscribe registers a callback invoked after every mutation. The
// returned function removes the subscription. Callbacks run outside the
// store lock and must not assume any particular goroutine.
func (s *Store) Subscribe(fn func()) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// notify fans a change event out to subscribers.
func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// persistLocked writes the whole collection in one value. Must be called
// with s.mu held. One write per mutation keeps the stored shape
// consistent — there is never a partially-updated collection on disk.
func (s *Store) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.timers)
	if err != nil {
		return err
	}
	return s.kv.Put(ctx, StorageKey, data)
}

func (s *Store) indexLocked(id string) int {
	for i, t := range s.timers {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Package scheduler implements the single shared tick that drives all
// derived-timer recomputation. One interval serves every timer: the
// scheduler is Idle while nothing is running and Ticking (1 Hz) while at
// least one timer counts down.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// TimerSource reports how many timers are currently counting down. The
// scheduler uses it to decide Idle vs Ticking; it never mutates timers.
type TimerSource interface {
	RunningCount() int
}

// Option configures the scheduler.
type Option func(*Scheduler)

// WithTickInterval sets the tick period. Production uses the 1 s
// default; tests shorten it.
func WithTickInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		s.tickInterval = d
	}
}

// Scheduler owns the shared tick. Listeners are notified once per tick
// and recompute derived timer values themselves; the scheduler only
// counts ticks.
type Scheduler struct {
	source       TimerSource
	log          *zap.SugaredLogger
	tickInterval time.Duration

	mu      sync.Mutex
	baseCtx context.Context
	started bool
	ticking bool
	cancel  context.CancelFunc

	ticks atomic.Uint64

	subMu  sync.Mutex
	subs   map[int]func(tick uint64)
	nextID int
}

// New creates a scheduler over the given timer source.
func New(source TimerSource, log *zap.SugaredLogger, opts ...Option) *Scheduler {
	s := &Scheduler{
		source:       source,
		log:          log,
		tickInterval: time.Second,
		subs:         make(map[int]func(uint64)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start arms the scheduler. It transitions to Ticking immediately if
// timers are already running (e.g. restored from storage). Non-blocking.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		s.log.Warn("scheduler already started")
		return
	}
	s.baseCtx = ctx
	s.started = true
	s.mu.Unlock()

	s.Reevaluate()
}

// Stop leaves Ticking and disarms the scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticking {
		s.cancel()
		s.ticking = false
	}
	s.started = false
}

// Reevaluate checks the running-timer count and transitions between Idle
// and Ticking. Wire it to the timer store's change notifications.
func (s *Scheduler) Reevaluate() {
	running := s.source.RunningCount()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	switch {
	case running > 0 && !s.ticking:
		tickCtx, cancel := context.WithCancel(s.baseCtx)
		s.cancel = cancel
		s.ticking = true
		go s.loop(tickCtx)
		s.log.Debugf("scheduler: idle -> ticking (%d running)", running)
	case running == 0 && s.ticking:
		s.cancel()
		s.ticking = false
		s.log.Debug("scheduler: ticking -> idle")
	}
}

// Ticking reports whether the shared interval is currently active.
func (s *Scheduler) Ticking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticking
}

// Ticks returns the number of ticks fired since Start.
func (s *Scheduler) Ticks() uint64 {
	return s.ticks.Load()
}

// AddListener registers a per-tick callback. The returned function
// removes it. Listeners run on the tick goroutine and should be quick.
func (s *Scheduler) AddListener(fn func(tick uint64)) func() {
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

// loop is the Ticking-state body. It exits when the transition back to
// Idle (or Stop) cancels its context.
func (s *Scheduler) loop(ctx context.Context) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick := s.ticks.Add(1)
			s.fanOut(tick)
		}
	}
}

func (s *Scheduler) fanOut(tick uint64) {
	s.subMu.Lock()
	fns := make([]func(uint64), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(tick)
	}
}

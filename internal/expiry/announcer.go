package expiry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/RobMcd12/kiwicook/internal/domain"
)

// DefaultAnnounceInterval is how often an undismissed expired timer is
// re-announced on a surface.
const DefaultAnnounceInterval = 8 * time.Second

// Announcer is the surface-scoped layer on top of the Notifier: while a
// cooking surface is open, each expired-undismissed timer gets its own
// repeating audible announcement until dismissed. Handles are keyed by
// timer id and every one of them dies with the surface — Close is the
// unconditional cleanup path for surface teardown.
type Announcer struct {
	say      func(text string)
	log      *zap.SugaredLogger
	interval time.Duration

	mu      sync.Mutex
	handles map[string]context.CancelFunc
	closed  bool
}

// AnnouncerOption configures the announcer.
type AnnouncerOption func(*Announcer)

// WithAnnounceInterval sets the repeat period.
func WithAnnounceInterval(d time.Duration) AnnouncerOption {
	return func(a *Announcer) {
		a.interval = d
	}
}

// NewAnnouncer creates an announcer that voices announcements through
// the given say function (spoken and/or chimed by the caller).
func NewAnnouncer(say func(text string), log *zap.SugaredLogger, opts ...AnnouncerOption) *Announcer {
	a := &Announcer{
		say:      say,
		log:      log,
		interval: DefaultAnnounceInterval,
		handles:  make(map[string]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Sync reconciles the repeat tasks against the current
// expired-undismissed set: new expired timers get a task, and tasks
// whose timer is gone (dismissed or removed) are cancelled immediately
// rather than left to expire naturally.
func (a *Announcer) Sync(ctx context.Context, expired []domain.CookingTimer) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}

	current := make(map[string]string, len(expired))
	for _, t := range expired {
		current[t.ID] = t.Name
	}

	for id, cancel := range a.handles {
		if _, ok := current[id]; !ok {
			cancel()
			delete(a.handles, id)
			a.log.Debugf("announcer: cancelled repeat for %s", id)
		}
	}

	for id, name := range current {
		if _, ok := a.handles[id]; ok {
			continue
		}
		taskCtx, cancel := context.WithCancel(ctx)
		a.handles[id] = cancel
		go a.repeat(taskCtx, name)
		a.log.Debugf("announcer: started repeat for %s (every %s)", id, a.interval)
	}
}

// Cancel stops the repeat task for one timer, if any.
func (a *Announcer) Cancel(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if cancel, ok := a.handles[id]; ok {
		cancel()
		delete(a.handles, id)
	}
}

// Active returns the number of live repeat tasks.
func (a *Announcer) Active() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.handles)
}

// Close cancels every outstanding repeat task. Called on surface
// teardown; the announcer accepts no new tasks afterwards.
func (a *Announcer) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for id, cancel := range a.handles {
		cancel()
		delete(a.handles, id)
	}
	a.closed = true
}

func (a *Announcer) repeat(ctx context.Context, name string) {
	// Announce immediately, then on every interval.
	a.say(fmt.Sprintf("%s is done.", name))

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.say(fmt.Sprintf("%s is done.", name))
		}
	}
}

// Package expiry watches derived timer state for transitions into
// "expired" and owns the one-shot notification contract: exactly one
// system notification per expiration, then an expired-but-undismissed
// set surfaced to the UI until the user acknowledges each timer.
package expiry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/RobMcd12/kiwicook/internal/domain"
	"github.com/RobMcd12/kiwicook/internal/timerstore"
)

// PermissionFlagKey records that notification permission has been
// requested once, so the user is never re-prompted.
const PermissionFlagKey = "notification_permission_requested"

// Notifier tracks which timers have already fired. The notified set
// lives for the whole process, not for any UI surface, so a dismissed
// modal or remounted view can never cause a duplicate notification.
type Notifier struct {
	store *timerstore.Store
	sys   domain.SystemNotifier
	kv    domain.KVStore
	log   *zap.SugaredLogger
	clock func() time.Time

	mu       sync.Mutex
	notified map[string]bool
}

// Option configures the notifier.
type Option func(*Notifier)

// WithClock sets the time source used to derive expiry.
func WithClock(clock func() time.Time) Option {
	return func(n *Notifier) {
		n.clock = clock
	}
}

// New creates an expiration notifier over the store.
func New(store *timerstore.Store, sys domain.SystemNotifier, kv domain.KVStore, log *zap.SugaredLogger, opts ...Option) *Notifier {
	n := &Notifier{
		store:    store,
		sys:      sys,
		kv:       kv,
		log:      log,
		clock:    time.Now,
		notified: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// EnsurePermission requests system-notification permission once per
// install. The request-already-made flag is persisted so reloads never
// re-prompt.
func (n *Notifier) EnsurePermission(ctx context.Context) {
	if n.sys.PermissionGranted() {
		return
	}

	_, err := n.kv.Get(ctx, PermissionFlagKey)
	if err == nil {
		return // already asked
	}
	if !errors.Is(err, domain.ErrNotFound) {
		n.log.Warnf("expiry: reading permission flag: %v", err)
	}

	granted, err := n.sys.RequestPermission(ctx)
	if err != nil {
		n.log.Warnf("expiry: requesting notification permission: %v", err)
	}
	n.log.Infof("expiry: notification permission requested (granted=%v)", granted)

	if err := n.kv.Put(ctx, PermissionFlagKey, []byte("1")); err != nil {
		n.log.Warnf("expiry: persisting permission flag: %v", err)
	}
}

// Check runs one recomputation pass. For every timer that is running and
// expired but not yet in the notified set, it marks the set, stops the
// timer's countdown via the store, and fires a single system
// notification. Wire it to the scheduler tick.
func (n *Notifier) Check(ctx context.Context) {
	now := n.clock()

	for _, timer := range n.store.Derived(ctx, now) {
		if !timer.IsExpired || !timer.IsRunning {
			continue
		}

		n.mu.Lock()
		if n.notified[timer.ID] {
			n.mu.Unlock()
			continue
		}
		n.notified[timer.ID] = true
		n.mu.Unlock()

		// The expired timer stops consuming tick-driven urgency but
		// stays visible until dismissed.
		if err := n.store.Expire(ctx, timer.ID); err != nil {
			n.log.Errorf("expiry: stopping expired timer %s: %v", timer.ID, err)
		}

		title := fmt.Sprintf("%s is done", timer.Name)
		if err := n.sys.Show(ctx, title, "Your cooking timer has finished."); err != nil {
			n.log.Errorf("expiry: system notification for %s: %v", timer.ID, err)
		}
		n.log.Infof("expiry: %q (%s) fired", timer.Name, timer.ID)
	}
}

// Expired returns the expired-but-undismissed timers, for UI surfacing.
func (n *Notifier) Expired(ctx context.Context) []domain.CookingTimer {
	now := n.clock()

	n.mu.Lock()
	defer n.mu.Unlock()

	var out []domain.CookingTimer
	for _, timer := range n.store.Derived(ctx, now) {
		if n.notified[timer.ID] {
			out = append(out, timer)
		}
	}
	return out
}

// Dismiss acknowledges an expired timer: it leaves the notified set and
// is removed from the persisted collection.
func (n *Notifier) Dismiss(ctx context.Context, id string) error {
	n.mu.Lock()
	delete(n.notified, id)
	n.mu.Unlock()

	return n.store.Remove(ctx, id)
}

// DismissAll acknowledges every expired-undismissed timer and returns
// how many were dismissed.
func (n *Notifier) DismissAll(ctx context.Context) int {
	expired := n.Expired(ctx)
	for _, timer := range expired {
		if err := n.Dismiss(ctx, timer.ID); err != nil {
			n.log.Errorf("expiry: dismissing %s: %v", timer.ID, err)
		}
	}
	return len(expired)
}

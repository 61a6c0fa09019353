// Package notify delivers system notifications for expired timers.
package notify

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/RobMcd12/kiwicook/internal/domain"
)

// Compile-time interface check.
var _ domain.SystemNotifier = (*Terminal)(nil)

// ANSI escape codes for terminal formatting.
const (
	reset = "\033[0m"
	bold  = "\033[1m"
	red   = "\033[31m"
)

// Chime is the audible cue played alongside each notification.
type Chime interface {
	Ring(ctx context.Context) error
}

// PrintFunc is a function used to print formatted output. Matches the
// signature of both fmt.Printf and surface.UI.Printf.
type PrintFunc func(format string, a ...interface{})

// Terminal shows notifications in the terminal with ANSI formatting and
// an audible chime. The terminal needs no notification permission, so
// RequestPermission always grants.
type Terminal struct {
	log     *zap.SugaredLogger
	printFn PrintFunc

	mu    sync.Mutex
	chime Chime // optional, nil when audio is unavailable
}

// NewTerminal creates a terminal-based notifier.
// If printFn is nil, fmt.Printf is used.
func NewTerminal(log *zap.SugaredLogger, printFn PrintFunc) *Terminal {
	if printFn == nil {
		printFn = func(format string, a ...interface{}) {
			fmt.Printf(format+"\n", a...)
		}
	}
	return &Terminal{log: log, printFn: printFn}
}

// SetChime attaches the audible cue. Pass nil to go silent.
func (t *Terminal) SetChime(c Chime) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.chime = c
}

// PermissionGranted always reports true for the terminal.
func (t *Terminal) PermissionGranted() bool { return true }

// RequestPermission is a no-op grant for the terminal.
func (t *Terminal) RequestPermission(ctx context.Context) (bool, error) {
	return true, nil
}

// Show prints the notification in bold red and rings the chime.
func (t *Terminal) Show(ctx context.Context, title, body string) error {
	t.log.Debugf("notify: %s: %s", title, body)
	t.printFn("%s%s%s: %s%s", red, bold, title, body, reset)

	t.mu.Lock()
	chime := t.chime
	t.mu.Unlock()
	if chime != nil {
		go func() {
			if err := chime.Ring(ctx); err != nil {
				t.log.Warnf("notify: chime failed: %v", err)
			}
		}()
	}
	return nil
}

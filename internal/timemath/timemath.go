// Package timemath converts a timer's stored timestamps into remaining
// seconds and expiry state. Everything here is pure: the same timer and
// the same instant always produce the same answer, no matter how many
// times the scheduler asks.
package timemath

import (
	"time"

	"github.com/RobMcd12/kiwicook/internal/domain"
)

// Remaining returns the timer's remaining seconds at the given instant,
// clamped to >= 0.
//
// A paused timer reports its frozen RemainingAtPause. A running timer is
// re-derived from (StartedAt, DurationSeconds) — never from a stored
// counter, so the value cannot drift across ticks or suspensions.
func Remaining(t domain.StoredTimer, now time.Time) int {
	if !t.IsRunning {
		if t.RemainingAtPause != nil {
			return clamp(*t.RemainingAtPause)
		}
		// Never started counting.
		return clamp(t.DurationSeconds)
	}

	elapsed := int(now.Sub(t.StartedAt) / time.Second)
	return clamp(t.DurationSeconds - elapsed)
}

// IsExpired reports whether the timer's countdown has reached zero.
func IsExpired(t domain.StoredTimer, now time.Time) bool {
	return Remaining(t, now) <= 0
}

// Derive builds the ephemeral CookingTimer view of a stored timer.
func Derive(t domain.StoredTimer, now time.Time) domain.CookingTimer {
	remaining := Remaining(t, now)
	return domain.CookingTimer{
		StoredTimer:      t,
		RemainingSeconds: remaining,
		IsExpired:        remaining <= 0,
	}
}

func clamp(seconds int) int {
	if seconds < 0 {
		return 0
	}
	return seconds
}

package timemath

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/RobMcd12/kiwicook/internal/domain"
)

func TestRemainingRunning(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{"just started", 0, 600},
		{"halfway", 5 * time.Minute, 300},
		{"one second left", 599 * time.Second, 1},
		{"exactly expired", 10 * time.Minute, 0},
		{"long overdue", 2 * time.Hour, 0},
		{"sub-second elapsed floors to zero", 900 * time.Millisecond, 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timer := domain.StoredTimer{
				ID:              "t1",
				DurationSeconds: 600,
				StartedAt:       start,
				IsRunning:       true,
			}
			got := Remaining(timer, start.Add(tt.elapsed))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRemainingPaused(t *testing.T) {
	now := time.Now()
	pausedAt := now.Add(-3 * time.Hour)
	frozen := 480

	timer := domain.StoredTimer{
		ID:               "t1",
		DurationSeconds:  600,
		StartedAt:        now.Add(-4 * time.Hour),
		IsRunning:        false,
		PausedAt:         &pausedAt,
		RemainingAtPause: &frozen,
	}

	// The pause freezes remaining regardless of how much wall time passed.
	assert.Equal(t, 480, Remaining(timer, now))
	assert.Equal(t, 480, Remaining(timer, now.Add(24*time.Hour)))
}

func TestRemainingNeverStarted(t *testing.T) {
	timer := domain.StoredTimer{ID: "t1", DurationSeconds: 300}
	assert.Equal(t, 300, Remaining(timer, time.Now()))
}

func TestRemainingBounds(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	timer := domain.StoredTimer{
		ID:              "t1",
		DurationSeconds: 120,
		StartedAt:       start,
		IsRunning:       true,
	}

	for elapsed := 0; elapsed <= 300; elapsed += 7 {
		got := Remaining(timer, start.Add(time.Duration(elapsed)*time.Second))
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, timer.DurationSeconds)
	}
}

func TestIsExpiredMatchesRemaining(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	timer := domain.StoredTimer{
		ID:              "t1",
		DurationSeconds: 60,
		StartedAt:       start,
		IsRunning:       true,
	}

	for elapsed := 0; elapsed <= 120; elapsed += 5 {
		now := start.Add(time.Duration(elapsed) * time.Second)
		assert.Equal(t, Remaining(timer, now) == 0, IsExpired(timer, now),
			"expiry must track remaining at elapsed=%ds", elapsed)
	}
}

func TestDeriveIsIdempotent(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start.Add(90 * time.Second)
	timer := domain.StoredTimer{
		ID:              "t1",
		DurationSeconds: 300,
		StartedAt:       start,
		IsRunning:       true,
	}

	first := Derive(timer, now)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Derive(timer, now))
	}
	assert.Equal(t, 210, first.RemainingSeconds)
	assert.False(t, first.IsExpired)
}

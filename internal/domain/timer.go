// Package domain defines the core types and interfaces for the cooking
// timer engine. All other packages depend on domain; domain depends on
// nothing.
package domain

import "time"

// StoredTimer is the durable timer record. It is keyed by absolute
// timestamps rather than a decrementing counter: while running, the pair
// (StartedAt, DurationSeconds) is sufficient to reconstruct remaining
// time, so repeated derivation never accumulates drift.
//
// Exactly one of the two shapes holds at any time: IsRunning=true, or
// PausedAt and RemainingAtPause both set.
type StoredTimer struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	RecipeID   string `json:"recipeId,omitempty"`
	RecipeName string `json:"recipeName,omitempty"`

	// DurationSeconds is fixed at creation and never changes.
	DurationSeconds int       `json:"durationSeconds"`
	StartedAt       time.Time `json:"startedAt"`
	IsRunning       bool      `json:"isRunning"`

	// Set only while paused. RemainingAtPause is the frozen
	// remaining-seconds value captured at the moment of pausing.
	PausedAt         *time.Time `json:"pausedAt,omitempty"`
	RemainingAtPause *int       `json:"remainingAtPause,omitempty"`
}

// CookingTimer is the derived, ephemeral view of a StoredTimer. It is
// recomputed on every tick and never persisted.
type CookingTimer struct {
	StoredTimer

	// RemainingSeconds is clamped to >= 0.
	RemainingSeconds int
	IsExpired        bool
}

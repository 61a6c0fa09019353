package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound        = errors.New("not found")
	ErrTimerCapReached = errors.New("timer cap reached")
	ErrUnsupported     = errors.New("capability not supported")
)

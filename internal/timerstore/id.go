package timerstore

import (
	"crypto/rand"
	"fmt"
)

// generateID creates a short random hex ID for timers.
func generateID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// Fallback -- should never happen.
		return fmt.Sprintf("timer-%d", b)
	}
	return fmt.Sprintf("%x", b)
}

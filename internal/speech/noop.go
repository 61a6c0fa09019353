// Package speech holds the engine-facing speech capabilities: no-op
// recognizer and synthesizer stand-ins for hosts without speech
// support, the expiry alert chime, and the coordinator that sequences
// listening and speaking.
package speech

import (
	"context"

	"go.uber.org/zap"

	"github.com/RobMcd12/kiwicook/internal/domain"
)

// Compile-time interface checks.
var (
	_ domain.Recognizer  = (*NoOpRecognizer)(nil)
	_ domain.Synthesizer = (*NoOpSynthesizer)(nil)
)

// NoOpRecognizer is used when the host has no speech recognition.
// Start reports ErrUnsupported so callers fall back to typed input.
type NoOpRecognizer struct {
	log *zap.SugaredLogger
}

// NewNoOpRecognizer creates a recognizer stand-in for voiceless hosts.
func NewNoOpRecognizer(log *zap.SugaredLogger) *NoOpRecognizer {
	return &NoOpRecognizer{log: log}
}

func (n *NoOpRecognizer) IsSupported() bool { return false }

func (n *NoOpRecognizer) Start() error { return domain.ErrUnsupported }

func (n *NoOpRecognizer) Stop() {}

func (n *NoOpRecognizer) OnTranscript(func(text string, final bool)) {}

func (n *NoOpRecognizer) OnListening(func(listening bool)) {}

func (n *NoOpRecognizer) OnError(func(err error)) {}

// NoOpSynthesizer logs what it would have said and returns immediately.
type NoOpSynthesizer struct {
	log *zap.SugaredLogger
}

// NewNoOpSynthesizer creates a synthesizer stand-in for voiceless hosts.
func NewNoOpSynthesizer(log *zap.SugaredLogger) *NoOpSynthesizer {
	return &NoOpSynthesizer{log: log}
}

// Speak does nothing. Swap in a real TTS provider when one is wired up.
func (n *NoOpSynthesizer) Speak(ctx context.Context, text string) error {
	n.log.Debugf("speech no-op: would say %q", text)
	return nil
}

func (n *NoOpSynthesizer) Stop() {}

func (n *NoOpSynthesizer) Unlock() {}

func (n *NoOpSynthesizer) OnSpeaking(func(speaking bool)) {}

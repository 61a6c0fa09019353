package domain

import "context"

// KVStore is the durable key-value store the timer collection is
// persisted to. Get returns ErrNotFound when the key is absent.
// Implementations can be file-backed, in-memory, or browser storage.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Recognizer is the speech-to-text capability consumed by the engine.
// The engine never implements recognition itself; it only coordinates
// start/stop and reacts to transcripts.
type Recognizer interface {
	// IsSupported reports whether recognition is available in the host
	// environment. Start returns ErrUnsupported when it is not.
	IsSupported() bool
	Start() error
	Stop()

	// OnTranscript registers the callback receiving recognized text.
	// final is false for interim hypotheses.
	OnTranscript(fn func(text string, final bool))
	OnListening(fn func(listening bool))
	OnError(fn func(err error))
}

// Synthesizer is the text-to-speech capability consumed by the engine.
type Synthesizer interface {
	// Speak blocks until playback finishes or Stop is called.
	Speak(ctx context.Context, text string) error
	Stop()

	// Unlock primes audio playback permission on the first user
	// gesture. Required on mobile browsers; a no-op elsewhere.
	Unlock()
	OnSpeaking(fn func(speaking bool))
}

// SystemNotifier delivers one-shot system notifications.
type SystemNotifier interface {
	PermissionGranted() bool
	RequestPermission(ctx context.Context) (bool, error)
	Show(ctx context.Context, title, body string) error
}

// Assistant generates conversational replies for utterances the command
// parser does not recognize. Implementations live outside this engine.
type Assistant interface {
	Reply(ctx context.Context, utterance string) (string, error)
}

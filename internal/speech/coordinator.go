package speech

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/RobMcd12/kiwicook/internal/domain"
)

// Coordinator sequences the microphone and the voice so they never run
// at once: speaking interrupts listening, and listening resumes after a
// reply when open-mic mode is on.
type Coordinator struct {
	rec domain.Recognizer
	syn domain.Synthesizer
	log *zap.SugaredLogger

	mu               sync.Mutex
	openMic          bool
	listening        bool
	speaking         bool
	warnedNoMic      bool
	onUtterance      func(text string)
	onListeningState func(listening bool)
}

// NewCoordinator wires the recognizer and synthesizer callbacks into a
// single conversational flow.
func NewCoordinator(rec domain.Recognizer, syn domain.Synthesizer, log *zap.SugaredLogger) *Coordinator {
	c := &Coordinator{rec: rec, syn: syn, log: log}

	rec.OnTranscript(c.handleTranscript)
	rec.OnListening(func(listening bool) {
		c.mu.Lock()
		c.listening = listening
		fn := c.onListeningState
		c.mu.Unlock()
		if fn != nil {
			fn(listening)
		}
	})
	rec.OnError(func(err error) {
		log.Warnf("speech: recognition error: %v", err)
	})
	syn.OnSpeaking(func(speaking bool) {
		c.mu.Lock()
		c.speaking = speaking
		c.mu.Unlock()
	})

	return c
}

// OnUtterance registers the callback receiving final transcripts.
func (c *Coordinator) OnUtterance(fn func(text string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUtterance = fn
}

// OnListeningState registers a callback for microphone state changes,
// used by the surface to render the listening indicator.
func (c *Coordinator) OnListeningState(fn func(listening bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onListeningState = fn
}

// SetOpenMic toggles hands-free mode: after each spoken reply the
// microphone reopens on its own.
func (c *Coordinator) SetOpenMic(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.openMic = on
}

// OpenMic reports whether hands-free mode is on.
func (c *Coordinator) OpenMic() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.openMic
}

// Listening reports whether the microphone is currently open.
func (c *Coordinator) Listening() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listening
}

// StartListening opens the microphone, cutting off any speech in
// progress. On hosts without recognition the first call returns
// ErrUnsupported so the caller can tell the user once; later calls are
// silently ignored.
func (c *Coordinator) StartListening() error {
	if !c.rec.IsSupported() {
		c.mu.Lock()
		warned := c.warnedNoMic
		c.warnedNoMic = true
		c.mu.Unlock()
		if warned {
			c.log.Debugf("speech: recognition unavailable, staying on typed input")
			return nil
		}
		return domain.ErrUnsupported
	}

	c.syn.Stop()
	return c.rec.Start()
}

// StopListening closes the microphone and turns hands-free mode off.
func (c *Coordinator) StopListening() {
	c.mu.Lock()
	c.openMic = false
	c.mu.Unlock()
	c.rec.Stop()
}

// Say speaks a reply, closing the microphone for the duration. When
// open-mic mode is on the microphone reopens afterwards.
func (c *Coordinator) Say(ctx context.Context, text string) error {
	c.rec.Stop()
	err := c.syn.Speak(ctx, text)

	if c.OpenMic() {
		if startErr := c.StartListening(); startErr != nil {
			c.log.Debugf("speech: could not reopen microphone: %v", startErr)
		}
	}
	return err
}

// Interrupt cuts off both the microphone and any speech in progress.
func (c *Coordinator) Interrupt() {
	c.syn.Stop()
	c.rec.Stop()
}

// Unlock primes audio playback on the first user gesture.
func (c *Coordinator) Unlock() {
	c.syn.Unlock()
}

func (c *Coordinator) handleTranscript(text string, final bool) {
	if !final {
		return
	}

	c.mu.Lock()
	openMic := c.openMic
	fn := c.onUtterance
	c.mu.Unlock()

	// One utterance per press unless the mic is held open.
	if !openMic {
		c.rec.Stop()
	}
	if fn != nil {
		fn(text)
	}
}

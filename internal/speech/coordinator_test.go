package speech

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RobMcd12/kiwicook/internal/domain"
)

type fakeRecognizer struct {
	mu           sync.Mutex
	supported    bool
	started      bool
	startCalls   int
	stopCalls    int
	onTranscript func(text string, final bool)
	onListening  func(listening bool)
	onError      func(err error)
}

func (f *fakeRecognizer) IsSupported() bool { return f.supported }

func (f *fakeRecognizer) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.supported {
		return domain.ErrUnsupported
	}
	f.started = true
	f.startCalls++
	return nil
}

func (f *fakeRecognizer) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = false
	f.stopCalls++
}

func (f *fakeRecognizer) OnTranscript(fn func(string, bool)) { f.onTranscript = fn }
func (f *fakeRecognizer) OnListening(fn func(bool))          { f.onListening = fn }
func (f *fakeRecognizer) OnError(fn func(error))             { f.onError = fn }

func (f *fakeRecognizer) emit(text string, final bool) { f.onTranscript(text, final) }

type fakeSynthesizer struct {
	mu        sync.Mutex
	spoken    []string
	stopCalls int
}

func (f *fakeSynthesizer) Speak(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spoken = append(f.spoken, text)
	return nil
}

func (f *fakeSynthesizer) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopCalls++
}

func (f *fakeSynthesizer) Unlock() {}

func (f *fakeSynthesizer) OnSpeaking(func(bool)) {}

func newTestCoordinator(supported bool) (*Coordinator, *fakeRecognizer, *fakeSynthesizer) {
	rec := &fakeRecognizer{supported: supported}
	syn := &fakeSynthesizer{}
	return NewCoordinator(rec, syn, zap.NewNop().Sugar()), rec, syn
}

func TestFinalTranscriptClosesMicAndDelivers(t *testing.T) {
	coord, rec, _ := newTestCoordinator(true)

	var got []string
	coord.OnUtterance(func(text string) { got = append(got, text) })

	require.NoError(t, coord.StartListening())
	rec.emit("set a ti", false)
	rec.emit("set a timer for ten minutes", true)

	assert.Equal(t, []string{"set a timer for ten minutes"}, got)
	assert.False(t, rec.started, "mic should close after a final transcript")
}

func TestOpenMicKeepsListeningAcrossUtterances(t *testing.T) {
	coord, rec, _ := newTestCoordinator(true)
	coord.OnUtterance(func(string) {})
	coord.SetOpenMic(true)

	require.NoError(t, coord.StartListening())
	rec.emit("next step", true)

	assert.True(t, rec.started, "open mic should stay on after a final transcript")
}

func TestSayClosesMicThenReopensInOpenMicMode(t *testing.T) {
	coord, rec, syn := newTestCoordinator(true)
	coord.SetOpenMic(true)

	require.NoError(t, coord.StartListening())
	require.NoError(t, coord.Say(context.Background(), "Step 2: sear the chicken."))

	assert.Equal(t, []string{"Step 2: sear the chicken."}, syn.spoken)
	assert.GreaterOrEqual(t, rec.stopCalls, 1)
	assert.True(t, rec.started, "mic should reopen after speaking in open-mic mode")
}

func TestSayLeavesMicClosedWithoutOpenMic(t *testing.T) {
	coord, rec, _ := newTestCoordinator(true)

	require.NoError(t, coord.StartListening())
	require.NoError(t, coord.Say(context.Background(), "Pasta timer started."))

	assert.False(t, rec.started)
}

func TestUnsupportedRecognizerSurfacedOnce(t *testing.T) {
	coord, _, _ := newTestCoordinator(false)

	err := coord.StartListening()
	require.ErrorIs(t, err, domain.ErrUnsupported)

	// Later attempts are quiet so the user isn't nagged every turn.
	assert.NoError(t, coord.StartListening())
	assert.NoError(t, coord.StartListening())
}

func TestStopListeningDisablesOpenMic(t *testing.T) {
	coord, rec, _ := newTestCoordinator(true)
	coord.SetOpenMic(true)

	require.NoError(t, coord.StartListening())
	coord.StopListening()

	assert.False(t, rec.started)
	assert.False(t, coord.OpenMic())
}

func TestInterruptStopsSpeechAndMic(t *testing.T) {
	coord, rec, syn := newTestCoordinator(true)

	require.NoError(t, coord.StartListening())
	coord.Interrupt()

	assert.False(t, rec.started)
	assert.Equal(t, 1, syn.stopCalls)
}

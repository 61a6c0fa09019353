package speech

import (
	"bytes"
	"context"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"go.uber.org/zap"
)

// Playback format for the alert chime.
const (
	sampleRate   = 24000
	channelCount = 1
)

// Chime plays a short two-beep alert tone through the system audio
// device. It backs expiry notifications with an audible cue on hosts
// where no speech synthesizer is available.
type Chime struct {
	ctx *oto.Context
	log *zap.SugaredLogger
	pcm []byte

	mu     sync.Mutex
	active *oto.Player // currently playing, nil when idle
}

// NewChime initializes the system audio context and pre-renders the
// alert tone. Returns an error if the audio device is unavailable.
func NewChime(log *zap.SugaredLogger) (*Chime, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channelCount,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-readyChan

	log.Debugf("chime: audio initialized (rate=%d, channels=%d)", sampleRate, channelCount)
	return &Chime{ctx: ctx, log: log, pcm: renderTone()}, nil
}

// Ring plays the alert tone synchronously. Blocks until playback
// finishes, Stop is called, or ctx is cancelled.
func (c *Chime) Ring(ctx context.Context) error {
	player := c.ctx.NewPlayer(bytes.NewReader(c.pcm))

	c.mu.Lock()
	c.active = player
	c.mu.Unlock()

	player.Play()

	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
		case <-time.After(10 * time.Millisecond):
		}
	}

	c.mu.Lock()
	c.active = nil
	c.mu.Unlock()

	return player.Close()
}

// Stop interrupts the currently playing tone, if any. Safe to call
// concurrently and when nothing is playing.
func (c *Chime) Stop() {
	c.mu.Lock()
	active := c.active
	c.mu.Unlock()

	if active != nil {
		active.Pause()
		c.log.Debugf("chime: interrupted")
	}
}

// renderTone builds the two-beep PCM buffer: an 880 Hz sine per beep
// with a short gap, faded at the edges to avoid clicks.
func renderTone() []byte {
	const (
		freq   = 880.0
		volume = 0.4
	)

	beepSamples := sampleRate * 180 / 1000
	gapSamples := sampleRate * 120 / 1000
	fadeSamples := sampleRate * 5 / 1000

	pcm := make([]byte, 0, (2*beepSamples+gapSamples)*2)
	appendSample := func(v float64) {
		s := int16(v * volume * math.MaxInt16)
		pcm = append(pcm, byte(uint16(s)), byte(uint16(s)>>8))
	}

	beep := func() {
		for i := 0; i < beepSamples; i++ {
			amp := 1.0
			if i < fadeSamples {
				amp = float64(i) / float64(fadeSamples)
			} else if rem := beepSamples - i; rem < fadeSamples {
				amp = float64(rem) / float64(fadeSamples)
			}
			appendSample(amp * math.Sin(2*math.Pi*freq*float64(i)/sampleRate))
		}
	}

	beep()
	for i := 0; i < gapSamples; i++ {
		appendSample(0)
	}
	beep()

	return pcm
}

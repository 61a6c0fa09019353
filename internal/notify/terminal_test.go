package notify

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type ringRecorder struct {
	mu    sync.Mutex
	rings int
	done  chan struct{}
}

func (r *ringRecorder) Ring(context.Context) error {
	r.mu.Lock()
	r.rings++
	r.mu.Unlock()
	close(r.done)
	return nil
}

func TestShowPrintsTitleAndBody(t *testing.T) {
	var lines []string
	term := NewTerminal(zap.NewNop().Sugar(), func(format string, a ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, a...))
	})

	require.NoError(t, term.Show(context.Background(), "Timer Finished", "Pasta is done"))

	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "Timer Finished")
	assert.Contains(t, lines[0], "Pasta is done")
}

func TestShowRingsChime(t *testing.T) {
	term := NewTerminal(zap.NewNop().Sugar(), func(string, ...interface{}) {})
	rec := &ringRecorder{done: make(chan struct{})}
	term.SetChime(rec)

	require.NoError(t, term.Show(context.Background(), "Timer Finished", "Chicken is done"))

	select {
	case <-rec.done:
	case <-time.After(time.Second):
		t.Fatal("chime was not rung")
	}
}

func TestTerminalAlwaysHasPermission(t *testing.T) {
	term := NewTerminal(zap.NewNop().Sugar(), func(string, ...interface{}) {})

	assert.True(t, term.PermissionGranted())
	ok, err := term.RequestPermission(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

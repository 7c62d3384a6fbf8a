package scan

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncer_SuppressesHeldCode(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d := NewDebouncer(time.Second)
	d.Now = func() time.Time { return now }

	assert.True(t, d.Accept("A"))
	now = now.Add(500 * time.Millisecond)
	assert.False(t, d.Accept("A"))
	// The repeat above refreshed the sighting.
	now = now.Add(900 * time.Millisecond)
	assert.False(t, d.Accept("A"))
	now = now.Add(2 * time.Second)
	assert.True(t, d.Accept("A"))
}

func TestDebouncer_DifferentCodePasses(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d := NewDebouncer(time.Second)
	d.Now = func() time.Time { return now }

	assert.True(t, d.Accept("A"))
	assert.True(t, d.Accept("B"))
	assert.True(t, d.Accept("A"))

	d.Reset()
	assert.True(t, d.Accept("A"))
}

func TestNewDebouncer_DefaultWindow(t *testing.T) {
	assert.Equal(t, DefaultDebounceWindow, NewDebouncer(0).Window)
}

func TestLineSource_Run(t *testing.T) {
	input := "alpha\r\n\nalpha\nbeta\n\ngamma"
	src := NewLineSource(strings.NewReader(input), NewDebouncer(time.Hour))

	out := make(chan string, 8)
	require.NoError(t, src.Run(context.Background(), out))

	var got []string
	for s := range out {
		got = append(got, s)
	}
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, got)
}

func TestLineSource_Cancel(t *testing.T) {
	src := NewLineSource(strings.NewReader("a\nb\nc\n"), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := make(chan string)
	err := src.Run(ctx, out)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLineSource_SetTorch(t *testing.T) {
	src := NewLineSource(strings.NewReader(""), nil)
	assert.ErrorIs(t, src.SetTorch(true), ErrNoTorch)

	var dev bytes.Buffer
	src.WithTorch(&dev, "LIGHT1\r", "LIGHT0\r")
	require.NoError(t, src.SetTorch(true))
	require.NoError(t, src.SetTorch(false))
	assert.Equal(t, "LIGHT1\rLIGHT0\r", dev.String())
}

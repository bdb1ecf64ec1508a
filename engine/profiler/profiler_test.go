package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestProfiler(buf *bytes.Buffer, clock *fakeClock) *Profiler {
	logger := slog.New(slog.NewTextHandler(buf, nil))
	return NewProfiler(WithLogger(logger), WithClock(clock.now), WithInterval(time.Second))
}

func TestTickWaitsForInterval(t *testing.T) {
	var buf bytes.Buffer
	clock := &fakeClock{t: time.Unix(100, 0)}
	p := newTestProfiler(&buf, clock)

	for i := 0; i < 5; i++ {
		clock.advance(100 * time.Millisecond)
		assert.False(t, p.Tick())
	}
	assert.Empty(t, buf.String())
	assert.Zero(t, p.Last().FPS)
}

func TestTickReportsFPS(t *testing.T) {
	var buf bytes.Buffer
	clock := &fakeClock{t: time.Unix(100, 0)}
	p := newTestProfiler(&buf, clock)

	logged := false
	// 30 steps of time.Second/30 fall 10ns short of the interval; the last frame crosses it.
	frame := time.Second/30 + time.Nanosecond
	for i := 0; i < 30; i++ {
		clock.advance(frame)
		logged = p.Tick()
	}
	require.True(t, logged)
	assert.InDelta(t, 30, p.Last().FPS, 0.5)
	assert.Contains(t, buf.String(), "msg=profiler")
	assert.Contains(t, buf.String(), "fps=")
	assert.Contains(t, buf.String(), "heap_mb=")
}

func TestCounters(t *testing.T) {
	var buf bytes.Buffer
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := newTestProfiler(&buf, clock)

	branches := 7
	p.AddCounter("branches", func() int { return branches })
	p.AddCounter("ignored", nil)

	clock.advance(2 * time.Second)
	require.True(t, p.Tick())
	assert.Equal(t, map[string]int{"branches": 7}, p.Last().Counters)
	assert.Contains(t, buf.String(), "branches=7")

	p.AddCounter("branches", func() int { return branches * 2 })
	clock.advance(2 * time.Second)
	require.True(t, p.Tick())
	assert.Equal(t, 14, p.Last().Counters["branches"])
	assert.Len(t, p.Last().Counters, 1)
}

func TestDefaultOptions(t *testing.T) {
	p := NewProfiler(WithInterval(0), WithLogger(nil), WithClock(nil))
	assert.Equal(t, time.Second, p.updateInterval)
	assert.NotNil(t, p.logger)
	assert.NotNil(t, p.now)
}

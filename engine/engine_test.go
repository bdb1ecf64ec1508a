package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-tree/engine/profiler"
	"github.com/Carmen-Shannon/oxy-tree/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow runs its update callback in a loop until RequestClose.
type fakeWindow struct {
	mu       sync.Mutex
	closed   bool
	update   func()
	resize   func(width, height int)
	maxIters int
}

var _ window.Window = &fakeWindow{}

func (w *fakeWindow) SetUpdateCallback(cb func()) { w.update = cb }

func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.resize = cb }

func (w *fakeWindow) SetScreenSizeCallback(func(int, int)) {}

func (w *fakeWindow) SetScrollCallback(func(float32)) {}

func (w *fakeWindow) SetKeyDownCallback(func(uint32)) {}

func (w *fakeWindow) SetKeyUpCallback(func(uint32)) {}

func (w *fakeWindow) SetMouseButtonCallback(func(int, bool, float32, float32)) {}

func (w *fakeWindow) SetMouseMoveCallback(func(float32, float32)) {}

func (w *fakeWindow) SetCursorLeaveCallback(func()) {}

func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }

func (w *fakeWindow) Close() error { w.RequestClose(); return nil }

func (w *fakeWindow) Title() string { return "fake" }

func (w *fakeWindow) Width() int { return 640 }

func (w *fakeWindow) Height() int { return 480 }

func (w *fakeWindow) ScreenWidth() int { return 640 }

func (w *fakeWindow) ScreenHeight() int { return 480 }

func (w *fakeWindow) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.closed
}

func (w *fakeWindow) RequestClose() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
}

func (w *fakeWindow) ProcessMessages() {
	for i := 0; w.IsRunning() && (w.maxIters == 0 || i < w.maxIters); i++ {
		if w.update != nil {
			w.update()
		}
	}
}

func TestStepOrder(t *testing.T) {
	e := NewEngine()
	var calls []string
	e.SetTickCallback(func(dt float32) {
		calls = append(calls, "tick")
		assert.Equal(t, float32(0.25), dt)
	})
	e.SetRenderCallback(func(dt float32) { calls = append(calls, "render") })
	e.Post(func() { calls = append(calls, "posted") })
	e.Post(nil)

	e.Step(0.25)
	assert.Equal(t, []string{"posted", "tick", "render"}, calls)

	calls = nil
	e.Step(0.25)
	assert.Equal(t, []string{"tick", "render"}, calls)
}

func TestPostFromPostedRunsNextStep(t *testing.T) {
	e := NewEngine()
	var order []int
	e.Post(func() {
		order = append(order, 1)
		e.Post(func() { order = append(order, 2) })
	})

	e.Step(0)
	assert.Equal(t, []int{1}, order)
	e.Step(0)
	assert.Equal(t, []int{1, 2}, order)
}

func TestPostConcurrent(t *testing.T) {
	e := NewEngine()
	count := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Post(func() { count++ })
		}()
	}
	wg.Wait()
	e.Step(0)
	assert.Equal(t, 50, count)
}

func TestHeadlessRunAndQuit(t *testing.T) {
	e := NewEngine(WithTickRate(500))
	frames := make(chan float32, 1000)
	e.SetTickCallback(func(dt float32) { frames <- dt })

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	select {
	case <-frames:
	case <-time.After(2 * time.Second):
		t.Fatal("no frame ran")
	}
	assert.Eventually(t, e.Running, time.Second, time.Millisecond)

	ran := make(chan struct{})
	e.Post(func() { close(ran) })
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("posted function never ran")
	}

	e.Quit()
	e.Quit()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Quit")
	}
	assert.False(t, e.Running())
}

func TestWindowedRun(t *testing.T) {
	w := &fakeWindow{}
	e := NewEngine(WithWindow(w))
	require.Equal(t, w, e.Window())

	frames := 0
	e.SetRenderCallback(func(float32) {
		frames++
		if frames == 3 {
			e.Quit()
		}
	})
	e.Run()
	assert.Equal(t, 3, frames)
	assert.False(t, w.IsRunning())
}

func TestWindowedRunStopsWhenWindowCloses(t *testing.T) {
	w := &fakeWindow{maxIters: 4}
	e := NewEngine(WithWindow(w))
	frames := 0
	e.SetTickCallback(func(float32) { frames++ })
	e.Run()
	assert.Equal(t, 4, frames)
	assert.False(t, e.Running())
}

func TestResizeForwarded(t *testing.T) {
	w := &fakeWindow{}
	e := NewEngine(WithWindow(w))
	var got [2]int
	e.SetResizeCallback(func(width, height int) { got = [2]int{width, height} })

	require.NotNil(t, w.resize)
	w.resize(800, 600)
	assert.Equal(t, [2]int{800, 600}, got)

	// Minimized windows report a zero size.
	w.resize(0, 0)
	assert.Equal(t, [2]int{800, 600}, got)
}

func TestProfilerTickedWhenEnabled(t *testing.T) {
	now := time.Unix(0, 0)
	p := profiler.NewProfiler(profiler.WithClock(func() time.Time { return now }))
	e := NewEngine(WithProfiler(p), WithProfiling(true))
	require.Same(t, p, e.Profiler())

	p.AddCounter("frames", func() int { return 1 })
	now = now.Add(2 * time.Second)
	e.Step(0)
	assert.Equal(t, 1, p.Last().Counters["frames"])

	e.DisableProfiler()
	now = now.Add(2 * time.Second)
	p.AddCounter("frames", func() int { return 2 })
	e.Step(0)
	assert.Equal(t, 1, p.Last().Counters["frames"])
}

func TestRates(t *testing.T) {
	e := NewEngine(WithTickRate(0), WithRenderFrameLimit(30)).(*engine)
	assert.Equal(t, time.Second/60, e.engineTickRate)
	assert.Equal(t, time.Duration(float64(time.Second)/30), e.renderFrameLimit)

	e.SetTickRate(120)
	assert.Equal(t, time.Duration(float64(time.Second)/120), e.tickRate())
	e.SetRenderFrameLimit(0)
	assert.Zero(t, e.renderFrameLimit)
}

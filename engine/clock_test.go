package engine

import (
	"math"
	"testing"
	"time"
)

func TestFrameClockTick(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockTimeProvider(start)
	clock := NewFrameClock(mock, 0.05)

	if dt := clock.Tick(); dt != 0 {
		t.Errorf("first tick = %v, want 0", dt)
	}

	mock.Advance(16 * time.Millisecond)
	if dt := clock.Tick(); math.Abs(dt-0.016) > 1e-9 {
		t.Errorf("tick = %v, want 0.016", dt)
	}

	// A long stall is clamped
	mock.Advance(2 * time.Second)
	if dt := clock.Tick(); dt != 0.05 {
		t.Errorf("stalled tick = %v, want clamp 0.05", dt)
	}

	// Time going backwards reports nothing
	mock.SetTime(start)
	if dt := clock.Tick(); dt != 0 {
		t.Errorf("backwards tick = %v, want 0", dt)
	}
}

func TestFrameClockFPS(t *testing.T) {
	mock := NewMockTimeProvider(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	mock.SetStep(20 * time.Millisecond)
	clock := NewFrameClock(mock, 0.05)

	for i := 0; i < 50; i++ {
		clock.Tick()
	}
	if fps := clock.FPS(); math.Abs(fps-50) > 0.5 {
		t.Errorf("fps = %v, want ~50", fps)
	}
}

func TestFrameClockPauseDuration(t *testing.T) {
	mock := NewMockTimeProvider(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	clock := NewFrameClock(mock, 0.05)

	clock.Pause()
	clock.Pause() // idempotent
	if !clock.IsPaused() {
		t.Fatal("clock not paused")
	}
	mock.Advance(3 * time.Second)
	if got := clock.TotalPauseDuration(); got != 3*time.Second {
		t.Errorf("open pause = %v, want 3s", got)
	}

	clock.Resume()
	mock.Advance(time.Second)
	if got := clock.TotalPauseDuration(); got != 3*time.Second {
		t.Errorf("closed pause = %v, want 3s", got)
	}

	clock.Reset()
	if got := clock.TotalPauseDuration(); got != 0 {
		t.Errorf("pause after reset = %v, want 0", got)
	}
}

func TestMockTimeProviderStep(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockTimeProvider(start)
	mock.SetStep(time.Second)

	if got := mock.Now(); !got.Equal(start) {
		t.Errorf("first Now = %v, want %v", got, start)
	}
	if got := mock.Now(); !got.Equal(start.Add(time.Second)) {
		t.Errorf("second Now = %v, want start+1s", got)
	}
}

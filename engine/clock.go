package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// fpsSmoothing is the weight of the newest sample in the FPS moving average
const fpsSmoothing = 0.1

// FrameClock turns wall time into clamped frame deltas and tracks pause time.
// Pause does not stop Tick from reporting deltas; the game decides what a
// paused frame advances. Pause time since the last Reset feeds the HUD and the
// level-won summary.
type FrameClock struct {
	mu sync.RWMutex

	provider TimeProvider
	maxDelta float64

	last    time.Time
	started bool
	fps     float64

	// Pause state
	isPaused        atomic.Bool
	pauseStartTime  time.Time
	totalPausedTime time.Duration
}

// NewFrameClock creates a clock that never reports a delta above maxDelta seconds
func NewFrameClock(provider TimeProvider, maxDelta float64) *FrameClock {
	if provider == nil {
		provider = NewMonotonicTimeProvider()
	}
	return &FrameClock{
		provider: provider,
		maxDelta: maxDelta,
	}
}

// Tick returns seconds since the previous Tick, clamped to [0, maxDelta]
// The first call returns 0
func (c *FrameClock) Tick() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.provider.Now()
	if !c.started {
		c.started = true
		c.last = now
		return 0
	}

	raw := now.Sub(c.last).Seconds()
	c.last = now
	if raw <= 0 {
		return 0
	}

	if sample := 1 / raw; c.fps == 0 {
		c.fps = sample
	} else {
		c.fps += (sample - c.fps) * fpsSmoothing
	}

	return min(raw, c.maxDelta)
}

// FPS returns the smoothed frame rate from unclamped deltas
func (c *FrameClock) FPS() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fps
}

// Pause marks the start of a pause interval
func (c *FrameClock) Pause() {
	if c.isPaused.CompareAndSwap(false, true) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.pauseStartTime = c.provider.Now()
	}
}

// Resume closes the current pause interval
func (c *FrameClock) Resume() {
	if c.isPaused.CompareAndSwap(true, false) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.pauseStartTime.IsZero() {
			c.totalPausedTime += c.provider.Now().Sub(c.pauseStartTime)
			c.pauseStartTime = time.Time{}
		}
	}
}

// IsPaused returns current pause state
func (c *FrameClock) IsPaused() bool {
	return c.isPaused.Load()
}

// TotalPauseDuration returns cumulative pause time, including an open pause
func (c *FrameClock) TotalPauseDuration() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.totalPausedTime
	if c.isPaused.Load() && !c.pauseStartTime.IsZero() {
		total += c.provider.Now().Sub(c.pauseStartTime)
	}
	return total
}

// Reset forgets the previous tick and pause history
func (c *FrameClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = false
	c.fps = 0
	c.totalPausedTime = 0
	c.pauseStartTime = time.Time{}
	if c.isPaused.Load() {
		c.pauseStartTime = c.provider.Now()
	}
}

package engine

import (
	"github.com/lixenwraith/wrecker/component"
)

// ChainSchedule holds pending secondary detonations
// Timers only advance through Advance, which the tick calls while the level
// is running, so a paused game also pauses every pending fuse
type ChainSchedule struct {
	pending []component.ChainCharge
	due     []component.ChainCharge
}

func NewChainSchedule() *ChainSchedule {
	return &ChainSchedule{
		pending: make([]component.ChainCharge, 0, 16),
		due:     make([]component.ChainCharge, 0, 16),
	}
}

// Schedule queues a charge; Remaining must be positive so it never fires in the scheduling tick
func (c *ChainSchedule) Schedule(charge component.ChainCharge) {
	c.pending = append(c.pending, charge)
}

// Advance decrements every fuse by dt and returns the charges that reached zero
// The returned slice is reused by the next call
func (c *ChainSchedule) Advance(dt float32) []component.ChainCharge {
	c.due = c.due[:0]
	kept := c.pending[:0]
	for _, ch := range c.pending {
		ch.Remaining -= dt
		if ch.Remaining <= 0 {
			c.due = append(c.due, ch)
			continue
		}
		kept = append(kept, ch)
	}
	c.pending = kept
	return c.due
}

// Pending is the number of charges still waiting
func (c *ChainSchedule) Pending() int { return len(c.pending) }

// Clear drops every pending charge, used at level teardown
func (c *ChainSchedule) Clear() {
	c.pending = c.pending[:0]
	c.due = c.due[:0]
}

package event

import (
	"sync"

	"github.com/lixenwraith/wrecker/parameter"
)

// EventQueue buffers engine notifications between the tick that raises them
// and the dispatch at the end of the same frame. Capacity is fixed; when a
// frame raises more than it holds the oldest pending events are discarded
// and counted, so a burst of explosions cannot stall the frame loop
type EventQueue struct {
	mu      sync.Mutex
	ring    [parameter.EventQueueSize]GameEvent
	start   int // index of the oldest pending event
	n       int // pending events
	dropped uint64

	// out is handed to the consumer and reused by the next Consume
	out []GameEvent
}

func NewEventQueue() *EventQueue {
	return &EventQueue{out: make([]GameEvent, 0, 64)}
}

// Push appends ev, discarding the oldest pending event when full
// Safe from any goroutine; the engine only pushes from the frame loop
func (eq *EventQueue) Push(ev GameEvent) {
	eq.mu.Lock()
	defer eq.mu.Unlock()

	if eq.n == len(eq.ring) {
		eq.ring[eq.start] = GameEvent{}
		eq.start = (eq.start + 1) % len(eq.ring)
		eq.n--
		eq.dropped++
	}
	eq.ring[(eq.start+eq.n)%len(eq.ring)] = ev
	eq.n++
}

// Consume drains every pending event in push order
// The returned slice is only valid until the next Consume; nil when empty
func (eq *EventQueue) Consume() []GameEvent {
	eq.mu.Lock()
	defer eq.mu.Unlock()

	if eq.n == 0 {
		return nil
	}
	eq.out = eq.out[:0]
	for i := 0; i < eq.n; i++ {
		idx := (eq.start + i) % len(eq.ring)
		eq.out = append(eq.out, eq.ring[idx])
		eq.ring[idx] = GameEvent{} // release payloads
	}
	eq.start, eq.n = 0, 0
	return eq.out
}

// Len is the number of pending events
func (eq *EventQueue) Len() int {
	eq.mu.Lock()
	defer eq.mu.Unlock()
	return eq.n
}

// Dropped is the running total of events discarded on overflow
func (eq *EventQueue) Dropped() uint64 {
	eq.mu.Lock()
	defer eq.mu.Unlock()
	return eq.dropped
}

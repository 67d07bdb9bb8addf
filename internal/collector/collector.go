// Package collector aggregates per-request events for one round and
// reduces them to the round's measurements.
package collector

import (
	"sync"
	"time"

	"capsearch/internal/core"
)

// Collector gathers events from actors during a single round. Create
// one per round; Close it before summarizing.
type Collector struct {
	mu        sync.Mutex
	events    []core.Event
	ch        chan core.Event
	done      chan struct{}
	startTime time.Time
	endTime   time.Time
}

// New creates a Collector and starts its collection goroutine.
func New() *Collector {
	c := &Collector{
		ch:        make(chan core.Event, 4096),
		done:      make(chan struct{}),
		startTime: time.Now(),
	}
	go c.collect()
	return c
}

func (c *Collector) collect() {
	for event := range c.ch {
		c.mu.Lock()
		c.events = append(c.events, event)
		c.mu.Unlock()
	}
	close(c.done)
}

// Report sends an event to the collector. Safe for concurrent use.
// Events are dropped rather than blocking an actor when the buffer is
// full.
func (c *Collector) Report(event core.Event) {
	select {
	case c.ch <- event:
	default:
	}
}

// Close stops accepting events and waits for the pending ones to drain.
func (c *Collector) Close() {
	c.endTime = time.Now()
	close(c.ch)
	<-c.done
}

// Events returns a copy of the collected events.
func (c *Collector) Events() []core.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.Event, len(c.events))
	copy(out, c.events)
	return out
}

// Window returns how long the collector has been open, or the full
// open-to-close span once closed.
func (c *Collector) Window() time.Duration {
	if !c.endTime.IsZero() {
		return c.endTime.Sub(c.startTime)
	}
	return time.Since(c.startTime)
}

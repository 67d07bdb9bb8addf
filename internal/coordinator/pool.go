// Package coordinator manages the actor goroutines that drive a round.
package coordinator

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"capsearch/internal/core"
)

// Pool spawns actors that repeatedly run a workflow until the round's
// context ends. One Pool drives one round.
type Pool struct {
	nextID   atomic.Int64
	wg       sync.WaitGroup
	reporter core.Reporter
	active   atomic.Int32
}

func NewPool(reporter core.Reporter) *Pool {
	return &Pool{reporter: reporter}
}

// Spawn launches count actors, each looping the workflow until the
// context is done or the workflow asks to stop.
func (p *Pool) Spawn(ctx context.Context, count int, workflow core.Workflow) {
	for i := 0; i < count; i++ {
		actorID := int(p.nextID.Add(1))
		p.active.Add(1)
		p.wg.Add(1)
		go func(id int) {
			defer func() {
				p.wg.Done()
				p.active.Add(-1)
			}()
			defer p.recoverPanic(id)
			for {
				select {
				case <-ctx.Done():
					return
				default:
					if err := workflow.Run(ctx, id, p.reporter); err != nil {
						return
					}
				}
			}
		}(actorID)
	}
}

// Wait blocks until all actors have exited.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// ActiveActors returns the number of actors currently running.
func (p *Pool) ActiveActors() int {
	return int(p.active.Load())
}

// recoverPanic keeps one panicking actor from killing the round; the
// panic is recorded as a failed event.
func (p *Pool) recoverPanic(actorID int) {
	if r := recover(); r != nil {
		p.reporter.Report(core.Event{
			Actor:   actorID,
			Step:    "panic",
			Success: false,
			Error:   fmt.Sprintf("panic: %v", r),
		})
	}
}

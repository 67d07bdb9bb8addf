// Package core defines the shared measurement types for capsearch.
package core

import (
	"context"
	"time"
)

// Event is a single request measurement produced by an actor while a
// round is being driven.
type Event struct {
	Actor      int
	Timestamp  time.Time
	Step       string
	Duration   time.Duration
	Success    bool
	Error      string
	StatusCode int
}

// Reporter receives events from actors. Implementations must be safe for
// concurrent use.
type Reporter interface {
	Report(Event)
}

// Workflow is one pass of a workload journey executed by an actor.
// Implementations report an Event per request and return an error only
// when the actor should stop iterating.
type Workflow interface {
	Run(ctx context.Context, actorID int, rep Reporter) error
}

// NullReporter discards all events.
var NullReporter Reporter = nullReporter{}

type nullReporter struct{}

func (nullReporter) Report(Event) {}

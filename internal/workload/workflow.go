package workload

import (
	"context"
	"net/http"
	"sync"
	"time"

	"capsearch/internal/config"
	"capsearch/internal/core"
	"capsearch/internal/ratelimit"
)

// Workflow runs a configured step sequence as one journey per pass.
// Actors share a single Workflow; per-pass state lives in local
// variables.
type Workflow struct {
	Config  config.WorkflowConfig
	Client  *http.Client
	Limiter *ratelimit.Limiter

	steps     []*Step
	stepsOnce sync.Once
}

// Run executes one pass of the workflow. The limiter gates each request
// start so the round's rate budget counts requests, not passes. Each
// step's measurement is reported; a failed step ends the pass because
// later steps may depend on its extracted variables. Only context
// cancellation stops the actor.
func (w *Workflow) Run(ctx context.Context, actorID int, rep core.Reporter) error {
	w.stepsOnce.Do(func() {
		w.steps = make([]*Step, len(w.Config.Steps))
		for i, cfg := range w.Config.Steps {
			w.steps[i] = NewStep(cfg, w.Client)
		}
	})

	vars := core.NewVariables()
	for _, step := range w.steps {
		if w.Limiter != nil {
			if err := w.Limiter.Wait(ctx); err != nil {
				return err
			}
		}

		result := step.Execute(ctx, vars)

		if !result.Success && ctx.Err() != nil {
			// The round ended mid-request; that is a shutdown artifact,
			// not a measurement.
			return ctx.Err()
		}

		rep.Report(core.Event{
			Actor:      actorID,
			Timestamp:  time.Now(),
			Step:       step.Name(),
			Duration:   result.Duration,
			Success:    result.Success,
			Error:      result.Error,
			StatusCode: result.StatusCode,
		})

		if !result.Success {
			return nil
		}
		for k, v := range result.Extract {
			vars.Set(k, v)
		}
	}
	return nil
}

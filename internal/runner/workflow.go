package runner

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"capsearch/internal/capacity"
	"capsearch/internal/collector"
	"capsearch/internal/config"
	"capsearch/internal/coordinator"
	"capsearch/internal/ratelimit"
	"capsearch/internal/workload"
)

// Actor pool bounds when no explicit count is configured.
const (
	minActors = 8
	maxActors = 512
)

// WorkflowRunner sustains a round's rate by running configured
// multi-step journeys through an actor pool gated by a shared rate
// limiter.
type WorkflowRunner struct {
	query   *workload.Workflow
	update  *workload.Workflow
	limiter *ratelimit.Limiter
	actors  int
	log     logrus.FieldLogger
}

// NewWorkflowRunner builds a runner from the experiment configuration.
func NewWorkflowRunner(cfg *config.Config, log logrus.FieldLogger) *WorkflowRunner {
	client := &http.Client{Timeout: cfg.Timeout.Std()}
	limiter := ratelimit.New(1)

	r := &WorkflowRunner{
		limiter: limiter,
		actors:  cfg.Actors,
		log:     log,
	}
	if cfg.Query != nil {
		r.query = &workload.Workflow{Config: *cfg.Query, Client: client, Limiter: limiter}
	}
	if cfg.Update != nil {
		r.update = &workload.Workflow{Config: *cfg.Update, Client: client, Limiter: limiter}
	}
	return r
}

// Execute drives one round: the limiter is retuned to the round's rate,
// a fresh collector and actor pool are spun up for the duration, and
// the collected events are reduced to the round result.
func (r *WorkflowRunner) Execute(ctx context.Context, rps int, duration time.Duration, kind capacity.Workload) (capacity.RoundResult, error) {
	var wf *workload.Workflow
	switch kind {
	case capacity.WorkloadQuery:
		wf = r.query
	case capacity.WorkloadUpdate:
		wf = r.update
	}
	if wf == nil {
		return capacity.RoundResult{}, errors.Errorf("no %s workflow configured", kind)
	}

	r.limiter.SetRate(rps)

	actors := r.actorCount(rps)
	r.log.WithFields(logrus.Fields{
		"rps":      rps,
		"duration": duration,
		"actors":   actors,
		"workflow": wf.Config.Name,
	}).Debug("driving workflow round")

	coll := collector.New()
	pool := coordinator.NewPool(coll)

	roundCtx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	pool.Spawn(roundCtx, actors, wf)
	pool.Wait()
	coll.Close()

	if err := ctx.Err(); err != nil {
		return capacity.RoundResult{}, errors.Wrap(err, "round interrupted")
	}

	summary := collector.Summarize(coll.Events(), coll.Window())
	if summary.Requests == 0 {
		return capacity.RoundResult{}, errors.Errorf("no requests completed at %d rps", rps)
	}

	return capacity.RoundResult{
		FailureRate: summary.FailureRate,
		Median:      summary.Median,
		AchievedRPS: summary.AchievedRPS,
		Requests:    summary.Requests,
	}, nil
}

// actorCount sizes the pool for a round. The limiter does the pacing;
// the pool only needs enough concurrency to keep up with the rate when
// responses are slow.
func (r *WorkflowRunner) actorCount(rps int) int {
	if r.actors > 0 {
		return r.actors
	}
	n := rps / 4
	if n < minActors {
		n = minActors
	}
	if n > maxActors {
		n = maxActors
	}
	return n
}

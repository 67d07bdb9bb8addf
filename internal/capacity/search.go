package capacity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"capsearch/internal/core"
)

// NoCapacity is the capacity estimate when no round was acceptable.
const NoCapacity = -1

// Runner drives the target service at a fixed request rate for a fixed
// duration and reports the aggregate round result. Execute blocks until
// the round is over. An error means the runner could not drive load at
// all; measured degradation is never an error.
type Runner interface {
	Execute(ctx context.Context, rps int, duration time.Duration, kind Workload) (RoundResult, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, rps int, duration time.Duration, kind Workload) (RoundResult, error)

func (f RunnerFunc) Execute(ctx context.Context, rps int, duration time.Duration, kind Workload) (RoundResult, error) {
	return f(ctx, rps, duration, kind)
}

// Round is one completed probe: the load level driven, what was
// measured, and how it was classified.
type Round struct {
	RPS    int            `json:"rps"`
	Result RoundResult    `json:"result"`
	Class  Classification `json:"class"`
}

// Report is the full record of a capacity search.
type Report struct {
	RunID      string    `json:"runId"`
	Workload   Workload  `json:"workload"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Rounds     []Round   `json:"rounds"`
	// Capacity is the highest load level classified acceptable, or
	// NoCapacity when every round exceeded the acceptance thresholds.
	Capacity int `json:"capacity"`
}

// Search runs rounds over a datapoint sequence, one load level at a
// time, and tracks the highest acceptable level.
type Search struct {
	runner     Runner
	duration   time.Duration
	thresholds Thresholds
	clock      core.Clock
	log        logrus.FieldLogger
}

// Option configures a Search.
type Option func(*Search)

// WithClock substitutes the clock used for report timestamps.
func WithClock(c core.Clock) Option {
	return func(s *Search) { s.clock = c }
}

// WithLogger substitutes the search logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Search) { s.log = l }
}

// NewSearch builds a search loop over the given runner. Each round
// sustains its load level for duration before being classified against
// thresholds.
func NewSearch(runner Runner, duration time.Duration, thresholds Thresholds, opts ...Option) *Search {
	s := &Search{
		runner:     runner,
		duration:   duration,
		thresholds: thresholds,
		clock:      core.RealClock{},
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run probes the datapoints in order. Acceptable rounds raise the
// capacity estimate, unacceptable rounds are recorded and probing
// continues, a fatal round ends the sweep: higher load is expected to
// be worse, so the remaining levels are skipped.
//
// A runner error aborts the search. The report collected so far is
// still returned alongside the error so the rounds already measured
// are not lost.
func (s *Search) Run(ctx context.Context, datapoints []int) (report Report, err error) {
	report = Report{
		RunID:     uuid.NewString(),
		Workload:  s.thresholds.Workload,
		StartedAt: s.clock.Now(),
		Capacity:  NoCapacity,
	}
	defer func() {
		report.FinishedAt = s.clock.Now()
	}()

	log := s.log.WithFields(logrus.Fields{
		"run":      report.RunID,
		"workload": report.Workload,
	})
	log.WithField("rounds", len(datapoints)).Info("capacity search starting")

	for _, rps := range datapoints {
		if err := ctx.Err(); err != nil {
			return report, errors.Wrap(err, "capacity search interrupted")
		}

		result, err := s.runner.Execute(ctx, rps, s.duration, s.thresholds.Workload)
		if err != nil {
			return report, errors.Wrapf(err, "round at %d rps could not be driven", rps)
		}

		class := s.thresholds.Classify(result)
		report.Rounds = append(report.Rounds, Round{RPS: rps, Result: result, Class: class})

		log.WithFields(logrus.Fields{
			"rps":          rps,
			"failure_rate": result.FailureRate,
			"median":       result.Median,
			"class":        class.String(),
		}).Info("round finished")

		switch class {
		case Acceptable:
			if rps > report.Capacity {
				report.Capacity = rps
			}
		case Fatal:
			log.WithField("rps", rps).Warn("fatal degradation, stopping sweep")
			return report, nil
		}
	}

	log.WithField("capacity", report.Capacity).Info("capacity search finished")
	return report, nil
}

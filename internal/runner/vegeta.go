// Package runner provides the workload runners that sustain a load
// level against the target for the duration of a round.
package runner

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	vegeta "github.com/tsenart/vegeta/v12/lib"

	"capsearch/internal/capacity"
	"capsearch/internal/config"
)

// TargetRunner drives a single HTTP endpoint at the round's rate using
// a vegeta attacker. Query and update rounds hit the same configured
// endpoint; use the workflow runner when the two workloads differ.
type TargetRunner struct {
	target  config.TargetConfig
	timeout time.Duration
	log     logrus.FieldLogger
}

func NewTargetRunner(target config.TargetConfig, timeout time.Duration, log logrus.FieldLogger) *TargetRunner {
	return &TargetRunner{target: target, timeout: timeout, log: log}
}

// Execute blocks for the round duration while attacking at rps, then
// reports the round's failure rate and median latency. An error means
// no request could be issued at all.
func (r *TargetRunner) Execute(ctx context.Context, rps int, duration time.Duration, kind capacity.Workload) (capacity.RoundResult, error) {
	attacker := vegeta.NewAttacker(vegeta.Timeout(r.timeout))
	targeter := vegeta.NewStaticTargeter(r.vegetaTarget())
	pacer := vegeta.Rate{Freq: rps, Per: time.Second}

	r.log.WithFields(logrus.Fields{
		"rps":      rps,
		"duration": duration,
		"url":      r.target.URL,
	}).Debug("attacking target")

	results := attacker.Attack(targeter, pacer, duration, fmt.Sprintf("%s-%d", kind, rps))

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			attacker.Stop()
		case <-done:
		}
	}()

	var m vegeta.Metrics
	for res := range results {
		m.Add(res)
	}
	m.Close()

	if err := ctx.Err(); err != nil {
		return capacity.RoundResult{}, errors.Wrap(err, "round interrupted")
	}
	if m.Requests == 0 {
		return capacity.RoundResult{}, errors.Errorf("no requests issued at %d rps: %v", rps, m.Errors)
	}

	return capacity.RoundResult{
		FailureRate: 1 - m.Success,
		Median:      m.Latencies.P50,
		AchievedRPS: m.Rate,
		Requests:    m.Requests,
	}, nil
}

func (r *TargetRunner) vegetaTarget() vegeta.Target {
	header := make(http.Header, len(r.target.Headers))
	for k, v := range r.target.Headers {
		header.Set(k, v)
	}
	return vegeta.Target{
		Method: r.target.Method,
		URL:    r.target.URL,
		Body:   []byte(r.target.Body),
		Header: header,
	}
}

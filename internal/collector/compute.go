package collector

import (
	"time"

	"github.com/montanaflynn/stats"

	"capsearch/internal/core"
)

// Summary is the reduction of one round's events.
type Summary struct {
	Requests    uint64
	Failures    uint64
	FailureRate float64
	Median      time.Duration
	P90         time.Duration
	P99         time.Duration
	AchievedRPS float64
}

// Summarize reduces events to a round summary. Pure function, no side
// effects. The window is the span the round was actually driven for and
// is used to derive the achieved rate.
func Summarize(events []core.Event, window time.Duration) Summary {
	s := Summary{Requests: uint64(len(events))}
	if len(events) == 0 {
		return s
	}

	durations := make([]float64, 0, len(events))
	for _, e := range events {
		if !e.Success {
			s.Failures++
		}
		durations = append(durations, float64(e.Duration))
	}

	s.FailureRate = float64(s.Failures) / float64(s.Requests)
	if window > 0 {
		s.AchievedRPS = float64(s.Requests) / window.Seconds()
	}

	// stats only errors on empty input, which is handled above.
	if median, err := stats.Median(durations); err == nil {
		s.Median = time.Duration(median)
	}
	if p90, err := stats.Percentile(durations, 90); err == nil {
		s.P90 = time.Duration(p90)
	}
	if p99, err := stats.Percentile(durations, 99); err == nil {
		s.P99 = time.Duration(p99)
	}

	return s
}

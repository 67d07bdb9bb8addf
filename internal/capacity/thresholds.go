package capacity

import (
	"fmt"
	"time"
)

// Workload selects which kind of traffic a round drives against the
// target. Query and update workloads carry different load plans and
// acceptance thresholds.
type Workload string

const (
	WorkloadQuery  Workload = "query"
	WorkloadUpdate Workload = "update"
)

// RoundResult is the aggregate outcome of sustaining one load level for
// the round duration. FailureRate and Median are the only fields the
// classifier reads; the rest is carried for reporting.
type RoundResult struct {
	FailureRate float64       `json:"failureRate"`
	Median      time.Duration `json:"median"`
	AchievedRPS float64       `json:"achievedRps"`
	Requests    uint64        `json:"requests"`
}

// Classification is the verdict on a single round.
type Classification int

const (
	// Acceptable rounds count toward the capacity estimate.
	Acceptable Classification = iota
	// Unacceptable rounds exceed the acceptance thresholds but probing
	// continues; a single bad round near the limit may be noise.
	Unacceptable
	// Fatal rounds indicate catastrophic degradation and stop the sweep.
	Fatal
)

// MarshalJSON encodes the classification by name.
func (c Classification) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

func (c Classification) String() string {
	switch c {
	case Acceptable:
		return "acceptable"
	case Unacceptable:
		return "unacceptable"
	case Fatal:
		return "fatal"
	}
	return fmt.Sprintf("classification(%d)", int(c))
}

// Thresholds are the acceptance and abort limits for one workload kind,
// constructed once at startup and passed opaquely into the search loop.
type Thresholds struct {
	Workload Workload

	// A round at or above either limit is not counted toward capacity.
	MaxFailureRate float64
	MaxMedian      time.Duration

	// A round at or above either limit aborts the whole sweep.
	StopFailureRate float64
	StopMedian      time.Duration
}

// Classify places a round result into one of the three classes.
// Reaching a limit exactly counts as crossing it.
func (t Thresholds) Classify(r RoundResult) Classification {
	if r.FailureRate >= t.StopFailureRate || r.Median >= t.StopMedian {
		return Fatal
	}
	if r.FailureRate >= t.MaxFailureRate || r.Median >= t.MaxMedian {
		return Unacceptable
	}
	return Acceptable
}

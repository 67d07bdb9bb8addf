// Package capacity implements the capacity-search core: generation of the
// load levels to probe and the round-by-round search loop that discovers
// the highest sustainable request rate of a target service.
package capacity

import (
	"github.com/pkg/errors"
)

// ErrInvalidPlan is returned by Datapoints when the plan parameters
// violate their constraints. No rounds are run in that case.
var ErrInvalidPlan = errors.New("invalid datapoint plan")

// Plan parameterizes the sequence of load levels to probe.
type Plan struct {
	// Target is the load level of primary interest, e.g. the expected
	// production rate. Sampling is dense up to this point.
	Target int
	// Initial is the first load level probed.
	Initial int
	// Ceiling is the highest load level the sequence may contain.
	Ceiling int
	// Increment is the linear step between levels below Target.
	Increment int
	// Multiplier is the geometric growth factor applied once Target has
	// been reached or passed.
	Multiplier float64
}

// Datapoints expands a plan into the ordered sequence of load levels
// (requests per second) to probe. The sequence steps linearly by
// Increment from Initial until it reaches or passes Target, then grows
// geometrically by Multiplier. The last level is clamped to Ceiling and
// the sequence is strictly increasing.
//
// Dense sampling near the target gives resolution where it matters;
// geometric growth beyond it covers the far tail in few rounds.
func Datapoints(p Plan) ([]int, error) {
	switch {
	case p.Initial <= 0:
		return nil, errors.Wrapf(ErrInvalidPlan, "initial load %d must be positive", p.Initial)
	case p.Target <= 0:
		return nil, errors.Wrapf(ErrInvalidPlan, "target load %d must be positive", p.Target)
	case p.Increment <= 0:
		return nil, errors.Wrapf(ErrInvalidPlan, "increment %d must be positive", p.Increment)
	case p.Multiplier <= 1:
		return nil, errors.Wrapf(ErrInvalidPlan, "multiplier %g must be greater than 1", p.Multiplier)
	case p.Ceiling < p.Initial:
		return nil, errors.Wrapf(ErrInvalidPlan, "ceiling %d is below initial load %d", p.Ceiling, p.Initial)
	}

	var points []int
	level := p.Initial
	for {
		if level >= p.Ceiling {
			points = append(points, p.Ceiling)
			return points, nil
		}
		points = append(points, level)

		if level < p.Target {
			// Dense phase. A step that overshoots Target simply hands the
			// overshot value to the geometric phase on the next iteration.
			level += p.Increment
			continue
		}
		next := int(float64(level) * p.Multiplier)
		if next <= level {
			// Integer truncation of a small level times a multiplier close
			// to 1 could stall; force progress.
			next = level + 1
		}
		level = next
	}
}

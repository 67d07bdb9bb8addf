// Package report renders the outcome of a capacity search for the
// operator.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"capsearch/internal/capacity"
)

// WriteText writes the round log and capacity estimate in a
// human-readable layout.
func WriteText(w io.Writer, rep capacity.Report) {
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "capsearch - capacity search results")
	fmt.Fprintln(w, "===================================")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Run:      %s\n", rep.RunID)
	fmt.Fprintf(w, "Workload: %s\n", rep.Workload)
	fmt.Fprintf(w, "Duration: %v\n", rep.FinishedAt.Sub(rep.StartedAt).Round(time.Second))
	fmt.Fprintln(w, "")

	if len(rep.Rounds) == 0 {
		fmt.Fprintln(w, "No rounds completed")
		return
	}

	fmt.Fprintln(w, "Rounds:")
	fmt.Fprintf(w, "  %-8s %-10s %-10s %-10s %s\n", "RPS", "REQUESTS", "FAILRATE", "MEDIAN", "CLASS")
	for _, round := range rep.Rounds {
		fmt.Fprintf(w, "  %-8d %-10d %-10s %-10s %s\n",
			round.RPS,
			round.Result.Requests,
			fmt.Sprintf("%.2f%%", round.Result.FailureRate*100),
			FormatDuration(round.Result.Median),
			round.Class)
	}
	fmt.Fprintln(w, "")

	if rep.Capacity == capacity.NoCapacity {
		fmt.Fprintln(w, "Capacity: not reached (no acceptable round)")
	} else {
		fmt.Fprintf(w, "Capacity: %d rps\n", rep.Capacity)
	}
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, rep capacity.Report) error {
	rounds := make([]jsonRound, 0, len(rep.Rounds))
	for _, round := range rep.Rounds {
		rounds = append(rounds, jsonRound{
			RPS:         round.RPS,
			Requests:    round.Result.Requests,
			FailureRate: round.Result.FailureRate,
			Median:      FormatDuration(round.Result.Median),
			AchievedRPS: round.Result.AchievedRPS,
			Class:       round.Class.String(),
		})
	}

	out := jsonReport{
		RunID:      rep.RunID,
		Workload:   string(rep.Workload),
		StartedAt:  rep.StartedAt.Format(time.RFC3339),
		FinishedAt: rep.FinishedAt.Format(time.RFC3339),
		Rounds:     rounds,
	}
	if rep.Capacity != capacity.NoCapacity {
		out.Capacity = &rep.Capacity
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

type jsonRound struct {
	RPS         int     `json:"rps"`
	Requests    uint64  `json:"requests"`
	FailureRate float64 `json:"failureRate"`
	Median      string  `json:"median"`
	AchievedRPS float64 `json:"achievedRps"`
	Class       string  `json:"class"`
}

type jsonReport struct {
	RunID      string      `json:"runId"`
	Workload   string      `json:"workload"`
	StartedAt  string      `json:"startedAt"`
	FinishedAt string      `json:"finishedAt"`
	Rounds     []jsonRound `json:"rounds"`
	// Capacity is null when no round was acceptable.
	Capacity *int `json:"capacity"`
}

// FormatDuration formats a duration for display.
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}

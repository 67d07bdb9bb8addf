package collector

import (
	"testing"
	"time"

	"capsearch/internal/core"
)

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, 10*time.Second)

	if s.Requests != 0 {
		t.Errorf("expected 0 requests, got %d", s.Requests)
	}
	if s.FailureRate != 0 {
		t.Errorf("expected failure rate 0, got %f", s.FailureRate)
	}
	if s.Median != 0 {
		t.Errorf("expected zero median, got %v", s.Median)
	}
}

func TestSummarize_FailureRate(t *testing.T) {
	events := make([]core.Event, 0, 10)
	for i := 0; i < 7; i++ {
		events = append(events, core.Event{Success: true, Duration: time.Millisecond})
	}
	for i := 0; i < 3; i++ {
		events = append(events, core.Event{Success: false, Duration: time.Millisecond})
	}

	s := Summarize(events, time.Second)

	if s.Requests != 10 {
		t.Errorf("expected 10 requests, got %d", s.Requests)
	}
	if s.Failures != 3 {
		t.Errorf("expected 3 failures, got %d", s.Failures)
	}
	if s.FailureRate != 0.3 {
		t.Errorf("expected failure rate 0.3, got %f", s.FailureRate)
	}
}

func TestSummarize_Median(t *testing.T) {
	events := []core.Event{
		{Success: true, Duration: 10 * time.Millisecond},
		{Success: true, Duration: 20 * time.Millisecond},
		{Success: true, Duration: 30 * time.Millisecond},
	}

	s := Summarize(events, time.Second)

	if s.Median != 20*time.Millisecond {
		t.Errorf("expected median 20ms, got %v", s.Median)
	}
}

func TestSummarize_MedianEvenCount(t *testing.T) {
	events := []core.Event{
		{Success: true, Duration: 10 * time.Millisecond},
		{Success: true, Duration: 20 * time.Millisecond},
		{Success: true, Duration: 30 * time.Millisecond},
		{Success: true, Duration: 40 * time.Millisecond},
	}

	s := Summarize(events, time.Second)

	if s.Median != 25*time.Millisecond {
		t.Errorf("expected median 25ms, got %v", s.Median)
	}
}

func TestSummarize_AchievedRPS(t *testing.T) {
	events := make([]core.Event, 100)
	for i := range events {
		events[i] = core.Event{Success: true, Duration: time.Millisecond}
	}

	s := Summarize(events, 10*time.Second)

	if s.AchievedRPS != 10.0 {
		t.Errorf("expected 10 rps, got %f", s.AchievedRPS)
	}
}

func TestSummarize_Percentiles(t *testing.T) {
	events := make([]core.Event, 100)
	for i := range events {
		events[i] = core.Event{Success: true, Duration: time.Duration(i+1) * time.Millisecond}
	}

	s := Summarize(events, time.Second)

	if s.P90 < s.Median {
		t.Errorf("p90 (%v) should not be below median (%v)", s.P90, s.Median)
	}
	if s.P99 < s.P90 {
		t.Errorf("p99 (%v) should not be below p90 (%v)", s.P99, s.P90)
	}
}

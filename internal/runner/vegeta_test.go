package runner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capsearch/internal/capacity"
	"capsearch/internal/config"
)

func TestTargetRunner_HealthyRound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	r := NewTargetRunner(config.TargetConfig{Method: "GET", URL: server.URL}, 5*time.Second, quietLogger())

	result, err := r.Execute(context.Background(), 50, 200*time.Millisecond, capacity.WorkloadQuery)
	require.NoError(t, err)

	assert.Zero(t, result.FailureRate)
	assert.NotZero(t, result.Requests)
	assert.Greater(t, result.Median, time.Duration(0))
}

func TestTargetRunner_ServerErrorsAreMeasured(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	r := NewTargetRunner(config.TargetConfig{Method: "GET", URL: server.URL}, 5*time.Second, quietLogger())

	result, err := r.Execute(context.Background(), 50, 200*time.Millisecond, capacity.WorkloadQuery)
	require.NoError(t, err, "5xx responses are measured degradation, not runner faults")
	assert.Equal(t, 1.0, result.FailureRate)
}

func TestTargetRunner_SendsConfiguredHeadersAndBody(t *testing.T) {
	var gotHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Experiment")
	}))
	defer server.Close()

	r := NewTargetRunner(config.TargetConfig{
		Method:  "POST",
		URL:     server.URL,
		Headers: map[string]string{"X-Experiment": "capsearch"},
		Body:    `{"q": "test"}`,
	}, 5*time.Second, quietLogger())

	_, err := r.Execute(context.Background(), 20, 100*time.Millisecond, capacity.WorkloadQuery)
	require.NoError(t, err)
	assert.Equal(t, "capsearch", gotHeader)
}

func TestTargetRunner_CancelledContextIsFault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	r := NewTargetRunner(config.TargetConfig{Method: "GET", URL: server.URL}, 5*time.Second, quietLogger())
	_, err := r.Execute(ctx, 50, 5*time.Second, capacity.WorkloadQuery)
	require.Error(t, err)
}

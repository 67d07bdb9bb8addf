package testserver

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := New()
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestDelay(t *testing.T) {
	_, ts := newTestServer(t)

	start := time.Now()
	resp, err := http.Get(ts.URL + "/delay/50")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("expected at least 50ms, took %v", elapsed)
	}
}

func TestDelay_Invalid(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/delay/nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestFailRate_AlwaysAndNever(t *testing.T) {
	_, ts := newTestServer(t)

	resp, _ := http.Get(ts.URL + "/fail-rate/100")
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("fail-rate/100 should always fail, got %d", resp.StatusCode)
	}

	resp, _ = http.Get(ts.URL + "/fail-rate/0")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("fail-rate/0 should never fail, got %d", resp.StatusCode)
	}
}

func TestLoad_RespondsUnderLightLoad(t *testing.T) {
	s, ts := newTestServer(t)
	s.BaseLatency = time.Millisecond

	resp, err := http.Get(ts.URL + "/load")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "served under") {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestItems_CreateAndUpdate(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/items", "application/json", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decoding create response: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated || created.ID == "" {
		t.Fatalf("unexpected create response: %d %+v", resp.StatusCode, created)
	}

	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/items/"+created.ID, nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 on update, got %d", resp.StatusCode)
	}
}

func TestItems_UpdateMissing(t *testing.T) {
	_, ts := newTestServer(t)

	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/items/ghost", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

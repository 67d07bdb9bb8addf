// Package testserver provides a target service for local capacity
// experiments. Its endpoints let a search exercise every classification
// path without a real backend: fixed delays, probabilistic failures,
// and a saturating endpoint whose latency grows with concurrent load.
package testserver

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Server is a configurable HTTP target.
type Server struct {
	mux      *http.ServeMux
	inflight atomic.Int64
	nextID   atomic.Int64

	mu    sync.RWMutex
	items map[string]string

	// SaturationPoint is the number of concurrent /load requests at
	// which latency starts to climb steeply.
	SaturationPoint int
	// BaseLatency is the /load response time under light load.
	BaseLatency time.Duration
}

// New creates a test server with all endpoints registered.
func New() *Server {
	s := &Server{
		mux:             http.NewServeMux(),
		items:           make(map[string]string),
		SaturationPoint: 64,
		BaseLatency:     5 * time.Millisecond,
	}
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/delay/", s.handleDelay)
	s.mux.HandleFunc("/fail-rate/", s.handleFailRate)
	s.mux.HandleFunc("/load", s.handleLoad)
	s.mux.HandleFunc("/items", s.handleItems)
	s.mux.HandleFunc("/items/", s.handleItem)
	return s
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"status":"ok"}`)
}

// handleDelay waits the given number of milliseconds before responding.
// Example: GET /delay/100
func (s *Server) handleDelay(w http.ResponseWriter, r *http.Request) {
	ms, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/delay/"))
	if err != nil || ms < 0 {
		http.Error(w, "invalid delay", http.StatusBadRequest)
		return
	}
	time.Sleep(time.Duration(ms) * time.Millisecond)
	fmt.Fprintf(w, "waited %dms", ms)
}

// handleFailRate fails with the given percentage probability.
// Example: GET /fail-rate/30 returns 503 roughly 30% of the time.
func (s *Server) handleFailRate(w http.ResponseWriter, r *http.Request) {
	pct, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/fail-rate/"))
	if err != nil || pct < 0 || pct > 100 {
		http.Error(w, "invalid failure percentage", http.StatusBadRequest)
		return
	}
	if rand.Intn(100) < pct {
		http.Error(w, "injected failure", http.StatusServiceUnavailable)
		return
	}
	fmt.Fprint(w, "ok")
}

// handleLoad responds with latency that grows with the number of
// concurrent requests, so driving it harder makes it measurably slower.
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	current := s.inflight.Add(1)
	defer s.inflight.Add(-1)

	delay := s.BaseLatency
	if over := int(current) - s.SaturationPoint; over > 0 {
		delay += time.Duration(over) * time.Millisecond
	}
	time.Sleep(delay)
	fmt.Fprintf(w, "served under %d concurrent", current)
}

// handleItems creates an item and returns its id, giving update
// workflows something to extract and mutate.
func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := fmt.Sprintf("item-%d", s.nextID.Add(1))

	s.mu.Lock()
	s.items[id] = time.Now().Format(time.RFC3339Nano)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": id})
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/items/")

	s.mu.RLock()
	created, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.mu.Lock()
		s.items[id] = time.Now().Format(time.RFC3339Nano)
		s.mu.Unlock()
		fmt.Fprint(w, "updated")
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"id": id, "updated": created})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

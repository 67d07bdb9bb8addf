package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "experiment.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_TargetRunner(t *testing.T) {
	path := writeConfig(t, `
runner: target
target:
  url: http://localhost:8080/search
  headers:
    Accept: application/json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Target.Method != "GET" {
		t.Errorf("expected default method GET, got %q", cfg.Target.Method)
	}
	if cfg.Timeout.Std() != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %v", cfg.Timeout.Std())
	}
}

func TestLoad_WorkflowRunner(t *testing.T) {
	path := writeConfig(t, `
runner: workflow
actors: 32
timeout: 10s
query:
  name: search
  steps:
    - name: search
      method: GET
      url: http://localhost:8080/search?q=${random(1,100)}
update:
  name: write
  steps:
    - name: create
      method: POST
      url: http://localhost:8080/items
      body: '{"name": "${uuid()}"}'
      extract:
        itemId: $.id
    - name: touch
      method: PUT
      url: http://localhost:8080/items/${itemId}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Actors != 32 {
		t.Errorf("expected 32 actors, got %d", cfg.Actors)
	}
	if len(cfg.Update.Steps) != 2 {
		t.Fatalf("expected 2 update steps, got %d", len(cfg.Update.Steps))
	}
	if cfg.Update.Steps[0].Extract["itemId"] != "$.id" {
		t.Errorf("extract rule not parsed: %v", cfg.Update.Steps[0].Extract)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/does/not/exist.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate_Errors(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"target without section", Config{Runner: RunnerTarget}},
		{"target without url", Config{Runner: RunnerTarget, Target: &TargetConfig{}}},
		{"workflow without workflows", Config{Runner: RunnerWorkflow}},
		{"workflow without steps", Config{Runner: RunnerWorkflow, Query: &WorkflowConfig{Name: "q"}}},
		{"step without url", Config{Runner: RunnerWorkflow, Query: &WorkflowConfig{Name: "q", Steps: []StepConfig{{Name: "s"}}}}},
		{"unknown runner", Config{Runner: "carrier-pigeon"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

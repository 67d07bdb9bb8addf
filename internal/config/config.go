// Package config handles the YAML experiment file describing the target
// service and its workloads.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Runner kinds selectable in the experiment file.
const (
	RunnerTarget   = "target"
	RunnerWorkflow = "workflow"
)

// Config is the root experiment configuration.
type Config struct {
	// Runner selects how load is driven: "target" attacks a single
	// endpoint, "workflow" runs multi-step journeys through an actor
	// pool. Defaults to "target".
	Runner  string   `yaml:"runner"`
	Actors  int      `yaml:"actors"`
	Timeout Duration `yaml:"timeout"`

	Target *TargetConfig   `yaml:"target,omitempty"`
	Query  *WorkflowConfig `yaml:"query,omitempty"`
	Update *WorkflowConfig `yaml:"update,omitempty"`
}

// TargetConfig is the single endpoint the target runner attacks.
type TargetConfig struct {
	Method  string            `yaml:"method"`
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Body    string            `yaml:"body,omitempty"`
}

// WorkflowConfig is a named sequence of request steps.
type WorkflowConfig struct {
	Name  string       `yaml:"name"`
	Steps []StepConfig `yaml:"steps"`
}

// StepConfig is one request in a workflow.
type StepConfig struct {
	Name    string            `yaml:"name"`
	Method  string            `yaml:"method"`
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Body    string            `yaml:"body,omitempty"`
	Extract map[string]string `yaml:"extract,omitempty"`
}

// Load reads and validates an experiment file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading experiment file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parsing experiment file")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate applies defaults and checks the configuration is runnable.
func (c *Config) Validate() error {
	if c.Runner == "" {
		c.Runner = RunnerTarget
	}
	if c.Timeout == 0 {
		c.Timeout = Duration(30 * time.Second)
	}

	switch c.Runner {
	case RunnerTarget:
		if c.Target == nil {
			return errors.New("target runner requires a target section")
		}
		if c.Target.URL == "" {
			return errors.New("target.url is required")
		}
		if c.Target.Method == "" {
			c.Target.Method = "GET"
		}
	case RunnerWorkflow:
		if c.Query == nil && c.Update == nil {
			return errors.New("workflow runner requires a query or update workflow")
		}
		for _, wf := range []*WorkflowConfig{c.Query, c.Update} {
			if wf == nil {
				continue
			}
			if len(wf.Steps) == 0 {
				return errors.Errorf("workflow %q has no steps", wf.Name)
			}
			for i, step := range wf.Steps {
				if step.URL == "" {
					return errors.Errorf("workflow %q step %d has no url", wf.Name, i)
				}
			}
		}
	default:
		return errors.Errorf("unknown runner %q", c.Runner)
	}
	return nil
}

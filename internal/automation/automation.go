// Package automation runs scripted sequences of scenarios from a YAML file.
package automation

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/astrodyn/internal/config"
	"github.com/san-kum/astrodyn/internal/dynamo"
	"github.com/san-kum/astrodyn/internal/experiment"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one scenario in the sequence. Its fields are layered over the
// named preset, or over the defaults when no preset is given.
type Step struct {
	Name   string
	Preset string
	Config *config.Config
}

func (s *Step) UnmarshalYAML(n *yaml.Node) error {
	var head struct {
		Name   string `yaml:"name"`
		Preset string `yaml:"preset"`
		Model  string `yaml:"model"`
	}
	if err := n.Decode(&head); err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if head.Preset != "" {
		cfg = config.GetPreset(head.Model, head.Preset)
		if cfg == nil {
			return fmt.Errorf("line %d: unknown preset %s for model %q", n.Line, head.Preset, head.Model)
		}
	}
	if err := n.Decode(cfg); err != nil {
		return err
	}

	s.Name, s.Preset, s.Config = head.Name, head.Preset, cfg
	if s.Name == "" {
		s.Name = cfg.Model
	}
	return nil
}

// StepResult pairs a step with its outcome.
type StepResult struct {
	Step   Step
	Result *dynamo.Result
}

// LoadScenario loads a scenario from a YAML file and validates every step.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	for i, step := range scenario.Steps {
		if err := step.Config.Validate(); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.Name, err)
		}
	}

	return &scenario, nil
}

// RunScenario executes all steps in order and stops at the first failure,
// returning the results completed so far.
func RunScenario(ctx context.Context, scenario *Scenario, logger log.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		level.Info(logger).Log("msg", "running step", "step", i+1, "of", len(scenario.Steps), "name", step.Name, "model", step.Config.Model)

		exp := experiment.New(step.Config, experiment.WithLogger(logger))
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Step: step, Result: result})
	}

	return results, nil
}

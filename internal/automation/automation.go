package automation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/gravsnap/internal/config"
	"github.com/san-kum/gravsnap/internal/dynamo"
	"github.com/san-kum/gravsnap/internal/experiment"
	"github.com/san-kum/gravsnap/internal/sim"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Scenario defines a batch of renders.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Parallel    int            `yaml:"parallel"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one render. Config holds overrides decoded on top of the
// preset (or the defaults when no preset is named).
type ScenarioStep struct {
	Name   string    `yaml:"name"`
	Preset string    `yaml:"preset"`
	Config yaml.Node `yaml:"config"`
}

// StepResult holds the outcome of one scenario step.
type StepResult struct {
	Name    string
	Dir     string
	Summary *sim.Summary
	Metrics map[string]float64
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// Resolve builds the configuration of step i.
func (s *Scenario) Resolve(i int) (*config.Config, error) {
	step := s.Steps[i]
	cfg := config.DefaultConfig()
	if step.Preset != "" {
		if cfg = config.GetPreset(step.Preset); cfg == nil {
			return nil, &dynamo.FieldError{Field: "preset", Reason: fmt.Sprintf("unknown preset %q", step.Preset)}
		}
	}
	if !step.Config.IsZero() {
		if err := step.Config.Decode(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// StepName returns the directory name of step i.
func (s *Scenario) StepName(i int) string {
	if name := s.Steps[i].Name; name != "" {
		return name
	}
	return fmt.Sprintf("step_%02d", i+1)
}

// RunScenario renders every step into its own directory under baseDir.
// Steps run concurrently up to the scenario's parallel limit; the first
// failure cancels the rest.
func RunScenario(ctx context.Context, scenario *Scenario, baseDir string) ([]StepResult, error) {
	cfgs := make([]*config.Config, len(scenario.Steps))
	for i := range scenario.Steps {
		cfg, err := scenario.Resolve(i)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		cfgs[i] = cfg
	}

	results := make([]StepResult, len(cfgs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(scenario.Parallel, 1))

	for i, cfg := range cfgs {
		name := scenario.StepName(i)
		g.Go(func() error {
			fmt.Printf("Running step %d/%d: %s\n", i+1, len(cfgs), name)
			res, err := runInto(gctx, cfg, filepath.Join(baseDir, name))
			if err != nil {
				return fmt.Errorf("step %d (%s): %w", i+1, name, err)
			}
			res.Name = name
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// runInto renders cfg into dir, creating it. Batch runs never open a
// display and always save.
func runInto(ctx context.Context, cfg *config.Config, dir string) (*StepResult, error) {
	if cfg.Frames == 0 {
		return nil, &dynamo.FieldError{Field: "frames", Reason: "batch runs need a finite frame count"}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()
	cfg.Output.Dir = dir
	cfg.Output.TimestampDir = false
	cfg.Output.Save = true

	exp, err := experiment.New(cfg)
	if err != nil {
		return nil, err
	}
	res, err := exp.Run(ctx)
	if err != nil {
		return nil, err
	}
	return &StepResult{
		Dir:     res.Dir,
		Summary: res.Summary,
		Metrics: exp.Recorder().Last(),
	}, nil
}

// SweepParams lists the parameters a sweep can vary.
var SweepParams = []string{"gravity", "dt", "softening", "shape_size"}

// ParameterSweep renders the same configuration across a range of one
// parameter.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Parallel  int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	Dir        string
	Summary    *sim.Summary
	Metrics    map[string]float64
}

func setParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case "gravity":
		cfg.Gravity = v
	case "dt":
		cfg.Dt = v
	case "softening":
		cfg.Softening = v
	case "shape_size":
		cfg.ShapeSize = v
	default:
		return &dynamo.FieldError{
			Field:  "param",
			Reason: fmt.Sprintf("unknown sweep parameter %q (want one of %s)", name, strings.Join(SweepParams, ", ")),
		}
	}
	return nil
}

// Values returns the parameter values the sweep visits.
func (s *ParameterSweep) Values() []float64 {
	n := s.NumSteps
	if n <= 1 {
		return []float64{s.ParamMin}
	}
	step := (s.ParamMax - s.ParamMin) / float64(n-1)
	out := make([]float64, n)
	for i := range out {
		out[i] = s.ParamMin + float64(i)*step
	}
	return out
}

// RunSweep executes a parameter sweep, one directory per value.
func RunSweep(ctx context.Context, sweep *ParameterSweep, baseDir string) ([]SweepResult, error) {
	values := sweep.Values()
	cfgs := make([]*config.Config, len(values))
	for i, v := range values {
		cfg := sweep.Base.Clone()
		if err := setParam(cfg, sweep.ParamName, v); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, v, err)
		}
		cfgs[i] = cfg
	}

	results := make([]SweepResult, len(cfgs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(sweep.Parallel, 1))

	for i, cfg := range cfgs {
		v := values[i]
		g.Go(func() error {
			dir := filepath.Join(baseDir, fmt.Sprintf("%s_%02d", sweep.ParamName, i))
			res, err := runInto(gctx, cfg, dir)
			if err != nil {
				return fmt.Errorf("%s=%g: %w", sweep.ParamName, v, err)
			}
			results[i] = SweepResult{
				ParamValue: v,
				Dir:        res.Dir,
				Summary:    res.Summary,
				Metrics:    res.Metrics,
			}
			fmt.Printf("Sweep %d/%d: %s=%.4f\n", i+1, len(cfgs), sweep.ParamName, v)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

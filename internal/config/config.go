package config

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/san-kum/gravsnap/internal/colorize"
	"github.com/san-kum/gravsnap/internal/dynamo"
	"github.com/san-kum/gravsnap/internal/integrators"
	"github.com/san-kum/gravsnap/internal/physics"
	"github.com/san-kum/gravsnap/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth      = 500
	DefaultHeight     = 500
	DefaultDt         = 0.1
	DefaultGravity    = 30.0
	DefaultSoftening  = 0.1
	DefaultIterations = 0
	DefaultStep       = 1
	DefaultFrames     = 1
	DefaultShapeSize  = 200
	DefaultName       = "gravity-snapshot.png"
	DefaultGIFDelay   = 4
)

type Config struct {
	Width       int          `yaml:"width"`
	Height      int          `yaml:"height"`
	Dt          float64      `yaml:"dt"`
	Gravity     float64      `yaml:"gravity"`
	Softening   float64      `yaml:"softening"`
	Iterations  int          `yaml:"iterations"`
	Step        int          `yaml:"step"`
	Frames      int          `yaml:"frames"`
	Layout      string       `yaml:"layout"`
	ShapeSize   float64      `yaml:"shape_size"`
	RandomCount int          `yaml:"random_count"`
	Seed        int64        `yaml:"seed"`
	Policy      string       `yaml:"policy"`
	ForceLaw    string       `yaml:"force_law"`
	ColorMode   string       `yaml:"color_mode"`
	FullRange   bool         `yaml:"full_range"`
	Workers     int          `yaml:"workers"`
	Output      OutputConfig `yaml:"output"`
}

type OutputConfig struct {
	Dir          string `yaml:"dir"`
	Name         string `yaml:"name"`
	TimestampDir bool   `yaml:"timestamp_dir"`
	Save         bool   `yaml:"save"`
	GIF          bool   `yaml:"gif"`
	GIFDelay     int    `yaml:"gif_delay"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Dt:          DefaultDt,
		Gravity:     DefaultGravity,
		Softening:   DefaultSoftening,
		Iterations:  DefaultIterations,
		Step:        DefaultStep,
		Frames:      DefaultFrames,
		Layout:      physics.Triangle.String(),
		ShapeSize:   DefaultShapeSize,
		RandomCount: physics.DefaultRandomCount,
		Policy:      sim.Continue.String(),
		ForceLaw:    integrators.InverseSquare.String(),
		ColorMode:   colorize.Weighted.String(),
		Output: OutputConfig{
			Dir:      "./",
			Name:     DefaultName,
			Save:     true,
			GIFDelay: DefaultGIFDelay,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate checks every field before any rendering starts.
func (c *Config) Validate() error {
	nonNegative := []struct {
		field string
		v     int
	}{
		{"width", c.Width},
		{"height", c.Height},
		{"iterations", c.Iterations},
		{"step", c.Step},
		{"frames", c.Frames},
		{"random_count", c.RandomCount},
	}
	for _, n := range nonNegative {
		if n.v < 0 {
			return &dynamo.FieldError{Field: n.field, Reason: fmt.Sprintf("must be >= 0, got %d", n.v)}
		}
	}
	if c.Dt <= 0 {
		return &dynamo.FieldError{Field: "dt", Reason: fmt.Sprintf("must be positive, got %g", c.Dt)}
	}
	if c.ShapeSize < 0 {
		return &dynamo.FieldError{Field: "shape_size", Reason: fmt.Sprintf("must be >= 0, got %g", c.ShapeSize)}
	}
	if c.Softening < 0 {
		return &dynamo.FieldError{Field: "softening", Reason: fmt.Sprintf("must be >= 0, got %g", c.Softening)}
	}

	law, err := integrators.ParseForceLaw(c.ForceLaw)
	if err != nil {
		return err
	}
	if law == integrators.InverseSquare && c.Softening == 0 {
		return &dynamo.FieldError{Field: "softening", Reason: "must be positive for the inverse-square law"}
	}
	if _, err := physics.ParseLayout(c.Layout); err != nil {
		return err
	}
	if _, err := sim.ParsePolicy(c.Policy); err != nil {
		return err
	}
	if _, err := colorize.ParseMode(c.ColorMode); err != nil {
		return err
	}
	if c.Output.Save && c.Output.Name == "" {
		return &dynamo.FieldError{Field: "output.name", Reason: "must not be empty when saving"}
	}
	if c.Output.GIFDelay < 0 {
		return &dynamo.FieldError{Field: "output.gif_delay", Reason: fmt.Sprintf("must be >= 0, got %d", c.Output.GIFDelay)}
	}
	return nil
}

// Attractors builds the attractor set. A zero seed draws random layouts
// from the clock.
func (c *Config) Attractors() *physics.AttractorSet {
	layout, _ := physics.ParseLayout(c.Layout)
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return physics.Build(layout, c.Width, c.Height, float32(c.ShapeSize), c.RandomCount, rand.New(rand.NewSource(seed)))
}

func (c *Config) Params() integrators.Params {
	law, _ := integrators.ParseForceLaw(c.ForceLaw)
	return integrators.Params{
		Dt:        float32(c.Dt),
		Gravity:   float32(c.Gravity),
		Softening: float32(c.Softening),
		Law:       law,
	}
}

func (c *Config) Schedule() sim.Config {
	policy, _ := sim.ParsePolicy(c.Policy)
	return sim.Config{
		Iterations: c.Iterations,
		Step:       c.Step,
		Frames:     c.Frames,
		Policy:     policy,
	}
}

func (c *Config) Colorizer() *colorize.Colorizer {
	mode, _ := colorize.ParseMode(c.ColorMode)
	return &colorize.Colorizer{Mode: mode, FullRange: c.FullRange}
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/gravsnap/internal/colorize"
	"github.com/san-kum/gravsnap/internal/dynamo"
	"github.com/san-kum/gravsnap/internal/integrators"
	"github.com/san-kum/gravsnap/internal/sim"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Width != 500 || cfg.Height != 500 {
		t.Errorf("expected 500x500, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Layout != "triangle" {
		t.Errorf("expected triangle layout, got %s", cfg.Layout)
	}
	if !cfg.Output.Save {
		t.Error("saving should be on by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   error
	}{
		{"negative width", func(c *Config) { c.Width = -1 }, dynamo.ErrInvalidConfig},
		{"negative frames", func(c *Config) { c.Frames = -1 }, dynamo.ErrInvalidConfig},
		{"negative step", func(c *Config) { c.Step = -3 }, dynamo.ErrInvalidConfig},
		{"zero dt", func(c *Config) { c.Dt = 0 }, dynamo.ErrInvalidConfig},
		{"negative shape", func(c *Config) { c.ShapeSize = -4 }, dynamo.ErrInvalidConfig},
		{"unsoftened inverse square", func(c *Config) { c.Softening = 0 }, dynamo.ErrInvalidConfig},
		{"empty name", func(c *Config) { c.Output.Name = "" }, dynamo.ErrInvalidConfig},
		{"bad layout", func(c *Config) { c.Layout = "circle" }, dynamo.ErrUnknownLayout},
		{"bad policy", func(c *Config) { c.Policy = "rewind" }, dynamo.ErrUnknownPolicy},
		{"bad law", func(c *Config) { c.ForceLaw = "cubic" }, dynamo.ErrUnknownForceLaw},
		{"bad mode", func(c *Config) { c.ColorMode = "rainbow" }, dynamo.ErrUnknownColorMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateAllowsDegenerateGrid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height, cfg.ShapeSize = 0, 0, 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("zero grid should validate: %v", err)
	}

	cfg.Output.Save, cfg.Output.Name = false, ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("empty name without saving should validate: %v", err)
	}
}

func TestBasinLawAllowsZeroSoftening(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ForceLaw, cfg.Softening = "basin", 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("basin law without softening should validate: %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Width, cfg.Policy, cfg.Frames = 320, "growing", 12
	cfg.Output.GIF = true
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("width: 64\nlayout: line\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Width != 64 || cfg.Layout != "line" {
		t.Errorf("expected overrides applied, got %+v", cfg)
	}
	if cfg.Height != DefaultHeight || cfg.Gravity != DefaultGravity {
		t.Errorf("expected defaults kept, got height %d gravity %f", cfg.Height, cfg.Gravity)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDerivedValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ForceLaw, cfg.Policy, cfg.Layout = "basin", "restart", "line"
	cfg.Iterations, cfg.Step, cfg.Frames = 7, 3, 9

	if p := cfg.Params(); p.Law != integrators.Basin || p.Dt != float32(DefaultDt) {
		t.Errorf("unexpected params %+v", p)
	}
	want := sim.Config{Iterations: 7, Step: 3, Frames: 9, Policy: sim.Restart}
	if got := cfg.Schedule(); got != want {
		t.Errorf("expected schedule %+v, got %+v", want, got)
	}
	if set := cfg.Attractors(); set.Len() != 3 || set.Masses[0].Pos.Y != 250 {
		t.Errorf("unexpected line layout %+v", set.Masses)
	}

	cfg.ColorMode, cfg.FullRange = "weighted-total", true
	if c := cfg.Colorizer(); c.Mode != colorize.WeightedTotal || !c.FullRange {
		t.Errorf("unexpected colorizer %+v", c)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("basin")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.ForceLaw != "basin" {
		t.Errorf("expected basin law, got %s", cfg.ForceLaw)
	}

	cfg.Width = 1
	if Presets["basin"].Width == 1 {
		t.Error("GetPreset should return a copy")
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValidate(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d names, got %d", len(Presets), len(names))
	}
	for _, name := range names {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

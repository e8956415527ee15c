package config

import "sort"

func preset(fn func(c *Config)) *Config {
	c := DefaultConfig()
	fn(c)
	return c
}

var Presets = map[string]*Config{
	"still": preset(func(c *Config) {
		c.Iterations, c.Frames, c.Policy = 200, 1, "growing"
	}),
	"triangle": preset(func(c *Config) {
		c.Iterations, c.Step, c.Frames, c.Policy = 50, 10, 60, "growing"
	}),
	"line": preset(func(c *Config) {
		c.Layout, c.ShapeSize = "line", 240
		c.Iterations, c.Step, c.Frames, c.Policy = 50, 5, 40, "continue"
	}),
	"random": preset(func(c *Config) {
		c.Layout, c.RandomCount = "nrandom", 5
		c.Iterations, c.Step, c.Frames, c.Policy = 30, 5, 30, "continue"
	}),
	"basin": preset(func(c *Config) {
		c.ForceLaw, c.ColorMode = "basin", "weighted"
		c.Iterations, c.Step, c.Frames, c.Policy = 20, 4, 50, "growing"
	}),
	"zoom": preset(func(c *Config) {
		c.Iterations, c.Step, c.Frames, c.Policy = 0, 1, 0, "continue"
		c.Output.Save = false
	}),
	"flash": preset(func(c *Config) {
		c.ColorMode = "nearest"
		c.Iterations, c.Step, c.Frames, c.Policy = 40, 8, 20, "restart"
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package experiment

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/san-kum/gravsnap/internal/config"
	"github.com/san-kum/gravsnap/internal/integrators"
	"github.com/san-kum/gravsnap/internal/metrics"
	"github.com/san-kum/gravsnap/internal/physics"
	"github.com/san-kum/gravsnap/internal/render"
	"github.com/san-kum/gravsnap/internal/sim"
	"github.com/san-kum/gravsnap/internal/storage"
)

// HistoryLimit bounds the metric rows kept for unbounded runs.
const HistoryLimit = 10000

// Result describes a finished run.
type Result struct {
	Summary *sim.Summary
	Dir     string
	Meta    *storage.RunMetadata
	Frames  []string
	GIF     string
}

// Experiment wires one configuration into a sequencer and its outputs.
type Experiment struct {
	cfg      *config.Config
	set      *physics.AttractorSet
	stepper  *integrators.Stepper
	seq      *sim.Sequencer
	recorder *metrics.Recorder
	now      func() time.Time
}

// New validates cfg and builds the pipeline. A zero seed is replaced by a
// clock seed so the run metadata can reproduce random layouts.
func New(cfg *config.Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := cfg.Clone()
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}

	set := c.Attractors()
	stepper := integrators.NewStepper(set, c.Params())
	r := render.New(c.Width, c.Height, stepper, c.Colorizer(), c.Workers)
	seq := sim.New(r, c.Schedule())

	limit := 0
	if c.Frames == 0 {
		limit = HistoryLimit
	}
	rec := metrics.NewRecorder(limit, metrics.Defaults()...)
	seq.AddObserver(rec)

	return &Experiment{
		cfg:      c,
		set:      set,
		stepper:  stepper,
		seq:      seq,
		recorder: rec,
		now:      time.Now,
	}, nil
}

func (e *Experiment) Config() *config.Config { return e.cfg }
func (e *Experiment) Attractors() *physics.AttractorSet { return e.set }
func (e *Experiment) Stepper() *integrators.Stepper { return e.stepper }
func (e *Experiment) Sequencer() *sim.Sequencer { return e.seq }
func (e *Experiment) Recorder() *metrics.Recorder { return e.recorder }

// Writes reports whether the run produces any files.
func (e *Experiment) Writes() bool {
	return e.cfg.Output.Save || e.cfg.Output.GIF
}

// Run renders the schedule into the configured file outputs plus any
// display sinks. Closing a display sink stops the run after the current
// frame; files written so far are kept and the metadata is still saved.
func (e *Experiment) Run(ctx context.Context, displays ...sim.Sink) (*Result, error) {
	out := e.cfg.Output
	res := &Result{}

	var files sim.MultiSink
	var pngs *storage.PNGSink
	var anim *storage.GIFSink
	if e.Writes() {
		if err := storage.CheckDir(out.Dir); err != nil {
			return nil, err
		}
		dir, err := storage.New(out.Dir).RunDir(out.TimestampDir, e.now())
		if err != nil {
			return nil, fmt.Errorf("create run dir: %w", err)
		}
		res.Dir = dir

		if out.Save {
			pngs = storage.NewPNGSink(dir, out.Name, e.cfg.Frames, e.cfg.Workers)
			files = append(files, pngs)
		}
		if out.GIF {
			anim = storage.NewGIFSink(dir, out.GIFDelay)
			files = append(files, anim)
		}
	}

	sink := append(append(sim.MultiSink{}, displays...), files...)
	started := e.now()
	sum, runErr := e.seq.Run(ctx, sink)
	closeErr := files.Close()
	if err := errors.Join(runErr, closeErr); err != nil {
		return nil, err
	}
	res.Summary = sum

	if pngs != nil {
		res.Frames = pngs.Paths()
	}
	if anim != nil && anim.Len() > 0 {
		res.GIF = anim.Path()
	}

	if e.Writes() {
		meta := e.metadata(started, sum)
		meta.ID = filepath.Base(res.Dir)
		// a frame rendered but never emitted before closure is not kept
		rows := e.recorder.Rows()
		for len(rows) > 0 && rows[len(rows)-1].Index >= sum.Frames {
			rows = rows[:len(rows)-1]
		}
		if err := storage.New(out.Dir).Save(res.Dir, meta, e.recorder.Names(), rows); err != nil {
			return nil, fmt.Errorf("save metadata: %w", err)
		}
		meta.Dir = res.Dir
		res.Meta = &meta
	}
	return res, nil
}

func (e *Experiment) metadata(started time.Time, sum *sim.Summary) storage.RunMetadata {
	c := e.cfg
	masses := make([][2]float32, len(e.set.Masses))
	for i, m := range e.set.Masses {
		masses[i] = [2]float32{m.Pos.X, m.Pos.Y}
	}
	return storage.RunMetadata{
		Timestamp:  started,
		Width:      c.Width,
		Height:     c.Height,
		Layout:     c.Layout,
		Masses:     masses,
		Policy:     c.Policy,
		ForceLaw:   c.ForceLaw,
		ColorMode:  c.ColorMode,
		Dt:         c.Dt,
		Gravity:    c.Gravity,
		Softening:  c.Softening,
		Iterations: c.Iterations,
		Step:       c.Step,
		Frames:     c.Frames,
		Rendered:   sum.Frames,
		TotalSteps: sum.TotalSteps,
		Elapsed:    sum.Elapsed.String(),
		Seed:       c.Seed,
		Metrics:    e.recorder.Last(),
	}
}

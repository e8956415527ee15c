package sim

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/san-kum/gravsnap/internal/dynamo"
	"github.com/san-kum/gravsnap/internal/render"
)

// Config selects the frame schedule. Frames == 0 renders until the sink
// closes or the context ends.
type Config struct {
	Iterations int
	Step       int
	Frames     int
	Policy     Policy
}

// FrameObserver is notified after each frame is rendered and before it is
// handed to the sink.
type FrameObserver interface {
	OnFrame(index, steps int, frame *dynamo.Frame)
}

type Summary struct {
	Frames      int
	TotalSteps  int
	Elapsed     time.Duration
	Closed      bool
	Interrupted bool
}

type Sequencer struct {
	renderer  *render.Renderer
	cfg       Config
	observers []FrameObserver
	particles []dynamo.Particle
}

func New(r *render.Renderer, cfg Config) *Sequencer {
	return &Sequencer{
		renderer:  r,
		cfg:       cfg,
		observers: make([]FrameObserver, 0),
	}
}

func (s *Sequencer) AddObserver(o FrameObserver) { s.observers = append(s.observers, o) }

func (s *Sequencer) Config() Config { return s.cfg }

// Particles exposes the particle grid of the current or most recent
// sequence. It must not be touched while a frame is rendering.
func (s *Sequencer) Particles() []dynamo.Particle { return s.particles }

func (s *Sequencer) validateConfig() error {
	if s.cfg.Iterations < 0 {
		return &dynamo.FieldError{Field: "iterations", Reason: fmt.Sprintf("must be >= 0, got %d", s.cfg.Iterations)}
	}
	if s.cfg.Step < 0 {
		return &dynamo.FieldError{Field: "step", Reason: fmt.Sprintf("must be >= 0, got %d", s.cfg.Step)}
	}
	if s.cfg.Frames < 0 {
		return &dynamo.FieldError{Field: "frames", Reason: fmt.Sprintf("must be >= 0, got %d", s.cfg.Frames)}
	}
	return nil
}

// Frames returns the lazy frame sequence. Every range over it starts again
// from frame 0 with fresh particles. The yielded frame is reused for the
// next index. The context is only consulted between frames.
func (s *Sequencer) Frames(ctx context.Context) iter.Seq2[int, *dynamo.Frame] {
	return func(yield func(int, *dynamo.Frame) bool) {
		w, h := s.renderer.Width, s.renderer.Height
		s.particles = render.NewParticles(w, h)
		frame := dynamo.NewFrame(w, h)

		for k := 0; s.cfg.Frames == 0 || k < s.cfg.Frames; k++ {
			select {
			case <-ctx.Done():
				return
			default:
			}

			iters, restart := Budget(s.cfg.Policy, s.cfg.Iterations, s.cfg.Step, k)
			s.renderer.Render(frame, s.particles, iters, restart)

			steps := TotalSteps(s.cfg.Policy, s.cfg.Iterations, s.cfg.Step, k)
			for _, o := range s.observers {
				o.OnFrame(k, steps, frame)
			}

			if !yield(k, frame) {
				return
			}
		}
	}
}

// Run hands every frame to sink until the schedule ends, the sink reports
// closure, or ctx is done. Closure and cancellation end the run cleanly
// after the current frame and are reported in the summary, not as errors.
func (s *Sequencer) Run(ctx context.Context, sink Sink) (*Summary, error) {
	if err := s.validateConfig(); err != nil {
		return nil, err
	}

	sum := &Summary{}
	start := time.Now()
	defer func() { sum.Elapsed = time.Since(start) }()

	if sink.Closed() {
		sum.Closed = true
		return sum, nil
	}

	for k, frame := range s.Frames(ctx) {
		// displays close asynchronously, possibly while k was rendering
		if sink.Closed() {
			sum.Closed = true
			break
		}
		if err := sink.Emit(ctx, k, frame); err != nil {
			if errors.Is(err, dynamo.ErrSinkClosed) {
				sum.Closed = true
				break
			}
			return sum, &dynamo.FrameError{Index: k, Wrapped: err}
		}
		sum.Frames++
		sum.TotalSteps = TotalSteps(s.cfg.Policy, s.cfg.Iterations, s.cfg.Step, k)

		if sink.Closed() {
			sum.Closed = true
			break
		}
	}

	finished := s.cfg.Frames > 0 && sum.Frames >= s.cfg.Frames
	if !sum.Closed && !finished && ctx.Err() != nil {
		sum.Interrupted = true
	}
	return sum, nil
}

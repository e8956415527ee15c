package sim_test

import (
	"context"
	"errors"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsnap/internal/colorize"
	"github.com/san-kum/gravsnap/internal/dynamo"
	"github.com/san-kum/gravsnap/internal/integrators"
	"github.com/san-kum/gravsnap/internal/physics"
	"github.com/san-kum/gravsnap/internal/render"
	"github.com/san-kum/gravsnap/internal/sim"
)

const gridSize = 16

func newRenderer() *render.Renderer {
	set := physics.Build(physics.Triangle, gridSize, gridSize, 8, 0, nil)
	prm := integrators.Params{Dt: 0.1, Gravity: 30, Softening: 0.1}
	return render.New(gridSize, gridSize, integrators.NewStepper(set, prm), colorize.New(colorize.Weighted), 2)
}

type countingObserver struct {
	indices []int
	steps   []int
}

func (o *countingObserver) OnFrame(index, steps int, _ *dynamo.Frame) {
	o.indices = append(o.indices, index)
	o.steps = append(o.steps, steps)
}

// displaySink behaves like a window or terminal view: it can be closed from
// another goroutine at any time and refuses frames afterwards.
type displaySink struct {
	closed   atomic.Bool
	reported bool
	frames   []int
}

func (s *displaySink) Emit(_ context.Context, index int, _ *dynamo.Frame) error {
	if s.closed.Load() {
		return dynamo.ErrSinkClosed
	}
	s.frames = append(s.frames, index)
	return nil
}

func (s *displaySink) Closed() bool { return s.reported && s.closed.Load() }

type closeOnFrame struct {
	sink  *displaySink
	index int
}

func (o closeOnFrame) OnFrame(index, _ int, _ *dynamo.Frame) {
	if index == o.index {
		o.sink.closed.Store(true)
	}
}

type failingSink struct{ err error }

func (s failingSink) Emit(context.Context, int, *dynamo.Frame) error { return s.err }
func (s failingSink) Closed() bool                                    { return false }

var _ = Describe("Sequencer", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("renders a finite schedule and reports it", func() {
		seq := sim.New(newRenderer(), sim.Config{Iterations: 5, Step: 2, Frames: 4, Policy: sim.Growing})
		obs := &countingObserver{}
		seq.AddObserver(obs)

		var seen []int
		sum, err := seq.Run(ctx, sim.NewFuncSink(func(i int, f *dynamo.Frame) bool {
			seen = append(seen, i)
			Expect(f.Width).To(Equal(gridSize))
			return true
		}))
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(Equal([]int{0, 1, 2, 3}))
		Expect(sum.Frames).To(Equal(4))
		Expect(sum.TotalSteps).To(Equal(11))
		Expect(sum.Closed).To(BeFalse())
		Expect(sum.Interrupted).To(BeFalse())
		Expect(obs.steps).To(Equal([]int{5, 7, 9, 11}))
	})

	It("matches growing-total when continuing state to the same step count", func() {
		cont := sim.New(newRenderer(), sim.Config{Iterations: 0, Step: 10, Frames: 2, Policy: sim.Continue})
		_, err := cont.Run(ctx, sim.Discard)
		Expect(err).NotTo(HaveOccurred())

		grow := sim.New(newRenderer(), sim.Config{Iterations: 0, Step: 10, Frames: 2, Policy: sim.Growing})
		var growFrame *dynamo.Frame
		for k, f := range grow.Frames(ctx) {
			if k == 1 {
				growFrame = f.Clone()
			}
		}

		Expect(cont.Particles()).To(Equal(grow.Particles()))
		Expect(growFrame).NotTo(BeNil())
	})

	It("keeps frames identical across policies at equal total steps", func() {
		var contFrames, growFrames []*dynamo.Frame
		for _, f := range sim.New(newRenderer(), sim.Config{Iterations: 3, Step: 4, Frames: 3, Policy: sim.Continue}).Frames(ctx) {
			contFrames = append(contFrames, f.Clone())
		}
		for _, f := range sim.New(newRenderer(), sim.Config{Iterations: 3, Step: 4, Frames: 3, Policy: sim.Growing}).Frames(ctx) {
			growFrames = append(growFrames, f.Clone())
		}
		Expect(contFrames).To(HaveLen(3))
		for k := range contFrames {
			Expect(contFrames[k].Pix).To(Equal(growFrames[k].Pix), "frame %d", k)
		}
	})

	It("restarts each frame with only step iterations under the restart policy", func() {
		r := newRenderer()
		seq := sim.New(r, sim.Config{Iterations: 20, Step: 6, Frames: 3, Policy: sim.Restart})
		var last *dynamo.Frame
		for _, f := range seq.Frames(ctx) {
			last = f.Clone()
		}
		Expect(last.RGBAt(3, 9)).To(Equal(r.RenderPixel(3, 9, 6)))
	})

	It("produces an unbounded sequence until the sink closes", func() {
		seq := sim.New(newRenderer(), sim.Config{Iterations: 1, Step: 1, Frames: 0, Policy: sim.Continue})
		sink := sim.NewFuncSink(func(i int, _ *dynamo.Frame) bool { return i < 4 })

		sum, err := seq.Run(ctx, sink)
		Expect(err).NotTo(HaveOccurred())
		Expect(sum.Frames).To(Equal(5))
		Expect(sum.Closed).To(BeTrue())
		Expect(sink.Emit(ctx, 5, nil)).To(MatchError(dynamo.ErrSinkClosed))
	})

	It("restarts the lazy sequence from frame zero on every range", func() {
		seq := sim.New(newRenderer(), sim.Config{Iterations: 2, Step: 3, Frames: 0, Policy: sim.Continue})
		take := func() [][]byte {
			var out [][]byte
			for k, f := range seq.Frames(ctx) {
				out = append(out, append([]byte(nil), f.Pix...))
				if k == 2 {
					break
				}
			}
			return out
		}
		first, second := take(), take()
		Expect(first).To(HaveLen(3))
		Expect(second).To(Equal(first))
	})

	It("stops at the next frame boundary when the context is canceled", func() {
		cctx, cancel := context.WithCancel(ctx)
		defer cancel()

		seq := sim.New(newRenderer(), sim.Config{Iterations: 1, Step: 1, Frames: 0, Policy: sim.Growing})
		sum, err := seq.Run(cctx, sim.NewFuncSink(func(i int, _ *dynamo.Frame) bool {
			if i == 2 {
				cancel()
			}
			return true
		}))
		Expect(err).NotTo(HaveOccurred())
		Expect(sum.Frames).To(Equal(3))
		Expect(sum.Interrupted).To(BeTrue())
		Expect(sum.Closed).To(BeFalse())
	})

	DescribeTable("ends cleanly when the display closes while a frame renders",
		func(reported bool) {
			sink := &displaySink{reported: reported}
			seq := sim.New(newRenderer(), sim.Config{Iterations: 1, Step: 1, Frames: 0, Policy: sim.Continue})
			seq.AddObserver(closeOnFrame{sink: sink, index: 2})

			sum, err := seq.Run(ctx, sink)
			Expect(err).NotTo(HaveOccurred())
			Expect(sum.Frames).To(Equal(2))
			Expect(sum.TotalSteps).To(Equal(2))
			Expect(sum.Closed).To(BeTrue())
			Expect(sum.Interrupted).To(BeFalse())
			Expect(sink.frames).To(Equal([]int{0, 1}))
		},
		Entry("closure visible through Closed", true),
		Entry("closure only visible through Emit", false),
	)

	It("does not render when the sink is already closed", func() {
		sink := sim.NewFuncSink(func(int, *dynamo.Frame) bool { return false })
		Expect(sink.Emit(ctx, 0, nil)).To(Succeed())

		sum, err := sim.New(newRenderer(), sim.Config{Frames: 3}).Run(ctx, sink)
		Expect(err).NotTo(HaveOccurred())
		Expect(sum.Frames).To(BeZero())
		Expect(sum.Closed).To(BeTrue())
	})

	It("wraps sink errors with the frame index", func() {
		boom := errors.New("disk full")
		_, err := sim.New(newRenderer(), sim.Config{Frames: 2}).Run(ctx, failingSink{err: boom})

		var fe *dynamo.FrameError
		Expect(errors.As(err, &fe)).To(BeTrue())
		Expect(fe.Index).To(Equal(0))
		Expect(err).To(MatchError(boom))
	})

	DescribeTable("rejects negative schedules",
		func(cfg sim.Config) {
			_, err := sim.New(newRenderer(), cfg).Run(ctx, sim.Discard)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		},
		Entry("iterations", sim.Config{Iterations: -1, Frames: 1}),
		Entry("step", sim.Config{Step: -1, Frames: 1}),
		Entry("frames", sim.Config{Frames: -2}),
	)

	It("renders empty frames for a zero grid", func() {
		set := physics.Build(physics.Line, 0, 0, 0, 0, nil)
		r := render.New(0, 0, integrators.NewStepper(set, integrators.DefaultParams()), colorize.New(colorize.Weighted), 1)
		sum, err := sim.New(r, sim.Config{Iterations: 3, Frames: 2}).Run(ctx, sim.Discard)
		Expect(err).NotTo(HaveOccurred())
		Expect(sum.Frames).To(Equal(2))
	})
})

var _ = Describe("MultiSink", func() {
	It("closes when any member closes", func() {
		a := sim.NewFuncSink(func(int, *dynamo.Frame) bool { return true })
		b := sim.NewFuncSink(func(i int, _ *dynamo.Frame) bool { return i < 1 })
		m := sim.MultiSink{a, b}

		Expect(m.Emit(context.Background(), 0, nil)).To(Succeed())
		Expect(m.Closed()).To(BeFalse())
		Expect(m.Emit(context.Background(), 1, nil)).To(Succeed())
		Expect(m.Closed()).To(BeTrue())
		Expect(m.Close()).To(Succeed())
	})
})

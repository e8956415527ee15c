package render

import (
	"bytes"
	"testing"

	"github.com/san-kum/gravsnap/internal/colorize"
	"github.com/san-kum/gravsnap/internal/dynamo"
	"github.com/san-kum/gravsnap/internal/integrators"
	"github.com/san-kum/gravsnap/internal/physics"
)

func newTestRenderer(w, h int, shape float32, workers int) *Renderer {
	set := physics.Build(physics.Triangle, w, h, shape, 0, nil)
	prm := integrators.Params{Dt: 0.1, Gravity: 30, Softening: 0.1}
	return New(w, h, integrators.NewStepper(set, prm), colorize.New(colorize.Weighted), workers)
}

func TestNewParticles(t *testing.T) {
	ps := NewParticles(4, 3)
	if len(ps) != 12 {
		t.Fatalf("expected 12 particles, got %d", len(ps))
	}
	p := ps[2*4+3]
	if p.Pos != (dynamo.Vec2{X: 3, Y: 2}) {
		t.Errorf("expected particle at (3,2), got %v", p.Pos)
	}
	if p.Vel != (dynamo.Vec2{}) || p.Acc != (dynamo.Vec2{}) {
		t.Error("particles should start at rest")
	}

	if NewParticles(0, 5) != nil {
		t.Error("expected nil for an empty grid")
	}
}

func TestFrameIndependence(t *testing.T) {
	const w, h, iters = 24, 18, 30
	r := newTestRenderer(w, h, 10, 3)

	frame := dynamo.NewFrame(w, h)
	r.Render(frame, NewParticles(w, h), iters, true)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if got, want := frame.RGBAt(x, y), r.RenderPixel(x, y, iters); got != want {
				t.Fatalf("pixel (%d,%d): grid %v, isolated %v", x, y, got, want)
			}
		}
	}
}

func TestWorkerCountDoesNotChangeOutput(t *testing.T) {
	const w, h = 40, 30
	serial := dynamo.NewFrame(w, h)
	newTestRenderer(w, h, 16, 1).Render(serial, NewParticles(w, h), 25, true)

	parallel := dynamo.NewFrame(w, h)
	newTestRenderer(w, h, 16, 8).Render(parallel, NewParticles(w, h), 25, true)

	if !bytes.Equal(serial.Pix, parallel.Pix) {
		t.Error("parallel render differs from serial render")
	}
	if !bytes.Equal(serial.Winner, parallel.Winner) {
		t.Error("parallel winners differ from serial winners")
	}
}

func TestRestartDiscardsCarriedState(t *testing.T) {
	const w, h = 12, 12
	r := newTestRenderer(w, h, 6, 2)
	ps := NewParticles(w, h)

	a := dynamo.NewFrame(w, h)
	r.Render(a, ps, 40, false)

	b := dynamo.NewFrame(w, h)
	r.Render(b, ps, 40, true)

	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("restarted render should match a render from fresh particles")
	}
}

func TestApexScenario(t *testing.T) {
	const size = 100
	r := newTestRenderer(size, size, 40, 0)
	frame := dynamo.NewFrame(size, size)
	r.Render(frame, NewParticles(size, size), 50, true)

	apex := r.Stepper.Set.Masses[0].Pos
	x, y := int(apex.X+0.5), int(apex.Y+0.5)
	c := frame.RGBAt(x, y)

	if c[0] != 255 {
		t.Fatalf("apex pixel (%d,%d) should saturate channel 0, got %v", x, y, c)
	}
	if c[1] >= 255 || c[2] >= 255 {
		t.Errorf("other channels should stay below 255, got %v", c)
	}
	if frame.Winner[y*size+x] != 0 {
		t.Errorf("expected winner 0, got %d", frame.Winner[y*size+x])
	}
}

func BenchmarkRender(b *testing.B) {
	const w, h = 128, 128
	r := newTestRenderer(w, h, 50, 0)
	frame := dynamo.NewFrame(w, h)
	ps := NewParticles(w, h)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Render(frame, ps, 10, true)
	}
}

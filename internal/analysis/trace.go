package analysis

import (
	"math"

	"github.com/san-kum/gravsnap/internal/colorize"
	"github.com/san-kum/gravsnap/internal/dynamo"
	"github.com/san-kum/gravsnap/internal/integrators"
	"github.com/san-kum/gravsnap/internal/physics"
)

// Trace is the recorded path of one particle. Points[0] is the start.
type Trace struct {
	Start  dynamo.Vec2
	Points []dynamo.Vec2
	Speeds []float64
	// Nearest holds the index of the closest attractor after every step.
	Nearest []int
	// Channel is the winning colour channel, the closest attractor's index
	// mod 3. With more than three masses it is not an attractor index.
	Channel int
	Color   dynamo.RGB
}

// TraceParticle releases a particle at (x, y) and records steps updates.
// Channel and Color are what the pixel would show in a weighted snapshot
// after the same number of steps.
func TraceParticle(stepper *integrators.Stepper, x, y float32, steps int) *Trace {
	steps = max(steps, 0)
	p := dynamo.NewParticle(x, y)
	t := &Trace{
		Start:   p.Pos,
		Points:  make([]dynamo.Vec2, 0, steps+1),
		Speeds:  make([]float64, 0, steps),
		Nearest: make([]int, 0, steps),
	}
	t.Points = append(t.Points, p.Pos)

	for i := 0; i < steps; i++ {
		stepper.Step(&p)
		t.Points = append(t.Points, p.Pos)
		t.Speeds = append(t.Speeds, math.Hypot(float64(p.Vel.X), float64(p.Vel.Y)))
		idx, _ := stepper.Set.Closest(p.Pos)
		t.Nearest = append(t.Nearest, idx)
	}

	t.Color, t.Channel = colorize.WeightedClosest(&p, stepper.Set)
	return t
}

// Final returns the last recorded position.
func (t *Trace) Final() dynamo.Vec2 {
	return t.Points[len(t.Points)-1]
}

// Distances returns the distance to attractor i for every recorded point.
func (t *Trace) Distances(set *physics.AttractorSet, i int) []float64 {
	if i < 0 || i >= set.Len() {
		return nil
	}
	out := make([]float64, len(t.Points))
	for k, pt := range t.Points {
		out[k] = float64(physics.Distance(pt, set.Masses[i].Pos))
	}
	return out
}

// Switches counts how often the nearest attractor changed along the path.
func (t *Trace) Switches() int {
	n := 0
	for i := 1; i < len(t.Nearest); i++ {
		if t.Nearest[i] != t.Nearest[i-1] {
			n++
		}
	}
	return n
}

// Bounds returns the bounding box of the path.
func (t *Trace) Bounds() (lo, hi dynamo.Vec2) {
	lo, hi = t.Points[0], t.Points[0]
	for _, pt := range t.Points[1:] {
		if !pt.IsValid() {
			continue
		}
		lo.X, lo.Y = min(lo.X, pt.X), min(lo.Y, pt.Y)
		hi.X, hi.Y = max(hi.X, pt.X), max(hi.Y, pt.Y)
	}
	return lo, hi
}

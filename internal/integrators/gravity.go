package integrators

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/gravsnap/internal/dynamo"
	"github.com/san-kum/gravsnap/internal/physics"
)

// ForceLaw selects the magnitude factor applied to each attractor's offset.
type ForceLaw int

const (
	// InverseSquare uses f = G / (d² + soft).
	InverseSquare ForceLaw = iota
	// Basin uses f = G / (d² · sqrt(d² + soft)).
	Basin
)

func (l ForceLaw) String() string {
	switch l {
	case InverseSquare:
		return "inverse-square"
	case Basin:
		return "basin"
	}
	return fmt.Sprintf("forcelaw(%d)", int(l))
}

func ParseForceLaw(s string) (ForceLaw, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inverse-square", "simple", "":
		return InverseSquare, nil
	case "basin", "fractal":
		return Basin, nil
	}
	return 0, fmt.Errorf("%w: %q", dynamo.ErrUnknownForceLaw, s)
}

// Params are the per-run integration constants.
type Params struct {
	Dt        float32
	Gravity   float32
	Softening float32
	Law       ForceLaw
}

func DefaultParams() Params {
	return Params{Dt: 0.1, Gravity: 30, Softening: 0.1, Law: InverseSquare}
}

// Step advances p by one time step. Position and velocity move using the
// acceleration from the previous step; the acceleration is then recomputed
// at the new position.
func Step(p *dynamo.Particle, set *physics.AttractorSet, prm Params) {
	dt := prm.Dt
	p.Pos.X += p.Vel.X * dt
	p.Pos.Y += p.Vel.Y * dt
	p.Vel.X += p.Acc.X * dt
	p.Vel.Y += p.Acc.Y * dt

	var ax, ay float32
	for _, m := range set.Masses {
		dx := m.Pos.X - p.Pos.X
		dy := m.Pos.Y - p.Pos.Y
		d2 := dx*dx + dy*dy

		var f float32
		switch prm.Law {
		case Basin:
			// zero offset contributes nothing; skip before 0*Inf makes a NaN
			if d2 == 0 {
				continue
			}
			f = prm.Gravity / (d2 * float32(math.Sqrt(float64(d2+prm.Softening))))
		default:
			f = prm.Gravity / (d2 + prm.Softening)
		}

		ax += dx * f
		ay += dy * f
	}
	p.Acc.X = ax
	p.Acc.Y = ay
}

// Stepper binds an attractor set to integration parameters.
type Stepper struct {
	Set    *physics.AttractorSet
	Params Params
}

func NewStepper(set *physics.AttractorSet, prm Params) *Stepper {
	return &Stepper{Set: set, Params: prm}
}

func (s *Stepper) Step(p *dynamo.Particle) {
	Step(p, s.Set, s.Params)
}

// Advance applies n steps to p.
func (s *Stepper) Advance(p *dynamo.Particle, n int) {
	for i := 0; i < n; i++ {
		Step(p, s.Set, s.Params)
	}
}

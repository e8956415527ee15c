package integrators

import (
	"errors"
	"testing"

	"github.com/san-kum/gravsnap/internal/dynamo"
	"github.com/san-kum/gravsnap/internal/physics"
)

func TestStepUsesPreviousAcceleration(t *testing.T) {
	set := physics.NewAttractorSet(dynamo.Vec2{X: 10, Y: 0})
	prm := Params{Dt: 0.5, Gravity: 2, Softening: 0, Law: InverseSquare}

	p := dynamo.Particle{
		Pos: dynamo.Vec2{X: 0, Y: 0},
		Vel: dynamo.Vec2{X: 2, Y: 0},
		Acc: dynamo.Vec2{X: 4, Y: 0},
	}
	Step(&p, set, prm)

	// position moves with the old velocity, velocity with the old acceleration
	if p.Pos.X != 1 {
		t.Errorf("expected x=1, got %f", p.Pos.X)
	}
	if p.Vel.X != 4 {
		t.Errorf("expected vx=4, got %f", p.Vel.X)
	}

	// new acceleration evaluated at x=1: dx=9, f=2/81
	want := float32(9) * (float32(2) / float32(81))
	if p.Acc.X != want {
		t.Errorf("expected ax=%f, got %f", want, p.Acc.X)
	}
	if p.Acc.Y != 0 {
		t.Errorf("expected ay=0, got %f", p.Acc.Y)
	}
}

func TestFirstStepFromRestOnlySetsAcceleration(t *testing.T) {
	set := physics.Build(physics.Triangle, 100, 100, 40, 0, nil)
	p := dynamo.NewParticle(3, 7)
	Step(&p, set, DefaultParams())

	if p.Pos != (dynamo.Vec2{X: 3, Y: 7}) {
		t.Errorf("position should not move on the first step, got %v", p.Pos)
	}
	if p.Vel != (dynamo.Vec2{}) {
		t.Errorf("velocity should stay zero on the first step, got %v", p.Vel)
	}
	if p.Acc == (dynamo.Vec2{}) {
		t.Error("acceleration should be set after the first step")
	}
}

func TestStepDeterministic(t *testing.T) {
	set := physics.Build(physics.Triangle, 200, 200, 80, 0, nil)
	for _, law := range []ForceLaw{InverseSquare, Basin} {
		prm := DefaultParams()
		prm.Law = law
		s := NewStepper(set, prm)

		a := dynamo.NewParticle(17, 151)
		b := dynamo.NewParticle(17, 151)
		s.Advance(&a, 500)
		s.Advance(&b, 500)

		if a != b {
			t.Errorf("%v: repeated runs differ: %+v vs %+v", law, a, b)
		}
	}
}

func TestBasinLawOnAttractor(t *testing.T) {
	set := physics.NewAttractorSet(dynamo.Vec2{X: 5, Y: 5}, dynamo.Vec2{X: 20, Y: 5})
	prm := DefaultParams()
	prm.Law = Basin

	p := dynamo.NewParticle(5, 5)
	NewStepper(set, prm).Advance(&p, 50)
	if !p.IsValid() {
		t.Errorf("particle starting on an attractor went non-finite: %+v", p)
	}
}

func TestBasinLawMagnitude(t *testing.T) {
	set := physics.NewAttractorSet(dynamo.Vec2{X: 3, Y: 4})
	prm := Params{Dt: 0.1, Gravity: 10, Softening: 0, Law: Basin}

	p := dynamo.NewParticle(0, 0)
	Step(&p, set, prm)

	// d2 = 25, f = 10 / (25 * 5)
	f := float32(10) / float32(125)
	if p.Acc.X != 3*f || p.Acc.Y != 4*f {
		t.Errorf("expected acc (%f,%f), got %v", 3*f, 4*f, p.Acc)
	}
}

func TestParseForceLaw(t *testing.T) {
	if l, err := ParseForceLaw("basin"); err != nil || l != Basin {
		t.Errorf("expected Basin, got %v, %v", l, err)
	}
	if l, err := ParseForceLaw("inverse-square"); err != nil || l != InverseSquare {
		t.Errorf("expected InverseSquare, got %v, %v", l, err)
	}
	if _, err := ParseForceLaw("cubic"); !errors.Is(err, dynamo.ErrUnknownForceLaw) {
		t.Errorf("expected ErrUnknownForceLaw, got %v", err)
	}
}

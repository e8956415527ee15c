package sim

import (
	"github.com/san-kum/gravsnap/internal/colorize"
	"github.com/san-kum/gravsnap/internal/dynamo"
	"github.com/san-kum/gravsnap/internal/integrators"
)

type InputKind int

const (
	Move InputKind = iota
	Press
	Release
)

// InputEvent is one cursor sample from the live display.
type InputEvent struct {
	Kind InputKind
	X, Y float32
}

// Tracker follows a single live particle. Each new press resets the
// particle at the cursor; holding the button does not reset it again.
type Tracker struct {
	stepper  *integrators.Stepper
	particle dynamo.Particle
	active   bool
	pressed  bool
}

func NewTracker(stepper *integrators.Stepper) *Tracker {
	return &Tracker{stepper: stepper}
}

func (t *Tracker) Handle(ev InputEvent) {
	switch ev.Kind {
	case Press:
		if !t.pressed {
			t.pressed = true
			t.active = true
			t.particle.Reset(ev.X, ev.Y)
		}
	case Release:
		t.pressed = false
	}
}

// Active reports whether a particle has been placed.
func (t *Tracker) Active() bool { return t.active }

func (t *Tracker) Particle() dynamo.Particle { return t.particle }

// Advance steps the live particle once and returns its position and the
// base colour of the attractor it is nearest to. ok is false until the
// first press.
func (t *Tracker) Advance() (pos dynamo.Vec2, c dynamo.RGB, ok bool) {
	if !t.active {
		return dynamo.Vec2{}, dynamo.RGB{}, false
	}
	t.stepper.Step(&t.particle)
	c, _ = colorize.NearestOnly(&t.particle, t.stepper.Set)
	return t.particle.Pos, c, true
}

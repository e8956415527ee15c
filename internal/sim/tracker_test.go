package sim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsnap/internal/dynamo"
	"github.com/san-kum/gravsnap/internal/integrators"
	"github.com/san-kum/gravsnap/internal/physics"
	"github.com/san-kum/gravsnap/internal/sim"
)

var _ = Describe("Tracker", func() {
	var (
		set     *physics.AttractorSet
		tracker *sim.Tracker
	)

	BeforeEach(func() {
		set = physics.Build(physics.Triangle, 200, 200, 90, 0, nil)
		tracker = sim.NewTracker(integrators.NewStepper(set, integrators.DefaultParams()))
	})

	It("stays idle until the first press", func() {
		tracker.Handle(sim.InputEvent{Kind: sim.Move, X: 10, Y: 10})
		_, _, ok := tracker.Advance()
		Expect(ok).To(BeFalse())
		Expect(tracker.Active()).To(BeFalse())
	})

	It("resets the particle at the cursor on press", func() {
		tracker.Handle(sim.InputEvent{Kind: sim.Press, X: 40, Y: 60})
		pos, c, ok := tracker.Advance()
		Expect(ok).To(BeTrue())
		Expect(pos).To(Equal(dynamo.Vec2{X: 40, Y: 60}))

		i, _ := set.Closest(pos)
		Expect(c).To(Equal(set.Color(i)))
	})

	It("ignores a held button and resets on the next press", func() {
		tracker.Handle(sim.InputEvent{Kind: sim.Press, X: 40, Y: 60})
		for i := 0; i < 5; i++ {
			tracker.Advance()
		}
		moved := tracker.Particle()

		tracker.Handle(sim.InputEvent{Kind: sim.Press, X: 0, Y: 0})
		Expect(tracker.Particle()).To(Equal(moved))

		tracker.Handle(sim.InputEvent{Kind: sim.Release})
		tracker.Handle(sim.InputEvent{Kind: sim.Press, X: 5, Y: 7})
		p := tracker.Particle()
		Expect(p.Pos).To(Equal(dynamo.Vec2{X: 5, Y: 7}))
		Expect(p.Vel).To(Equal(dynamo.Vec2{}))
		Expect(p.Acc).To(Equal(dynamo.Vec2{}))
	})
})

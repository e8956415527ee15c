package sim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsnap/internal/dynamo"
	"github.com/san-kum/gravsnap/internal/sim"
)

var _ = Describe("Budget", func() {
	DescribeTable("iterations and restart per frame",
		func(p sim.Policy, k, wantIters int, wantRestart bool, wantTotal int) {
			iters, restart := sim.Budget(p, 50, 10, k)
			Expect(iters).To(Equal(wantIters))
			Expect(restart).To(Equal(wantRestart))
			Expect(sim.TotalSteps(p, 50, 10, k)).To(Equal(wantTotal))
		},
		Entry("restart frame 0", sim.Restart, 0, 50, true, 50),
		Entry("restart frame 3", sim.Restart, 3, 10, true, 10),
		Entry("continue frame 0", sim.Continue, 0, 50, true, 50),
		Entry("continue frame 3", sim.Continue, 3, 10, false, 80),
		Entry("growing frame 0", sim.Growing, 0, 50, true, 50),
		Entry("growing frame 3", sim.Growing, 3, 80, true, 80),
	)
})

var _ = Describe("ParsePolicy", func() {
	DescribeTable("accepted names",
		func(in string, want sim.Policy) {
			got, err := sim.ParsePolicy(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("restart", "restart", sim.Restart),
		Entry("growing-restart", "growing-restart", sim.Restart),
		Entry("continue", "continue", sim.Continue),
		Entry("Continue-State", "Continue-State", sim.Continue),
		Entry("growing", "growing", sim.Growing),
		Entry("growing-total", "growing-total", sim.Growing),
	)

	It("rejects unknown names", func() {
		_, err := sim.ParsePolicy("rewind")
		Expect(err).To(MatchError(dynamo.ErrUnknownPolicy))
	})

	It("round trips through String", func() {
		for _, p := range []sim.Policy{sim.Restart, sim.Continue, sim.Growing} {
			got, err := sim.ParsePolicy(p.String())
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(p))
		}
	})
})

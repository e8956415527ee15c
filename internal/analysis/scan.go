package analysis

import (
	"github.com/san-kum/gravsnap/internal/colorize"
	"github.com/san-kum/gravsnap/internal/dynamo"
	"github.com/san-kum/gravsnap/internal/integrators"
	"github.com/san-kum/gravsnap/internal/physics"
)

// ScanPoint is the outcome of one gravity value in a GravityScan.
type ScanPoint struct {
	Gravity float64
	// Channel is the winning colour channel (closest attractor mod 3).
	Channel  int
	Distance float64
}

// GravityScan sweeps the gravity constant over [gMin, gMax] and records
// which attractor wins the pixel at (x, y) after steps updates. Jumps in
// Channel mark the gravity values where the pixel changes colour.
func GravityScan(set *physics.AttractorSet, prm integrators.Params, x, y float32, gMin, gMax float64, points, steps int) []ScanPoint {
	if points <= 1 {
		points = 2
	}
	delta := (gMax - gMin) / float64(points-1)

	results := make([]ScanPoint, 0, points)
	for i := 0; i < points; i++ {
		g := gMin + float64(i)*delta
		local := prm
		local.Gravity = float32(g)
		stepper := integrators.NewStepper(set, local)

		p := dynamo.NewParticle(x, y)
		stepper.Advance(&p, steps)
		_, channel := colorize.WeightedClosest(&p, set)
		_, dist := set.Closest(p.Pos)

		results = append(results, ScanPoint{Gravity: g, Channel: channel, Distance: float64(dist)})
	}
	return results
}

// Transitions returns the indices in points where the basin changes.
func Transitions(points []ScanPoint) []int {
	var out []int
	for i := 1; i < len(points); i++ {
		if points[i].Channel != points[i-1].Channel {
			out = append(out, i)
		}
	}
	return out
}

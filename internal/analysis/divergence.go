package analysis

import (
	"math"

	"github.com/san-kum/gravsnap/internal/dynamo"
	"github.com/san-kum/gravsnap/internal/integrators"
)

// Divergence estimates the largest Lyapunov exponent of the trajectory
// starting at (x, y) using the separation method:
//
//	λ ≈ (1/n) * Σ ln(|δ(t)| / δ0)
//
// The perturbed twin starts perturbation pixels to the right and is
// renormalised once the separation grows past one pixel. The result is per
// step, not per unit time.
func Divergence(stepper *integrators.Stepper, x, y, perturbation float32, steps int) float64 {
	if steps <= 0 || perturbation <= 0 {
		return 0
	}

	p := dynamo.NewParticle(x, y)
	q := dynamo.NewParticle(x+perturbation, y)
	d0 := float64(perturbation)

	sumLog := 0.0
	count := 0
	for i := 0; i < steps; i++ {
		stepper.Step(&p)
		stepper.Step(&q)

		dx := float64(q.Pos.X - p.Pos.X)
		dy := float64(q.Pos.Y - p.Pos.Y)
		sep := math.Hypot(dx, dy)
		if math.IsNaN(sep) || math.IsInf(sep, 0) {
			break
		}
		if sep > 0 {
			sumLog += math.Log(sep / d0)
			count++
		}

		if sep > 1.0 {
			scale := float32(d0 / sep)
			q.Pos.X = p.Pos.X + (q.Pos.X-p.Pos.X)*scale
			q.Pos.Y = p.Pos.Y + (q.Pos.Y-p.Pos.Y)*scale
			q.Vel.X = p.Vel.X + (q.Vel.X-p.Vel.X)*scale
			q.Vel.Y = p.Vel.Y + (q.Vel.Y-p.Vel.Y)*scale
		}
	}

	if count == 0 {
		return 0
	}
	return sumLog / float64(count)
}

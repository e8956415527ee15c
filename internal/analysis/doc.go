// Package analysis studies single particle trajectories behind a snapshot.
//
// A snapshot pixel only shows where its particle ended up. The tools here
// look at the path that led there:
//
//   - [TraceParticle]: record a trajectory and its basin after n steps
//   - [Divergence]: separation growth of two nearby starts, a local
//     sensitivity estimate for basin boundaries
//   - [GravityScan]: final basin of one pixel across a gravity range
//   - [PowerSpectrum] / [DominantFrequency]: orbital periods of a series
//
// # Boundary Detection
//
// Pixels on a basin boundary separate quickly:
//
//	lambda := analysis.Divergence(stepper, x, y, 1e-3, 500)
//	if lambda > 0 {
//	    // start point sits near a boundary
//	}
package analysis

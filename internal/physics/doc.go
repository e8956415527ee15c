// Package physics defines the attractor field particles move through.
//
// An [AttractorSet] is built once per run from a [Layout]:
//
//   - [Triangle]: apex above the grid centre, base below, sized by the triangle height
//   - [Line]: three masses on the horizontal centre line, spaced by half the shape size
//   - [Random], [NRandom]: masses at uniform random integer pixel positions
//
// Layouts are total functions of their inputs. Degenerate grids or shape sizes
// yield coincident masses, never an error.
package physics

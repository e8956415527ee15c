// Package dynamo provides the core primitives shared by the basin renderer.
//
//   - [Vec2]: single-precision point in pixel space
//   - [Particle]: kinematic state of one test particle
//   - [RGB] and [Frame]: pixel colours and a complete rendered grid
//   - [ParallelFor]: chunked fan-out used to split frame rows across workers
//
// # Example
//
//	set := physics.Build(physics.Triangle, 500, 500, 200, 0, nil)
//	r := render.New(500, 500, integrators.NewStepper(set, prm), colorize.New(colorize.Weighted), 0)
//	frame := dynamo.NewFrame(500, 500)
//	r.Render(frame, render.NewParticles(500, 500), 100, true)
//
// # Thread Safety
//
// A [Frame] is written by disjoint row ranges during rendering and must not be
// read until rendering returns. Consumers that keep a frame must [Frame.Clone] it.
package dynamo

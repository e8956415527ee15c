// Package render turns an attractor field into a frame of basin colours.
package render

import (
	"github.com/san-kum/gravsnap/internal/colorize"
	"github.com/san-kum/gravsnap/internal/dynamo"
	"github.com/san-kum/gravsnap/internal/integrators"
)

// minRows is the smallest row chunk handed to a worker.
const minRows = 4

type Renderer struct {
	Width     int
	Height    int
	Stepper   *integrators.Stepper
	Colorizer *colorize.Colorizer
	workers   int
}

// New creates a renderer for a width x height grid. workers <= 0 uses one
// worker per CPU.
func New(width, height int, stepper *integrators.Stepper, colorizer *colorize.Colorizer, workers int) *Renderer {
	return &Renderer{
		Width:     width,
		Height:    height,
		Stepper:   stepper,
		Colorizer: colorizer,
		workers:   dynamo.Workers(workers),
	}
}

// NewParticles returns one particle per pixel, row-major, each at rest on
// its pixel coordinate.
func NewParticles(width, height int) []dynamo.Particle {
	if width <= 0 || height <= 0 {
		return nil
	}
	ps := make([]dynamo.Particle, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			ps[y*width+x].Reset(float32(x), float32(y))
		}
	}
	return ps
}

// Render advances every pixel's particle by iterations steps and writes its
// colour into frame. With restart set each particle is first reset onto its
// pixel. particles must hold Width*Height entries; rows are processed in
// parallel and each worker touches only its own rows.
func (r *Renderer) Render(frame *dynamo.Frame, particles []dynamo.Particle, iterations int, restart bool) {
	set := r.Stepper.Set
	dynamo.ParallelFor(r.Height, minRows, r.workers, func(start, end int) {
		for y := start; y < end; y++ {
			row := particles[y*r.Width : (y+1)*r.Width]
			for x := range row {
				p := &row[x]
				if restart {
					p.Reset(float32(x), float32(y))
				}
				r.Stepper.Advance(p, iterations)
				c, w := r.Colorizer.Color(p, set)
				frame.Set(x, y, c, w)
			}
		}
	})
}

// RenderPixel computes pixel (x, y) in isolation, from rest, after
// iterations steps.
func (r *Renderer) RenderPixel(x, y, iterations int) dynamo.RGB {
	p := dynamo.NewParticle(float32(x), float32(y))
	r.Stepper.Advance(&p, iterations)
	c, _ := r.Colorizer.Color(&p, r.Stepper.Set)
	return c
}

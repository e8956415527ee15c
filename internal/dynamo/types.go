package dynamo

import (
	"image"
	"image/color"
	"math"
)

// Vec2 is a single-precision point or vector in pixel space.
type Vec2 struct {
	X, Y float32
}

func (v Vec2) IsValid() bool {
	return isFinite(v.X) && isFinite(v.Y)
}

func isFinite(f float32) bool {
	g := float64(f)
	return !math.IsNaN(g) && !math.IsInf(g, 0)
}

// Particle is a massless test point. Acc always holds the force evaluated at
// the position reached on the previous step.
type Particle struct {
	Pos Vec2
	Vel Vec2
	Acc Vec2
}

func NewParticle(x, y float32) Particle {
	return Particle{Pos: Vec2{x, y}}
}

// Reset places the particle at (x, y) at rest.
func (p *Particle) Reset(x, y float32) {
	*p = Particle{Pos: Vec2{x, y}}
}

func (p Particle) IsValid() bool {
	return p.Pos.IsValid() && p.Vel.IsValid() && p.Acc.IsValid()
}

type RGB [3]uint8

func (c RGB) RGBA() color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 255}
}

// Frame is a row-major width*height grid of RGB pixels. Winner holds, per
// pixel, the colour channel (closest attractor index mod 3) that won.
type Frame struct {
	Width  int
	Height int
	Pix    []uint8
	Winner []uint8
}

func NewFrame(width, height int) *Frame {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
		Winner: make([]uint8, width*height),
	}
}

func (f *Frame) Set(x, y int, c RGB, winner int) {
	i := y*f.Width + x
	copy(f.Pix[i*3:i*3+3], c[:])
	f.Winner[i] = uint8(winner)
}

func (f *Frame) RGBAt(x, y int) RGB {
	i := (y*f.Width + x) * 3
	return RGB{f.Pix[i], f.Pix[i+1], f.Pix[i+2]}
}

func (f *Frame) Clone() *Frame {
	c := &Frame{
		Width:  f.Width,
		Height: f.Height,
		Pix:    make([]uint8, len(f.Pix)),
		Winner: make([]uint8, len(f.Winner)),
	}
	copy(c.Pix, f.Pix)
	copy(c.Winner, f.Winner)
	return c
}

func (f *Frame) ColorModel() color.Model { return color.RGBAModel }

func (f *Frame) Bounds() image.Rectangle { return image.Rect(0, 0, f.Width, f.Height) }

func (f *Frame) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return color.RGBA{}
	}
	return f.RGBAt(x, y).RGBA()
}

// RGBA copies the frame into a freshly allocated image.RGBA.
func (f *Frame) RGBA() *image.RGBA {
	img := image.NewRGBA(f.Bounds())
	for i, j := 0, 0; i < len(f.Pix); i, j = i+3, j+4 {
		img.Pix[j] = f.Pix[i]
		img.Pix[j+1] = f.Pix[i+1]
		img.Pix[j+2] = f.Pix[i+2]
		img.Pix[j+3] = 255
	}
	return img
}

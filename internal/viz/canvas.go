package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/gravsnap/internal/dynamo"
)

// Canvas is a colour terminal canvas built from upper half blocks. Each
// cell shows two vertically stacked pixels: the foreground paints the top
// one and the background the bottom one, so the canvas is Width x
// Height*2 pixels.
type Canvas struct {
	Width, Height int
	Grid          [][]dynamo.RGB
}

func NewCanvas(w, h int) *Canvas {
	w, h = max(w, 0), max(h, 0)
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]dynamo.RGB, h*2),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]dynamo.RGB, w)
	}
	return c
}

// Set paints pixel (x, y) in sub-cell coordinates.
func (c *Canvas) Set(x, y int, col dynamo.RGB) {
	if x < 0 || y < 0 || x >= c.Width || y >= len(c.Grid) {
		return
	}
	c.Grid[y][x] = col
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		clear(c.Grid[i])
	}
}

// Fill samples frame onto the canvas with nearest-neighbour scaling.
func (c *Canvas) Fill(frame *dynamo.Frame) {
	if frame == nil || frame.Width == 0 || frame.Height == 0 {
		c.Clear()
		return
	}
	rows := len(c.Grid)
	for y := 0; y < rows; y++ {
		fy := y * frame.Height / rows
		for x := 0; x < c.Width; x++ {
			fx := x * frame.Width / c.Width
			c.Grid[y][x] = frame.RGBAt(fx, fy)
		}
	}
}

// Scale maps frame coordinates onto canvas pixels.
func (c *Canvas) Scale(frameW, frameH int, x, y float32) (int, int) {
	if frameW <= 0 || frameH <= 0 {
		return -1, -1
	}
	return int(x * float32(c.Width) / float32(frameW)), int(y * float32(len(c.Grid)) / float32(frameH))
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col dynamo.RGB) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row+1 < len(c.Grid); row += 2 {
		top, bottom := c.Grid[row], c.Grid[row+1]
		for x := 0; x < c.Width; x++ {
			b.WriteString(lipgloss.NewStyle().
				Foreground(Color(top[x])).
				Background(Color(bottom[x])).
				Render("▀"))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

package metrics

import "github.com/san-kum/gravsnap/internal/dynamo"

// Churn is the fraction of pixels whose winning basin changed since the
// previous frame. The first frame after a reset reports 0.
type Churn struct {
	name    string
	prev    []uint8
	changed int
	pixels  int
}

func NewChurn() *Churn {
	return &Churn{name: "churn"}
}

func (c *Churn) Name() string { return c.name }

func (c *Churn) Observe(frame *dynamo.Frame) {
	c.changed, c.pixels = 0, len(frame.Winner)
	if len(c.prev) == len(frame.Winner) {
		for i, w := range frame.Winner {
			if c.prev[i] != w {
				c.changed++
			}
		}
	}
	c.prev = append(c.prev[:0], frame.Winner...)
}

func (c *Churn) Value() float64 {
	if c.pixels == 0 {
		return 0
	}
	return float64(c.changed) / float64(c.pixels)
}

func (c *Churn) Reset() {
	c.prev = c.prev[:0]
	c.changed = 0
	c.pixels = 0
}

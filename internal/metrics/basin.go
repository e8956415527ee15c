package metrics

import (
	"fmt"

	"github.com/san-kum/gravsnap/internal/dynamo"
)

var channelNames = [3]string{"r", "g", "b"}

// BasinShare is the fraction of pixels won by one colour channel.
type BasinShare struct {
	name    string
	channel int
	won     int
	pixels  int
}

func NewBasinShare(channel int) *BasinShare {
	return &BasinShare{
		name:    fmt.Sprintf("share_%s", channelNames[channel%3]),
		channel: channel % 3,
	}
}

func (b *BasinShare) Name() string { return b.name }

func (b *BasinShare) Observe(frame *dynamo.Frame) {
	b.won, b.pixels = 0, len(frame.Winner)
	for _, w := range frame.Winner {
		if int(w) == b.channel {
			b.won++
		}
	}
}

func (b *BasinShare) Value() float64 {
	if b.pixels == 0 {
		return 0
	}
	return float64(b.won) / float64(b.pixels)
}

func (b *BasinShare) Reset() {
	b.won = 0
	b.pixels = 0
}

// Contrast is the mean gap between the winning channel and the other two,
// scaled to [0, 1]. It approaches 1 as pixels commit to a single basin.
type Contrast struct {
	name  string
	value float64
}

func NewContrast() *Contrast {
	return &Contrast{name: "contrast"}
}

func (c *Contrast) Name() string { return c.name }

func (c *Contrast) Observe(frame *dynamo.Frame) {
	n := len(frame.Winner)
	if n == 0 {
		c.value = 0
		return
	}
	var sum float64
	for i, w := range frame.Winner {
		px := frame.Pix[i*3 : i*3+3]
		win := float64(px[w])
		var rest float64
		for ch := 0; ch < 3; ch++ {
			if ch != int(w) {
				rest += float64(px[ch])
			}
		}
		sum += (win - rest/2) / 255
	}
	c.value = sum / float64(n)
}

func (c *Contrast) Value() float64 { return c.value }

func (c *Contrast) Reset() { c.value = 0 }

// Package colorize maps a particle's final position to a pixel colour.
package colorize

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/gravsnap/internal/dynamo"
	"github.com/san-kum/gravsnap/internal/physics"
)

type Mode int

const (
	// Weighted saturates the winner's channel and scales the others by
	// relative distance, with the running-minimum total.
	Weighted Mode = iota
	// WeightedTotal is Weighted with total summing every non-winning distance.
	WeightedTotal
	// Nearest paints the winner's base palette colour.
	Nearest
)

func (m Mode) String() string {
	switch m {
	case Weighted:
		return "weighted"
	case WeightedTotal:
		return "weighted-total"
	case Nearest:
		return "nearest"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weighted", "":
		return Weighted, nil
	case "weighted-total", "total":
		return WeightedTotal, nil
	case "nearest":
		return Nearest, nil
	}
	return 0, fmt.Errorf("%w: %q", dynamo.ErrUnknownColorMode, s)
}

// Colorizer picks a pixel colour from a particle's final position.
// Non-winning channels top out at 254 so 255 marks the winner alone;
// FullRange lets them reach 255 like a plain [0, 255] clamp.
type Colorizer struct {
	Mode      Mode
	FullRange bool
}

func New(mode Mode) *Colorizer {
	return &Colorizer{Mode: mode}
}

// Color returns the pixel colour for p and the winning channel (closest
// attractor index mod 3). An empty attractor set yields black and channel 0.
func (c *Colorizer) Color(p *dynamo.Particle, set *physics.AttractorSet) (dynamo.RGB, int) {
	if set.Len() == 0 {
		return dynamo.RGB{}, 0
	}
	switch c.Mode {
	case Nearest:
		return NearestOnly(p, set)
	case WeightedTotal:
		return weighted(p, set, true, c.ceiling())
	default:
		return weighted(p, set, false, c.ceiling())
	}
}

func (c *Colorizer) ceiling() float64 {
	if c.FullRange {
		return 255
	}
	return 254
}

// WeightedClosest colours by Euclidean distance. A distance adds to the
// total only when it does not become the new running minimum at the time it
// is visited, so distances visited before the eventual minimum count.
func WeightedClosest(p *dynamo.Particle, set *physics.AttractorSet) (dynamo.RGB, int) {
	return weighted(p, set, false, 254)
}

func weighted(p *dynamo.Particle, set *physics.AttractorSet, fullTotal bool, ceil float64) (dynamo.RGB, int) {
	var (
		dists   [3]float32
		present [3]bool
		total   float32
		c       int
		best    = float32(math.Inf(1))
	)

	all := make([]float32, 0, set.Len())
	for i, m := range set.Masses {
		d := physics.Distance(p.Pos, m.Pos)
		if d < best {
			c = i % 3
			best = d
		} else {
			total += d
		}
		dists[i%3] = d
		present[i%3] = true
		all = append(all, d)
	}

	if fullTotal {
		total = 0
		winner := -1
		for i, d := range all {
			if d == best && winner < 0 {
				winner = i
				continue
			}
			total += d
		}
	}

	var rgb dynamo.RGB
	for ch := 0; ch < 3; ch++ {
		switch {
		case ch == c:
			rgb[ch] = 255
		case !present[ch]:
			rgb[ch] = 0
		default:
			rgb[ch] = scale(total, dists[ch], ceil)
		}
	}
	return rgb, c
}

// scale computes round(255 * (total - d) / total) for a non-winning channel,
// clamped to [0, ceil]. A zero total yields 0.
func scale(total, d float32, ceil float64) uint8 {
	if total == 0 {
		return 0
	}
	v := float64(255 * (total - d) / total)
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v = math.Round(v); v > ceil {
		return uint8(ceil)
	}
	return uint8(v)
}

// NearestOnly paints the base colour of the mass closest to p in Manhattan
// distance. Ties resolve to the first mass.
func NearestOnly(p *dynamo.Particle, set *physics.AttractorSet) (dynamo.RGB, int) {
	c := 0
	best := float32(math.Inf(1))
	for i, m := range set.Masses {
		d := abs(p.Pos.X-m.Pos.X) + abs(p.Pos.Y-m.Pos.Y)
		if d < best {
			best = d
			c = i % 3
		}
	}
	return set.Palette[c], c
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

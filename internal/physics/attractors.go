package physics

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/san-kum/gravsnap/internal/dynamo"
)

// Layout selects how attractor positions are derived from the grid.
type Layout int

const (
	Triangle Layout = iota
	Line
	Random
	NRandom
)

// DefaultRandomCount is the number of masses placed by the Random layout.
const DefaultRandomCount = 3

var layoutNames = map[Layout]string{
	Triangle: "triangle",
	Line:     "line",
	Random:   "random",
	NRandom:  "nrandom",
}

func (l Layout) String() string {
	if s, ok := layoutNames[l]; ok {
		return s
	}
	return fmt.Sprintf("layout(%d)", int(l))
}

func ParseLayout(s string) (Layout, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for l, n := range layoutNames {
		if n == name {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", dynamo.ErrUnknownLayout, s)
}

// Mass is a fixed attracting point.
type Mass struct {
	Pos dynamo.Vec2
}

// DefaultPalette is the three-colour palette masses cycle through.
var DefaultPalette = [3]dynamo.RGB{
	{167, 38, 8},
	{122, 179, 131},
	{118, 120, 219},
}

// AttractorSet is the immutable set of masses for one run.
type AttractorSet struct {
	Masses  []Mass
	Palette [3]dynamo.RGB
}

func NewAttractorSet(positions ...dynamo.Vec2) *AttractorSet {
	s := &AttractorSet{Palette: DefaultPalette}
	for _, p := range positions {
		s.Masses = append(s.Masses, Mass{Pos: p})
	}
	return s
}

func (s *AttractorSet) Len() int { return len(s.Masses) }

// Color returns the base colour of mass i; the palette is reused cyclically.
func (s *AttractorSet) Color(i int) dynamo.RGB {
	return s.Palette[i%3]
}

// Build computes mass positions for layout on a width x height grid.
// shapeSize is the triangle height or the line width. randomCount is only
// read by NRandom. rng may be nil, in which case a time-seeded source is used.
func Build(layout Layout, width, height int, shapeSize float32, randomCount int, rng *rand.Rand) *AttractorSet {
	midW := float32(width) / 2
	midH := float32(height) / 2
	third := shapeSize / 3
	half := shapeSize / 2

	switch layout {
	case Line:
		return NewAttractorSet(
			dynamo.Vec2{X: midW, Y: midH},
			dynamo.Vec2{X: midW - half, Y: midH},
			dynamo.Vec2{X: midW + half, Y: midH},
		)
	case Random, NRandom:
		n := DefaultRandomCount
		if layout == NRandom {
			n = randomCount
		}
		if n < 1 {
			n = 1
		}
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		pts := make([]dynamo.Vec2, n)
		for i := range pts {
			pts[i] = dynamo.Vec2{X: float32(intn(rng, width)), Y: float32(intn(rng, height))}
		}
		return NewAttractorSet(pts...)
	default:
		return NewAttractorSet(
			dynamo.Vec2{X: midW, Y: midH - 2*third},
			dynamo.Vec2{X: midW - half, Y: midH + third},
			dynamo.Vec2{X: midW + half, Y: midH + third},
		)
	}
}

func intn(rng *rand.Rand, n int) int {
	if n <= 0 {
		return 0
	}
	return rng.Intn(n)
}

// Closest returns the index of the mass nearest to p (Euclidean) and its
// distance. Ties resolve to the lowest index. It returns -1 for an empty set.
func (s *AttractorSet) Closest(p dynamo.Vec2) (int, float32) {
	c, best := -1, float32(math.Inf(1))
	for i, m := range s.Masses {
		if d := Distance(p, m.Pos); d < best {
			c, best = i, d
		}
	}
	return c, best
}

// Distance is the single-precision Euclidean distance between a and b.
func Distance(a, b dynamo.Vec2) float32 {
	return float32(math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y)))
}

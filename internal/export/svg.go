package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/gravsnap/internal/analysis"
	"github.com/san-kum/gravsnap/internal/dynamo"
	"github.com/san-kum/gravsnap/internal/physics"
)

const (
	MassRadius  = 15
	StartRadius = 5
)

func hex(c dynamo.RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// TraceToSVG draws a particle trajectory over the attractors in grid
// coordinates. The path is split into segments coloured by the attractor
// that was nearest at each step; points that left the plane end the path.
func TraceToSVG(tr *analysis.Trace, set *physics.AttractorSet, width, height int) string {
	if tr == nil || len(tr.Points) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#000000"/>
`, width, height, width, height))

	for i, m := range set.Masses {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%d" fill="%s"/>
`, m.Pos.X, m.Pos.Y, MassRadius, hex(set.Color(i))))
	}

	for _, seg := range segments(tr) {
		if len(seg.points) < 2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, hex(set.Color(seg.nearest))))
		for i, p := range seg.points {
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", p.X, p.Y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", p.X, p.Y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%d" fill="#ffffff"/>
`, tr.Start.X, tr.Start.Y, StartRadius))
	sb.WriteString("</svg>")
	return sb.String()
}

type segment struct {
	nearest int
	points  []dynamo.Vec2
}

// segments groups consecutive points that share a nearest attractor. Each
// segment repeats the last point of the previous one so the path stays
// connected.
func segments(tr *analysis.Trace) []segment {
	var out []segment
	for i := 1; i < len(tr.Points); i++ {
		p := tr.Points[i]
		if !p.IsValid() {
			break
		}
		nearest := 0
		if i-1 < len(tr.Nearest) {
			nearest = tr.Nearest[i-1]
		}
		if len(out) == 0 || out[len(out)-1].nearest != nearest {
			out = append(out, segment{nearest: nearest, points: []dynamo.Vec2{tr.Points[i-1]}})
		}
		last := &out[len(out)-1]
		last.points = append(last.points, p)
	}
	return out
}

func WriteSVG(path, svg string) error {
	return os.WriteFile(path, []byte(svg), 0644)
}

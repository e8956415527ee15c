package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravsnap/internal/analysis"
	"github.com/san-kum/gravsnap/internal/config"
	"github.com/san-kum/gravsnap/internal/export"
	"github.com/san-kum/gravsnap/internal/integrators"
	"github.com/san-kum/gravsnap/internal/storage"
	"github.com/san-kum/gravsnap/internal/viz"
	"github.com/spf13/cobra"
)

const (
	traceCols = 60
	traceRows = 24
)

func runTrace(cmd *cobra.Command, args []string) error {
	x, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		return fmt.Errorf("bad x %q: %w", args[0], err)
	}
	y, err := strconv.ParseFloat(args[1], 32)
	if err != nil {
		return fmt.Errorf("bad y %q: %w", args[1], err)
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	set := cfg.Attractors()
	stepper := integrators.NewStepper(set, cfg.Params())

	tr := analysis.TraceParticle(stepper, float32(x), float32(y), traceSteps)
	final := tr.Final()
	nearest, dist := set.Closest(final)

	fmt.Printf("trace from (%g, %g), %d steps\n\n", x, y, traceSteps)
	fmt.Println(viz.Field("final", fmt.Sprintf("(%.2f, %.2f)", final.X, final.Y)))
	fmt.Println(viz.Field("nearest", fmt.Sprintf("mass %d at %.2f", nearest, dist)))
	fmt.Println(viz.Field("channel", tr.Channel))
	fmt.Println(viz.Field("colour", viz.Swatch(tr.Color)))
	fmt.Println(viz.Field("switches", tr.Switches()))
	fmt.Println(viz.Field("divergence", fmt.Sprintf("%.4f /step", analysis.Divergence(stepper, float32(x), float32(y), 1e-3, traceSteps))))
	fmt.Println()

	canvas := viz.NewCanvas(traceCols, traceRows)
	for i := 1; i < len(tr.Points); i++ {
		a, b := tr.Points[i-1], tr.Points[i]
		if !b.IsValid() {
			break
		}
		x0, y0 := canvas.Scale(cfg.Width, cfg.Height, a.X, a.Y)
		x1, y1 := canvas.Scale(cfg.Width, cfg.Height, b.X, b.Y)
		canvas.DrawLine(x0, y0, x1, y1, set.Color(tr.Nearest[i-1]))
	}
	for i, m := range set.Masses {
		mx, my := canvas.Scale(cfg.Width, cfg.Height, m.Pos.X, m.Pos.Y)
		for d := -1; d <= 1; d++ {
			canvas.Set(mx+d, my, set.Color(i))
			canvas.Set(mx, my+d, set.Color(i))
		}
	}
	fmt.Println(canvas.String())

	if len(tr.Points) > 1 {
		distances := tr.Distances(set, nearest)
		fmt.Println(asciigraph.Plot(clean(distances),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("distance to mass %d", nearest)),
		))
		fmt.Println()

		xs := make([]float64, len(tr.Points))
		for i, p := range tr.Points {
			xs[i] = float64(p.X)
		}
		if freq := analysis.DominantFrequency(clean(xs)); freq > 0 {
			fmt.Printf("dominant frequency: %.4f cycles/step\n", freq)
			fmt.Printf("period: %.1f steps (%.3f time units)\n", 1/freq, cfg.Dt/freq)
		} else {
			fmt.Println("no dominant frequency")
		}
	}

	if svgOut != "" {
		if err := export.WriteSVG(svgOut, export.TraceToSVG(tr, set, cfg.Width, cfg.Height)); err != nil {
			return err
		}
		fmt.Printf("svg written to %s\n", svgOut)
	}

	if scanPoints > 0 {
		points := analysis.GravityScan(set, cfg.Params(), float32(x), float32(y), scanMin, scanMax, scanPoints, traceSteps)
		fmt.Printf("\ngravity scan (%d values)\n", len(points))
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "GRAVITY\tCHANNEL\tDISTANCE")
		for _, p := range points {
			fmt.Fprintf(w, "%.3f\t%d\t%.3f\n", p.Gravity, p.Channel, p.Distance)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("basin changes: %d\n", len(analysis.Transitions(points)))
	}
	return nil
}

// clean drops values that cannot be plotted, keeping the series order.
func clean(data []float64) []float64 {
	out := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func runStats(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	names, rows, err := st.LoadMetrics(args[0])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("layout: %s, policy: %s, law: %s\n", meta.Layout, meta.Policy, meta.ForceLaw)
	fmt.Printf("frames: %d\n\n", len(rows))

	for col, name := range names {
		data := make([]float64, len(rows))
		for i, row := range rows {
			if col < len(row.Values) {
				data[i] = row.Values[col]
			}
		}
		if len(data) < 2 {
			fmt.Printf("%s: %.6f\n", name, data[0])
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs frame"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSIZE\tLAYOUT\tPOLICY\tFRAMES\tSTEPS\tELAPSED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%s\t%s\t%d\t%d\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width, run.Height,
			run.Layout,
			run.Policy,
			run.Rendered,
			run.TotalSteps,
			run.Elapsed,
		)
	}

	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tLAYOUT\tPOLICY\tLAW\tCOLOUR\tITER\tSTEP\tFRAMES")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		framesLabel := strconv.Itoa(p.Frames)
		if p.Frames == 0 {
			framesLabel = "inf"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			name, p.Layout, p.Policy, p.ForceLaw, p.ColorMode, p.Iterations, p.Step, framesLabel)
	}
	return w.Flush()
}

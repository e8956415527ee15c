package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/san-kum/gravsnap/internal/config"
	"github.com/san-kum/gravsnap/internal/dynamo"
	"github.com/san-kum/gravsnap/internal/experiment"
	"github.com/san-kum/gravsnap/internal/gui"
	"github.com/san-kum/gravsnap/internal/sim"
	"github.com/san-kum/gravsnap/internal/viz"
	"github.com/spf13/cobra"
)

// setup resolves the configuration and builds the experiment. It returns
// nil when the interactive view was requested instead and has finished.
func setup(cmd *cobra.Command) (*experiment.Experiment, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}
	if interactive {
		gui.RunInteractive(cmd.Context(), cfg.Attractors(), cfg.Params(), cfg.Width, cfg.Height)
		return nil, nil
	}
	if verbose {
		printSettings(cfg)
	}
	if !cfg.Output.Save {
		fmt.Println(viz.Info("Not Saving"))
	}
	return experiment.New(cfg)
}

func runRender(cmd *cobra.Command, args []string) error {
	exp, err := setup(cmd)
	if err != nil || exp == nil {
		return err
	}
	cfg := exp.Config()

	total := "∞"
	if cfg.Frames > 0 {
		total = fmt.Sprint(cfg.Frames)
	}
	progress := sim.NewFuncSink(func(i int, _ *dynamo.Frame) bool {
		if verbose {
			fmt.Printf("\rframe %d/%s", i+1, total)
		}
		return true
	})

	fmt.Println(viz.Info("rendering %dx%d...", cfg.Width, cfg.Height))
	res, err := exp.Run(cmd.Context(), progress)
	if verbose {
		fmt.Println()
	}
	if err != nil {
		return err
	}
	printResult(res)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	exp, err := setup(cmd)
	if err != nil || exp == nil {
		return err
	}
	cfg := exp.Config()

	window := gui.OpenWindow("Gravity Snapshot", cfg.Width, cfg.Height)
	defer window.Close()

	res, err := exp.Run(cmd.Context(), window)
	if err != nil {
		return err
	}
	switch {
	case res.Summary.Closed:
		fmt.Println(viz.Info("Window Closed"))
	case res.Summary.Interrupted:
		fmt.Println(viz.Info("Interrupted"))
	default:
		fmt.Println(viz.Info("Frame Rendering Complete"))
		window.Hold(cmd.Context())
	}
	printResult(res)
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	exp, err := setup(cmd)
	if err != nil || exp == nil {
		return err
	}
	cfg := exp.Config()

	title := fmt.Sprintf("gravsnap :: %s %dx%d", cfg.Layout, cfg.Width, cfg.Height)
	preview := viz.NewPreview(title, cfg.Schedule(), exp.Attractors().Palette)
	preview.Start()

	res, err := exp.Run(cmd.Context(), preview)
	if err != nil {
		preview.Wait(context.Background())
		return err
	}
	preview.Finish(res.Summary)
	if err := preview.Wait(cmd.Context()); err != nil {
		return err
	}
	printResult(res)
	return nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	gui.RunInteractive(cmd.Context(), cfg.Attractors(), cfg.Params(), cfg.Width, cfg.Height)
	return nil
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("config written to %s\n", args[0])
	return nil
}

func printResult(res *experiment.Result) {
	sum := res.Summary
	fmt.Printf("rendered %d frames (%d total steps) in %v\n", sum.Frames, sum.TotalSteps, sum.Elapsed.Round(time.Millisecond))
	if res.Dir != "" {
		fmt.Printf("output: %s\n", res.Dir)
	}
	if n := len(res.Frames); n > 0 {
		fmt.Printf("frames: %s .. %s\n", res.Frames[0], res.Frames[n-1])
	}
	if res.GIF != "" {
		fmt.Printf("gif: %s\n", res.GIF)
	}
	if res.Meta != nil && len(res.Meta.Metrics) > 0 {
		fmt.Println("\nmetrics:")
		var b strings.Builder
		for _, name := range []string{"share_r", "share_g", "share_b", "churn", "contrast"} {
			if v, ok := res.Meta.Metrics[name]; ok {
				fmt.Fprintf(&b, "  %s: %.6f\n", name, v)
			}
		}
		fmt.Print(b.String())
	}
}

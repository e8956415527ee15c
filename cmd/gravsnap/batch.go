package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravsnap/internal/automation"
	"github.com/spf13/cobra"
)

func runBatch(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if scenario.Name != "" {
		fmt.Printf("scenario: %s\n", scenario.Name)
	}
	if scenario.Description != "" {
		fmt.Printf("%s\n", scenario.Description)
	}
	fmt.Println()

	results, err := automation.RunScenario(cmd.Context(), scenario, batchDir)
	if err != nil {
		return err
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tFRAMES\tSTEPS\tELAPSED\tSHARE_R\tSHARE_G\tSHARE_B\tDIR")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%.3f\t%.3f\t%.3f\t%s\n",
			r.Name, r.Summary.Frames, r.Summary.TotalSteps, r.Summary.Elapsed.Round(time.Millisecond),
			r.Metrics["share_r"], r.Metrics["share_g"], r.Metrics["share_b"], r.Dir)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	sweep := &automation.ParameterSweep{
		Base:      base,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Parallel:  parallel,
	}
	results, err := automation.RunSweep(cmd.Context(), sweep, batchDir)
	if err != nil {
		return err
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSHARE_R\tSHARE_G\tSHARE_B\tCONTRAST\tDIR\n", sweepParam)
	contrast := make([]float64, len(results))
	for i, r := range results {
		contrast[i] = r.Metrics["contrast"]
		fmt.Fprintf(w, "%.4f\t%.3f\t%.3f\t%.3f\t%.3f\t%s\n",
			r.ParamValue, r.Metrics["share_r"], r.Metrics["share_g"], r.Metrics["share_b"], contrast[i], r.Dir)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(contrast) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(contrast,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption("contrast vs "+sweepParam),
		))
	}
	return nil
}

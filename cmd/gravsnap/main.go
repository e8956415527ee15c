package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/san-kum/gravsnap/internal/config"
	"github.com/san-kum/gravsnap/internal/dynamo"
	"github.com/san-kum/gravsnap/internal/viz"
	"github.com/spf13/cobra"
)

var (
	width       int
	height      int
	size        string
	frames      string
	layout      string
	randomCount int
	shapeSize   float64
	dt          float64
	gravity     float64
	softening   float64
	iterations  int
	step        int
	policy      string
	forceLaw    string
	colorMode   string
	fullRange   bool
	workers     int
	seed        int64
	// output
	noSave       bool
	name         string
	saveIn       string
	timestampDir bool
	gifOut       bool
	gifDelay     int
	verbose      bool
	interactive  bool
	// config file and preset
	configFile string
	preset     string
	// inspection
	dataDir    string
	traceSteps int
	svgOut     string
	scanPoints int
	scanMin    float64
	scanMax    float64
	// batch and sweep
	batchDir   string
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	parallel   int
)

// main registers the gravsnap commands and runs the root command. With no
// subcommand it renders into a window, like the classic single binary.
func main() {
	rootCmd := &cobra.Command{
		Use:           "gravsnap",
		Short:         "gravity basin snapshot renderer",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runLive,
	}
	addRenderFlags(rootCmd)

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render frames to files without a display",
		Args:  cobra.NoArgs,
		RunE:  runRender,
	}
	addRenderFlags(renderCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "render frames into a window",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addRenderFlags(liveCmd)

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "render frames with a terminal preview",
		Args:  cobra.NoArgs,
		RunE:  runPreview,
	}
	addRenderFlags(previewCmd)

	interactiveCmd := &cobra.Command{
		Use:   "interactive",
		Short: "drop single particles with the mouse and watch them fall",
		Args:  cobra.NoArgs,
		RunE:  runInteractive,
	}
	addRenderFlags(interactiveCmd)

	traceCmd := &cobra.Command{
		Use:   "trace [x] [y]",
		Short: "follow the particle released at one pixel",
		Args:  cobra.ExactArgs(2),
		RunE:  runTrace,
	}
	addRenderFlags(traceCmd)
	traceCmd.Flags().IntVar(&traceSteps, "steps", 500, "number of steps to trace")
	traceCmd.Flags().StringVar(&svgOut, "svg", "", "write the path to an svg file")
	traceCmd.Flags().IntVar(&scanPoints, "scan", 0, "also scan the pixel's basin over this many gravity values")
	traceCmd.Flags().Float64Var(&scanMin, "scan-min", 5, "lowest gravity of the scan")
	traceCmd.Flags().Float64Var(&scanMax, "scan-max", 60, "highest gravity of the scan")

	statsCmd := &cobra.Command{
		Use:   "stats [run_dir]",
		Short: "plot the per-frame metrics of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  runStats,
	}
	statsCmd.Flags().StringVar(&dataDir, "data", ".", "directory run dirs are relative to")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
	listCmd.Flags().StringVar(&dataDir, "data", ".", "directory holding runs")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the resolved configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE:  writeConfig,
	}
	addRenderFlags(configCmd)

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "render every step of a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().StringVar(&batchDir, "out", "batch", "directory for the step outputs")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "render one configuration across a parameter range",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addRenderFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "gravity", "parameter to vary: gravity, dt, softening or shape_size")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 10, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 50, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "count", 5, "number of values")
	sweepCmd.Flags().IntVar(&parallel, "parallel", 2, "renders running at once")
	sweepCmd.Flags().StringVar(&batchDir, "out", "sweep", "directory for the outputs")

	rootCmd.AddCommand(renderCmd, liveCmd, previewCmd, interactiveCmd, traceCmd, statsCmd, listCmd, presetsCmd, configCmd, batchCmd, sweepCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, viz.Err(err))
		os.Exit(1)
	}
}

func addRenderFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&width, "width", config.DefaultWidth, "frame width")
	f.IntVar(&height, "height", config.DefaultHeight, "frame height")
	f.StringVar(&size, "size", "", "frame size as WxH")
	f.StringVar(&frames, "frames", "1", `number of frames to render, "inf" to continue until stopped`)
	f.StringVar(&layout, "shape", "triangle", "attractor layout: triangle, line, random or nrandom")
	f.IntVar(&randomCount, "random-count", 3, "number of attractors for the nrandom layout")
	f.Float64Var(&shapeSize, "shape-size", config.DefaultShapeSize, "height for triangle, width for line")
	f.Float64Var(&dt, "dt", config.DefaultDt, "time step")
	f.Float64Var(&gravity, "gravity", config.DefaultGravity, "force of gravity")
	f.Float64Var(&softening, "softening", config.DefaultSoftening, "softening added to the squared distance")
	f.IntVarP(&iterations, "iterations", "i", config.DefaultIterations, "initial number of iterations per frame")
	f.IntVar(&step, "step", config.DefaultStep, "iterations added per frame")
	f.StringVar(&policy, "policy", "continue", "frame policy: restart, continue or growing")
	f.StringVar(&forceLaw, "force-law", "inverse-square", "force law: inverse-square or basin")
	f.StringVar(&colorMode, "color-mode", "weighted", "colouring: weighted, weighted-total or nearest")
	f.BoolVar(&fullRange, "full-range", false, "let non-winning channels reach 255")
	f.IntVar(&workers, "workers", 0, "render workers, 0 for one per cpu")
	f.Int64Var(&seed, "seed", 0, "seed for random layouts, 0 for the clock")
	f.BoolVar(&noSave, "ns", false, "no save, don't write the frames")
	f.StringVar(&name, "name", config.DefaultName, "base file name")
	f.StringVar(&saveIn, "save-in", "./", "save directory")
	f.BoolVarP(&timestampDir, "timestamp-dir", "g", false, "save into a child directory named after the current time")
	f.BoolVar(&gifOut, "gif", false, "also write an animated gif of the run")
	f.IntVar(&gifDelay, "gif-delay", config.DefaultGIFDelay, "gif frame delay in 1/100 s")
	f.BoolVarP(&verbose, "verbose", "v", false, "print the settings before rendering")
	f.BoolVar(&interactive, "interactive", false, "show the interactive single particle view instead")
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig layers the preset, the config file and the changed flags, in
// that order.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("size") {
		w, h, err := parseSize(size)
		if err != nil {
			return nil, err
		}
		cfg.Width, cfg.Height = w, h
	}
	if f.Changed("width") {
		cfg.Width = width
	}
	if f.Changed("height") {
		cfg.Height = height
	}
	if f.Changed("frames") {
		n, err := parseFrames(frames)
		if err != nil {
			return nil, err
		}
		cfg.Frames = n
	}
	if f.Changed("shape") {
		cfg.Layout = layout
	}
	if f.Changed("random-count") {
		cfg.RandomCount = randomCount
	}
	if f.Changed("shape-size") {
		cfg.ShapeSize = shapeSize
	}
	if f.Changed("dt") {
		cfg.Dt = dt
	}
	if f.Changed("gravity") {
		cfg.Gravity = gravity
	}
	if f.Changed("softening") {
		cfg.Softening = softening
	}
	if f.Changed("iterations") {
		cfg.Iterations = iterations
	}
	if f.Changed("step") {
		cfg.Step = step
	}
	if f.Changed("policy") {
		cfg.Policy = policy
	}
	if f.Changed("force-law") {
		cfg.ForceLaw = forceLaw
	}
	if f.Changed("color-mode") {
		cfg.ColorMode = colorMode
	}
	if f.Changed("full-range") {
		cfg.FullRange = fullRange
	}
	if f.Changed("workers") {
		cfg.Workers = workers
	}
	if f.Changed("seed") {
		cfg.Seed = seed
	}
	if f.Changed("ns") {
		cfg.Output.Save = !noSave
	}
	if f.Changed("name") {
		cfg.Output.Name = name
	}
	if f.Changed("save-in") {
		cfg.Output.Dir = saveIn
	}
	if f.Changed("timestamp-dir") {
		cfg.Output.TimestampDir = timestampDir
	}
	if f.Changed("gif") {
		cfg.Output.GIF = gifOut
	}
	if f.Changed("gif-delay") {
		cfg.Output.GIFDelay = gifDelay
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if noSave && f.Changed("save-in") {
		fmt.Println(viz.Warn("save directory is set, but so is the no-save flag.\n         Output will not be saved!"))
	}
	return cfg, nil
}

// parseFrames accepts a frame count or "inf" for an unbounded run.
func parseFrames(s string) (int, error) {
	if strings.EqualFold(s, "inf") {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &dynamo.FieldError{Field: "frames", Reason: fmt.Sprintf("want a number or inf, got %q", s)}
	}
	return n, nil
}

func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, &dynamo.FieldError{Field: "size", Reason: fmt.Sprintf("want WxH, got %q", s)}
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, &dynamo.FieldError{Field: "size", Reason: fmt.Sprintf("bad width %q", ws)}
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, &dynamo.FieldError{Field: "size", Reason: fmt.Sprintf("bad height %q", hs)}
	}
	return w, h, nil
}

func printSettings(cfg *config.Config) {
	framesLabel := strconv.Itoa(cfg.Frames)
	if cfg.Frames == 0 {
		framesLabel = "inf"
	}
	fmt.Println(viz.Field("Size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height)))
	fmt.Println(viz.Field("Shape", fmt.Sprintf("%s (%g)", cfg.Layout, cfg.ShapeSize)))
	fmt.Println(viz.Field("Frames", framesLabel))
	fmt.Println(viz.Field("Iterations", cfg.Iterations))
	fmt.Println(viz.Field("Step", cfg.Step))
	fmt.Println(viz.Field("Policy", cfg.Policy))
	fmt.Println(viz.Field("Force law", cfg.ForceLaw))
	fmt.Println(viz.Field("dt", fmt.Sprintf("%f", cfg.Dt)))
	fmt.Println(viz.Field("Gravity", fmt.Sprintf("%f", cfg.Gravity)))
	fmt.Println()
}

package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/gravbox/internal/analysis"
	"github.com/san-kum/gravbox/internal/body"
	"github.com/san-kum/gravbox/internal/config"
	"github.com/san-kum/gravbox/internal/export"
	"github.com/san-kum/gravbox/internal/geom"
	"github.com/san-kum/gravbox/internal/integrators"
	"github.com/san-kum/gravbox/internal/metrics"
	"github.com/san-kum/gravbox/internal/observability"
	"github.com/san-kum/gravbox/internal/sandbox"
	"github.com/san-kum/gravbox/internal/sim"
	"github.com/san-kum/gravbox/internal/storage"
	"github.com/san-kum/gravbox/internal/viz"
)

var (
	dataDir    string
	configFile string
	cfg        *config.Config

	// overrides, applied only when the flag is set
	ups        float64
	integrator string
	speedLevel int
	gravity    float64
	trailCap   int

	duration   float64
	frameDelta float64
	outPath    string
	bodyIndex  int
	axis       string
	benchTicks int
	svgWidth   int
	svgHeight  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "gravbox",
		Short:             "2d gravity sandbox",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) { observability.Sync() },
		RunE:              runLive,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravbox", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./gravbox.yaml)")
	rootCmd.PersistentFlags().Float64Var(&ups, "ups", config.DefaultUpdatesPerSecond, "fixed updates per second")
	rootCmd.PersistentFlags().StringVar(&integrator, "integrator", integrators.Default, "integrator (symplectic, euler)")
	rootCmd.PersistentFlags().IntVar(&speedLevel, "speed", 0, "speed level, 1.5^level x real time; negative runs backwards")
	rootCmd.PersistentFlags().Float64Var(&gravity, "g", 0, "gravitational constant override")
	rootCmd.PersistentFlags().IntVar(&trailCap, "trail", body.DefaultTrailCapacity, "trail length per body")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "interactive terminal sandbox",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene headless and record it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHeadless,
	}
	runCmd.Flags().Float64Var(&duration, "time", 10, "wall-clock seconds to simulate")
	runCmd.Flags().Float64Var(&frameDelta, "frame", 1.0/60, "wall seconds per tick")

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list built-in scenes",
		RunE:  listScenes,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and trajectories of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "output", "o", "-", "output file, - for stdout")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "output", "o", "-", "output file, - for stdout")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render run trajectories to svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "output", "o", "trajectories.svg", "output file")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "dominant period of a body coordinate",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&bodyIndex, "body", 1, "body index")
	analyzeCmd.Flags().StringVar(&axis, "axis", "x", "coordinate (x or y)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run every scene concurrently and report throughput",
		RunE:  bench,
	}
	benchCmd.Flags().IntVar(&benchTicks, "ticks", 2000, "ticks per scene")

	rootCmd.AddCommand(liveCmd, runCmd, scenesCmd, listCmd, plotCmd,
		exportJSONCmd, exportCSVCmd, exportSVGCmd, analyzeCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		observability.GetLogger().Error("command failed", zap.Error(err))
		observability.Sync()
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup loads the config, applies explicit flags on top and starts logging.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configFile)
	if err != nil {
		return err
	}
	applyOverrides(cmd, loaded)
	if len(args) > 0 && acceptsScene(cmd) {
		loaded.Scene = args[0]
		loaded.Bodies = nil
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	if cmd.Name() == "live" || cmd.Parent() == nil {
		observability.InitializeQuiet(cfg.Logger)
	} else {
		observability.InitializeLogger(cfg.Logger)
	}
	return nil
}

func acceptsScene(cmd *cobra.Command) bool {
	return cmd.Name() == "live" || cmd.Name() == "run" || cmd.Parent() == nil
}

func applyOverrides(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("ups") {
		c.UpdatesPerSecond = ups
	}
	if flags.Changed("integrator") {
		c.Integrator = integrator
	}
	if flags.Changed("speed") {
		c.SpeedLevel = speedLevel
	}
	if flags.Changed("g") {
		c.GravityConstant = gravity
	}
	if flags.Changed("trail") {
		c.TrailCapacity = trailCap
	}
}

func newSandbox(c *config.Config, logger *zap.Logger) (*sandbox.Sandbox, error) {
	sb, err := sandbox.New(c.SandboxConfig(geom.Vec2{}), sandbox.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	bodies, err := c.BuildBodies()
	if err != nil {
		return nil, err
	}
	for _, b := range bodies {
		sb.MustAddBody(b)
	}
	return sb, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	logger := observability.GetLogger()
	sb, err := newSandbox(cfg, logger.Named("sandbox"))
	if err != nil {
		return err
	}
	scene := cfg.Scene
	if len(cfg.Bodies) > 0 {
		scene = "custom"
	}
	logger.Info("live session", zap.String("scene", scene), zap.Int("bodies", sb.World().Len()))
	return viz.Run(viz.NewModel(sb, scene, cfg.BuildBodies, logger.Named("viz")))
}

// simulation is a headless run of the active scene.
type simulation struct {
	world    *sim.World
	recorder *storage.Recorder
	drift    *metrics.EnergyDrift
}

func newSimulation(c *config.Config, logger *zap.Logger) (*simulation, error) {
	w, err := sim.NewWorld(c.SimConfig(), sim.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if c.SpeedLevel != 0 {
		w.SetRelativeSpeed(c.SpeedLevel)
	}
	bodies, err := c.BuildBodies()
	if err != nil {
		return nil, err
	}
	for _, b := range bodies {
		if err := w.AddBody(b); err != nil {
			return nil, err
		}
	}

	s := &simulation{
		world:    w,
		recorder: storage.NewRecorder(bodies),
		drift:    metrics.NewEnergyDrift(w.ForceModel().G),
	}
	w.AddObserver(s.recorder)
	w.AddMetric(s.drift)
	w.AddMetric(metrics.NewEnergy(w.ForceModel().G))
	w.AddMetric(metrics.NewMomentum())
	w.AddMetric(metrics.NewStability(1e3 * sceneExtent(bodies)))
	return s, nil
}

// sceneExtent is the largest distance of a body from the origin, used to
// decide when a body has escaped.
func sceneExtent(bodies []*body.Body) float64 {
	extent := 1.0
	for _, b := range bodies {
		extent = math.Max(extent, b.Position.Len()+b.Radius)
	}
	return extent
}

func (s *simulation) run(ctx context.Context, ticks int, delta float64) error {
	for i := 0; i < ticks; i++ {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		s.world.Tick(delta)
	}
	return nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	if frameDelta <= 0 || duration <= 0 {
		return fmt.Errorf("--time and --frame must be positive")
	}
	logger := observability.GetLogger()
	s, err := newSimulation(cfg, logger.Named("world"))
	if err != nil {
		return err
	}

	ticks := int(math.Round(duration / frameDelta))
	start := time.Now()
	if err := s.run(cmd.Context(), ticks, frameDelta); err != nil {
		return err
	}
	elapsed := time.Since(start)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Scene:            cfg.Scene,
		Duration:         s.world.Clock(),
		Timestep:         s.world.Timestep(),
		UpdatesPerSecond: s.world.UpdatesPerSecond(),
		Integrator:       s.world.Integrator().Name(),
		G:                s.world.ForceModel().G,
		Steps:            s.world.StepsTaken(),
		Metrics:          s.world.Metrics(),
	}, s.recorder.Recording())
	if err != nil {
		return err
	}
	logger.Info("run saved",
		zap.String("id", runID),
		zap.Uint64("steps", s.world.StepsTaken()),
		zap.Duration("elapsed", elapsed),
	)

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("scene: %s\n", cfg.Scene)
	fmt.Printf("sim time: %.3fs in %d steps (%v)\n", s.world.Clock(), s.world.StepsTaken(), elapsed.Round(time.Millisecond))
	printMetrics(s.world.Metrics())
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-16s %.6g\n", name, m[name])
	}
}

func listScenes(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENE\tBODIES\tDESCRIPTION")
	for _, name := range config.ListScenes() {
		sc, _ := config.GetScene(name)
		fmt.Fprintf(w, "%s\t%d\t%s\n", sc.Name, len(sc.Bodies), sc.Description)
	}
	return w.Flush()
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
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tSIM TIME\tDT\tSTEPS\tINTEG")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%gs\t%d\t%s\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Timestep,
			run.Steps,
			run.Integrator,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, rec, err := storage.New(dataDir).LoadRecording(args[0])
	if err != nil {
		return err
	}
	if len(rec.Samples) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(rec.Samples))

	fmt.Println(asciigraph.Plot(rec.TotalEnergy(),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("total energy"),
	))
	fmt.Println()

	const maxPlots = 4
	for i, b := range rec.Bodies {
		if i == maxPlots {
			break
		}
		xs, ys := finite(rec.Series(i, "x")), finite(rec.Series(i, "y"))
		if len(xs) < 2 {
			continue
		}
		fmt.Println(asciigraph.PlotMany([][]float64{xs, ys},
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
			asciigraph.Caption(fmt.Sprintf("%s x (red) y (blue)", b.Name)),
		))
		fmt.Println()
	}
	return nil
}

func finite(xs []float64) []float64 {
	out := xs[:0:0]
	for _, x := range xs {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			out = append(out, x)
		}
	}
	return out
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, rec, err := storage.New(dataDir).LoadRecording(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSONFile(outPath, *meta, rec)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, rec, err := storage.New(dataDir).LoadRecording(args[0])
	if err != nil {
		return err
	}
	if outPath == "-" {
		return storage.WriteCSV(os.Stdout, rec)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := storage.WriteCSV(f, rec); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %d samples to %s\n", len(rec.Samples), outPath)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, rec, err := storage.New(dataDir).LoadRecording(args[0])
	if err != nil {
		return err
	}
	svg := export.TrajectoriesToSVG(export.TrajectoriesFromRecording(rec), svgWidth, svgHeight)
	if svg == "" {
		return fmt.Errorf("run has no positions to draw")
	}
	if err := os.WriteFile(outPath, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, rec, err := storage.New(dataDir).LoadRecording(args[0])
	if err != nil {
		return err
	}
	if bodyIndex < 0 || bodyIndex >= len(rec.Bodies) {
		return fmt.Errorf("body index %d out of range (run has %d bodies)", bodyIndex, len(rec.Bodies))
	}
	axis = strings.ToLower(axis)
	if axis != "x" && axis != "y" {
		return fmt.Errorf("axis must be x or y, got %q", axis)
	}

	times := rec.Times()
	if len(times) < 2 {
		return fmt.Errorf("no data")
	}
	// samples are taken once per tick, so the sample interval is the
	// average clock advance between them
	dt := (times[len(times)-1] - times[0]) / float64(len(times)-1)

	series := rec.Series(bodyIndex, axis)
	period, err := analysis.DominantPeriod(series, dt)
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("body: %s (%s)\n\n", rec.Bodies[bodyIndex].Name, axis)

	ps := analysis.PowerSpectrum(analysis.Window(series))
	if len(ps) > 4 {
		fmt.Println(asciigraph.Plot(ps[1:len(ps)/4+1],
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum"),
		))
		fmt.Println()
	}

	fmt.Printf("sample interval: %.4g s\n", dt)
	fmt.Printf("dominant period: %.4g s\n", period)
	fmt.Printf("frequency: %.4g hz\n", 1/period)
	return nil
}

type benchResult struct {
	scene   string
	bodies  int
	steps   uint64
	elapsed time.Duration
}

// bench runs every built-in scene on its own goroutine.
func bench(cmd *cobra.Command, args []string) error {
	if benchTicks <= 0 {
		return fmt.Errorf("--ticks must be positive")
	}
	scenes := config.ListScenes()
	var (
		mu      sync.Mutex
		results []benchResult
	)

	g, ctx := errgroup.WithContext(cmd.Context())
	for _, name := range scenes {
		name := name
		g.Go(func() error {
			c := *cfg
			c.Scene = name
			c.Bodies = nil
			s, err := newSimulation(&c, zap.NewNop())
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			start := time.Now()
			if err := s.run(ctx, benchTicks, 1.0/60); err != nil {
				return err
			}
			mu.Lock()
			results = append(results, benchResult{
				scene:   name,
				bodies:  s.world.Len(),
				steps:   s.world.StepsTaken(),
				elapsed: time.Since(start),
			})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].scene < results[j].scene })
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENE\tBODIES\tSTEPS\tTIME\tSTEPS/SEC")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%.0f\n",
			r.scene, r.bodies, r.steps, r.elapsed.Round(time.Microsecond), float64(r.steps)/r.elapsed.Seconds())
	}
	return w.Flush()
}

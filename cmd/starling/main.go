package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/halcyonlab/starling/internal/automation"
	"github.com/halcyonlab/starling/internal/backend"
	"github.com/halcyonlab/starling/internal/config"
	"github.com/halcyonlab/starling/internal/engine"
	"github.com/halcyonlab/starling/internal/export"
	"github.com/halcyonlab/starling/internal/observability"
	"github.com/halcyonlab/starling/internal/telemetry"
	"github.com/halcyonlab/starling/internal/trace"
	"github.com/halcyonlab/starling/internal/tui"
	"github.com/halcyonlab/starling/internal/viz"
	"github.com/halcyonlab/starling/internal/voice"
)

var (
	dataDir    string
	verbose    bool
	duration   float64
	rate       int
	preset     string
	configFile string
	seed       uint32
	agents     int
	fast       bool
	watch      bool
	every      int
	save       bool
	theme      string
	svgPath    string
)

// frameKeeper retains the newest frame so a finished run can still be
// rendered.
type frameKeeper struct {
	last engine.Frame
	has  bool
}

func (k *frameKeeper) OnFrame(fr engine.Frame) {
	k.last = fr
	k.has = true
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "starling",
		Short: "flocking modulation engine",
		RunE:  runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".starling", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the engine headless",
		RunE:  runHeadless,
	}
	runCmd.Flags().Float64Var(&duration, "time", 10.0, "run duration in seconds")
	runCmd.Flags().IntVar(&rate, "rate", 20, "tick rate (wall clock)")
	runCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().Uint32Var(&seed, "seed", 0, "pin the trajectory seed")
	runCmd.Flags().IntVar(&agents, "agents", 0, "agent count")
	runCmd.Flags().BoolVar(&fast, "fast", false, "tick without real-time pacing")
	runCmd.Flags().BoolVar(&watch, "watch", false, "render an ascii field while running")
	runCmd.Flags().IntVar(&every, "every", 2, "render one frame out of this many (with --watch)")
	runCmd.Flags().BoolVar(&save, "save", false, "persist the run under the data directory")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write a final-field svg snapshot to this path")

	playCmd := &cobra.Command{
		Use:   "play [scene.yaml]",
		Short: "play a scripted scene",
		Args:  cobra.ExactArgs(1),
		RunE:  playScene,
	}
	playCmd.Flags().IntVar(&rate, "rate", 20, "tick rate (wall clock)")
	playCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")
	playCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	playCmd.Flags().Uint32Var(&seed, "seed", 0, "pin the trajectory seed")
	playCmd.Flags().BoolVar(&fast, "fast", false, "tick without real-time pacing")
	playCmd.Flags().BoolVar(&watch, "watch", false, "render an ascii field while running")
	playCmd.Flags().IntVar(&every, "every", 2, "render one frame out of this many (with --watch)")
	playCmd.Flags().BoolVar(&save, "save", false, "persist the run under the data directory")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal view",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().Uint32Var(&seed, "seed", 0, "pin the trajectory seed")
	liveCmd.Flags().StringVar(&theme, "theme", "", "color theme")

	presetsCmd := &cobra.Command{
		Use:   "presets [category]",
		Short: "list built-in presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list persisted runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a persisted run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the magnitude curve as svg to this path")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "configuration file helpers",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  configInit,
	}
	configShowCmd := &cobra.Command{
		Use:   "show [path]",
		Short: "print a config file with defaults applied",
		Args:  cobra.MaximumNArgs(1),
		RunE:  configShow,
	}
	configCmd.AddCommand(configInitCmd, configShowCmd)

	rootCmd.AddCommand(runCmd, playCmd, liveCmd, presetsCmd, runsCmd, plotCmd, exportCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveRecord builds the starting record: defaults, then preset, then
// config file, then explicit flags, strongest last.
func resolveRecord(cmd *cobra.Command) (*config.Record, error) {
	cfg := config.DefaultRecord()

	if preset != "" {
		p := config.FindPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s", preset)
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
		cfg.SeedLocked = true
	}
	if cmd.Flags().Changed("agents") {
		cfg.AgentCount = agents
	}
	cfg.Clamp()
	return cfg, nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	if rate < 1 {
		return fmt.Errorf("rate must be at least 1")
	}
	if duration <= 0 {
		return fmt.Errorf("time must be positive")
	}

	cfg, err := resolveRecord(cmd)
	if err != nil {
		return err
	}

	logger := observability.InitLogger("starling", verbose)
	tr := backend.NewDebug(logger)
	pacer := engine.NewManual()
	eng := engine.New(cfg, tr, pacer, logger)

	router := voice.NewRouter(tr, logger)
	eng.SetGeneratorRoute(router.Route)

	collector := telemetry.NewCollector()
	eng.AddObserver(collector)

	keeper := &frameKeeper{}
	if svgPath != "" {
		eng.AddObserver(keeper)
	}

	if watch {
		watcher := tui.NewWatcher(every)
		eng.AddObserver(watcher)
		watcher.Start()
		defer watcher.Stop()
	}

	eng.Start()
	if !eng.Running() {
		return fmt.Errorf("engine did not start")
	}

	ticks := int(duration * float64(rate))
	start := time.Now()

	if fast {
		for i := 0; i < ticks; i++ {
			pacer.Fire()
		}
	} else {
		ticker := time.NewTicker(time.Second / time.Duration(rate))
		defer ticker.Stop()
		for i := 0; i < ticks; i++ {
			<-ticker.C
			pacer.Fire()
		}
	}

	eng.Stop()

	if svgPath != "" && keeper.has {
		canvas := viz.NewCanvas(60, 16)
		viz.DrawField(canvas, keeper.last)
		if err := export.WriteSVG(svgPath, export.CanvasSVG(canvas, 6)); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}

	return report(eng, collector, time.Since(start))
}

func playScene(cmd *cobra.Command, args []string) error {
	if rate < 1 {
		return fmt.Errorf("rate must be at least 1")
	}

	sc, err := automation.LoadScene(args[0])
	if err != nil {
		return err
	}

	cfg, err := resolveRecord(cmd)
	if err != nil {
		return err
	}

	logger := observability.InitLogger("starling", verbose)
	tr := backend.NewDebug(logger)
	pacer := engine.NewManual()
	eng := engine.New(cfg, tr, pacer, logger)

	router := voice.NewRouter(tr, logger)
	eng.SetGeneratorRoute(router.Route)

	collector := telemetry.NewCollector()
	eng.AddObserver(collector)

	if watch {
		watcher := tui.NewWatcher(every)
		eng.AddObserver(watcher)
		watcher.Start()
		defer watcher.Stop()
	}

	runner := automation.NewRunner(eng, pacer, rate, logger)
	runner.SetFast(fast)

	start := time.Now()
	if err := runner.Play(context.Background(), sc); err != nil {
		eng.Stop()
		return err
	}
	eng.Stop()

	fmt.Printf("scene %q finished\n", sc.Name)
	return report(eng, collector, time.Since(start))
}

// report prints the end-of-run summary and graph, persisting the run when
// --save was given.
func report(eng *engine.Engine, collector *telemetry.Collector, elapsed time.Duration) error {
	s := collector.Summary()
	fmt.Printf("completed %d ticks in %v\n", s.Ticks, elapsed.Round(time.Millisecond))
	fmt.Printf("seed: %d\n", eng.Config().Seed)
	fmt.Println("\nsummary:")
	fmt.Printf("  mean cells:     %.2f\n", s.MeanCells)
	fmt.Printf("  mean targets:   %.2f\n", s.MeanTargets)
	fmt.Printf("  mean magnitude: %.4f\n", s.MeanMagnitude)
	fmt.Printf("  std magnitude:  %.4f\n", s.StdMagnitude)
	fmt.Printf("  peak offset:    %.4f\n", s.PeakOffset)

	rows := collector.Rows()
	if len(rows) > 1 {
		data := make([]float64, len(rows))
		for i, r := range rows {
			data[i] = r.Magnitude
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("bus magnitude"),
		))
	}

	if save {
		st := trace.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(eng.ExportPreset(), eng.Config().Seed, rate, rows, s)
		if err != nil {
			return err
		}
		fmt.Printf("\nrun id: %s\n", id)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveRecord(cmd)
	if err != nil {
		return err
	}

	if theme != "" {
		viz.SetTheme(theme)
	}

	// The TUI owns stdout, so the engine logs nowhere in live mode.
	logger := zerolog.Nop()
	mem := backend.NewMemory(256)
	pacer := engine.NewManual()
	eng := engine.New(cfg, mem, pacer, logger)

	router := voice.NewRouter(mem, logger)
	eng.SetGeneratorRoute(router.Route)

	return viz.Run(eng, pacer, mem)
}

func listPresets(cmd *cobra.Command, args []string) error {
	cats := make([]string, 0, len(config.Presets))
	for c := range config.Presets {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	if len(args) == 1 {
		names := config.ListPresets(args[0])
		if len(names) == 0 {
			fmt.Printf("no presets for category: %s\n", args[0])
			return nil
		}
		cats = args[:1]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tNAME\tAGENTS\tDISPERSION\tENERGY\tFADE\tDEPTH")
	for _, cat := range cats {
		for _, name := range config.ListPresets(cat) {
			p := config.GetPreset(cat, name)
			if p == nil {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\n",
				cat, name, p.AgentCount, p.Dispersion, p.Energy, p.Fade, p.Depth)
		}
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := trace.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tTICKS\tRATE\tSEED\tPEAK")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%.4f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.Rate,
			run.Seed,
			run.Summary.PeakOffset,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := trace.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	rows, err := st.LoadRows(args[0])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("ticks: %d  rate: %d  seed: %d\n\n", meta.Ticks, meta.Rate, meta.Seed)

	mags := make([]float64, len(rows))
	cells := make([]float64, len(rows))
	for i, r := range rows {
		mags[i] = r.Magnitude
		cells[i] = float64(r.Cells)
	}

	fmt.Println(asciigraph.Plot(mags,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("bus magnitude"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(cells,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("active cells"),
	))

	if svgPath != "" {
		if err := export.WriteSVG(svgPath, export.CurveSVG(mags, 640, 240)); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := trace.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func configInit(cmd *cobra.Command, args []string) error {
	path := "starling.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	if err := config.Save(path, config.DefaultRecord()); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func configShow(cmd *cobra.Command, args []string) error {
	path := "starling.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}

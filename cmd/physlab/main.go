package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"physlab/internal/analysis"
	"physlab/internal/clock"
	"physlab/internal/config"
	"physlab/internal/export"
	"physlab/internal/integrators"
	"physlab/internal/log"
	"physlab/internal/metrics"
	"physlab/internal/observe"
	"physlab/internal/physics"
	"physlab/internal/recorder"
	"physlab/internal/sim"
	"physlab/internal/storage"
	"physlab/internal/tui"
)

var (
	dataDir     string
	logLevel    string
	jsonLogs    bool
	dt          float64
	duration    float64
	angle       float64
	omega       float64
	pos         float64
	vel         float64
	solverName  string
	configFile  string
	preset      string
	metricsAddr string
	frameRate   int
	capacity    int

	xSlot       int
	ySlot       int
	crossSlot   int
	threshold   float64
	plotWidth   int
	plotHeight  int
	strokeColor string
)

// simModel is what the CLI needs from a physics model: the ODE contract,
// tunable parameters, energy readout and initial conditions.
type simModel interface {
	sim.ODESim
	Energy() float64
	ParameterNumber(name string) (*observe.ParameterNumber, error)
	SetInitialState(a, b float64)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "physlab",
		Short: "reactive physics simulation lab",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Init(log.Config{Level: log.Level(logLevel), JSONOutput: jsonLogs})
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".physlab", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "emit JSON logs")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run simulation and save results",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "expose prometheus metrics on this address")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export full run data as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "plot a phase portrait of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&xSlot, "x", 0, "x-axis variable slot")
	phaseCmd.Flags().IntVar(&ySlot, "y", 1, "y-axis variable slot")
	phaseCmd.Flags().IntVar(&crossSlot, "poincare", -1, "take a Poincaré section on this slot instead")
	phaseCmd.Flags().Float64Var(&threshold, "threshold", 0, "section crossing threshold")
	phaseCmd.Flags().IntVar(&plotWidth, "width", 72, "plot width in characters")
	phaseCmd.Flags().IntVar(&plotHeight, "height", 24, "plot height in characters")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "export a run trajectory as SVG on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  svgExport,
	}
	svgCmd.Flags().IntVar(&xSlot, "x", 0, "x-axis variable slot")
	svgCmd.Flags().IntVar(&ySlot, "y", 1, "y-axis variable slot")
	svgCmd.Flags().IntVar(&plotWidth, "width", 800, "image width in pixels")
	svgCmd.Flags().IntVar(&plotHeight, "height", 600, "image height in pixels")
	svgCmd.Flags().StringVar(&strokeColor, "color", "#00ff00", "stroke color")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "run simulation with live terminal view",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, phaseCmd, svgCmd, exportCmd, exportJSONCmd, exportCSVCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Float64Var(&angle, "angle", 0.5, "initial angle (pendulum)")
	cmd.Flags().Float64Var(&omega, "omega", 0.0, "initial angular velocity (pendulum)")
	cmd.Flags().Float64Var(&pos, "pos", 1.0, "initial position (spring)")
	cmd.Flags().Float64Var(&vel, "vel", 0.0, "initial velocity (spring)")
	cmd.Flags().StringVar(&solverName, "solver", "rk4", "solver (euler|midpoint|rk4)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&capacity, "capacity", config.DefaultCapacity, "samples retained")
}

// resolveConfig merges preset, config file and flags; flags win.
func resolveConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Model = model

	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		*cfg = *p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		*cfg = *loaded
		cfg.Model = model
	}

	if cmd.Flags().Changed("dt") || cfg.Dt == 0 {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") || cfg.Duration == 0 {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("solver") || cfg.Solver == "" {
		cfg.Solver = solverName
	}
	if cfg.Capacity == 0 {
		cfg.Capacity = capacity
	}
	if cmd.Flags().Changed("angle") {
		cfg.InitState.Angle = angle
	}
	if cmd.Flags().Changed("omega") {
		cfg.InitState.Omega = omega
	}
	if cmd.Flags().Changed("pos") {
		cfg.InitState.Position = pos
	}
	if cmd.Flags().Changed("vel") {
		cfg.InitState.Velocity = vel
	}
	return cfg, nil
}

func buildModel(cfg *config.Config) (simModel, error) {
	var (
		m   simModel
		err error
	)
	switch cfg.Model {
	case "pendulum":
		m, err = physics.NewPendulum("pendulum")
	case "spring":
		m, err = physics.NewSpring("spring")
	default:
		return nil, fmt.Errorf("unknown model: %s (available: pendulum, spring)", cfg.Model)
	}
	if err != nil {
		return nil, err
	}

	overrides := map[string]float64{
		physics.ParamMass:       cfg.Params.Mass,
		physics.ParamLength:     cfg.Params.Length,
		physics.ParamGravity:    cfg.Params.Gravity,
		physics.ParamDamping:    cfg.Params.Damping,
		physics.ParamStiffness:  cfg.Params.Stiffness,
		physics.ParamRestLength: cfg.Params.RestLength,
	}
	for name, value := range overrides {
		if value == 0 {
			continue
		}
		p, err := m.ParameterNumber(name)
		if err != nil {
			continue
		}
		if err := p.SetValue(value); err != nil {
			return nil, fmt.Errorf("set %s: %w", name, err)
		}
	}

	a, b := cfg.GetInitState()
	m.SetInitialState(a, b)
	return m, nil
}

func buildSolver(name string) (sim.Solver, error) {
	switch name {
	case "euler":
		return integrators.NewEuler(), nil
	case "midpoint", "modified_euler":
		return integrators.NewModifiedEuler(), nil
	case "rk4", "":
		return integrators.NewRK4(), nil
	default:
		return nil, fmt.Errorf("unknown solver: %s (available: euler, midpoint, rk4)", name)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	if metricsAddr != "" {
		metrics.Serve(metricsAddr)
	}

	m, err := buildModel(cfg)
	if err != nil {
		return err
	}
	solver, err := buildSolver(cfg.Solver)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	clk := clock.New("sim clock")
	runner, err := sim.NewRunner(m, solver, clk, cfg.Dt)
	if err != nil {
		return err
	}
	rec := recorder.New(m.Vars(), cfg.Capacity)
	runner.OnStep(func(float64) { _, _ = rec.Record() })

	e0 := m.Energy()
	fmt.Printf("running %s simulation...\n", cfg.Model)
	start := time.Now()
	if err := runner.RunFixed(context.Background(), cfg.Duration); err != nil {
		return err
	}
	elapsed := time.Since(start)

	eFinal := m.Energy()
	drift := 0.0
	if e0 != 0 {
		drift = math.Abs(eFinal-e0) / math.Abs(e0)
	}
	metrics.EnergyDrift.Set(drift)

	meta := storage.RunMetadata{
		Model:    cfg.Model,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		Solver:   cfg.Solver,
		Totals:   runner.Totals(),
	}
	meta.Energy.Initial = e0
	meta.Energy.Final = eFinal
	meta.Energy.Drift = drift
	for _, p := range m.Vars().Parameters() {
		meta.VarNames = append(meta.VarNames, p.Name())
	}

	runID, err := st.Save(meta, rec)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("%s\n", runner.Totals())
	fmt.Printf("energy drift: %.3e\n", drift)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tDURATION\tDT\tSOLVER\tSAMPLES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%d\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Solver,
			run.Samples,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	names, _, states, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d\n\n", len(states))

	numVars := len(names)
	if numVars > 6 {
		numVars = 6
	}
	for slot := 0; slot < numVars; slot++ {
		data := make([]float64, len(states))
		for i := range states {
			if slot < len(states[i]) {
				data[i] = states[i][slot]
			}
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(names[slot]),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

// loadColumns extracts the named slots from a saved run as series.
func loadColumns(runID string, slots ...int) (names []string, cols [][]float64, err error) {
	allNames, _, states, err := storage.New(dataDir).LoadStates(runID)
	if err != nil {
		return nil, nil, err
	}
	for _, slot := range slots {
		if slot < 0 || slot >= len(allNames) {
			return nil, nil, fmt.Errorf("slot %d out of range (run has %d variables)", slot, len(allNames))
		}
		col := make([]float64, len(states))
		for i, row := range states {
			col[i] = row[slot]
		}
		names = append(names, allNames[slot])
		cols = append(cols, col)
	}
	return names, cols, nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	var portrait *analysis.PhasePortrait
	if crossSlot >= 0 {
		names, cols, err := loadColumns(args[0], crossSlot, xSlot, ySlot)
		if err != nil {
			return err
		}
		portrait = analysis.Poincare(cols[0], threshold, cols[1], cols[2])
		portrait.XName, portrait.YName = names[1], names[2]
		fmt.Printf("poincaré section: %s crossing %.3f upward, %d points\n\n",
			names[0], threshold, len(portrait.Points))
	} else {
		names, cols, err := loadColumns(args[0], xSlot, ySlot)
		if err != nil {
			return err
		}
		portrait = analysis.Portrait(names[0], names[1], cols[0], cols[1])
	}

	out := portrait.ASCII(plotWidth, plotHeight)
	if out == "" {
		return fmt.Errorf("nothing to plot")
	}
	fmt.Print(out)
	fmt.Printf("\nx: %s  y: %s\n", portrait.XName, portrait.YName)
	return nil
}

func svgExport(cmd *cobra.Command, args []string) error {
	names, cols, err := loadColumns(args[0], xSlot, ySlot)
	if err != nil {
		return err
	}
	portrait := analysis.Portrait(names[0], names[1], cols[0], cols[1])
	return export.TrajectorySVG(os.Stdout, portrait, plotWidth, plotHeight, strokeColor)
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	names, times, states, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()
	if err := w.Write(append([]string{"time"}, names...)); err != nil {
		return err
	}
	for i, row := range states {
		record := make([]string, 0, len(row)+1)
		record = append(record, strconv.FormatFloat(times[i], 'f', 6, 64))
		for _, v := range row {
			record = append(record, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	m, err := buildModel(cfg)
	if err != nil {
		return err
	}
	solver, err := buildSolver(cfg.Solver)
	if err != nil {
		return err
	}

	clk := clock.New("sim clock")
	if cfg.TimeRate > 0 {
		clk.SetTimeRate(cfg.TimeRate)
	}
	runner, err := sim.NewRunner(m, solver, clk, cfg.Dt)
	if err != nil {
		return err
	}
	rec := recorder.New(m.Vars(), cfg.Capacity)

	return tui.Run(m, runner, clk, rec, cfg.Model, cfg.Dt, frameRate)
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/san-kum/astrodyn/internal/config"
)

var (
	dataDir  string
	logLevel string
	logger   log.Logger = log.NewNopLogger()

	// Scenario overrides
	preset     string
	configFile string
	saveConfig string
	integrator string
	controller string
	dt         float64
	duration   float64
	adaptive   bool
	tolerance  float64
	seed       int64
	params     []string

	// geo2eci
	elapsed float64

	// ensemble
	runs     int
	sigmaPos float64
	sigmaVel float64

	// plot
	plotWidth int

	// export
	exportFormat string
	exportView   string
	exportSlot   int

	// trace
	traceEvery int

	// sweep
	grid     []string
	metric   string
	maximize bool
)

func main() {
	config.LoadEnv()

	rootCmd := &cobra.Command{
		Use:           "astrodyn",
		Short:         "Earth atmosphere, gravity and reference frame toolkit with a trajectory propagator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(logLevel)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DataDir(), "data directory (env "+config.EnvDataDir+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.LogLevel(), "debug, info, warn or error (env "+config.EnvLogLevel+")")

	atmosCmd := &cobra.Command{
		Use:   "atmos [altitude_m...]",
		Short: "US1976 temperature, pressure and density",
		Args:  cobra.MinimumNArgs(1),
		RunE:  atmos,
	}

	gravityCmd := &cobra.Command{
		Use:   "gravity [x] [y] [z]",
		Short: "J2 gravitational acceleration at an inertial position, m",
		Args:  cobra.ExactArgs(3),
		RunE:  gravityAt,
	}

	geoCmd := &cobra.Command{
		Use:   "geo2eci [lat_deg] [lon_deg] [alt_m]",
		Short: "convert a WGS84 geodetic position to ECEF and ECI",
		Args:  cobra.ExactArgs(3),
		RunE:  geoToECI,
	}
	geoCmd.Flags().Float64Var(&elapsed, "t", 0, "seconds since ECEF and ECI coincided")

	epochCmd := &cobra.Command{
		Use:   "epoch [yyyy-mm-ddThh:mm:ss]",
		Short: "Julian date, seconds since J2000 and sidereal angle",
		Args:  cobra.MaximumNArgs(1),
		RunE:  epochInfo,
	}

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "propagate a scenario and store the run",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().StringVar(&saveConfig, "save-config", "", "write the resolved scenario to a yaml file")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [model]",
		Short: "propagate perturbed copies of a scenario in parallel",
		Args:  cobra.ExactArgs(1),
		RunE:  runEnsemble,
	}
	addScenarioFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&runs, "runs", 16, "number of runs")
	ensembleCmd.Flags().Float64Var(&sigmaPos, "sigma-pos", 100, "1-sigma position noise, m (first element for non-orbital models)")
	ensembleCmd.Flags().Float64Var(&sigmaVel, "sigma-vel", 0.1, "1-sigma velocity noise, m/s")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "propagate a scenario with a live terminal view",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width in columns")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON or SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "json or svg")
	exportCmd.Flags().StringVar(&exportView, "view", "track", "svg view: track, plane or series")
	exportCmd.Flags().IntVar(&exportSlot, "slot", 0, "state element for the series view")

	periodCmd := &cobra.Command{
		Use:   "period [run_id]",
		Short: "estimate the dominant period of each state element of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  periodRun,
	}

	traceCmd := &cobra.Command{
		Use:   "trace [model]",
		Short: "stream a propagation to stdout as CSV without storing it",
		Args:  cobra.ExactArgs(1),
		RunE:  runTrace,
	}
	addScenarioFlags(traceCmd)
	traceCmd.Flags().IntVar(&traceEvery, "every", 1, "print every n-th step")

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run and store every step of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "grid search model parameters for the best run metric",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&grid, "grid", nil, "parameter values name=v1,v2,..., repeatable")
	sweepCmd.Flags().StringVar(&metric, "metric", "min_altitude", "metric to optimize")
	sweepCmd.Flags().BoolVar(&maximize, "maximize", false, "maximize instead of minimize")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
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

	rootCmd.AddCommand(atmosCmd, gravityCmd, geoCmd, epochCmd, runCmd, ensembleCmd, liveCmd, traceCmd, batchCmd, sweepCmd, listCmd, plotCmd, exportCmd, periodCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		level.Error(logger).Log("err", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
	cmd.Flags().StringVar(&controller, "controller", "none", "controller")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep, s")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration, s")
	cmd.Flags().BoolVar(&adaptive, "adaptive", false, "adaptive step size")
	cmd.Flags().Float64Var(&tolerance, "tol", config.DefaultTolerance, "adaptive step tolerance")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringArrayVar(&params, "param", nil, "model parameter name=value, repeatable")
}

// newLogger builds a logfmt logger on stderr filtered at the given level.
func newLogger(lvl string) (log.Logger, error) {
	var opt level.Option
	switch strings.ToLower(lvl) {
	case "debug":
		opt = level.AllowDebug()
	case "info", "":
		opt = level.AllowInfo()
	case "warn", "warning":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		return nil, fmt.Errorf("unknown log level: %s", lvl)
	}
	l := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	l = level.NewFilter(l, opt)
	return log.With(l, "ts", log.DefaultTimestampUTC), nil
}

// resolveScenario layers the scenario sources: defaults, then the preset,
// then the config file, then flags the user set explicitly.
func resolveScenario(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Model = model

	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if loaded.Model != model {
			return nil, fmt.Errorf("config %s is for model %s, not %s", configFile, loaded.Model, model)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("integrator") || (preset == "" && configFile == "") {
		cfg.Integrator = integrator
	}
	if flags.Changed("controller") || (preset == "" && configFile == "") {
		cfg.Controller = controller
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("adaptive") {
		cfg.Adaptive = adaptive
	}
	if flags.Changed("tol") {
		cfg.Tolerance = tolerance
	}
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}

	for _, kv := range params {
		name, val, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("param %q: want name=value", kv)
		}
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("param %s: %w", name, err)
		}
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64)
		}
		cfg.Params[name] = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func newTabWriter() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

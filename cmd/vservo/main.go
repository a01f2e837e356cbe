package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/san-kum/vservo/internal/experiment"
	"github.com/san-kum/vservo/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string
	logger   = slog.Default()

	// Run configuration flags, applied over the preset or config file only
	// when set on the command line.
	configFile  string
	preset      string
	scheme      string
	interaction string
	inversion   string
	dt          float64
	iterations  int
	threshold   float64
	tolerance   float64
	lambda      float64
	adaptive    []float64
	initPose    []float64
	desiredPose []float64
	noSave      bool

	// Automation flags
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
	trials      int
	spreadT     float64
	spreadR     float64
	seed        int64
	tuneLambdas []float64
	tuneMetric  string
	theme       string

	// Trace output flags
	xAxis   int
	yAxis   int
	svgWhat string
	svgOut  string
)

func setupLogger(cmd *cobra.Command, args []string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}
	logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
	return nil
}

func runFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use a preset configuration")
	f.StringVar(&scheme, "scheme", "", "control scheme (default: the scenario's)")
	f.StringVar(&interaction, "interaction", "current", "interaction matrix: current, desired or mean")
	f.StringVar(&inversion, "inversion", "pseudo-inverse", "inversion: pseudo-inverse or transpose")
	f.Float64Var(&dt, "dt", 0.04, "sampling time in seconds")
	f.IntVar(&iterations, "iterations", 1500, "iteration limit")
	f.Float64Var(&threshold, "threshold", 1e-5, "stop when |e| falls below")
	f.Float64Var(&tolerance, "tolerance", 0, "relative pseudo-inverse tolerance (0: default)")
	f.Float64Var(&lambda, "lambda", 1, "constant gain")
	f.Float64SliceVar(&adaptive, "adaptive", nil, "adaptive gain: lambda0,lambdaInf,slope0")
	f.Float64SliceVar(&initPose, "init", nil, "initial pose: x,y,z,rx,ry,rz (meters, degrees)")
	f.Float64SliceVar(&desiredPose, "desired", nil, "desired pose: x,y,z,rx,ry,rz (meters, degrees)")
}

// main registers the commands and runs the scenario menu when no
// subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:               "vservo",
		Short:             "visual servoing simulation lab",
		SilenceUsage:      true,
		PersistentPreRunE: setupLogger,
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunMenu(experiment.NewRegistry(), nil)
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".vservo", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a servo loop and store the trace",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runServo,
	}
	runFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a servo loop with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	runFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "neon", "color theme")

	inspectCmd := &cobra.Command{
		Use:   "inspect [scenario]",
		Short: "print the task after one control-law evaluation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  inspectTask,
	}
	runFlags(inspectCmd)

	benchCmd := &cobra.Command{
		Use:   "bench [scenario]",
		Short: "benchmark the servo loop",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScenario,
	}
	runFlags(benchCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the error norm and velocity of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "decay rate, overshoot and oscillation of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "plot two error components against each other",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", 0, "error component for the x-axis")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", 1, "error component for the y-axis")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a chart of a run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgWhat, "what", "errors", "norm, errors or velocities")
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default stdout)")

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list available scenarios",
		RunE:  listScenarios,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets for a scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  listPresets,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "run the same loop for a range of constant gains",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	runFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.2, "smallest gain")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 2, "largest gain")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of gains")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [scenario]",
		Short: "perturb the initial pose and count converged runs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	runFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 50, "number of trials")
	monteCarloCmd.Flags().Float64Var(&spreadT, "spread-t", 0.05, "translation perturbation in meters")
	monteCarloCmd.Flags().Float64Var(&spreadR, "spread-r", 10, "rotation perturbation in degrees")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0: time based)")

	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "run the steps of a batch file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	tuneCmd := &cobra.Command{
		Use:   "tune [scenario]",
		Short: "grid search the gain minimising a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuneGain,
	}
	runFlags(tuneCmd)
	tuneCmd.Flags().Float64SliceVar(&tuneLambdas, "lambdas", []float64{0.25, 0.5, 1, 2, 4}, "candidate gains")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "convergence_time", "metric to minimise")

	rootCmd.AddCommand(runCmd, liveCmd, inspectCmd, benchCmd, listCmd, plotCmd, analyzeCmd, phaseCmd,
		exportJSONCmd, exportCSVCmd, exportSVGCmd, scenariosCmd, presetsCmd, sweepCmd, monteCarloCmd, batchCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

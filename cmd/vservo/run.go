package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/san-kum/vservo/internal/experiment"
	"github.com/san-kum/vservo/internal/optim"
	"github.com/san-kum/vservo/internal/servo"
	"github.com/san-kum/vservo/internal/storage"
	"github.com/san-kum/vservo/internal/viz"
	"github.com/spf13/cobra"
)

func runServo(cmd *cobra.Command, args []string) error {
	cfg, exp, err := newExperiment(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	task := exp.Task()
	fmt.Printf("running %s (%s, %s)...\n", cfg.Scenario, task.Scheme(), task.Gain())
	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.RunMetadata{
			Scenario:    cfg.Scenario,
			Scheme:      task.Scheme().String(),
			Interaction: task.InteractionMode().String(),
			Inversion:   task.Inversion().String(),
			Gain:        fmt.Sprint(task.Gain()),
			Dt:          cfg.Dt,
			Iterations:  cfg.Iterations,
			Threshold:   cfg.Threshold,
		}, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	fmt.Printf("iterations: %d\n", result.Iterations)
	fmt.Printf("converged: %v\n", result.Converged)
	fmt.Printf("final |e|: %.3e\n", result.FinalNorm())
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	viz.SetTheme(theme)
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	expCfg, err := cfg.ToExperiment()
	if err != nil {
		return err
	}
	// logs would tear the alternate screen
	return viz.Run(experiment.NewRegistry(), expCfg, nil)
}

func inspectTask(cmd *cobra.Command, args []string) error {
	_, exp, err := newExperiment(cmd, args)
	if err != nil {
		return err
	}
	loop := exp.LoopConfig()
	if _, err := exp.Simulator().Step(0, 0, loop.Dt); err != nil {
		return err
	}
	return exp.Task().Print(os.Stdout)
}

func benchScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()

	fmt.Printf("benchmarking %s\n\n", cfg.Scenario)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tITERATIONS\tCONVERGED\tTIME\tITER/SEC")

	for _, step := range []float64{0.01, 0.04, 0.1} {
		c := cfg.Clone()
		c.Dt = step
		expCfg, err := c.ToExperiment()
		if err != nil {
			return err
		}
		exp := experiment.New(expCfg)
		exp.SetLogger(logger)
		if err := exp.Setup(registry, nil); err != nil {
			return err
		}

		start := time.Now()
		result, err := exp.Run(context.Background())
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%.2fs\t%d\t%v\t%v\t%.0f\n",
			step, result.Iterations, result.Converged, elapsed, float64(result.Iterations)/elapsed.Seconds())
	}
	return w.Flush()
}

func tuneGain(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	base, err := cfg.ToExperiment()
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()

	search := optim.NewGridSearch([]string{"lambda"}, [][]float64{tuneLambdas})
	build := func(params map[string]float64) (*experiment.Experiment, error) {
		c := base
		c.Gain = servo.ConstantGain(params["lambda"])
		exp := experiment.New(c)
		exp.SetLogger(logger)
		return exp, exp.Setup(registry, registry.DefaultMetrics(c.Threshold*10))
	}

	fmt.Printf("tuning %s over %d gains for %s\n", cfg.Scenario, search.Size(), tuneMetric)
	best, val, err := search.Search(cmd.Context(), build, tuneMetric)
	if err != nil {
		return err
	}
	fmt.Printf("best lambda: %g (%s = %.4f)\n", best["lambda"], tuneMetric, val)
	return nil
}

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/vservo/internal/automation"
	"github.com/san-kum/vservo/internal/experiment"
	"github.com/san-kum/vservo/internal/storage"
	"github.com/spf13/cobra"
)

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	sweep := &automation.GainSweep{Base: cfg, Min: sweepMin, Max: sweepMax, Steps: sweepSteps}
	results, err := automation.RunGainSweep(cmd.Context(), sweep, experiment.NewRegistry())
	if err != nil {
		return err
	}

	fmt.Printf("gain sweep on %s\n\n", cfg.Scenario)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LAMBDA\tITERATIONS\tCONVERGED\tFINAL |e|\tSETTLING\tEFFORT")
	iters := make([]float64, len(results))
	for i, r := range results {
		fmt.Fprintf(w, "%.3f\t%d\t%v\t%.2e\t%.2fs\t%.3f\n",
			r.Lambda, r.Iterations, r.Converged, r.FinalNorm, r.ConvergenceTime, r.Effort)
		iters[i] = float64(r.Iterations)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(iters) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(iters,
			asciigraph.Height(8),
			asciigraph.Caption(fmt.Sprintf("iterations for lambda %.2f..%.2f", sweepMin, sweepMax)),
		))
	}
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	mc := &automation.MonteCarloConfig{
		Base:        cfg,
		Trials:      trials,
		Translation: spreadT,
		Rotation:    spreadR,
		Seed:        seed,
	}
	results, err := automation.RunMonteCarlo(cmd.Context(), mc, experiment.NewRegistry())
	if err != nil {
		return err
	}

	converged, failed, mean := automation.MonteCarloStats(results)
	fmt.Printf("monte carlo on %s: %d trials, ±%.3fm ±%.1f°\n", cfg.Scenario, len(results), spreadT, spreadR)
	fmt.Printf("converged: %d\n", converged)
	fmt.Printf("failed: %d\n", failed)
	if converged > 0 {
		fmt.Printf("mean iterations: %.1f\n", mean)
	}
	if failed > 0 {
		fmt.Println("\nfailed trials:")
		for _, t := range results {
			if !t.Converged {
				fmt.Printf("  #%d init=%.3f final |e|=%.2e\n", t.ID, t.Init, t.FinalNorm)
			}
		}
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	batch, err := automation.LoadBatch(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("batch %s: %d steps\n", batch.Name, len(batch.Steps))

	results, runErr := automation.RunBatch(cmd.Context(), batch, experiment.NewRegistry(), logger)

	st := storage.New(dataDir)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSCENARIO\tITERATIONS\tCONVERGED\tFINAL |e|\tRUN")
	for i, r := range results {
		runID := "-"
		if r.Step.SaveAs != "" {
			if err := st.Init(); err != nil {
				return err
			}
			id, err := st.Save(storage.RunMetadata{
				Scenario:    r.Step.Scenario,
				Scheme:      r.Step.Scheme,
				Interaction: r.Step.Interaction,
				Inversion:   r.Step.Inversion,
				Gain:        fmt.Sprint(r.Step.BuildGain()),
				Dt:          r.Step.Dt,
				Iterations:  r.Step.Iterations,
				Threshold:   r.Step.Threshold,
			}, r.Result)
			if err != nil {
				return err
			}
			runID = id
			logger.Info("saved step", "name", r.Step.SaveAs, "run", id)
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%v\t%.2e\t%s\n",
			i+1, r.Step.Scenario, r.Result.Iterations, r.Result.Converged, r.Result.FinalNorm(), runID)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

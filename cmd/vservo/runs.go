package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/vservo/internal/analysis"
	"github.com/san-kum/vservo/internal/config"
	"github.com/san-kum/vservo/internal/experiment"
	"github.com/san-kum/vservo/internal/export"
	"github.com/san-kum/vservo/internal/sim"
	"github.com/san-kum/vservo/internal/storage"
	"github.com/spf13/cobra"
)

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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tSCHEME\tGAIN\tSTEPS\tCONVERGED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%v\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Scheme,
			run.Gain,
			run.Steps,
			run.Converged,
		)
	}
	return w.Flush()
}

// loadRun rebuilds the result of a stored run from its metadata and trace.
func loadRun(runID string) (*storage.RunMetadata, *sim.Result, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, &sim.Result{
		Times:      trace.Times,
		Errors:     trace.Errors,
		Velocities: trace.Velocities,
		Norms:      trace.Norms,
		Iterations: len(trace.Times),
		Converged:  meta.Converged,
		Metrics:    meta.Metrics,
	}, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(result.Norms) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s (%s, %s)\n", meta.Scenario, meta.Scheme, meta.Gain)
	fmt.Printf("samples: %d\n\n", len(result.Norms))

	logs := make([]float64, len(result.Norms))
	for i, n := range result.Norms {
		logs[i] = math.Log10(math.Max(n, 1e-12))
	}
	fmt.Println(asciigraph.Plot(logs,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("log10 |e| vs iteration"),
	))
	fmt.Println()

	if len(result.Velocities[0]) == 0 {
		return nil
	}
	series := make([][]float64, len(result.Velocities[0]))
	for j := range series {
		series[j] = make([]float64, len(result.Velocities))
		for i, v := range result.Velocities {
			if j < len(v) {
				series[j][i] = v[j]
			}
		}
	}
	colors := []asciigraph.AnsiColor{asciigraph.Red, asciigraph.Green, asciigraph.Yellow, asciigraph.Blue, asciigraph.Magenta, asciigraph.Cyan}
	fmt.Println(asciigraph.PlotMany(series,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.SeriesColors(colors[:min(len(series), len(colors))]...),
		asciigraph.Caption("velocity components vs iteration"),
	))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta.Scenario, meta.Scheme, meta.Dt, result)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(result.Times) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.ExportCSV(os.Stdout, result)
}

func listScenarios(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSCHEME\tDESCRIPTION")
	for _, info := range experiment.NewRegistry().List() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", info.Name, info.Scheme, info.Description)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	presets := config.ListPresets(args[0])
	if len(presets) == 0 {
		fmt.Printf("no presets for scenario: %s\n", args[0])
		return nil
	}
	fmt.Printf("presets for %s:\n", args[0])
	for _, p := range presets {
		fmt.Printf("  %s\n", p)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(result.Norms) < 2 {
		return fmt.Errorf("not enough samples to analyze")
	}

	rep := analysis.Analyze(result, meta.Dt)
	fmt.Printf("transient analysis: %s\n", meta.ID)
	fmt.Printf("scenario: %s (%s, %s)\n\n", meta.Scenario, meta.Scheme, meta.Gain)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "samples\t%d\n", rep.Samples)
	fmt.Fprintf(w, "decay rate\t%.4f 1/s (fit r²=%.4f)\n", rep.DecayRate, rep.DecayFit)
	fmt.Fprintf(w, "monotone steps\t%.1f%%\n", rep.Monotonicity*100)
	fmt.Fprintf(w, "max overshoot\t%.1f%%\n", rep.MaxOvershoot*100)
	if rep.Frequency > 0 {
		fmt.Fprintf(w, "dominant velocity frequency\t%.3f hz\n", rep.Frequency)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for j, o := range rep.Overshoot {
		if o > 0.01 {
			fmt.Printf("  e%d overshoots by %.1f%%\n", j, o*100)
		}
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	p, err := analysis.NewPortrait(result.Errors, xAxis, yAxis)
	if err != nil {
		return err
	}

	fmt.Printf("error portrait: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("x-axis: e%d, y-axis: e%d\n\n", xAxis, yAxis)
	fmt.Print(p.ASCII(70, 20))
	fmt.Printf("\nlegend: . = early, o = middle, ● = late\n")
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	chart := &export.Chart{X: result.Times, Width: 900, Height: 450}
	switch svgWhat {
	case "norm":
		chart.Title = meta.Scenario + ": |e|"
		chart.LogY = true
		chart.Series = []export.Series{{Name: "|e|", Values: result.Norms}}
	case "errors", "velocities":
		samples, prefix := result.Errors, "e"
		if svgWhat == "velocities" {
			samples, prefix = result.Velocities, "v"
		}
		chart.Title = fmt.Sprintf("%s: %s", meta.Scenario, svgWhat)
		if len(samples) > 0 {
			for j := range samples[0] {
				chart.Series = append(chart.Series, export.Series{
					Name:   fmt.Sprintf("%s%d", prefix, j),
					Values: analysis.Column(samples, j),
				})
			}
		}
	default:
		return fmt.Errorf("unknown --what %q: norm, errors or velocities", svgWhat)
	}

	out := os.Stdout
	if svgOut != "" && svgOut != "-" {
		f, err := os.Create(svgOut)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return chart.WriteSVG(out)
}

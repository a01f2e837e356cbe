package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/san-kum/vservo/internal/sim"
)

type ExportData struct {
	Scenario   string             `json:"scenario"`
	Scheme     string             `json:"scheme"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	Converged  bool               `json:"converged"`
	Times      []float64          `json:"times"`
	Norms      []float64          `json:"norms"`
	Errors     [][]float64        `json:"errors"`
	Velocities [][]float64        `json:"velocities"`
	Metrics    map[string]float64 `json:"metrics"`
}

func ExportJSON(w io.Writer, scenario, scheme string, dt float64, result *sim.Result) error {
	data := ExportData{
		Scenario:   scenario,
		Scheme:     scheme,
		Dt:         dt,
		Steps:      result.Iterations,
		Converged:  result.Converged,
		Times:      result.Times,
		Norms:      result.Norms,
		Errors:     result.Errors,
		Velocities: result.Velocities,
		Metrics:    finiteMetrics(result.Metrics),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportCSV(w io.Writer, result *sim.Result) error {
	cw := csv.NewWriter(w)
	if err := WriteTraceCSV(cw, result); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

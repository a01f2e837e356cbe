package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/vservo/internal/sim"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Scenario    string             `json:"scenario"`
	Scheme      string             `json:"scheme"`
	Interaction string             `json:"interaction"`
	Inversion   string             `json:"inversion"`
	Gain        string             `json:"gain"`
	Timestamp   time.Time          `json:"timestamp"`
	Dt          float64            `json:"dt"`
	Iterations  int                `json:"iterations"`
	Threshold   float64            `json:"threshold"`
	Converged   bool               `json:"converged"`
	Steps       int                `json:"steps"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Trace is the per-iteration history of a stored run.
type Trace struct {
	Times      []float64
	Norms      []float64
	Errors     [][]float64
	Velocities [][]float64
}

// Save writes meta and the result trace under a new run directory and
// returns the run id.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Scenario, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Converged = result.Converged
	meta.Steps = result.Iterations
	meta.Metrics = finiteMetrics(result.Metrics)

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeTrace(filepath.Join(runDir, traceFile), result); err != nil {
		return "", err
	}
	return runID, nil
}

// finiteMetrics drops NaN and Inf values, which JSON cannot encode.
func finiteMetrics(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTrace(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := WriteTraceCSV(w, result); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// WriteTraceCSV writes one row per iteration: time, error norm, the error
// components e0..ek and the velocity components v0..vn.
func WriteTraceCSV(w *csv.Writer, result *sim.Result) error {
	if len(result.Times) == 0 {
		return nil
	}

	k, n := len(result.Errors[0]), len(result.Velocities[0])
	header := []string{"time", "norm"}
	for i := 0; i < k; i++ {
		header = append(header, fmt.Sprintf("e%d", i))
	}
	for i := 0; i < n; i++ {
		header = append(header, fmt.Sprintf("v%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range result.Times {
		row := []string{
			strconv.FormatFloat(result.Times[i], 'f', 6, 64),
			strconv.FormatFloat(result.Norms[i], 'g', 10, 64),
		}
		for _, val := range result.Errors[i] {
			row = append(row, strconv.FormatFloat(val, 'g', 10, 64))
		}
		for _, val := range result.Velocities[i] {
			row = append(row, strconv.FormatFloat(val, 'g', 10, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// List returns the stored runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrace reads the trace CSV of a run.
func (s *Store) LoadTrace(runID string) (*Trace, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	trace := &Trace{}
	if len(records) < 2 {
		return trace, nil
	}

	header := records[0]
	for _, record := range records[1:] {
		if len(record) != len(header) {
			continue
		}
		var e, v []float64
		var t, n float64
		for j, col := range header {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("storage: %s column %s: %w", runID, col, err)
			}
			switch {
			case col == "time":
				t = val
			case col == "norm":
				n = val
			case strings.HasPrefix(col, "e"):
				e = append(e, val)
			case strings.HasPrefix(col, "v"):
				v = append(v, val)
			}
		}
		trace.Times = append(trace.Times, t)
		trace.Norms = append(trace.Norms, n)
		trace.Errors = append(trace.Errors, e)
		trace.Velocities = append(trace.Velocities, v)
	}

	return trace, nil
}

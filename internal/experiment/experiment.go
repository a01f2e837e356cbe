package experiment

import (
	"context"
	"log/slog"

	"github.com/san-kum/vservo/internal/geom"
	"github.com/san-kum/vservo/internal/servo"
	"github.com/san-kum/vservo/internal/sim"
)

type Config struct {
	Scenario string
	// Scheme overrides the scenario default when set.
	Scheme    servo.Scheme
	Mode      servo.InteractionMode
	Inversion servo.Inversion
	Gain      servo.Gain
	Tolerance float64
	// Init and Desired override the scenario poses when non-nil; six
	// values in meters and radians.
	Init    []float64
	Desired []float64

	Dt         float64
	Iterations int
	Threshold  float64
}

func DefaultConfig(scenario string) Config {
	loop := sim.DefaultConfig()
	return Config{
		Scenario:   scenario,
		Mode:       servo.Current,
		Inversion:  servo.PseudoInverse,
		Gain:       servo.ConstantGain(1),
		Dt:         loop.Dt,
		Iterations: loop.Iterations,
		Threshold:  loop.Threshold,
	}
}

type Experiment struct {
	cfg       Config
	info      Info
	task      *servo.Task
	scenario  Scenario
	simulator *sim.Simulator
	logger    *slog.Logger
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg, logger: slog.Default()}
}

func (e *Experiment) SetLogger(l *slog.Logger) {
	if l != nil {
		e.logger = l
	}
}

// Setup builds the task and the plant of the configured scenario and
// wires them into a simulator.
func (e *Experiment) Setup(reg *Registry, metrics []sim.Metric) error {
	info, build, err := reg.Get(e.cfg.Scenario)
	if err != nil {
		return err
	}

	task := servo.NewTask()
	task.SetLogger(e.logger)
	scheme := info.Scheme
	if e.cfg.Scheme != servo.SchemeNone {
		scheme = e.cfg.Scheme
	}
	task.SetServo(scheme)
	task.SetInteractionMatrixType(e.cfg.Mode, e.cfg.Inversion)
	if e.cfg.Gain != nil {
		task.SetLambda(e.cfg.Gain)
	}
	task.SetPseudoInverseTolerance(e.cfg.Tolerance)

	init := geom.FromPoseVector(pose(e.cfg.Init, info.Init))
	desired := geom.FromPoseVector(pose(e.cfg.Desired, info.Desired))
	scenario, err := build(task, init, desired)
	if err != nil {
		return err
	}

	e.simulator = sim.New(scenario, task, scenario)
	e.simulator.SetLogger(e.logger)
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	e.info, e.task, e.scenario = info, task, scenario

	e.logger.Debug("experiment ready",
		"scenario", info.Name,
		"scheme", scheme.String(),
		"rows", task.Dimension())
	return nil
}

func pose(override []float64, def [6]float64) [6]float64 {
	if len(override) != 6 {
		return def
	}
	var p [6]float64
	copy(p[:], override)
	return p
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, ErrNotSetup
	}
	defer e.task.Kill()
	return e.simulator.Run(ctx, e.loopConfig())
}

func (e *Experiment) loopConfig() sim.Config {
	return sim.Config{
		Dt:         e.cfg.Dt,
		Iterations: e.cfg.Iterations,
		Threshold:  e.cfg.Threshold,
	}
}

func (e *Experiment) Config() Config { return e.cfg }

// LoopConfig is the loop configuration Run uses.
func (e *Experiment) LoopConfig() sim.Config { return e.loopConfig() }

func (e *Experiment) Info() Info { return e.info }

func (e *Experiment) Task() *servo.Task { return e.task }

func (e *Experiment) Scenario() Scenario { return e.scenario }

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }

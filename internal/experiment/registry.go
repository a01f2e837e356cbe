package experiment

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/vservo/internal/geom"
	"github.com/san-kum/vservo/internal/metrics"
	"github.com/san-kum/vservo/internal/servo"
	"github.com/san-kum/vservo/internal/sim"
)

var (
	ErrUnknownScenario   = errors.New("experiment: unknown scenario")
	ErrUnsupportedScheme = errors.New("experiment: scheme not supported by scenario")
	ErrNotSetup          = errors.New("experiment: not set up")
)

// Info describes a registered scenario and its defaults. Poses are
// (tx, ty, tz, θux, θuy, θuz) in meters and radians.
type Info struct {
	Name        string
	Description string
	Scheme      servo.Scheme
	Init        [6]float64
	Desired     [6]float64
}

type entry struct {
	info  Info
	build Builder
}

type Registry struct {
	scenarios map[string]entry
}

func NewRegistry() *Registry {
	r := &Registry{scenarios: make(map[string]entry)}

	start := [6]float64{0.1, 0.2, 2, geom.Rad(20), geom.Rad(10), geom.Rad(50)}
	goal := [6]float64{0, 0, 1, 0, 0, 0}

	r.Register(Info{
		Name:        "3d-cmcd",
		Description: "position-based, t(cMcd) and θu(cRcd)",
		Scheme:      servo.EyeInHandCamera,
		Init:        start,
		Desired:     goal,
	}, buildPose3DCurrent)
	r.Register(Info{
		Name:        "3d-cdmc",
		Description: "position-based, t(cdMc) and θu(cdRc)",
		Scheme:      servo.EyeInHandCamera,
		Init:        start,
		Desired:     goal,
	}, buildPose3DDesired)
	r.Register(Info{
		Name:        "2d-points",
		Description: "image-based, four points of a square",
		Scheme:      servo.EyeInHandCamera,
		Init:        start,
		Desired:     goal,
	}, buildPoints2D)
	r.Register(Info{
		Name:        "2.5d",
		Description: "hybrid, image point, log depth ratio and θu(cdRc)",
		Scheme:      servo.EyeInHandCamera,
		Init:        start,
		Desired:     goal,
	}, buildHybrid)
	r.Register(Info{
		Name:        "pan-tilt",
		Description: "centre a point with a pan-tilt head, joint velocities",
		Scheme:      servo.EyeInHandLcVeeJe,
		Init:        [6]float64{1, 0.3, 0.2, 0, 0, 0},
	}, buildPanTilt)

	return r
}

// Register adds or replaces a scenario.
func (r *Registry) Register(info Info, build Builder) {
	r.scenarios[info.Name] = entry{info: info, build: build}
}

func (r *Registry) Get(name string) (Info, Builder, error) {
	e, ok := r.scenarios[name]
	if !ok {
		return Info{}, nil, fmt.Errorf("%w: %s", ErrUnknownScenario, name)
	}
	return e.info, e.build, nil
}

func (r *Registry) List() []Info {
	infos := make([]Info, 0, len(r.scenarios))
	for _, e := range r.scenarios {
		infos = append(infos, e.info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

func (r *Registry) ListScenarios() []string {
	names := make([]string, 0, len(r.scenarios))
	for _, info := range r.List() {
		names = append(names, info.Name)
	}
	return names
}

// DefaultMetrics are attached to every experiment run.
func (r *Registry) DefaultMetrics(threshold float64) []sim.Metric {
	return []sim.Metric{
		metrics.NewFinalError(),
		metrics.NewControlEffort(),
		metrics.NewPeakVelocity(),
		metrics.NewConvergence(threshold),
	}
}

package viz

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/vservo/internal/experiment"
	"github.com/san-kum/vservo/internal/export"
	"github.com/san-kum/vservo/internal/geom"
	"github.com/san-kum/vservo/internal/sim"
)

const (
	canvasWidth     = 48
	canvasHeight    = 20
	historyCapacity = 600
	trailCapacity   = 400
	maxSpeed        = 64
)

type TickMsg time.Time

type viewMode int

const (
	viewImage viewMode = iota
	viewScene
)

// Model steps one experiment inside a Bubble Tea program. The experiment
// is rebuilt from its configuration on every reset.
type Model struct {
	reg    *experiment.Registry
	cfg    experiment.Config
	exp    *experiment.Experiment
	loop   sim.Config
	logger *slog.Logger

	iter      int
	t         float64
	last      sim.Sample
	norms     []float64
	trails    [][][2]float64
	path      []geom.Vec3
	desired   *geom.Homogeneous
	running   bool
	converged bool
	err       error
	speed     int

	canvas   *Canvas
	orbit    *Orbit
	view     viewMode
	showHelp bool
	note     string
}

// NewModel sets up the experiment described by cfg. Logging is discarded
// unless SetLogger is called, the terminal belongs to the view.
func NewModel(reg *experiment.Registry, cfg experiment.Config) (Model, error) {
	m := Model{
		reg:     reg,
		cfg:     cfg,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		running: true,
		speed:   1,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		orbit:   NewOrbit(),
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// SetLogger applies from the next reset on.
func (m *Model) SetLogger(l *slog.Logger) {
	if l != nil {
		m.logger = l
	}
}

func (m *Model) reset() error {
	exp := experiment.New(m.cfg)
	exp.SetLogger(m.logger)
	if err := exp.Setup(m.reg, nil); err != nil {
		return err
	}
	m.exp, m.loop = exp, exp.LoopConfig()
	m.iter, m.t, m.last = 0, 0, sim.Sample{}
	m.running, m.converged, m.err = true, false, nil
	m.norms = make([]float64, 0, historyCapacity)
	m.trails = nil
	m.path = make([]geom.Vec3, 0, trailCapacity)

	info := exp.Info()
	m.desired = nil
	d := info.Desired
	if len(m.cfg.Desired) == 6 {
		copy(d[:], m.cfg.Desired)
	}
	if d != ([6]float64{}) {
		oMcd := geom.FromPoseVector(d).Inverse()
		m.desired = &oMcd
	}
	m.record()
	m.orbit.Center = m.path[0].Scale(0.5)
	return nil
}

// record appends the current image points and camera position.
func (m *Model) record() {
	current, _ := m.exp.Scenario().ImagePoints()
	if len(m.trails) != len(current) {
		m.trails = make([][][2]float64, len(current))
	}
	for i, p := range current {
		m.trails[i] = appendCapped(m.trails[i], p, trailCapacity)
	}
	oMc := m.exp.Scenario().Pose().Inverse()
	m.path = appendCapped(m.path, oMc.T, trailCapacity)
}

func appendCapped[T any](s []T, v T, capacity int) []T {
	s = append(s, v)
	if len(s) > capacity {
		s = s[1:]
	}
	return s
}

func (m *Model) finished() bool {
	return m.err != nil || m.converged || m.iter >= m.loop.Iterations
}

// step runs one loop iteration.
func (m *Model) step() {
	if m.finished() {
		m.running = false
		return
	}
	sample, err := m.exp.Simulator().Step(m.iter, m.t, m.loop.Dt)
	if err != nil {
		m.err, m.running = err, false
		return
	}
	m.last = sample
	m.norms = appendCapped(m.norms, sample.Norm, historyCapacity)
	m.iter++
	m.t += m.loop.Dt
	m.record()
	if sample.Norm < m.loop.Threshold {
		m.converged, m.running = true, false
	}
}

func (m Model) Iteration() int   { return m.iter }
func (m Model) Time() float64    { return m.t }
func (m Model) Running() bool    { return m.running }
func (m Model) Converged() bool  { return m.converged }
func (m Model) Err() error       { return m.err }
func (m Model) Speed() int       { return m.speed }
func (m Model) Last() sim.Sample { return m.last }
func (m Model) Norms() []float64 { return m.norms }

// Config is the experiment configuration restored by a reset.
func (m Model) Config() experiment.Config { return m.cfg }

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "space":
			m.running = !m.running && !m.finished()
		case "n":
			if !m.running {
				m.step()
			}
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
			}
		case "v":
			m.view = (m.view + 1) % 2
		case ">", ".":
			m.speed = min(maxSpeed, m.speed*2)
		case "<", ",":
			m.speed = max(1, m.speed/2)
		case "x":
			m.orbit.Rotate(0, 0.1)
		case "X":
			m.orbit.Rotate(0, -0.1)
		case "y":
			m.orbit.Rotate(0.1, 0)
		case "Y":
			m.orbit.Rotate(-0.1, 0)
		case "+", "=":
			m.orbit.ZoomIn()
		case "-", "_":
			m.orbit.ZoomOut()
		case "p":
			m.note = m.snapshot()
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		for i := 0; i < m.speed && m.running; i++ {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) draw() {
	m.canvas.Clear()
	if m.view == viewScene {
		m.drawScene()
		return
	}
	m.drawImage()
}

// drawImage plots the normalized image plane: desired points as squares,
// current points as crosses with their trajectories.
func (m *Model) drawImage() {
	c := m.canvas
	current, desired := m.exp.Scenario().ImagePoints()
	all := append(append([][2]float64{{0, 0}}, desired...), current...)
	for _, tr := range m.trails {
		all = append(all, tr...)
	}
	vp := FitViewport(all, 0.1, 0.2)

	c.DrawFrame()
	if x, y, ok := vp.Map(c, 0, 0); ok {
		c.DrawLine(x-1, y, x+1, y)
		c.DrawLine(x, y-1, x, y+1)
	}
	for _, tr := range m.trails {
		for i := 1; i < len(tr); i++ {
			x0, y0, _ := vp.Map(c, tr[i-1][0], tr[i-1][1])
			x1, y1, _ := vp.Map(c, tr[i][0], tr[i][1])
			c.DrawLine(x0, y0, x1, y1)
		}
	}
	for _, p := range desired {
		x, y, _ := vp.Map(c, p[0], p[1])
		c.DrawSquare(x, y, 2)
	}
	for _, p := range current {
		x, y, _ := vp.Map(c, p[0], p[1])
		c.DrawCross(x, y, 3)
	}
}

func (m *Model) drawScene() {
	object := experiment.ObjectPoints
	if current, _ := m.exp.Scenario().ImagePoints(); len(current) != len(object) {
		object = []geom.Vec3{{}}
	}
	scene := Scene{
		Object:  object,
		Trail:   m.path,
		Camera:  m.exp.Scenario().Pose().Inverse(),
		Desired: m.desired,
	}
	Render3D(m.canvas, scene.Wireframe(), m.orbit)
}

// snapshot writes the current canvas to an SVG file in the working
// directory and returns a line for the status panel.
func (m *Model) snapshot() string {
	m.draw()
	name := fmt.Sprintf("vservo-%s-%04d.svg", m.exp.Info().Name, m.iter)
	f, err := os.Create(name)
	if err != nil {
		return err.Error()
	}
	defer f.Close()
	if err := export.BrailleToSVG(f, m.canvas.Grid, 4); err != nil {
		return err.Error()
	}
	return "saved " + name
}

func (m Model) status(p palette) string {
	switch {
	case m.err != nil:
		return p.failed.Render("FAILED")
	case m.converged:
		return p.done.Render(fmt.Sprintf("CONVERGED at %.2fs", m.t))
	case m.iter >= m.loop.Iterations:
		return p.paused.Render("STOPPED (iteration limit)")
	case !m.running:
		return p.paused.Render("PAUSED")
	}
	return p.running.Render(fmt.Sprintf("RUNNING x%d", m.speed))
}

func (m Model) View() string {
	p := newPalette(CurrentTheme)
	m.draw()

	var legend string
	if m.view == viewScene {
		legend = p.current.Render("camera") + "  " + p.desired.Render("desired frame") + "  " + p.muted.Render("object frame")
	} else {
		legend = p.current.Render("+ current") + "  " + p.desired.Render("□ desired")
	}
	canvasView := lipgloss.JoinVertical(lipgloss.Left, p.canvas.Render(m.canvas.String()), "  "+legend)

	var s strings.Builder
	s.WriteString(p.header.Render(strings.ToUpper(m.exp.Info().Name)) + "\n")
	s.WriteString(m.status(p) + "\n\n")

	if len(m.norms) > 1 {
		logs := make([]float64, len(m.norms))
		for i, n := range m.norms {
			logs[i] = math.Log10(math.Max(n, 1e-12))
		}
		chart := asciigraph.Plot(logs, asciigraph.Height(6), asciigraph.Width(30), asciigraph.Caption("log10 |e|"))
		s.WriteString(p.plot.Render(chart) + "\n\n")
	}

	task := m.exp.Task()
	row := func(label, value string) {
		s.WriteString(p.label.Render(label) + p.value.Render(value) + "\n")
	}
	row("Scheme", task.Scheme().String())
	row("Matrix", task.InteractionMode().String()+", "+task.Inversion().String())
	row("Time", fmt.Sprintf("%.2fs", m.t))
	row("Iteration", fmt.Sprintf("%d/%d", m.iter, m.loop.Iterations))
	row("|e|", fmt.Sprintf("%.3e", m.last.Norm))
	row("λ", fmt.Sprintf("%.3f", task.Lambda()))
	row("Rank", fmt.Sprintf("%d/%d", task.Rank(), task.Dimension()))
	row("|v|", fmt.Sprintf("%.3e", vectorNorm(m.last.Velocity)))
	s.WriteString("\n" + p.plot.Render(ProgressBar(float64(m.iter)/float64(m.loop.Iterations), 30)) + "\n")
	if m.err != nil {
		s.WriteString("\n" + p.failed.Render(wrap(m.err.Error(), 40)) + "\n")
	}
	if m.note != "" {
		s.WriteString("\n" + p.muted.Render(wrap(m.note, 40)) + "\n")
	}
	s.WriteString(p.help.Render(Separator(30) + "\nSP:Pause N:Step R:Restart Q:Quit\nV:View <>:Speed P:SVG T:Theme ?:Help"))

	main := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, p.panel.Render(s.String()))
	if m.showHelp {
		return helpOverlay + "\n\n" + main
	}
	return main
}

const helpOverlay = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume the loop    ║
║  N        - Single step when paused  ║
║  R        - Restart from init pose   ║
║  V        - Image plane / 3D scene   ║
║  < >      - Iterations per frame     ║
║  x/X y/Y  - Rotate the 3D scene      ║
║  + -      - Zoom the 3D scene        ║
║  P        - Save the canvas as SVG   ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

func vectorNorm(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

func wrap(s string, width int) string {
	var b strings.Builder
	line := 0
	for _, w := range strings.Fields(s) {
		if line > 0 && line+len(w)+1 > width {
			b.WriteByte('\n')
			line = 0
		} else if line > 0 {
			b.WriteByte(' ')
			line++
		}
		b.WriteString(w)
		line += len(w)
	}
	return b.String()
}

// Run opens the live view of one experiment.
func Run(reg *experiment.Registry, cfg experiment.Config, logger *slog.Logger) error {
	m, err := NewModel(reg, cfg)
	if err != nil {
		return err
	}
	if logger != nil {
		m.SetLogger(logger)
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

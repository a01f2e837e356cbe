package viz

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/vservo/internal/experiment"
	"github.com/san-kum/vservo/internal/geom"
	"github.com/san-kum/vservo/internal/servo"
)

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// Parameters editable before a run. Angles are in degrees.
var paramNames = []string{"lambda", "tx", "ty", "tz", "rx", "ry", "rz", "dt"}

var modes = []servo.InteractionMode{servo.Current, servo.Desired, servo.Mean}

// Menu lets the user pick a scenario, tune the gain, the initial pose and
// the interaction matrix, then runs it in a Model. Esc goes back.
type Menu struct {
	reg      *experiment.Registry
	infos    []experiment.Info
	logger   *slog.Logger
	state    int
	cursor   int
	selected experiment.Info
	params   map[string]float64
	mode     int
	param    int
	editing  bool
	editBuf  string
	err      error
	live     Model
}

func NewMenu(reg *experiment.Registry, logger *slog.Logger) Menu {
	return Menu{reg: reg, infos: reg.List(), logger: logger, params: make(map[string]float64)}
}

func (m Menu) Init() tea.Cmd { return nil }

func (m Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case stateMenu:
			return m.menuKey(key)
		case stateConfig:
			return m.configKey(key)
		}
		if key.String() == "esc" {
			m.state = stateConfig
			return m, nil
		}
	}
	if m.state == stateSim {
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	return m, nil
}

func (m Menu) menuKey(msg tea.KeyMsg) (Menu, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.infos)-1 {
			m.cursor++
		}
	case "enter", " ", "space":
		if len(m.infos) == 0 {
			return m, nil
		}
		m.selected = m.infos[m.cursor]
		m.state, m.param, m.mode, m.err = stateConfig, 0, 0, nil
		m.loadDefaults()
	}
	return m, nil
}

func (m *Menu) loadDefaults() {
	def := experiment.DefaultConfig(m.selected.Name)
	m.params = map[string]float64{"lambda": def.Gain.Value(0), "dt": def.Dt}
	for i, name := range paramNames[1:7] {
		v := m.selected.Init[i]
		if i >= 3 {
			v = geom.Deg(v)
		}
		m.params[name] = v
	}
}

func (m Menu) configKey(msg tea.KeyMsg) (Menu, tea.Cmd) {
	name := paramNames[m.param]
	if m.editing {
		switch msg.String() {
		case "enter":
			if v, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				m.params[name] = v
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if s := msg.String(); len(s) == 1 && strings.ContainsAny(s, "0123456789.-e") {
				m.editBuf += s
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.param > 0 {
			m.param--
		}
	case "down", "j":
		if m.param < len(paramNames)-1 {
			m.param++
		}
	case "enter":
		m.editing, m.editBuf = true, ""
	case "left", "h":
		m.params[name] -= step(name)
	case "right", "l":
		m.params[name] += step(name)
	case "m":
		m.mode = (m.mode + 1) % len(modes)
	case "s", " ", "space":
		return m.start()
	}
	return m, nil
}

func step(name string) float64 {
	switch name {
	case "rx", "ry", "rz":
		return 5
	case "dt":
		return 0.01
	}
	return 0.1
}

// Config is the experiment the current parameters describe.
func (m Menu) Config() experiment.Config {
	cfg := experiment.DefaultConfig(m.selected.Name)
	cfg.Gain = servo.ConstantGain(m.params["lambda"])
	cfg.Mode = modes[m.mode]
	cfg.Dt = m.params["dt"]
	init := make([]float64, 6)
	for i, name := range paramNames[1:7] {
		init[i] = m.params[name]
		if i >= 3 {
			init[i] = geom.Rad(init[i])
		}
	}
	cfg.Init = init
	return cfg
}

func (m Menu) start() (Menu, tea.Cmd) {
	live, err := NewModel(m.reg, m.Config())
	if err != nil {
		m.err = err
		return m, nil
	}
	live.SetLogger(m.logger)
	m.live, m.state, m.err = live, stateSim, nil
	return m, m.live.Init()
}

var (
	menuTitle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuActive = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuDesc   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuIdle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuKey    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	menuError  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

func keyHints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(menuKey.Render(pairs[i]) + menuIdle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func (m Menu) View() string {
	switch m.state {
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.live.View()
	}
	return m.viewMenu()
}

func (m Menu) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("VSERVO") + "\n    " + menuSub.Render("visual servoing simulator") + "\n    " + menuSub.Render(strings.Repeat("─", 25)) + "\n\n")
	for i, info := range m.infos {
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-12s", info.Name)), menuDesc.Render(info.Description)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", menuIdle.Render(fmt.Sprintf("%-12s", info.Name)), menuIdle.Render(info.Description)))
		}
	}
	b.WriteString("\n    " + keyHints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m Menu) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render(strings.ToUpper(m.selected.Name)) + "\n    " + menuSub.Render(m.selected.Description) + "\n    " + menuSub.Render(m.selected.Scheme.String()+", "+modes[m.mode].String()+" interaction") + "\n\n")
	for i, name := range paramNames {
		val := fmt.Sprintf("%8.3f", m.params[name])
		if m.editing && i == m.param {
			val = fmt.Sprintf("%8s", m.editBuf+"_")
		}
		if i == m.param {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-8s", name)), menuDesc.Bold(true).Render(val)))
		} else {
			b.WriteString(fmt.Sprintf("      %s %s\n", menuIdle.Render(fmt.Sprintf("%-8s", name)), menuIdle.Render(val)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + menuError.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyHints("j/k", "select", "h/l", "adjust", "enter", "edit", "m", "matrix", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// RunMenu opens the scenario menu.
func RunMenu(reg *experiment.Registry, logger *slog.Logger) error {
	_, err := tea.NewProgram(NewMenu(reg, logger), tea.WithAltScreen()).Run()
	return err
}

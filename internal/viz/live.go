package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/halcyonlab/starling/internal/backend"
	"github.com/halcyonlab/starling/internal/config"
	"github.com/halcyonlab/starling/internal/engine"
	"github.com/halcyonlab/starling/internal/flock"
	"github.com/halcyonlab/starling/internal/grid"
	"github.com/halcyonlab/starling/internal/telemetry"
)

const (
	canvasW    = 60
	canvasH    = 16
	historyCap = 240
	trailCap   = 360
	tickRate   = 20
)

// paramNames fixes the tuning order shown and cycled in the panel.
var paramNames = [5]string{"dispersion", "energy", "fade", "depth", "agents"}

type TickMsg time.Time

type point struct{ x, y int }

// frameTap stores the most recent engine frame. It is a pointer observer
// shared across bubbletea's model copies.
type frameTap struct {
	last engine.Frame
	has  bool
}

func (t *frameTap) OnFrame(fr engine.Frame) {
	t.last = fr
	t.has = true
}

// Model is the live TUI: the flock on a braille field next to a stats
// and tuning panel. All engine calls happen inside Update, so the
// engine's single-goroutine contract holds.
type Model struct {
	eng   *engine.Engine
	pacer *engine.Manual
	mem   *backend.Memory
	tap   *frameTap
	coll  *telemetry.Collector

	canvas *Canvas
	trail  []point

	presets    []string
	presetIdx  int
	lastPreset string

	selected int
	showHelp bool
}

func NewModel(eng *engine.Engine, pacer *engine.Manual, mem *backend.Memory) Model {
	tap := &frameTap{}
	eng.AddObserver(tap)
	coll := telemetry.NewCollector()
	eng.AddObserver(coll)

	cats := make([]string, 0, len(config.Presets))
	for c := range config.Presets {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	var presets []string
	for _, c := range cats {
		presets = append(presets, config.ListPresets(c)...)
	}

	return Model{
		eng:     eng,
		pacer:   pacer,
		mem:     mem,
		tap:     tap,
		coll:    coll,
		canvas:  NewCanvas(canvasW, canvasH),
		trail:   make([]point, 0, trailCap),
		presets: presets,
	}
}

// Run starts the TUI and blocks until it quits.
func Run(eng *engine.Engine, pacer *engine.Manual, mem *backend.Memory) error {
	p := tea.NewProgram(NewModel(eng, pacer, mem), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.eng.Stop()
			return m, tea.Quit
		case " ":
			m.eng.Toggle()
		case "r":
			m.eng.Reseed()
		case "l":
			m.eng.Config().SeedLocked = !m.eng.Config().SeedLocked
		case "tab":
			m.selected = (m.selected + 1) % len(paramNames)
		case "up", "k":
			m.adjust(1)
		case "down", "j":
			m.adjust(-1)
		case "1", "2", "3", "4":
			z := grid.Zones[int(msg.String()[0]-'1')]
			m.eng.SetZoneEnabled(z, !m.eng.Config().ZoneEnabled(z))
		case "f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8":
			row := int(msg.String()[1] - '1')
			m.eng.SetRowEnabled(row, !m.eng.Config().IsRowAllowed(row))
		case "p":
			m.applyNextPreset()
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.pacer.Fire()
		m.pushTrail()
		return m, tickCmd()
	}
	return m, nil
}

func (m *Model) adjust(dir int) {
	cfg := m.eng.Config()
	step := 0.05 * float64(dir)
	switch paramNames[m.selected] {
	case "dispersion":
		m.eng.SetDispersion(cfg.Dispersion + step)
	case "energy":
		m.eng.SetEnergy(cfg.Energy + step)
	case "fade":
		m.eng.SetFade(cfg.Fade + step)
	case "depth":
		m.eng.SetDepth(cfg.Depth + step)
	case "agents":
		m.eng.SetAgentCount(cfg.AgentCount + dir)
	}
}

func (m *Model) applyNextPreset() {
	if len(m.presets) == 0 {
		return
	}
	name := m.presets[m.presetIdx]
	m.presetIdx = (m.presetIdx + 1) % len(m.presets)
	if rec := config.FindPreset(name); rec != nil {
		m.eng.ImportPreset(rec.ToMap())
		m.lastPreset = name
	}
}

// pushTrail runs on Update's model copy, which bubbletea keeps, so the
// appends here persist across frames. View must not grow the trail.
func (m *Model) pushTrail() {
	if !m.tap.has || !m.eng.Running() {
		return
	}
	for _, a := range m.tap.last.Agents {
		px, py := m.canvas.pixel(a.X, a.Y)
		m.trail = append(m.trail, point{px, py})
	}
	if len(m.trail) > trailCap {
		m.trail = m.trail[len(m.trail)-trailCap:]
	}
}

// draw repaints the field plus the accumulated trail.
func (m *Model) draw() {
	m.canvas.Clear()

	var fr engine.Frame
	if m.tap.has {
		fr = m.tap.last
	}
	DrawField(m.canvas, fr)

	for _, p := range m.trail {
		m.canvas.Set(p.x, p.y)
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle().Render(m.canvas.String())

	cfg := m.eng.Config()
	var s strings.Builder
	s.WriteString(headerStyle().Render("STARLING") + "\n")
	if m.eng.Running() {
		s.WriteString(statusRunning().Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(statusStopped().Render("STOPPED") + "\n\n")
	}

	if rows := m.coll.Recent(historyCap); len(rows) > 1 {
		mags := make([]float64, len(rows))
		for i, r := range rows {
			mags[i] = r.Magnitude
		}
		chart := asciigraph.Plot(mags, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("bus magnitude"))
		s.WriteString(graphStyle().Render(chart) + "\n\n")
	}

	var tick uint64
	cells, targets := 0, 0
	if m.tap.has {
		tick = m.tap.last.Tick
		cells = len(m.tap.last.Cells)
		targets = len(m.tap.last.Bus)
	}
	seed := fmt.Sprintf("%d", cfg.Seed)
	if cfg.SeedLocked {
		seed += " locked"
	}
	s.WriteString(labelStyle().Render("Tick") + valueStyle().Render(fmt.Sprintf("%d", tick)) + "\n")
	s.WriteString(labelStyle().Render("Cells") + valueStyle().Render(fmt.Sprintf("%d", cells)) + "\n")
	s.WriteString(labelStyle().Render("Targets") + valueStyle().Render(fmt.Sprintf("%d", targets)) + "\n")
	s.WriteString(labelStyle().Render("Messages") + valueStyle().Render(fmt.Sprintf("%d", m.mem.Len())) + "\n")
	s.WriteString(labelStyle().Render("Seed") + valueStyle().Render(seed) + "\n")
	if m.lastPreset != "" {
		s.WriteString(labelStyle().Render("Preset") + valueStyle().Render(m.lastPreset) + "\n")
	}

	s.WriteString("\n" + headerStyle().Render("PARAMETERS") + "\n")
	values := [5]float64{cfg.Dispersion, cfg.Energy, cfg.Fade, cfg.Depth, 0}
	for i, name := range paramNames {
		var line string
		if name == "agents" {
			frac := float64(cfg.AgentCount) / float64(flock.MaxAgents)
			line = fmt.Sprintf("%-10s %s %d", name, paramBar(frac, 10), cfg.AgentCount)
		} else {
			line = fmt.Sprintf("%-10s %s %.2f", name, paramBar(values[i], 10), values[i])
		}
		if i == m.selected {
			s.WriteString(activeParamStyle().Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + valueStyle().Render(line) + "\n")
		}
	}

	s.WriteString("\n" + headerStyle().Render("ZONES") + "  ")
	zoneLabels := []string{"1:gen", "2:chn", "3:fx", "4:mst"}
	for i, z := range grid.Zones {
		st := zoneOff()
		if cfg.ZoneEnabled(z) {
			st = zoneOn()
		}
		s.WriteString(st.Render(zoneLabels[i]) + " ")
	}
	s.WriteString("\n" + headerStyle().Render("ROWS") + "   ")
	for row := 0; row < grid.Rows; row++ {
		if cfg.IsRowAllowed(row) {
			s.WriteString(zoneOn().Render("▮"))
		} else {
			s.WriteString(zoneOff().Render("▯"))
		}
	}
	s.WriteString("\n")

	s.WriteString(helpStyle().Render("\nspace run · r reseed · tab ↑↓ tune\n1-4 zones · f1-f8 rows · p preset\nl lock seed · t theme · ? help · q quit"))

	main := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle().Render(s.String()))
	if m.showHelp {
		return helpOverlay() + "\n" + main
	}
	return main
}

func helpOverlay() string {
	rows := []string{
		"space  start / stop the engine",
		"r      reseed (new trajectory)",
		"l      lock / unlock the seed",
		"tab    select parameter",
		"↑/k    raise selected parameter",
		"↓/j    lower selected parameter",
		"1-4    toggle generator/channel/fx/master zone",
		"f1-f8  toggle grid row",
		"p      apply next preset",
		"t      cycle theme",
		"?      toggle this help",
		"q      quit",
	}
	return canvasStyle().Render(strings.Join(rows, "\n"))
}

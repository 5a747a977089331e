package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/gravbox/internal/body"
	"github.com/san-kum/gravbox/internal/geom"
	"github.com/san-kum/gravbox/internal/sandbox"
)

const (
	defaultCols     = 80
	defaultRows     = 24
	statsWidth      = 36
	historyCapacity = 300
	frameInterval   = time.Second / 60
	// wheelNotch is the wheel delta of one scroll step, in the units the
	// camera's zoom speed expects.
	wheelNotch = 120
	legendMax  = 8
)

type TickMsg time.Time

// Reloader rebuilds the scene's bodies for the reload key.
type Reloader func() ([]*body.Body, error)

// Model drives a sandbox from a Bubble Tea program. The sandbox is shared,
// so copies of Model all see the same simulation.
type Model struct {
	sb     *sandbox.Sandbox
	reload Reloader
	scene  string
	logger *zap.Logger

	canvas     *Canvas
	cols, rows int

	lastFrame time.Time
	pointer   geom.Vec2
	picked    body.ID
	hasPicked bool

	energyHistory []float64
	status        string
}

func NewModel(sb *sandbox.Sandbox, scene string, reload Reloader, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := Model{
		sb:            sb,
		reload:        reload,
		scene:         scene,
		logger:        logger,
		canvas:        &Canvas{},
		energyHistory: make([]float64, 0, historyCapacity),
	}
	m.resize(defaultCols, defaultRows)
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case TickMsg:
		now := time.Time(msg)
		if !m.lastFrame.IsZero() {
			m.advance(now.Sub(m.lastFrame).Seconds())
		}
		m.lastFrame = now
		return m, tick()
	}
	return m, nil
}

// advance ticks the sandbox and samples energy when steps ran.
func (m *Model) advance(elapsed float64) {
	if m.sb.Tick(elapsed) == 0 {
		return
	}
	m.energyHistory = append(m.energyHistory, m.sb.Energy())
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

func (m *Model) resize(width, height int) {
	cols := max(width-statsWidth, 10)
	rows := max(height-2, 5)
	if cols == m.cols && rows == m.rows {
		return
	}
	m.cols, m.rows = cols, rows
	m.canvas.Resize(cols, rows)
	m.sb.SetViewport(float64(cols*2), float64(rows*4))
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		if m.sb.IsRunning() {
			m.sb.Pause()
		} else {
			m.sb.Resume()
			m.lastFrame = time.Time{}
		}
	case "+", "=":
		m.sb.SetRelativeSpeed(m.sb.SpeedLevel() + 1)
	case "-", "_":
		m.sb.SetRelativeSpeed(m.sb.SpeedLevel() - 1)
	case "x":
		if id, ok := m.sb.PickBodyAtScreenPoint(m.pointer.X, m.pointer.Y); ok {
			m.sb.RemoveBody(id)
			m.status = "body deleted"
		}
	case "f":
		if _, following := m.sb.Following(); following {
			m.sb.Unfollow()
			m.status = "follow off"
		} else if m.hasPicked && m.sb.Follow(m.picked) {
			m.status = "following"
		}
	case "r":
		m.reloadScene()
	}
	return m, nil
}

func (m *Model) reloadScene() {
	if m.reload == nil {
		return
	}
	bodies, err := m.reload()
	if err == nil {
		err = m.sb.Reset(bodies)
	}
	if err != nil {
		m.logger.Error("scene reload failed", zap.String("scene", m.scene), zap.Error(err))
		m.status = "reload failed: " + err.Error()
		return
	}
	m.hasPicked = false
	m.energyHistory = m.energyHistory[:0]
	m.status = "reloaded " + m.scene
	m.logger.Info("scene reloaded", zap.String("scene", m.scene), zap.Int("bodies", len(bodies)))
}

// cellToPixel maps a terminal cell to the sub-pixel at its center. The
// canvas starts below the one-line header.
func (m *Model) cellToPixel(x, y int) (geom.Vec2, bool) {
	row := y - 1
	inside := x >= 0 && x < m.cols && row >= 0 && row < m.rows
	return geom.Vec2{X: float64(x*2) + 1, Y: float64(row*4) + 2}, inside
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	p, inside := m.cellToPixel(msg.X, msg.Y)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		if inside {
			m.sb.ZoomAt(-wheelNotch, p.X, p.Y)
		}
	case msg.Button == tea.MouseButtonWheelDown:
		if inside {
			m.sb.ZoomAt(wheelNotch, p.X, p.Y)
		}
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if !inside {
			return
		}
		if id, ok := m.sb.PickBodyAtScreenPoint(p.X, p.Y); ok {
			m.picked, m.hasPicked = id, true
		}
		m.sb.PointerDown(p.X, p.Y)
	case msg.Action == tea.MouseActionMotion:
		d := p.Sub(m.pointer)
		m.sb.DragMove(d.X, d.Y)
	case msg.Action == tea.MouseActionRelease:
		m.sb.EndDrag()
	}
	m.pointer = p
}

func (m *Model) draw() {
	m.canvas.Clear()
	zoom := m.sb.Camera().Zoom
	for _, b := range m.sb.Bodies() {
		pts := b.Trail.Points()
		for i := 1; i < len(pts); i++ {
			a := m.sb.SimulationToScreen(pts[i-1].Position)
			c := m.sb.SimulationToScreen(pts[i].Position)
			m.canvas.DrawSegment(a.X, a.Y, c.X, c.Y)
		}
	}
	for _, b := range m.sb.VisibleBodies() {
		s := m.sb.SimulationToScreen(b.Position)
		m.canvas.DrawCircle(s.X, s.Y, b.Radius*zoom)
	}
}

func (m Model) View() string {
	if m.sb.Dirty() {
		m.draw()
		m.sb.ClearDirty()
	}

	status := statusRunning.Render("RUNNING")
	if !m.sb.IsRunning() {
		status = statusPaused.Render("PAUSED")
	}
	header := headerStyle.Render(strings.ToUpper(m.scene)) + "  " + status
	if m.status != "" {
		header += "  " + helpStyle.Render(m.status)
	}

	return header + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, m.canvas.String(), m.statsView())
}

func (m Model) statsView() string {
	w := m.sb.World()
	var s strings.Builder

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", w.Clock()))
	row("Speed", fmt.Sprintf("%+.3gx (lvl %d)", m.sb.RelativeSpeed(), m.sb.SpeedLevel()))
	row("Step", fmt.Sprintf("%gs @ %.0f/s", w.Timestep(), w.UpdatesPerSecond()))
	row("Bodies", fmt.Sprintf("%d", w.Len()))
	row("Zoom", fmt.Sprintf("%.3g px/m", m.sb.Camera().Zoom))
	row("Energy", fmt.Sprintf("%.4g J", w.Energy()))
	row("State", m.sb.State().String())

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(4),
			asciigraph.Width(statsWidth-12),
			asciigraph.Caption("energy"),
		)
		s.WriteString("\n" + graphStyle.Render(chart) + "\n")
	}

	s.WriteString("\n")
	for i, b := range w.Bodies() {
		if i == legendMax {
			s.WriteString(helpStyle.Render(fmt.Sprintf("... %d more", w.Len()-legendMax)) + "\n")
			break
		}
		name := b.String()
		if m.hasPicked && b.ID() == m.picked {
			name = "> " + name
		}
		if b.Locked {
			name += " (held)"
		}
		s.WriteString(bodyStyle(b.Color).Render("● "+name) + "\n")
	}

	s.WriteString("\n" + helpStyle.Render("SP:pause +/-:speed x:del\nf:follow r:reload q:quit"))
	return statsStyle.Render(s.String())
}

// Run starts a full-screen program with mouse motion tracking.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

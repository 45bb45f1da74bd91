// Package tui is terminal front end: it draws simulation each tick and turns mouse gestures into
// clicks and drags of nodes.
//
// Bubbletea update loop is the single owner of controller and simulation.
package tui

import (
	"fmt"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"

	"github.com/nikolaydubina/go-force-tree/config"
	"github.com/nikolaydubina/go-force-tree/force"
	"github.com/nikolaydubina/go-force-tree/hierarchy"
	"github.com/nikolaydubina/go-force-tree/interaction"
	"github.com/nikolaydubina/go-force-tree/layout"
)

const (
	// cellAspect is height of terminal cell in simulation units relative to its width.
	cellAspect = 0.5
	maxScale   = 1
	padding    = 2

	springFrequency = 4.0
	springDamping   = 1.0
)

type tickMsg time.Time

// ReloadMsg replaces hierarchy on screen. Failed load keeps current one and shows Err.
type ReloadMsg struct {
	Root *hierarchy.Node
	Err  error
}

// Loader reads hierarchy again from its source.
type Loader func() (*hierarchy.Node, error)

type Option func(*Model)

// WithLoader enables reloading hierarchy by key.
func WithLoader(load Loader) Option { return func(m *Model) { m.load = load } }

// press is pointer held down on node. It becomes drag once pointer moves.
type press struct {
	id    hierarchy.NodeID
	moved bool
}

// Model is bubbletea model of force tree.
type Model struct {
	ctrl     *interaction.Controller
	sim      *force.Simulation
	interval time.Duration
	labels   bool
	load     Loader

	// frame is visible nodes in simulation coordinates
	frame layout.Graph
	err   error

	width, height int
	ready         bool

	// viewport follows fitted layout through springs
	spring harmonica.Spring
	view   layout.ScalerLayout
	vel    [3]float64

	press *press
	ticks int
}

// New makes model that steps sim at cadence of cfg.
func New(ctrl *interaction.Controller, sim *force.Simulation, cfg config.Config, opts ...Option) Model {
	interval := cfg.Simulation.TickInterval
	if interval <= 0 {
		interval = force.DefaultInterval
	}
	fps := max(1, int(time.Second/interval))
	m := Model{
		ctrl:     ctrl,
		sim:      sim,
		interval: interval,
		labels:   cfg.Canvas.Labels,
		spring:   harmonica.NewSpring(harmonica.FPS(fps), springFrequency, springDamping),
		view:     layout.ScalerLayout{Scale: 1, Aspect: cellAspect},
	}
	for _, o := range opts {
		o(&m)
	}
	m.refresh()
	return m
}

func (m *Model) refresh() { m.frame = layout.NewGraph(m.ctrl.Nodes(), m.ctrl.Links()) }

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.refresh()
		if !m.ready {
			m.view = m.target()
			m.ready = true
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m = m.handleMouse(msg)
		m.refresh()
		return m, nil
	case ReloadMsg:
		if m.err = msg.Err; m.err != nil {
			return m, nil
		}
		m.press = nil
		m.ctrl.Reload(hierarchy.NewModel(msg.Root))
		m.refresh()
		return m, nil
	case tickMsg:
		if m.sim.Step() {
			m.ticks++
		}
		m.refresh()
		if m.ready && m.press == nil {
			m.follow(m.target())
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "r":
		m.sim.SetAlpha(1)
		m.sim.Restart()
	case "l":
		m.labels = !m.labels
	case "R":
		if m.load != nil {
			load := m.load
			return m, func() tea.Msg {
				root, err := load()
				return ReloadMsg{Root: root, Err: err}
			}
		}
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if n, ok := m.hit(msg.X, msg.Y); ok {
			m.press = &press{id: n.ID}
		}
	case msg.Action == tea.MouseActionMotion && m.press != nil:
		if !m.press.moved {
			if !m.ctrl.DragStart(m.press.id) {
				m.press = nil
				return m
			}
			m.press.moved = true
		}
		p := m.view.Invert(layout.Position{X: float64(msg.X), Y: float64(msg.Y)})
		m.ctrl.DragMove(m.press.id, p.X, p.Y)
	case msg.Action == tea.MouseActionRelease && m.press != nil:
		if m.press.moved {
			m.ctrl.DragEnd(m.press.id)
		} else {
			m.ctrl.Click(m.press.id)
		}
		m.press = nil
	}
	return m
}

// hit finds visible node under terminal cell.
func (m Model) hit(x, y int) (*hierarchy.Node, bool) {
	p := m.view.Invert(layout.Position{X: float64(x), Y: float64(y)})
	// one cell around node is still a hit
	slack := math.Hypot(1/m.view.Scale, 1/(m.view.Scale*cellAspect))

	var best *hierarchy.Node
	bestDist := math.Inf(1)
	for _, n := range m.ctrl.Nodes() {
		d := math.Hypot(n.X-p.X, n.Y-p.Y)
		if d <= n.Radius()+slack && d < bestDist {
			best, bestDist = n, d
		}
	}
	return best, best != nil
}

func (m Model) canvasSize() (w, h int) { return m.width, max(m.height-1, 0) }

// target is viewport that fits current frame into terminal.
func (m Model) target() layout.ScalerLayout {
	w, h := m.canvasSize()
	return layout.Fit(m.frame, float64(w), float64(h), padding, cellAspect, maxScale)
}

func (m *Model) follow(t layout.ScalerLayout) {
	m.view.Scale, m.vel[0] = m.spring.Update(m.view.Scale, m.vel[0], t.Scale)
	m.view.Offset.X, m.vel[1] = m.spring.Update(m.view.Offset.X, m.vel[1], t.Offset.X)
	m.view.Offset.Y, m.vel[2] = m.spring.Update(m.view.Offset.Y, m.vel[2], t.Offset.Y)
	if m.view.Scale <= 0 {
		m.view.Scale = t.Scale
	}
}

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	w, h := m.canvasSize()
	c := newCanvas(w, h)

	g := m.frame.Copy()
	m.view.UpdateGraphLayout(g)
	draw(c, g, m.labels)

	state := "settled"
	if m.sim.Running() {
		state = "running"
	}
	status := fmt.Sprintf("root %s  nodes %d  links %d  alpha %.3f  %s", m.rootName(), len(g.Nodes), len(g.Edges), m.sim.Alpha(), state)
	if m.err != nil {
		return c.String() + "\n" + styleError.MaxWidth(m.width).Render(status+"  │  reload: "+m.err.Error())
	}
	help := "  │  click toggle  drag move  r reheat  l labels  q quit"
	if m.load != nil {
		help += "  R reload"
	}
	return c.String() + "\n" + styleStatus.MaxWidth(m.width).Render(status+help)
}

func (m Model) rootName() string {
	roots := m.frame.Roots()
	if len(roots) == 0 {
		return "-"
	}
	return m.frame.Nodes[roots[0]].Name
}

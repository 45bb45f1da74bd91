package tui

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nikolaydubina/go-force-tree/hierarchy"
	"github.com/nikolaydubina/go-force-tree/layout"
	"github.com/nikolaydubina/go-force-tree/render"
)

var (
	styleCollapsed = lipgloss.NewStyle().Foreground(hex(render.ColorCollapsed)).Bold(true)
	styleExpanded  = lipgloss.NewStyle().Foreground(hex(render.ColorExpanded))
	styleLeaf      = lipgloss.NewStyle().Foreground(hex(render.ColorLeaf))
	styleLink      = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	styleLabel     = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	styleStatus    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleError     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

func hex(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

func glyph(s hierarchy.State) (string, lipgloss.Style) {
	switch s {
	case hierarchy.Collapsed:
		return "●", styleCollapsed
	case hierarchy.Expanded:
		return "○", styleExpanded
	default:
		return "•", styleLeaf
	}
}

// canvas is grid of terminal cells, each holding already styled text.
type canvas struct {
	w, h  int
	cells [][]string
}

func newCanvas(w, h int) canvas {
	c := canvas{w: max(w, 0), h: max(h, 0)}
	c.cells = make([][]string, c.h)
	for y := range c.cells {
		c.cells[y] = make([]string, c.w)
		for x := range c.cells[y] {
			c.cells[y][x] = " "
		}
	}
	return c
}

func (c canvas) set(x, y int, s string) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = s
}

// line draws segment with Bresenham algorithm.
func (c canvas) line(a, b layout.Position, s string) {
	x0, y0 := cell(a.X), cell(a.Y)
	x1, y1 := cell(b.X), cell(b.Y)
	dx, sx := abs(x1-x0), sign(x1-x0)
	dy, sy := -abs(y1-y0), sign(y1-y0)
	e := dx + dy
	for {
		c.set(x0, y0, s)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (c canvas) text(x, y int, s string, style lipgloss.Style) {
	for i, r := range []rune(s) {
		c.set(x+i, y, style.Render(string(r)))
	}
}

func (c canvas) String() string {
	var b strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, s := range row {
			b.WriteString(s)
		}
	}
	return b.String()
}

// draw paints frame that is already in viewport coordinates. Links go under nodes.
func draw(c canvas, g layout.Graph, labels bool) {
	link := styleLink.Render("·")
	for _, id := range g.EdgeIDs() {
		path := g.Edges[id].Path
		for i := 1; i < len(path); i++ {
			c.line(path[i-1], path[i], link)
		}
	}
	for _, id := range g.NodeIDs() {
		n := g.Nodes[id]
		s, style := glyph(n.State)
		x, y := cell(n.X), cell(n.Y)
		c.set(x, y, style.Render(s))
		if labels {
			c.text(x+2, y, n.Name, styleLabel)
		}
	}
}

func cell(v float64) int { return int(math.Round(v)) }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

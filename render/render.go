// Package render paints frames of simulation into static images.
package render

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/nikolaydubina/go-force-tree/hierarchy"
	"github.com/nikolaydubina/go-force-tree/layout"
)

var (
	ColorCollapsed = color.RGBA{0x31, 0x82, 0xbd, 0xff}
	ColorExpanded  = color.RGBA{0xc6, 0xdb, 0xef, 0xff}
	ColorLeaf      = color.RGBA{0xfd, 0x8d, 0x3c, 0xff}
	colorLink      = color.RGBA{0x99, 0x99, 0x99, 0xff}
	colorStroke    = color.RGBA{0x31, 0x82, 0xbd, 0xff}
	colorBackdrop  = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorText      = color.RGBA{0x33, 0x33, 0x33, 0xff}
)

const (
	strokeWidth     = 1.5
	rootStrokeWidth = 3
)

// Options of frame.
type Options struct {
	Width  int
	Height int
	Labels bool // draw node names next to nodes
}

// Fill of node: collapsed nodes are dark, expanded light and leaves orange.
func Fill(s hierarchy.State) color.RGBA {
	switch s {
	case hierarchy.Collapsed:
		return ColorCollapsed
	case hierarchy.Expanded:
		return ColorExpanded
	default:
		return ColorLeaf
	}
}

// Save writes frame to path, format is inferred from extension (.svg or .png).
func Save(path string, g layout.Graph, opts Options) error {
	if path == "" {
		return fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".svg":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := SVG(f, g, opts); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	case ".png":
		return PNG(path, g, opts)
	default:
		return fmt.Errorf("unsupported format %q (want .svg or .png)", ext)
	}
}

// SVG writes frame as SVG document with links under nodes.
func SVG(w io.Writer, g layout.Graph, opts Options) error {
	canvas := svg.New(w)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))

	for _, id := range g.EdgeIDs() {
		path := g.Edges[id].Path
		if len(path) < 2 {
			continue
		}
		xs := make([]int, len(path))
		ys := make([]int, len(path))
		for i, p := range path {
			xs[i], ys[i] = int(p.X), int(p.Y)
		}
		canvas.Polyline(xs, ys, fmt.Sprintf(`class="link" fill="none" stroke="%s" stroke-width="%g"`, css(colorLink), strokeWidth))
	}

	roots := rootSet(g)
	for _, id := range g.NodeIDs() {
		n := g.Nodes[id]
		canvas.Group(`class="node"`, fmt.Sprintf(`transform="translate(%.2f, %.2f)"`, n.X, n.Y))
		canvas.Circle(0, 0, max(1, int(n.R+0.5)), fmt.Sprintf(`fill="%s" stroke="%s" stroke-width="%g"`, css(Fill(n.State)), css(colorStroke), stroke(roots, id)))
		canvas.Title(n.Name)
		if opts.Labels {
			canvas.Text(int(n.R)+3, 4, n.Name, fmt.Sprintf(`fill="%s" font-size="10px" font-family="sans-serif"`, css(colorText)))
		}
		canvas.Gend()
	}

	canvas.End()
	return nil
}

// PNG draws frame into png file.
func PNG(path string, g layout.Graph, opts Options) error {
	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	dc.SetColor(colorLink)
	dc.SetLineWidth(strokeWidth)
	for _, id := range g.EdgeIDs() {
		path := g.Edges[id].Path
		for i := 1; i < len(path); i++ {
			dc.DrawLine(path[i-1].X, path[i-1].Y, path[i].X, path[i].Y)
			dc.Stroke()
		}
	}

	dc.SetFontFace(basicfont.Face7x13)
	roots := rootSet(g)
	for _, id := range g.NodeIDs() {
		n := g.Nodes[id]
		dc.DrawCircle(n.X, n.Y, n.R)
		dc.SetColor(Fill(n.State))
		dc.FillPreserve()
		dc.SetColor(colorStroke)
		dc.SetLineWidth(stroke(roots, id))
		dc.Stroke()
		if opts.Labels {
			dc.SetColor(colorText)
			dc.DrawStringAnchored(n.Name, n.X+n.R+3, n.Y, 0, 0.5)
		}
	}

	return dc.SavePNG(path)
}

func rootSet(g layout.Graph) map[layout.NodeID]bool {
	roots := make(map[layout.NodeID]bool)
	for _, id := range g.Roots() {
		roots[id] = true
	}
	return roots
}

// stroke of node outline, roots are outlined heavier.
func stroke(roots map[layout.NodeID]bool, id layout.NodeID) float64 {
	if roots[id] {
		return rootStrokeWidth
	}
	return strokeWidth
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

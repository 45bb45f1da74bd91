package layout

import "math"

// ScalerLayout will move existing layout by Offset and then scale it by constant factor.
// Vertical axis can be scaled differently, for example terminal cells are twice as high as wide.
type ScalerLayout struct {
	Scale  float64
	Aspect float64 // vertical scale relative to horizontal, 0 means 1
	Offset Position
}

func (l ScalerLayout) aspect() float64 {
	if l.Aspect == 0 {
		return 1
	}
	return l.Aspect
}

// Apply maps point from simulation space into viewport.
func (l ScalerLayout) Apply(p Position) Position {
	return Position{
		X: (p.X - l.Offset.X) * l.Scale,
		Y: (p.Y - l.Offset.Y) * l.Scale * l.aspect(),
	}
}

// Invert maps point from viewport back into simulation space.
func (l ScalerLayout) Invert(p Position) Position {
	if l.Scale == 0 {
		return l.Offset
	}
	return Position{
		X: p.X/l.Scale + l.Offset.X,
		Y: p.Y/(l.Scale*l.aspect()) + l.Offset.Y,
	}
}

func (l ScalerLayout) UpdateGraphLayout(g Graph) {
	for i, node := range g.Nodes {
		node.Position = l.Apply(node.Position)
		node.R *= l.Scale
		g.Nodes[i] = node
	}

	// can not recompute edge layout as some paths may be not direct
	for e := range g.Edges {
		for p, pos := range g.Edges[e].Path {
			g.Edges[e].Path[p] = l.Apply(pos)
		}

		// if edge was not previously set adding at least two nodes for start and end
		if len(g.Edges[e].Path) == 0 {
			g.Edges[e] = Edge{Path: make([]Position, 2)}
		}

		// end and start should use center coordinates of nodes
		g.Edges[e].Path[0] = g.Nodes[e[0]].Position
		g.Edges[e].Path[len(g.Edges[e].Path)-1] = g.Nodes[e[1]].Position
	}
}

// Fit makes scaler that puts bounding box of graph into viewport of width and height with padding on each side.
// Scale never grows above maxScale, so that small graphs are not blown up.
func Fit(g Graph, width, height, padding, aspect, maxScale float64) ScalerLayout {
	if aspect == 0 {
		aspect = 1
	}
	minx, miny, maxx, maxy := g.BoundingBox()
	w := math.Max(maxx-minx, 1)
	h := math.Max(maxy-miny, 1)

	scale := math.Min((width-2*padding)/w, (height-2*padding)/(h*aspect))
	if maxScale > 0 {
		scale = math.Min(scale, maxScale)
	}
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}

	// center box in viewport
	cx, cy := (minx+maxx)/2, (miny+maxy)/2
	return ScalerLayout{
		Scale:  scale,
		Aspect: aspect,
		Offset: Position{
			X: cx - width/2/scale,
			Y: cy - height/2/(scale*aspect),
		},
	}
}

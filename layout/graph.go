package layout

import (
	"maps"
	"math"
	"slices"
	"sort"

	"github.com/nikolaydubina/go-force-tree/hierarchy"
)

type NodeID = uint64

type Position struct {
	X float64
	Y float64
}

// Graph is one frame of simulation: where to draw nodes and paths of edges.
type Graph struct {
	Edges map[[2]NodeID]Edge
	Nodes map[NodeID]Node
}

// Node is circle centered at Position.
type Node struct {
	Position
	R     float64
	Name  string
	State hierarchy.State
}

// Edge is path of points that edge goes through
type Edge struct {
	Path []Position // [start: {x,y}, ... finish: {x,y}]
}

// NewGraph takes current positions of visible nodes and links.
// Edge paths are direct lines between node centers.
func NewGraph(nodes []*hierarchy.Node, links []hierarchy.Link) Graph {
	g := Graph{
		Nodes: make(map[NodeID]Node, len(nodes)),
		Edges: make(map[[2]NodeID]Edge, len(links)),
	}
	for _, n := range nodes {
		g.Nodes[n.ID] = Node{
			Position: Position{X: n.X, Y: n.Y},
			R:        n.Radius(),
			Name:     n.Name,
			State:    n.State(),
		}
	}
	for _, l := range links {
		g.Edges[[2]NodeID{l.Source.ID, l.Target.ID}] = Edge{}
	}
	DirectEdgesLayout{}.UpdateGraphLayout(g)
	return g
}

// Copy is deep enough for layouts to update it in place without touching g.
func (g Graph) Copy() Graph {
	ng := Graph{
		Nodes: maps.Clone(g.Nodes),
		Edges: make(map[[2]NodeID]Edge, len(g.Edges)),
	}
	for id, e := range g.Edges {
		ng.Edges[id] = Edge{Path: slices.Clone(e.Path)}
	}
	return ng
}

// Roots are nodes no edge points to, in ascending order.
func (g Graph) Roots() []NodeID {
	children := make(map[NodeID]bool, len(g.Edges))
	for e := range g.Edges {
		children[e[1]] = true
	}
	return slices.DeleteFunc(g.NodeIDs(), func(id NodeID) bool { return children[id] })
}

// NodeIDs in ascending order, so that drawing is deterministic.
func (g Graph) NodeIDs() []NodeID { return slices.Sorted(maps.Keys(g.Nodes)) }

// EdgeIDs in ascending order of source then target.
func (g Graph) EdgeIDs() [][2]NodeID {
	ids := make([][2]NodeID, 0, len(g.Edges))
	for id := range g.Edges {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i][0] != ids[j][0] {
			return ids[i][0] < ids[j][0]
		}
		return ids[i][1] < ids[j][1]
	})
	return ids
}

// BoundingBox coordinates that should fit whole graph.
// Does not consider edges. Empty graph has zero box.
func (g Graph) BoundingBox() (minx, miny, maxx, maxy float64) {
	if len(g.Nodes) == 0 {
		return 0, 0, 0, 0
	}
	minx, miny = math.Inf(1), math.Inf(1)
	maxx, maxy = math.Inf(-1), math.Inf(-1)
	for _, node := range g.Nodes {
		minx = math.Min(minx, node.X-node.R)
		miny = math.Min(miny, node.Y-node.R)
		maxx = math.Max(maxx, node.X+node.R)
		maxy = math.Max(maxy, node.Y+node.R)
	}
	return minx, miny, maxx, maxy
}

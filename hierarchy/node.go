// Package hierarchy is rooted tree with collapsible subtrees.
// Visible part of tree is flattened into nodes and parent-child links
// that are fed to force simulation.
package hierarchy

import (
	"math"

	"github.com/nikolaydubina/go-force-tree/force"
)

type NodeID = uint64

const defaultRadius = 4.5

// State tells what happens to children of node.
type State uint8

const (
	Leaf State = iota
	Expanded
	Collapsed
)

func (s State) String() string {
	switch s {
	case Leaf:
		return "leaf"
	case Expanded:
		return "expanded"
	case Collapsed:
		return "collapsed"
	default:
		return "unknown"
	}
}

// Node of tree. Children are exclusively owned by parent.
// Position and velocity are owned by simulation while node is visible.
type Node struct {
	force.Body

	ID   NodeID // zero until assigned by Model
	Name string
	Size float64 // zero when absent

	children  []*Node
	collapsed bool
}

func New(name string, children ...*Node) *Node {
	return &Node{Name: name, children: children}
}

// Add appends children, keeping current state.
func (n *Node) Add(children ...*Node) { n.children = append(n.children, children...) }

func (n *Node) State() State {
	switch {
	case len(n.children) == 0:
		return Leaf
	case n.collapsed:
		return Collapsed
	default:
		return Expanded
	}
}

// Children are visible children, empty when collapsed.
func (n *Node) Children() []*Node {
	if n.collapsed {
		return nil
	}
	return n.children
}

// CollapsedChildren are hidden children, empty when expanded.
func (n *Node) CollapsedChildren() []*Node {
	if !n.collapsed {
		return nil
	}
	return n.children
}

// Radius for drawing.
func (n *Node) Radius() float64 {
	if r := math.Sqrt(n.Size) / 10; r > 0 && !math.IsNaN(r) {
		return r
	}
	return defaultRadius
}

// Toggle collapses expanded node or expands collapsed one. Leaf is not changed.
func Toggle(n *Node) State {
	if len(n.children) > 0 {
		n.collapsed = !n.collapsed
	}
	return n.State()
}

package hierarchy

import (
	"iter"
	"slices"

	"github.com/nikolaydubina/go-force-tree/force"
)

// Link from visible parent to its visible child.
type Link struct {
	Source *Node
	Target *Node
}

// Option configures Model.
type Option func(*Model)

// WithVisitCounting makes id counter advance on every visit of flatten,
// not only when id is assigned. Ids stay unique but become sparse after repeated flattens.
func WithVisitCounting() Option {
	return func(m *Model) { m.countVisits = true }
}

// Model owns tree and allocates ids to its nodes.
type Model struct {
	root        *Node
	next        NodeID
	countVisits bool
}

func NewModel(root *Node, opts ...Option) *Model {
	m := &Model{root: root}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Model) Root() *Node { return m.root }

// Flatten is visible nodes in post-order, subtree of node comes before node.
// Nodes without id get next one. Sequence is computed fresh on each iteration.
func (m *Model) Flatten() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		walk(m.root, nil, func(n, _ *Node) bool {
			m.assign(n)
			return yield(n)
		})
	}
}

func (m *Model) assign(n *Node) {
	if n.ID == 0 {
		m.next++
		n.ID = m.next
		return
	}
	if m.countVisits {
		m.next++
	}
}

// Nodes collects Flatten.
func (m *Model) Nodes() []*Node { return slices.Collect(m.Flatten()) }

// Links of visible tree, same order as Flatten.
func (m *Model) Links() iter.Seq[Link] { return LinksOf(m.root) }

// Find visible node by id.
func (m *Model) Find(id NodeID) (*Node, bool) {
	var found *Node
	walk(m.root, nil, func(n, _ *Node) bool {
		if n.ID == id && id != 0 {
			found = n
			return false
		}
		return true
	})
	return found, found != nil
}

// FindByName returns first visible node in post-order with given name.
func (m *Model) FindByName(name string) (*Node, bool) {
	for n := range m.Flatten() {
		if n.Name == name {
			return n, true
		}
	}
	return nil, false
}

// Snapshot flattens tree and returns bodies and links ready for simulation.
func (m *Model) Snapshot() ([]*Node, []*force.Body, []force.Link) {
	nodes := m.Nodes()
	bodies := make([]*force.Body, len(nodes))
	for i, n := range nodes {
		bodies[i] = &n.Body
	}
	var links []force.Link
	for l := range m.Links() {
		links = append(links, force.Link{Source: &l.Source.Body, Target: &l.Target.Body})
	}
	return nodes, bodies, links
}

// LinksOf is one link per visible non-root node, pointing from its parent.
func LinksOf(root *Node) iter.Seq[Link] {
	return func(yield func(Link) bool) {
		walk(root, nil, func(n, parent *Node) bool {
			if parent == nil {
				return true
			}
			return yield(Link{Source: parent, Target: n})
		})
	}
}

// walk visits visible nodes in post-order until visit returns false.
func walk(n, parent *Node, visit func(n, parent *Node) bool) bool {
	if n == nil {
		return true
	}
	for _, c := range n.Children() {
		if !walk(c, n, visit) {
			return false
		}
	}
	return visit(n, parent)
}

package hierarchy

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// abcd is {A: [B, C: [D]]}
func abcd() (a, b, c, d *Node) {
	d = New("D")
	c = New("C", d)
	b = New("B")
	a = New("A", b, c)
	return a, b, c, d
}

func names(nodes []*Node) []string {
	var out []string
	for _, n := range nodes {
		out = append(out, n.Name)
	}
	return out
}

func ids(nodes []*Node) []NodeID {
	var out []NodeID
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func linkNames(m *Model) []string {
	var out []string
	for l := range m.Links() {
		out = append(out, l.Source.Name+"->"+l.Target.Name)
	}
	return out
}

func TestModel_Scenario(t *testing.T) {
	a, _, c, d := abcd()
	m := NewModel(a)

	nodes := m.Nodes()
	assert.Equal(t, []string{"B", "D", "C", "A"}, names(nodes))
	assert.Equal(t, []NodeID{1, 2, 3, 4}, ids(nodes))
	assert.Equal(t, []string{"A->B", "C->D", "A->C"}, linkNames(m))
	idD := d.ID

	assert.Equal(t, Collapsed, Toggle(c))
	assert.Equal(t, []string{"B", "C", "A"}, names(m.Nodes()))
	assert.Equal(t, []string{"A->B", "A->C"}, linkNames(m))

	assert.Equal(t, Expanded, Toggle(c))
	nodes = m.Nodes()
	assert.Equal(t, []string{"B", "D", "C", "A"}, names(nodes))
	assert.Equal(t, []string{"A->B", "C->D", "A->C"}, linkNames(m))
	assert.Equal(t, idD, d.ID)
	assert.Equal(t, []NodeID{1, 2, 3, 4}, ids(nodes))
}

func TestModel_VisitCounting(t *testing.T) {
	a, _, c, _ := abcd()
	m := NewModel(a, WithVisitCounting())

	first := ids(m.Nodes())
	assert.Equal(t, []NodeID{1, 2, 3, 4}, first)
	assert.Equal(t, first, ids(m.Nodes()))

	// counter moved past already visited nodes, so new node gets sparse id
	c.Add(New("E"))
	nodes := m.Nodes()
	assert.Equal(t, []string{"B", "D", "E", "C", "A"}, names(nodes))
	assert.Equal(t, NodeID(11), nodes[2].ID)
}

func TestModel_NewNodeGetsNextID(t *testing.T) {
	a, _, c, _ := abcd()
	m := NewModel(a)
	m.Nodes()
	m.Nodes()

	e := New("E")
	c.Add(e)
	m.Nodes()
	assert.Equal(t, NodeID(5), e.ID)
}

func TestModel_Find(t *testing.T) {
	a, _, c, d := abcd()
	m := NewModel(a)
	m.Nodes()

	n, ok := m.Find(d.ID)
	require.True(t, ok)
	assert.Same(t, d, n)

	Toggle(c)
	_, ok = m.Find(d.ID)
	assert.False(t, ok, "hidden node is not found")

	_, ok = m.Find(0)
	assert.False(t, ok)

	n, ok = m.FindByName("C")
	require.True(t, ok)
	assert.Same(t, c, n)
}

func TestModel_FlattenIsLazy(t *testing.T) {
	a, b, _, d := abcd()
	m := NewModel(a)

	for n := range m.Flatten() {
		if n == b {
			break
		}
	}
	assert.Equal(t, NodeID(1), b.ID)
	assert.Zero(t, d.ID)
}

func TestModel_EmptyRoot(t *testing.T) {
	m := NewModel(nil)
	assert.Empty(t, m.Nodes())
	assert.Empty(t, slices.Collect(m.Links()))
}

func TestModel_Snapshot(t *testing.T) {
	a, _, _, _ := abcd()
	m := NewModel(a)

	nodes, bodies, links := m.Snapshot()
	require.Len(t, bodies, len(nodes))
	for i := range nodes {
		assert.Same(t, &nodes[i].Body, bodies[i])
	}
	assert.Len(t, links, 3)
	assert.Same(t, &a.Body, links[2].Source)
}

func TestToggle_Leaf(t *testing.T) {
	n := New("leaf")
	assert.Equal(t, Leaf, Toggle(n))
	assert.Empty(t, n.Children())
	assert.Empty(t, n.CollapsedChildren())
}

func TestNode_Radius(t *testing.T) {
	assert.Equal(t, 4.5, New("a").Radius())
	assert.Equal(t, 10.0, (&Node{Size: 10000}).Radius())
}

// genTree draws random tree with up to depth levels.
func genTree(t *rapid.T, depth int, label string) *Node {
	n := New(label)
	if depth == 0 {
		return n
	}
	k := rapid.IntRange(0, 4).Draw(t, label+"/k")
	for i := 0; i < k; i++ {
		n.Add(genTree(t, depth-1, fmt.Sprintf("%s/%d", label, i)))
	}
	return n
}

// all nodes of tree including hidden ones, pre-order
func all(n *Node) []*Node {
	out := []*Node{n}
	for _, c := range n.children {
		out = append(out, all(c)...)
	}
	return out
}

func TestModel_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		root := genTree(t, 4, "r")
		m := NewModel(root, func(m *Model) { m.countVisits = rapid.Bool().Draw(t, "visits") })
		everything := all(root)

		for step := 0; step < 10; step++ {
			first := m.Nodes()
			second := m.Nodes()

			// flatten is idempotent
			assert.Equal(t, ids(first), ids(second))
			assert.Equal(t, names(first), names(second))

			// ids are unique
			seen := map[NodeID]bool{}
			for _, n := range first {
				assert.NotZero(t, n.ID)
				assert.False(t, seen[n.ID])
				seen[n.ID] = true
			}

			// links connect parent and child, one per non-root node
			visible := map[*Node]bool{}
			for _, n := range first {
				visible[n] = true
			}
			links := slices.Collect(m.Links())
			assert.Len(t, links, len(first)-1)
			for _, l := range links {
				assert.True(t, visible[l.Source])
				assert.True(t, visible[l.Target])
				assert.Contains(t, l.Source.Children(), l.Target)
			}

			// children and collapsed children are never both populated
			for _, n := range everything {
				assert.False(t, len(n.Children()) > 0 && len(n.CollapsedChildren()) > 0)
			}

			// toggle round trip keeps children and order
			target := first[rapid.IntRange(0, len(first)-1).Draw(t, "target")]
			before := slices.Clone(target.Children())
			Toggle(target)
			if len(before) > 0 {
				assert.Empty(t, target.Children())
				assert.Equal(t, before, target.CollapsedChildren())
				Toggle(target)
				assert.Equal(t, before, target.Children())
				assert.Empty(t, target.CollapsedChildren())
			}
			if rapid.Bool().Draw(t, "keep collapsed") {
				Toggle(target)
			}
		}
	})
}

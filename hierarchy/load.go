package hierarchy

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/nikolaydubina/jsonl-graph/graph"
)

// record is JSON shape of node.
type record struct {
	Name     string    `json:"name"`
	Size     float64   `json:"size,omitempty"`
	Children []*record `json:"children,omitempty"`
}

// Load reads hierarchy from file. Files with .jsonl extension are JSONL graphs, others are nested JSON.
func Load(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening hierarchy: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		return DecodeJSONL(f)
	}
	return Decode(f)
}

// Decode reads nested JSON object {"name": ..., "size": ..., "children": [...]}.
func Decode(r io.Reader) (*Node, error) {
	var root *record
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}
	if root == nil {
		return nil, fmt.Errorf("%w: root is null", ErrInvalidRoot)
	}
	return root.node([]string{root.Name})
}

func (r *record) node(path []string) (*Node, error) {
	n := &Node{Name: r.Name, Size: r.Size}
	for i, c := range r.Children {
		if c == nil {
			return nil, fmt.Errorf("%w: child(%d) of %v is null", ErrInvalidRoot, i, path)
		}
		child, err := c.node(append(slices.Clone(path), c.Name))
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, child)
	}
	return n, nil
}

// DecodeJSONL reads graph with node lines {"id": ...} and edge lines {"from": ..., "to": ...}.
// Edges point from parent to child. Node without incoming edges is root,
// children are ordered as their nodes appear in input.
func DecodeJSONL(r io.Reader) (*Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading hierarchy: %w", err)
	}
	if err := checkJSONL(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}

	g, err := graph.NewGraphFromJSONL(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}
	if len(g.Nodes) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, ErrNoRoot)
	}

	nodes := make(map[uint64]*Node, len(g.Nodes))
	for idx, data := range g.Nodes {
		n := &Node{Name: fmt.Sprint(data["id"])}
		if name, ok := data["name"].(string); ok && name != "" {
			n.Name = name
		}
		// graph decoder keeps numbers as json.Number
		switch size := data["size"].(type) {
		case float64:
			n.Size = size
		case number:
			v, err := size.Float64()
			if err != nil {
				return nil, fmt.Errorf("%w: size of %q: %w", ErrInvalidRoot, n.Name, err)
			}
			n.Size = v
		}
		nodes[idx] = n
	}

	edges := make([][2]uint64, 0, len(g.Edges))
	for e := range g.Edges {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0] < edges[j][0]
		}
		return edges[i][1] < edges[j][1]
	})

	hasParent := make(map[uint64]bool, len(g.Nodes))
	for _, e := range edges {
		if hasParent[e[1]] {
			return nil, fmt.Errorf("%w: %w: %q has more than one parent", ErrInvalidRoot, ErrCycle, nodes[e[1]].Name)
		}
		hasParent[e[1]] = true
		nodes[e[0]].children = append(nodes[e[0]].children, nodes[e[1]])
	}

	var roots []uint64
	for idx := range nodes {
		if !hasParent[idx] {
			roots = append(roots, idx)
		}
	}
	if len(roots) != 1 {
		return nil, fmt.Errorf("%w: want exactly one root, got %d", ErrInvalidRoot, len(roots))
	}
	root := nodes[roots[0]]

	if err := Validate(root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}
	if reachable := count(root); reachable != len(nodes) {
		return nil, fmt.Errorf("%w: %w: %d nodes are not reachable from root", ErrInvalidRoot, ErrCycle, len(nodes)-reachable)
	}
	return root, nil
}

type number interface{ Float64() (float64, error) }

// checkJSONL makes sure every record is either node or edge between declared nodes.
// Graph decoder skips records it can not parse and adds nodes for unknown edge ends.
func checkJSONL(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	ids := make(map[string]bool)
	var edges [][2]string
	for i := 0; ; i++ {
		var rec map[string]any
		if err := dec.Decode(&rec); err == io.EOF {
			break
		} else if err != nil {
			return fmt.Errorf("record(%d): %w", i, err)
		}

		id, hasID := rec["id"]
		from, hasFrom := rec["from"]
		to, hasTo := rec["to"]
		switch {
		case hasID && !hasFrom && !hasTo:
			ids[fmt.Sprint(id)] = true
		case hasFrom && hasTo && !hasID:
			edges = append(edges, [2]string{fmt.Sprint(from), fmt.Sprint(to)})
		default:
			return fmt.Errorf("record(%d): want node with id or edge with from and to", i)
		}
	}
	for _, e := range edges {
		if !ids[e[0]] || !ids[e[1]] {
			return fmt.Errorf("edge(%s -> %s) references unknown node", e[0], e[1])
		}
	}
	return nil
}

// count all nodes in tree including collapsed ones.
func count(n *Node) int {
	c := 1
	for _, child := range n.children {
		c += count(child)
	}
	return c
}

package hierarchy

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrNoRoot      = errors.New("no root")
	ErrCycle       = errors.New("node is reachable more than once")
	ErrInvalidRoot = errors.New("invalid hierarchy")
)

// Validate checks that root is finite tree, including collapsed subtrees.
func Validate(root *Node) error {
	if root == nil {
		return ErrNoRoot
	}
	seen := map[*Node]bool{}
	var visit func(n *Node, path []string) error
	visit = func(n *Node, path []string) error {
		path = append(slices.Clone(path), n.Name)
		if seen[n] {
			return fmt.Errorf("%w: %v", ErrCycle, path)
		}
		seen[n] = true
		for i, c := range n.children {
			if c == nil {
				return fmt.Errorf("%w: child(%d) of %v is nil", ErrInvalidRoot, i, path)
			}
			if err := visit(c, path); err != nil {
				return err
			}
		}
		return nil
	}
	return visit(root, nil)
}

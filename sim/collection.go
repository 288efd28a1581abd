package sim

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Node is anything a NodeCollection can hold.
type Node interface {
	ID() ElementID
	Ref() NodeRef
}

// NodeCollection holds the nodes of one kind in insertion order,
// unique by identifier.
type NodeCollection[N Node] struct {
	nodes []N
}

// Add appends n. Returns ErrDuplicateNode if the identifier is taken.
func (c *NodeCollection[N]) Add(n N) error {
	if _, ok := c.FindByID(n.ID()); ok {
		return fmt.Errorf("add %s: %w", n.Ref(), ErrDuplicateNode)
	}
	c.nodes = append(c.nodes, n)
	return nil
}

// RemoveByID removes and returns the node with the given identifier.
func (c *NodeCollection[N]) RemoveByID(id ElementID) (N, bool) {
	i := c.indexOf(id)
	if i < 0 {
		var zero N
		return zero, false
	}
	n := c.nodes[i]
	c.nodes = slices.Delete(c.nodes, i, i+1)
	return n, true
}

// FindByID returns the node with the given identifier.
func (c *NodeCollection[N]) FindByID(id ElementID) (N, bool) {
	i := c.indexOf(id)
	if i < 0 {
		var zero N
		return zero, false
	}
	return c.nodes[i], true
}

// Items returns the nodes in insertion order. The slice is a copy; the
// nodes are shared.
func (c *NodeCollection[N]) Items() []N {
	return slices.Clone(c.nodes)
}

// Len returns the number of nodes.
func (c *NodeCollection[N]) Len() int {
	return len(c.nodes)
}

func (c *NodeCollection[N]) indexOf(id ElementID) int {
	return slices.IndexFunc(c.nodes, func(n N) bool { return n.ID() == id })
}

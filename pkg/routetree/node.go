package routetree

import (
	"sort"

	"github.com/riogod/router-sub000/internal/errors"
)

// Node is one compiled segment of the route tree. The parent reference is
// navigation-only and never owns the node.
type Node struct {
	name     string // final dot component
	fullName string // dot-composite name from the root
	parser   *pattern
	parent   *Node
	children []*Node
	def      Definition
}

// Name returns the node's segment name.
func (n *Node) Name() string { return n.name }

// FullName returns the node's dot-composite name.
func (n *Node) FullName() string { return n.fullName }

// Path returns the raw path pattern of the node.
func (n *Node) Path() string { return n.def.Path }

// Parent returns the parent node, or nil for top-level nodes.
func (n *Node) Parent() *Node {
	if n.parent != nil && n.parent.fullName == "" {
		return nil
	}
	return n.parent
}

// Children returns the node's children in specificity order.
func (n *Node) Children() []*Node { return n.children }

// Definition returns the behavior configuration attached to the node.
func (n *Node) Definition() Definition { return n.def }

// findChild returns the child with the given segment name.
func (n *Node) findChild(segment string) *Node {
	for _, child := range n.children {
		if child.name == segment {
			return child
		}
	}
	return nil
}

// checkConflict reports a configuration error when the candidate pattern
// for the named route collides with a sibling's pattern at this level.
func (n *Node) checkConflict(candidate *pattern, name string, exclude *Node) error {
	normalized := candidate.normalized()
	for _, child := range n.children {
		if child == exclude {
			continue
		}
		if child.parser.normalized() == normalized {
			return errors.New(errors.CodePathConflict).
				WithMessagef("path %q of route %q collides with sibling %q",
					candidate.raw, name, child.fullName).
				WithSegment(child.fullName)
		}
	}
	return nil
}

// sortChildren orders children by pattern specificity so that static
// segments are tried before parameters and catch-alls. Must be called after
// any dynamic insertion.
func (n *Node) sortChildren() {
	sort.SliceStable(n.children, func(i, j int) bool {
		return moreSpecific(n.children[i].parser, n.children[j].parser)
	})
}

// removeChild unlinks a child node.
func (n *Node) removeChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

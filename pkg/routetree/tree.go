package routetree

import (
	"github.com/riogod/router-sub000/internal/errors"
)

// AddCallback fires once per inserted or updated node so the owning router
// can (re)register guards and hooks.
type AddCallback func(n *Node)

// RemoveCallback fires once per removed node, leaf first, so the owning
// router can drop guard and hook registrations keyed by the removed names.
type RemoveCallback func(fullName string)

// Tree is the hierarchical registry of compiled route segments.
type Tree struct {
	root    *Node
	index   map[string]*Node
	forward map[string]string
}

// New creates an empty route tree.
func New() *Tree {
	root := &Node{parser: &pattern{}}
	return &Tree{
		root:    root,
		index:   map[string]*Node{},
		forward: map[string]string{},
	}
}

// Get returns the node registered under the dot-composite name.
func (t *Tree) Get(name string) *Node {
	return t.index[name]
}

// Roots returns the top-level nodes in specificity order.
func (t *Tree) Roots() []*Node {
	return t.root.children
}

// Chain returns the segment nodes for a dot-composite name, root first.
func (t *Tree) Chain(name string) ([]*Node, bool) {
	ids := NameToIDs(name)
	chain := make([]*Node, 0, len(ids))
	for _, id := range ids {
		node, ok := t.index[id]
		if !ok {
			return nil, false
		}
		chain = append(chain, node)
	}
	return chain, true
}

// ForwardOf resolves the forward map for a route name. Chained forwards are
// followed; a cycle stops at the first repeated name.
func (t *Tree) ForwardOf(name string) string {
	seen := map[string]bool{name: true}
	for {
		next, ok := t.forward[name]
		if !ok || seen[next] {
			return name
		}
		seen[next] = true
		name = next
	}
}

// Add inserts route definitions into the tree. Flat lists must order
// parents before children; re-adding an existing name updates the node in
// place. With sortChildren set, each touched level is re-sorted by pattern
// specificity.
func (t *Tree) Add(defs []Definition, onAdd AddCallback, sortChildren bool) error {
	for _, def := range defs {
		if err := t.addDefinition(def, "", onAdd, sortChildren); err != nil {
			return err
		}
	}
	return nil
}

// AddNode is a single-node convenience insert.
func (t *Tree) AddNode(name, path string, canActivate GuardFactory, onAdd AddCallback) error {
	return t.addDefinition(Definition{
		Name:        name,
		Path:        path,
		CanActivate: canActivate,
	}, "", onAdd, true)
}

func (t *Tree) addDefinition(def Definition, prefix string, onAdd AddCallback, sortChildren bool) error {
	if def.Name == "" {
		return errors.New(errors.CodeInvalidPattern).
			WithMessagef("route definition with path %q has no name", def.Path)
	}

	fullName := def.Name
	if prefix != "" {
		fullName = prefix + "." + def.Name
	}

	parentFull := parentName(fullName)
	parent := t.root
	if parentFull != "" {
		var ok bool
		parent, ok = t.index[parentFull]
		if !ok {
			return errors.New(errors.CodeParentNotFound).
				WithMessagef("cannot add route %q: parent %q is not registered", fullName, parentFull).
				WithSegment(fullName)
		}
	}

	children := def.Children
	def.Children = nil
	def.Name = lastSegment(fullName)

	node, exists := t.index[fullName]
	if exists {
		if err := t.updateNode(node, def); err != nil {
			return err
		}
	} else {
		if def.Path == "" {
			return errors.New(errors.CodeInvalidPattern).
				WithMessagef("route %q has no path pattern", fullName)
		}
		parser, err := compilePattern(def.Path)
		if err != nil {
			return err
		}
		if err := parent.checkConflict(parser, fullName, nil); err != nil {
			return err
		}
		node = &Node{
			name:     def.Name,
			fullName: fullName,
			parser:   parser,
			parent:   parent,
			def:      def,
		}
		parent.children = append(parent.children, node)
		t.index[fullName] = node
	}

	if sortChildren {
		parent.sortChildren()
	}

	if node.def.ForwardTo != "" {
		t.forward[fullName] = node.def.ForwardTo
	} else {
		delete(t.forward, fullName)
	}

	if onAdd != nil {
		onAdd(node)
	}

	for _, child := range children {
		if err := t.addDefinition(child, fullName, onAdd, sortChildren); err != nil {
			return err
		}
	}
	return nil
}

// updateNode applies an in-place update: the path may be replaced when it
// does not collide with a sibling, other supplied fields overwrite, Extra
// is shallow-merged and previously attached children are preserved.
func (t *Tree) updateNode(node *Node, def Definition) error {
	if def.Path != "" && def.Path != node.def.Path {
		parser, err := compilePattern(def.Path)
		if err != nil {
			return err
		}
		if err := node.parent.checkConflict(parser, node.fullName, node); err != nil {
			return err
		}
		node.parser = parser
	}
	node.def.merge(def)
	return nil
}

// RemoveNode removes a node and cascades to its descendants. It returns
// false when the name is unknown.
func (t *Tree) RemoveNode(name string, onRemove RemoveCallback) bool {
	node, ok := t.index[name]
	if !ok {
		return false
	}

	var drop func(n *Node)
	drop = func(n *Node) {
		for _, child := range n.children {
			drop(child)
		}
		n.children = nil
		delete(t.index, n.fullName)
		delete(t.forward, n.fullName)
		if onRemove != nil {
			onRemove(n.fullName)
		}
	}
	drop(node)

	node.parent.removeChild(node)
	node.parent = nil
	return true
}

// metaParams assembles the per-segment parameter schema for a chain of
// nodes: every URL parameter and declared query parameter of each segment.
func metaParams(chain []*Node) map[string]Params {
	schema := make(map[string]Params, len(chain))
	for _, node := range chain {
		entry := Params{}
		for _, name := range node.parser.paramNames() {
			entry[name] = ParamSourceURL
		}
		for _, name := range node.parser.query {
			entry[name] = ParamSourceQuery
		}
		schema[node.fullName] = entry
	}
	return schema
}

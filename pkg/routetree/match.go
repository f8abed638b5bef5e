package routetree

import (
	"net/url"
	"sort"
	"strings"
)

// MatchPath resolves a URL into a route state, walking parsers from the
// root and preferring the most specific child at each level. It returns nil
// when no route matches.
func (t *Tree) MatchPath(path string, opts MatchOptions) *State {
	if path == "" {
		path = "/"
	}

	pathOnly := path
	rawQuery := ""
	if i := strings.IndexByte(path, '?'); i >= 0 {
		pathOnly, rawQuery = path[:i], path[i+1:]
	}
	if !strings.HasPrefix(pathOnly, "/") {
		pathOnly = "/" + pathOnly
	}

	node, params := t.matchNode(pathOnly, opts)
	if node == nil {
		return nil
	}

	chain, ok := t.Chain(node.fullName)
	if !ok {
		return nil
	}

	if !t.mergeQueryParams(params, rawQuery, chain, opts) {
		return nil
	}

	for _, n := range chain {
		if n.def.DecodeParams != nil {
			params = n.def.DecodeParams(params)
		}
	}

	// Forwarding rewrites the matched name before the state is built; the
	// schema then describes the forwarded chain.
	name := t.ForwardOf(node.fullName)
	if name != node.fullName {
		if forwarded, ok := t.Chain(name); ok {
			chain = forwarded
		}
	}

	state := &State{
		Name:   name,
		Params: params,
		Path:   path,
		Meta:   &Meta{Params: metaParams(chain)},
	}

	if opts.RewritePath {
		rebuilt, err := t.BuildPath(name, params, BuildOptions{
			QueryParamsMode:   opts.QueryParamsMode,
			URLParamsEncoding: opts.URLParamsEncoding,
		})
		if err == nil {
			state.Path = rebuilt
		}
	}

	return state
}

// matchNode walks the tree recursively, trying children in specificity
// order and backtracking on failure. Absolute segments reset the path
// prefix, so they are matched against the full path in a second phase
// regardless of whether their ancestors consumed anything.
func (t *Tree) matchNode(fullPath string, opts MatchOptions) (*Node, Params) {
	terminal := func(rest string) bool {
		return rest == "" || (rest == "/" && !opts.StrictTrailingSlash)
	}

	var walk func(n *Node, remaining string, acc Params) (*Node, Params)
	walk = func(n *Node, remaining string, acc Params) (*Node, Params) {
		for _, child := range n.children {
			if child.parser.absolute {
				continue
			}

			extracted, rest, ok := child.parser.match(remaining, opts)
			if !ok {
				continue
			}
			// An empty pattern ("/") consumes the bare slash terminally.
			if len(child.parser.segs) == 0 && rest == "/" {
				rest = ""
			}

			merged := acc.Copy()
			if merged == nil {
				merged = Params{}
			}
			for k, v := range extracted {
				merged[k] = v
			}

			if terminal(rest) {
				return child, merged
			}
			if deeper, deeperParams := walk(child, rest, merged); deeper != nil {
				return deeper, deeperParams
			}
		}
		return nil, nil
	}

	if node, params := walk(t.root, fullPath, Params{}); node != nil {
		return node, params
	}

	// Independently mountable sub-trees rooted at absolute segments.
	for _, entry := range t.absoluteNodes() {
		extracted, rest, ok := entry.parser.match(fullPath, opts)
		if !ok {
			continue
		}
		if terminal(rest) {
			return entry, extracted
		}
		if node, params := walk(entry, rest, extracted); node != nil {
			return node, params
		}
	}
	return nil, nil
}

// absoluteNodes lists nodes with absolute patterns in stable name order.
func (t *Tree) absoluteNodes() []*Node {
	var nodes []*Node
	for _, node := range t.index {
		if node.parser.absolute {
			nodes = append(nodes, node)
		}
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].fullName < nodes[j].fullName
	})
	return nodes
}

// mergeQueryParams folds query-string values into params according to the
// query-params mode. It reports false when a strict match must fail.
func (t *Tree) mergeQueryParams(params Params, rawQuery string, chain []*Node, opts MatchOptions) bool {
	if rawQuery == "" {
		return true
	}

	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		if opts.QueryParamsMode == QueryParamsLoose {
			return true
		}
		return false
	}

	declared := map[string]bool{}
	for _, n := range chain {
		for _, q := range n.parser.query {
			declared[q] = true
		}
	}

	for key, vals := range values {
		if !declared[key] && opts.QueryParamsMode == QueryParamsStrict {
			return false
		}
		if len(vals) > 0 {
			params[key] = vals[0]
		} else {
			params[key] = ""
		}
	}
	return true
}

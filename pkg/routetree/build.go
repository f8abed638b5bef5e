package routetree

import (
	"net/url"
	"sort"
	"strings"

	"github.com/riogod/router-sub000/internal/errors"
)

// BuildPath builds a URL for the named route, substituting parameters into
// each segment's compiled template. Default parameters declared along the
// chain fill in missing values; parameters consumed by no segment are
// serialized as a query string (unless the query-params mode is strict).
func (t *Tree) BuildPath(name string, params Params, opts BuildOptions) (string, error) {
	name = t.ForwardOf(name)
	chain, ok := t.Chain(name)
	if !ok {
		return "", errors.New(errors.CodeBuildNotFound).
			WithMessagef("no route registered under %q", name).
			WithSegment(name)
	}

	merged := chainParams(chain, params)
	for _, node := range chain {
		if node.def.EncodeParams != nil {
			merged = node.def.EncodeParams(merged)
		}
	}

	var b strings.Builder
	consumed := map[string]bool{}
	for _, node := range chain {
		if node.parser.absolute {
			b.Reset()
		}
		fragment, used, err := node.parser.build(merged, opts.URLParamsEncoding)
		if err != nil {
			return "", err
		}
		b.WriteString(fragment)
		for _, key := range used {
			consumed[key] = true
		}
	}

	path := b.String()
	if path == "" {
		path = "/"
	}

	switch opts.TrailingSlashMode {
	case TrailingSlashNever:
		if path != "/" {
			path = strings.TrimSuffix(path, "/")
		}
	case TrailingSlashAlways:
		if !strings.HasSuffix(path, "/") {
			path += "/"
		}
	}

	if query := buildQuery(chain, merged, consumed, opts.QueryParamsMode); query != "" {
		path += "?" + query
	}
	return path, nil
}

// BuildState resolves a route name and parameters into a State, applying
// the forward map, chain default parameters and the per-segment parameter
// schema. The returned state has no meta id; the owning router stamps it.
func (t *Tree) BuildState(name string, params Params, opts BuildOptions) (*State, error) {
	name = t.ForwardOf(name)
	chain, ok := t.Chain(name)
	if !ok {
		return nil, errors.New(errors.CodeRouteNotFound).
			WithMessagef("no route registered under %q", name).
			WithSegment(name)
	}

	merged := chainParams(chain, params)
	path, err := t.BuildPath(name, merged, opts)
	if err != nil {
		return nil, err
	}

	return &State{
		Name:   name,
		Params: merged,
		Path:   path,
		Meta:   &Meta{Params: metaParams(chain)},
	}, nil
}

// chainParams merges the chain's default parameters under the caller's
// parameters.
func chainParams(chain []*Node, params Params) Params {
	merged := Params{}
	for _, node := range chain {
		for k, v := range node.def.DefaultParams {
			merged[k] = v
		}
	}
	for k, v := range params {
		merged[k] = v
	}
	return merged
}

// buildQuery serializes query parameters: declared query parameters of the
// chain first in declaration order, then (outside strict mode) all
// remaining unconsumed parameters in sorted order.
func buildQuery(chain []*Node, params Params, consumed map[string]bool, mode QueryParamsMode) string {
	var parts []string
	appendPart := func(key string) {
		value, ok := params[key]
		if !ok || consumed[key] {
			return
		}
		consumed[key] = true
		if value == "" {
			parts = append(parts, url.QueryEscape(key))
			return
		}
		parts = append(parts, url.QueryEscape(key)+"="+url.QueryEscape(value))
	}

	for _, node := range chain {
		for _, q := range node.parser.query {
			appendPart(q)
		}
	}

	if mode != QueryParamsStrict {
		var leftovers []string
		for key := range params {
			if !consumed[key] {
				leftovers = append(leftovers, key)
			}
		}
		sort.Strings(leftovers)
		for _, key := range leftovers {
			appendPart(key)
		}
	}

	return strings.Join(parts, "&")
}

package routetree

import (
	"strings"

	"github.com/riogod/router-sub000/internal/errors"
)

type segKind int

const (
	segStatic segKind = iota
	segParam
	segSplat
)

// patternSeg is one slash-delimited component of a compiled pattern.
type patternSeg struct {
	kind     segKind
	value    string // static text, or parameter name
	optional bool   // parameter may be absent
}

// pattern is a compiled path pattern for a single route segment. It matches
// a prefix of a URL path and builds that prefix back from parameters.
type pattern struct {
	raw      string
	absolute bool
	segs     []patternSeg
	query    []string // declared query parameter names
}

// compilePattern parses the external pattern syntax. See the package doc
// for the supported forms.
func compilePattern(raw string) (*pattern, error) {
	p := &pattern{raw: raw}

	s := raw
	if strings.HasPrefix(s, "~/") {
		p.absolute = true
		s = s[1:]
	}

	if i := strings.IndexByte(s, '?'); i >= 0 {
		for _, name := range strings.Split(s[i+1:], "&") {
			name = strings.TrimPrefix(name, ":")
			if name == "" {
				return nil, errors.New(errors.CodeInvalidPattern).
					WithMessagef("empty query parameter in pattern %q", raw)
			}
			p.query = append(p.query, name)
		}
		s = s[:i]
	}

	s = strings.Trim(s, "/")
	if s == "" {
		return p, nil
	}

	for _, tok := range strings.Split(s, "/") {
		switch {
		case strings.HasPrefix(tok, "*"):
			name := tok[1:]
			if name == "" {
				return nil, errors.New(errors.CodeInvalidPattern).
					WithMessagef("unnamed catch-all in pattern %q", raw)
			}
			p.segs = append(p.segs, patternSeg{kind: segSplat, value: name})

		case strings.HasPrefix(tok, ":"):
			name := strings.TrimPrefix(tok, ":")
			optional := strings.HasSuffix(name, "?")
			name = strings.TrimSuffix(name, "?")
			if name == "" {
				return nil, errors.New(errors.CodeInvalidPattern).
					WithMessagef("unnamed parameter in pattern %q", raw)
			}
			p.segs = append(p.segs, patternSeg{kind: segParam, value: name, optional: optional})

		case tok == "":
			return nil, errors.New(errors.CodeInvalidPattern).
				WithMessagef("empty path component in pattern %q", raw)

		default:
			p.segs = append(p.segs, patternSeg{kind: segStatic, value: tok})
		}
	}

	for i, seg := range p.segs {
		if seg.kind == segSplat && i != len(p.segs)-1 {
			return nil, errors.New(errors.CodeInvalidPattern).
				WithMessagef("catch-all must be the final component in pattern %q", raw)
		}
	}

	return p, nil
}

// paramNames returns the URL parameter names declared by the pattern.
func (p *pattern) paramNames() []string {
	var names []string
	for _, seg := range p.segs {
		if seg.kind != segStatic {
			names = append(names, seg.value)
		}
	}
	return names
}

// normalized returns the path part of the pattern without query
// declarations, used for sibling collision checks.
func (p *pattern) normalized() string {
	var b strings.Builder
	if p.absolute {
		b.WriteByte('~')
	}
	for _, seg := range p.segs {
		b.WriteByte('/')
		switch seg.kind {
		case segParam:
			b.WriteByte(':')
			b.WriteString(seg.value)
			if seg.optional {
				b.WriteByte('?')
			}
		case segSplat:
			b.WriteByte('*')
			b.WriteString(seg.value)
		default:
			b.WriteString(seg.value)
		}
	}
	if b.Len() == 0 || (p.absolute && b.Len() == 1) {
		b.WriteByte('/')
	}
	return b.String()
}

// nextComponent splits the first slash component off a remaining path.
// The remaining path is always "" or starts with "/".
func nextComponent(path string) (component, rest string) {
	if path == "" || path == "/" {
		return "", ""
	}
	s := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(s, '/'); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

// match consumes the pattern's prefix of path, returning extracted
// parameters and the unconsumed remainder.
func (p *pattern) match(path string, opts MatchOptions) (Params, string, bool) {
	params := Params{}
	rest := path

	for _, seg := range p.segs {
		component, tail := nextComponent(rest)

		switch seg.kind {
		case segStatic:
			if component == "" {
				return nil, "", false
			}
			if opts.CaseSensitive {
				if component != seg.value {
					return nil, "", false
				}
			} else if !strings.EqualFold(component, seg.value) {
				return nil, "", false
			}
			rest = tail

		case segParam:
			if component == "" {
				if seg.optional {
					continue
				}
				return nil, "", false
			}
			value, err := decodeParam(component, opts.URLParamsEncoding)
			if err != nil {
				return nil, "", false
			}
			params[seg.value] = value
			rest = tail

		case segSplat:
			params[seg.value] = strings.TrimPrefix(rest, "/")
			rest = ""
		}
	}

	return params, rest, true
}

// build renders the pattern's path fragment from params. It returns the
// fragment and the names of the parameters it consumed.
func (p *pattern) build(params Params, encoding Encoding) (string, []string, error) {
	var b strings.Builder
	var consumed []string

	for _, seg := range p.segs {
		switch seg.kind {
		case segStatic:
			b.WriteByte('/')
			b.WriteString(seg.value)

		case segParam:
			value, ok := params[seg.value]
			if !ok || value == "" {
				if seg.optional {
					continue
				}
				return "", nil, errors.New(errors.CodeMissingParam).
					WithMessagef("missing required parameter %q for pattern %q", seg.value, p.raw)
			}
			b.WriteByte('/')
			b.WriteString(encodeParam(value, encoding))
			consumed = append(consumed, seg.value)

		case segSplat:
			value, ok := params[seg.value]
			if !ok {
				return "", nil, errors.New(errors.CodeMissingParam).
					WithMessagef("missing catch-all parameter %q for pattern %q", seg.value, p.raw)
			}
			// The remainder keeps its slashes; encode each component.
			parts := strings.Split(value, "/")
			for i := range parts {
				parts[i] = encodeParam(parts[i], encoding)
			}
			b.WriteByte('/')
			b.WriteString(strings.Join(parts, "/"))
			consumed = append(consumed, seg.value)
		}
	}

	return b.String(), consumed, nil
}

// specificity scores one component for child ordering: static components
// beat required parameters, which beat optional parameters, which beat
// catch-alls. Patterns with no components sort last.
func (s patternSeg) specificity() int {
	switch s.kind {
	case segStatic:
		return 3
	case segParam:
		if s.optional {
			return 1
		}
		return 2
	default:
		return 0
	}
}

// moreSpecific orders two patterns for matching: component-by-component by
// specificity, longer patterns first on a tie.
func moreSpecific(a, b *pattern) bool {
	n := len(a.segs)
	if len(b.segs) < n {
		n = len(b.segs)
	}
	for i := 0; i < n; i++ {
		sa, sb := a.segs[i].specificity(), b.segs[i].specificity()
		if sa != sb {
			return sa > sb
		}
	}
	return len(a.segs) > len(b.segs)
}

package routetree

import (
	"context"
	"strings"
)

// NotFoundRouteName is the sentinel route name assigned to states built for
// paths no route matches. Activation guards are skipped for it.
const NotFoundRouteName = "@@unknown"

// Params holds route parameter values keyed by parameter name.
type Params map[string]string

// Copy returns a shallow copy of the params map.
func (p Params) Copy() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// ParamSourceURL and ParamSourceQuery classify where a declared parameter
// comes from in the per-segment schema.
const (
	ParamSourceURL   = "url"
	ParamSourceQuery = "query"
)

// Meta carries bookkeeping attached to a State.
type Meta struct {
	// ID is a monotonic identifier stamped by the owning router instance.
	ID int64

	// Params maps each segment full name to its declared parameters and
	// their source ("url" or "query").
	Params map[string]Params

	// Options are the navigation options the state was created with.
	Options NavigationOptions

	// Redirected reports that the state was reached through a redirect.
	Redirected bool

	// Source identifies what triggered the navigation (e.g. "popstate").
	Source string
}

// Copy returns a copy of the meta with the schema map shared (it is
// immutable after state creation).
func (m *Meta) Copy() *Meta {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

// NavigationOptions configure a single navigation attempt.
type NavigationOptions struct {
	// Reload forces a full re-traverse even when the target equals the
	// current state.
	Reload bool

	// Force skips deactivation guards.
	Force bool

	// Replace asks history-integration collaborators to replace the
	// current entry instead of pushing.
	Replace bool
}

// State is one resolved route state: a reachable route name, the union of
// all ancestor segments' parameters, and the concrete path.
type State struct {
	Name   string
	Params Params
	Path   string
	Meta   *Meta
}

// Copy returns a copy of the state with its own params map.
func (s *State) Copy() *State {
	if s == nil {
		return nil
	}
	return &State{
		Name:   s.Name,
		Params: s.Params.Copy(),
		Path:   s.Path,
		Meta:   s.Meta.Copy(),
	}
}

// IsNotFound reports whether the state is the not-found sentinel.
func (s *State) IsNotFound() bool {
	return s != nil && s.Name == NotFoundRouteName
}

// URLParamKeys returns the keys of parameters declared as URL parameters by
// any segment of the state's route.
func (s *State) URLParamKeys() []string {
	if s == nil || s.Meta == nil {
		return nil
	}
	var keys []string
	seen := map[string]bool{}
	for _, schema := range s.Meta.Params {
		for k, source := range schema {
			if source == ParamSourceURL && !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}

// SameStates reports whether two states target the same route with the same
// parameters. With ignoreQueryParams set, only URL parameters are compared.
func SameStates(a, b *State, ignoreQueryParams bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Name != b.Name {
		return false
	}
	if ignoreQueryParams {
		keys := a.URLParamKeys()
		if len(keys) == 0 {
			keys = b.URLParamKeys()
		}
		for _, k := range keys {
			if a.Params[k] != b.Params[k] {
				return false
			}
		}
		return true
	}
	if len(a.Params) != len(b.Params) {
		return false
	}
	for k, v := range a.Params {
		if b.Params[k] != v {
			return false
		}
	}
	return true
}

// Dependencies is the router-owned dependency map handed to every guard,
// hook, middleware and plugin factory.
type Dependencies map[string]any

// Router is the read surface the routing façade exposes to factories and
// presentation bindings. It is implemented by the top-level router type;
// declaring it here keeps the leaf packages free of upward imports.
type Router interface {
	// GetState returns the current committed state, or nil before start.
	GetState() *State

	// BuildPath builds a URL for the named route.
	BuildPath(name string, params Params) (string, error)

	// MatchPath resolves a URL into a state, or nil when nothing matches.
	MatchPath(path string) *State

	// IsActive reports whether the named route (optionally with params) is
	// on the active path.
	IsActive(name string, params Params, strict, ignoreQueryParams bool) bool
}

// GuardFn gates entry to or exit from a segment. A nil error allows the
// transition; an error denies it and may carry a redirect recovery target.
type GuardFn func(ctx context.Context, to, from *State) error

// GuardFactory produces a guard bound to the router and its dependencies.
type GuardFactory func(r Router, deps Dependencies) GuardFn

// HookFn is a lifecycle callback tied to a segment (enter, exit, or
// still-active-chain notification).
type HookFn func(ctx context.Context, to, from *State) error

// TitleFn derives a browser title from a state.
type TitleFn func(s *State) string

// Definition declares one route. Nested children may use simple segment
// names; entries of a flat list may use dot-composite names, in which case
// the full ancestor chain must already exist.
type Definition struct {
	Name string
	Path string

	CanActivate   GuardFactory
	CanDeactivate GuardFactory

	OnEnter         HookFn
	OnExit          HookFn
	OnInActiveChain HookFn

	// DefaultParams are merged into build parameters for this segment.
	DefaultParams Params

	// ForwardTo statically rewrites this route name to another at match
	// and build time.
	ForwardTo string

	// RedirectToFirstAllowed makes navigation descend into the first
	// child whose activation guard allows entry.
	RedirectToFirstAllowed bool

	// Title or TitleFn provide the browser title for this segment.
	Title   string
	TitleFn TitleFn

	// DecodeParams transforms matched parameters, EncodeParams transforms
	// parameters before path building.
	DecodeParams func(Params) Params
	EncodeParams func(Params) Params

	// Extra carries custom properties, shallow-merged on update.
	Extra map[string]any

	Children []Definition
}

// merge overlays upd onto d for an in-place node update. Zero-valued fields
// of upd leave d untouched; Extra is shallow-merged.
func (d *Definition) merge(upd Definition) {
	if upd.Path != "" {
		d.Path = upd.Path
	}
	if upd.CanActivate != nil {
		d.CanActivate = upd.CanActivate
	}
	if upd.CanDeactivate != nil {
		d.CanDeactivate = upd.CanDeactivate
	}
	if upd.OnEnter != nil {
		d.OnEnter = upd.OnEnter
	}
	if upd.OnExit != nil {
		d.OnExit = upd.OnExit
	}
	if upd.OnInActiveChain != nil {
		d.OnInActiveChain = upd.OnInActiveChain
	}
	if upd.DefaultParams != nil {
		d.DefaultParams = upd.DefaultParams
	}
	if upd.ForwardTo != "" {
		d.ForwardTo = upd.ForwardTo
	}
	if upd.RedirectToFirstAllowed {
		d.RedirectToFirstAllowed = true
	}
	if upd.Title != "" {
		d.Title = upd.Title
	}
	if upd.TitleFn != nil {
		d.TitleFn = upd.TitleFn
	}
	if upd.DecodeParams != nil {
		d.DecodeParams = upd.DecodeParams
	}
	if upd.EncodeParams != nil {
		d.EncodeParams = upd.EncodeParams
	}
	if upd.Extra != nil {
		if d.Extra == nil {
			d.Extra = make(map[string]any, len(upd.Extra))
		}
		for k, v := range upd.Extra {
			d.Extra[k] = v
		}
	}
}

// NameToIDs expands a dot-composite route name into its ordered ancestor
// chain: "a.b.c" becomes ["a", "a.b", "a.b.c"].
func NameToIDs(name string) []string {
	if name == "" {
		return nil
	}
	segments := strings.Split(name, ".")
	ids := make([]string, len(segments))
	for i := range segments {
		ids[i] = strings.Join(segments[:i+1], ".")
	}
	return ids
}

// parentName returns the dot-composite parent of a route name, or "" for a
// top-level name.
func parentName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return ""
}

// lastSegment returns the final dot component of a route name.
func lastSegment(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

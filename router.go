package router

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/riogod/router-sub000/internal/errors"
	"github.com/riogod/router-sub000/pkg/events"
	"github.com/riogod/router-sub000/pkg/resolve"
	"github.com/riogod/router-sub000/pkg/routetree"
	"github.com/riogod/router-sub000/pkg/transition"
)

// Router is the routing façade: it owns the route tree, the lifecycle
// registry, the transition engine and the event bus, and serializes
// navigation attempts so at most one transition is in flight.
type Router struct {
	id   string
	opts Options

	tree     *routetree.Tree
	registry *transition.Registry
	engine   *transition.Engine
	bus      *events.Bus

	logger    *slog.Logger
	titleSink func(string)

	started *atomic.Bool
	stateID *atomic.Int64

	mu        sync.Mutex
	state     *routetree.State
	attempt   *transition.Token
	attemptTo *routetree.State

	depsMu sync.RWMutex
	deps   routetree.Dependencies

	mwMu       sync.RWMutex
	mwNextID   int
	middleware []middlewareEntry

	teardownMu sync.Mutex
	detachFns  []func()
}

// New builds a router over the given route definitions.
func New(routes []routetree.Definition, opts ...Option) (*Router, error) {
	r := &Router{
		id:       uuid.NewString(),
		tree:     routetree.New(),
		registry: transition.NewRegistry(),
		bus:      events.NewBus(),
		started:  atomic.NewBool(false),
		stateID:  atomic.NewInt64(0),
		deps:     routetree.Dependencies{},
	}

	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}

	r.engine = transition.NewEngine(transition.Config{
		Tree:         r.tree,
		Registry:     r.registry,
		Router:       r,
		Dependencies: r.Dependencies,
		BuildState: func(name string, params routetree.Params) (*routetree.State, error) {
			return r.tree.BuildState(name, params, r.buildOptions())
		},
		Fallback: func() *routetree.State {
			if r.opts.DefaultRoute != "" {
				if s, err := r.tree.BuildState(r.opts.DefaultRoute, r.opts.DefaultParams, r.buildOptions()); err == nil {
					return s
				}
			}
			if r.opts.AllowNotFound {
				return r.makeNotFoundState("/", "")
			}
			return nil
		},
		TitleSink:   r.titleSink,
		AutoCleanUp: r.opts.AutoCleanUp,
		Logger:      r.logger,
	})

	if err := r.tree.Add(routes, r.registry.Register, true); err != nil {
		return nil, err
	}
	return r, nil
}

// ID returns the router instance id.
func (r *Router) ID() string { return r.id }

// IsStarted reports whether the router has been started.
func (r *Router) IsStarted() bool { return r.started.Load() }

// Tree exposes the route tree for inspection and tooling.
func (r *Router) Tree() *routetree.Tree { return r.tree }

// Bus exposes the router's event bus.
func (r *Router) Bus() *events.Bus { return r.bus }

// Start starts the router and navigates to the default route. Without a
// default route (and with the not-found state disallowed) it fails with
// NO_START_PATH_OR_STATE.
func (r *Router) Start(ctx context.Context) error {
	if r.opts.DefaultRoute == "" {
		if !r.opts.AllowNotFound {
			return errors.New(errors.CodeNoStartPathOrState)
		}
		return r.start(ctx, r.makeNotFoundState("/", "start"))
	}

	initial, err := r.tree.BuildState(r.opts.DefaultRoute, r.opts.DefaultParams, r.buildOptions())
	if err != nil {
		return err
	}
	return r.start(ctx, initial)
}

// StartPath starts the router at the state matching the given path. An
// unmatched path falls back to the default route, then to the not-found
// state when allowed.
func (r *Router) StartPath(ctx context.Context, path string) error {
	if initial := r.tree.MatchPath(path, r.matchOptions()); initial != nil {
		return r.start(ctx, initial)
	}
	if r.opts.DefaultRoute != "" {
		initial, err := r.tree.BuildState(r.opts.DefaultRoute, r.opts.DefaultParams, r.buildOptions())
		if err != nil {
			return err
		}
		return r.start(ctx, initial)
	}
	if r.opts.AllowNotFound {
		return r.start(ctx, r.makeNotFoundState(path, "start"))
	}
	return errors.New(errors.CodeRouteNotFound).
		WithMessagef("no route matches start path %q", path)
}

// StartState starts the router at a previously captured state.
func (r *Router) StartState(ctx context.Context, state *routetree.State) error {
	if state == nil {
		return errors.New(errors.CodeNoStartPathOrState)
	}
	return r.start(ctx, state.Copy())
}

func (r *Router) start(ctx context.Context, initial *routetree.State) error {
	if !r.started.CompareAndSwap(false, true) {
		return errors.New(errors.CodeAlreadyStarted)
	}

	r.bus.Emit(events.RouterStart, events.Payload{ToState: initial})

	_, err := r.transitionTo(ctx, initial, navConfig{source: "start"}, 0)
	if err != nil {
		return err
	}
	return nil
}

// Stop stops the router, cancelling any in-flight transition.
func (r *Router) Stop() error {
	if !r.started.CompareAndSwap(true, false) {
		return errors.New(errors.CodeNotStarted)
	}

	r.CancelNavigation()

	r.mu.Lock()
	r.state = nil
	r.mu.Unlock()

	r.bus.Emit(events.RouterStop, events.Payload{})
	return nil
}

// Teardown stops the router, detaches instrumentation and tears down
// plugins.
func (r *Router) Teardown() {
	if r.started.Load() {
		_ = r.Stop()
	}
	r.teardownMu.Lock()
	fns := r.detachFns
	r.detachFns = nil
	r.teardownMu.Unlock()
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}

// GetState returns the current committed state, or nil before start.
func (r *Router) GetState() *routetree.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// SetDependency registers one dependency handed to guard, hook and
// middleware factories.
func (r *Router) SetDependency(key string, value any) *Router {
	r.depsMu.Lock()
	defer r.depsMu.Unlock()
	r.deps[key] = value
	return r
}

// Dependency returns a registered dependency.
func (r *Router) Dependency(key string) (any, bool) {
	r.depsMu.RLock()
	defer r.depsMu.RUnlock()
	v, ok := r.deps[key]
	return v, ok
}

// Dependencies returns a copy of the dependency map.
func (r *Router) Dependencies() routetree.Dependencies {
	r.depsMu.RLock()
	defer r.depsMu.RUnlock()
	out := make(routetree.Dependencies, len(r.deps))
	for k, v := range r.deps {
		out[k] = v
	}
	return out
}

type middlewareEntry struct {
	id      int
	factory resolve.Factory
}

// UseMiddleware registers transition middleware factories, instantiated per
// attempt and run after guards and hooks. The returned function removes
// them again.
func (r *Router) UseMiddleware(factories ...resolve.Factory) func() {
	ids := r.addMiddleware(factories)
	return func() {
		r.mwMu.Lock()
		defer r.mwMu.Unlock()
		kept := r.middleware[:0]
		for _, entry := range r.middleware {
			removed := false
			for _, id := range ids {
				if entry.id == id {
					removed = true
					break
				}
			}
			if !removed {
				kept = append(kept, entry)
			}
		}
		r.middleware = kept
	}
}

func (r *Router) addMiddleware(factories []resolve.Factory) []int {
	r.mwMu.Lock()
	defer r.mwMu.Unlock()
	ids := make([]int, 0, len(factories))
	for _, factory := range factories {
		r.mwNextID++
		ids = append(ids, r.mwNextID)
		r.middleware = append(r.middleware, middlewareEntry{id: r.mwNextID, factory: factory})
	}
	return ids
}

// Attach applies an instrumentation attachment to the event bus and returns
// its detach function.
func (r *Router) Attach(a events.Attachment) func() {
	detach := a(r.bus)
	r.teardownMu.Lock()
	r.detachFns = append(r.detachFns, detach)
	r.teardownMu.Unlock()
	return detach
}

// Add inserts route definitions at runtime. Guards, hooks and titles the
// definitions declare are registered with the transition registry.
func (r *Router) Add(defs ...routetree.Definition) error {
	return r.tree.Add(defs, r.registry.Register, true)
}

// Remove removes a route and its descendants, dropping their lifecycle
// registrations. It reports false for unknown names.
func (r *Router) Remove(name string) bool {
	return r.tree.RemoveNode(name, r.registry.Remove)
}

// CanActivate registers an activation guard factory for a segment.
func (r *Router) CanActivate(name string, factory routetree.GuardFactory) *Router {
	r.registry.SetCanActivate(name, factory)
	return r
}

// CanDeactivate registers a deactivation guard factory for a segment.
func (r *Router) CanDeactivate(name string, factory routetree.GuardFactory) *Router {
	r.registry.SetCanDeactivate(name, factory)
	return r
}

// ClearCanDeactivate drops a segment's deactivation guard.
func (r *Router) ClearCanDeactivate(name string) *Router {
	r.registry.ClearCanDeactivate(name)
	return r
}

func (r *Router) buildOptions() routetree.BuildOptions {
	return routetree.BuildOptions{
		TrailingSlashMode: r.opts.TrailingSlashMode,
		QueryParamsMode:   r.opts.QueryParamsMode,
		URLParamsEncoding: r.opts.URLParamsEncoding,
	}
}

func (r *Router) matchOptions() routetree.MatchOptions {
	return routetree.MatchOptions{
		StrictTrailingSlash: r.opts.StrictTrailingSlash,
		CaseSensitive:       r.opts.CaseSensitive,
		QueryParamsMode:     r.opts.QueryParamsMode,
		URLParamsEncoding:   r.opts.URLParamsEncoding,
		RewritePath:         r.opts.RewritePathOnMatch,
	}
}

func (r *Router) makeNotFoundState(path, source string) *routetree.State {
	return &routetree.State{
		Name:   routetree.NotFoundRouteName,
		Params: routetree.Params{"path": path},
		Path:   path,
		Meta: &routetree.Meta{
			Params: map[string]routetree.Params{},
			Source: source,
		},
	}
}

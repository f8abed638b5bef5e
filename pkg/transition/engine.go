package transition

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/riogod/router-sub000/internal/errors"
	"github.com/riogod/router-sub000/pkg/resolve"
	"github.com/riogod/router-sub000/pkg/routetree"
	"github.com/riogod/router-sub000/pkg/transitionpath"
)

// maxRedirectDepth bounds redirect-to-first-allowed chains so that cyclic
// configurations fail with REDIRECT_LOOP instead of descending forever.
const maxRedirectDepth = 10

// Config wires an Engine to its collaborators.
type Config struct {
	Tree     *routetree.Tree
	Registry *Registry

	// Router is the read surface handed to guard factories.
	Router routetree.Router

	// Dependencies returns the live dependency map handed to factories.
	Dependencies func() routetree.Dependencies

	// BuildState resolves a route name and params into a candidate state,
	// used when probing redirect targets.
	BuildState func(name string, params routetree.Params) (*routetree.State, error)

	// Fallback builds the state a redirect-to-first-allowed node resolves
	// to when every child denies entry: the default route, or the
	// not-found state. Nil (or a nil result) leaves the flagged node
	// standing so its own guards decide.
	Fallback func() *routetree.State

	// TitleSink receives the resolved title of a committed transition.
	TitleSink func(title string)

	// AutoCleanUp drops deactivation guards for segments left behind by a
	// successful transition.
	AutoCleanUp bool

	Logger *slog.Logger
}

// Engine runs the transition pipeline for a router instance.
type Engine struct {
	tree        *routetree.Tree
	registry    *Registry
	router      routetree.Router
	deps        func() routetree.Dependencies
	buildState  func(string, routetree.Params) (*routetree.State, error)
	fallback    func() *routetree.State
	titleSink   func(string)
	autoCleanUp bool
	logger      *slog.Logger
}

// NewEngine builds an engine from its configuration.
func NewEngine(cfg Config) *Engine {
	e := &Engine{
		tree:        cfg.Tree,
		registry:    cfg.Registry,
		router:      cfg.Router,
		deps:        cfg.Dependencies,
		buildState:  cfg.BuildState,
		fallback:    cfg.Fallback,
		titleSink:   cfg.TitleSink,
		autoCleanUp: cfg.AutoCleanUp,
		logger:      cfg.Logger,
	}
	if e.deps == nil {
		e.deps = func() routetree.Dependencies { return nil }
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// ResolveRedirects follows redirect-to-first-allowed declarations from the
// target state, probing each child's activation guard in pattern order and
// descending into the first that allows entry. A flagged node with no
// accessible child resolves to the fallback state (the default route, or
// the not-found state), which is itself run through redirect resolution.
// The returned state is marked redirected when at least one hop happened.
func (e *Engine) ResolveRedirects(ctx context.Context, state, from *routetree.State) (*routetree.State, error) {
	for depth := 0; depth < maxRedirectDepth; depth++ {
		node := e.tree.Get(state.Name)
		if node == nil || !node.Definition().RedirectToFirstAllowed {
			return state, nil
		}

		var next *routetree.State
		if target := e.firstAllowedChild(ctx, node, state, from); target != "" {
			built, err := e.buildState(target, state.Params)
			if err != nil {
				return nil, err
			}
			next = built
		} else {
			next = e.fallbackState()
			if next == nil || next.Name == state.Name {
				return state, nil
			}
		}

		if state.Meta != nil && next.Meta != nil {
			next.Meta.Options = state.Meta.Options
			next.Meta.Source = state.Meta.Source
		}
		if next.Meta != nil {
			next.Meta.Redirected = true
		}
		state = next
	}
	return nil, errors.New(errors.CodeRedirectLoop).WithSegment(state.Name)
}

func (e *Engine) fallbackState() *routetree.State {
	if e.fallback == nil {
		return nil
	}
	return e.fallback()
}

// firstAllowedChild returns the full name of the first child whose
// activation guard allows entry, or "" when every child denies it.
func (e *Engine) firstAllowedChild(ctx context.Context, node *routetree.Node, state, from *routetree.State) string {
	for _, child := range node.Children() {
		factory, ok := e.registry.CanActivate(child.FullName())
		if !ok {
			return child.FullName()
		}

		candidate, err := e.buildState(child.FullName(), state.Params)
		if err != nil {
			e.logger.Debug("skipping redirect candidate, state build failed",
				"route", child.FullName(),
				"err", err)
			continue
		}
		guard := factory(e.router, e.deps())
		if guard == nil || guard(ctx, candidate, from) == nil {
			return child.FullName()
		}
	}
	return ""
}

// Run executes the full transition pipeline for one attempt and returns the
// committed state. Errors carry the failing segment and, for guard
// rejections with a recovery target, a redirect the caller re-navigates to.
func (e *Engine) Run(tok *Token, toState, fromState *routetree.State, middleware []resolve.Step) (*routetree.State, error) {
	path := transitionpath.Compute(toState, fromState)
	opts := navOptions(toState)

	var steps []resolve.Step

	if fromState != nil && !opts.Force {
		for _, id := range path.ToDeactivate {
			if factory, ok := e.registry.CanDeactivate(id); ok {
				steps = append(steps, resolve.Named(id, e.guardStep(factory, errors.CodeCannotDeactivate)))
			}
		}
	}

	if hooks := e.collectHooks(path.ToDeactivate, e.registry.OnExit); len(hooks) > 0 {
		steps = append(steps, resolve.Named("onExit", runHooks(hooks)))
	}

	if !toState.IsNotFound() {
		for _, id := range path.ToActivate {
			if factory, ok := e.registry.CanActivate(id); ok {
				steps = append(steps, resolve.Named(id, e.guardStep(factory, errors.CodeCannotActivate)))
			}
		}
	}

	if hooks := e.collectHooks(path.ToActivate, e.registry.OnEnter); len(hooks) > 0 {
		steps = append(steps, resolve.Named("onEnter", runHooks(hooks)))
	}

	if hooks := e.collectHooks(activeChainIDs(toState, fromState, path), e.registry.OnInChain); len(hooks) > 0 {
		steps = append(steps, resolve.Named("onInActiveChain", runHooks(hooks)))
	}

	steps = append(steps, resolve.Named("title", e.titleStep()))
	steps = append(steps, middleware...)

	final, err := resolve.Run(tok.Context(), steps, toState, fromState, resolve.Options{
		Cancelled: tok.Cancelled,
		Logger:    e.logger,
	})
	if err != nil {
		return nil, err
	}

	if e.autoCleanUp {
		for _, id := range path.ToDeactivate {
			e.registry.ClearCanDeactivate(id)
		}
	}
	return final, nil
}

// guardStep adapts a guard factory into a pipeline step. A plain rejection
// error is wrapped under the given code; structured errors (including those
// carrying a redirect target) pass through unchanged.
func (e *Engine) guardStep(factory routetree.GuardFactory, code string) resolve.StepFn {
	return func(ctx context.Context, to, from *routetree.State) (*routetree.State, error) {
		guard := factory(e.router, e.deps())
		if guard == nil {
			return nil, nil
		}
		if err := guard(ctx, to, from); err != nil {
			return nil, errors.FromError(err, code)
		}
		return nil, nil
	}
}

type namedHook struct {
	id string
	fn routetree.HookFn
}

// collectHooks gathers the registered hooks for the given segment ids,
// preserving order.
func (e *Engine) collectHooks(ids []string, lookup func(string) (routetree.HookFn, bool)) []namedHook {
	var hooks []namedHook
	for _, id := range ids {
		if fn, ok := lookup(id); ok {
			hooks = append(hooks, namedHook{id: id, fn: fn})
		}
	}
	return hooks
}

// runHooks executes a hook batch in segment order (the caller passes exits
// leaf first and enters root first). The first failure aborts the pipeline.
func runHooks(hooks []namedHook) resolve.StepFn {
	return func(ctx context.Context, to, from *routetree.State) (*routetree.State, error) {
		for _, h := range hooks {
			if err := callHook(ctx, h, to, from); err != nil {
				rerr := errors.FromError(err, errors.CodeTransitionErr)
				if rerr.Segment == "" {
					rerr.WithSegment(h.id)
				}
				return nil, rerr
			}
		}
		return nil, nil
	}
}

func callHook(ctx context.Context, h namedHook, to, from *routetree.State) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hook panic: %v", r)
		}
	}()
	return h.fn(ctx, to, from)
}

// activeChainIDs lists the segments whose still-active-chain hooks fire: on
// a first navigation every ancestor of the target, otherwise the shared
// chain up to the intersection.
func activeChainIDs(to, from *routetree.State, path transitionpath.Path) []string {
	if from == nil {
		ids := routetree.NameToIDs(to.Name)
		if len(ids) == 0 {
			return nil
		}
		return ids[:len(ids)-1]
	}
	return routetree.NameToIDs(path.Intersection)
}

// titleStep resolves the target's title leaf to root: the deepest segment
// with a title or title function wins.
func (e *Engine) titleStep() resolve.StepFn {
	return func(ctx context.Context, to, from *routetree.State) (*routetree.State, error) {
		if e.titleSink == nil {
			return nil, nil
		}
		ids := routetree.NameToIDs(to.Name)
		for i := len(ids) - 1; i >= 0; i-- {
			title, fn, ok := e.registry.TitleOf(ids[i])
			if !ok {
				continue
			}
			if fn != nil {
				e.titleSink(fn(to))
			} else {
				e.titleSink(title)
			}
			return nil, nil
		}
		return nil, nil
	}
}

func navOptions(s *routetree.State) routetree.NavigationOptions {
	if s == nil || s.Meta == nil {
		return routetree.NavigationOptions{}
	}
	return s.Meta.Options
}

package router

import (
	"context"
	"strings"

	"github.com/riogod/router-sub000/internal/errors"
	"github.com/riogod/router-sub000/pkg/events"
	"github.com/riogod/router-sub000/pkg/resolve"
	"github.com/riogod/router-sub000/pkg/routetree"
	"github.com/riogod/router-sub000/pkg/transition"
)

// maxGuardRedirects bounds guard-requested redirect chains.
const maxGuardRedirects = 10

// Navigate runs a transition to the named route and returns the committed
// state. It fails with SAME_STATES when the target equals the current state
// (unless reloading or forcing), and with TRANSITION_CANCELLED when a newer
// navigation supersedes this one.
func (r *Router) Navigate(ctx context.Context, name string, params routetree.Params, opts ...NavOption) (*routetree.State, error) {
	if !r.started.Load() {
		return nil, errors.New(errors.CodeNotStarted)
	}

	var cfg navConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	toState, err := r.tree.BuildState(name, params, r.buildOptions())
	if err != nil {
		return nil, err
	}
	return r.transitionTo(ctx, toState, cfg, 0)
}

// NavigateToDefault navigates to the configured default route.
func (r *Router) NavigateToDefault(ctx context.Context, opts ...NavOption) (*routetree.State, error) {
	if r.opts.DefaultRoute == "" {
		return nil, errors.New(errors.CodeRouteNotFound).
			WithMessagef("no default route configured")
	}
	return r.Navigate(ctx, r.opts.DefaultRoute, r.opts.DefaultParams, opts...)
}

// NavigatePath resolves a path and navigates to the matching route. An
// unmatched path goes to the not-found state when allowed, otherwise to the
// default route, otherwise it fails with ROUTE_NOT_FOUND.
func (r *Router) NavigatePath(ctx context.Context, path string, opts ...NavOption) (*routetree.State, error) {
	if !r.started.Load() {
		return nil, errors.New(errors.CodeNotStarted)
	}

	var cfg navConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if toState := r.tree.MatchPath(path, r.matchOptions()); toState != nil {
		return r.transitionTo(ctx, toState, cfg, 0)
	}
	if r.opts.AllowNotFound {
		return r.transitionTo(ctx, r.makeNotFoundState(path, cfg.source), cfg, 0)
	}
	if r.opts.DefaultRoute != "" {
		return r.Navigate(ctx, r.opts.DefaultRoute, r.opts.DefaultParams, opts...)
	}
	return nil, errors.New(errors.CodeRouteNotFound).
		WithMessagef("no route matches path %q", path)
}

// CancelNavigation cancels the in-flight transition, if any, and reports
// whether one was cancelled.
func (r *Router) CancelNavigation() bool {
	r.mu.Lock()
	tok, to := r.attempt, r.attemptTo
	from := r.state
	r.mu.Unlock()

	if tok == nil || !tok.Cancel() {
		return false
	}
	r.bus.Emit(events.TransitionCancel, events.Payload{ToState: to, FromState: from})
	return true
}

// transitionTo is the single entry point for every transition attempt. It
// stamps the state, supersedes the previous attempt, resolves redirects,
// runs the engine pipeline and commits the result.
func (r *Router) transitionTo(ctx context.Context, toState *routetree.State, cfg navConfig, redirectDepth int) (*routetree.State, error) {
	if redirectDepth > maxGuardRedirects {
		return nil, errors.New(errors.CodeRedirectLoop).WithSegment(toState.Name)
	}

	from := r.GetState()

	if toState.Meta == nil {
		toState.Meta = &routetree.Meta{}
	}
	toState.Meta.Options = cfg.options
	if cfg.source != "" {
		toState.Meta.Source = cfg.source
	}
	if redirectDepth > 0 || cfg.redirected {
		toState.Meta.Redirected = true
	}

	if from != nil && !cfg.options.Reload && !cfg.options.Force &&
		routetree.SameStates(from, toState, false) {
		return from, errors.New(errors.CodeSameStates)
	}

	toState.Meta.ID = r.stateID.Inc()

	tok := r.supersede(ctx, toState, from)

	resolved, err := r.engine.ResolveRedirects(tok.Context(), toState, from)
	if err != nil {
		r.finishAttempt(tok)
		r.bus.Emit(events.TransitionError, events.Payload{ToState: toState, FromState: from, Err: err})
		return nil, err
	}
	if resolved != toState {
		resolved.Meta.ID = toState.Meta.ID
		toState = resolved
		r.mu.Lock()
		if r.attempt == tok {
			r.attemptTo = toState
		}
		r.mu.Unlock()
	}

	r.bus.Emit(events.TransitionStart, events.Payload{ToState: toState, FromState: from})

	final, err := r.engine.Run(tok, toState, from, r.middlewareSteps())
	if err != nil {
		r.finishAttempt(tok)

		if errors.IsCode(err, errors.CodeTransitionCancelled) {
			if !tok.Cancelled() {
				// Cancelled through the parent context, not by a
				// superseding navigation.
				r.bus.Emit(events.TransitionCancel, events.Payload{ToState: toState, FromState: from})
			}
			return nil, err
		}

		if redirect := errors.RedirectOf(err); redirect != nil {
			next, buildErr := r.tree.BuildState(redirect.Name, routetree.Params(redirect.Params), r.buildOptions())
			if buildErr == nil {
				r.logger.Debug("guard redirect",
					"from", toState.Name,
					"to", redirect.Name)
				return r.transitionTo(ctx, next, cfg, redirectDepth+1)
			}
			err = errors.FromError(err, errors.CodeTransitionErr).Wrap(buildErr)
		}

		r.bus.Emit(events.TransitionError, events.Payload{ToState: toState, FromState: from, Err: err})
		return nil, err
	}

	if !tok.Finish() {
		return nil, errors.New(errors.CodeTransitionCancelled)
	}

	r.mu.Lock()
	r.state = final
	if r.attempt == tok {
		r.attempt = nil
		r.attemptTo = nil
	}
	r.mu.Unlock()

	r.bus.Emit(events.TransitionSuccess, events.Payload{ToState: final, FromState: from})
	return final, nil
}

// supersede installs a fresh token as the active attempt, cancelling the
// previous one. Exactly one cancel event fires for the superseded attempt.
func (r *Router) supersede(ctx context.Context, toState, from *routetree.State) *transition.Token {
	tok := r.attemptToken(ctx, toState)

	r.mu.Lock()
	prev, prevTo := r.attempt, r.attemptTo
	r.attempt = tok
	r.attemptTo = toState
	r.mu.Unlock()

	if prev != nil && prev.Cancel() {
		r.bus.Emit(events.TransitionCancel, events.Payload{ToState: prevTo, FromState: from})
	}
	return tok
}

func (r *Router) attemptToken(ctx context.Context, toState *routetree.State) *transition.Token {
	return transition.NewToken(ctx, toState.Meta.ID)
}

// finishAttempt clears the attempt slot when it still belongs to tok.
func (r *Router) finishAttempt(tok *transition.Token) {
	r.mu.Lock()
	if r.attempt == tok {
		r.attempt = nil
		r.attemptTo = nil
	}
	r.mu.Unlock()
}

func (r *Router) middlewareSteps() []resolve.Step {
	r.mwMu.RLock()
	entries := make([]middlewareEntry, len(r.middleware))
	copy(entries, r.middleware)
	r.mwMu.RUnlock()

	deps := r.Dependencies()
	steps := make([]resolve.Step, 0, len(entries))
	for _, entry := range entries {
		if fn := entry.factory(r, deps); fn != nil {
			steps = append(steps, resolve.Step{Fn: fn})
		}
	}
	return steps
}

// BuildPath builds a URL for the named route.
func (r *Router) BuildPath(name string, params routetree.Params) (string, error) {
	return r.tree.BuildPath(name, params, r.buildOptions())
}

// MatchPath resolves a URL into a state, or nil when nothing matches.
func (r *Router) MatchPath(path string) *routetree.State {
	return r.tree.MatchPath(path, r.matchOptions())
}

// IsActive reports whether the named route is on the active path. With
// strict set the route must equal the active route exactly; otherwise an
// ancestor of the active route also counts. Provided params must match the
// active state's values.
func (r *Router) IsActive(name string, params routetree.Params, strict, ignoreQueryParams bool) bool {
	active := r.GetState()
	if active == nil {
		return false
	}

	name = r.tree.ForwardOf(name)
	onPath := name == active.Name
	if !onPath && !strict {
		onPath = strings.HasPrefix(active.Name, name+".")
	}
	if !onPath {
		return false
	}

	if ignoreQueryParams {
		urlKeys := map[string]bool{}
		for _, k := range active.URLParamKeys() {
			urlKeys[k] = true
		}
		for k, v := range params {
			if !urlKeys[k] {
				continue
			}
			if active.Params[k] != v {
				return false
			}
		}
		return true
	}

	for k, v := range params {
		if active.Params[k] != v {
			return false
		}
	}
	return true
}

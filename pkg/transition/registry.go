package transition

import (
	"sync"

	"github.com/riogod/router-sub000/pkg/routetree"
)

// Registry holds guard factories, lifecycle hooks and titles keyed by route
// segment name. It is safe for concurrent use; the engine reads it while
// dynamic route updates write it.
type Registry struct {
	mu            sync.RWMutex
	canActivate   map[string]routetree.GuardFactory
	canDeactivate map[string]routetree.GuardFactory
	onEnter       map[string]routetree.HookFn
	onExit        map[string]routetree.HookFn
	onInChain     map[string]routetree.HookFn
	titles        map[string]string
	titleFns      map[string]routetree.TitleFn
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		canActivate:   map[string]routetree.GuardFactory{},
		canDeactivate: map[string]routetree.GuardFactory{},
		onEnter:       map[string]routetree.HookFn{},
		onExit:        map[string]routetree.HookFn{},
		onInChain:     map[string]routetree.HookFn{},
		titles:        map[string]string{},
		titleFns:      map[string]routetree.TitleFn{},
	}
}

// Register records every guard, hook and title a tree node declares. It is
// the route tree's add callback.
func (r *Registry) Register(node *routetree.Node) {
	def := node.Definition()
	name := node.FullName()

	r.mu.Lock()
	defer r.mu.Unlock()

	if def.CanActivate != nil {
		r.canActivate[name] = def.CanActivate
	}
	if def.CanDeactivate != nil {
		r.canDeactivate[name] = def.CanDeactivate
	}
	if def.OnEnter != nil {
		r.onEnter[name] = def.OnEnter
	}
	if def.OnExit != nil {
		r.onExit[name] = def.OnExit
	}
	if def.OnInActiveChain != nil {
		r.onInChain[name] = def.OnInActiveChain
	}
	if def.Title != "" {
		r.titles[name] = def.Title
	}
	if def.TitleFn != nil {
		r.titleFns[name] = def.TitleFn
	}
}

// Remove drops every registration for the named segment. It is the route
// tree's remove callback.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.canActivate, name)
	delete(r.canDeactivate, name)
	delete(r.onEnter, name)
	delete(r.onExit, name)
	delete(r.onInChain, name)
	delete(r.titles, name)
	delete(r.titleFns, name)
}

// SetCanActivate registers an activation guard factory for a segment.
func (r *Registry) SetCanActivate(name string, f routetree.GuardFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.canActivate[name] = f
}

// SetCanDeactivate registers a deactivation guard factory for a segment.
func (r *Registry) SetCanDeactivate(name string, f routetree.GuardFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.canDeactivate[name] = f
}

// ClearCanDeactivate drops a segment's deactivation guard.
func (r *Registry) ClearCanDeactivate(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.canDeactivate, name)
}

// CanActivate returns the activation guard factory for a segment.
func (r *Registry) CanActivate(name string) (routetree.GuardFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.canActivate[name]
	return f, ok
}

// CanDeactivate returns the deactivation guard factory for a segment.
func (r *Registry) CanDeactivate(name string) (routetree.GuardFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.canDeactivate[name]
	return f, ok
}

// OnEnter returns the enter hook for a segment.
func (r *Registry) OnEnter(name string) (routetree.HookFn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.onEnter[name]
	return h, ok
}

// OnExit returns the exit hook for a segment.
func (r *Registry) OnExit(name string) (routetree.HookFn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.onExit[name]
	return h, ok
}

// OnInChain returns the still-active-chain hook for a segment.
func (r *Registry) OnInChain(name string) (routetree.HookFn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.onInChain[name]
	return h, ok
}

// TitleOf returns the static title or title function registered for a
// segment.
func (r *Registry) TitleOf(name string) (string, routetree.TitleFn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if fn, ok := r.titleFns[name]; ok {
		return "", fn, true
	}
	if title, ok := r.titles[name]; ok {
		return title, nil, true
	}
	return "", nil, false
}

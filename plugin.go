package router

import (
	"github.com/riogod/router-sub000/pkg/events"
	"github.com/riogod/router-sub000/pkg/routetree"
)

// Plugin observes the router lifecycle. Embed BasePlugin to implement only
// the methods you care about.
type Plugin interface {
	OnStart()
	OnStop()
	OnTransitionStart(to, from *routetree.State)
	OnTransitionSuccess(to, from *routetree.State, opts routetree.NavigationOptions)
	OnTransitionError(to, from *routetree.State, err error)
	OnTransitionCancel(to, from *routetree.State)

	// Teardown releases plugin resources when the plugin is removed.
	Teardown()
}

// PluginFactory produces a plugin bound to the router and its dependencies.
type PluginFactory func(r routetree.Router, deps routetree.Dependencies) Plugin

// BasePlugin is a no-op Plugin implementation for embedding.
type BasePlugin struct{}

func (BasePlugin) OnStart() {}
func (BasePlugin) OnStop()  {}
func (BasePlugin) OnTransitionStart(to, from *routetree.State) {
}
func (BasePlugin) OnTransitionSuccess(to, from *routetree.State, opts routetree.NavigationOptions) {
}
func (BasePlugin) OnTransitionError(to, from *routetree.State, err error) {
}
func (BasePlugin) OnTransitionCancel(to, from *routetree.State) {
}
func (BasePlugin) Teardown() {}

// UsePlugin instantiates plugins and subscribes them to the router's
// events. The returned function unsubscribes and tears the plugins down.
func (r *Router) UsePlugin(factories ...PluginFactory) func() {
	var teardowns []func()

	deps := r.Dependencies()
	for _, factory := range factories {
		p := factory(r, deps)
		unsubs := []func(){
			r.bus.Subscribe(events.RouterStart, func(events.Payload) { p.OnStart() }),
			r.bus.Subscribe(events.RouterStop, func(events.Payload) { p.OnStop() }),
			r.bus.Subscribe(events.TransitionStart, func(pl events.Payload) {
				p.OnTransitionStart(pl.ToState, pl.FromState)
			}),
			r.bus.Subscribe(events.TransitionSuccess, func(pl events.Payload) {
				opts := routetree.NavigationOptions{}
				if pl.ToState != nil && pl.ToState.Meta != nil {
					opts = pl.ToState.Meta.Options
				}
				p.OnTransitionSuccess(pl.ToState, pl.FromState, opts)
			}),
			r.bus.Subscribe(events.TransitionError, func(pl events.Payload) {
				p.OnTransitionError(pl.ToState, pl.FromState, pl.Err)
			}),
			r.bus.Subscribe(events.TransitionCancel, func(pl events.Payload) {
				p.OnTransitionCancel(pl.ToState, pl.FromState)
			}),
		}
		plugin := p
		teardowns = append(teardowns, func() {
			for _, unsub := range unsubs {
				unsub()
			}
			plugin.Teardown()
		})
	}

	return func() {
		for _, teardown := range teardowns {
			teardown()
		}
	}
}

// Observer receives committed route updates.
type Observer interface {
	RouteUpdated(to, from *routetree.State)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(to, from *routetree.State)

// RouteUpdated implements Observer.
func (f ObserverFunc) RouteUpdated(to, from *routetree.State) { f(to, from) }

// Subscribe registers an observer for committed transitions and returns its
// unsubscribe function.
func (r *Router) Subscribe(o Observer) func() {
	return r.bus.Subscribe(events.TransitionSuccess, func(p events.Payload) {
		o.RouteUpdated(p.ToState, p.FromState)
	})
}

// SubscribeFunc registers a function observer for committed transitions.
func (r *Router) SubscribeFunc(fn func(to, from *routetree.State)) func() {
	return r.Subscribe(ObserverFunc(fn))
}

package router

import (
	"log/slog"

	"github.com/riogod/router-sub000/pkg/events"
	"github.com/riogod/router-sub000/pkg/resolve"
	"github.com/riogod/router-sub000/pkg/routetree"
)

// Options hold the router-wide configuration. Zero values give the default
// behavior; use the With* functional options to change them.
type Options struct {
	// TrailingSlashMode controls trailing slashes on built paths.
	TrailingSlashMode routetree.TrailingSlashMode

	// QueryParamsMode controls how undeclared query parameters are treated
	// when matching and building.
	QueryParamsMode routetree.QueryParamsMode

	// StrictTrailingSlash makes path matching sensitive to trailing slashes.
	StrictTrailingSlash bool

	// CaseSensitive makes path matching case sensitive.
	CaseSensitive bool

	// URLParamsEncoding selects how URL parameter values are encoded and
	// decoded.
	URLParamsEncoding routetree.Encoding

	// RewritePathOnMatch rebuilds the canonical path on every match.
	RewritePathOnMatch bool

	// DefaultRoute is navigated to on Start and when a path matches no
	// route.
	DefaultRoute string

	// DefaultParams are the parameters used with DefaultRoute.
	DefaultParams routetree.Params

	// AllowNotFound makes unmatched paths resolve to the not-found state
	// instead of falling back to the default route.
	AllowNotFound bool

	// AutoCleanUp drops deactivation guards of segments a successful
	// transition left.
	AutoCleanUp bool
}

// Option configures a Router during construction.
type Option func(*Router)

// WithOptions replaces the whole option block.
func WithOptions(opts Options) Option {
	return func(r *Router) {
		r.opts = opts
	}
}

// WithDefaultRoute sets the route navigated to on Start and on unmatched
// paths.
func WithDefaultRoute(name string, params routetree.Params) Option {
	return func(r *Router) {
		r.opts.DefaultRoute = name
		r.opts.DefaultParams = params
	}
}

// WithAllowNotFound makes unmatched paths resolve to the not-found state.
func WithAllowNotFound(allow bool) Option {
	return func(r *Router) {
		r.opts.AllowNotFound = allow
	}
}

// WithAutoCleanUp controls automatic removal of deactivation guards for
// segments left by a successful transition.
func WithAutoCleanUp(enabled bool) Option {
	return func(r *Router) {
		r.opts.AutoCleanUp = enabled
	}
}

// WithTrailingSlashMode sets the trailing slash mode for built paths.
func WithTrailingSlashMode(mode routetree.TrailingSlashMode) Option {
	return func(r *Router) {
		r.opts.TrailingSlashMode = mode
	}
}

// WithQueryParamsMode sets the query parameter handling mode.
func WithQueryParamsMode(mode routetree.QueryParamsMode) Option {
	return func(r *Router) {
		r.opts.QueryParamsMode = mode
	}
}

// WithStrictTrailingSlash makes matching sensitive to trailing slashes.
func WithStrictTrailingSlash(strict bool) Option {
	return func(r *Router) {
		r.opts.StrictTrailingSlash = strict
	}
}

// WithCaseSensitive makes matching case sensitive.
func WithCaseSensitive(sensitive bool) Option {
	return func(r *Router) {
		r.opts.CaseSensitive = sensitive
	}
}

// WithURLParamsEncoding sets the URL parameter encoding profile.
func WithURLParamsEncoding(enc routetree.Encoding) Option {
	return func(r *Router) {
		r.opts.URLParamsEncoding = enc
	}
}

// WithRewritePathOnMatch rebuilds the canonical path on every match.
func WithRewritePathOnMatch(rewrite bool) Option {
	return func(r *Router) {
		r.opts.RewritePathOnMatch = rewrite
	}
}

// WithLogger sets the structured logger. If unset, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithTitleSink sets the receiver for resolved route titles (typically a
// document-title binding).
func WithTitleSink(sink func(title string)) Option {
	return func(r *Router) {
		r.titleSink = sink
	}
}

// WithDependency registers one dependency before construction finishes.
func WithDependency(key string, value any) Option {
	return func(r *Router) {
		r.deps[key] = value
	}
}

// WithMiddleware registers transition middleware factories.
func WithMiddleware(factories ...resolve.Factory) Option {
	return func(r *Router) {
		r.addMiddleware(factories)
	}
}

// WithAttachment applies an instrumentation attachment (metrics, tracing,
// transition logging) to the router's event bus.
func WithAttachment(attachments ...events.Attachment) Option {
	return func(r *Router) {
		for _, a := range attachments {
			r.detachFns = append(r.detachFns, a(r.bus))
		}
	}
}

// NavOption configures a single navigation attempt.
type NavOption func(*navConfig)

type navConfig struct {
	options    routetree.NavigationOptions
	source     string
	redirected bool
}

// WithReload forces a full re-traverse even when the target equals the
// current state.
func WithReload() NavOption {
	return func(c *navConfig) {
		c.options.Reload = true
	}
}

// WithForce skips deactivation guards for this navigation.
func WithForce() NavOption {
	return func(c *navConfig) {
		c.options.Force = true
	}
}

// WithReplace marks the navigation as replacing the current history entry.
func WithReplace() NavOption {
	return func(c *navConfig) {
		c.options.Replace = true
	}
}

// WithSource tags the navigation with its trigger (e.g. "popstate").
func WithSource(source string) NavOption {
	return func(c *navConfig) {
		c.source = source
	}
}

// WithRedirected marks the resulting state as reached through a redirect.
func WithRedirected() NavOption {
	return func(c *navConfig) {
		c.redirected = true
	}
}

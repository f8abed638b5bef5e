// Package router is a framework-agnostic hierarchical routing engine.
//
// Routes are organized as a tree of named segments ("users", "users.view")
// with URL patterns attached to each segment. The router resolves paths to
// states, builds paths from route names, and runs guarded transitions
// between states: deactivation guards leaf first, activation guards root
// first, lifecycle hooks, title resolution and middleware, all cancellable
// when a newer navigation supersedes the attempt.
//
// A minimal setup:
//
//	r, err := router.New([]routetree.Definition{
//	    {Name: "home", Path: "/"},
//	    {Name: "users", Path: "/users", Children: []routetree.Definition{
//	        {Name: "view", Path: "/:id"},
//	    }},
//	}, router.WithDefaultRoute("home", nil))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := r.Start(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//	state, err := r.Navigate(context.Background(), "users.view",
//	    routetree.Params{"id": "42"})
package router

// Package routetree implements the hierarchical route registry.
//
// Routes are named with dot-separated segments ("users.view"), each segment
// owning one compiled path pattern. The tree matches URLs to route states,
// builds URLs from route names and parameters, and supports dynamic
// insertion, in-place updates and cascading removal of nodes.
//
// # Path Pattern Syntax
//
// Patterns use the following external syntax:
//
//	/users          static segment
//	/view/:id       required parameter
//	/page/:num?     optional parameter
//	/files/*rest    catch-all remainder
//	~/admin         absolute segment (resets the accumulated prefix)
//	/search?q&page  declared query parameters
//
// # Usage
//
//	tree := routetree.New()
//	err := tree.Add([]routetree.Definition{
//	    {Name: "home", Path: "/"},
//	    {Name: "users", Path: "/users", Children: []routetree.Definition{
//	        {Name: "view", Path: "/view/:id"},
//	    }},
//	}, nil, true)
//
//	state := tree.MatchPath("/users/view/123", routetree.MatchOptions{})
//	// state.Name == "users.view", state.Params["id"] == "123"
package routetree

// Package errors defines the structured error model shared by the routing
// engine.
//
// Every error surfaced by the router carries a stable code (for example
// ROUTE_NOT_FOUND or CANNOT_ACTIVATE) and a category describing where it
// originated. Configuration errors indicate a programming mistake and are
// returned synchronously from route registration; navigation and transition
// errors are runtime conditions delivered through navigation callbacks.
package errors

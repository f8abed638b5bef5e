// Package transition executes guarded route transitions.
//
// A transition compares the target state with the current one, derives the
// segments to deactivate and activate, and runs the pipeline: deactivation
// guards leaf first, exit hooks, activation guards root first, enter hooks,
// still-active-chain hooks, title resolution, then router middleware. Every
// stage is gated on the transition token, so a superseding navigation stops
// the pipeline at the next boundary.
package transition

// Package transitionpath computes the activation/deactivation diff between
// two hierarchical route states.
//
// Given a target and a source state it determines the deepest shared
// ancestor (the intersection), the segments to deactivate (leaf first, the
// correct exit order) and the segments to activate (root first, the correct
// enter order).
package transitionpath

import (
	"github.com/riogod/router-sub000/pkg/routetree"
)

// Path is the diff between two route states.
type Path struct {
	// Intersection is the deepest shared ancestor name, or "" when the
	// states share nothing (or there is no source state).
	Intersection string

	// ToDeactivate lists source segments to leave, leaf first.
	ToDeactivate []string

	// ToActivate lists target segments to enter, root first.
	ToActivate []string
}

// Compute calculates the transition path from fromState to toState. A nil
// fromState or a reload request yields a full re-traverse of the target
// chain.
func Compute(toState, fromState *routetree.State) Path {
	toIDs := routetree.NameToIDs(toState.Name)

	var fromIDs []string
	if fromState != nil {
		fromIDs = routetree.NameToIDs(fromState.Name)
	}

	divergence := 0
	if fromState != nil && !reloadRequested(toState) {
		divergence = divergencePoint(toState, fromState, toIDs, fromIDs)
	}

	path := Path{ToActivate: toIDs[divergence:]}
	if divergence > 0 {
		path.Intersection = toIDs[divergence-1]
	}

	remaining := fromIDs[divergence:]
	path.ToDeactivate = make([]string, 0, len(remaining))
	for i := len(remaining) - 1; i >= 0; i-- {
		path.ToDeactivate = append(path.ToDeactivate, remaining[i])
	}

	return path
}

// divergencePoint walks both ancestor chains in lockstep and returns the
// first index at which they diverge: a differing segment name, a declared
// parameter whose value changed, or a segment that declared no parameters
// before but does now.
func divergencePoint(toState, fromState *routetree.State, toIDs, fromIDs []string) int {
	max := len(toIDs)
	if len(fromIDs) < max {
		max = len(fromIDs)
	}

	i := 0
	for ; i < max; i++ {
		if toIDs[i] != fromIDs[i] {
			break
		}
		if segmentParamsChanged(toState, fromState, toIDs[i]) {
			break
		}
	}
	return i
}

func segmentParamsChanged(toState, fromState *routetree.State, segment string) bool {
	schema := segmentSchema(toState, segment)
	if len(schema) == 0 {
		return false
	}
	if len(segmentSchema(fromState, segment)) == 0 {
		// The segment declared no parameters in the source state.
		return true
	}
	for key := range schema {
		if toState.Params[key] != fromState.Params[key] {
			return true
		}
	}
	return false
}

func segmentSchema(s *routetree.State, segment string) routetree.Params {
	if s == nil || s.Meta == nil {
		return nil
	}
	return s.Meta.Params[segment]
}

func reloadRequested(s *routetree.State) bool {
	return s != nil && s.Meta != nil && s.Meta.Options.Reload
}

// ShouldUpdateNode reports whether a presentation binding for the named
// tree node should re-render for the transition from fromState to toState:
// always on reload, when the node is the intersection, or when the node is
// being activated.
func ShouldUpdateNode(nodeName string, toState, fromState *routetree.State) bool {
	if reloadRequested(toState) {
		return true
	}
	path := Compute(toState, fromState)
	if nodeName == path.Intersection {
		return true
	}
	for _, name := range path.ToActivate {
		if name == nodeName {
			return true
		}
	}
	return false
}

// Package resolve runs ordered lists of asynchronous pipeline steps over
// one evolving route state.
//
// A step either continues the pipeline (optionally replacing the state) or
// aborts it with an error; the two outcomes are expressed directly through
// the (*State, error) return pair rather than inspected at runtime. Named
// steps tag abort errors with the failing id, which is how per-segment
// guard failures are attributed to their segment.
package resolve

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/riogod/router-sub000/internal/errors"
	"github.com/riogod/router-sub000/pkg/routetree"
)

// StepFn is one pipeline step. Returning a non-nil state replaces the
// current state (merged onto it); returning an error aborts the pipeline.
type StepFn func(ctx context.Context, to, from *routetree.State) (*routetree.State, error)

// Step pairs a step function with an optional id used to attribute
// failures.
type Step struct {
	ID string
	Fn StepFn
}

// Factory produces a pipeline step bound to the router and its dependency
// map. Router middleware is registered as factories and instantiated per
// transition attempt.
type Factory func(r routetree.Router, deps routetree.Dependencies) StepFn

// Named builds an identified step.
func Named(id string, fn StepFn) Step {
	return Step{ID: id, Fn: fn}
}

// FromFuncs wraps plain step functions into anonymous steps.
func FromFuncs(fns ...StepFn) []Step {
	steps := make([]Step, len(fns))
	for i, fn := range fns {
		steps[i] = Step{Fn: fn}
	}
	return steps
}

// Options configure a pipeline run.
type Options struct {
	// Cancelled is polled before every step; once it reports true the run
	// stops without executing further steps or side effects.
	Cancelled func() bool

	// FailureCode is the error code applied to step failures that carry no
	// structured code of their own. Defaults to TRANSITION_ERR.
	FailureCode string

	// Logger receives diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// Run executes steps sequentially over the evolving state and returns the
// final state. Step panics are caught and treated as step failures.
func Run(ctx context.Context, steps []Step, to, from *routetree.State, opts Options) (*routetree.State, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	failureCode := opts.FailureCode
	if failureCode == "" {
		failureCode = errors.CodeTransitionErr
	}

	state := to
	for _, step := range steps {
		if opts.Cancelled != nil && opts.Cancelled() {
			return nil, errors.New(errors.CodeTransitionCancelled)
		}
		if err := ctx.Err(); err != nil {
			return nil, errors.New(errors.CodeTransitionCancelled).Wrap(err)
		}

		next, err := runStep(ctx, step, state, from)
		if err != nil {
			rerr := errors.FromError(err, failureCode)
			if step.ID != "" && rerr.Segment == "" {
				rerr.WithSegment(step.ID)
			}
			return nil, rerr
		}
		if next != nil {
			state = mergeStates(state, next, logger)
		}
	}
	return state, nil
}

// runStep invokes one step, converting panics into errors so a misbehaving
// guard or middleware cannot crash the host process.
func runStep(ctx context.Context, step Step, state, from *routetree.State) (next *routetree.State, err error) {
	defer func() {
		if r := recover(); r != nil {
			next = nil
			err = fmt.Errorf("step panic: %v", r)
		}
	}()
	return step.Fn(ctx, state, from)
}

// mergeStates merges a replacement state produced by a step onto the prior
// state; the meta sub-object is merged separately. Changing the identity
// fields (name, params, path) is a contract violation by the step and is
// logged, not rejected.
func mergeStates(base, next *routetree.State, logger *slog.Logger) *routetree.State {
	merged := base.Copy()
	identityChanged := false

	if next.Name != "" && next.Name != base.Name {
		merged.Name = next.Name
		identityChanged = true
	}
	if next.Path != "" && next.Path != base.Path {
		merged.Path = next.Path
		identityChanged = true
	}
	if next.Params != nil {
		if !paramsEqual(next.Params, base.Params) {
			identityChanged = true
		}
		merged.Params = next.Params.Copy()
	}

	if next.Meta != nil {
		if merged.Meta == nil {
			merged.Meta = next.Meta.Copy()
		} else {
			if next.Meta.ID != 0 {
				merged.Meta.ID = next.Meta.ID
			}
			if next.Meta.Params != nil {
				merged.Meta.Params = next.Meta.Params
			}
			if next.Meta.Source != "" {
				merged.Meta.Source = next.Meta.Source
			}
			if next.Meta.Redirected {
				merged.Meta.Redirected = true
			}
		}
	}

	if identityChanged {
		logger.Warn("pipeline step changed state identity fields",
			"from", base.Name,
			"to", merged.Name,
			"path", merged.Path)
	}
	return merged
}

func paramsEqual(a, b routetree.Params) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

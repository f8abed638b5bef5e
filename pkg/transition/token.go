package transition

import (
	"context"

	"go.uber.org/atomic"
)

// Token represents one navigation attempt. The router holds at most one
// live token; starting a new navigation cancels the previous token, and the
// engine polls it between pipeline stages.
type Token struct {
	id        int64
	ctx       context.Context
	cancelCtx context.CancelFunc
	cancelled *atomic.Bool
	done      *atomic.Bool
}

// NewToken creates a token for a navigation attempt derived from parent.
func NewToken(parent context.Context, id int64) *Token {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Token{
		id:        id,
		ctx:       ctx,
		cancelCtx: cancel,
		cancelled: atomic.NewBool(false),
		done:      atomic.NewBool(false),
	}
}

// ID returns the attempt's transition id.
func (t *Token) ID() int64 { return t.id }

// Context returns the attempt's context, cancelled along with the token.
func (t *Token) Context() context.Context { return t.ctx }

// Cancel marks the attempt cancelled and reports whether this call was the
// one that cancelled it. Finished attempts cannot be cancelled.
func (t *Token) Cancel() bool {
	if t.done.Load() {
		return false
	}
	if !t.cancelled.CompareAndSwap(false, true) {
		return false
	}
	t.cancelCtx()
	return true
}

// Cancelled reports whether the attempt was cancelled.
func (t *Token) Cancelled() bool { return t.cancelled.Load() }

// Finish marks the attempt completed, releasing its context. It reports
// false when the attempt was already cancelled.
func (t *Token) Finish() bool {
	if t.cancelled.Load() {
		return false
	}
	t.done.Store(true)
	t.cancelCtx()
	return true
}

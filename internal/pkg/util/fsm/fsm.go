package fsm

import (
	"context"
	"errors"

	"github.com/looplab/fsm"
)

// OnEnter returns a callback reporting every state change as (from, to).
// Register it under the "enter_state" key.
func OnEnter(fn func(ctx context.Context, from, to string)) fsm.Callback {
	return func(ctx context.Context, event *fsm.Event) {
		fn(ctx, event.Src, event.Dst)
	}
}

// IsRealError reports whether err is more than a skipped transition.
func IsRealError(err error) bool {
	if err == nil {
		return false
	}

	var noTransition fsm.NoTransitionError
	var canceled fsm.CanceledError

	if errors.As(err, &noTransition) || errors.As(err, &canceled) {
		return false
	}

	return true
}

// Fire triggers event on f and drops the errors IsRealError filters out.
func Fire(ctx context.Context, f *fsm.FSM, event string) error {
	if err := f.Event(ctx, event); IsRealError(err) {
		return err
	}
	return nil
}

package fsm

import (
	"context"
	"errors"
	"testing"

	"github.com/looplab/fsm"
)

func newDoor(onEnter func(ctx context.Context, from, to string)) *fsm.FSM {
	return fsm.NewFSM(
		"closed",
		fsm.Events{
			{Name: "open", Src: []string{"closed"}, Dst: "open"},
			{Name: "close", Src: []string{"open"}, Dst: "closed"},
		},
		fsm.Callbacks{
			"enter_state": OnEnter(onEnter),
		},
	)
}

func TestFire(t *testing.T) {
	var transitions []string
	f := newDoor(func(_ context.Context, from, to string) {
		transitions = append(transitions, from+"->"+to)
	})
	ctx := context.Background()

	if err := Fire(ctx, f, "open"); err != nil {
		t.Fatalf("Fire(open) error = %v", err)
	}
	if f.Current() != "open" {
		t.Fatalf("state = %s, want open", f.Current())
	}

	// Invalid in the current state.
	if err := Fire(ctx, f, "open"); err == nil {
		t.Error("Fire(open) from open should fail")
	}

	if err := Fire(ctx, f, "close"); err != nil {
		t.Fatalf("Fire(close) error = %v", err)
	}
	if len(transitions) != 2 || transitions[0] != "closed->open" || transitions[1] != "open->closed" {
		t.Errorf("transitions = %v", transitions)
	}
}

func TestIsRealError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"no transition", fsm.NoTransitionError{}, false},
		{"canceled", fsm.CanceledError{}, false},
		{"invalid event", fsm.InvalidEventError{Event: "x", State: "y"}, true},
		{"other", errors.New("boom"), true},
	}
	for _, tt := range tests {
		if got := IsRealError(tt.err); got != tt.want {
			t.Errorf("%s: IsRealError() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

package acbackend

import (
	"context"

	"github.com/looplab/fsm"

	"github.com/smartcapwap/capwap-ac/internal/acbackend/core/model"
	fsmutil "github.com/smartcapwap/capwap-ac/internal/pkg/util/fsm"
	"github.com/smartcapwap/capwap-ac/pkg/log"
)

const (
	// EventStart begins binding the management endpoint.
	EventStart = "start"
	// EventStarted marks the endpoint bound and serving.
	EventStarted = "started"
	// EventAbort returns to Stopped after a failed start.
	EventAbort = "abort"
	// EventStop begins tearing the session down.
	EventStop = "stop"
	// EventStopped marks the session fully released.
	EventStopped = "stopped"
)

func newPhaseMachine(logger log.Logger) *fsm.FSM {
	stopped := string(model.PhaseStopped)
	starting := string(model.PhaseStarting)
	running := string(model.PhaseRunning)
	stopping := string(model.PhaseStopping)

	return fsm.NewFSM(
		stopped,
		fsm.Events{
			{Name: EventStart, Src: []string{stopped}, Dst: starting},
			{Name: EventStarted, Src: []string{starting}, Dst: running},
			{Name: EventAbort, Src: []string{starting}, Dst: stopped},
			{Name: EventStop, Src: []string{running}, Dst: stopping},
			{Name: EventStopped, Src: []string{stopping}, Dst: stopped},
		},
		fsm.Callbacks{
			"enter_state": fsmutil.OnEnter(func(_ context.Context, from, to string) {
				logger.Debug("Backend phase changed", "from", from, "to", to)
			}),
		},
	)
}

// transition fires event and logs transitions the machine refuses. Phase
// bookkeeping never blocks a lifecycle operation.
func (b *Backend) transition(ctx context.Context, event string) {
	if err := fsmutil.Fire(context.WithoutCancel(ctx), b.phase, event); err != nil {
		b.logger.Warn("Unexpected backend phase transition", "event", event, "phase", b.phase.Current(), "error", err)
	}
}

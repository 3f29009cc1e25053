package capwap

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/smartcapwap/capwap-ac/internal/acbackend/core"
	"github.com/smartcapwap/capwap-ac/internal/acbackend/core/model"
	"github.com/smartcapwap/capwap-ac/pkg/log"
)

// ErrQueueFull is returned by Submit when the dispatcher cannot take more events.
var ErrQueueFull = errors.New("reset event queue full")

var errStopped = fmt.Errorf("%w: dispatcher stopped", core.ErrBackendNotRunning)

// ResetEvent is a WTP reset reported by the protocol engine.
type ResetEvent struct {
	// WTP identifies the resetting WTP, for logging only.
	WTP   string
	Image model.ImageIdentifier

	// Result, if set, receives the outcome of the delivery. It must have
	// room for one value; the dispatcher never blocks on it.
	Result chan<- error
}

// Dispatcher decouples the protocol engine from notification delivery.
// Events are submitted to a bounded queue and delivered by a fixed set of
// workers, each at most once. Once the context given to Run ends, every
// submission fails with core.ErrBackendNotRunning.
type Dispatcher struct {
	sink    ResetSink
	events  chan ResetEvent
	workers int
	logger  log.Logger

	mu      sync.RWMutex
	stopped bool
}

// NewDispatcher creates a dispatcher delivering to sink. Non-positive sizes default to 1.
func NewDispatcher(sink ResetSink, queueSize, workers int) *Dispatcher {
	if queueSize < 1 {
		queueSize = 1
	}
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		sink:    sink,
		events:  make(chan ResetEvent, queueSize),
		workers: workers,
		logger:  log.WithName("capwap-dispatcher"),
	}
}

// Submit queues ev without blocking.
func (d *Dispatcher) Submit(ev ResetEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return errStopped
	}

	select {
	case d.events <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run delivers queued events until ctx is cancelled. Deliveries in flight at
// that point run to completion: they are bounded by the sink, not by ctx.
// Events still queued are rejected with core.ErrBackendNotRunning.
func (d *Dispatcher) Run(ctx context.Context) error {
	// Submissions fail fast from the moment ctx ends.
	stop := context.AfterFunc(ctx, d.markStopped)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < d.workers; i++ {
		g.Go(func() error {
			d.work(gctx)
			return nil
		})
	}
	err := g.Wait()

	d.markStopped()
	d.reject()
	return err
}

func (d *Dispatcher) markStopped() {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
}

func (d *Dispatcher) work(ctx context.Context) {
	deliverCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-d.events:
			if ctx.Err() != nil {
				deliver(ev, errStopped)
				return
			}
			err := d.sink.NotifyReset(deliverCtx, ev.Image)
			if err != nil {
				d.logger.Warn("Reset event not delivered", "wtp", ev.WTP, "image", ev.Image.String(), "error", err)
			}
			deliver(ev, err)
		}
	}
}

func (d *Dispatcher) reject() {
	for {
		select {
		case ev := <-d.events:
			deliver(ev, errStopped)
		default:
			return
		}
	}
}

func deliver(ev ResetEvent, err error) {
	if ev.Result == nil {
		return
	}
	select {
	case ev.Result <- err:
	default:
	}
}

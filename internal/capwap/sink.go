// Package capwap is the boundary between the CAPWAP protocol engine and the
// management backend. The engine reports WTP resets here; whichever backend
// is currently running receives them.
package capwap

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/smartcapwap/capwap-ac/internal/acbackend/core"
	"github.com/smartcapwap/capwap-ac/internal/acbackend/core/model"
)

// ResetSink receives reset events from the protocol engine.
type ResetSink interface {
	NotifyReset(ctx context.Context, img model.ImageIdentifier) error
}

type sinkBox struct {
	sink ResetSink
}

// SinkRegistry holds the reset sink of the AC process. There is a single
// shared channel per process; a backend registers itself on start and
// unregisters on stop.
type SinkRegistry struct {
	current atomic.Pointer[sinkBox]
}

// NewSinkRegistry returns an empty registry.
func NewSinkRegistry() *SinkRegistry {
	return &SinkRegistry{}
}

// Register installs sink, replacing any previous one.
func (r *SinkRegistry) Register(sink ResetSink) {
	r.current.Store(&sinkBox{sink: sink})
}

// Unregister removes sink if it is the registered one. It reports whether it did.
func (r *SinkRegistry) Unregister(sink ResetSink) bool {
	for {
		box := r.current.Load()
		if box == nil || box.sink != sink {
			return false
		}
		if r.current.CompareAndSwap(box, nil) {
			return true
		}
	}
}

// Registered reports whether a sink is installed.
func (r *SinkRegistry) Registered() bool {
	return r.current.Load() != nil
}

// NotifyReset forwards a reset event to the registered sink. Without a sink
// the event is rejected with core.ErrBackendNotRunning; it is never queued.
func (r *SinkRegistry) NotifyReset(ctx context.Context, img model.ImageIdentifier) error {
	box := r.current.Load()
	if box == nil {
		return fmt.Errorf("%w: no reset sink registered", core.ErrBackendNotRunning)
	}
	return box.sink.NotifyReset(ctx, img)
}

// ReportReset is the protocol engine entry point: it builds the image
// identifier from the fields of a WTP's image information and forwards it.
func (r *SinkRegistry) ReportReset(ctx context.Context, vendor, modelName, version string) error {
	return r.NotifyReset(ctx, model.ImageIdentifier{Vendor: vendor, Model: modelName, Version: version})
}

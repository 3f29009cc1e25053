package acbackend

import (
	"github.com/smartcapwap/capwap-ac/internal/acbackend/core"
	"github.com/smartcapwap/capwap-ac/internal/capwap"
	"github.com/smartcapwap/capwap-ac/pkg/log"
)

// Option configures a Backend.
type Option func(*Backend)

// WithImageStore attaches download URLs of startup images to notifications.
func WithImageStore(store core.ImageStore) Option {
	return func(b *Backend) {
		b.store = store
	}
}

// WithSinkRegistry makes the backend register itself as the reset sink while running.
func WithSinkRegistry(r *capwap.SinkRegistry) Option {
	return func(b *Backend) {
		b.sinks = r
	}
}

// WithLogger replaces the default logger.
func WithLogger(l log.Logger) Option {
	return func(b *Backend) {
		b.logger = l
	}
}

package acbackend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smartcapwap/capwap-ac/internal/acbackend/core"
	"github.com/smartcapwap/capwap-ac/internal/acbackend/core/model"
	"github.com/smartcapwap/capwap-ac/internal/pkg/metrics"
)

// NotifyReset reports that a WTP is resetting with startup image img.
//
// Without a live session it fails with core.ErrBackendNotRunning; nothing is
// queued. An invalid identifier or encoding problem fails with
// core.ErrSerializationFailure, any other delivery problem with
// core.ErrTransportFailure. Failed notifications are not retried.
// NotifyReset never changes the connection state.
func (b *Backend) NotifyReset(ctx context.Context, img model.ImageIdentifier) error {
	s := b.current.Load()
	if s == nil || !s.acquire() {
		metrics.ResetNotificationsTotal.WithLabelValues(metrics.ResultNotRunning).Inc()
		return core.ErrBackendNotRunning
	}
	defer s.release()

	n, err := model.NewResetNotification(img)
	if err != nil {
		return b.deliveryFailed(fmt.Errorf("%w: %w", core.ErrSerializationFailure, err), img, s.gen)
	}

	// Deliveries end with the caller's context or when the session aborts them.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	logger := b.logger.WithValues("notification", n.ID, "image", img.String(), "generation", s.gen)

	if b.store != nil {
		if u, err := b.store.DownloadURL(ctx, img); err != nil {
			logger.Warn("Cannot resolve startup image download URL", "error", err)
		} else {
			n.DownloadURL = u
		}
	}

	start := time.Now()
	err = b.transport.Deliver(ctx, n)
	metrics.ResetNotificationDuration.WithLabelValues(b.transport.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		return b.deliveryFailed(classify(err), img, s.gen)
	}

	b.delivered.Add(1)
	metrics.ResetNotificationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	logger.Info("Reset notification delivered", "transport", b.transport.Name())
	return nil
}

func (b *Backend) deliveryFailed(err error, img model.ImageIdentifier, gen uint64) error {
	b.failed.Add(1)
	result := metrics.ResultTransportFail
	if errors.Is(err, core.ErrSerializationFailure) {
		result = metrics.ResultSerializationFail
	}
	metrics.ResetNotificationsTotal.WithLabelValues(result).Inc()
	b.logger.Error(err, "Reset notification not delivered", "image", img.String(), "generation", gen)
	return err
}

// classify maps transport errors onto the two failure kinds callers see.
func classify(err error) error {
	if errors.Is(err, core.ErrSerializationFailure) || errors.Is(err, core.ErrTransportFailure) {
		return err
	}
	return fmt.Errorf("%w: %w", core.ErrTransportFailure, err)
}

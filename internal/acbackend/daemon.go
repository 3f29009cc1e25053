package acbackend

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/smartcapwap/capwap-ac/internal/acbackend/storage"
	"github.com/smartcapwap/capwap-ac/internal/capwap"
	"github.com/smartcapwap/capwap-ac/pkg/log"
	"github.com/smartcapwap/capwap-ac/pkg/mqtt"
)

// Retained payloads of the MQTT status topic.
const (
	statusOnline  = "online"
	statusOffline = "offline"
)

// Daemon runs one backend for the lifetime of the AC process.
type Daemon struct {
	cfg     *Config
	acID    string
	backend *Backend
	sinks   *capwap.SinkRegistry
	events  *capwap.Dispatcher
	store   *storage.MinIO

	mqtt        mqtt.Client
	statusTopic string
}

// Backend returns the managed backend.
func (d *Daemon) Backend() *Backend {
	return d.backend
}

// Sinks returns the registry the protocol engine reports resets to.
func (d *Daemon) Sinks() *capwap.SinkRegistry {
	return d.sinks
}

// Dispatcher returns the queue the protocol engine submits reset events to.
// It is served while Run is active.
func (d *Daemon) Dispatcher() *capwap.Dispatcher {
	return d.events
}

// ACID returns the identifier of this access controller.
func (d *Daemon) ACID() string {
	return d.acID
}

// Run prepares the dependencies, starts the backend and dispatches reset
// events to it until ctx is cancelled. It then stops the backend within the
// configured shutdown timeout.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.prepare(ctx); err != nil {
		d.disconnect()
		return err
	}

	if err := d.backend.Start(ctx); err != nil {
		d.disconnect()
		return fmt.Errorf("failed to start backend: %w", err)
	}
	d.publishStatus(ctx, statusOnline)
	log.Info("AC backend is running", "acID", d.acID)

	// The dispatcher stops taking events when ctx ends. Its in-flight
	// deliveries are left to the backend drain in Stop.
	dispatched := make(chan error, 1)
	go func() { dispatched <- d.events.Run(ctx) }()

	<-ctx.Done()
	log.Info("Shutdown signal received, stopping backend...")

	stopCtx, cancel := context.WithTimeout(context.Background(), d.backend.shutdownTimeout())
	defer cancel()

	err := d.backend.Stop(stopCtx)
	<-dispatched
	d.publishStatus(stopCtx, statusOffline)
	d.disconnect()
	if err != nil {
		return fmt.Errorf("failed to stop backend cleanly: %w", err)
	}

	log.Info("AC backend stopped gracefully")
	return nil
}

// prepare connects the MQTT client and checks the image bucket concurrently.
// The image store is optional; a failed check is logged only.
func (d *Daemon) prepare(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	if d.mqtt != nil {
		g.Go(func() error {
			// The connection outlives preparation; Disconnect ends it.
			if err := d.mqtt.Start(context.WithoutCancel(ctx)); err != nil {
				return fmt.Errorf("failed to start mqtt client: %w", err)
			}
			awaitCtx, cancel := context.WithTimeout(gctx, d.connectTimeout())
			defer cancel()
			if err := d.mqtt.AwaitConnection(awaitCtx); err != nil {
				return fmt.Errorf("failed to establish initial mqtt connection: %w", err)
			}
			return nil
		})
	}

	if d.store != nil {
		g.Go(func() error {
			if err := d.store.CheckBucket(gctx); err != nil {
				log.Warn("Image repository unavailable, notifications go out without download URLs", "error", err)
			}
			return nil
		})
	}

	return g.Wait()
}

func (d *Daemon) publishStatus(ctx context.Context, status string) {
	if d.mqtt == nil {
		return
	}
	if err := d.mqtt.Publish(ctx, d.statusTopic, 1, true, []byte(status)); err != nil {
		log.Warn("Failed to publish AC status", "topic", d.statusTopic, "status", status, "error", err)
	}
}

func (d *Daemon) disconnect() {
	if d.mqtt == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), d.connectTimeout())
	defer cancel()
	d.mqtt.Disconnect(ctx)
}

func (d *Daemon) connectTimeout() time.Duration {
	if d.cfg.MqttOptions != nil && d.cfg.MqttOptions.ConnectTimeout > 0 {
		return d.cfg.MqttOptions.ConnectTimeout
	}
	return 5 * time.Second
}

// Package acbackend implements the management plane backend of the access
// controller: the lifecycle of the management SOAP endpoint and the delivery
// of WTP reset notifications to the management layer.
package acbackend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/looplab/fsm"

	"github.com/smartcapwap/capwap-ac/internal/acbackend/core"
	"github.com/smartcapwap/capwap-ac/internal/acbackend/core/model"
	soapserver "github.com/smartcapwap/capwap-ac/internal/acbackend/server/soap"
	"github.com/smartcapwap/capwap-ac/internal/capwap"
	"github.com/smartcapwap/capwap-ac/internal/pkg/metrics"
	"github.com/smartcapwap/capwap-ac/pkg/log"
	"github.com/smartcapwap/capwap-ac/pkg/options"
)

const defaultShutdownTimeout = 10 * time.Second

var (
	_ capwap.ResetSink          = (*Backend)(nil)
	_ soapserver.StatusProvider = (*Backend)(nil)
)

// Backend owns the management channel of the AC. Start and Stop are
// serialized; IsConnected, ServerHandle, Status and NotifyReset never wait
// for them.
type Backend struct {
	opts      *options.SoapOptions
	transport core.NotificationTransport
	store     core.ImageStore
	sinks     *capwap.SinkRegistry
	logger    log.Logger

	mu    sync.Mutex
	phase *fsm.FSM

	current atomic.Pointer[session]
	gen     atomic.Uint64

	delivered atomic.Uint64
	failed    atomic.Uint64
	lastErr   atomic.Pointer[string]
}

// New creates a stopped backend. transport receives every reset notification.
func New(opts *options.SoapOptions, transport core.NotificationTransport, opt ...Option) *Backend {
	b := &Backend{
		opts:      opts,
		transport: transport,
		logger:    log.WithName("acbackend"),
	}
	for _, o := range opt {
		o(b)
	}
	b.phase = newPhaseMachine(b.logger)
	return b
}

// Start binds the management endpoint and starts serving it. Calling Start
// on a running backend fails with core.ErrAlreadyRunning and leaves the
// running session untouched.
func (b *Backend) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current.Load() != nil {
		return core.ErrAlreadyRunning
	}

	if err := b.validate(); err != nil {
		b.recordError(err)
		return err
	}

	b.transition(ctx, EventStart)

	lc := net.ListenConfig{}
	lis, err := lc.Listen(ctx, b.network(), b.opts.Addr)
	if err != nil {
		err = fmt.Errorf("%w: %s: %w", core.ErrBindFailure, b.opts.Addr, err)
		b.recordError(err)
		b.transition(ctx, EventAbort)
		return err
	}

	s := newSession(b.gen.Add(1), soapserver.NewServer(lis, b.opts, b))
	b.current.Store(s)
	go b.serve(s)

	if b.sinks != nil {
		b.sinks.Register(b)
	}

	b.lastErr.Store(nil)
	b.transition(ctx, EventStarted)
	metrics.BackendConnected.Set(1)
	metrics.BackendGeneration.Set(float64(s.gen))

	b.logger.Info("Backend started", "addr", lis.Addr().String(), "namespace", b.opts.Namespace,
		"generation", s.gen, "transport", b.transport.Name())
	return nil
}

// Stop tears the running session down. It is a no-op on a stopped backend.
//
// New notifications are rejected as soon as Stop begins. Notifications
// already in flight are allowed to finish until ctx is done; the rest are
// aborted. The management server is then shut down gracefully within ctx.
func (b *Backend) Stop(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.current.Load()
	if s == nil {
		return nil
	}
	return b.teardown(ctx, s)
}

// IsConnected reports whether a session is live.
func (b *Backend) IsConnected() bool {
	return b.current.Load() != nil
}

// ServerHandle returns a handle to the running management server, or false
// when the backend is not connected.
func (b *Backend) ServerHandle() (*ServerHandle, bool) {
	s := b.current.Load()
	if s == nil {
		return nil, false
	}
	return &ServerHandle{gen: s.gen, server: s.server, owner: b}, true
}

// Status returns a snapshot of the backend.
func (b *Backend) Status() model.BackendStatus {
	st := model.BackendStatus{
		Phase:      model.Phase(b.phase.Current()),
		Generation: b.gen.Load(),
		Namespace:  b.opts.Namespace,
		Delivered:  b.delivered.Load(),
		Failed:     b.failed.Load(),
	}
	if b.transport != nil {
		st.Transport = b.transport.Name()
	}
	if msg := b.lastErr.Load(); msg != nil {
		st.LastError = *msg
	}
	if s := b.current.Load(); s != nil {
		st.Connected = true
		st.Generation = s.gen
		st.Address = s.server.Addr().String()
		st.StartedAt = s.startedAt
	}
	return st
}

func (b *Backend) validate() error {
	if b.opts == nil {
		return fmt.Errorf("%w: no server options", core.ErrConfigurationInvalid)
	}
	if err := options.ValidateNamespace(b.opts.Namespace); err != nil {
		return fmt.Errorf("%w: %w", core.ErrConfigurationInvalid, err)
	}
	if b.opts.Addr == "" {
		return fmt.Errorf("%w: listen address is empty", core.ErrConfigurationInvalid)
	}
	if err := options.ValidateAddress(b.opts.Addr); err != nil {
		return fmt.Errorf("%w: %w", core.ErrConfigurationInvalid, err)
	}
	switch b.network() {
	case "tcp", "tcp4", "tcp6":
	default:
		return fmt.Errorf("%w: unsupported network %q", core.ErrConfigurationInvalid, b.opts.Network)
	}
	if b.transport == nil {
		return fmt.Errorf("%w: no notification transport", core.ErrConfigurationInvalid)
	}
	return nil
}

func (b *Backend) network() string {
	if b.opts.Network == "" {
		return "tcp"
	}
	return b.opts.Network
}

func (b *Backend) shutdownTimeout() time.Duration {
	if b.opts.ShutdownTimeout > 0 {
		return b.opts.ShutdownTimeout
	}
	return defaultShutdownTimeout
}

// serve runs the server of s. If serving fails for another reason than a
// shutdown, the session is torn down as if Stop had been called.
func (b *Backend) serve(s *session) {
	err := s.server.Serve()
	close(s.served)
	if errors.Is(err, http.ErrServerClosed) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current.Load() != s {
		return
	}

	b.logger.Error(err, "Management server failed, stopping backend", "generation", s.gen)
	b.recordError(err)

	ctx, cancel := context.WithTimeout(context.Background(), b.shutdownTimeout())
	defer cancel()
	if err := b.teardown(ctx, s); err != nil {
		b.logger.Warn("Management server did not shut down cleanly", "error", err)
	}
}

// teardown must be called with b.mu held and s as the current session.
func (b *Backend) teardown(ctx context.Context, s *session) error {
	b.transition(ctx, EventStop)

	if b.sinks != nil {
		b.sinks.Unregister(b)
	}
	b.current.Store(nil)
	metrics.BackendConnected.Set(0)

	s.close()
	b.drain(ctx, s)
	s.cancel()

	err := s.server.Shutdown(ctx)
	<-s.served

	b.transition(ctx, EventStopped)
	b.logger.Info("Backend stopped", "generation", s.gen)
	return err
}

// drain waits for in-flight deliveries of s. When ctx ends first, the
// remaining deliveries are cancelled and awaited.
func (b *Backend) drain(ctx context.Context, s *session) {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		b.logger.Warn("Drain deadline reached, aborting in-flight notifications", "generation", s.gen)
		s.cancel()
		<-done
	}
}

func (b *Backend) recordError(err error) {
	msg := err.Error()
	b.lastErr.Store(&msg)
}

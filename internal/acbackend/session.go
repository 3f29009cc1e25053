package acbackend

import (
	"context"
	"sync"
	"time"

	soapserver "github.com/smartcapwap/capwap-ac/internal/acbackend/server/soap"
)

// session is one start..stop span of the backend. The backend holds a
// pointer to the live session; nil means not connected.
type session struct {
	gen       uint64
	server    *soapserver.Server
	startedAt time.Time

	// ctx is cancelled to abort deliveries still running when the drain
	// deadline passes.
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	closed   bool
	inflight sync.WaitGroup

	served chan struct{}
}

func newSession(gen uint64, server *soapserver.Server) *session {
	ctx, cancel := context.WithCancel(context.Background())
	return &session{
		gen:       gen,
		server:    server,
		startedAt: time.Now().UTC(),
		ctx:       ctx,
		cancel:    cancel,
		served:    make(chan struct{}),
	}
}

// acquire registers an in-flight delivery. It fails once the session is closed.
func (s *session) acquire() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}
	s.inflight.Add(1)
	return true
}

func (s *session) release() {
	s.inflight.Done()
}

// close rejects further deliveries. After it returns inflight only shrinks.
func (s *session) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

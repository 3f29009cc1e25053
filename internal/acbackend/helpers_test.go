package acbackend

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/smartcapwap/capwap-ac/internal/acbackend/core/model"
	"github.com/smartcapwap/capwap-ac/pkg/options"
)

var acmeImage = model.ImageIdentifier{Vendor: "Acme", Model: "WTP100", Version: "2.3.1"}

// fakeTransport records delivered notifications. With block set, Deliver
// waits for it to be closed or for its context to end.
type fakeTransport struct {
	mu        sync.Mutex
	delivered []*model.ResetNotification
	err       error

	block   chan struct{}
	entered chan struct{}
}

func (f *fakeTransport) Name() string { return "fake" }

func (f *fakeTransport) Deliver(ctx context.Context, n *model.ResetNotification) error {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.delivered = append(f.delivered, n)
	return nil
}

func (f *fakeTransport) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.delivered)
}

type fakeStore struct {
	url string
	err error
}

func (s *fakeStore) DownloadURL(context.Context, model.ImageIdentifier) (string, error) {
	return s.url, s.err
}

func testOptions() *options.SoapOptions {
	opts := options.NewSoapOptions()
	opts.Addr = "127.0.0.1:0"
	opts.ShutdownTimeout = 5 * time.Second
	return opts
}

func startBackend(t *testing.T, transport *fakeTransport, opt ...Option) *Backend {
	t.Helper()
	b := New(testOptions(), transport, opt...)
	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		if err := b.Stop(context.Background()); err != nil {
			t.Errorf("Stop() error = %v", err)
		}
	})
	return b
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

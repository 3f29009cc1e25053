package acbackend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/smartcapwap/capwap-ac/internal/acbackend/core"
	"github.com/smartcapwap/capwap-ac/internal/acbackend/core/model"
	"github.com/smartcapwap/capwap-ac/internal/acbackend/notifier"
	"github.com/smartcapwap/capwap-ac/pkg/options"
)

func TestNotifyResetNotRunning(t *testing.T) {
	transport := &fakeTransport{}
	b := New(testOptions(), transport)

	if err := b.NotifyReset(context.Background(), acmeImage); !errors.Is(err, core.ErrBackendNotRunning) {
		t.Fatalf("NotifyReset() error = %v, want ErrBackendNotRunning", err)
	}
	if b.IsConnected() || transport.count() != 0 {
		t.Error("NotifyReset() on a stopped backend had side effects")
	}
}

func TestNotifyResetAfterStop(t *testing.T) {
	transport := &fakeTransport{}
	b := New(testOptions(), transport)
	ctx := context.Background()

	if err := b.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := b.Stop(ctx); err != nil {
		t.Fatal(err)
	}
	if err := b.NotifyReset(ctx, acmeImage); !errors.Is(err, core.ErrBackendNotRunning) {
		t.Errorf("NotifyReset() error = %v, want ErrBackendNotRunning", err)
	}
	if transport.count() != 0 {
		t.Errorf("delivered %d, want 0", transport.count())
	}
}

func TestNotifyResetOverSOAP(t *testing.T) {
	var (
		mu       sync.Mutex
		received []*model.ResetNotification
	)
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		n, _, err := notifier.DecodeResetEnvelope(options.DefaultNamespace, data)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		mu.Lock()
		received = append(received, n)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer stub.Close()

	transport := notifier.NewSOAPNotifier(&options.NotifyOptions{
		Transport: options.TransportSOAP,
		Endpoint:  stub.URL,
		Timeout:   2 * time.Second,
		ACID:      "ac-01",
	}, options.DefaultNamespace)

	b := New(testOptions(), transport)
	ctx := context.Background()
	if err := b.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer b.Stop(ctx)

	if err := b.NotifyReset(ctx, acmeImage); err != nil {
		t.Fatalf("NotifyReset() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 {
		t.Fatalf("stub received %d notifications, want 1", len(received))
	}
	if received[0].StartupImage != acmeImage {
		t.Errorf("StartupImage = %+v, want %+v", received[0].StartupImage, acmeImage)
	}
	if !b.IsConnected() || b.Status().Delivered != 1 {
		t.Errorf("Status() = %+v", b.Status())
	}
}

func TestNotifyResetFailures(t *testing.T) {
	tests := []struct {
		name      string
		img       model.ImageIdentifier
		transport *fakeTransport
		want      error
	}{
		{"incomplete image", model.ImageIdentifier{Vendor: "Acme"}, &fakeTransport{}, core.ErrSerializationFailure},
		{"transport error", acmeImage, &fakeTransport{err: errors.New("connection reset")}, core.ErrTransportFailure},
		{"transport serialization error", acmeImage, &fakeTransport{err: core.ErrSerializationFailure}, core.ErrSerializationFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := startBackend(t, tt.transport)

			err := b.NotifyReset(context.Background(), tt.img)
			if !errors.Is(err, tt.want) {
				t.Fatalf("NotifyReset() error = %v, want %v", err, tt.want)
			}
			if !b.IsConnected() {
				t.Error("a failed notification changed the connection state")
			}
			if st := b.Status(); st.Failed != 1 || st.Delivered != 0 {
				t.Errorf("counters = %d delivered / %d failed", st.Delivered, st.Failed)
			}
		})
	}
}

func TestNotifyResetDownloadURL(t *testing.T) {
	tests := []struct {
		name  string
		store *fakeStore
		want  string
	}{
		{"resolved", &fakeStore{url: "https://images/acme"}, "https://images/acme"},
		{"store failure", &fakeStore{err: core.ErrImageNotFound}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &fakeTransport{}
			b := startBackend(t, transport, WithImageStore(tt.store))

			if err := b.NotifyReset(context.Background(), acmeImage); err != nil {
				t.Fatalf("NotifyReset() error = %v", err)
			}
			if got := transport.delivered[0].DownloadURL; got != tt.want {
				t.Errorf("DownloadURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStopDrainsInFlight(t *testing.T) {
	transport := &fakeTransport{block: make(chan struct{}), entered: make(chan struct{}, 1)}
	b := New(testOptions(), transport)
	ctx := context.Background()
	if err := b.Start(ctx); err != nil {
		t.Fatal(err)
	}

	notified := make(chan error, 1)
	go func() { notified <- b.NotifyReset(ctx, acmeImage) }()
	<-transport.entered

	stopped := make(chan error, 1)
	go func() { stopped <- b.Stop(ctx) }()

	waitFor(t, "disconnect", func() bool { return !b.IsConnected() })
	if err := b.NotifyReset(ctx, acmeImage); !errors.Is(err, core.ErrBackendNotRunning) {
		t.Errorf("NotifyReset() while stopping error = %v, want ErrBackendNotRunning", err)
	}

	select {
	case <-stopped:
		t.Fatal("Stop() returned before the in-flight notification finished")
	case <-time.After(50 * time.Millisecond):
	}

	close(transport.block)
	if err := <-notified; err != nil {
		t.Errorf("in-flight NotifyReset() error = %v", err)
	}
	if err := <-stopped; err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if transport.count() != 1 {
		t.Errorf("delivered %d, want 1", transport.count())
	}
}

func TestStopAbortsAfterDeadline(t *testing.T) {
	transport := &fakeTransport{block: make(chan struct{}), entered: make(chan struct{}, 1)}
	b := New(testOptions(), transport)
	if err := b.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	notified := make(chan error, 1)
	go func() { notified <- b.NotifyReset(context.Background(), acmeImage) }()
	<-transport.entered

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := b.Stop(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Stop() error = %v", err)
	}

	err := <-notified
	if !errors.Is(err, core.ErrTransportFailure) || !errors.Is(err, context.Canceled) {
		t.Errorf("aborted NotifyReset() error = %v, want cancelled transport failure", err)
	}
	if b.IsConnected() {
		t.Error("IsConnected() = true after Stop")
	}
}

func TestConcurrentNotifyAndStop(t *testing.T) {
	transport := &fakeTransport{}
	b := New(testOptions(), transport)
	ctx := context.Background()
	if err := b.Start(ctx); err != nil {
		t.Fatal(err)
	}

	var (
		wg        sync.WaitGroup
		successes atomic.Int64
		start     = make(chan struct{})
	)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for j := 0; j < 10; j++ {
				err := b.NotifyReset(ctx, acmeImage)
				switch {
				case err == nil:
					successes.Add(1)
				case errors.Is(err, core.ErrBackendNotRunning):
				default:
					t.Errorf("NotifyReset() error = %v", err)
				}
			}
		}()
	}

	close(start)
	if err := b.Stop(ctx); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	wg.Wait()

	if got := int64(transport.count()); got != successes.Load() {
		t.Errorf("transport saw %d notifications, callers saw %d successes", got, successes.Load())
	}
	if got := b.Status().Delivered; int64(got) != successes.Load() {
		t.Errorf("Status().Delivered = %d, want %d", got, successes.Load())
	}
}

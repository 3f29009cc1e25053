package soap

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/smartcapwap/capwap-ac/internal/acbackend/core/model"
	"github.com/smartcapwap/capwap-ac/pkg/options"
	wire "github.com/smartcapwap/capwap-ac/pkg/soap"
)

const testNS = options.DefaultNamespace

type fakeStatus struct {
	connected atomic.Bool
}

func (f *fakeStatus) IsConnected() bool { return f.connected.Load() }

func (f *fakeStatus) Status() model.BackendStatus {
	phase := model.PhaseStopped
	if f.connected.Load() {
		phase = model.PhaseRunning
	}
	return model.BackendStatus{
		Phase:      phase,
		Connected:  f.connected.Load(),
		Generation: 7,
		Namespace:  testNS,
		Delivered:  3,
	}
}

func startServer(t *testing.T, status StatusProvider) *Server {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	opts := options.NewSoapOptions()
	opts.Addr = lis.Addr().String()
	srv := NewServer(lis, opts, status)

	served := make(chan error, 1)
	go func() { served <- srv.Serve() }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			t.Errorf("Shutdown() error = %v", err)
		}
		if err := <-served; !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("Serve() error = %v, want ErrServerClosed", err)
		}
	})
	return srv
}

func TestServerOperations(t *testing.T) {
	status := &fakeStatus{}
	status.connected.Store(true)
	srv := startServer(t, status)

	c := NewClient("http://"+srv.Addr().String(), testNS, 2*time.Second)
	ctx := context.Background()

	st, err := c.GetBackendStatus(ctx)
	if err != nil {
		t.Fatalf("GetBackendStatus() error = %v", err)
	}
	if st.Phase != model.PhaseRunning || !st.Connected || st.Generation != 7 || st.Delivered != 3 {
		t.Errorf("status = %+v", st)
	}

	pong, err := c.Ping(ctx)
	if err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if !pong.Connected || pong.Timestamp.IsZero() {
		t.Errorf("ping = %+v", pong)
	}
}

func TestServerFaults(t *testing.T) {
	srv := NewServer(nil, options.NewSoapOptions(), &fakeStatus{})

	tests := []struct {
		name string
		body []byte
	}{
		{"unknown operation", envelopeFor(t, testNS, "Reboot")},
		{"wrong namespace", envelopeFor(t, "urn:other", OpPing)},
		{"malformed", []byte("<not-soap")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, Path, bytes.NewReader(tt.body))
			srv.Handler().ServeHTTP(rec, req)

			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500", rec.Code)
			}
			var fault *wire.Fault
			if err := wire.Unmarshal(rec.Body.Bytes(), nil); !errors.As(err, &fault) || fault.Code != wire.FaultClient {
				t.Errorf("body is not a client fault: %v", err)
			}
		})
	}
}

func TestServerProbes(t *testing.T) {
	status := &fakeStatus{}
	srv := NewServer(nil, options.NewSoapOptions(), status)

	get := func(path string) int {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec.Code
	}

	if code := get("/healthz"); code != http.StatusOK {
		t.Errorf("/healthz = %d", code)
	}
	if code := get("/readyz"); code != http.StatusServiceUnavailable {
		t.Errorf("/readyz while disconnected = %d, want 503", code)
	}
	status.connected.Store(true)
	if code := get("/readyz"); code != http.StatusOK {
		t.Errorf("/readyz while connected = %d, want 200", code)
	}
	if code := get("/metrics"); code != http.StatusOK {
		t.Errorf("/metrics = %d", code)
	}
	if code := get(Path); code != http.StatusMethodNotAllowed {
		t.Errorf("GET %s = %d, want 405", Path, code)
	}
}

func envelopeFor(t *testing.T, ns, op string) []byte {
	t.Helper()
	data, err := wire.Marshal(&Request{XMLName: xml.Name{Space: ns, Local: op}})
	if err != nil {
		t.Fatal(err)
	}
	return data
}

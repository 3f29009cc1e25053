package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/smartcapwap/capwap-ac/pkg/log"
)

func TestTimeoutSetsDeadline(t *testing.T) {
	var remaining time.Duration
	h := Timeout(time.Second)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		deadline, ok := r.Context().Deadline()
		if !ok {
			t.Fatal("no deadline on request context")
		}
		remaining = time.Until(deadline)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if remaining <= 0 || remaining > time.Second {
		t.Errorf("remaining = %v, want (0, 1s]", remaining)
	}
}

func TestLoggingKeepsStatus(t *testing.T) {
	h := Logging(log.NewNopLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
}

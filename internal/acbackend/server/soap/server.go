package soap

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/smartcapwap/capwap-ac/internal/acbackend/core/model"
	httpmw "github.com/smartcapwap/capwap-ac/internal/pkg/middleware/http"
	"github.com/smartcapwap/capwap-ac/pkg/log"
	"github.com/smartcapwap/capwap-ac/pkg/options"
)

// Path of the SOAP endpoint.
const Path = "/soap"

// StatusProvider is the view of the backend the server exposes.
type StatusProvider interface {
	Status() model.BackendStatus
	IsConnected() bool
}

// Server is the management HTTP/SOAP server of one backend session. It is
// bound to a listener at construction and serves it exactly once.
type Server struct {
	server    *http.Server
	lis       net.Listener
	namespace string
	status    StatusProvider
}

// NewServer builds a server for the bound listener lis.
func NewServer(lis net.Listener, opts *options.SoapOptions, status StatusProvider) *Server {
	s := &Server{
		lis:       lis,
		namespace: opts.Namespace,
		status:    status,
	}

	s.server = &http.Server{
		Handler:      s.routes(opts),
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s
}

func (s *Server) routes(opts *options.SoapOptions) http.Handler {
	r := mux.NewRouter()
	r.Use(httpmw.Logging(log.WithName("soap-server")))

	r.Handle(Path, httpmw.Timeout(opts.WriteTimeout)(http.HandlerFunc(s.handleSOAP))).Methods(http.MethodPost)

	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReadyz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return r
}

// Serve blocks serving the listener. It returns http.ErrServerClosed after Shutdown.
func (s *Server) Serve() error {
	log.Info("Management SOAP server listening", "addr", s.lis.Addr().String(), "namespace", s.namespace)
	return s.server.Serve(s.lis)
}

// Shutdown stops accepting connections and waits for active requests within ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	if err != nil {
		return errors.Join(err, s.server.Close())
	}
	return nil
}

// Close closes the listener and all connections immediately.
func (s *Server) Close() error {
	return s.server.Close()
}

// Addr is the bound address of the server.
func (s *Server) Addr() net.Addr {
	return s.lis.Addr()
}

// Namespace is the XML namespace the server accepts.
func (s *Server) Namespace() string {
	return s.namespace
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

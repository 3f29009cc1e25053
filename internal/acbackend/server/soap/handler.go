package soap

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/smartcapwap/capwap-ac/internal/acbackend/core/model"
	"github.com/smartcapwap/capwap-ac/pkg/log"
	wire "github.com/smartcapwap/capwap-ac/pkg/soap"
)

// SOAP operations of the management endpoint.
const (
	OpGetBackendStatus = "GetBackendStatus"
	OpPing             = "Ping"
)

const maxRequestSize = 1 << 20

// GetBackendStatusResponse answers OpGetBackendStatus.
type GetBackendStatusResponse struct {
	XMLName xml.Name
	Status  model.BackendStatus `xml:"Status"`
}

// PingResponse answers OpPing.
type PingResponse struct {
	XMLName   xml.Name
	Connected bool      `xml:"Connected"`
	Timestamp time.Time `xml:"Timestamp"`
}

// Request is an operation without parameters.
type Request struct {
	XMLName xml.Name
}

func (s *Server) handleSOAP(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxRequestSize))
	if err != nil {
		s.fault(w, wire.FaultClient, "cannot read request")
		return
	}

	name, err := wire.BodyElement(data)
	if err != nil {
		s.fault(w, wire.FaultClient, "malformed envelope: "+err.Error())
		return
	}
	if name.Space != s.namespace {
		s.fault(w, wire.FaultClient, fmt.Sprintf("unknown namespace %q", name.Space))
		return
	}

	var resp any
	switch name.Local {
	case OpGetBackendStatus:
		resp = &GetBackendStatusResponse{
			XMLName: s.responseName(name.Local),
			Status:  s.status.Status(),
		}
	case OpPing:
		resp = &PingResponse{
			XMLName:   s.responseName(name.Local),
			Connected: s.status.IsConnected(),
			Timestamp: time.Now().UTC(),
		}
	default:
		s.fault(w, wire.FaultClient, fmt.Sprintf("unknown operation %q", name.Local))
		return
	}

	if err := wire.WriteResponse(w, resp); err != nil {
		log.Error(err, "Failed to write SOAP response", "operation", name.Local)
	}
}

func (s *Server) responseName(op string) xml.Name {
	return xml.Name{Space: s.namespace, Local: op + "Response"}
}

func (s *Server) fault(w http.ResponseWriter, code, msg string) {
	if err := wire.WriteFault(w, &wire.Fault{Code: code, String: msg}); err != nil {
		log.Error(err, "Failed to write SOAP fault")
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	if !s.status.IsConnected() {
		http.Error(w, "backend not connected", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

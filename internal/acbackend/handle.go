package acbackend

import (
	"net"

	"github.com/smartcapwap/capwap-ac/internal/acbackend/core"
	soapserver "github.com/smartcapwap/capwap-ac/internal/acbackend/server/soap"
)

// ServerHandle gives read access to the management server of one session.
// It cannot stop the server, and it stops answering once the session it was
// issued for has ended, even if the backend was started again since.
type ServerHandle struct {
	gen    uint64
	server *soapserver.Server
	owner  *Backend
}

// Valid reports whether the session of the handle is still live.
func (h *ServerHandle) Valid() bool {
	s := h.owner.current.Load()
	return s != nil && s.gen == h.gen
}

// Generation is the session generation the handle was issued for.
func (h *ServerHandle) Generation() uint64 {
	return h.gen
}

// Addr returns the bound address of the server.
func (h *ServerHandle) Addr() (net.Addr, error) {
	if !h.Valid() {
		return nil, core.ErrHandleExpired
	}
	return h.server.Addr(), nil
}

// Namespace returns the XML namespace the server accepts.
func (h *ServerHandle) Namespace() (string, error) {
	if !h.Valid() {
		return "", core.ErrHandleExpired
	}
	return h.server.Namespace(), nil
}

// URL returns the SOAP endpoint URL of the server.
func (h *ServerHandle) URL() (string, error) {
	addr, err := h.Addr()
	if err != nil {
		return "", err
	}
	return "http://" + addr.String() + soapserver.Path, nil
}

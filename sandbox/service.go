// Package sandbox is a local-development stand-in for the suppliers: it serves
// the same canned session-create responses the clients use in mock mode, so
// the gateway can be exercised end-to-end with X-Forward-To pointed at itself.
package sandbox

import (
	"net/http"

	"github.com/NHSDigital/im1-pfs-auth/forward/emis"
	"github.com/NHSDigital/im1-pfs-auth/forward/tpp"
)

type Config struct {
	// Enabled mounts the sandbox supplier endpoints on the public interface.
	Enabled bool `koanf:"enabled"`
}

type Service struct{}

func New() *Service {
	return &Service{}
}

func (s *Service) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("POST /sandbox/emis/session", s.handleEMISSession)
	mux.HandleFunc("POST /sandbox/tpp/session", s.handleTPPSession)
}

func (s *Service) handleEMISSession(writer http.ResponseWriter, request *http.Request) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(http.StatusCreated)
	_, _ = writer.Write(emis.MockResponse())
}

func (s *Service) handleTPPSession(writer http.ResponseWriter, request *http.Request) {
	writer.Header().Set("Content-Type", "application/xml")
	writer.WriteHeader(http.StatusCreated)
	_, _ = writer.Write(tpp.MockResponse())
}

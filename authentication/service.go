// Package authentication exposes the public POST /authenticate endpoint: it
// validates the inbound request, resolves the patient and proxy identities
// from the composite token, and forwards the request to the destination
// supplier via the router.
package authentication

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/NHSDigital/im1-pfs-auth/forward"
	"github.com/NHSDigital/im1-pfs-auth/identity"
	"github.com/NHSDigital/im1-pfs-auth/lib/logging"
	libotel "github.com/NHSDigital/im1-pfs-auth/lib/otel"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/NHSDigital/im1-pfs-auth/authentication")

// Inbound request metadata headers. The upstream API gateway strips the raw
// Authorization header and passes the verified identity token in X-ID-Token.
const (
	headerApplicationID = "X-Application-ID"
	headerForwardTo     = "X-Forward-To"
	headerODSCode       = "X-ODS-Code"
	headerUseMock       = "X-Use-Mock"
	headerIDToken       = "X-ID-Token"
)

// Forwarder routes a validated request to its supplier client.
type Forwarder interface {
	RouteAndForward(ctx context.Context, req forward.Request) (*forward.Response, error)
}

type Service struct {
	forwarder Forwarder
}

func New(forwarder Forwarder) *Service {
	return &Service{forwarder: forwarder}
}

func (s *Service) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("POST /authenticate",
		libotel.HandlerWithTracing(tracer, "POST /authenticate", s.handleAuthenticate))
}

func (s *Service) handleAuthenticate(writer http.ResponseWriter, request *http.Request) {
	response, err := s.authenticate(request)
	if err != nil {
		writeError(request.Context(), writer, err)
		return
	}
	writeJSON(writer, http.StatusCreated, response)
}

func (s *Service) authenticate(request *http.Request) (*forward.Response, error) {
	ctx := request.Context()

	patientNHSNumber, proxyNHSNumber, err := identity.GetNHSNumbersFromToken(request.Header.Get(headerIDToken))
	if err != nil {
		return nil, err
	}

	forwardRequest, err := forward.NewRequest(
		request.Header.Get(headerApplicationID),
		request.Header.Get(headerForwardTo),
		request.Header.Get(headerODSCode),
		patientNHSNumber,
		proxyNHSNumber,
		strings.EqualFold(request.Header.Get(headerUseMock), "true"),
	)
	if err != nil {
		return nil, err
	}

	ctx = logging.AppendCtx(ctx, slog.String(logging.FieldForwardTo, forwardRequest.ForwardTo))
	return s.forwarder.RouteAndForward(ctx, forwardRequest)
}

// writeError serializes a failure. Domain errors expose only their kind's
// fixed public message; anything else becomes an opaque 500. Internal detail
// goes to the log, never to the caller.
func writeError(ctx context.Context, writer http.ResponseWriter, err error) {
	if domainErr, ok := forward.AsError(err); ok {
		slog.WarnContext(ctx, "Authentication request failed",
			slog.Int(logging.FieldStatus, domainErr.Kind.StatusCode()),
			slog.String(logging.FieldError, domainErr.Error()))
		writeJSON(writer, domainErr.Kind.StatusCode(), map[string]string{"message": domainErr.Kind.PublicMessage()})
		return
	}
	slog.ErrorContext(ctx, "Authentication request failed with unexpected error",
		slog.String(logging.FieldError, err.Error()))
	writeJSON(writer, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func writeJSON(writer http.ResponseWriter, status int, body any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(body)
}

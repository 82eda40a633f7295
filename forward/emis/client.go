// Package emis forwards session-create requests to the EMIS patient-facing
// services API and normalizes its JSON responses.
package emis

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/NHSDigital/im1-pfs-auth/forward"
	"github.com/NHSDigital/im1-pfs-auth/lib/debug"
	"github.com/NHSDigital/im1-pfs-auth/lib/logging"
	libotel "github.com/NHSDigital/im1-pfs-auth/lib/otel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/NHSDigital/im1-pfs-auth/forward/emis")

const (
	supplierName = "EMIS"

	headerApplicationID = "X-API-ApplicationId"
	headerAPIVersion    = "X-API-Version"
	apiVersion          = "1"

	identifierTypeNHSNumber = "NhsNumber"

	requestTimeout = 30 * time.Second
)

//go:embed data/mocked_response.json
var mockedSessionReply []byte

// MockResponse returns the canned session-create response body used in mock
// mode, as EMIS would put it on the wire.
func MockResponse() []byte {
	return bytes.Clone(mockedSessionReply)
}

// Client is the forward.Client implementation for EMIS.
type Client struct {
	httpClient *http.Client
}

// New builds an EMIS client. Passing a nil httpClient uses a default client
// with the standard supplier call timeout.
func New(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	return &Client{httpClient: httpClient}
}

func (c *Client) Supplier() string {
	return supplierName
}

// CreateSession forwards the request to EMIS and transforms the reply.
func (c *Client) CreateSession(ctx context.Context, req forward.Request) (*forward.Response, error) {
	reply, err := c.Forward(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.Transform(reply)
}

// RequestBody builds the outbound session-create body for the given request.
func (c *Client) RequestBody(req forward.Request) SessionRequest {
	return SessionRequest{
		PatientIdentifier: Identifier{
			IdentifierValue: req.PatientNHSNumber,
			IdentifierType:  identifierTypeNHSNumber,
		},
		PatientNationalPracticeCode: req.PatientODSCode,
		UserIdentifier: Identifier{
			IdentifierValue: req.ProxyNHSNumber,
			IdentifierType:  identifierTypeNHSNumber,
		},
	}
}

// RequestHeaders builds the outbound headers for the given request.
func (c *Client) RequestHeaders(req forward.Request) http.Header {
	headers := http.Header{}
	headers.Set(headerApplicationID, req.ApplicationID)
	headers.Set(headerAPIVersion, apiVersion)
	return headers
}

// Forward performs the session-create call, or returns the embedded fixture in
// mock mode. Non-201 statuses are mapped onto the error taxonomy, carrying the
// supplier's message as internal detail.
func (c *Client) Forward(ctx context.Context, req forward.Request) (*SessionReply, error) {
	ctx, span := tracer.Start(ctx, debug.GetFullCallerName(), trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	if req.UseMock {
		slog.InfoContext(ctx, "Mock mode enabled, returning canned EMIS response",
			slog.String(logging.FieldSupplier, supplierName))
		return c.mockReply()
	}

	body, err := json.Marshal(c.RequestBody(req))
	if err != nil {
		return nil, libotel.Error(span, fmt.Errorf("marshal EMIS session request: %w", err))
	}
	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, req.ForwardTo, bytes.NewReader(body))
	if err != nil {
		return nil, libotel.Error(span, fmt.Errorf("create EMIS session request: %w", err))
	}
	httpRequest.Header = c.RequestHeaders(req)
	httpRequest.Header.Set("Content-Type", "application/json")

	httpResponse, err := c.httpClient.Do(httpRequest)
	if err != nil {
		return nil, libotel.Error(span, fmt.Errorf("call EMIS at %s: %w", req.ForwardTo, err))
	}
	defer httpResponse.Body.Close()
	responseBody, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return nil, libotel.Error(span, fmt.Errorf("read EMIS response: %w", err))
	}

	switch httpResponse.StatusCode {
	case http.StatusCreated:
		var reply SessionReply
		if err := json.Unmarshal(responseBody, &reply); err != nil {
			return nil, libotel.Error(span, fmt.Errorf("decode EMIS session reply: %w", err))
		}
		return &reply, nil
	case http.StatusBadRequest:
		return nil, libotel.Error(span, forward.InvalidValue(errorMessage(responseBody)))
	case http.StatusUnauthorized:
		return nil, libotel.Error(span, forward.Forbidden(errorMessage(responseBody)))
	case http.StatusNotFound:
		return nil, libotel.Error(span, forward.NotFound(errorMessage(responseBody)))
	default:
		return nil, libotel.Error(span, forward.Downstream("",
			fmt.Errorf("unexpected EMIS response status %d", httpResponse.StatusCode)))
	}
}

func (c *Client) mockReply() (*SessionReply, error) {
	var reply SessionReply
	if err := json.Unmarshal(mockedSessionReply, &reply); err != nil {
		return nil, fmt.Errorf("decode embedded EMIS fixture: %w", err)
	}
	return &reply, nil
}

// errorMessage extracts the supplier's message field from an error body.
func errorMessage(body []byte) string {
	var reply errorReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return ""
	}
	return reply.Message
}

// Package tpp forwards session-create requests to TPP's SystmOnline gateway
// and normalizes its XML responses.
package tpp

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
	"github.com/beevik/etree"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/NHSDigital/im1-pfs-auth/forward/tpp")

const (
	supplierName = "TPP"

	headerRequestType = "type"
	requestTypeCreate = "CreateSession"

	apiVersion         = "1"
	applicationName    = "NhsApp"
	applicationVersion = "1.0"
	deviceType         = "NhsApp"

	identifierTypeNHSNumber = "NhsNumber"

	requestTimeout = 30 * time.Second
)

// newRequestID generates the per-call request identifier; indirected so tests
// can pin it.
var newRequestID = uuid.NewString

//go:embed data/mocked_response.xml
var mockedSessionReply []byte

// MockResponse returns the canned session-create response document used in
// mock mode, as TPP would put it on the wire.
func MockResponse() []byte {
	return bytes.Clone(mockedSessionReply)
}

// Client is the forward.Client implementation for TPP.
type Client struct {
	httpClient *http.Client
}

// New builds a TPP client. Passing a nil httpClient uses a default client with
// the standard supplier call timeout.
func New(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	return &Client{httpClient: httpClient}
}

func (c *Client) Supplier() string {
	return supplierName
}

// CreateSession forwards the request to TPP and transforms the reply.
func (c *Client) CreateSession(ctx context.Context, req forward.Request) (*forward.Response, error) {
	reply, err := c.Forward(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.Transform(reply)
}

// RequestBody builds the outbound session-create body for the given request,
// including a freshly generated request identifier.
func (c *Client) RequestBody(req forward.Request) SessionRequest {
	return SessionRequest{
		APIVersion: apiVersion,
		UUID:       newRequestID(),
		User: User{
			Identifier: Identifier{Value: req.ProxyNHSNumber, Type: identifierTypeNHSNumber},
		},
		Patient: PatientUnit{
			Identifier: Identifier{Value: req.PatientNHSNumber, Type: identifierTypeNHSNumber},
			UnitID:     req.PatientODSCode,
		},
		Application: Application{
			Name:       applicationName,
			Version:    applicationVersion,
			ProviderID: req.ApplicationID,
			DeviceType: deviceType,
		},
	}
}

// RequestHeaders builds the outbound headers for the given request.
func (c *Client) RequestHeaders(req forward.Request) http.Header {
	headers := http.Header{}
	headers.Set(headerRequestType, requestTypeCreate)
	return headers
}

// Forward performs the session-create call, or returns the embedded fixture in
// mock mode. The response body is XML in both the success and error cases;
// non-201 statuses are mapped onto the error taxonomy with the supplier's
// Error/message element as internal detail.
func (c *Client) Forward(ctx context.Context, req forward.Request) (*etree.Document, error) {
	ctx, span := tracer.Start(ctx, debug.GetFullCallerName(), trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	if req.UseMock {
		slog.InfoContext(ctx, "Mock mode enabled, returning canned TPP response",
			slog.String(logging.FieldSupplier, supplierName))
		return c.mockReply()
	}

	body, err := json.Marshal(c.RequestBody(req))
	if err != nil {
		return nil, libotel.Error(span, fmt.Errorf("marshal TPP session request: %w", err))
	}
	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, req.ForwardTo, bytes.NewReader(body))
	if err != nil {
		return nil, libotel.Error(span, fmt.Errorf("create TPP session request: %w", err))
	}
	httpRequest.Header = c.RequestHeaders(req)
	httpRequest.Header.Set("Content-Type", "application/json")

	httpResponse, err := c.httpClient.Do(httpRequest)
	if err != nil {
		return nil, libotel.Error(span, fmt.Errorf("call TPP at %s: %w", req.ForwardTo, err))
	}
	defer httpResponse.Body.Close()
	responseBody, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return nil, libotel.Error(span, fmt.Errorf("read TPP response: %w", err))
	}

	switch httpResponse.StatusCode {
	case http.StatusCreated:
		doc := etree.NewDocument()
		if err := doc.ReadFromBytes(responseBody); err != nil {
			return nil, libotel.Error(span, fmt.Errorf("parse TPP session reply XML: %w", err))
		}
		return doc, nil
	case http.StatusBadRequest:
		return nil, libotel.Error(span, forward.InvalidValue(errorMessage(responseBody)))
	case http.StatusUnauthorized:
		return nil, libotel.Error(span, forward.Forbidden(errorMessage(responseBody)))
	case http.StatusNotFound:
		return nil, libotel.Error(span, forward.NotFound(errorMessage(responseBody)))
	default:
		return nil, libotel.Error(span, forward.Downstream("",
			fmt.Errorf("unexpected TPP response status %d", httpResponse.StatusCode)))
	}
}

func (c *Client) mockReply() (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(mockedSessionReply); err != nil {
		return nil, fmt.Errorf("parse embedded TPP fixture: %w", err)
	}
	return doc, nil
}

// errorMessage extracts the message from a TPP <Error> document.
func errorMessage(body []byte) string {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return ""
	}
	message := doc.FindElement("/Error/message")
	if message == nil {
		return ""
	}
	return message.Text()
}

package authentication

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NHSDigital/im1-pfs-auth/forward"
	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubForwarder struct {
	response *forward.Response
	err      error
	received forward.Request
}

func (s *stubForwarder) RouteAndForward(_ context.Context, req forward.Request) (*forward.Response, error) {
	s.received = req
	return s.response, s.err
}

var signingKey = func() *rsa.PrivateKey {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(err)
	}
	return key
}()

func validToken(t *testing.T) string {
	t.Helper()
	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.RS512, Key: signingKey}, nil)
	require.NoError(t, err)
	inner, err := jwt.Signed(signer).Claims(map[string]any{
		"identity_proofing_level": "P9",
		"vot":                     "P9.Cp.Cd",
		"nhs_number":              "9730676445",
	}).Serialize()
	require.NoError(t, err)
	outer, err := jwt.Signed(signer).Claims(map[string]any{
		"nhs_number": "9730675988",
		"act":        map[string]any{"sub": inner},
	}).Serialize()
	require.NoError(t, err)
	return outer
}

func newAuthenticateRequest(t *testing.T) *http.Request {
	request := httptest.NewRequest(http.MethodPost, "/authenticate", nil)
	request.Header.Set("X-Application-ID", "app-1")
	request.Header.Set("X-Forward-To", "https://emis.com")
	request.Header.Set("X-ODS-Code", "A12345")
	request.Header.Set("X-ID-Token", validToken(t))
	return request
}

func serve(forwarder Forwarder, request *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	New(forwarder).RegisterHandlers(mux)
	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, request)
	return recorder
}

func TestService_Authenticate(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		forwarder := &stubForwarder{response: &forward.Response{
			SessionID: "session-1",
			Supplier:  "EMIS",
			Proxy:     forward.Demographics{FirstName: "Alex", Surname: "Taylor"},
			Patients:  []forward.Patient{{Demographics: forward.Demographics{FirstName: "Jane"}}},
		}}

		recorder := serve(forwarder, newAuthenticateRequest(t))

		assert.Equal(t, http.StatusCreated, recorder.Code)
		assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
		var response forward.Response
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "session-1", response.SessionID)
		assert.Equal(t, "EMIS", response.Supplier)

		// Identity comes from the token, the rest from the headers.
		assert.Equal(t, forward.Request{
			ApplicationID:    "app-1",
			ForwardTo:        "https://emis.com",
			PatientNHSNumber: "9730675988",
			PatientODSCode:   "A12345",
			ProxyNHSNumber:   "9730676445",
		}, forwarder.received)
	})
	t.Run("mock header is case-insensitive", func(t *testing.T) {
		forwarder := &stubForwarder{response: &forward.Response{SessionID: "session-1"}}
		request := newAuthenticateRequest(t)
		request.Header.Set("X-Use-Mock", "True")

		serve(forwarder, request)

		assert.True(t, forwarder.received.UseMock)
	})
	t.Run("invalid token", func(t *testing.T) {
		request := newAuthenticateRequest(t)
		request.Header.Set("X-ID-Token", "garbage")

		recorder := serve(&stubForwarder{}, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.JSONEq(t, `{"message": "Missing or invalid OAuth 2.0 bearer token in request."}`, recorder.Body.String())
	})
	t.Run("missing required header", func(t *testing.T) {
		request := newAuthenticateRequest(t)
		request.Header.Del("X-ODS-Code")

		recorder := serve(&stubForwarder{}, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.JSONEq(t, `{"message": "The request was unsuccessful due to missing required value."}`, recorder.Body.String())
	})
	t.Run("non-https destination", func(t *testing.T) {
		request := newAuthenticateRequest(t)
		request.Header.Set("X-Forward-To", "http://emis.com")

		recorder := serve(&stubForwarder{}, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.JSONEq(t, `{"message": "The request was unsuccessful due to invalid value."}`, recorder.Body.String())
	})
	t.Run("forwarder taxonomy errors keep their fixed public message", func(t *testing.T) {
		for name, tt := range map[string]struct {
			err     error
			status  int
			message string
		}{
			"forbidden": {
				err:     forward.Forbidden("supplier detail"),
				status:  http.StatusUnauthorized,
				message: "User does not have access to online services.",
			},
			"not found": {
				err:     forward.NotFound("supplier detail"),
				status:  http.StatusNotFound,
				message: "User does not have an online account.",
			},
			"downstream": {
				err:     forward.Downstream("supplier detail", errors.New("boom")),
				status:  http.StatusBadGateway,
				message: "Downstream Service Error.",
			},
		} {
			t.Run(name, func(t *testing.T) {
				recorder := serve(&stubForwarder{err: tt.err}, newAuthenticateRequest(t))

				assert.Equal(t, tt.status, recorder.Code)
				var body map[string]string
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
				assert.Equal(t, tt.message, body["message"])
				// The internal detail never reaches the caller.
				assert.NotContains(t, recorder.Body.String(), "supplier detail")
			})
		}
	})
	t.Run("unexpected errors are an opaque 500", func(t *testing.T) {
		recorder := serve(&stubForwarder{err: errors.New("secret internals")}, newAuthenticateRequest(t))

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.JSONEq(t, `{"error": "internal server error"}`, recorder.Body.String())
		assert.NotContains(t, recorder.Body.String(), "secret internals")
	})
	t.Run("only POST is routed", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/authenticate", nil)

		recorder := serve(&stubForwarder{}, request)

		assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
	})
}

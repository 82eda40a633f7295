package forward

import "strings"

// Request is the canonical, validated representation of one forwarding attempt.
// It is only obtainable through NewRequest and never mutated afterwards.
type Request struct {
	ApplicationID    string
	ForwardTo        string
	PatientNHSNumber string
	PatientODSCode   string
	ProxyNHSNumber   string
	// UseMock short-circuits the supplier call with the client's canned fixture.
	UseMock bool
}

// NewRequest validates the inbound request metadata and builds a Request.
// The validation stages run in a fixed order, each failing with its own error
// kind: required-field presence (MissingValue), NHS number shape (AccessDenied),
// destination URL scheme (InvalidValue).
func NewRequest(applicationID, forwardTo, patientODSCode, patientNHSNumber, proxyNHSNumber string, useMock bool) (Request, error) {
	for _, required := range []string{applicationID, patientODSCode, forwardTo} {
		if required == "" {
			return Request{}, MissingValue("Missing required value")
		}
	}
	for _, nhsNumber := range []string{patientNHSNumber, proxyNHSNumber} {
		if !isNHSNumber(nhsNumber) {
			return Request{}, AccessDenied("Failed to retrieve NHS Number")
		}
	}
	if !strings.HasPrefix(forwardTo, "https:") {
		return Request{}, InvalidValue("Invalid url")
	}
	return Request{
		ApplicationID:    applicationID,
		ForwardTo:        forwardTo,
		PatientNHSNumber: patientNHSNumber,
		PatientODSCode:   patientODSCode,
		ProxyNHSNumber:   proxyNHSNumber,
		UseMock:          useMock,
	}, nil
}

// isNHSNumber reports whether value is exactly 10 numeric characters.
func isNHSNumber(value string) bool {
	if len(value) != 10 {
		return false
	}
	for _, c := range value {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

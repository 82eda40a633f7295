package forward

import (
	"errors"
	"net/http"
)

// Kind identifies one member of the closed error taxonomy. Every failure the
// gateway reports to callers is one of these kinds; anything else is wrapped as
// KindDownstream before it reaches the HTTP layer.
type Kind int

const (
	// KindAccessDenied covers missing/invalid identity tokens and NHS number failures.
	KindAccessDenied Kind = iota + 1
	// KindForbidden covers users without access to online services at the supplier.
	KindForbidden
	// KindNotFound covers users without an online account at the supplier.
	KindNotFound
	// KindDownstream covers supplier transport failures and any unrecognized error.
	KindDownstream
	// KindInvalidValue covers request values that are present but malformed.
	KindInvalidValue
	// KindMissingValue covers required request values that are absent.
	KindMissingValue
)

// StatusCode returns the fixed HTTP status for the kind.
func (k Kind) StatusCode() int {
	switch k {
	case KindAccessDenied, KindForbidden:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidValue, KindMissingValue:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// PublicMessage returns the fixed message serialized to callers for the kind.
// Site-specific detail never reaches the caller; it stays in Error.Detail for logs.
func (k Kind) PublicMessage() string {
	switch k {
	case KindAccessDenied:
		return "Missing or invalid OAuth 2.0 bearer token in request."
	case KindForbidden:
		return "User does not have access to online services."
	case KindNotFound:
		return "User does not have an online account."
	case KindInvalidValue:
		return "The request was unsuccessful due to invalid value."
	case KindMissingValue:
		return "The request was unsuccessful due to missing required value."
	default:
		return "Downstream Service Error."
	}
}

// Error is a domain failure carrying its taxonomy kind, an internal detail
// message and an optional underlying cause. Detail and cause are diagnostics
// only: the HTTP layer serializes Kind.PublicMessage() exclusively.
type Error struct {
	Kind   Kind
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Kind.PublicMessage()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// AsError returns the taxonomy error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

// AccessDenied constructs a KindAccessDenied error with the given internal detail.
func AccessDenied(detail string) error {
	return &Error{Kind: KindAccessDenied, Detail: detail}
}

// Forbidden constructs a KindForbidden error with the given internal detail.
func Forbidden(detail string) error {
	return &Error{Kind: KindForbidden, Detail: detail}
}

// NotFound constructs a KindNotFound error with the given internal detail.
func NotFound(detail string) error {
	return &Error{Kind: KindNotFound, Detail: detail}
}

// InvalidValue constructs a KindInvalidValue error with the given internal detail.
func InvalidValue(detail string) error {
	return &Error{Kind: KindInvalidValue, Detail: detail}
}

// MissingValue constructs a KindMissingValue error with the given internal detail.
func MissingValue(detail string) error {
	return &Error{Kind: KindMissingValue, Detail: detail}
}

// Downstream constructs a KindDownstream error, keeping cause for diagnostics.
func Downstream(detail string, cause error) error {
	return &Error{Kind: KindDownstream, Detail: detail, Cause: cause}
}

package contract

import (
	"fmt"
	"net/http"
)

// NetworkFailureMessage is reported when no response was received.
const NetworkFailureMessage = "network connection failed, check that the backend service is running"

// TransportError means the request never produced a response (refused, timed out, DNS).
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string { return NetworkFailureMessage }

func (e *TransportError) Unwrap() error { return e.Err }

// ClientError is a 4xx response.
type ClientError struct {
	Status int
	Detail string
}

func (e *ClientError) Error() string { return StatusMessage(e.Status, e.Detail) }

// ServerError is a 5xx response.
type ServerError struct {
	Status int
	Detail string
}

func (e *ServerError) Error() string { return StatusMessage(e.Status, e.Detail) }

// NewStatusError classifies a non-2xx status into the error taxonomy.
func NewStatusError(status int, detail string) error {
	if status >= http.StatusInternalServerError {
		return &ServerError{Status: status, Detail: detail}
	}
	return &ClientError{Status: status, Detail: detail}
}

// StatusMessage maps an HTTP status to the message shown to the user.
// The backend detail is used only where it is more specific than the generic text.
func StatusMessage(status int, detail string) string {
	switch status {
	case http.StatusBadRequest:
		return orDefault(detail, "bad request parameters")
	case http.StatusUnauthorized:
		return "unauthorized, please log in again"
	case http.StatusForbidden:
		return "access forbidden"
	case http.StatusNotFound:
		return "requested resource not found"
	case http.StatusInternalServerError:
		return orDefault(detail, "internal server error, please retry later")
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return "service temporarily unavailable, please retry later"
	default:
		return orDefault(detail, fmt.Sprintf("request failed (%d)", status))
	}
}

// AdaptationError reports a wire record that is missing or has a malformed required field.
type AdaptationError struct {
	Kind   string // milestone, trend, heatmap, ...
	Field  string
	Reason string
}

func (e *AdaptationError) Error() string {
	return fmt.Sprintf("malformed %s record: field %q %s", e.Kind, e.Field, e.Reason)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

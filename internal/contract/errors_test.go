package contract

import (
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMessage(t *testing.T) {
	tests := []struct {
		status int
		detail string
		want   string
	}{
		{400, "", "bad request parameters"},
		{400, "days must be positive", "days must be positive"},
		{401, "token expired", "unauthorized, please log in again"},
		{403, "", "access forbidden"},
		{404, "no such user", "requested resource not found"},
		{500, "", "internal server error, please retry later"},
		{500, "db down", "db down"},
		{502, "", "service temporarily unavailable, please retry later"},
		{503, "maintenance", "service temporarily unavailable, please retry later"},
		{504, "", "service temporarily unavailable, please retry later"},
		{418, "", "request failed (418)"},
		{422, "bad field", "bad field"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_%s", tt.status, tt.detail), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusMessage(tt.status, tt.detail))
		})
	}
}

func TestNewStatusError(t *testing.T) {
	var clientErr *ClientError
	var serverErr *ServerError

	err := NewStatusError(404, "")
	assert.True(t, errors.As(err, &clientErr))
	assert.Equal(t, 404, clientErr.Status)
	assert.False(t, errors.As(err, &serverErr))

	err = NewStatusError(503, "")
	assert.True(t, errors.As(err, &serverErr))
	assert.Equal(t, "service temporarily unavailable, please retry later", err.Error())
}

func TestTransportError(t *testing.T) {
	cause := &net.OpError{Op: "dial", Err: errors.New("connection refused")}
	err := fmt.Errorf("fetch stats: %w", &TransportError{Method: "GET", Path: "/x", Err: cause})

	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
	assert.Equal(t, NetworkFailureMessage, transportErr.Error())

	var opErr *net.OpError
	assert.True(t, errors.As(err, &opErr))
}

func TestAdaptationError(t *testing.T) {
	err := &AdaptationError{Kind: "trend", Field: "date", Reason: "is required"}
	assert.Equal(t, `malformed trend record: field "date" is required`, err.Error())
}

package chat

import (
	"errors"
	"fmt"
)

// FailureClass buckets model-API failures for user-facing replies.
type FailureClass string

const (
	FailureConnectivity   FailureClass = "connectivity"
	FailureAuthentication FailureClass = "authentication"
	FailureMalformedInput FailureClass = "malformed_input"
)

// RequestError wraps an upstream failure with its class so the
// orchestrator can pick a friendly reply. Raw errors never reach the
// resident.
type RequestError struct {
	Class FailureClass
	Err   error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("chat: %s failure: %v", e.Class, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ErrExchangeInFlight rejects a send while the session is still
// waiting on the previous reply.
var ErrExchangeInFlight = errors.New("chat: an exchange is already in flight for this session")

// ErrEmptyMessage rejects a blank question.
var ErrEmptyMessage = errors.New("chat: message must not be blank")

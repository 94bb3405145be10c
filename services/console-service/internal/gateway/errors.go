package gateway

import (
	"errors"
	"fmt"
)

// Kind classifies a failed gateway call.
type Kind int

const (
	// KindTransport covers network and timeout failures before any response.
	KindTransport Kind = iota + 1
	// KindServer covers non-success responses from the booking API.
	KindServer
	// KindUnexpected covers everything else, e.g. a malformed response body.
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindServer:
		return "server"
	default:
		return "unexpected"
	}
}

type Error struct {
	Kind       Kind
	StatusCode int
	Message    string // server-supplied, may be empty
	cause      error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("booking api: %s error: %s", e.Kind, e.Message)
	case e.cause != nil:
		return fmt.Sprintf("booking api: %s error: %v", e.Kind, e.cause)
	default:
		return fmt.Sprintf("booking api: %s error (status %d)", e.Kind, e.StatusCode)
	}
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Wrap classifies an underlying error, keeping it available via Unwrap.
func Wrap(kind Kind, cause error) *Error {
	return &Error{Kind: kind, cause: cause}
}

// UserMessage resolves err to something fit for an operator-facing banner.
// The fallback order is fixed: server-supplied message, then the transport
// error text, then the generic default.
func UserMessage(err error, generic string) string {
	var ge *Error
	if errors.As(err, &ge) {
		if ge.Message != "" {
			return ge.Message
		}
		if ge.cause != nil {
			return ge.cause.Error()
		}
	}
	return generic
}

package tws

import (
	"strconv"

	"github.com/pkg/errors"
)

var (
	// ErrDuplicateRequest is returned when a request with the same key is already pending.
	ErrDuplicateRequest = errors.New("duplicate request")
	// ErrTimeout is returned by Wait when the caller's deadline passes before the reply.
	ErrTimeout = errors.New("request timeout")
	// ErrConnectionLost marks a gateway that closed the connection or a broken socket.
	ErrConnectionLost = errors.New("connection lost")
	// ErrNotConnected is returned when a request cannot be sent.
	ErrNotConnected = errors.New("not connected")
	// ErrUnexpectedReply is returned when a request is settled with a reply of another kind.
	ErrUnexpectedReply = errors.New("unexpected reply")
	// ErrNoContract is returned by position lookups with a zero contract id.
	ErrNoContract = errors.New("contract id is not set")
)

// TerminalError is a request level error reported by the gateway.
type TerminalError struct {
	Code    int
	Message string
}

func (e *TerminalError) Error() string {
	return "terminal error " + strconv.Itoa(e.Code) + ": " + e.Message
}

// ConnectionFault is a gateway error that makes the session unusable.
type ConnectionFault struct {
	Code    int
	Message string
}

func (e *ConnectionFault) Error() string {
	return "connection fault " + strconv.Itoa(e.Code) + ": " + e.Message
}

// IsTerminalError reports whether err carries a gateway error with the given code.
func IsTerminalError(err error, code int) bool {
	var terminal *TerminalError
	if errors.As(err, &terminal) {
		return terminal.Code == code
	}
	return false
}

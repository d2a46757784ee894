package tws

import "context"

// Transport carries one socket session with the gateway: it encodes requests
// and decodes inbound frames into the message types of this package.
type Transport interface {

	// Send writes one request to the socket
	Send(req Request) error

	// Signal is notified when decoded messages are ready to be read
	Signal() <-chan struct{}

	// Next pops the next decoded message, false when the queue is empty
	Next() (interface{}, bool)

	// IsConnected inform about socket status
	IsConnected() bool

	Disconnect() error
}

// Dialer opens a new Transport. A fresh transport is dialed for every
// connection attempt.
type Dialer interface {
	Dial(ctx context.Context, host string, port int, clientID int) (Transport, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context, host string, port int, clientID int) (Transport, error)

func (f DialerFunc) Dial(ctx context.Context, host string, port int, clientID int) (Transport, error) {
	return f(ctx, host, port, clientID)
}

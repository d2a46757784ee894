package tws

import (
	"errors"
	"strconv"
)

// ConnectionState is the lifecycle state of the gateway session.
type ConnectionState uint32

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateConnectionLost
	StateDisconnecting

	stateDisconnectedStr   = "DISCONNECTED"
	stateConnectingStr     = "CONNECTING"
	stateConnectedStr      = "CONNECTED"
	stateConnectionLostStr = "CONNECTION_LOST"
	stateDisconnectingStr  = "DISCONNECTING"
)

func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return stateDisconnectedStr
	case StateConnecting:
		return stateConnectingStr
	case StateConnected:
		return stateConnectedStr
	case StateConnectionLost:
		return stateConnectionLostStr
	case StateDisconnecting:
		return stateDisconnectingStr
	}
	return "UNKNOWN_" + strconv.Itoa(int(s))
}

func (s ConnectionState) MarshalJSON() ([]byte, error) {
	switch s {
	case StateDisconnected, StateConnecting, StateConnected, StateConnectionLost, StateDisconnecting:
		return []byte(`"` + s.String() + `"`), nil
	}
	return nil, errors.New("invalid connection state json conversion: " + strconv.Itoa(int(s)))
}

// stopping reports whether the session is being or has been shut down on request.
func (s ConnectionState) stopping() bool {
	return s == StateDisconnecting || s == StateDisconnected
}

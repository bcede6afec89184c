package mqtt

// State describes the connection lifecycle of a Publisher or Subscriber.
//
// Transitions are driven by paho's connect/connection-lost callbacks and
// by Disable(). StateDisabled is terminal: once a client is disabled no
// callback may move it back to any other state.
type State int32

const (
	// StateDisconnected means there is currently no broker session.
	// The underlying library keeps reconnecting in the background.
	StateDisconnected State = iota

	// StateConnecting means a connection attempt is in flight.
	StateConnecting

	// StateConnected means the broker has acknowledged the connection.
	StateConnected

	// StateDisabled means Disable() was called. Terminal.
	StateDisabled
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

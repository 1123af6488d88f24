package ws

import "sync/atomic"

// ConnState represents the current connection state of a websocket.
type ConnState int32

// Connection states. A client moves forward through them and never returns to an earlier one.
const (
	// StateDisconnected indicates Connect has not been called.
	StateDisconnected ConnState = iota
	// StateConnecting indicates the handshake is in progress.
	StateConnecting
	// StateConnected indicates the read loop is running.
	StateConnected
	// StateClosed indicates the session ended, by Close or by the peer.
	StateClosed
)

// String returns the string representation of the connection state.
func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// State provides thread-safe atomic access to a ConnState value.
type State struct {
	state atomic.Int32
}

// Load returns the current connection state.
func (s *State) Load() ConnState {
	return ConnState(s.state.Load())
}

// Store sets the connection state to the given value.
func (s *State) Store(state ConnState) {
	s.state.Store(int32(state))
}

// CompareAndSwap atomically compares the current state with old and swaps to new if equal.
// It returns true if the swap was performed.
func (s *State) CompareAndSwap(old, new ConnState) bool {
	return s.state.CompareAndSwap(int32(old), int32(new))
}

package stream

// State is the lifecycle position of a Stream.
type State int32

const (
	// Ready accepts writes and reads.
	Ready State = iota

	// RequestForClose rejects new writes but still drains buffered data and
	// pending asynchronous writes.
	RequestForClose

	// Closed is terminal: everything written has been read.
	Closed

	// Errored is terminal: a fault stopped the stream.
	Errored
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case RequestForClose:
		return "request_for_close"
	case Closed:
		return "closed"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == Closed || s == Errored
}

package sse

// Event names written by Serve and the relay.
const (
	// EventTypeConnected is the first event of every stream.
	EventTypeConnected = "connected"

	// EventTypeMessage carries a channel value.
	EventTypeMessage = "message"

	// EventTypeError carries a stream error.
	EventTypeError = "error"

	// EventTypeComplete tells the client the channel completed and the
	// stream is about to end.
	EventTypeComplete = "complete"
)

// Event is one server-sent event. Empty ID and Name are omitted on the wire.
type Event struct {
	ID   string
	Name string
	Data []byte
}

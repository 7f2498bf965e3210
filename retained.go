package libnioev

// RetainedMessage is the last message published with the retain flag
// set on a given topic.
type RetainedMessage struct {
	Topic   string
	Payload []byte
	QoS     byte
	Props   Properties
}

// RetainedStore holds at most one RetainedMessage per topic. No
// implementation ships here — that is storage-layer scope.
type RetainedStore interface {
	// Set stores or updates the retained message for msg.Topic. A
	// zero-length payload deletes it, per MQTT's retain semantics.
	Set(msg *RetainedMessage) error

	Get(topic string) (*RetainedMessage, bool)
	Delete(topic string) bool

	// Match returns every retained message whose topic matches filter,
	// for replay to a newly-subscribing client.
	Match(filter string) []*RetainedMessage
}

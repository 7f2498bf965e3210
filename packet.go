package libnioev

// Packet is implemented by every MQTT control packet the codec knows
// how to encode and decode.
type Packet interface {
	Type() PacketType

	// Encode appends the packet's variable header and payload to buf
	// and backpatches the fixed header via buf.InsertRemainingLength.
	Encode(buf *Buffer) error

	// Decode reads the packet body from r. The fixed header has
	// already been consumed by the caller.
	Decode(r *Reader, header FixedHeader) error

	Validate() error
}

// PacketWithID is implemented by packets carrying a packet identifier.
type PacketWithID interface {
	Packet
	GetPacketID() uint16
	SetPacketID(id uint16)
}

// PacketWithProperties is implemented by packets carrying an MQTT 5.0
// property list.
type PacketWithProperties interface {
	Packet
	Properties() *Properties
}

// Message is the application-level payload a PUBLISH packet carries,
// decoupled from the wire packet so callers above the codec (a
// subscription match, a retained-message store) never need to hold a
// Buffer handle just to read a topic and a payload.
type Message struct {
	Topic                   string
	Payload                 []byte
	QoS                     byte
	Retain                  bool
	PayloadFormat           byte
	MessageExpiry           uint32
	ContentType             string
	ResponseTopic           string
	CorrelationData         []byte
	UserProperties          []StringPair
	SubscriptionIdentifiers []uint32
}

// Clone deep-copies every field that a later mutation of the original
// (e.g. stamping per-subscriber SubscriptionIdentifiers) would
// otherwise alias.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	clone := &Message{
		Topic:         m.Topic,
		QoS:           m.QoS,
		Retain:        m.Retain,
		PayloadFormat: m.PayloadFormat,
		MessageExpiry: m.MessageExpiry,
		ContentType:   m.ContentType,
		ResponseTopic: m.ResponseTopic,
	}
	if m.Payload != nil {
		clone.Payload = append([]byte(nil), m.Payload...)
	}
	if m.CorrelationData != nil {
		clone.CorrelationData = append([]byte(nil), m.CorrelationData...)
	}
	if m.UserProperties != nil {
		clone.UserProperties = append([]StringPair(nil), m.UserProperties...)
	}
	if m.SubscriptionIdentifiers != nil {
		clone.SubscriptionIdentifiers = append([]uint32(nil), m.SubscriptionIdentifiers...)
	}
	return clone
}

// ToProperties renders the message's metadata fields as an MQTT 5.0
// property list, for embedding into a PUBLISH packet.
func (m *Message) ToProperties() Properties {
	var p Properties
	if m.PayloadFormat != 0 {
		p.Set(PropPayloadFormatIndicator, m.PayloadFormat)
	}
	if m.MessageExpiry != 0 {
		p.Set(PropMessageExpiryInterval, m.MessageExpiry)
	}
	if m.ContentType != "" {
		p.Set(PropContentType, m.ContentType)
	}
	if m.ResponseTopic != "" {
		p.Set(PropResponseTopic, m.ResponseTopic)
	}
	if len(m.CorrelationData) > 0 {
		p.Set(PropCorrelationData, m.CorrelationData)
	}
	for _, up := range m.UserProperties {
		p.Add(PropUserProperty, up)
	}
	return p
}

// FromProperties populates the message's metadata fields from a
// decoded PUBLISH packet's property list.
func (m *Message) FromProperties(p *Properties) {
	if p == nil {
		return
	}
	m.PayloadFormat = p.GetByte(PropPayloadFormatIndicator)
	m.MessageExpiry = p.GetUint32(PropMessageExpiryInterval)
	m.ContentType = p.GetString(PropContentType)
	m.ResponseTopic = p.GetString(PropResponseTopic)
	m.CorrelationData = p.GetBinary(PropCorrelationData)
	m.UserProperties = p.GetAllStringPairs(PropUserProperty)
	m.SubscriptionIdentifiers = p.GetAllVarInts(PropSubscriptionIdentifier)
}

package libnioev

import "io"

// PublishPacket carries an application message from publisher to
// broker, or broker to subscriber.
type PublishPacket struct {
	Topic    string
	Payload  []byte
	QoS      byte
	Retain   bool
	DUP      bool
	PacketID uint16
	Props    Properties
}

func (p *PublishPacket) Type() PacketType { return PacketPUBLISH }

func (p *PublishPacket) Properties() *Properties { return &p.Props }

func (p *PublishPacket) GetPacketID() uint16 { return p.PacketID }

func (p *PublishPacket) SetPacketID(id uint16) { p.PacketID = id }

func (p *PublishPacket) flags() byte {
	var flags byte
	if p.DUP {
		flags |= 0x08
	}
	flags |= (p.QoS & 0x03) << 1
	if p.Retain {
		flags |= 0x01
	}
	return flags
}

func (p *PublishPacket) setFlags(flags byte) {
	p.DUP = flags&0x08 != 0
	p.QoS = (flags >> 1) & 0x03
	p.Retain = flags&0x01 != 0
}

// Encode appends the fixed header's first byte, the PUBLISH variable
// header and payload, then backpatches the remaining-length prefix,
// avoiding a scratch-buffer-then-copy approach.
func (p *PublishPacket) Encode(buf *Buffer) error {
	if err := p.Validate(); err != nil {
		return err
	}

	buf.AppendByte(byte(PacketPUBLISH)<<4 | p.flags())

	if err := encodeString(buf, p.Topic); err != nil {
		return err
	}
	if p.QoS > 0 {
		buf.AppendByte(byte(p.PacketID >> 8))
		buf.AppendByte(byte(p.PacketID))
	}
	if err := p.Props.Encode(buf); err != nil {
		return err
	}
	buf.Append(p.Payload)

	return buf.InsertRemainingLength()
}

func (p *PublishPacket) Decode(r *Reader, header FixedHeader) error {
	p.setFlags(header.Flags)
	if p.QoS > 2 {
		return wrapf(ErrMalformedPacket, "PUBLISH QoS bits set to 3")
	}

	topic, err := decodeString(r)
	if err != nil {
		return err
	}
	p.Topic = topic

	if p.QoS > 0 {
		var idBuf [2]byte
		if _, err := io.ReadFull(r, idBuf[:]); err != nil {
			return wrapf(ErrMalformedPacket, "truncated packet identifier")
		}
		p.PacketID = uint16(idBuf[0])<<8 | uint16(idBuf[1])
	}

	if err := p.Props.Decode(r); err != nil {
		return err
	}

	if n := r.Remaining(); n > 0 {
		p.Payload = make([]byte, n)
		if _, err := io.ReadFull(r, p.Payload); err != nil {
			return wrapf(ErrMalformedPacket, "truncated payload")
		}
	} else {
		p.Payload = nil
	}

	return nil
}

func (p *PublishPacket) Validate() error {
	if p.QoS > 2 {
		return wrapf(ErrMalformedPacket, "PUBLISH QoS bits set to 3")
	}
	if p.QoS == 0 && p.DUP {
		return wrapf(ErrProtocolError, "DUP set on QoS 0 PUBLISH")
	}
	if p.QoS > 0 && p.PacketID == 0 {
		return wrapf(ErrProtocolError, "packet identifier required for QoS > 0")
	}
	if !ValidateTopicName(p.Topic) {
		return wrapf(ErrMalformedPacket, "invalid topic name")
	}
	return nil
}

// ToMessage projects the packet onto the application-level Message
// view, for delivery through the subscription tree.
func (p *PublishPacket) ToMessage() *Message {
	m := &Message{
		Topic:   p.Topic,
		Payload: p.Payload,
		QoS:     p.QoS,
		Retain:  p.Retain,
	}
	m.FromProperties(&p.Props)
	return m
}

// FromMessage populates the packet from a Message, for redelivery to
// a subscriber at its granted QoS.
func (p *PublishPacket) FromMessage(m *Message) {
	p.Topic = m.Topic
	p.Payload = m.Payload
	p.QoS = m.QoS
	p.Retain = m.Retain
	p.Props = m.ToProperties()
}

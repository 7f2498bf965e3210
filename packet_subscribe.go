package libnioev

import "io"

const maxSubscriptionIdentifier = uint32(268435455)

// Subscription is a topic filter and its subscription options, as
// carried in a SUBSCRIBE packet's payload.
type Subscription struct {
	TopicFilter     string
	QoS             byte
	NoLocal         bool
	RetainAsPublish bool
	RetainHandling  byte
	SubscriptionID  uint32
}

// SubscribePacket requests one or more subscriptions.
type SubscribePacket struct {
	PacketID      uint16
	Props         Properties
	Subscriptions []Subscription
}

func (p *SubscribePacket) Type() PacketType { return PacketSUBSCRIBE }

func (p *SubscribePacket) Properties() *Properties { return &p.Props }

func (p *SubscribePacket) GetPacketID() uint16 { return p.PacketID }

func (p *SubscribePacket) SetPacketID(id uint16) { p.PacketID = id }

func (p *SubscribePacket) Encode(buf *Buffer) error {
	if err := p.Validate(); err != nil {
		return err
	}

	buf.AppendByte(byte(PacketSUBSCRIBE)<<4 | 0x02)
	buf.AppendByte(byte(p.PacketID >> 8))
	buf.AppendByte(byte(p.PacketID))

	if err := p.Props.Encode(buf); err != nil {
		return err
	}

	for _, sub := range p.Subscriptions {
		if err := encodeString(buf, sub.TopicFilter); err != nil {
			return err
		}
		options := sub.QoS & 0x03
		if sub.NoLocal {
			options |= 0x04
		}
		if sub.RetainAsPublish {
			options |= 0x08
		}
		options |= (sub.RetainHandling & 0x03) << 4
		buf.AppendByte(options)
	}

	return buf.InsertRemainingLength()
}

func (p *SubscribePacket) Decode(r *Reader, header FixedHeader) error {
	var idBuf [2]byte
	if _, err := io.ReadFull(r, idBuf[:]); err != nil {
		return wrapf(ErrMalformedPacket, "truncated packet identifier")
	}
	p.PacketID = uint16(idBuf[0])<<8 | uint16(idBuf[1])

	if err := p.Props.Decode(r); err != nil {
		return err
	}

	var subscriptionID uint32
	if p.Props.Has(PropSubscriptionIdentifier) {
		subscriptionID = p.Props.GetUint32(PropSubscriptionIdentifier)
		if subscriptionID == 0 || subscriptionID > maxSubscriptionIdentifier {
			return wrapf(ErrProtocolError, "subscription identifier out of range")
		}
	}

	p.Subscriptions = nil
	for r.Remaining() > 0 {
		topicFilter, err := decodeString(r)
		if err != nil {
			return err
		}

		var optBuf [1]byte
		if _, err := io.ReadFull(r, optBuf[:]); err != nil {
			return wrapf(ErrMalformedPacket, "truncated subscription options")
		}
		options := optBuf[0]
		if options&0xC0 != 0 {
			return wrapf(ErrMalformedPacket, "subscription options reserved bits set")
		}

		p.Subscriptions = append(p.Subscriptions, Subscription{
			TopicFilter:     topicFilter,
			QoS:             options & 0x03,
			NoLocal:         options&0x04 != 0,
			RetainAsPublish: options&0x08 != 0,
			RetainHandling:  (options >> 4) & 0x03,
			SubscriptionID:  subscriptionID,
		})
	}

	return nil
}

func (p *SubscribePacket) Validate() error {
	if p.PacketID == 0 {
		return wrapf(ErrProtocolError, "packet identifier required")
	}
	if len(p.Subscriptions) == 0 {
		return wrapf(ErrProtocolError, "SUBSCRIBE requires at least one topic filter")
	}
	for _, sub := range p.Subscriptions {
		if sub.TopicFilter == "" || !ValidateTopicFilter(sub.TopicFilter) {
			return wrapf(ErrMalformedPacket, "invalid topic filter")
		}
		if sub.QoS > 2 {
			return wrapf(ErrMalformedPacket, "subscription QoS bits set to 3")
		}
		if sub.RetainHandling > 2 {
			return wrapf(ErrMalformedPacket, "retain handling out of range")
		}
	}
	return nil
}

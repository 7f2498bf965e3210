package libnioev

import "io"

// UnsubscribePacket requests removal of one or more subscriptions.
type UnsubscribePacket struct {
	PacketID     uint16
	Props        Properties
	TopicFilters []string
}

func (p *UnsubscribePacket) Type() PacketType { return PacketUNSUBSCRIBE }

func (p *UnsubscribePacket) Properties() *Properties { return &p.Props }

func (p *UnsubscribePacket) GetPacketID() uint16 { return p.PacketID }

func (p *UnsubscribePacket) SetPacketID(id uint16) { p.PacketID = id }

func (p *UnsubscribePacket) Encode(buf *Buffer) error {
	if err := p.Validate(); err != nil {
		return err
	}

	buf.AppendByte(byte(PacketUNSUBSCRIBE)<<4 | 0x02)
	buf.AppendByte(byte(p.PacketID >> 8))
	buf.AppendByte(byte(p.PacketID))

	if err := p.Props.Encode(buf); err != nil {
		return err
	}
	for _, tf := range p.TopicFilters {
		if err := encodeString(buf, tf); err != nil {
			return err
		}
	}

	return buf.InsertRemainingLength()
}

func (p *UnsubscribePacket) Decode(r *Reader, header FixedHeader) error {
	var idBuf [2]byte
	if _, err := io.ReadFull(r, idBuf[:]); err != nil {
		return wrapf(ErrMalformedPacket, "truncated packet identifier")
	}
	p.PacketID = uint16(idBuf[0])<<8 | uint16(idBuf[1])

	if err := p.Props.Decode(r); err != nil {
		return err
	}

	p.TopicFilters = nil
	for r.Remaining() > 0 {
		topicFilter, err := decodeString(r)
		if err != nil {
			return err
		}
		p.TopicFilters = append(p.TopicFilters, topicFilter)
	}
	return nil
}

func (p *UnsubscribePacket) Validate() error {
	if p.PacketID == 0 {
		return wrapf(ErrProtocolError, "packet identifier required")
	}
	if len(p.TopicFilters) == 0 {
		return wrapf(ErrProtocolError, "UNSUBSCRIBE requires at least one topic filter")
	}
	for _, tf := range p.TopicFilters {
		if tf == "" || !ValidateTopicFilter(tf) {
			return wrapf(ErrMalformedPacket, "invalid topic filter")
		}
	}
	return nil
}

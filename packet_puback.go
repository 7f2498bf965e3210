package libnioev

// PubackPacket acknowledges a QoS 1 PUBLISH.
type PubackPacket struct {
	PacketID   uint16
	ReasonCode ReasonCode
	Props      Properties
}

func (p *PubackPacket) Type() PacketType { return PacketPUBACK }

func (p *PubackPacket) Properties() *Properties { return &p.Props }

func (p *PubackPacket) GetPacketID() uint16 { return p.PacketID }

func (p *PubackPacket) SetPacketID(id uint16) { p.PacketID = id }

func (p *PubackPacket) Encode(buf *Buffer) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return encodeAck(buf, PacketPUBACK, 0x00, &ackPacket{PacketID: p.PacketID, ReasonCode: p.ReasonCode, Props: p.Props})
}

func (p *PubackPacket) Decode(r *Reader, header FixedHeader) error {
	var ack ackPacket
	if err := decodeAck(r, header, &ack); err != nil {
		return err
	}
	p.PacketID, p.ReasonCode, p.Props = ack.PacketID, ack.ReasonCode, ack.Props
	return nil
}

func (p *PubackPacket) Validate() error {
	if !p.ReasonCode.ValidForPUBACK() {
		return wrapf(ErrProtocolError, "reason code not valid for PUBACK")
	}
	return nil
}

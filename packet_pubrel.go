package libnioev

// PubrelPacket confirms receipt of PUBREC in the QoS 2 handshake. Its
// fixed header flags are fixed at 0x02, unlike the other three acks.
type PubrelPacket struct {
	PacketID   uint16
	ReasonCode ReasonCode
	Props      Properties
}

func (p *PubrelPacket) Type() PacketType { return PacketPUBREL }

func (p *PubrelPacket) Properties() *Properties { return &p.Props }

func (p *PubrelPacket) GetPacketID() uint16 { return p.PacketID }

func (p *PubrelPacket) SetPacketID(id uint16) { p.PacketID = id }

func (p *PubrelPacket) Encode(buf *Buffer) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return encodeAck(buf, PacketPUBREL, 0x02, &ackPacket{PacketID: p.PacketID, ReasonCode: p.ReasonCode, Props: p.Props})
}

func (p *PubrelPacket) Decode(r *Reader, header FixedHeader) error {
	var ack ackPacket
	if err := decodeAck(r, header, &ack); err != nil {
		return err
	}
	p.PacketID, p.ReasonCode, p.Props = ack.PacketID, ack.ReasonCode, ack.Props
	return nil
}

func (p *PubrelPacket) Validate() error {
	if !p.ReasonCode.ValidForPUBREL() {
		return wrapf(ErrProtocolError, "reason code not valid for PUBREL")
	}
	return nil
}

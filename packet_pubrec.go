package libnioev

// PubrecPacket is the first acknowledgment of a QoS 2 PUBLISH.
type PubrecPacket struct {
	PacketID   uint16
	ReasonCode ReasonCode
	Props      Properties
}

func (p *PubrecPacket) Type() PacketType { return PacketPUBREC }

func (p *PubrecPacket) Properties() *Properties { return &p.Props }

func (p *PubrecPacket) GetPacketID() uint16 { return p.PacketID }

func (p *PubrecPacket) SetPacketID(id uint16) { p.PacketID = id }

func (p *PubrecPacket) Encode(buf *Buffer) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return encodeAck(buf, PacketPUBREC, 0x00, &ackPacket{PacketID: p.PacketID, ReasonCode: p.ReasonCode, Props: p.Props})
}

func (p *PubrecPacket) Decode(r *Reader, header FixedHeader) error {
	var ack ackPacket
	if err := decodeAck(r, header, &ack); err != nil {
		return err
	}
	p.PacketID, p.ReasonCode, p.Props = ack.PacketID, ack.ReasonCode, ack.Props
	return nil
}

func (p *PubrecPacket) Validate() error {
	if !p.ReasonCode.ValidForPUBREC() {
		return wrapf(ErrProtocolError, "reason code not valid for PUBREC")
	}
	return nil
}

package libnioev

// PubcompPacket completes the QoS 2 handshake.
type PubcompPacket struct {
	PacketID   uint16
	ReasonCode ReasonCode
	Props      Properties
}

func (p *PubcompPacket) Type() PacketType { return PacketPUBCOMP }

func (p *PubcompPacket) Properties() *Properties { return &p.Props }

func (p *PubcompPacket) GetPacketID() uint16 { return p.PacketID }

func (p *PubcompPacket) SetPacketID(id uint16) { p.PacketID = id }

func (p *PubcompPacket) Encode(buf *Buffer) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return encodeAck(buf, PacketPUBCOMP, 0x00, &ackPacket{PacketID: p.PacketID, ReasonCode: p.ReasonCode, Props: p.Props})
}

func (p *PubcompPacket) Decode(r *Reader, header FixedHeader) error {
	var ack ackPacket
	if err := decodeAck(r, header, &ack); err != nil {
		return err
	}
	p.PacketID, p.ReasonCode, p.Props = ack.PacketID, ack.ReasonCode, ack.Props
	return nil
}

func (p *PubcompPacket) Validate() error {
	if !p.ReasonCode.ValidForPUBCOMP() {
		return wrapf(ErrProtocolError, "reason code not valid for PUBCOMP")
	}
	return nil
}

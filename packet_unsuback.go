package libnioev

import "io"

// UnsubackPacket reports the outcome of each filter in an UNSUBSCRIBE.
type UnsubackPacket struct {
	PacketID    uint16
	Props       Properties
	ReasonCodes []ReasonCode
}

func (p *UnsubackPacket) Type() PacketType { return PacketUNSUBACK }

func (p *UnsubackPacket) Properties() *Properties { return &p.Props }

func (p *UnsubackPacket) GetPacketID() uint16 { return p.PacketID }

func (p *UnsubackPacket) SetPacketID(id uint16) { p.PacketID = id }

func (p *UnsubackPacket) Encode(buf *Buffer) error {
	if err := p.Validate(); err != nil {
		return err
	}

	buf.AppendByte(byte(PacketUNSUBACK) << 4)
	buf.AppendByte(byte(p.PacketID >> 8))
	buf.AppendByte(byte(p.PacketID))

	if err := p.Props.Encode(buf); err != nil {
		return err
	}
	for _, rc := range p.ReasonCodes {
		buf.AppendByte(byte(rc))
	}

	return buf.InsertRemainingLength()
}

func (p *UnsubackPacket) Decode(r *Reader, header FixedHeader) error {
	var idBuf [2]byte
	if _, err := io.ReadFull(r, idBuf[:]); err != nil {
		return wrapf(ErrMalformedPacket, "truncated packet identifier")
	}
	p.PacketID = uint16(idBuf[0])<<8 | uint16(idBuf[1])

	if err := p.Props.Decode(r); err != nil {
		return err
	}

	p.ReasonCodes = nil
	for r.Remaining() > 0 {
		var rcBuf [1]byte
		if _, err := io.ReadFull(r, rcBuf[:]); err != nil {
			return wrapf(ErrMalformedPacket, "truncated reason code")
		}
		p.ReasonCodes = append(p.ReasonCodes, ReasonCode(rcBuf[0]))
	}
	return nil
}

func (p *UnsubackPacket) Validate() error {
	if p.PacketID == 0 {
		return wrapf(ErrProtocolError, "packet identifier required")
	}
	if len(p.ReasonCodes) == 0 {
		return wrapf(ErrProtocolError, "UNSUBACK requires at least one reason code")
	}
	for _, rc := range p.ReasonCodes {
		if !rc.ValidForUNSUBACK() {
			return wrapf(ErrProtocolError, "reason code not valid for UNSUBACK")
		}
	}
	return nil
}

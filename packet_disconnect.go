package libnioev

import "io"

// DisconnectPacket ends the network connection, optionally carrying a
// reason and a final will-message disposition hint via properties.
type DisconnectPacket struct {
	ReasonCode ReasonCode
	Props      Properties
}

func (p *DisconnectPacket) Type() PacketType { return PacketDISCONNECT }

func (p *DisconnectPacket) Properties() *Properties { return &p.Props }

func (p *DisconnectPacket) Encode(buf *Buffer) error {
	if err := p.Validate(); err != nil {
		return err
	}

	buf.AppendByte(byte(PacketDISCONNECT) << 4)

	if p.ReasonCode != ReasonSuccess || p.Props.Len() > 0 {
		buf.AppendByte(byte(p.ReasonCode))
		if p.Props.Len() > 0 {
			if err := p.Props.Encode(buf); err != nil {
				return err
			}
		}
	}

	return buf.InsertRemainingLength()
}

func (p *DisconnectPacket) Decode(r *Reader, header FixedHeader) error {
	if header.Flags != 0x00 {
		return wrapf(ErrMalformedPacket, "DISCONNECT flags must be zero")
	}

	if header.RemainingLength == 0 {
		p.ReasonCode = ReasonSuccess
		return nil
	}

	var reasonBuf [1]byte
	if _, err := io.ReadFull(r, reasonBuf[:]); err != nil {
		return wrapf(ErrMalformedPacket, "truncated reason code")
	}
	p.ReasonCode = ReasonCode(reasonBuf[0])

	if header.RemainingLength > 1 {
		if err := p.Props.Decode(r); err != nil {
			return err
		}
	}

	return nil
}

func (p *DisconnectPacket) Validate() error {
	if !p.ReasonCode.ValidForDISCONNECT() {
		return wrapf(ErrProtocolError, "reason code not valid for DISCONNECT")
	}
	return nil
}

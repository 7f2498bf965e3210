package libnioev

import "io"

// AuthPacket carries an extended authentication exchange, either
// continuing a challenge started by CONNECT or re-authenticating an
// established connection.
type AuthPacket struct {
	ReasonCode ReasonCode
	Props      Properties
}

func (p *AuthPacket) Type() PacketType { return PacketAUTH }

func (p *AuthPacket) Properties() *Properties { return &p.Props }

func (p *AuthPacket) Encode(buf *Buffer) error {
	if err := p.Validate(); err != nil {
		return err
	}

	buf.AppendByte(byte(PacketAUTH) << 4)

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

func (p *AuthPacket) Decode(r *Reader, header FixedHeader) error {
	if header.Flags != 0x00 {
		return wrapf(ErrMalformedPacket, "AUTH flags must be zero")
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

func (p *AuthPacket) Validate() error {
	if !p.ReasonCode.ValidForAUTH() {
		return wrapf(ErrProtocolError, "reason code not valid for AUTH")
	}
	return nil
}

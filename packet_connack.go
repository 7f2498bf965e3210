package libnioev

import "io"

// ConnackPacket acknowledges a CONNECT, reporting whether a prior
// session was resumed and the connection's outcome reason code.
type ConnackPacket struct {
	// ProtocolVersion selects the wire format this packet encodes as.
	// The zero value encodes as MQTT5. MQTT311 encodes a plain
	// 2-byte body: no properties, and ReasonCode is narrowed to its
	// closest legacy CONNACK return code.
	ProtocolVersion MQTTVersion

	SessionPresent bool
	ReasonCode     ReasonCode
	Props          Properties
}

func (p *ConnackPacket) Type() PacketType { return PacketCONNACK }

func (p *ConnackPacket) Properties() *Properties { return &p.Props }

func (p *ConnackPacket) Encode(buf *Buffer) error {
	if err := p.Validate(); err != nil {
		return err
	}

	version := p.ProtocolVersion
	if version == 0 {
		version = MQTT5
	}

	buf.AppendByte(byte(PacketCONNACK) << 4)

	var flags byte
	if p.SessionPresent {
		flags = 0x01
	}
	buf.AppendByte(flags)

	if !version.HasProperties() {
		buf.AppendByte(legacyConnackCode(p.ReasonCode))
		return buf.InsertRemainingLength()
	}

	buf.AppendByte(byte(p.ReasonCode))
	if err := p.Props.Encode(buf); err != nil {
		return err
	}
	return buf.InsertRemainingLength()
}

func (p *ConnackPacket) Decode(r *Reader, header FixedHeader) error {
	var flagsBuf [1]byte
	if _, err := io.ReadFull(r, flagsBuf[:]); err != nil {
		return wrapf(ErrMalformedPacket, "truncated connack flags")
	}
	if flagsBuf[0]&0xFE != 0 {
		return wrapf(ErrMalformedPacket, "CONNACK reserved flag bits set")
	}
	p.SessionPresent = flagsBuf[0]&0x01 != 0

	var reasonBuf [1]byte
	if _, err := io.ReadFull(r, reasonBuf[:]); err != nil {
		return wrapf(ErrMalformedPacket, "truncated reason code")
	}
	// A body longer than two bytes carries a property section and is
	// decoded as MQTT5, keeping the reason byte as is. A bare 2-byte
	// body is decoded as MQTT 3.1.1: its return code is mapped through
	// reasonCodeFromLegacyConnack, so codes above 5 become
	// ReasonUnspecifiedError. Encode always writes a property length
	// for MQTT5, so a 5.0 CONNACK from this package is never 2 bytes.
	if header.RemainingLength > 2 {
		p.ProtocolVersion = MQTT5
		p.ReasonCode = ReasonCode(reasonBuf[0])
		return p.Props.Decode(r)
	}
	p.ProtocolVersion = MQTT311
	p.ReasonCode = reasonCodeFromLegacyConnack(reasonBuf[0])
	return nil
}

func (p *ConnackPacket) Validate() error {
	if !p.ReasonCode.ValidForCONNACK() {
		return wrapf(ErrProtocolError, "reason code not valid for CONNACK")
	}
	if p.ReasonCode != ReasonSuccess && p.SessionPresent {
		return wrapf(ErrProtocolError, "session present set on unsuccessful CONNACK")
	}
	return nil
}

package libnioev

import "io"

const (
	protocolName    = "MQTT"
	protocolVersion = byte(MQTT5)
)

const (
	connectFlagCleanStart   = 0x02
	connectFlagWillFlag     = 0x04
	connectFlagWillRetain   = 0x20
	connectFlagPasswordFlag = 0x40
	connectFlagUsernameFlag = 0x80
)

// ConnectPacket opens a session: client identity, keep-alive, optional
// will message, and optional username/password credentials.
type ConnectPacket struct {
	// ProtocolVersion selects the wire format this packet encodes as
	// and the format Decode expects. The zero value encodes as MQTT5.
	ProtocolVersion MQTTVersion

	ClientID   string
	CleanStart bool
	KeepAlive  uint16
	Props      Properties

	Username string
	Password []byte

	WillFlag    bool
	WillRetain  bool
	WillQoS     byte
	WillTopic   string
	WillPayload []byte
	WillProps   Properties
}

func (p *ConnectPacket) Type() PacketType { return PacketCONNECT }

func (p *ConnectPacket) Properties() *Properties { return &p.Props }

func (p *ConnectPacket) connectFlags() byte {
	var flags byte
	if p.CleanStart {
		flags |= connectFlagCleanStart
	}
	if p.WillFlag {
		flags |= connectFlagWillFlag
		flags |= (p.WillQoS & 0x03) << 3
		if p.WillRetain {
			flags |= connectFlagWillRetain
		}
	}
	if len(p.Password) > 0 {
		flags |= connectFlagPasswordFlag
	}
	if p.Username != "" {
		flags |= connectFlagUsernameFlag
	}
	return flags
}

func (p *ConnectPacket) setConnectFlags(flags byte) error {
	if flags&0x01 != 0 {
		return wrapf(ErrMalformedPacket, "CONNECT reserved flag bit set")
	}
	p.CleanStart = flags&connectFlagCleanStart != 0
	p.WillFlag = flags&connectFlagWillFlag != 0
	p.WillQoS = (flags >> 3) & 0x03
	p.WillRetain = flags&connectFlagWillRetain != 0

	if !p.WillFlag && (p.WillQoS != 0 || p.WillRetain) {
		return wrapf(ErrProtocolError, "will flags set without will flag")
	}
	if p.WillQoS > 2 {
		return wrapf(ErrMalformedPacket, "will QoS bits set to 3")
	}
	return nil
}

func (p *ConnectPacket) Encode(buf *Buffer) error {
	if err := p.Validate(); err != nil {
		return err
	}

	version := p.ProtocolVersion
	if version == 0 {
		version = MQTT5
	}

	buf.AppendByte(byte(PacketCONNECT) << 4)

	if err := encodeString(buf, protocolName); err != nil {
		return err
	}
	buf.AppendByte(byte(version))
	buf.AppendByte(p.connectFlags())
	buf.AppendByte(byte(p.KeepAlive >> 8))
	buf.AppendByte(byte(p.KeepAlive))

	if version.HasProperties() {
		if err := p.Props.Encode(buf); err != nil {
			return err
		}
	}
	if err := encodeString(buf, p.ClientID); err != nil {
		return err
	}

	if p.WillFlag {
		if version.HasProperties() {
			if err := p.WillProps.Encode(buf); err != nil {
				return err
			}
		}
		if err := encodeString(buf, p.WillTopic); err != nil {
			return err
		}
		if err := encodeBinary(buf, p.WillPayload); err != nil {
			return err
		}
	}
	if p.Username != "" {
		if err := encodeString(buf, p.Username); err != nil {
			return err
		}
	}
	if len(p.Password) > 0 {
		if err := encodeBinary(buf, p.Password); err != nil {
			return err
		}
	}

	return buf.InsertRemainingLength()
}

func (p *ConnectPacket) Decode(r *Reader, header FixedHeader) error {
	protoName, err := decodeString(r)
	if err != nil {
		return err
	}
	if protoName != protocolName {
		return wrapf(ErrMalformedPacket, "unexpected protocol name")
	}

	var versionBuf [1]byte
	if _, err := io.ReadFull(r, versionBuf[:]); err != nil {
		return wrapf(ErrMalformedPacket, "truncated protocol version")
	}
	version := MQTTVersion(versionBuf[0])
	if !version.Valid() {
		return wrapf(ErrProtocolError, "unsupported protocol version")
	}
	p.ProtocolVersion = version

	var flagsBuf [1]byte
	if _, err := io.ReadFull(r, flagsBuf[:]); err != nil {
		return wrapf(ErrMalformedPacket, "truncated connect flags")
	}
	if err := p.setConnectFlags(flagsBuf[0]); err != nil {
		return err
	}
	usernameFlag := flagsBuf[0]&connectFlagUsernameFlag != 0
	passwordFlag := flagsBuf[0]&connectFlagPasswordFlag != 0

	var keepAliveBuf [2]byte
	if _, err := io.ReadFull(r, keepAliveBuf[:]); err != nil {
		return wrapf(ErrMalformedPacket, "truncated keep alive")
	}
	p.KeepAlive = uint16(keepAliveBuf[0])<<8 | uint16(keepAliveBuf[1])

	if version.HasProperties() {
		if err := p.Props.Decode(r); err != nil {
			return err
		}
	}

	clientID, err := decodeString(r)
	if err != nil {
		return err
	}
	p.ClientID = clientID

	if p.WillFlag {
		if version.HasProperties() {
			if err := p.WillProps.Decode(r); err != nil {
				return err
			}
		}
		willTopic, err := decodeString(r)
		if err != nil {
			return err
		}
		p.WillTopic = willTopic
		willPayload, err := decodeBinary(r)
		if err != nil {
			return err
		}
		p.WillPayload = willPayload
	}

	if usernameFlag {
		username, err := decodeString(r)
		if err != nil {
			return err
		}
		p.Username = username
	}
	if passwordFlag {
		password, err := decodeBinary(r)
		if err != nil {
			return err
		}
		p.Password = password
	}

	return nil
}

func (p *ConnectPacket) Validate() error {
	if len(p.ClientID) > maxUint16 {
		return wrapf(ErrProtocolError, "client identifier too long")
	}
	if !p.CleanStart && p.ClientID == "" {
		return wrapf(ErrProtocolError, "client identifier required when clean start is false")
	}
	if p.WillQoS > 2 {
		return wrapf(ErrMalformedPacket, "will QoS bits set to 3")
	}
	if !p.WillFlag && (p.WillRetain || p.WillQoS != 0) {
		return wrapf(ErrProtocolError, "will flags set without will flag")
	}
	return nil
}

package libnioev

import (
	"errors"
	"io"
)

var (
	ErrPacketTooLarge    = errors.New("libnioev: packet exceeds maximum size")
	ErrUnknownPacketType = errors.New("libnioev: unknown packet type")
)

// ReadPacket reads one complete MQTT control packet from r. If maxSize
// is greater than 0, a RemainingLength beyond it fails fast with
// ErrPacketTooLarge rather than allocating the body.
func ReadPacket(r io.Reader, maxSize uint32) (Packet, int, error) {
	header, err := DecodeFixedHeader(r)
	if err != nil {
		return nil, 0, err
	}
	n := header.Size()

	if maxSize > 0 && header.RemainingLength > maxSize {
		return nil, n, ErrPacketTooLarge
	}

	body := make([]byte, header.RemainingLength)
	if header.RemainingLength > 0 {
		bn, err := io.ReadFull(r, body)
		n += bn
		if err != nil {
			return nil, n, err
		}
	}

	packet := newPacketForType(header.PacketType)
	if packet == nil {
		return nil, n, ErrUnknownPacketType
	}

	if err := packet.Decode(NewReader(body, len(body)), header); err != nil {
		return nil, n, err
	}
	return packet, n, nil
}

// WritePacket validates and encodes packet into buf then writes all of
// buf to w. The remaining length is backpatched at offset 1 of buf and
// counts every byte after it, so buf has to start out empty. If maxSize
// is greater than 0, an encoded size beyond it fails with
// ErrPacketTooLarge and nothing is written to w.
func WritePacket(w io.Writer, packet Packet, buf *Buffer, maxSize uint32) (int, error) {
	if err := packet.Validate(); err != nil {
		return 0, err
	}
	if err := packet.Encode(buf); err != nil {
		return 0, err
	}
	if maxSize > 0 && uint32(buf.Len()) > maxSize {
		return 0, ErrPacketTooLarge
	}
	return w.Write(buf.Bytes())
}

func newPacketForType(t PacketType) Packet {
	switch t {
	case PacketCONNECT:
		return &ConnectPacket{}
	case PacketCONNACK:
		return &ConnackPacket{}
	case PacketPUBLISH:
		return &PublishPacket{}
	case PacketPUBACK:
		return &PubackPacket{}
	case PacketPUBREC:
		return &PubrecPacket{}
	case PacketPUBREL:
		return &PubrelPacket{}
	case PacketPUBCOMP:
		return &PubcompPacket{}
	case PacketSUBSCRIBE:
		return &SubscribePacket{}
	case PacketSUBACK:
		return &SubackPacket{}
	case PacketUNSUBSCRIBE:
		return &UnsubscribePacket{}
	case PacketUNSUBACK:
		return &UnsubackPacket{}
	case PacketPINGREQ:
		return &PingreqPacket{}
	case PacketPINGRESP:
		return &PingrespPacket{}
	case PacketDISCONNECT:
		return &DisconnectPacket{}
	case PacketAUTH:
		return &AuthPacket{}
	default:
		return nil
	}
}

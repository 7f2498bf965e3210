package libnioev

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisconnectPacketType(t *testing.T) {
	p := &DisconnectPacket{}
	assert.Equal(t, PacketDISCONNECT, p.Type())
}

func TestDisconnectPacketEncodeDecode(t *testing.T) {
	tests := []struct {
		name   string
		packet DisconnectPacket
	}{
		{name: "normal disconnect", packet: DisconnectPacket{ReasonCode: ReasonSuccess}},
		{name: "disconnect with will", packet: DisconnectPacket{ReasonCode: ReasonDisconnectWithWill}},
		{name: "server shutting down", packet: DisconnectPacket{ReasonCode: ReasonServerShuttingDown}},
		{name: "session taken over", packet: DisconnectPacket{ReasonCode: ReasonSessionTakenOver}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := NewBuffer()
			require.NoError(t, tt.packet.Encode(buf))

			header, err := DecodeFixedHeader(NewReader(buf.Bytes(), buf.Len()))
			require.NoError(t, err)
			assert.Equal(t, PacketDISCONNECT, header.PacketType)
			assert.Equal(t, byte(0x00), header.Flags)
			r := NewReader(buf.Bytes()[header.Size():], int(header.RemainingLength))

			var decoded DisconnectPacket
			require.NoError(t, decoded.Decode(r, header))
			assert.Equal(t, tt.packet.ReasonCode, decoded.ReasonCode)
		})
	}
}

func TestDisconnectPacketMinimal(t *testing.T) {
	packet := DisconnectPacket{ReasonCode: ReasonSuccess}
	buf := NewBuffer()
	require.NoError(t, packet.Encode(buf))
	assert.Equal(t, []byte{byte(PacketDISCONNECT) << 4, 0x00}, buf.Bytes())

	header, err := DecodeFixedHeader(NewReader(buf.Bytes(), buf.Len()))
	require.NoError(t, err)
	assert.Equal(t, uint32(0), header.RemainingLength)

	var decoded DisconnectPacket
	require.NoError(t, decoded.Decode(NewReader(nil, 0), header))
	assert.Equal(t, ReasonSuccess, decoded.ReasonCode)
}

func TestDisconnectPacketWithProperties(t *testing.T) {
	packet := DisconnectPacket{ReasonCode: ReasonSuccess}
	packet.Props.Set(PropSessionExpiryInterval, uint32(3600))
	packet.Props.Set(PropReasonString, "Goodbye")
	packet.Props.Add(PropUserProperty, StringPair{Key: "key", Value: "value"})

	buf := NewBuffer()
	require.NoError(t, packet.Encode(buf))

	header, err := DecodeFixedHeader(NewReader(buf.Bytes(), buf.Len()))
	require.NoError(t, err)
	r := NewReader(buf.Bytes()[header.Size():], int(header.RemainingLength))

	var decoded DisconnectPacket
	require.NoError(t, decoded.Decode(r, header))

	assert.Equal(t, uint32(3600), decoded.Props.GetUint32(PropSessionExpiryInterval))
	assert.Equal(t, "Goodbye", decoded.Props.GetString(PropReasonString))
	ups := decoded.Props.GetAllStringPairs(PropUserProperty)
	require.Len(t, ups, 1)
	assert.Equal(t, "key", ups[0].Key)
}

func TestDisconnectPacketInvalidFlags(t *testing.T) {
	header := FixedHeader{PacketType: PacketDISCONNECT, Flags: 0x01}
	var p DisconnectPacket
	assert.ErrorIs(t, p.Decode(NewReader(nil, 0), header), ErrMalformedPacket)
}

func TestDisconnectPacketValidation(t *testing.T) {
	valid := DisconnectPacket{ReasonCode: ReasonSuccess}
	assert.NoError(t, valid.Validate())

	invalid := DisconnectPacket{ReasonCode: ReasonGrantedQoS1}
	assert.ErrorIs(t, invalid.Validate(), ErrProtocolError)
}

func FuzzDisconnectPacketDecode(f *testing.F) {
	packet := DisconnectPacket{ReasonCode: ReasonSuccess}
	buf := NewBuffer()
	_ = packet.Encode(buf)
	f.Add(buf.Bytes())

	f.Add([]byte{0xE0, 0x00})
	f.Add([]byte{0xE0, 0x01, 0x00})

	for i := 0; i < 10; i++ {
		size := rand.Intn(32) + 1
		data := make([]byte, size)
		for i := range data {
			data[i] = byte(rand.Intn(256))
		}
		f.Add(data)
	}

	f.Fuzz(func(_ *testing.T, data []byte) {
		header, err := DecodeFixedHeader(NewReader(data, len(data)))
		if err != nil || header.PacketType != PacketDISCONNECT {
			return
		}
		remaining := data[header.Size():]
		if len(remaining) < int(header.RemainingLength) {
			return
		}
		var p DisconnectPacket
		_ = p.Decode(NewReader(remaining, int(header.RemainingLength)), header)
	})
}

package libnioev

import (
	"io"
	"sync"
)

// Buffer is a reference-shared, append-and-prepend byte container.
// CloneHandle hands out another owner of the same underlying bytes
// without copying (O(1)); DeepCopy allocates a fresh backing store.
// The two are never interchangeable implicitly — callers always name
// the one they want, matching the original SharedBuffer's copy()
// semantics (see DESIGN.md).
//
// A Buffer additionally carries a 16-bit packet-id side channel so a
// writer can recover the packet id of a queued outbound packet without
// re-parsing it.
//
// Concurrency: a Buffer handle is move-only across goroutines while
// mutation (Append/Insert) is in flight. Once the writer that produced
// it is done mutating, any number of goroutines may hold CloneHandle
// copies and read Bytes() concurrently.
type Buffer struct {
	data     *[]byte
	packetID uint16
}

var bufferPool = sync.Pool{
	New: func() any { return &Buffer{data: new([]byte)} },
}

// NewBuffer returns an empty Buffer ready for encoding into.
func NewBuffer() *Buffer {
	return &Buffer{data: new([]byte)}
}

// getPooledBuffer returns a Buffer drawn from a shared pool, truncated
// to zero length, for the encode hot path.
func getPooledBuffer() *Buffer {
	b := bufferPool.Get().(*Buffer)
	*b.data = (*b.data)[:0]
	b.packetID = 0
	return b
}

// Release returns a Buffer to the pool. Only call this on a Buffer with
// no other outstanding CloneHandle; releasing a shared handle would
// let two owners see the pool recycle their storage. The typical
// caller is an encode scratch buffer, never a buffer already handed to
// a writer.
func (b *Buffer) Release() {
	if b == nil || cap(*b.data) > 64*1024 {
		return
	}
	bufferPool.Put(b)
}

// Append pushes bytes to the tail, amortized O(1).
func (b *Buffer) Append(p []byte) {
	*b.data = append(*b.data, p...)
}

// AppendByte pushes a single byte to the tail.
func (b *Buffer) AppendByte(v byte) {
	*b.data = append(*b.data, v)
}

// Write implements io.Writer so the primitive encoders in encoding.go
// can target a Buffer directly.
func (b *Buffer) Write(p []byte) (int, error) {
	b.Append(p)
	return len(p), nil
}

// Insert splices bytes in at offset, shifting everything from offset
// onward to the right. The encoder uses this exactly once per packet,
// to inject the remaining-length variable-byte integer at offset 1
// after the variable header and payload have already been appended.
func (b *Buffer) Insert(offset int, p []byte) {
	if offset > len(*b.data) {
		offset = len(*b.data)
	}
	grown := make([]byte, len(*b.data)+len(p))
	copy(grown, (*b.data)[:offset])
	copy(grown[offset:], p)
	copy(grown[offset+len(p):], (*b.data)[offset:])
	*b.data = grown
}

// InsertRemainingLength backpatches the MQTT remaining-length variable
// byte integer at offset 1 (right after the fixed header's first
// byte), computed from everything appended to the buffer so far past
// that point. This is the Go translation of the original encoder's
// BinaryEncoder::insertPacketLength.
func (b *Buffer) InsertRemainingLength() error {
	remaining := uint32(len(*b.data) - 1)
	if remaining > maxVarint {
		return ErrMalformedPacket
	}
	var tmp [4]byte
	n := putVarint(tmp[:], remaining)
	b.Insert(1, tmp[:n])
	return nil
}

// Len returns the number of bytes currently stored.
func (b *Buffer) Len() int {
	if b == nil || b.data == nil {
		return 0
	}
	return len(*b.data)
}

// Bytes returns the backing slice. Callers must not retain it past the
// buffer's next mutation unless they hold the only handle.
func (b *Buffer) Bytes() []byte {
	if b == nil || b.data == nil {
		return nil
	}
	return *b.data
}

// CloneHandle returns another owner of the same underlying bytes. This
// is O(1): no bytes are copied, only the pointer to the backing slice.
func (b *Buffer) CloneHandle() *Buffer {
	return &Buffer{data: b.data, packetID: b.packetID}
}

// DeepCopy allocates a fresh backing store and copies the bytes into
// it. Use this when a handle must outlive mutation of the original
// (e.g. a retained message stored past the publish that produced it).
func (b *Buffer) DeepCopy() *Buffer {
	fresh := make([]byte, len(*b.data))
	copy(fresh, *b.data)
	return &Buffer{data: &fresh, packetID: b.packetID}
}

// PacketID returns the buffer's packet-id side channel (0 when unset).
func (b *Buffer) PacketID() uint16 { return b.packetID }

// SetPacketID stamps the buffer's packet-id side channel.
func (b *Buffer) SetPacketID(id uint16) { b.packetID = id }

// Reader views an external byte slice with an independent "usable
// size" cursor, so a partially filled receive buffer can be decoded
// once a full packet boundary is reached without the caller needing to
// slice a fresh []byte per attempt. Grounded on the original's
// BinaryDecoder(data, usableSize).
type Reader struct {
	data      []byte
	pos       int
	usableLen int
}

// NewReader wraps data, exposing only the first usable bytes for
// reading even if data is longer (e.g. backed by a larger receive
// buffer that has more unconsumed bytes appended after it).
func NewReader(data []byte, usable int) *Reader {
	if usable > len(data) {
		usable = len(data)
	}
	return &Reader{data: data, usableLen: usable}
}

// Read implements io.Reader over the usable region.
func (r *Reader) Read(p []byte) (int, error) {
	if r.pos >= r.usableLen {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:r.usableLen])
	r.pos += n
	return n, nil
}

// Remaining returns how many usable bytes are left unread.
func (r *Reader) Remaining() int { return r.usableLen - r.pos }

// Offset returns the current read cursor, i.e. how many bytes of the
// original slice have been consumed.
func (r *Reader) Offset() int { return r.pos }

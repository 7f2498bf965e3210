package libnioev

import "io"

// PropertyID identifies an MQTT 5.0 property. The numeric values match
// the protocol's property identifier table.
type PropertyID byte

const (
	PropPayloadFormatIndicator   PropertyID = 0x01
	PropMessageExpiryInterval    PropertyID = 0x02
	PropContentType              PropertyID = 0x03
	PropResponseTopic            PropertyID = 0x08
	PropCorrelationData          PropertyID = 0x09
	PropSubscriptionIdentifier   PropertyID = 0x0B
	PropSessionExpiryInterval    PropertyID = 0x11
	PropAssignedClientIdentifier PropertyID = 0x12
	PropServerKeepAlive          PropertyID = 0x13
	PropAuthenticationMethod     PropertyID = 0x15
	PropAuthenticationData       PropertyID = 0x16
	PropRequestProblemInfo       PropertyID = 0x17
	PropWillDelayInterval        PropertyID = 0x18
	PropRequestResponseInfo      PropertyID = 0x19
	PropResponseInformation      PropertyID = 0x1A
	PropServerReference          PropertyID = 0x1C
	PropReasonString             PropertyID = 0x1F
	PropReceiveMaximum           PropertyID = 0x21
	PropTopicAliasMaximum        PropertyID = 0x22
	PropTopicAlias               PropertyID = 0x23
	PropMaximumQoS               PropertyID = 0x24
	PropRetainAvailable          PropertyID = 0x25
	PropUserProperty             PropertyID = 0x26
	PropMaximumPacketSize        PropertyID = 0x27
	PropWildcardSubAvailable     PropertyID = 0x28
	PropSubscriptionIDAvailable  PropertyID = 0x29
	PropSharedSubAvailable       PropertyID = 0x2A
)

// PropertyType is the wire representation a PropertyID decodes to.
type PropertyType byte

const (
	PropTypeByte        PropertyType = iota // single byte
	PropTypeTwoByteInt                      // uint16
	PropTypeFourByteInt                     // uint32
	PropTypeVarInt                          // variable byte integer
	PropTypeString                          // UTF-8 string
	PropTypeBinary                          // length-prefixed binary
	PropTypeStringPair                      // UTF-8 key/value pair
)

var propertyTypeMap = map[PropertyID]PropertyType{
	PropPayloadFormatIndicator:   PropTypeByte,
	PropMessageExpiryInterval:    PropTypeFourByteInt,
	PropContentType:              PropTypeString,
	PropResponseTopic:            PropTypeString,
	PropCorrelationData:          PropTypeBinary,
	PropSubscriptionIdentifier:   PropTypeVarInt,
	PropSessionExpiryInterval:    PropTypeFourByteInt,
	PropAssignedClientIdentifier: PropTypeString,
	PropServerKeepAlive:          PropTypeTwoByteInt,
	PropAuthenticationMethod:     PropTypeString,
	PropAuthenticationData:       PropTypeBinary,
	PropRequestProblemInfo:       PropTypeByte,
	PropWillDelayInterval:        PropTypeFourByteInt,
	PropRequestResponseInfo:      PropTypeByte,
	PropResponseInformation:      PropTypeString,
	PropServerReference:          PropTypeString,
	PropReasonString:             PropTypeString,
	PropReceiveMaximum:           PropTypeTwoByteInt,
	PropTopicAliasMaximum:        PropTypeTwoByteInt,
	PropTopicAlias:               PropTypeTwoByteInt,
	PropMaximumQoS:               PropTypeByte,
	PropRetainAvailable:          PropTypeByte,
	PropUserProperty:             PropTypeStringPair,
	PropMaximumPacketSize:        PropTypeFourByteInt,
	PropWildcardSubAvailable:     PropTypeByte,
	PropSubscriptionIDAvailable:  PropTypeByte,
	PropSharedSubAvailable:       PropTypeByte,
}

// propertyType looks up the wire type for id. The second return value
// is false for an id outside the enumerated table, which the decoder
// treats as MalformedPacket (the original's byteToMQTTProperty throws
// on the same condition) and the encoder treats as FatalInternal: an
// encoder is only ever handed ids it put there itself.
func propertyType(id PropertyID) (PropertyType, bool) {
	t, ok := propertyTypeMap[id]
	return t, ok
}

// Properties is an ordered multimap of property id to value, preserving
// insertion order and duplicate entries (USER_PROPERTY and
// SUBSCRIPTION_IDENTIFIER are legally repeated).
type Properties struct {
	props []property
}

type property struct {
	id    PropertyID
	value any
}

func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.props)
}

func (p *Properties) Has(id PropertyID) bool {
	if p == nil {
		return false
	}
	for i := range p.props {
		if p.props[i].id == id {
			return true
		}
	}
	return false
}

// Get returns the first value stored under id, or nil if absent.
func (p *Properties) Get(id PropertyID) any {
	if p == nil {
		return nil
	}
	for i := range p.props {
		if p.props[i].id == id {
			return p.props[i].value
		}
	}
	return nil
}

// GetAll returns every value stored under id, in insertion order.
func (p *Properties) GetAll(id PropertyID) []any {
	if p == nil {
		return nil
	}
	var result []any
	for i := range p.props {
		if p.props[i].id == id {
			result = append(result, p.props[i].value)
		}
	}
	return result
}

// Set replaces the first existing value under id, or appends if none
// exists yet. Use this for single-valued properties.
func (p *Properties) Set(id PropertyID, value any) {
	if p == nil {
		return
	}
	for i := range p.props {
		if p.props[i].id == id {
			p.props[i].value = value
			return
		}
	}
	p.props = append(p.props, property{id: id, value: value})
}

// Add always appends, for properties the protocol allows to repeat.
func (p *Properties) Add(id PropertyID, value any) {
	if p == nil {
		return
	}
	p.props = append(p.props, property{id: id, value: value})
}

// Delete removes every value stored under id.
func (p *Properties) Delete(id PropertyID) {
	if p == nil {
		return
	}
	n := 0
	for i := range p.props {
		if p.props[i].id != id {
			p.props[n] = p.props[i]
			n++
		}
	}
	p.props = p.props[:n]
}

func (p *Properties) GetByte(id PropertyID) byte {
	b, _ := p.Get(id).(byte)
	return b
}

func (p *Properties) GetUint16(id PropertyID) uint16 {
	u, _ := p.Get(id).(uint16)
	return u
}

func (p *Properties) GetUint32(id PropertyID) uint32 {
	u, _ := p.Get(id).(uint32)
	return u
}

func (p *Properties) GetString(id PropertyID) string {
	s, _ := p.Get(id).(string)
	return s
}

func (p *Properties) GetBinary(id PropertyID) []byte {
	b, _ := p.Get(id).([]byte)
	return b
}

func (p *Properties) GetStringPair(id PropertyID) StringPair {
	sp, _ := p.Get(id).(StringPair)
	return sp
}

func (p *Properties) GetAllStringPairs(id PropertyID) []StringPair {
	all := p.GetAll(id)
	result := make([]StringPair, 0, len(all))
	for _, v := range all {
		if sp, ok := v.(StringPair); ok {
			result = append(result, sp)
		}
	}
	return result
}

func (p *Properties) GetAllVarInts(id PropertyID) []uint32 {
	all := p.GetAll(id)
	result := make([]uint32, 0, len(all))
	for _, v := range all {
		if u, ok := v.(uint32); ok {
			result = append(result, u)
		}
	}
	return result
}

// Encode writes the length-prefixed property list to w.
func (p *Properties) Encode(w io.Writer) error {
	if p == nil || len(p.props) == 0 {
		return encodeVarint(w, 0)
	}
	if err := encodeVarint(w, uint32(p.size())); err != nil {
		return err
	}
	for i := range p.props {
		if err := p.encodeProperty(w, &p.props[i]); err != nil {
			return err
		}
	}
	return nil
}

func (p *Properties) encodeProperty(w io.Writer, prop *property) error {
	if _, err := w.Write([]byte{byte(prop.id)}); err != nil {
		return err
	}

	propType, ok := propertyType(prop.id)
	if !ok {
		// An encoder only ever sees ids it assembled itself; one
		// outside the table is a programming error, not a bad packet.
		panic("libnioev: encoding property with unknown id")
	}

	switch propType {
	case PropTypeByte:
		b, _ := prop.value.(byte)
		_, err := w.Write([]byte{b})
		return err
	case PropTypeTwoByteInt:
		v, _ := prop.value.(uint16)
		_, err := w.Write([]byte{byte(v >> 8), byte(v)})
		return err
	case PropTypeFourByteInt:
		v, _ := prop.value.(uint32)
		_, err := w.Write([]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
		return err
	case PropTypeVarInt:
		v, _ := prop.value.(uint32)
		return encodeVarint(w, v)
	case PropTypeString:
		s, _ := prop.value.(string)
		return encodeString(w, s)
	case PropTypeBinary:
		b, _ := prop.value.([]byte)
		return encodeBinary(w, b)
	case PropTypeStringPair:
		sp, _ := prop.value.(StringPair)
		return encodeStringPair(w, sp)
	}
	return nil
}

func (p *Properties) size() int {
	if p == nil {
		return 0
	}
	size := 0
	for i := range p.props {
		prop := &p.props[i]
		size++ // property id byte
		propType, _ := propertyType(prop.id)
		switch propType {
		case PropTypeByte:
			size++
		case PropTypeTwoByteInt:
			size += 2
		case PropTypeFourByteInt:
			size += 4
		case PropTypeVarInt:
			v, _ := prop.value.(uint32)
			size += varintSize(v)
		case PropTypeString:
			s, _ := prop.value.(string)
			size += 2 + len(s)
		case PropTypeBinary:
			b, _ := prop.value.([]byte)
			size += 2 + len(b)
		case PropTypeStringPair:
			sp, _ := prop.value.(StringPair)
			size += 2 + len(sp.Key) + 2 + len(sp.Value)
		}
	}
	return size
}

// Decode reads a length-prefixed property list from r. An id outside
// the property table is MalformedPacket, matching the original
// decoder's byteToMQTTProperty.
func (p *Properties) Decode(r io.Reader) error {
	length, err := decodeVarint(r)
	if err != nil {
		return err
	}
	if length == 0 {
		return nil
	}

	start := len(p.props)
	remaining := int64(length)
	for remaining > 0 {
		var idBuf [1]byte
		if _, err := io.ReadFull(r, idBuf[:]); err != nil {
			return wrapf(ErrMalformedPacket, "truncated property id")
		}
		remaining--

		id := PropertyID(idBuf[0])
		propType, ok := propertyType(id)
		if !ok {
			return wrapf(ErrMalformedPacket, "unknown property id")
		}

		var value any
		consumed := int64(0)

		switch propType {
		case PropTypeByte:
			var buf [1]byte
			if _, err := io.ReadFull(r, buf[:]); err != nil {
				return wrapf(ErrMalformedPacket, "truncated byte property")
			}
			value, consumed = buf[0], 1

		case PropTypeTwoByteInt:
			var buf [2]byte
			if _, err := io.ReadFull(r, buf[:]); err != nil {
				return wrapf(ErrMalformedPacket, "truncated two-byte-int property")
			}
			value, consumed = uint16(buf[0])<<8|uint16(buf[1]), 2

		case PropTypeFourByteInt:
			var buf [4]byte
			if _, err := io.ReadFull(r, buf[:]); err != nil {
				return wrapf(ErrMalformedPacket, "truncated four-byte-int property")
			}
			value = uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
			consumed = 4

		case PropTypeVarInt:
			var read int64
			v, err := decodeVarint(countingReader{r, &read})
			if err != nil {
				return err
			}
			value, consumed = v, read

		case PropTypeString:
			var read int64
			s, err := decodeString(countingReader{r, &read})
			if err != nil {
				return err
			}
			value, consumed = s, read

		case PropTypeBinary:
			var read int64
			b, err := decodeBinary(countingReader{r, &read})
			if err != nil {
				return err
			}
			value, consumed = b, read

		case PropTypeStringPair:
			var read int64
			sp, err := decodeStringPair(countingReader{r, &read})
			if err != nil {
				return err
			}
			value, consumed = sp, read
		}

		if id != PropUserProperty && id != PropSubscriptionIdentifier {
			for _, prev := range p.props[start:] {
				if prev.id == id {
					return wrapf(ErrProtocolError, "duplicate property")
				}
			}
		}

		remaining -= consumed
		p.props = append(p.props, property{id: id, value: value})
	}

	return nil
}

// countingReader tallies bytes read through it into *count, letting
// Decode track a variable-sized property's byte cost against the
// declared property-list length without duplicating each decoder's
// internal accounting.
type countingReader struct {
	r     io.Reader
	count *int64
}

func (c countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	*c.count += int64(n)
	return n, err
}

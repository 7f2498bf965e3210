package libnioev

import "errors"

// MalformedPacket is returned when the codec detects a structural
// violation: a truncated primitive, a malformed variable-byte integer,
// an unknown property id, or a declared length that overflows the
// remaining bytes. The caller (session layer) reacts by closing the
// connection per the MQTT spec.
var ErrMalformedPacket = errors.New("libnioev: malformed packet")

// ProtocolError is returned when the codec is structurally sound but a
// constraint the protocol places on the value is violated (a property
// repeated where only one instance is legal, a reason code not valid
// for the packet type). A QoS of 3 is reported as ErrMalformedPacket.
var ErrProtocolError = errors.New("libnioev: protocol error")

// NotFound is a reported outcome, not an error: a subscription removal
// addressed a filter that is not registered.
var ErrNotFound = errors.New("libnioev: not found")

// Rejected is the error form of a refused admission. Runtime.Enqueue
// and EnqueueDelayed report refusal as EnqueueRejected and do not
// return this error themselves.
var ErrRejected = errors.New("libnioev: task rejected")

// wrapf keeps a sentinel error's errors.Is identity while attaching
// context: packet codec functions return plain sentinels without
// fmt.Errorf wrapping for the common case and only wrap when extra
// detail earns its keep.
func wrapf(sentinel error, detail string) error {
	if detail == "" {
		return sentinel
	}
	return &detailedError{sentinel: sentinel, detail: detail}
}

type detailedError struct {
	sentinel error
	detail   string
}

func (e *detailedError) Error() string { return e.sentinel.Error() + ": " + e.detail }
func (e *detailedError) Unwrap() error { return e.sentinel }

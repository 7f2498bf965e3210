package libnioev

import "time"

// WillFromConnect extracts the last-will message and publish delay
// from a CONNECT packet's will fields, in the Message shape a
// PublishPacket already knows how to carry. A nil Message means the
// CONNECT had no will flag set.
//
// The delay returned is how long the broker should hold the will back
// after a session ends before publishing it (PropWillDelayInterval);
// scheduling that hold is a natural fit for Runtime.EnqueueDelayed
// rather than a bespoke timer, since the session-expiry race it also
// has to honor is exactly the "immediate drains before overdue
// delayed" ordering the worker runtime already guarantees.
func WillFromConnect(pkt *ConnectPacket) (msg *Message, delay time.Duration) {
	if !pkt.WillFlag {
		return nil, 0
	}

	msg = &Message{
		Topic:   pkt.WillTopic,
		Payload: pkt.WillPayload,
		QoS:     pkt.WillQoS,
		Retain:  pkt.WillRetain,
	}
	msg.FromProperties(&pkt.WillProps)

	delay = time.Duration(pkt.WillProps.GetUint32(PropWillDelayInterval)) * time.Second
	return msg, delay
}

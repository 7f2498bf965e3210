// Package libnioev is the core library layer of the nioev MQTT broker.
//
// It ships the primitives every broker built on top of nioev reuses:
// topic matching, a shared append/prepend byte buffer, an MQTT 3.1.1 /
// 5.0 wire codec, a wildcard subscription routing index, a typed serial
// worker-task runtime, and the protocol enumerations and property-type
// table they share.
//
// TCP/TLS acceptors, per-session state machines, persistence backends,
// the script/extension runtime, HTTP admin and configuration-file
// parsing are external collaborators; this package only models the
// interfaces they plug into (Session, RetainedStore, Authenticator).
//
// # Topic matching
//
//	ok := libnioev.ValidateTopicFilter("sensors/+/temp")
//	matched := libnioev.TopicMatch("sensors/+/temp", "sensors/room1/temp")
//
// # Subscription tree
//
//	tree := libnioev.NewTree[int]()
//	tree.Add("home/+/temp", 1)
//	tree.ForEveryMatch("home/kitchen/temp", func(s int) { ... })
//
// # Codec
//
//	buf := libnioev.NewBuffer()
//	pkt := &libnioev.PublishPacket{Topic: "a/b", QoS: 1, PacketID: 42, Payload: []byte{0xDE, 0xAD}}
//	err := pkt.Encode(buf)
//
// # Worker runtime
//
//	rt := libnioev.NewRuntime(libnioev.Handler[persistTask]{Handle: flush})
//	rt.Start()
//	defer rt.Stop()
//	rt.Enqueue(persistTask{...})
package libnioev

package peerwire

import "github.com/da2ce7/bittorrent-infrastructure-project/bencode"

// ExtensionHandshake is the decoded payload of the reserved sub_id=0
// Extension message: a bencoded dictionary whose "m" entry maps extension
// names to the sub-ids the sender will use for them (BEP-10).
type ExtensionHandshake struct {
	// NameToID maps an extension name (e.g. "ut_metadata") to the sub-id
	// the peer that sent this handshake wants it addressed as.
	NameToID map[string]uint8
}

// ParseExtensionHandshake decodes the bencoded body of a sub_id=0
// ExtensionMsg.
func ParseExtensionHandshake(body []byte) (*ExtensionHandshake, error) {
	v, _, err := bencode.Parse(body)
	if err != nil {
		return nil, &InvalidMessage{Detail: "extension handshake: " + err.Error()}
	}
	mDict, err := v.GetDict("m")
	if err != nil {
		return nil, &InvalidMessage{Detail: "extension handshake: " + err.Error()}
	}
	names := make(map[string]uint8, len(mDict.Dict()))
	for _, e := range mDict.Dict() {
		if e.Value.Kind() != bencode.KindInt {
			return nil, &InvalidMessage{Detail: "extension handshake: \"m\" entry not an integer"}
		}
		names[e.Key] = uint8(e.Value.Int())
	}
	return &ExtensionHandshake{NameToID: names}, nil
}

// Build encodes the handshake back into a bencoded "m" dictionary, ready to
// be wrapped in an ExtensionMsg{SubID: 0}.
func (h *ExtensionHandshake) Build() []byte {
	m := bencode.NewDict()
	for name, id := range h.NameToID {
		m.SetInt(name, int64(id))
	}
	root := bencode.NewDict().Set("m", m.Build()).Build()
	return root.Marshal()
}

// ExtensionTable is the bidirectional id<->name mapping negotiated by an
// ExtensionHandshake. It is mutated only by ObserveHandshake, so that a
// NestedPeerProtocol's id table is always consistent with the last
// handshake observed (spec §4.3, §9).
type ExtensionTable struct {
	idToName map[uint8]string
	nameToID map[string]uint8
}

// NewExtensionTable returns an empty table.
func NewExtensionTable() *ExtensionTable {
	return &ExtensionTable{idToName: map[uint8]string{}, nameToID: map[string]uint8{}}
}

// ObserveHandshake replaces the table's mapping with the one carried by h.
// Per spec §4.3/§9 this must be called before any subsequent frame that
// references one of the new ids is parsed.
func (t *ExtensionTable) ObserveHandshake(h *ExtensionHandshake) {
	t.idToName = make(map[uint8]string, len(h.NameToID))
	t.nameToID = make(map[string]uint8, len(h.NameToID))
	for name, id := range h.NameToID {
		t.idToName[id] = name
		t.nameToID[name] = id
	}
}

// NameForID looks up the extension name bound to sub-id id.
func (t *ExtensionTable) NameForID(id uint8) (string, bool) {
	name, ok := t.idToName[id]
	return name, ok
}

// IDForName looks up the sub-id bound to extension name.
func (t *ExtensionTable) IDForName(name string) (uint8, bool) {
	id, ok := t.nameToID[name]
	return id, ok
}

// NestedPeerProtocol is implemented by a sub-protocol layered over the
// Extension message (e.g. ut_metadata, ut_pex). ReceivedMessage and
// SentMessage are invoked atomically with respect to frame boundaries, so
// the nested parser's id table is updated before the next frame is
// consumed (spec §4.3).
type NestedPeerProtocol interface {
	ReceivedMessage(msg Message)
	SentMessage(msg Message)
}

// Dispatcher delivers decoded frames to zero or more NestedPeerProtocol
// observers and keeps an ExtensionTable current as handshakes arrive.
type Dispatcher struct {
	Table     *ExtensionTable
	observers []NestedPeerProtocol
}

// NewDispatcher returns a Dispatcher with a fresh, empty ExtensionTable.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{Table: NewExtensionTable()}
}

// Observe registers a nested protocol to receive ReceivedMessage/SentMessage
// callbacks.
func (d *Dispatcher) Observe(p NestedPeerProtocol) {
	d.observers = append(d.observers, p)
}

// Received processes one decoded inbound message: if it is an extension
// handshake (sub_id 0), the table is updated before observers are notified,
// guaranteeing later frames in the same read see the new mapping.
func (d *Dispatcher) Received(msg Message) error {
	if ext, ok := msg.(ExtensionMsg); ok && ext.SubID == 0 {
		hs, err := ParseExtensionHandshake(ext.Body)
		if err != nil {
			return err
		}
		d.Table.ObserveHandshake(hs)
	}
	for _, o := range d.observers {
		o.ReceivedMessage(msg)
	}
	return nil
}

// Sent processes one outbound message the same way Received does, for
// protocols that need to track their own handshake announcements.
func (d *Dispatcher) Sent(msg Message) error {
	if ext, ok := msg.(ExtensionMsg); ok && ext.SubID == 0 {
		hs, err := ParseExtensionHandshake(ext.Body)
		if err != nil {
			return err
		}
		d.Table.ObserveHandshake(hs)
	}
	for _, o := range d.observers {
		o.SentMessage(msg)
	}
	return nil
}

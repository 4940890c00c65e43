// Package peerwire implements the BitTorrent peer-wire message codec: the
// length-prefixed frame set of spec §4.3 (keepalive, choke/unchoke,
// interested/not-interested, have, bitfield, request, piece, cancel) plus
// the extension sub-protocol of BEP-10.
package peerwire

// ID identifies a peer-wire message type, carried as the single byte
// following the 4-byte length prefix.
type ID uint8

const (
	Choke         ID = 0
	Unchoke       ID = 1
	Interested    ID = 2
	NotInterested ID = 3
	Have          ID = 4
	Bitfield      ID = 5
	Request       ID = 6
	Piece         ID = 7
	Cancel        ID = 8
	Extension     ID = 20
)

func (id ID) String() string {
	switch id {
	case Choke:
		return "choke"
	case Unchoke:
		return "unchoke"
	case Interested:
		return "interested"
	case NotInterested:
		return "not_interested"
	case Have:
		return "have"
	case Bitfield:
		return "bitfield"
	case Request:
		return "request"
	case Piece:
		return "piece"
	case Cancel:
		return "cancel"
	case Extension:
		return "extension"
	default:
		return "unknown"
	}
}

// Message is any peer-wire message, including the zero-length keepalive.
// A type switch on the concrete type determines payload shape; ID() returns -1 for the keepalive since it carries no id byte.
type Message interface {
	// ID returns the message's wire id, or -1 for KeepAlive.
	ID() int
}

// KeepAlive is the zero-length frame sent to hold a connection open.
type KeepAlive struct{}

func (KeepAlive) ID() int { return -1 }

// ChokeMsg signals the sender will not fulfil requests until unchoked.
type ChokeMsg struct{}

func (ChokeMsg) ID() int { return int(Choke) }

// UnchokeMsg signals the sender will now fulfil requests.
type UnchokeMsg struct{}

func (UnchokeMsg) ID() int { return int(Unchoke) }

// InterestedMsg signals the sender wants blocks the receiver has.
type InterestedMsg struct{}

func (InterestedMsg) ID() int { return int(Interested) }

// NotInterestedMsg is the inverse of InterestedMsg.
type NotInterestedMsg struct{}

func (NotInterestedMsg) ID() int { return int(NotInterested) }

// HaveMsg announces possession of a single piece.
type HaveMsg struct {
	PieceIndex uint32
}

func (HaveMsg) ID() int { return int(Have) }

// BitfieldMsg announces which pieces the sender has, MSB-first within each
// byte. Bits is a borrowed view into the decoded frame unless the caller
// has cloned it.
type BitfieldMsg struct {
	Bits []byte
}

func (BitfieldMsg) ID() int { return int(Bitfield) }

// RequestMsg asks for a single block.
type RequestMsg struct {
	PieceIndex   uint32
	BlockOffset  uint32
	BlockLength  uint32
}

func (RequestMsg) ID() int { return int(Request) }

// PieceMsg carries one requested block. Block is a borrowed view into the
// decoded frame unless the caller has cloned it.
type PieceMsg struct {
	PieceIndex  uint32
	BlockOffset uint32
	Block       []byte
}

func (PieceMsg) ID() int { return int(Piece) }

// CancelMsg withdraws a previously sent RequestMsg.
type CancelMsg struct {
	PieceIndex  uint32
	BlockOffset uint32
	BlockLength uint32
}

func (CancelMsg) ID() int { return int(Cancel) }

// ExtensionMsg carries a sub-protocol frame dispatched by SubID, per the
// BEP-10 extension mechanism (spec §4.3, §9).
type ExtensionMsg struct {
	SubID uint8
	Body  []byte
}

func (ExtensionMsg) ID() int { return int(Extension) }

// Clone returns a message that no longer borrows from the buffer it was
// decoded from, copying Bits/Block/Body as needed (spec §9: "never leak
// the borrow across the callback boundary").
func Clone(msg Message) Message {
	switch m := msg.(type) {
	case BitfieldMsg:
		b := make([]byte, len(m.Bits))
		copy(b, m.Bits)
		return BitfieldMsg{Bits: b}
	case PieceMsg:
		b := make([]byte, len(m.Block))
		copy(b, m.Block)
		return PieceMsg{PieceIndex: m.PieceIndex, BlockOffset: m.BlockOffset, Block: b}
	case ExtensionMsg:
		b := make([]byte, len(m.Body))
		copy(b, m.Body)
		return ExtensionMsg{SubID: m.SubID, Body: b}
	default:
		return msg
	}
}

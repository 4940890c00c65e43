package peerwire

import (
	"io"

	"github.com/da2ce7/bittorrent-infrastructure-project/wire"
)

// DefaultMaxMessageSize bounds a single frame's payload, matching common
// client practice of rejecting anything larger than one oversized piece
// block plus header slack.
const DefaultMaxMessageSize = 1 << 17 // 128 KiB

// frameHeaderSize is the 4-byte length prefix.
const frameHeaderSize = 4

// BytesNeeded implements the codec contract of spec §4.3: it returns the
// total number of bytes (including the 4-byte length prefix) required to
// decode one complete message from the front of buf, ok=false if buf does
// not yet contain enough to know, or a *TooLarge error if the declared
// frame length exceeds maxMessageSize.
func BytesNeeded(buf []byte, maxMessageSize int) (n int, ok bool, err error) {
	if len(buf) < frameHeaderSize {
		return 0, false, nil
	}
	length, _ := wire.ReadUint32(buf[:frameHeaderSize])
	if length == 0 {
		return frameHeaderSize, true, nil // keepalive
	}
	if int(length) > maxMessageSize {
		return 0, false, &TooLarge{Declared: int(length), Max: maxMessageSize}
	}
	return frameHeaderSize + int(length), true, nil
}

// ParseBytes decodes exactly one message from buf[0:n], where n is the
// value previously returned by BytesNeeded. Behaviour is undefined if
// len(buf) < n (caller must respect BytesNeeded, per spec §4.3).
func ParseBytes(buf []byte) (Message, error) {
	length, _ := wire.ReadUint32(buf[:frameHeaderSize])
	if length == 0 {
		return KeepAlive{}, nil
	}
	body := buf[frameHeaderSize : frameHeaderSize+int(length)]
	id := ID(body[0])
	payload := body[1:]

	switch id {
	case Choke:
		return ChokeMsg{}, nil
	case Unchoke:
		return UnchokeMsg{}, nil
	case Interested:
		return InterestedMsg{}, nil
	case NotInterested:
		return NotInterestedMsg{}, nil
	case Have:
		if len(payload) != 4 {
			return nil, &InvalidMessage{Detail: "have: payload must be 4 bytes"}
		}
		idx, _ := wire.ReadUint32(payload)
		return HaveMsg{PieceIndex: idx}, nil
	case Bitfield:
		return BitfieldMsg{Bits: payload}, nil
	case Request:
		if len(payload) != 12 {
			return nil, &InvalidMessage{Detail: "request: payload must be 12 bytes"}
		}
		return RequestMsg{
			PieceIndex:  mustU32(payload[0:4]),
			BlockOffset: mustU32(payload[4:8]),
			BlockLength: mustU32(payload[8:12]),
		}, nil
	case Piece:
		if len(payload) < 8 {
			return nil, &InvalidMessage{Detail: "piece: payload shorter than 8-byte header"}
		}
		return PieceMsg{
			PieceIndex:  mustU32(payload[0:4]),
			BlockOffset: mustU32(payload[4:8]),
			Block:       payload[8:],
		}, nil
	case Cancel:
		if len(payload) != 12 {
			return nil, &InvalidMessage{Detail: "cancel: payload must be 12 bytes"}
		}
		return CancelMsg{
			PieceIndex:  mustU32(payload[0:4]),
			BlockOffset: mustU32(payload[4:8]),
			BlockLength: mustU32(payload[8:12]),
		}, nil
	case Extension:
		if len(payload) < 1 {
			return nil, &InvalidMessage{Detail: "extension: missing sub-id byte"}
		}
		return ExtensionMsg{SubID: payload[0], Body: payload[1:]}, nil
	default:
		return nil, &InvalidMessage{Detail: "unknown message id"}
	}
}

func mustU32(b []byte) uint32 {
	v, _ := wire.ReadUint32(b)
	return v
}

// MessageSize returns the exact number of bytes AppendBytes/WriteBytes
// would produce for msg, including the length prefix.
func MessageSize(msg Message) int {
	switch m := msg.(type) {
	case KeepAlive:
		return frameHeaderSize
	case ChokeMsg, UnchokeMsg, InterestedMsg, NotInterestedMsg:
		return frameHeaderSize + 1
	case HaveMsg:
		return frameHeaderSize + 1 + 4
	case BitfieldMsg:
		return frameHeaderSize + 1 + len(m.Bits)
	case RequestMsg, CancelMsg:
		return frameHeaderSize + 1 + 12
	case PieceMsg:
		return frameHeaderSize + 1 + 8 + len(m.Block)
	case ExtensionMsg:
		return frameHeaderSize + 1 + 1 + len(m.Body)
	default:
		return 0
	}
}

// AppendBytes appends the full wire frame for msg to dst and returns the
// extended slice.
func AppendBytes(dst []byte, msg Message) []byte {
	switch m := msg.(type) {
	case KeepAlive:
		return wire.PutUint32(dst, 0)
	case ChokeMsg:
		return appendHeader(dst, Choke, 0)
	case UnchokeMsg:
		return appendHeader(dst, Unchoke, 0)
	case InterestedMsg:
		return appendHeader(dst, Interested, 0)
	case NotInterestedMsg:
		return appendHeader(dst, NotInterested, 0)
	case HaveMsg:
		dst = appendHeader(dst, Have, 4)
		return wire.PutUint32(dst, m.PieceIndex)
	case BitfieldMsg:
		dst = appendHeader(dst, Bitfield, len(m.Bits))
		return append(dst, m.Bits...)
	case RequestMsg:
		dst = appendHeader(dst, Request, 12)
		dst = wire.PutUint32(dst, m.PieceIndex)
		dst = wire.PutUint32(dst, m.BlockOffset)
		return wire.PutUint32(dst, m.BlockLength)
	case CancelMsg:
		dst = appendHeader(dst, Cancel, 12)
		dst = wire.PutUint32(dst, m.PieceIndex)
		dst = wire.PutUint32(dst, m.BlockOffset)
		return wire.PutUint32(dst, m.BlockLength)
	case PieceMsg:
		dst = appendHeader(dst, Piece, 8+len(m.Block))
		dst = wire.PutUint32(dst, m.PieceIndex)
		dst = wire.PutUint32(dst, m.BlockOffset)
		return append(dst, m.Block...)
	case ExtensionMsg:
		dst = appendHeader(dst, Extension, 1+len(m.Body))
		dst = append(dst, m.SubID)
		return append(dst, m.Body...)
	default:
		return dst
	}
}

func appendHeader(dst []byte, id ID, payloadLen int) []byte {
	dst = wire.PutUint32(dst, uint32(1+payloadLen))
	return append(dst, byte(id))
}

// WriteBytes writes the full frame for msg to w and returns the number of
// bytes written, per the codec contract of spec §4.3.
func WriteBytes(w io.Writer, msg Message) (int, error) {
	buf := AppendBytes(make([]byte, 0, MessageSize(msg)), msg)
	n, err := w.Write(buf)
	return n, err
}

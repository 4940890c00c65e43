package peerwire

import (
	"github.com/da2ce7/bittorrent-infrastructure-project/wire"
)

// Pstr is the protocol string identifying BitTorrent 1.0.
const Pstr = "BitTorrent protocol"

// HandshakeSize is the fixed wire size of a Handshake: 1 + len(Pstr) + 8 + 20 + 20.
const HandshakeSize = 1 + len(Pstr) + 8 + 20 + 20

// ExtendedProtocolBit is reserved byte 5, bit 0x10 (BEP-10): the sender
// supports the Extension message.
const ExtendedProtocolBit = 0x10

// Handshake is the fixed-size exchange that precedes framed peer-wire
// messaging (spec §6).
type Handshake struct {
	Reserved [8]byte
	InfoHash wire.Hash20
	PeerID   wire.Hash20
}

// SupportsExtensions reports whether ExtendedProtocolBit is set.
func (h Handshake) SupportsExtensions() bool {
	return h.Reserved[5]&ExtendedProtocolBit != 0
}

// SetSupportsExtensions sets or clears ExtendedProtocolBit.
func (h *Handshake) SetSupportsExtensions(supported bool) {
	if supported {
		h.Reserved[5] |= ExtendedProtocolBit
	} else {
		h.Reserved[5] &^= ExtendedProtocolBit
	}
}

// ParseHandshake decodes a Handshake from the front of buf, which must be
// at least HandshakeSize bytes.
func ParseHandshake(buf []byte) (Handshake, error) {
	if err := wire.NeedBytes(buf, HandshakeSize); err != nil {
		return Handshake{}, err
	}
	if buf[0] != byte(len(Pstr)) {
		return Handshake{}, &wire.BadMagic{Field: "pstrlen"}
	}
	if string(buf[1:1+len(Pstr)]) != Pstr {
		return Handshake{}, &wire.BadMagic{Field: "pstr"}
	}
	var h Handshake
	copy(h.Reserved[:], buf[1+len(Pstr):1+len(Pstr)+8])
	infoHashOff := 1 + len(Pstr) + 8
	copy(h.InfoHash[:], buf[infoHashOff:infoHashOff+20])
	copy(h.PeerID[:], buf[infoHashOff+20:infoHashOff+40])
	return h, nil
}

// AppendHandshake appends the wire encoding of h to dst.
func AppendHandshake(dst []byte, h Handshake) []byte {
	dst = append(dst, byte(len(Pstr)))
	dst = append(dst, Pstr...)
	dst = append(dst, h.Reserved[:]...)
	dst = append(dst, h.InfoHash[:]...)
	dst = append(dst, h.PeerID[:]...)
	return dst
}

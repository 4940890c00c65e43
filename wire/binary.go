package wire

import (
	"encoding/binary"
	"net"
)

// Hash20 is a fixed 20-byte identifier: a NodeId, InfoHash, or PieceHash
// depending on context (spec §3). All three share the same wire shape.
type Hash20 [20]byte

// Hash20FromBytes copies b into a Hash20. b must be exactly 20 bytes.
func Hash20FromBytes(b []byte) (Hash20, error) {
	var h Hash20
	if len(b) != 20 {
		return h, &BadLength{Field: "Hash20", Value: int64(len(b)), Max: 20}
	}
	copy(h[:], b)
	return h, nil
}

func (h Hash20) Bytes() []byte { return h[:] }

// NeedBytes returns a ShortRead error if buf has fewer than n bytes.
func NeedBytes(buf []byte, n int) error {
	if len(buf) < n {
		return &ShortRead{Need: n, Have: len(buf)}
	}
	return nil
}

// ReadUint16 reads a big-endian uint16 at buf[0:2].
func ReadUint16(buf []byte) (uint16, error) {
	if err := NeedBytes(buf, 2); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf), nil
}

// ReadUint32 reads a big-endian uint32 at buf[0:4].
func ReadUint32(buf []byte) (uint32, error) {
	if err := NeedBytes(buf, 4); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf), nil
}

// ReadUint64 reads a big-endian uint64 at buf[0:8].
func ReadUint64(buf []byte) (uint64, error) {
	if err := NeedBytes(buf, 8); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf), nil
}

// PutUint16 appends a big-endian uint16 to dst.
func PutUint16(dst []byte, v uint16) []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return append(dst, b[:]...)
}

// PutUint32 appends a big-endian uint32 to dst.
func PutUint32(dst []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(dst, b[:]...)
}

// PutUint64 appends a big-endian uint64 to dst.
func PutUint64(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

// IPv4EndpointSize is the compact encoding size of an IPv4 endpoint.
const IPv4EndpointSize = 6

// IPv6EndpointSize is the compact encoding size of an IPv6 endpoint.
const IPv6EndpointSize = 18

// NodeInfoV4Size is the compact encoding size of a (NodeId, IPv4Endpoint)
// pair.
const NodeInfoV4Size = 20 + IPv4EndpointSize

// Endpoint is a decoded compact IPv4 or IPv6 endpoint.
type Endpoint struct {
	IP   net.IP
	Port uint16
}

// DecodeIPv4Endpoint parses a 6-byte compact IPv4 endpoint.
func DecodeIPv4Endpoint(buf []byte) (Endpoint, error) {
	if err := NeedBytes(buf, IPv4EndpointSize); err != nil {
		return Endpoint{}, err
	}
	ip := make(net.IP, 4)
	copy(ip, buf[0:4])
	port, _ := ReadUint16(buf[4:6])
	return Endpoint{IP: ip, Port: port}, nil
}

// EncodeIPv4Endpoint appends the 6-byte compact form of e to dst. e.IP must
// hold a 4-byte (or 4-in-16) IPv4 address.
func EncodeIPv4Endpoint(dst []byte, e Endpoint) ([]byte, error) {
	ip4 := e.IP.To4()
	if ip4 == nil {
		return nil, &BadLength{Field: "Endpoint.IP (v4)", Value: int64(len(e.IP)), Max: 4}
	}
	dst = append(dst, ip4...)
	dst = PutUint16(dst, e.Port)
	return dst, nil
}

// DecodeIPv6Endpoint parses an 18-byte compact IPv6 endpoint.
func DecodeIPv6Endpoint(buf []byte) (Endpoint, error) {
	if err := NeedBytes(buf, IPv6EndpointSize); err != nil {
		return Endpoint{}, err
	}
	ip := make(net.IP, 16)
	copy(ip, buf[0:16])
	port, _ := ReadUint16(buf[16:18])
	return Endpoint{IP: ip, Port: port}, nil
}

// EncodeIPv6Endpoint appends the 18-byte compact form of e to dst. e.IP must
// hold a 16-byte IPv6 address.
func EncodeIPv6Endpoint(dst []byte, e Endpoint) ([]byte, error) {
	ip16 := e.IP.To16()
	if ip16 == nil || e.IP.To4() != nil {
		return nil, &BadLength{Field: "Endpoint.IP (v6)", Value: int64(len(e.IP)), Max: 16}
	}
	dst = append(dst, ip16...)
	dst = PutUint16(dst, e.Port)
	return dst, nil
}

// CompactNode is a (NodeId, IPv4Endpoint) pair as carried in DHT
// find_node/get_peers responses.
type CompactNode struct {
	ID       Hash20
	Endpoint Endpoint
}

// DecodeCompactNodes parses a concatenation of 26-byte (NodeId, endpoint)
// entries. len(buf) must be a multiple of NodeInfoV4Size.
func DecodeCompactNodes(buf []byte) ([]CompactNode, error) {
	if len(buf)%NodeInfoV4Size != 0 {
		return nil, &BadLength{Field: "CompactNodeInfoV4", Value: int64(len(buf)), Max: int64(len(buf) - len(buf)%NodeInfoV4Size)}
	}
	nodes := make([]CompactNode, 0, len(buf)/NodeInfoV4Size)
	for off := 0; off < len(buf); off += NodeInfoV4Size {
		id, _ := Hash20FromBytes(buf[off : off+20])
		ep, err := DecodeIPv4Endpoint(buf[off+20 : off+NodeInfoV4Size])
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, CompactNode{ID: id, Endpoint: ep})
	}
	return nodes, nil
}

// EncodeCompactNodes appends the concatenated compact encoding of nodes to
// dst.
func EncodeCompactNodes(dst []byte, nodes []CompactNode) ([]byte, error) {
	for _, n := range nodes {
		dst = append(dst, n.ID.Bytes()...)
		var err error
		dst, err = EncodeIPv4Endpoint(dst, n.Endpoint)
		if err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// DecodeCompactValues parses a list of 6-byte compact IPv4 endpoints (DHT
// get_peers "values").
func DecodeCompactValues(raw [][]byte) ([]Endpoint, error) {
	values := make([]Endpoint, 0, len(raw))
	for _, v := range raw {
		ep, err := DecodeIPv4Endpoint(v)
		if err != nil {
			return nil, err
		}
		values = append(values, ep)
	}
	return values, nil
}

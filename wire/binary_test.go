package wire

import (
	"net"
	"testing"
)

func TestIPv4EndpointRoundTrip(t *testing.T) {
	e := Endpoint{IP: net.IPv4(192, 0, 2, 1), Port: 6881}
	buf, err := EncodeIPv4Endpoint(nil, e)
	if err != nil {
		t.Fatal(err)
	}
	if len(buf) != IPv4EndpointSize {
		t.Fatalf("got %d bytes, want %d", len(buf), IPv4EndpointSize)
	}
	got, err := DecodeIPv4Endpoint(buf)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IP.Equal(e.IP) || got.Port != e.Port {
		t.Errorf("got %+v, want %+v", got, e)
	}
}

func TestIPv6EndpointRoundTrip(t *testing.T) {
	e := Endpoint{IP: net.ParseIP("2001:db8::1"), Port: 443}
	buf, err := EncodeIPv6Endpoint(nil, e)
	if err != nil {
		t.Fatal(err)
	}
	if len(buf) != IPv6EndpointSize {
		t.Fatalf("got %d bytes, want %d", len(buf), IPv6EndpointSize)
	}
	got, err := DecodeIPv6Endpoint(buf)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IP.Equal(e.IP) || got.Port != e.Port {
		t.Errorf("got %+v, want %+v", got, e)
	}
}

func TestCompactNodesMultipleOf26(t *testing.T) {
	if _, err := DecodeCompactNodes(make([]byte, 27)); err == nil {
		t.Fatal("expected BadLength error for non-multiple-of-26 input")
	}

	var id Hash20
	for i := range id {
		id[i] = byte(i)
	}
	nodes := []CompactNode{{ID: id, Endpoint: Endpoint{IP: net.IPv4(10, 0, 0, 1), Port: 1}}}
	buf, err := EncodeCompactNodes(nil, nodes)
	if err != nil {
		t.Fatal(err)
	}
	if len(buf) != NodeInfoV4Size {
		t.Fatalf("got %d bytes, want %d", len(buf), NodeInfoV4Size)
	}
	got, err := DecodeCompactNodes(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != id {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestShortReadErrors(t *testing.T) {
	if _, err := ReadUint32([]byte{1, 2}); err == nil {
		t.Error("expected ShortRead error")
	}
	if _, err := DecodeIPv4Endpoint([]byte{1, 2, 3}); err == nil {
		t.Error("expected ShortRead error")
	}
}

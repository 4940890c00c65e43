package dht

import (
	"bytes"
	"testing"

	"github.com/da2ce7/bittorrent-infrastructure-project/bencode"
	"github.com/da2ce7/bittorrent-infrastructure-project/wire"
)

func zeroID() wire.Hash20 {
	var h wire.Hash20
	return h
}

func TestBuildQueryPingExactBytes(t *testing.T) {
	args := BuildPingArgs(zeroID())
	got := BuildQuery("aa", Ping, args)
	want := "d1:ad2:id20:" + string(bytes.Repeat([]byte{0}, 20)) + "e1:q4:ping1:t2:aa1:y1:qe"
	if string(got) != want {
		t.Fatalf("ping request mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestParseEnvelopeQuery(t *testing.T) {
	raw := BuildQuery("aa", Ping, BuildPingArgs(zeroID()))
	env, err := ParseEnvelope(raw)
	if err != nil {
		t.Fatalf("ParseEnvelope: %v", err)
	}
	if env.Type != TypeQuery || env.Query != Ping || env.TransactionID != "aa" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	args, err := DecodePingArgs(env.Args)
	if err != nil {
		t.Fatalf("DecodePingArgs: %v", err)
	}
	if args.ID != zeroID() {
		t.Fatalf("unexpected id: %v", args.ID)
	}
}

func TestParseEnvelopeError(t *testing.T) {
	raw := BuildError("bb", 201, "Server Error")
	env, err := ParseEnvelope(raw)
	if err != nil {
		t.Fatalf("ParseEnvelope: %v", err)
	}
	if env.Type != TypeError || env.ErrorCode != 201 || env.ErrorMessage != "Server Error" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestTransactionTableRoundTrip(t *testing.T) {
	tbl := NewTransactionTable()
	tbl.Register("aa", Ping)

	raw := BuildResponse("aa", BuildPingResult(zeroID()))
	env, err := ParseEnvelope(raw)
	if err != nil {
		t.Fatalf("ParseEnvelope: %v", err)
	}

	kind, result, err := tbl.Decode(env)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if kind != Ping {
		t.Fatalf("kind = %v, want Ping", kind)
	}
	pr, ok := result.(PingResult)
	if !ok || pr.ID != zeroID() {
		t.Fatalf("unexpected result: %+v", result)
	}
	if tbl.Len() != 0 {
		t.Fatalf("transaction should be resolved and removed")
	}
}

func TestTransactionTableUnsolicited(t *testing.T) {
	tbl := NewTransactionTable()
	raw := BuildResponse("zz", BuildPingResult(zeroID()))
	env, err := ParseEnvelope(raw)
	if err != nil {
		t.Fatalf("ParseEnvelope: %v", err)
	}
	_, _, err = tbl.Decode(env)
	if _, ok := err.(*UnsolicitedResponse); !ok {
		t.Fatalf("expected UnsolicitedResponse, got %v", err)
	}
}

func TestFindNodeRoundTrip(t *testing.T) {
	self := zeroID()
	target := wire.Hash20{1, 2, 3}
	raw := BuildQuery("a1", FindNode, BuildFindNodeArgs(self, target))
	env, err := ParseEnvelope(raw)
	if err != nil {
		t.Fatalf("ParseEnvelope: %v", err)
	}
	args, err := DecodeFindNodeArgs(env.Args)
	if err != nil {
		t.Fatalf("DecodeFindNodeArgs: %v", err)
	}
	if args.ID != self || args.Target != target {
		t.Fatalf("unexpected args: %+v", args)
	}

	nodes := []wire.CompactNode{
		{ID: wire.Hash20{9}, Endpoint: wire.Endpoint{IP: []byte{127, 0, 0, 1}, Port: 6881}},
	}
	respBuilder, err := BuildFindNodeResult(self, nodes)
	if err != nil {
		t.Fatalf("BuildFindNodeResult: %v", err)
	}
	respRaw := BuildResponse("a1", respBuilder)
	respEnv, err := ParseEnvelope(respRaw)
	if err != nil {
		t.Fatalf("ParseEnvelope: %v", err)
	}
	result, err := DecodeFindNodeResult(respEnv.Result)
	if err != nil {
		t.Fatalf("DecodeFindNodeResult: %v", err)
	}
	if len(result.Nodes) != 1 || result.Nodes[0].ID != nodes[0].ID {
		t.Fatalf("unexpected nodes: %+v", result.Nodes)
	}
}

func TestGetPeersRoundTripValues(t *testing.T) {
	self := zeroID()
	infoHash := wire.Hash20{5}
	values := []wire.Endpoint{{IP: []byte{10, 0, 0, 1}, Port: 1234}}

	builder, err := BuildGetPeersResultValues(self, []byte("tok"), values)
	if err != nil {
		t.Fatalf("BuildGetPeersResultValues: %v", err)
	}
	raw := BuildResponse("g1", builder)
	env, err := ParseEnvelope(raw)
	if err != nil {
		t.Fatalf("ParseEnvelope: %v", err)
	}
	result, err := DecodeGetPeersResult(env.Result)
	if err != nil {
		t.Fatalf("DecodeGetPeersResult: %v", err)
	}
	if string(result.Token) != "tok" || len(result.Values) != 1 || result.Values[0].Port != 1234 {
		t.Fatalf("unexpected result: %+v", result)
	}
	_ = infoHash
}

func TestAnnouncePeerImpliedPort(t *testing.T) {
	self := zeroID()
	infoHash := wire.Hash20{7}

	implied := BuildAnnouncePeerArgs(self, infoHash, []byte("tok"), ConnectPort{Implied: true})
	raw := BuildQuery("p1", AnnouncePeer, implied)
	env, err := ParseEnvelope(raw)
	if err != nil {
		t.Fatalf("ParseEnvelope: %v", err)
	}
	args, err := DecodeAnnouncePeerArgs(env.Args)
	if err != nil {
		t.Fatalf("DecodeAnnouncePeerArgs: %v", err)
	}
	if !args.Port.Implied {
		t.Fatalf("expected implied port regardless of port value")
	}
	if got := args.Port.Resolve(51413); got != 51413 {
		t.Fatalf("Resolve(implied) = %d, want 51413", got)
	}

	explicit := BuildAnnouncePeerArgs(self, infoHash, []byte("tok"), ConnectPort{Port: 6881})
	raw2 := BuildQuery("p2", AnnouncePeer, explicit)
	env2, err := ParseEnvelope(raw2)
	if err != nil {
		t.Fatalf("ParseEnvelope: %v", err)
	}
	args2, err := DecodeAnnouncePeerArgs(env2.Args)
	if err != nil {
		t.Fatalf("DecodeAnnouncePeerArgs: %v", err)
	}
	if args2.Port.Implied {
		t.Fatalf("expected explicit port")
	}
	if got := args2.Port.Resolve(9999); got != 6881 {
		t.Fatalf("Resolve(explicit) = %d, want 6881", got)
	}
}

func TestValidationRejectsShortNodeID(t *testing.T) {
	shortID := bencode.NewDict().SetBytes("id", []byte{1, 2, 3})
	raw := BuildQuery("x1", Ping, shortID)
	env, err := ParseEnvelope(raw)
	if err != nil {
		t.Fatalf("ParseEnvelope: %v", err)
	}
	_, err = DecodePingArgs(env.Args)
	if err == nil {
		t.Fatalf("expected InvalidResponse for short id")
	}
}

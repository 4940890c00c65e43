// Package dht implements the BitTorrent mainline DHT message codec: ping,
// find_node, get_peers, and announce_peer requests/responses/errors over
// bencoded dictionaries (BEP-5), plus a Kademlia routing table to give the
// codec somewhere to land (spec §4.4).
package dht

import (
	"github.com/da2ce7/bittorrent-infrastructure-project/bencode"
)

// QueryKind names a DHT query type, using the exact bencode wire string.
type QueryKind string

const (
	Ping         QueryKind = "ping"
	FindNode     QueryKind = "find_node"
	GetPeers     QueryKind = "get_peers"
	AnnouncePeer QueryKind = "announce_peer"
)

// EnvelopeType is the value of the top-level "y" key.
type EnvelopeType string

const (
	TypeQuery    EnvelopeType = "q"
	TypeResponse EnvelopeType = "r"
	TypeError    EnvelopeType = "e"
)

// Envelope is the classified, but not yet kind-decoded, top level of a DHT
// message (spec §4.4).
type Envelope struct {
	TransactionID string
	Type          EnvelopeType

	// Valid when Type == TypeQuery.
	Query QueryKind
	Args  bencode.Value

	// Valid when Type == TypeResponse. Kind-specific decoding requires the
	// caller's expected-response table (see TransactionTable).
	Result bencode.Value

	// Valid when Type == TypeError.
	ErrorCode    int64
	ErrorMessage string
}

// ParseEnvelope classifies a raw DHT datagram by its "y" key.
func ParseEnvelope(data []byte) (Envelope, error) {
	v, _, err := bencode.Parse(data)
	if err != nil {
		return Envelope{}, &InvalidValue{Detail: err.Error()}
	}
	if v.Kind() != bencode.KindDict {
		return Envelope{}, &InvalidValue{Detail: "message is not a dictionary"}
	}

	tid, err := v.GetBytes("t")
	if err != nil {
		return Envelope{}, &InvalidValue{Detail: "missing transaction id: " + err.Error()}
	}
	y, err := v.GetBytes("y")
	if err != nil {
		return Envelope{}, &InvalidValue{Detail: "missing \"y\": " + err.Error()}
	}

	env := Envelope{TransactionID: string(tid)}

	switch EnvelopeType(y) {
	case TypeQuery:
		q, err := v.GetBytes("q")
		if err != nil {
			return Envelope{}, &InvalidValue{Detail: "query missing \"q\": " + err.Error()}
		}
		args, err := v.GetDict("a")
		if err != nil {
			return Envelope{}, &InvalidValue{Detail: "query missing \"a\": " + err.Error()}
		}
		env.Type = TypeQuery
		env.Query = QueryKind(q)
		env.Args = args
		return env, nil

	case TypeResponse:
		r, err := v.GetDict("r")
		if err != nil {
			return Envelope{}, &InvalidValue{Detail: "response missing \"r\": " + err.Error()}
		}
		env.Type = TypeResponse
		env.Result = r
		return env, nil

	case TypeError:
		list, err := v.GetList("e")
		if err != nil || len(list) != 2 {
			return Envelope{}, &InvalidValue{Detail: "malformed error list"}
		}
		if list[0].Kind() != bencode.KindInt || list[1].Kind() != bencode.KindBytes {
			return Envelope{}, &InvalidValue{Detail: "error list has wrong element kinds"}
		}
		env.Type = TypeError
		env.ErrorCode = list[0].Int()
		env.ErrorMessage = string(list[1].Bytes())
		return env, nil

	default:
		return Envelope{}, &InvalidValue{Detail: "unknown envelope type " + string(y)}
	}
}

// BuildQuery encodes a query envelope. args must already carry the
// kind-specific "a" dictionary contents (id, target, info_hash, ...).
func BuildQuery(transactionID string, kind QueryKind, args *bencode.DictBuilder) []byte {
	root := bencode.NewDict().
		SetString("t", transactionID).
		SetString("y", string(TypeQuery)).
		SetString("q", string(kind)).
		Set("a", args.Build()).
		Build()
	return root.Marshal()
}

// BuildResponse encodes a response envelope.
func BuildResponse(transactionID string, result *bencode.DictBuilder) []byte {
	root := bencode.NewDict().
		SetString("t", transactionID).
		SetString("y", string(TypeResponse)).
		Set("r", result.Build()).
		Build()
	return root.Marshal()
}

// BuildError encodes an error envelope.
func BuildError(transactionID string, code int64, message string) []byte {
	root := bencode.NewDict().
		SetString("t", transactionID).
		SetString("y", string(TypeError)).
		Set("e", bencode.NewList(bencode.NewInt(code), bencode.NewString(message))).
		Build()
	return root.Marshal()
}

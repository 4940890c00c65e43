package dht

import (
	"github.com/da2ce7/bittorrent-infrastructure-project/bencode"
	"github.com/da2ce7/bittorrent-infrastructure-project/wire"
)

func decodeHash20(v bencode.Value, key string) (wire.Hash20, error) {
	b, err := v.GetBytes(key)
	if err != nil {
		return wire.Hash20{}, &InvalidResponse{Detail: key + ": " + err.Error()}
	}
	h, err := wire.Hash20FromBytes(b)
	if err != nil {
		return wire.Hash20{}, &InvalidResponse{Detail: key + ": " + err.Error()}
	}
	return h, nil
}

// PingArgs/PingResult both carry only the sender's id.
type PingArgs struct{ ID wire.Hash20 }

func DecodePingArgs(args bencode.Value) (PingArgs, error) {
	id, err := decodeHash20(args, "id")
	if err != nil {
		return PingArgs{}, err
	}
	return PingArgs{ID: id}, nil
}

func BuildPingArgs(id wire.Hash20) *bencode.DictBuilder {
	return bencode.NewDict().SetBytes("id", id.Bytes())
}

type PingResult struct{ ID wire.Hash20 }

func DecodePingResult(result bencode.Value) (PingResult, error) {
	id, err := decodeHash20(result, "id")
	if err != nil {
		return PingResult{}, err
	}
	return PingResult{ID: id}, nil
}

func BuildPingResult(id wire.Hash20) *bencode.DictBuilder {
	return bencode.NewDict().SetBytes("id", id.Bytes())
}

// FindNodeArgs requests the contacts closest to Target.
type FindNodeArgs struct {
	ID     wire.Hash20
	Target wire.Hash20
}

func DecodeFindNodeArgs(args bencode.Value) (FindNodeArgs, error) {
	id, err := decodeHash20(args, "id")
	if err != nil {
		return FindNodeArgs{}, err
	}
	target, err := decodeHash20(args, "target")
	if err != nil {
		return FindNodeArgs{}, err
	}
	return FindNodeArgs{ID: id, Target: target}, nil
}

func BuildFindNodeArgs(id, target wire.Hash20) *bencode.DictBuilder {
	return bencode.NewDict().SetBytes("id", id.Bytes()).SetBytes("target", target.Bytes())
}

type FindNodeResult struct {
	ID    wire.Hash20
	Nodes []wire.CompactNode
}

func DecodeFindNodeResult(result bencode.Value) (FindNodeResult, error) {
	id, err := decodeHash20(result, "id")
	if err != nil {
		return FindNodeResult{}, err
	}
	raw, err := result.GetBytes("nodes")
	if err != nil {
		return FindNodeResult{}, &InvalidResponse{Detail: "nodes: " + err.Error()}
	}
	nodes, err := wire.DecodeCompactNodes(raw)
	if err != nil {
		return FindNodeResult{}, &InvalidResponse{Detail: "nodes: " + err.Error()}
	}
	return FindNodeResult{ID: id, Nodes: nodes}, nil
}

func BuildFindNodeResult(id wire.Hash20, nodes []wire.CompactNode) (*bencode.DictBuilder, error) {
	raw, err := wire.EncodeCompactNodes(nil, nodes)
	if err != nil {
		return nil, err
	}
	return bencode.NewDict().SetBytes("id", id.Bytes()).SetBytes("nodes", raw), nil
}

// GetPeersArgs requests peers (or closest nodes) for InfoHash.
type GetPeersArgs struct {
	ID       wire.Hash20
	InfoHash wire.Hash20
}

func DecodeGetPeersArgs(args bencode.Value) (GetPeersArgs, error) {
	id, err := decodeHash20(args, "id")
	if err != nil {
		return GetPeersArgs{}, err
	}
	ih, err := decodeHash20(args, "info_hash")
	if err != nil {
		return GetPeersArgs{}, err
	}
	return GetPeersArgs{ID: id, InfoHash: ih}, nil
}

func BuildGetPeersArgs(id, infoHash wire.Hash20) *bencode.DictBuilder {
	return bencode.NewDict().SetBytes("id", id.Bytes()).SetBytes("info_hash", infoHash.Bytes())
}

// GetPeersResult carries a token plus either Values (direct peer contacts)
// or Nodes (closer nodes to continue the search at), per spec §4.4.
type GetPeersResult struct {
	ID     wire.Hash20
	Token  []byte
	Values []wire.Endpoint
	Nodes  []wire.CompactNode
}

func DecodeGetPeersResult(result bencode.Value) (GetPeersResult, error) {
	id, err := decodeHash20(result, "id")
	if err != nil {
		return GetPeersResult{}, err
	}
	token, err := result.GetBytes("token")
	if err != nil {
		return GetPeersResult{}, &InvalidResponse{Detail: "token: " + err.Error()}
	}

	out := GetPeersResult{ID: id, Token: token}

	if values, verr := result.GetList("values"); verr == nil {
		raw := make([][]byte, 0, len(values))
		for _, e := range values {
			if e.Kind() != bencode.KindBytes {
				return GetPeersResult{}, &InvalidResponse{Detail: "values: element is not a byte string"}
			}
			raw = append(raw, e.Bytes())
		}
		eps, err := wire.DecodeCompactValues(raw)
		if err != nil {
			return GetPeersResult{}, &InvalidResponse{Detail: "values: " + err.Error()}
		}
		out.Values = eps
		return out, nil
	}

	nodesRaw, nerr := result.GetBytes("nodes")
	if nerr != nil {
		return GetPeersResult{}, &InvalidResponse{Detail: "get_peers response has neither values nor nodes"}
	}
	nodes, err := wire.DecodeCompactNodes(nodesRaw)
	if err != nil {
		return GetPeersResult{}, &InvalidResponse{Detail: "nodes: " + err.Error()}
	}
	out.Nodes = nodes
	return out, nil
}

func BuildGetPeersResultValues(id wire.Hash20, token []byte, values []wire.Endpoint) (*bencode.DictBuilder, error) {
	items := make([]bencode.Builder, 0, len(values))
	for _, ep := range values {
		raw, err := wire.EncodeIPv4Endpoint(nil, ep)
		if err != nil {
			return nil, err
		}
		items = append(items, bencode.NewBytes(raw))
	}
	return bencode.NewDict().
		SetBytes("id", id.Bytes()).
		SetBytes("token", token).
		Set("values", bencode.NewList(items...)), nil
}

func BuildGetPeersResultNodes(id wire.Hash20, token []byte, nodes []wire.CompactNode) (*bencode.DictBuilder, error) {
	raw, err := wire.EncodeCompactNodes(nil, nodes)
	if err != nil {
		return nil, err
	}
	return bencode.NewDict().
		SetBytes("id", id.Bytes()).
		SetBytes("token", token).
		SetBytes("nodes", raw), nil
}

// ConnectPort is the resolved port an announce_peer request should register,
// either taken from the datagram's source port (Implied) or the request's
// explicit Port field.
type ConnectPort struct {
	Implied bool
	Port    uint16
}

// Resolve returns the port to register a peer under, given the UDP source
// port of the announce_peer datagram.
func (c ConnectPort) Resolve(sourcePort uint16) uint16 {
	if c.Implied {
		return sourcePort
	}
	return c.Port
}

// AnnouncePeerArgs is the decoded announce_peer request.
type AnnouncePeerArgs struct {
	ID       wire.Hash20
	InfoHash wire.Hash20
	Token    []byte
	Port     ConnectPort
}

// DecodeAnnouncePeerArgs decodes an announce_peer request. Per spec §4.4,
// any non-zero "implied_port" value (not just 1) is treated as "implied",
// an intentional relaxation of BEP-5's "0 or 1" wording (§9 Open question).
func DecodeAnnouncePeerArgs(args bencode.Value) (AnnouncePeerArgs, error) {
	id, err := decodeHash20(args, "id")
	if err != nil {
		return AnnouncePeerArgs{}, err
	}
	ih, err := decodeHash20(args, "info_hash")
	if err != nil {
		return AnnouncePeerArgs{}, err
	}
	token, err := args.GetBytes("token")
	if err != nil {
		return AnnouncePeerArgs{}, &InvalidResponse{Detail: "token: " + err.Error()}
	}
	port, err := args.GetInt("port")
	if err != nil {
		return AnnouncePeerArgs{}, &InvalidResponse{Detail: "port: " + err.Error()}
	}

	cp := ConnectPort{Port: uint16(port)}
	if implied, ierr := args.GetInt("implied_port"); ierr == nil && implied != 0 {
		cp.Implied = true
	}

	return AnnouncePeerArgs{ID: id, InfoHash: ih, Token: token, Port: cp}, nil
}

// BuildAnnouncePeerArgs always emits both "port" and "implied_port" (with
// port=0 when implied_port=1), per spec §4.4's encoding rule for broader
// server compatibility.
func BuildAnnouncePeerArgs(id, infoHash wire.Hash20, token []byte, port ConnectPort) *bencode.DictBuilder {
	d := bencode.NewDict().
		SetBytes("id", id.Bytes()).
		SetBytes("info_hash", infoHash.Bytes()).
		SetBytes("token", token)
	if port.Implied {
		d.SetInt("implied_port", 1).SetInt("port", 0)
	} else {
		d.SetInt("implied_port", 0).SetInt("port", int64(port.Port))
	}
	return d
}

// AnnouncePeerResult carries only the responder's id, identical in shape to
// PingResult.
type AnnouncePeerResult = PingResult

func DecodeAnnouncePeerResult(result bencode.Value) (AnnouncePeerResult, error) {
	return DecodePingResult(result)
}

func BuildAnnouncePeerResult(id wire.Hash20) *bencode.DictBuilder {
	return BuildPingResult(id)
}

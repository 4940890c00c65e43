// Package trackerudp implements the BitTorrent UDP tracker wire protocol
// (BEP-15): connect, announce (v4/v6), and scrape request/response framing
// over a fixed connection-id/action/transaction-id header.
package trackerudp

import (
	"net"

	"github.com/da2ce7/bittorrent-infrastructure-project/wire"
)

// Action identifies the kind of UDP tracker message, per spec §4.5.
type Action uint32

const (
	ActionConnect    Action = 0
	ActionAnnounce   Action = 1
	ActionScrape     Action = 2
	ActionError      Action = 3
	ActionAnnounceV6 Action = 4
)

// Event mirrors BEP-15's announce event enum.
type Event uint32

const (
	EventNone      Event = 0
	EventCompleted Event = 1
	EventStarted   Event = 2
	EventStopped   Event = 3
)

// InitialConnectionID is the magic connection id a Connect request must
// carry (spec §4.5, §8 scenario 4).
const InitialConnectionID uint64 = 0x0000041727101980

const headerSize = 16 // connection_id(8) + action(4) + transaction_id(4)

// header is the client-to-tracker request framing: connection_id, then
// action, then transaction_id.
type header struct {
	ConnectionID  uint64
	Action        Action
	TransactionID uint32
}

func parseHeader(buf []byte) (header, []byte, error) {
	if err := wire.NeedBytes(buf, headerSize); err != nil {
		return header{}, nil, err
	}
	connID, _ := wire.ReadUint64(buf[0:8])
	action, _ := wire.ReadUint32(buf[8:12])
	tid, _ := wire.ReadUint32(buf[12:16])
	return header{ConnectionID: connID, Action: Action(action), TransactionID: tid}, buf[headerSize:], nil
}

func appendHeader(dst []byte, connID uint64, action Action, tid uint32) []byte {
	dst = wire.PutUint64(dst, connID)
	dst = wire.PutUint32(dst, uint32(action))
	dst = wire.PutUint32(dst, tid)
	return dst
}

const responseHeaderSize = 8 // action(4) + transaction_id(4); no connection_id on responses

// respHeader is the tracker-to-client response framing: action, then
// transaction_id. Unlike requests, responses carry no connection_id field
// (the connect response's connection id lives in its body instead).
type respHeader struct {
	Action        Action
	TransactionID uint32
}

func parseRespHeader(buf []byte) (respHeader, []byte, error) {
	if err := wire.NeedBytes(buf, responseHeaderSize); err != nil {
		return respHeader{}, nil, err
	}
	action, _ := wire.ReadUint32(buf[0:4])
	tid, _ := wire.ReadUint32(buf[4:8])
	return respHeader{Action: Action(action), TransactionID: tid}, buf[responseHeaderSize:], nil
}

func appendRespHeader(dst []byte, action Action, tid uint32) []byte {
	dst = wire.PutUint32(dst, uint32(action))
	dst = wire.PutUint32(dst, tid)
	return dst
}

// ConnectRequest asks for a fresh connection id. It always carries
// InitialConnectionID.
type ConnectRequest struct {
	TransactionID uint32
}

// ConnectResponse carries the connection id to use for subsequent
// announce/scrape requests.
type ConnectResponse struct {
	TransactionID uint32
	ConnectionID  uint64
}

// AnnounceRequest is a v4 or v6 announce request, discriminated by IP's
// address family (nil is written as 0.0.0.0 in a v4 request, letting the
// tracker use the datagram's source address).
type AnnounceRequest struct {
	ConnectionID  uint64
	TransactionID uint32
	InfoHash      wire.Hash20
	PeerID        wire.Hash20
	Downloaded    uint64
	Left          uint64
	Uploaded      uint64
	Event         Event
	IP            net.IP
	Key           uint32
	NumWant       int32
	Port          uint16
}

// AnnounceResponse is the tracker's reply to an AnnounceRequest.
type AnnounceResponse struct {
	TransactionID uint32
	Interval      uint32
	Leechers      uint32
	Seeders       uint32
	Peers         []wire.Endpoint
}

// ScrapeRequest asks for swarm statistics on one or more torrents.
type ScrapeRequest struct {
	ConnectionID  uint64
	TransactionID uint32
	InfoHashes    []wire.Hash20
}

// ScrapeResult is the per-info-hash statistics block in a ScrapeResponse.
type ScrapeResult struct {
	Seeders   uint32
	Completed uint32
	Leechers  uint32
}

// ScrapeResponse carries one ScrapeResult per info_hash of the request, in
// the same order.
type ScrapeResponse struct {
	TransactionID uint32
	Results       []ScrapeResult
}

// ErrorResponse is an action=3 response: a UTF-8 diagnostic from the
// tracker (spec §4.5).
type ErrorResponse struct {
	TransactionID uint32
	Message       string
}

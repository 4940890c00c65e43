package trackerudp

import (
	"net"

	"github.com/da2ce7/bittorrent-infrastructure-project/wire"
)

const (
	announceBodyV4Size = 20 + 20 + 8 + 8 + 8 + 4 + 4 + 4 + 4 + 2 // infohash,peerid,down,left,up,event,ip,key,numwant,port
	announceBodyV6Size = announceBodyV4Size + 12                // ip grows from 4 to 16 bytes
)

// ParseRequest classifies and decodes a client-to-tracker datagram by its
// action field. The concrete return type is one of *ConnectRequest,
// *AnnounceRequest, or *ScrapeRequest.
func ParseRequest(buf []byte) (interface{}, error) {
	hdr, body, err := parseHeader(buf)
	if err != nil {
		return nil, err
	}

	switch hdr.Action {
	case ActionConnect:
		if hdr.ConnectionID != InitialConnectionID {
			return nil, &InvalidResponse{Detail: "connect request missing magic connection id"}
		}
		return &ConnectRequest{TransactionID: hdr.TransactionID}, nil

	case ActionAnnounce:
		return parseAnnounceBody(hdr, body, false)

	case ActionAnnounceV6:
		return parseAnnounceBody(hdr, body, true)

	case ActionScrape:
		return parseScrapeBody(hdr, body)

	default:
		return nil, &UnknownAction{Action: uint32(hdr.Action)}
	}
}

func parseAnnounceBody(hdr header, body []byte, v6 bool) (*AnnounceRequest, error) {
	size := announceBodyV4Size
	ipLen := 4
	if v6 {
		size = announceBodyV6Size
		ipLen = 16
	}
	if err := wire.NeedBytes(body, size); err != nil {
		return nil, err
	}

	infoHash, _ := wire.Hash20FromBytes(body[0:20])
	peerID, _ := wire.Hash20FromBytes(body[20:40])
	downloaded, _ := wire.ReadUint64(body[40:48])
	left, _ := wire.ReadUint64(body[48:56])
	uploaded, _ := wire.ReadUint64(body[56:64])
	event, _ := wire.ReadUint32(body[64:68])

	ipEnd := 68 + ipLen
	ip := make(net.IP, ipLen)
	copy(ip, body[68:ipEnd])

	key, _ := wire.ReadUint32(body[ipEnd : ipEnd+4])
	numWant, _ := wire.ReadUint32(body[ipEnd+4 : ipEnd+8])
	port, _ := wire.ReadUint16(body[ipEnd+8 : ipEnd+10])

	return &AnnounceRequest{
		ConnectionID:  hdr.ConnectionID,
		TransactionID: hdr.TransactionID,
		InfoHash:      infoHash,
		PeerID:        peerID,
		Downloaded:    downloaded,
		Left:          left,
		Uploaded:      uploaded,
		Event:         Event(event),
		IP:            ip,
		Key:           key,
		NumWant:       int32(numWant),
		Port:          port,
	}, nil
}

func parseScrapeBody(hdr header, body []byte) (*ScrapeRequest, error) {
	if len(body) == 0 || len(body)%20 != 0 {
		return nil, &InvalidResponse{Detail: "scrape body is not a multiple of 20 bytes"}
	}
	hashes := make([]wire.Hash20, 0, len(body)/20)
	for off := 0; off < len(body); off += 20 {
		h, _ := wire.Hash20FromBytes(body[off : off+20])
		hashes = append(hashes, h)
	}
	return &ScrapeRequest{ConnectionID: hdr.ConnectionID, TransactionID: hdr.TransactionID, InfoHashes: hashes}, nil
}

// WriteConnect encodes a connect request.
func WriteConnect(dst []byte, transactionID uint32) []byte {
	return appendHeader(dst, InitialConnectionID, ActionConnect, transactionID)
}

// WriteConnectResponse encodes a connect response.
func WriteConnectResponse(dst []byte, resp ConnectResponse) []byte {
	dst = appendRespHeader(dst, ActionConnect, resp.TransactionID)
	dst = wire.PutUint64(dst, resp.ConnectionID)
	return dst
}

// WriteAnnounce encodes an announce request. The action code (1 or 4) is
// chosen by examining req.IP's address family.
func WriteAnnounce(dst []byte, req AnnounceRequest) ([]byte, error) {
	v6 := false
	ip := req.IP
	if ip == nil {
		ip = net.IPv4zero
	}
	if ip4 := ip.To4(); ip4 != nil {
		ip = ip4
	} else if ip16 := ip.To16(); ip16 != nil {
		ip = ip16
		v6 = true
	} else {
		return nil, &InvalidResponse{Detail: "announce request has no usable IP"}
	}

	action := ActionAnnounce
	if v6 {
		action = ActionAnnounceV6
	}

	dst = appendHeader(dst, req.ConnectionID, action, req.TransactionID)
	dst = append(dst, req.InfoHash.Bytes()...)
	dst = append(dst, req.PeerID.Bytes()...)
	dst = wire.PutUint64(dst, req.Downloaded)
	dst = wire.PutUint64(dst, req.Left)
	dst = wire.PutUint64(dst, req.Uploaded)
	dst = wire.PutUint32(dst, uint32(req.Event))
	dst = append(dst, ip...)
	dst = wire.PutUint32(dst, req.Key)
	dst = wire.PutUint32(dst, uint32(req.NumWant))
	dst = wire.PutUint16(dst, req.Port)
	return dst, nil
}

// WriteScrape encodes a scrape request.
func WriteScrape(dst []byte, req ScrapeRequest) []byte {
	dst = appendHeader(dst, req.ConnectionID, ActionScrape, req.TransactionID)
	for _, h := range req.InfoHashes {
		dst = append(dst, h.Bytes()...)
	}
	return dst
}

// ParseResponse classifies and decodes a tracker-to-client datagram. The
// caller must already know which request kind it expects (via the
// transaction id) because responses carry no announce-vs-scrape
// discriminator of their own for the success case; pass the Action the
// caller is expecting.
func ParseResponse(buf []byte, expect Action) (interface{}, error) {
	hdr, body, err := parseRespHeader(buf)
	if err != nil {
		return nil, err
	}
	if hdr.Action == ActionError {
		return &ErrorResponse{TransactionID: hdr.TransactionID, Message: string(body)}, nil
	}
	if hdr.Action != expect {
		return nil, &InvalidResponse{Detail: "response action does not match expected request kind"}
	}

	switch expect {
	case ActionConnect:
		if err := wire.NeedBytes(body, 8); err != nil {
			return nil, err
		}
		connID, _ := wire.ReadUint64(body[0:8])
		return &ConnectResponse{TransactionID: hdr.TransactionID, ConnectionID: connID}, nil

	case ActionAnnounce, ActionAnnounceV6:
		return parseAnnounceResponseBody(hdr, body, expect == ActionAnnounceV6)

	case ActionScrape:
		return parseScrapeResponseBody(hdr, body)

	default:
		return nil, &UnknownAction{Action: uint32(expect)}
	}
}

func parseAnnounceResponseBody(hdr respHeader, body []byte, v6 bool) (*AnnounceResponse, error) {
	if err := wire.NeedBytes(body, 12); err != nil {
		return nil, err
	}
	interval, _ := wire.ReadUint32(body[0:4])
	leechers, _ := wire.ReadUint32(body[4:8])
	seeders, _ := wire.ReadUint32(body[8:12])

	rest := body[12:]
	epSize := wire.IPv4EndpointSize
	if v6 {
		epSize = wire.IPv6EndpointSize
	}
	if len(rest)%epSize != 0 {
		return nil, &InvalidResponse{Detail: "announce response peer list has a trailing partial entry"}
	}

	peers := make([]wire.Endpoint, 0, len(rest)/epSize)
	for off := 0; off < len(rest); off += epSize {
		var ep wire.Endpoint
		var err error
		if v6 {
			ep, err = wire.DecodeIPv6Endpoint(rest[off : off+epSize])
		} else {
			ep, err = wire.DecodeIPv4Endpoint(rest[off : off+epSize])
		}
		if err != nil {
			return nil, err
		}
		peers = append(peers, ep)
	}

	return &AnnounceResponse{
		TransactionID: hdr.TransactionID,
		Interval:      interval,
		Leechers:      leechers,
		Seeders:       seeders,
		Peers:         peers,
	}, nil
}

func parseScrapeResponseBody(hdr respHeader, body []byte) (*ScrapeResponse, error) {
	if len(body)%12 != 0 {
		return nil, &InvalidResponse{Detail: "scrape response is not a multiple of 12 bytes"}
	}
	results := make([]ScrapeResult, 0, len(body)/12)
	for off := 0; off < len(body); off += 12 {
		seeders, _ := wire.ReadUint32(body[off : off+4])
		completed, _ := wire.ReadUint32(body[off+4 : off+8])
		leechers, _ := wire.ReadUint32(body[off+8 : off+12])
		results = append(results, ScrapeResult{Seeders: seeders, Completed: completed, Leechers: leechers})
	}
	return &ScrapeResponse{TransactionID: hdr.TransactionID, Results: results}, nil
}

// WriteAnnounceResponse encodes a tracker's announce response. v6 selects
// ActionAnnounceV6 and the 18-byte compact IPv6 endpoint encoding for
// resp.Peers, symmetric to ParseResponse/parseAnnounceResponseBody's v6
// flag; pass false for ActionAnnounce's 6-byte IPv4 encoding.
func WriteAnnounceResponse(dst []byte, resp AnnounceResponse, v6 bool) ([]byte, error) {
	action := ActionAnnounce
	if v6 {
		action = ActionAnnounceV6
	}

	dst = appendRespHeader(dst, action, resp.TransactionID)
	dst = wire.PutUint32(dst, resp.Interval)
	dst = wire.PutUint32(dst, resp.Leechers)
	dst = wire.PutUint32(dst, resp.Seeders)
	for _, p := range resp.Peers {
		var err error
		if v6 {
			dst, err = wire.EncodeIPv6Endpoint(dst, p)
		} else {
			dst, err = wire.EncodeIPv4Endpoint(dst, p)
		}
		if err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// WriteScrapeResponse encodes a tracker's scrape response.
func WriteScrapeResponse(dst []byte, resp ScrapeResponse) []byte {
	dst = appendRespHeader(dst, ActionScrape, resp.TransactionID)
	for _, r := range resp.Results {
		dst = wire.PutUint32(dst, r.Seeders)
		dst = wire.PutUint32(dst, r.Completed)
		dst = wire.PutUint32(dst, r.Leechers)
	}
	return dst
}

// WriteError encodes an action=3 error response.
func WriteError(dst []byte, resp ErrorResponse) []byte {
	dst = appendRespHeader(dst, ActionError, resp.TransactionID)
	return append(dst, []byte(resp.Message)...)
}

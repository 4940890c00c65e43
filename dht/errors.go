package dht

import "fmt"

// InvalidResponse is a DHT response that was well-formed bencode but failed
// kind-specific validation. Per spec §4.4 it is treated like a timeout:
// routing tables must not promote the responding node.
type InvalidResponse struct {
	TransactionID string
	Detail        string
}

func (e *InvalidResponse) Error() string {
	return fmt.Sprintf("dht: invalid response for transaction %q: %s", e.TransactionID, e.Detail)
}

// UnsolicitedResponse is a response whose transaction id is not in the
// caller's expected-response table.
type UnsolicitedResponse struct {
	TransactionID string
}

func (e *UnsolicitedResponse) Error() string {
	return fmt.Sprintf("dht: unsolicited response for transaction %q", e.TransactionID)
}

// RemoteError wraps a y=e error envelope sent by a peer.
type RemoteError struct {
	Code    int64
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("dht: remote error %d: %s", e.Code, e.Message)
}

// InvalidValue is a well-formed-but-semantically-wrong envelope: missing
// required key, wrong y, etc.
type InvalidValue struct {
	Detail string
}

func (e *InvalidValue) Error() string {
	return "dht: invalid message: " + e.Detail
}

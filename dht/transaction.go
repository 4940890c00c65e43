package dht

import (
	"sync"
	"time"
)

// pendingTransaction records what a previously sent query expects back.
type pendingTransaction struct {
	kind    QueryKind
	sentAt  time.Time
}

// TransactionTable tracks in-flight queries by transaction id so that a
// response or error envelope can be matched back to the query kind that
// produced it (spec §4.4: responses carry no kind of their own). A
// transaction id absent from the table is an UnsolicitedResponse.
type TransactionTable struct {
	mu      sync.Mutex
	pending map[string]pendingTransaction
}

// NewTransactionTable returns an empty table.
func NewTransactionTable() *TransactionTable {
	return &TransactionTable{pending: make(map[string]pendingTransaction)}
}

// Register records that transactionID was just sent as a query of kind,
// overwriting any prior (stale) entry under the same id.
func (t *TransactionTable) Register(transactionID string, kind QueryKind) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[transactionID] = pendingTransaction{kind: kind, sentAt: time.Now().UTC()}
}

// Resolve looks up and removes transactionID, returning the query kind it
// was registered under. The second return is false (UnsolicitedResponse, per
// spec §4.4) if the id is not pending.
func (t *TransactionTable) Resolve(transactionID string) (QueryKind, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.pending[transactionID]
	if !ok {
		return "", false
	}
	delete(t.pending, transactionID)
	return p.kind, true
}

// Cancel discards a pending transaction without resolving it, for use when a
// query times out.
func (t *TransactionTable) Cancel(transactionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pending, transactionID)
}

// Expired returns the transaction ids still pending after olderThan,
// relative to now, so the caller can time them out. Expired entries are not
// removed; the caller should Cancel each one it acts on.
func (t *TransactionTable) Expired(now time.Time, olderThan time.Duration) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []string
	for id, p := range t.pending {
		if now.Sub(p.sentAt) >= olderThan {
			out = append(out, id)
		}
	}
	return out
}

// Len returns the number of transactions currently pending.
func (t *TransactionTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Decode resolves the transaction for env (a response or error envelope),
// decodes the kind-specific result, and returns it along with the resolved
// query kind. Callers pass this the Envelope from ParseEnvelope for any
// EnvelopeType; Decode validates Type itself.
func (t *TransactionTable) Decode(env Envelope) (QueryKind, interface{}, error) {
	kind, ok := t.Resolve(env.TransactionID)
	if !ok {
		return "", nil, &UnsolicitedResponse{TransactionID: env.TransactionID}
	}

	if env.Type == TypeError {
		return kind, nil, &RemoteError{Code: env.ErrorCode, Message: env.ErrorMessage}
	}
	if env.Type != TypeResponse {
		return kind, nil, &InvalidResponse{TransactionID: env.TransactionID, Detail: "expected response or error envelope"}
	}

	var (
		result interface{}
		err    error
	)
	switch kind {
	case Ping:
		result, err = DecodePingResult(env.Result)
	case FindNode:
		result, err = DecodeFindNodeResult(env.Result)
	case GetPeers:
		result, err = DecodeGetPeersResult(env.Result)
	case AnnouncePeer:
		result, err = DecodeAnnouncePeerResult(env.Result)
	default:
		return kind, nil, &InvalidResponse{TransactionID: env.TransactionID, Detail: "unknown query kind " + string(kind)}
	}
	if err != nil {
		return kind, nil, err
	}
	return kind, result, nil
}

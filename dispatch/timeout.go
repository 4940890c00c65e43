package dispatch

import (
	"container/heap"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Timeout is a fired timeout handed to the handler's Timeout callback. A
// cancelled timeout may still fire once already scheduled; handlers must
// tolerate and ignore a stale token (spec §5).
type Timeout struct {
	Token   uuid.UUID
	Payload interface{}
}

type timeoutEntry struct {
	deadline time.Time
	token    uuid.UUID
	payload  interface{}
	index    int
}

// timeoutHeap orders entries by deadline, earliest first.
type timeoutHeap []*timeoutEntry

func (h timeoutHeap) Len() int            { return len(h) }
func (h timeoutHeap) Less(i, j int) bool  { return h[i].deadline.Before(h[j].deadline) }
func (h timeoutHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *timeoutHeap) Push(x interface{}) {
	e := x.(*timeoutEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *timeoutHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// TimeoutWheel tracks pending timeouts keyed by a uuid token, surfaced
// verbatim to the dispatcher's event loop (spec §4.6). The dispatcher
// interprets none of Payload's contents.
type TimeoutWheel struct {
	mu      sync.Mutex
	h       timeoutHeap
	entries map[uuid.UUID]*timeoutEntry
	nowFunc func() time.Time
}

// NewTimeoutWheel returns an empty wheel.
func NewTimeoutWheel() *TimeoutWheel {
	return &TimeoutWheel{entries: make(map[uuid.UUID]*timeoutEntry), nowFunc: time.Now}
}

// Register schedules payload to fire after d and returns its cancellation
// token.
func (w *TimeoutWheel) Register(d time.Duration, payload interface{}) uuid.UUID {
	w.mu.Lock()
	defer w.mu.Unlock()

	token := uuid.New()
	e := &timeoutEntry{deadline: w.nowFunc().Add(d), token: token, payload: payload}
	heap.Push(&w.h, e)
	w.entries[token] = e
	return token
}

// Cancel removes token from the wheel. Cancelling an already-fired or
// unknown token is a no-op.
func (w *TimeoutWheel) Cancel(token uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entries[token]
	if !ok {
		return
	}
	delete(w.entries, token)
	heap.Remove(&w.h, e.index)
}

// Ready pops every entry whose deadline has passed relative to now.
func (w *TimeoutWheel) Ready(now time.Time) []Timeout {
	w.mu.Lock()
	defer w.mu.Unlock()

	var fired []Timeout
	for len(w.h) > 0 && !w.h[0].deadline.After(now) {
		e := heap.Pop(&w.h).(*timeoutEntry)
		delete(w.entries, e.token)
		fired = append(fired, Timeout{Token: e.token, Payload: e.payload})
	}
	return fired
}

// NextDeadline returns the earliest pending deadline, if any.
func (w *TimeoutWheel) NextDeadline() (time.Time, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.h) == 0 {
		return time.Time{}, false
	}
	return w.h[0].deadline, true
}

// Len returns the number of timeouts currently pending.
func (w *TimeoutWheel) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.h)
}

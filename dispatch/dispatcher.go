// Package dispatch implements the single-socket UDP event dispatcher: one
// reusable buffer pool, one outbound FIFO queue, and one timeout wheel,
// driving a user-supplied Handler's three callbacks from a single
// cooperative event-loop goroutine (spec §4.6, §5).
//
// Modelled on the teacher's Network.Listen blocking-read loop (Network.go)
// and udt.multiplexer's split between a reader goroutine and a single
// owning goroutine that serializes all socket-adjacent state (udt/multiplexer.go).
package dispatch

import (
	"errors"
	"log"
	"net"
	"time"

	"github.com/google/uuid"
)

// Handler is the user-supplied set of callbacks the dispatcher drives.
// Every callback runs on the dispatcher's single event-loop goroutine; none
// may block (spec §5).
type Handler interface {
	// Incoming is invoked once per received datagram, in kernel delivery
	// order. buf is only valid for the duration of the call.
	Incoming(p Provider, buf []byte, addr net.Addr)

	// Notify is invoked once per message sent via Provider.NotifySelf or
	// Dispatcher.Notify, in FIFO order.
	Notify(p Provider, msg interface{})

	// Timeout is invoked once per fired timeout. A cancelled-but-already-
	// scheduled timeout may still arrive here; handlers must tolerate a
	// stale token.
	Timeout(p Provider, t Timeout)
}

// Provider is the borrowed capability object callbacks receive: it exposes
// exactly what a callback needs and nothing about the dispatcher's
// internals (spec §4.6).
type Provider interface {
	// TakeBuffer returns a fresh zeroed buffer from the pool.
	TakeBuffer() []byte

	// Send enqueues buf for delivery to addr. buf is handed back to the
	// pool once sent; callers must not reuse it afterward.
	Send(buf []byte, addr net.Addr) error

	// RegisterTimeout schedules payload to fire after d and returns its
	// cancellation token.
	RegisterTimeout(d time.Duration, payload interface{}) uuid.UUID

	// CancelTimeout cancels a previously registered timeout. Cancelling an
	// unknown or already-fired token is a no-op.
	CancelTimeout(token uuid.UUID)

	// NotifySelf posts msg to be delivered to Handler.Notify on a future
	// loop iteration. Safe to call from any goroutine.
	NotifySelf(msg interface{})
}

// ErrClosed is returned by Notify once the dispatcher has been closed.
var ErrClosed = errors.New("dispatch: dispatcher closed")

// Dispatcher owns exactly one UDP socket (spec §4.6).
type Dispatcher struct {
	conn    net.PacketConn
	pool    *BufferPool
	queue   *OutboundQueue
	timeout *TimeoutWheel
	handler Handler

	notifyCh chan interface{}
	readCh   chan readResult
	closeCh  chan struct{}
	closed   bool

	// Logger receives write-failure diagnostics; nil means
	// silent, matching the teacher's no-op default LogError (Filter.go).
	Logger *log.Logger
}

func (d *Dispatcher) logf(format string, v ...interface{}) {
	if d.Logger != nil {
		d.Logger.Printf(format, v...)
	}
}

type readResult struct {
	buf  []byte
	n    int
	addr net.Addr
	err  error
}

// Config tunes a Dispatcher's buffer size and outbound queue cap.
type Config struct {
	// DatagramSize bounds the largest datagram the dispatcher will read.
	DatagramSize int
	// OutboundQueueCap caps the outbound queue; 0 means unbounded (spec §5
	// notes this is a footgun in production and implementers should set a
	// cap).
	OutboundQueueCap int
}

// New wraps an already-bound PacketConn (see reuseport.ListenPacket) in a
// Dispatcher driving handler.
func New(conn net.PacketConn, handler Handler, cfg Config) *Dispatcher {
	if cfg.DatagramSize <= 0 {
		cfg.DatagramSize = 65536
	}
	return &Dispatcher{
		conn:     conn,
		pool:     NewBufferPool(cfg.DatagramSize),
		queue:    NewOutboundQueue(cfg.OutboundQueueCap),
		timeout:  NewTimeoutWheel(),
		handler:  handler,
		notifyCh: make(chan interface{}, 64),
		readCh:   make(chan readResult, 64),
		closeCh:  make(chan struct{}),
	}
}

// Notify posts msg for delivery to Handler.Notify; safe to call from any
// goroutine, including before Run starts.
func (d *Dispatcher) Notify(msg interface{}) error {
	select {
	case d.notifyCh <- msg:
		return nil
	case <-d.closeCh:
		return ErrClosed
	}
}

// Close stops the event loop and closes the underlying socket.
func (d *Dispatcher) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	close(d.closeCh)
	return d.conn.Close()
}

// Run drives the event loop until Close is called or the socket errors. The
// reader goroutine only ever reads bytes off the wire; every callback into
// handler happens from the goroutine that calls Run, preserving the
// single-threaded cooperative model of spec §5.
func (d *Dispatcher) Run() error {
	go d.readLoop()

	provider := &provider{d: d}

	for {
		var timerC <-chan time.Time
		var timer *time.Timer
		if deadline, ok := d.timeout.NextDeadline(); ok {
			delay := time.Until(deadline)
			if delay < 0 {
				delay = 0
			}
			timer = time.NewTimer(delay)
			timerC = timer.C
		}

		select {
		case <-d.closeCh:
			if timer != nil {
				timer.Stop()
			}
			return nil

		case res := <-d.readCh:
			if timer != nil {
				timer.Stop()
			}
			if res.err != nil {
				return res.err
			}
			d.handler.Incoming(provider, res.buf[:res.n], res.addr)
			d.pool.Push(res.buf)
			d.drainOutbound()

		case msg := <-d.notifyCh:
			if timer != nil {
				timer.Stop()
			}
			d.handler.Notify(provider, msg)
			d.drainOutbound()

		case <-timerC:
			for _, t := range d.timeout.Ready(time.Now()) {
				d.handler.Timeout(provider, t)
			}
			d.drainOutbound()
		}
	}
}

// drainOutbound sends every currently queued datagram. A real epoll-driven
// implementation would instead re-subscribe for write-readiness and send
// one datagram per write-ready wakeup (spec §4.6's "Readiness retuning");
// net.PacketConn's blocking WriteTo gives the same FIFO-order guarantee
// without needing raw readiness events.
func (d *Dispatcher) drainOutbound() {
	for {
		item, ok := d.queue.Pop()
		if !ok {
			return
		}
		if _, err := d.conn.WriteTo(item.Buf, item.Addr); err != nil {
			d.logf("dispatch: write to %s failed: %v", item.Addr, err)
		}
		d.pool.Push(item.Buf)
	}
}

func (d *Dispatcher) readLoop() {
	for {
		buf := d.pool.Pop()
		n, addr, err := d.conn.ReadFrom(buf)
		select {
		case d.readCh <- readResult{buf: buf, n: n, addr: addr, err: err}:
		case <-d.closeCh:
			return
		}
		if err != nil {
			return
		}
	}
}

// Stats is a point-in-time snapshot of a Dispatcher's internal queues, for
// introspection only. The three counts are read one after another, each
// under its own structure's lock, so they are not one atomic snapshot.
type Stats struct {
	PoolFree        int
	OutboundQueued  int
	TimeoutsPending int
}

// Stats reports the current size of the buffer pool's free list, the
// outbound queue, and the timeout wheel. Safe to call from any goroutine;
// each field is read under its own structure's lock.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		PoolFree:        d.pool.Len(),
		OutboundQueued:  d.queue.Len(),
		TimeoutsPending: d.timeout.Len(),
	}
}

// provider is the concrete Provider implementation callbacks receive.
type provider struct {
	d *Dispatcher
}

func (p *provider) TakeBuffer() []byte { return p.d.pool.Pop() }

func (p *provider) Send(buf []byte, addr net.Addr) error {
	return p.d.queue.Enqueue(OutboundItem{Buf: buf, Addr: addr})
}

func (p *provider) RegisterTimeout(d time.Duration, payload interface{}) uuid.UUID {
	return p.d.timeout.Register(d, payload)
}

func (p *provider) CancelTimeout(token uuid.UUID) {
	p.d.timeout.Cancel(token)
}

func (p *provider) NotifySelf(msg interface{}) {
	_ = p.d.Notify(msg)
}

package dispatch

import (
	"net"
	"testing"
	"time"
)

func TestBufferPoolReuseAndZero(t *testing.T) {
	pool := NewBufferPool(8)
	buf := pool.Pop()
	for i := range buf {
		buf[i] = 0xff
	}
	pool.Push(buf)
	if pool.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", pool.Len())
	}

	buf2 := pool.Pop()
	for _, b := range buf2 {
		if b != 0 {
			t.Fatalf("Pop() returned a non-zeroed buffer: %v", buf2)
		}
	}
	if pool.Len() != 0 {
		t.Fatalf("Pop() should have taken the only free buffer")
	}
}

func TestOutboundQueueFIFOAndCap(t *testing.T) {
	q := NewOutboundQueue(2)
	a := OutboundItem{Buf: []byte("a")}
	b := OutboundItem{Buf: []byte("b")}

	if err := q.Enqueue(a); err != nil {
		t.Fatalf("Enqueue(a): %v", err)
	}
	if err := q.Enqueue(b); err != nil {
		t.Fatalf("Enqueue(b): %v", err)
	}
	if err := q.Enqueue(OutboundItem{Buf: []byte("c")}); err == nil {
		t.Fatalf("expected QueueFull once cap is exceeded")
	}

	got, ok := q.Pop()
	if !ok || string(got.Buf) != "a" {
		t.Fatalf("Pop() = %+v, want a", got)
	}
	got, ok = q.Pop()
	if !ok || string(got.Buf) != "b" {
		t.Fatalf("Pop() = %+v, want b", got)
	}
	if _, ok := q.Pop(); ok {
		t.Fatalf("queue should be empty")
	}
}

func TestTimeoutWheelFiresInOrderAndRespectsCancel(t *testing.T) {
	w := NewTimeoutWheel()
	tok1 := w.Register(10*time.Millisecond, "first")
	tok2 := w.Register(20*time.Millisecond, "second")
	w.Cancel(tok2)

	time.Sleep(15 * time.Millisecond)
	fired := w.Ready(time.Now())
	if len(fired) != 1 || fired[0].Token != tok1 || fired[0].Payload != "first" {
		t.Fatalf("unexpected fired set: %+v", fired)
	}

	time.Sleep(15 * time.Millisecond)
	fired = w.Ready(time.Now())
	if len(fired) != 0 {
		t.Fatalf("cancelled timeout should never fire: %+v", fired)
	}
}

type echoHandler struct {
	incoming chan string
}

func (h *echoHandler) Incoming(p Provider, buf []byte, addr net.Addr) {
	h.incoming <- string(buf)
	reply := p.TakeBuffer()
	reply = append(reply[:0], []byte("ack:"+string(buf))...)
	_ = p.Send(reply, addr)
}

func (h *echoHandler) Notify(p Provider, msg interface{}) {}
func (h *echoHandler) Timeout(p Provider, t Timeout)       {}

func TestDispatcherEndToEndLoopback(t *testing.T) {
	serverConn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenPacket: %v", err)
	}

	handler := &echoHandler{incoming: make(chan string, 1)}
	d := New(serverConn, handler, Config{DatagramSize: 1500})
	go d.Run()
	defer d.Close()

	clientConn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenPacket (client): %v", err)
	}
	defer clientConn.Close()

	if _, err := clientConn.WriteTo([]byte("hello"), serverConn.LocalAddr()); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	select {
	case got := <-handler.incoming:
		if got != "hello" {
			t.Fatalf("handler saw %q, want hello", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for datagram")
	}

	buf := make([]byte, 64)
	clientConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, _, err := clientConn.ReadFrom(buf)
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if string(buf[:n]) != "ack:hello" {
		t.Fatalf("reply = %q, want ack:hello", buf[:n])
	}
}

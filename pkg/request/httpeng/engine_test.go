package httpeng

import (
	"context"
	"strings"
	"testing"
	"time"

	"uplink/pkg/link/linktest"
	"uplink/pkg/request"
)

func newTestEngine(b *linktest.Backend, cfg Config) *Engine {
	if cfg.Host == "" {
		cfg.Host = "its.tue"
	}
	if cfg.Path == "" {
		cfg.Path = "push"
	}
	e := New(b, cfg)
	e.sleep = func(time.Duration) {}
	return e
}

func TestSendConnectFailure(t *testing.T) {
	b := &linktest.Backend{Refuse: true}
	e := newTestEngine(b, Config{})
	if got := e.Send(context.Background(), []byte("ab")); got != request.StatusNone {
		t.Fatalf("status = %d, want 0 on connect failure", got)
	}
}

func TestSendParsesStatus(t *testing.T) {
	conn := &linktest.Conn{
		Bursts:         [][]byte{[]byte("HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\n\r\nhi")},
		FirstByteDelay: 2,
	}
	b := &linktest.Backend{Conn: conn}
	e := newTestEngine(b, Config{Method: "POST", ReplyWait: 10})

	if got := e.Send(context.Background(), []byte("ab")); got != 200 {
		t.Fatalf("status = %d, want 200", got)
	}
	if b.Host != "its.tue" || b.Port != 80 {
		t.Fatalf("connected to %s:%d", b.Host, b.Port)
	}
	wrote := conn.Written.String()
	if !strings.HasPrefix(wrote, "POST /push HTTP/1.1\n") {
		t.Fatalf("request on the wire:\n%s", wrote)
	}
	if !strings.Contains(wrote, "Content-Length: 2\n") {
		t.Fatalf("request on the wire:\n%s", wrote)
	}
	if conn.CloseCount == 0 {
		t.Fatalf("connection left open after send")
	}
	if conn.Connected() {
		t.Fatalf("connection still live")
	}
}

func TestSendBareCodeForm(t *testing.T) {
	conn := &linktest.Conn{Bursts: [][]byte{[]byte("200 OK\n")}}
	b := &linktest.Backend{Conn: conn}
	e := newTestEngine(b, Config{})
	if got := e.Send(context.Background(), []byte("q=1")); got != 200 {
		t.Fatalf("status = %d, want 200", got)
	}
}

func TestSendTimeoutNoData(t *testing.T) {
	conn := &linktest.Conn{} // no bytes, ever
	b := &linktest.Backend{Conn: conn}
	e := newTestEngine(b, Config{ReplyWait: 5})

	sleeps := 0
	e.sleep = func(time.Duration) { sleeps++ }

	if got := e.Send(context.Background(), nil); got != request.StatusNone {
		t.Fatalf("status = %d, want 0 on timeout", got)
	}
	if sleeps < 5 || sleeps > 8 {
		t.Fatalf("wait polled %d times, want about the budget of 5", sleeps)
	}
	if e.wait != 0 {
		t.Fatalf("wait counter = %d after timeout, want 0 so later waits get the full budget", e.wait)
	}
	if conn.CloseCount == 0 {
		t.Fatalf("connection left open after timeout")
	}
}

func TestSendWaitCounterNotCarriedOver(t *testing.T) {
	// First send times out; the second gets an immediate reply. The
	// second must still have had its full budget available.
	b := &linktest.Backend{Conn: &linktest.Conn{}}
	e := newTestEngine(b, Config{ReplyWait: 5})
	e.Send(context.Background(), nil)

	conn := &linktest.Conn{Bursts: [][]byte{[]byte("200 OK\n")}, FirstByteDelay: 5}
	b.Conn = conn
	sleeps := 0
	e.sleep = func(time.Duration) { sleeps++ }
	if got := e.Send(context.Background(), nil); got != 200 {
		t.Fatalf("status = %d, want 200 within a fresh budget", got)
	}
	if sleeps != 5 {
		t.Fatalf("second wait polled %d times, want 5", sleeps)
	}
}

func TestSendClosesOnMidStreamPause(t *testing.T) {
	// The read loop closes the moment no byte is readable, so a reply
	// paused after the protocol token truncates to an unparseable head.
	conn := &linktest.Conn{
		Bursts:   [][]byte{[]byte("HTTP/1.1"), []byte(" 200 OK\r\n")},
		GapPolls: 1,
	}
	b := &linktest.Backend{Conn: conn}
	e := newTestEngine(b, Config{})
	if got := e.Send(context.Background(), nil); got != request.StatusNone {
		t.Fatalf("status = %d, want 0 for a truncated head", got)
	}
	if conn.CloseCount != 2 {
		t.Fatalf("close count = %d, want 2 (mid-loop close plus final close)", conn.CloseCount)
	}
}

func TestSendLongResponseOverflowsQuietly(t *testing.T) {
	long := "HTTP/1.1 404 Not Found\r\n" + strings.Repeat("x", 200)
	conn := &linktest.Conn{Bursts: [][]byte{[]byte(long)}}
	b := &linktest.Backend{Conn: conn}
	e := newTestEngine(b, Config{})
	if got := e.Send(context.Background(), nil); got != 404 {
		t.Fatalf("status = %d, want 404 from the bounded capture", got)
	}
	// Everything was drained off the wire even though only the head
	// was kept.
	if conn.Connected() {
		t.Fatalf("response not fully consumed")
	}
}

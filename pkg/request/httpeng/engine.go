// Package httpeng implements the HTTP request backend: a minimal
// HTTP/1.1 requester that frames GET/POST-style requests by hand, waits
// cooperatively for the first response byte, captures a bounded slice
// of the reply, and extracts the status code from it. One attempt per
// send, no redirects, no chunked transfer, no connection reuse.
package httpeng

import (
	"context"
	"time"

	"go.uber.org/zap"

	"uplink/pkg/link"
	"uplink/pkg/request"
)

// headerCap is the usable capacity of the response capture. Only the
// status line matters, and 49 bytes is enough for every status line
// this layer is expected to meet.
const headerCap = 49

// Config holds the HTTP variant's endpoint and framing options.
type Config struct {
	Host string
	// Path must not carry a leading slash; the engine adds it.
	Path string
	Port int

	// Method is the uppercase verb. GET sends the payload as a query
	// string; anything else sends it as a body with a Content-Length.
	Method string
	// ExtraHeaders is appended to the header block verbatim. No
	// trailing newline.
	ExtraHeaders string
	// ReplyWait is the first-byte wait budget in ~1ms polls.
	ReplyWait int
}

// Engine is one HTTP request session. It holds the first-byte wait
// counter, so sessions never interfere; a single Engine must not be
// used from more than one goroutine.
type Engine struct {
	lnk link.Backend
	cfg Config

	// wait is the first-byte poll counter. Reset on entry to every wait
	// and again when the budget is exhausted.
	wait  int
	sleep func(time.Duration)
	log   *zap.Logger
}

func New(lnk link.Backend, cfg Config) *Engine {
	if cfg.Method == "" {
		cfg.Method = "GET"
	}
	if cfg.Port == 0 {
		cfg.Port = 80
	}
	if cfg.ReplyWait == 0 {
		cfg.ReplyWait = 100
	}
	return &Engine{lnk: lnk, cfg: cfg, sleep: time.Sleep, log: zap.L().Named("http")}
}

func (e *Engine) Kind() request.Kind { return request.KindHTTP }

// Setup and Tick are no-ops: HTTP needs no session establishment and no
// periodic maintenance. They exist to keep the backend surface
// symmetric with the publish variant.
func (e *Engine) Setup(context.Context) error { return nil }
func (e *Engine) Tick(context.Context) error  { return nil }

// Send performs one request attempt: connect, write, wait for the first
// byte, capture the header, parse the status. Any failure is reported
// as StatusNone; there is no retry. The connection is always closed on
// return.
func (e *Engine) Send(_ context.Context, payload []byte) request.Status {
	conn, ok := e.lnk.Connect(e.cfg.Host, e.cfg.Port)
	if !ok {
		e.log.Debug("connect refused", zap.String("host", e.cfg.Host), zap.Int("port", e.cfg.Port))
		return request.StatusNone
	}

	req := FormatRequest(e.cfg.Method, e.cfg.Path, e.cfg.Host, e.cfg.ExtraHeaders, payload)
	if _, err := conn.Write(req); err != nil {
		e.log.Debug("request write failed", zap.Error(err))
		_ = conn.Close()
		return request.StatusNone
	}

	e.awaitFirstByte(conn)
	header := e.readHeader(conn)
	status := ParseStatus(header)
	e.log.Debug("request finished", zap.String("header", header), zap.Int("status", int(status)))
	return status
}

// awaitFirstByte polls for readable bytes in ~1ms steps, giving the
// server a moment to answer before the read loop starts. The counter is
// reset on entry and on exhaustion, so no leftover count can shorten a
// later wait. When the budget runs out the engine proceeds regardless;
// whatever is (not) readable decides the outcome.
func (e *Engine) awaitFirstByte(conn link.Conn) {
	e.wait = 0
	for conn.Available() == 0 {
		e.sleep(time.Millisecond)
		if e.wait > e.cfg.ReplyWait {
			e.log.Debug("reply wait exhausted")
			e.wait = 0
			return
		}
		e.wait++
	}
}

// readHeader drains the connection while it reports itself live,
// keeping the first headerCap bytes and discarding the rest. The moment
// no byte is readable the connection is closed: a reply delivered with
// mid-stream pauses gets truncated here. That matches the device
// behavior this engine reproduces; a gentler policy would slot in here
// without touching formatting or parsing.
func (e *Engine) readHeader(conn link.Conn) string {
	buf := NewBoundedBuffer(headerCap)
	for conn.Connected() {
		if conn.Available() > 0 {
			c, ok := conn.ReadByte()
			if !ok {
				break
			}
			buf.Append(c)
		} else {
			_ = conn.Close()
		}
	}
	_ = conn.Close()
	return buf.String()
}

// Package linktest provides in-process stand-ins for the link layer:
// a scripted Conn whose bytes arrive in bursts and a Backend whose
// connect behavior is controlled by the test. They replace the external
// device libraries the real variants drive.
package linktest

import (
	"bytes"
	"context"
	"net/netip"

	"uplink/pkg/link"
)

// Conn is a scripted link.Conn. Response bytes arrive in Bursts: a
// burst becomes readable only after the previous one is fully drained
// and the configured number of empty polls has elapsed. That makes both
// smooth responses and responses with mid-stream pauses expressible.
type Conn struct {
	// Bursts are delivered in order.
	Bursts [][]byte
	// FirstByteDelay is how many Available calls report 0 before the
	// first burst shows up.
	FirstByteDelay int
	// GapPolls is how many Available calls report 0 between bursts.
	GapPolls int

	// Written collects everything the caller wrote.
	Written bytes.Buffer
	// CloseCount counts Close calls (the request layer closes twice).
	CloseCount int

	buf    []byte
	burst  int
	waited int
	closed bool
}

func (c *Conn) delayFor(burst int) int {
	if burst == 0 {
		return c.FirstByteDelay
	}
	return c.GapPolls
}

func (c *Conn) Available() int {
	if c.closed || len(c.buf) > 0 {
		return len(c.buf)
	}
	if c.burst >= len(c.Bursts) {
		return 0
	}
	if c.waited < c.delayFor(c.burst) {
		c.waited++
		return 0
	}
	c.buf = c.Bursts[c.burst]
	c.burst++
	c.waited = 0
	return len(c.buf)
}

func (c *Conn) ReadByte() (byte, bool) {
	if c.Available() == 0 {
		return 0, false
	}
	b := c.buf[0]
	c.buf = c.buf[1:]
	return b, true
}

func (c *Conn) Write(p []byte) (int, error) { return c.Written.Write(p) }

// Connected mirrors the device clients: live until closed or until all
// scripted bytes were delivered and drained.
func (c *Conn) Connected() bool {
	if c.closed {
		return false
	}
	return len(c.buf) > 0 || c.burst < len(c.Bursts)
}

func (c *Conn) Close() error {
	c.closed = true
	c.CloseCount++
	return nil
}

// Backend is a link.Backend whose Connect hands out a prepared Conn, or
// refuses. It also counts lifecycle calls so idempotence is checkable.
type Backend struct {
	LinkKind link.Kind
	Conn     *Conn
	Refuse   bool
	Addr     netip.Addr

	BringUps    int
	EnsureCalls int
	Host        string
	Port        int
}

func (b *Backend) Kind() link.Kind {
	if b.LinkKind == link.KindUnknown {
		return link.KindWired
	}
	return b.LinkKind
}

func (b *Backend) BringUp(context.Context) error {
	b.BringUps++
	return nil
}

func (b *Backend) EnsureLink(context.Context) error {
	b.EnsureCalls++
	return nil
}

func (b *Backend) Connect(host string, port int) (link.Conn, bool) {
	b.Host, b.Port = host, port
	if b.Refuse || b.Conn == nil {
		return nil, false
	}
	return b.Conn, true
}

func (b *Backend) LocalAddr() netip.Addr { return b.Addr }

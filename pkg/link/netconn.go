package link

import (
	"net"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// pollRead is the deadline used to probe the socket for readable bytes.
// Coarse on purpose; the request layer polls in ~1ms steps anyway.
const pollRead = time.Millisecond

// NetConn adapts a net.Conn to the Conn primitive surface. Available is
// implemented with a short-deadline read into an internal buffer, which
// is the host-side rendition of the availability primitive the device
// client libraries expose.
type NetConn struct {
	c      net.Conn
	buf    []byte
	closed bool
	eof    bool
}

// WrapNetConn wraps an established net.Conn.
func WrapNetConn(c net.Conn) *NetConn { return &NetConn{c: c} }

// NetConn returns the underlying net.Conn, for callers (like the MQTT
// client) that need to hand the raw socket to an external library.
func (n *NetConn) NetConn() net.Conn { return n.c }

func (n *NetConn) fill() {
	if n.closed || n.eof {
		return
	}
	_ = n.c.SetReadDeadline(time.Now().Add(pollRead))
	var tmp [256]byte
	m, err := n.c.Read(tmp[:])
	if m > 0 {
		n.buf = append(n.buf, tmp[:m]...)
	}
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return
		}
		n.eof = true
	}
}

func (n *NetConn) Available() int {
	if len(n.buf) == 0 {
		n.fill()
	}
	return len(n.buf)
}

func (n *NetConn) ReadByte() (byte, bool) {
	if len(n.buf) == 0 {
		n.fill()
	}
	if len(n.buf) == 0 {
		return 0, false
	}
	b := n.buf[0]
	n.buf = n.buf[1:]
	return b, true
}

func (n *NetConn) Write(p []byte) (int, error) {
	if n.closed {
		return 0, net.ErrClosed
	}
	return n.c.Write(p)
}

// Connected reports liveness. Buffered bytes left over after the peer
// closed still count as connected so they can be drained.
func (n *NetConn) Connected() bool {
	if n.closed {
		return false
	}
	if n.eof && len(n.buf) == 0 {
		return false
	}
	return true
}

// Close is idempotent; the request layer closes twice by design.
func (n *NetConn) Close() error {
	if n.closed {
		return nil
	}
	n.closed = true
	return n.c.Close()
}

// Dial opens one TCP connection through the host stack and wraps it.
// The boolean mirrors the underlying primitive: false means the connect
// was refused or timed out and nothing was opened.
func Dial(host string, port int, timeout time.Duration) (Conn, bool) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	c, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		zap.L().Debug("dial failed", zap.String("addr", addr), zap.Error(err))
		return nil, false
	}
	return WrapNetConn(c), true
}

package link

import (
	"context"
	"fmt"
	"net/netip"
	"strings"
)

// Kind identifies the physical transport variant. Exactly one variant
// is active in a process; the config layer rejects anything else.
type Kind int

const (
	KindUnknown Kind = iota
	KindWired
	KindWireless
)

func (k Kind) String() string {
	switch k {
	case KindWired:
		return "wired"
	case KindWireless:
		return "wireless"
	default:
		return "unknown"
	}
}

// ParseKind maps a configuration string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wired", "ethernet":
		return KindWired, nil
	case "wireless", "wifi":
		return KindWireless, nil
	default:
		return KindUnknown, fmt.Errorf("unknown link kind %q", s)
	}
}

// Conn is the connection primitive surface request backends build on.
// Return values are ground truth: Available reports bytes readable right
// now without blocking, ReadByte pops one of them, Connected reports
// liveness (a closed peer with undrained buffered bytes still counts as
// connected until the buffer runs dry).
type Conn interface {
	Available() int
	ReadByte() (byte, bool)
	Write(p []byte) (n int, err error)
	Connected() bool
	Close() error
}

// Backend is the capability set shared by the wired and wireless
// variants. BringUp runs once at startup; EnsureLink runs once per
// application cycle. For the wireless variant BringUp blocks until
// association succeeds and is unbounded unless a poll bound was
// configured, so callers must pass a context they are willing to
// cancel.
type Backend interface {
	Kind() Kind

	// BringUp performs one-time link initialization.
	BringUp(ctx context.Context) error

	// EnsureLink re-establishes the link if it silently dropped. A no-op
	// while the link is healthy (and always, for wired).
	EnsureLink(ctx context.Context) error

	// Connect opens one fresh connection. The boolean mirrors the
	// underlying primitive exactly; false means nothing was opened.
	Connect(host string, port int) (Conn, bool)

	// LocalAddr reports the assigned address. Valid only after BringUp.
	LocalAddr() netip.Addr
}

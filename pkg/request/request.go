// Package request defines the request backend interfaces for uplink.
// A backend owns one application-level protocol exchange (HTTP or
// publish/subscribe) over a live link backend it references but never
// owns. Exactly one variant is active in a process.
package request

import (
	"context"
	"fmt"
	"strings"
)

// Kind identifies the request protocol variant.
type Kind int

const (
	KindUnknown Kind = iota
	KindHTTP
	KindPublish
)

func (k Kind) String() string {
	switch k {
	case KindHTTP:
		return "http"
	case KindPublish:
		return "publish"
	default:
		return "unknown"
	}
}

// ParseKind maps a configuration string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "http":
		return KindHTTP, nil
	case "publish", "mqtt":
		return KindPublish, nil
	default:
		return KindUnknown, fmt.Errorf("unknown request kind %q", s)
	}
}

// Status is the integer outcome of one send attempt. StatusNone means
// no usable result was obtained (connect failure, timeout, or an
// unparseable reply); any other value is taken verbatim from the
// protocol. Backends with a boolean result report StatusAccepted.
type Status int

const (
	StatusNone     Status = 0
	StatusAccepted Status = 1
)

// OK reports whether the attempt produced a usable result.
func (s Status) OK() bool { return s != StatusNone }

// Backend is the capability set shared by the HTTP and publish
// variants. Setup runs once after the link is up; Tick runs once per
// application cycle; Send performs exactly one attempt with no internal
// retry.
type Backend interface {
	Kind() Kind
	Setup(ctx context.Context) error
	Tick(ctx context.Context) error
	Send(ctx context.Context, payload []byte) Status
}

// Package wired implements the wired (ethernet-style) link backend.
// Bring-up waits a fixed settling delay, attempts address negotiation
// through the device, and falls back to the statically configured
// address when negotiation fails. The link cannot silently drop, so
// EnsureLink is a no-op.
package wired

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"time"

	"go.uber.org/zap"

	"uplink/pkg/link"
)

// Device is the external wired link library: it owns the hardware/stack
// state and exposes the address-assignment primitives.
type Device interface {
	// Negotiate attempts dynamic address assignment (DHCP-style) with
	// the given hardware address.
	Negotiate(ctx context.Context, mac [6]byte) (netip.Addr, error)
	// AssignStatic configures the static fallback address and returns
	// the address actually in effect.
	AssignStatic(mac [6]byte, addr netip.Addr) netip.Addr
}

// Config holds the wired variant's tuning knobs.
type Config struct {
	MAC        [6]byte
	StaticAddr netip.Addr

	// SettleDelay runs before negotiation is attempted; the original
	// hardware needs it to finish powering the PHY.
	SettleDelay time.Duration
	DialTimeout time.Duration
}

type Backend struct {
	dev   Device
	cfg   Config
	addr  netip.Addr
	sleep func(time.Duration)
	log   *zap.Logger
}

func New(dev Device, cfg Config) *Backend {
	if cfg.SettleDelay == 0 {
		cfg.SettleDelay = time.Second
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	return &Backend{dev: dev, cfg: cfg, sleep: time.Sleep, log: zap.L().Named("wired")}
}

func (b *Backend) Kind() link.Kind { return link.KindWired }

func (b *Backend) BringUp(ctx context.Context) error {
	b.sleep(b.cfg.SettleDelay)
	b.log.Debug("initializing wired link")
	addr, err := b.dev.Negotiate(ctx, b.cfg.MAC)
	if err != nil {
		b.log.Debug("address negotiation failed, using static address", zap.Error(err))
		addr = b.dev.AssignStatic(b.cfg.MAC, b.cfg.StaticAddr)
	}
	b.addr = addr
	return ctx.Err()
}

// EnsureLink is a no-op: a wired link needs no periodic action.
func (b *Backend) EnsureLink(context.Context) error { return nil }

func (b *Backend) Connect(host string, port int) (link.Conn, bool) {
	return link.Dial(host, port, b.cfg.DialTimeout)
}

func (b *Backend) LocalAddr() netip.Addr { return b.addr }

// SystemDevice treats the host network stack as the wired device: the
// OS has already negotiated an address, so Negotiate reports the first
// usable unicast address and fails when the host has none.
type SystemDevice struct{}

func (SystemDevice) Negotiate(_ context.Context, _ [6]byte) (netip.Addr, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return netip.Addr{}, err
	}
	for _, a := range addrs {
		ipn, ok := a.(*net.IPNet)
		if !ok {
			continue
		}
		addr, ok := netip.AddrFromSlice(ipn.IP)
		if !ok {
			continue
		}
		addr = addr.Unmap()
		if addr.IsLoopback() || addr.IsLinkLocalUnicast() {
			continue
		}
		return addr, nil
	}
	return netip.Addr{}, fmt.Errorf("no usable interface address")
}

func (SystemDevice) AssignStatic(_ [6]byte, addr netip.Addr) netip.Addr { return addr }

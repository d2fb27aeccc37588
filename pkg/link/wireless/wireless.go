// Package wireless implements the wireless link backend. Bring-up
// starts association with the configured SSID/passphrase and polls the
// supplicant on a fixed interval until it reports associated. By
// default the wait is unbounded, matching the semantics this layer was
// built around; MaxPolls trades that for a bounded, failable bring-up.
package wireless

import (
	"context"
	"errors"
	"net/netip"
	"time"

	"go.uber.org/zap"

	"uplink/pkg/link"
)

// Status is the supplicant's association state.
type Status int

const (
	StatusIdle Status = iota
	StatusConnecting
	StatusAssociated
)

// Supplicant is the external wireless link library: it owns the radio
// state and exposes association primitives. Join begins association and
// returns without waiting for it.
type Supplicant interface {
	Join(ssid, passphrase string) error
	Status() Status
	LocalAddr() netip.Addr
}

// ErrAssociateTimeout is returned when MaxPolls is set and association
// did not complete within it.
var ErrAssociateTimeout = errors.New("wireless: association timed out")

// Config holds the wireless variant's tuning knobs.
type Config struct {
	SSID       string
	Passphrase string

	// PollInterval is the delay between association status checks.
	PollInterval time.Duration
	// MaxPolls bounds the association wait; 0 keeps it unbounded.
	MaxPolls    int
	DialTimeout time.Duration
}

type Backend struct {
	sup   Supplicant
	cfg   Config
	sleep func(time.Duration)
	log   *zap.Logger
}

func New(sup Supplicant, cfg Config) *Backend {
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 500 * time.Millisecond
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	return &Backend{sup: sup, cfg: cfg, sleep: time.Sleep, log: zap.L().Named("wireless")}
}

func (b *Backend) Kind() link.Kind { return link.KindWireless }

// BringUp blocks until association succeeds, polling on the configured
// interval. Unbounded unless MaxPolls is set; the context is the only
// other way out.
func (b *Backend) BringUp(ctx context.Context) error {
	if err := b.sup.Join(b.cfg.SSID, b.cfg.Passphrase); err != nil {
		return err
	}
	polls := 0
	for !b.PollAssociate() {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.log.Debug("waiting for association", zap.String("ssid", b.cfg.SSID))
		b.sleep(b.cfg.PollInterval)
		polls++
		if b.cfg.MaxPolls > 0 && polls >= b.cfg.MaxPolls {
			return ErrAssociateTimeout
		}
	}
	b.log.Info("associated", zap.String("ssid", b.cfg.SSID))
	return nil
}

// PollAssociate is the non-blocking step BringUp loops over: one status
// check, no waiting. Exposed so callers (and tests) can drive the
// association state machine themselves.
func (b *Backend) PollAssociate() bool {
	return b.sup.Status() == StatusAssociated
}

// EnsureLink re-runs the full bring-up whenever association has
// dropped. While associated it does nothing, so a healthy tick never
// duplicates a connect attempt.
func (b *Backend) EnsureLink(ctx context.Context) error {
	if b.PollAssociate() {
		return nil
	}
	b.log.Warn("wireless link dropped, reassociating")
	return b.BringUp(ctx)
}

func (b *Backend) Connect(host string, port int) (link.Conn, bool) {
	return link.Dial(host, port, b.cfg.DialTimeout)
}

func (b *Backend) LocalAddr() netip.Addr { return b.sup.LocalAddr() }

package config

import (
	"fmt"
	"net"
	"net/netip"
)

// LinkConfig selects and tunes the transport backend. Immutable after
// Load.
//
// Example YAML:
//
//	link:
//	  kind: wireless
//	  ssid: "myssid"
//	  passphrase: "12345678"
//	  assoc_poll_ms: 500
type LinkConfig struct {
	// Kind: wired or wireless.
	Kind string `mapstructure:"kind"`

	// MAC is the hardware address, colon-separated hex.
	MAC string `mapstructure:"mac"`
	// LocalAddr is the static fallback address for the wired variant.
	LocalAddr string `mapstructure:"local_addr"`

	// SSID/Passphrase are mandatory for the wireless variant.
	SSID       string `mapstructure:"ssid"`
	Passphrase string `mapstructure:"passphrase"`

	// SettleMS delays wired bring-up before address negotiation.
	SettleMS int `mapstructure:"settle_ms"`
	// AssocPollMS is the wireless association poll interval.
	AssocPollMS int `mapstructure:"assoc_poll_ms"`
	// AssocMaxPolls bounds the association wait; 0 keeps the original
	// unbounded behavior.
	AssocMaxPolls int `mapstructure:"assoc_max_polls"`
	// DialTimeoutMS bounds each connection attempt.
	DialTimeoutMS int `mapstructure:"dial_timeout_ms"`
}

// HardwareAddr parses the configured MAC into the fixed 6-byte form.
func (c LinkConfig) HardwareAddr() ([6]byte, error) {
	var out [6]byte
	hw, err := net.ParseMAC(c.MAC)
	if err != nil {
		return out, fmt.Errorf("link.mac: %w", err)
	}
	if len(hw) != 6 {
		return out, fmt.Errorf("link.mac: want 6 bytes, got %d", len(hw))
	}
	copy(out[:], hw)
	return out, nil
}

// StaticAddr parses the configured fallback address.
func (c LinkConfig) StaticAddr() (netip.Addr, error) {
	addr, err := netip.ParseAddr(c.LocalAddr)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("link.local_addr: %w", err)
	}
	return addr, nil
}

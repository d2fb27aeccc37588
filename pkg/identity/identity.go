// Package identity derives the stable client identity used by request
// backends from the hardware (MAC) address of the link.
package identity

import "encoding/hex"

// Identity is a 12-character lowercase hex rendering of the 6-byte
// hardware address, with no separators. It doubles as the default
// client id for publish/subscribe backends.
type Identity string

// FromMAC derives the identity from a hardware address. Every byte maps
// to exactly two hex digits (zero-padded below 0x10), so the result is
// always 12 characters.
func FromMAC(mac [6]byte) Identity {
	return Identity(hex.EncodeToString(mac[:]))
}

func (id Identity) String() string { return string(id) }

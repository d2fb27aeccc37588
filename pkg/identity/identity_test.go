package identity

import "testing"

func TestFromMAC(t *testing.T) {
	cases := []struct {
		mac  [6]byte
		want Identity
	}{
		{[6]byte{0xDE, 0xAD, 0xDE, 0xAD, 0xBE, 0xEF}, "deaddeadbeef"},
		{[6]byte{0x00, 0x0A, 0x01, 0xFF, 0x10, 0x0F}, "000a01ff100f"},
		{[6]byte{}, "000000000000"},
	}
	for _, c := range cases {
		got := FromMAC(c.mac)
		if got != c.want {
			t.Fatalf("FromMAC(%x) = %q, want %q", c.mac, got, c.want)
		}
		if len(got) != 12 {
			t.Fatalf("identity length = %d, want 12", len(got))
		}
	}
}

package wireless

import (
	"net"
	"net/netip"
)

// SystemSupplicant treats the host OS as the wireless device: joining
// is delegated to whatever manages the radio, and association is read
// off the host stack (a usable unicast address means associated).
type SystemSupplicant struct {
	joined bool
}

func (s *SystemSupplicant) Join(_, _ string) error {
	s.joined = true
	return nil
}

func (s *SystemSupplicant) Status() Status {
	if !s.joined {
		return StatusIdle
	}
	if hostAddr().IsValid() {
		return StatusAssociated
	}
	return StatusConnecting
}

func (s *SystemSupplicant) LocalAddr() netip.Addr { return hostAddr() }

func hostAddr() netip.Addr {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return netip.Addr{}
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
		return addr
	}
	return netip.Addr{}
}

package vmconfig

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net/netip"
)

const (
	// HostIDBase is the first host id handed to VMs in the subnet.
	HostIDBase = 100
	// HostIDRange is the number of host ids VMs are spread over.
	HostIDRange = 50

	DefaultSubnet = "172.20.0.0/24"
	vmNetmask     = "255.255.255.0"
)

var ErrInvalidSubnet = errors.New("invalid subnet")

func sessionHash(sessionUUID string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionUUID))
	return h.Sum32()
}

// MACFor returns a locally administered unicast MAC derived from the session UUID.
func MACFor(sessionUUID string) string {
	h := sessionHash(sessionUUID)
	return fmt.Sprintf("02:00:00:%02x:%02x:%02x", byte(h>>16), byte(h>>8), byte(h))
}

// IPFor returns the address of the VM in subnet, in [base+100, base+149].
// Two sessions may hash to the same address.
func IPFor(subnet, sessionUUID string) (string, error) {
	prefix, err := netip.ParsePrefix(subnet)
	if err != nil {
		return "", errors.Join(err, ErrInvalidSubnet)
	}
	if !prefix.Addr().Is4() || prefix.Bits() > 24 {
		return "", fmt.Errorf("%w: %s must be an IPv4 prefix of at most /24", ErrInvalidSubnet, subnet)
	}

	base := prefix.Masked().Addr().As4()
	base[3] = byte(HostIDBase + sessionHash(sessionUUID)%HostIDRange)

	return netip.AddrFrom4(base).String(), nil
}

package network

import (
	"errors"
	"fmt"
	"net"

	"github.com/vishvananda/netlink"
)

var (
	ErrTapNameRequired  = errors.New("tap name is required")
	ErrCIDRRequired     = errors.New("CIDR is required")
	ErrCheckTapExists   = errors.New("failed to check if tap exists")
	ErrCreateTap        = errors.New("failed to create tap")
	ErrAddTapIP         = errors.New("failed to add IP address to tap")
	ErrBringTapUp       = errors.New("failed to bring tap up")
	ErrListRoutes       = errors.New("failed to list routes")
	ErrLookupRouteLink  = errors.New("failed to look up default route link")
	ErrParseCIDR        = errors.New("failed to parse CIDR")
	ErrDeleteTap        = errors.New("failed to delete tap")
	ErrLookupCreatedTap = errors.New("failed to look up created tap")
)

// Links is the subset of link operations the provisioner needs from the host.
type Links interface {
	// TapExists reports whether a link named name exists.
	TapExists(name string) (bool, error)
	// CreateTap creates a persistent TAP device, assigns cidr to it and brings it up.
	CreateTap(name, cidr string) error
	// DefaultInterface returns the name of the link carrying the default IPv4 route.
	// It returns an empty string when the host has no default route.
	DefaultInterface() (string, error)
}

// NewNetlinkLinks returns Links backed by rtnetlink.
func NewNetlinkLinks() Links {
	return netlinkLinks{}
}

type netlinkLinks struct{}

func (netlinkLinks) TapExists(name string) (bool, error) {
	if name == "" {
		return false, ErrTapNameRequired
	}

	_, err := netlink.LinkByName(name)
	if err == nil {
		return true, nil
	}

	var notFound netlink.LinkNotFoundError
	if errors.As(err, &notFound) {
		return false, nil
	}

	return false, fmt.Errorf("%w: %v", ErrCheckTapExists, err)
}

func (netlinkLinks) CreateTap(name, cidr string) error {
	if name == "" {
		return ErrTapNameRequired
	}
	if cidr == "" {
		return ErrCIDRRequired
	}

	addr, err := netlink.ParseAddr(cidr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrParseCIDR, err)
	}

	tap := &netlink.Tuntap{
		LinkAttrs: netlink.LinkAttrs{Name: name},
		Mode:      netlink.TUNTAP_MODE_TAP,
	}
	if err := netlink.LinkAdd(tap); err != nil {
		return fmt.Errorf("%w: %v", ErrCreateTap, err)
	}

	link, err := netlink.LinkByName(name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLookupCreatedTap, err)
	}

	if err := netlink.AddrAdd(link, addr); err != nil {
		_ = deleteLink(link)
		return fmt.Errorf("%w: %v", ErrAddTapIP, err)
	}

	if err := netlink.LinkSetUp(link); err != nil {
		_ = deleteLink(link)
		return fmt.Errorf("%w: %v", ErrBringTapUp, err)
	}

	return nil
}

func (netlinkLinks) DefaultInterface() (string, error) {
	routes, err := netlink.RouteList(nil, netlink.FAMILY_V4)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrListRoutes, err)
	}

	for _, route := range routes {
		if !isDefaultRoute(route.Dst) || route.LinkIndex == 0 {
			continue
		}

		link, err := netlink.LinkByIndex(route.LinkIndex)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrLookupRouteLink, err)
		}

		return link.Attrs().Name, nil
	}

	return "", nil
}

// isDefaultRoute returns true for a nil destination or 0.0.0.0/0.
func isDefaultRoute(dst *net.IPNet) bool {
	if dst == nil {
		return true
	}
	ones, _ := dst.Mask.Size()
	return ones == 0 && dst.IP.IsUnspecified()
}

func deleteLink(link netlink.Link) error {
	_ = netlink.LinkSetDown(link)
	if err := netlink.LinkDel(link); err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteTap, err)
	}
	return nil
}

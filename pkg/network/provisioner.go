package network

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

const (
	DefaultTapName  = "ch-tap0"
	DefaultHostCIDR = "172.20.0.1/24"
)

var errNoUplink = errors.New("no default route found, skipping NAT: VMs will lack internet egress")

// Config describes the host-side network shared by every VM.
type Config struct {
	// TapName is the name of the singleton TAP device, e.g. "ch-tap0".
	TapName string
	// HostCIDR is the host address of the tap with its prefix, e.g. "172.20.0.1/24".
	HostCIDR string
}

// Status reports what EnsureNetwork did.
type Status struct {
	// Created is true when this call created the tap.
	Created bool
	// Uplink is the egress interface the NAT rules point at.
	Uplink string
	// NATConfigured is true when forwarding and NAT rules were installed.
	NATConfigured bool
	// Warnings lists non-fatal problems, e.g. a missing default route.
	Warnings []string
}

// Provisioner ensures the TAP device exists with an address, forwarding and NAT.
type Provisioner struct {
	config   Config
	links    Links
	firewall *Firewall

	mu sync.Mutex
}

// NewProvisioner returns a Provisioner. Empty config fields take their defaults.
func NewProvisioner(config Config, links Links, firewall *Firewall) *Provisioner {
	if config.TapName == "" {
		config.TapName = DefaultTapName
	}
	if config.HostCIDR == "" {
		config.HostCIDR = DefaultHostCIDR
	}

	return &Provisioner{
		config:   config,
		links:    links,
		firewall: firewall,
	}
}

// Config returns the effective configuration.
func (p *Provisioner) Config() Config {
	return p.config
}

// EnsureNetwork is idempotent: an existing tap is reported as-is, otherwise it is created,
// addressed, forwarding is enabled and NAT rules are installed against the default uplink.
func (p *Provisioner) EnsureNetwork(ctx context.Context) (Status, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	exists, err := p.links.TapExists(p.config.TapName)
	if err != nil {
		return Status{}, err
	}
	if exists {
		return Status{}, nil
	}

	slog.InfoContext(ctx, "setting up network", "tap", p.config.TapName, "cidr", p.config.HostCIDR)

	if err := p.links.CreateTap(p.config.TapName, p.config.HostCIDR); err != nil {
		return Status{}, err
	}

	status := Status{Created: true}

	if err := p.firewall.EnableForwarding(ctx); err != nil {
		return status, err
	}

	uplink, err := p.links.DefaultInterface()
	if err != nil {
		return status, err
	}

	if uplink == "" {
		slog.WarnContext(ctx, errNoUplink.Error(), "tap", p.config.TapName)
		status.Warnings = append(status.Warnings, errNoUplink.Error())
		return status, nil
	}

	if err := p.firewall.EnsureNAT(ctx, p.config.TapName, uplink); err != nil {
		return status, fmt.Errorf("uplink=%s: %w", uplink, err)
	}

	status.Uplink = uplink
	status.NATConfigured = true

	slog.InfoContext(ctx, "network setup complete", "tap", p.config.TapName, "uplink", uplink)
	return status, nil
}

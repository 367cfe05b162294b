package network

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alexandremahdhaoui/chterm/pkg/execcontext"
	utilexec "k8s.io/utils/exec"
)

var (
	ErrEnableForwarding = errors.New("failed to enable IP forwarding")
	ErrAddNATRule       = errors.New("failed to add NAT rule")
	ErrUplinkRequired   = errors.New("uplink interface is required")
)

// Firewall configures host forwarding and the NAT rules that give VMs on the tap internet egress.
type Firewall struct {
	execCtx execcontext.Context
	execer  utilexec.Interface
}

// NewFirewall returns a Firewall running iptables and sysctl through execCtx.
func NewFirewall(execCtx execcontext.Context, execer utilexec.Interface) *Firewall {
	return &Firewall{
		execCtx: execCtx,
		execer:  execer,
	}
}

// EnableForwarding turns on IPv4 forwarding on the host.
func (f *Firewall) EnableForwarding(ctx context.Context) error {
	cmd := []string{"sysctl", "-w", "net.ipv4.ip_forward=1"}

	out, err := execcontext.Command(f.execCtx, f.execer, cmd...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %v, output: %s", ErrEnableForwarding, err, string(out))
	}

	slog.DebugContext(ctx, "enabled ip forwarding", "cmd", execcontext.FormatCmd(f.execCtx, cmd...))
	return nil
}

// EnsureNAT installs the masquerade and forward rules between tap and uplink.
// A rule already present is left untouched.
func (f *Firewall) EnsureNAT(ctx context.Context, tap, uplink string) error {
	if tap == "" {
		return ErrTapNameRequired
	}
	if uplink == "" {
		return ErrUplinkRequired
	}

	for _, rule := range natRules(tap, uplink) {
		if f.ruleExists(rule) {
			continue
		}

		cmd := rule.command("-A")
		out, err := execcontext.Command(f.execCtx, f.execer, cmd...).CombinedOutput()
		if err != nil {
			return fmt.Errorf("%w: %v, output: %s", ErrAddNATRule, err, string(out))
		}

		slog.InfoContext(ctx, "added iptables rule", "cmd", execcontext.FormatCmd(f.execCtx, cmd...))
	}

	return nil
}

// ruleExists runs `iptables -C`. Any failure, including a missing binary, reads as absent so that
// the subsequent append reports the real error.
func (f *Firewall) ruleExists(rule iptablesRule) bool {
	return execcontext.Command(f.execCtx, f.execer, rule.command("-C")...).Run() == nil
}

type iptablesRule struct {
	table string
	chain string
	spec  []string
}

func (r iptablesRule) command(action string) []string {
	cmd := []string{"iptables"}
	if r.table != "" {
		cmd = append(cmd, "-t", r.table)
	}
	cmd = append(cmd, action, r.chain)
	return append(cmd, r.spec...)
}

func natRules(tap, uplink string) []iptablesRule {
	return []iptablesRule{
		{table: "nat", chain: "POSTROUTING", spec: []string{"-o", uplink, "-j", "MASQUERADE"}},
		{chain: "FORWARD", spec: []string{"-i", tap, "-o", uplink, "-j", "ACCEPT"}},
		{chain: "FORWARD", spec: []string{"-i", uplink, "-o", tap, "-j", "ACCEPT"}},
	}
}

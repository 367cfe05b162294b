// Copyright 2024 Alexandre Mahdhaoui
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package network prepares the host side of VM networking.
//
// The package includes three components:
//
//   - Provisioner: ensures the singleton TAP device exists with an address, IP forwarding
//     and NAT rules towards the default uplink
//   - Firewall: runs sysctl and iptables through an execcontext.Context
//   - Reclaimer: terminates hypervisor processes orphaned by a previous run
//
// # Idempotency
//
// EnsureNetwork returns early when the tap already exists and never deletes it. NAT rules are
// checked with `iptables -C` before being appended.
//
// # Example Usage
//
//	execCtx := execcontext.New(nil, []string{"sudo"})
//	firewall := network.NewFirewall(execCtx, utilexec.New())
//	prov := network.NewProvisioner(network.Config{}, network.NewNetlinkLinks(), firewall)
//
//	status, err := prov.EnsureNetwork(ctx)
//	if err != nil {
//	    // VMs still boot, they only lack networking.
//	}
//	for _, w := range status.Warnings {
//	    slog.Warn(w)
//	}
package network

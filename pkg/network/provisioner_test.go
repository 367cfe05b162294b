//go:build unit

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

package network_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alexandremahdhaoui/chterm/pkg/execcontext"
	"github.com/alexandremahdhaoui/chterm/pkg/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvisioner_Defaults(t *testing.T) {
	prov := network.NewProvisioner(network.Config{}, &fakeLinks{}, nil)

	assert.Equal(t, network.DefaultTapName, prov.Config().TapName)
	assert.Equal(t, network.DefaultHostCIDR, prov.Config().HostCIDR)
}

func TestProvisioner_EnsureNetwork(t *testing.T) {
	ctx := context.Background()
	execCtx := execcontext.New(nil, nil)

	t.Run("tap already exists", func(t *testing.T) {
		links := &fakeLinks{exists: true}
		fakeExec, argvs := newFakeExec()
		prov := network.NewProvisioner(network.Config{}, links, network.NewFirewall(execCtx, fakeExec))

		status, err := prov.EnsureNetwork(ctx)
		require.NoError(t, err)

		assert.False(t, status.Created)
		assert.Zero(t, links.createCalls)
		assert.Empty(t, *argvs)
	})

	t.Run("creates tap with NAT", func(t *testing.T) {
		links := &fakeLinks{uplink: "eth0"}
		fakeExec, argvs := newFakeExec(
			fakeCall{},                // sysctl
			fakeCall{err: exitErr(1)}, // -C MASQUERADE
			fakeCall{},                // -A MASQUERADE
			fakeCall{},                // -C FORWARD tap->uplink exists
			fakeCall{},                // -C FORWARD uplink->tap exists
		)
		prov := network.NewProvisioner(network.Config{}, links, network.NewFirewall(execCtx, fakeExec))

		status, err := prov.EnsureNetwork(ctx)
		require.NoError(t, err)

		assert.True(t, status.Created)
		assert.True(t, status.NATConfigured)
		assert.Equal(t, "eth0", status.Uplink)
		assert.Empty(t, status.Warnings)
		assert.Equal(t, 1, links.createCalls)

		require.Len(t, *argvs, 5)
		assert.Equal(t, []string{"sysctl", "-w", "net.ipv4.ip_forward=1"}, (*argvs)[0])
		assert.Equal(t,
			[]string{"iptables", "-t", "nat", "-A", "POSTROUTING", "-o", "eth0", "-j", "MASQUERADE"},
			(*argvs)[2])
	})

	t.Run("no default route skips NAT", func(t *testing.T) {
		links := &fakeLinks{}
		fakeExec, argvs := newFakeExec(fakeCall{})
		prov := network.NewProvisioner(network.Config{}, links, network.NewFirewall(execCtx, fakeExec))

		status, err := prov.EnsureNetwork(ctx)
		require.NoError(t, err)

		assert.True(t, status.Created)
		assert.False(t, status.NATConfigured)
		assert.Len(t, status.Warnings, 1)
		assert.Len(t, *argvs, 1)
	})

	t.Run("create failure", func(t *testing.T) {
		links := &fakeLinks{createErr: network.ErrCreateTap}
		fakeExec, _ := newFakeExec()
		prov := network.NewProvisioner(network.Config{}, links, network.NewFirewall(execCtx, fakeExec))

		_, err := prov.EnsureNetwork(ctx)
		assert.ErrorIs(t, err, network.ErrCreateTap)
	})

	t.Run("forwarding failure", func(t *testing.T) {
		links := &fakeLinks{uplink: "eth0"}
		fakeExec, _ := newFakeExec(fakeCall{output: "permission denied", err: exitErr(255)})
		prov := network.NewProvisioner(network.Config{}, links, network.NewFirewall(execCtx, fakeExec))

		status, err := prov.EnsureNetwork(ctx)
		assert.ErrorIs(t, err, network.ErrEnableForwarding)
		assert.True(t, status.Created)
	})

	t.Run("exists check failure", func(t *testing.T) {
		links := &fakeLinks{existsErr: errors.Join(errors.New("netlink"), network.ErrCheckTapExists)}
		prov := network.NewProvisioner(network.Config{}, links, nil)

		_, err := prov.EnsureNetwork(ctx)
		assert.ErrorIs(t, err, network.ErrCheckTapExists)
	})
}

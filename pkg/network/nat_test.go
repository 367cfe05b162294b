//go:build unit

/*
Copyright 2024 Alexandre Mahdhaoui

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package network_test

import (
	"context"
	"testing"

	"github.com/alexandremahdhaoui/chterm/pkg/execcontext"
	"github.com/alexandremahdhaoui/chterm/pkg/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirewall_EnsureNAT(t *testing.T) {
	ctx := context.Background()

	t.Run("validation", func(t *testing.T) {
		fw := network.NewFirewall(execcontext.New(nil, nil), nil)

		assert.ErrorIs(t, fw.EnsureNAT(ctx, "", "eth0"), network.ErrTapNameRequired)
		assert.ErrorIs(t, fw.EnsureNAT(ctx, "ch-tap0", ""), network.ErrUplinkRequired)
	})

	t.Run("appends every missing rule with sudo", func(t *testing.T) {
		fakeExec, argvs := newFakeExec(
			fakeCall{err: exitErr(1)}, fakeCall{},
			fakeCall{err: exitErr(1)}, fakeCall{},
			fakeCall{err: exitErr(1)}, fakeCall{},
		)
		fw := network.NewFirewall(execcontext.New(nil, []string{"sudo"}), fakeExec)

		require.NoError(t, fw.EnsureNAT(ctx, "ch-tap0", "eth0"))

		expected := [][]string{
			{"sudo", "iptables", "-t", "nat", "-C", "POSTROUTING", "-o", "eth0", "-j", "MASQUERADE"},
			{"sudo", "iptables", "-t", "nat", "-A", "POSTROUTING", "-o", "eth0", "-j", "MASQUERADE"},
			{"sudo", "iptables", "-C", "FORWARD", "-i", "ch-tap0", "-o", "eth0", "-j", "ACCEPT"},
			{"sudo", "iptables", "-A", "FORWARD", "-i", "ch-tap0", "-o", "eth0", "-j", "ACCEPT"},
			{"sudo", "iptables", "-C", "FORWARD", "-i", "eth0", "-o", "ch-tap0", "-j", "ACCEPT"},
			{"sudo", "iptables", "-A", "FORWARD", "-i", "eth0", "-o", "ch-tap0", "-j", "ACCEPT"},
		}
		assert.Equal(t, expected, *argvs)
	})

	t.Run("existing rules are not duplicated", func(t *testing.T) {
		fakeExec, argvs := newFakeExec(fakeCall{}, fakeCall{}, fakeCall{})
		fw := network.NewFirewall(execcontext.New(nil, nil), fakeExec)

		require.NoError(t, fw.EnsureNAT(ctx, "ch-tap0", "eth0"))
		assert.Len(t, *argvs, 3)
	})

	t.Run("append failure", func(t *testing.T) {
		fakeExec, _ := newFakeExec(
			fakeCall{err: exitErr(1)},
			fakeCall{output: "iptables: Permission denied", err: exitErr(4)},
		)
		fw := network.NewFirewall(execcontext.New(nil, nil), fakeExec)

		err := fw.EnsureNAT(ctx, "ch-tap0", "eth0")
		assert.ErrorIs(t, err, network.ErrAddNATRule)
		assert.Contains(t, err.Error(), "Permission denied")
	})
}

//go:build integration

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
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/vishvananda/netlink"
	utilexec "k8s.io/utils/exec"
)

// Requires CAP_NET_ADMIN: run as root.
func TestProvisioner_EnsureNetwork_Integration(t *testing.T) {
	// Linux interface names are limited to 15 chars
	tapName := "cht" + uuid.NewString()[:6]

	links := network.NewNetlinkLinks()
	fw := network.NewFirewall(execcontext.New(nil, nil), utilexec.New())
	prov := network.NewProvisioner(network.Config{TapName: tapName, HostCIDR: "172.31.250.1/24"}, links, fw)

	t.Cleanup(func() {
		if link, err := netlink.LinkByName(tapName); err == nil {
			_ = netlink.LinkDel(link)
		}
	})

	status, err := prov.EnsureNetwork(context.Background())
	require.NoError(t, err)
	require.True(t, status.Created)

	exists, err := links.TapExists(tapName)
	require.NoError(t, err)
	require.True(t, exists)

	status, err = prov.EnsureNetwork(context.Background())
	require.NoError(t, err)
	require.False(t, status.Created)
}

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

package vmconfig_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/alexandremahdhaoui/chterm/pkg/vmconfig"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	var (
		paths       = vmconfig.DefaultPaths("/opt/chterm")
		sessionUUID = "0b5d8d3c-5b0e-4b3e-9d0a-4f3a1c6e2f11"
		mac         = vmconfig.MACFor(sessionUUID)
		ip, _       = vmconfig.IPFor(vmconfig.DefaultSubnet, sessionUUID)
		netArg      = fmt.Sprintf("tap=ch-tap0,mac=%s,ip=%s,mask=255.255.255.0", mac, ip)
		disabled    = false
	)

	for _, tc := range []struct {
		name     string
		recipe   vmconfig.Recipe
		serial   string
		expected []string
	}{
		{
			name:   "defaults boot the kernel",
			recipe: vmconfig.Recipe{},
			serial: "pty=/dev/pts/7",
			expected: []string{
				"/opt/chterm/bin/cloud-hypervisor",
				"--cpus", "boot=2",
				"--memory", "size=512M",
				"--kernel", "/opt/chterm/bin/vmlinux-ch",
				"--disk", "path=/opt/chterm/bin/ubuntu-rootfs.img",
				"--console", "off",
				"--serial", "pty=/dev/pts/7",
				"--cmdline", "console=ttyS0 root=/dev/vda1 rw",
				"--net", netArg,
			},
		},
		{
			name:   "firmware boot has no cmdline",
			recipe: vmconfig.Recipe{CPUs: 1, Memory: "1G", UseFirmware: true},
			serial: "tty",
			expected: []string{
				"/opt/chterm/bin/cloud-hypervisor",
				"--cpus", "boot=1",
				"--memory", "size=1024M",
				"--kernel", "/opt/chterm/bin/hypervisor-fw",
				"--disk", "path=/opt/chterm/bin/ubuntu-rootfs.img",
				"--console", "off",
				"--serial", "tty",
				"--net", netArg,
			},
		},
		{
			name:   "network disabled",
			recipe: vmconfig.Recipe{CPUs: 1, Memory: "256M", Network: &disabled},
			serial: "tty",
			expected: []string{
				"/opt/chterm/bin/cloud-hypervisor",
				"--cpus", "boot=1",
				"--memory", "size=256M",
				"--kernel", "/opt/chterm/bin/vmlinux-ch",
				"--disk", "path=/opt/chterm/bin/ubuntu-rootfs.img",
				"--console", "off",
				"--serial", "tty",
				"--cmdline", "console=ttyS0 root=/dev/vda1 rw",
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := vmconfig.Build(tc.recipe, vmconfig.BuildOptions{
				Paths:       paths,
				WorkDir:     "/tmp/vm-x",
				SessionUUID: sessionUUID,
				Serial:      tc.serial,
			})
			require.NoError(t, err)

			assert.Equal(t, tc.expected, cfg.Argv)
			assert.Equal(t, "/tmp/vm-x", cfg.WorkDir)
			if tc.recipe.NetworkEnabled() {
				assert.Equal(t, mac, cfg.MAC)
				assert.Equal(t, ip, cfg.IP)
			} else {
				assert.Empty(t, cfg.MAC)
				assert.Empty(t, cfg.IP)
			}
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	opts := vmconfig.BuildOptions{
		Paths:       vmconfig.DefaultPaths("/opt/chterm"),
		SessionUUID: uuid.NewString(),
		Serial:      "tty",
	}

	t.Run("invalid recipe", func(t *testing.T) {
		_, err := vmconfig.Build(vmconfig.Recipe{CPUs: 100}, opts)
		assert.ErrorIs(t, err, vmconfig.ErrInvalidRecipe)
	})

	t.Run("missing serial", func(t *testing.T) {
		o := opts
		o.Serial = ""
		_, err := vmconfig.Build(vmconfig.Recipe{}, o)
		assert.ErrorIs(t, err, vmconfig.ErrSerialRequired)
	})

	t.Run("missing uuid", func(t *testing.T) {
		o := opts
		o.SessionUUID = ""
		_, err := vmconfig.Build(vmconfig.Recipe{}, o)
		assert.ErrorIs(t, err, vmconfig.ErrSessionUUIDRequired)
	})

	t.Run("invalid subnet", func(t *testing.T) {
		o := opts
		o.Subnet = "fd00::/64"
		_, err := vmconfig.Build(vmconfig.Recipe{}, o)
		assert.ErrorIs(t, err, vmconfig.ErrInvalidSubnet)
	})
}

func TestBuild_Deterministic(t *testing.T) {
	opts := vmconfig.BuildOptions{
		Paths:       vmconfig.DefaultPaths("/opt/chterm"),
		SessionUUID: uuid.NewString(),
		Serial:      "tty",
	}

	a, err := vmconfig.Build(vmconfig.Recipe{}, opts)
	require.NoError(t, err)
	b, err := vmconfig.Build(vmconfig.Recipe{}, opts)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestMACFor(t *testing.T) {
	for range 20 {
		mac := vmconfig.MACFor(uuid.NewString())
		assert.True(t, strings.HasPrefix(mac, "02:00:00:"), mac)
		assert.Len(t, mac, 17)
	}
}

func TestIPFor(t *testing.T) {
	for range 50 {
		ip, err := vmconfig.IPFor("172.20.0.0/24", uuid.NewString())
		require.NoError(t, err)

		require.True(t, strings.HasPrefix(ip, "172.20.0."), ip)

		var host int
		_, err = fmt.Sscanf(strings.TrimPrefix(ip, "172.20.0."), "%d", &host)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, host, vmconfig.HostIDBase)
		assert.Less(t, host, vmconfig.HostIDBase+vmconfig.HostIDRange)
	}

	t.Run("host bits are masked", func(t *testing.T) {
		a, err := vmconfig.IPFor("172.20.0.1/24", "x")
		require.NoError(t, err)
		b, err := vmconfig.IPFor("172.20.0.0/24", "x")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}

func TestPaths_WithDefaults(t *testing.T) {
	p := vmconfig.Paths{Kernel: "/boot/vmlinux"}.WithDefaults("/srv")

	assert.Equal(t, "/boot/vmlinux", p.Kernel)
	assert.Equal(t, "/srv/bin/cloud-hypervisor", p.Binary)
	assert.Equal(t, "/srv/bin/hypervisor-fw", p.Firmware)
	assert.Equal(t, "/srv/bin/ubuntu-rootfs.img", p.RootFS)
}

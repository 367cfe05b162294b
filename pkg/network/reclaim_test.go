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
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alexandremahdhaoui/chterm/pkg/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func writeProc(t *testing.T, root string, pid int, argv ...string) {
	t.Helper()

	dir := filepath.Join(root, strconv.Itoa(pid))
	require.NoError(t, os.MkdirAll(dir, 0o755))

	cmdline := strings.Join(argv, "\x00") + "\x00"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cmdline"), []byte(cmdline), 0o644))
}

func TestReclaimer_Reclaim(t *testing.T) {
	procRoot := t.TempDir()

	writeProc(t, procRoot, 101, "/opt/chterm/bin/cloud-hypervisor", "--cpus", "boot=2",
		"--net", "tap=ch-tap0,mac=02:00:00:01:02:03,ip=172.20.0.120,mask=255.255.255.0")
	writeProc(t, procRoot, 102, "/opt/chterm/bin/cloud-hypervisor", "--net", "tap=other-tap")
	writeProc(t, procRoot, 103, "grep", "ch-tap0", "cloud-hypervisor")
	writeProc(t, procRoot, 104, "/usr/bin/bash")
	require.NoError(t, os.MkdirAll(filepath.Join(procRoot, "self"), 0o755))

	var (
		killed []int
		slept  time.Duration
	)

	r, err := network.NewReclaimer(procRoot, "cloud-hypervisor", "ch-tap0",
		network.WithKillFunc(func(pid int, sig unix.Signal) error {
			assert.Equal(t, unix.SIGTERM, sig)
			killed = append(killed, pid)
			return nil
		}),
		network.WithSleepFunc(func(d time.Duration) { slept = d }),
		network.WithReclaimGrace(time.Second),
	)
	require.NoError(t, err)

	count, err := r.Reclaim(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	assert.Equal(t, []int{101}, killed)
	assert.Equal(t, time.Second, slept)
}

func TestReclaimer_NothingToReclaim(t *testing.T) {
	procRoot := t.TempDir()
	writeProc(t, procRoot, 200, "/usr/sbin/sshd")

	slept := false
	r, err := network.NewReclaimer(procRoot, "cloud-hypervisor", "ch-tap0",
		network.WithKillFunc(func(int, unix.Signal) error {
			t.Fatal("no process should be signalled")
			return nil
		}),
		network.WithSleepFunc(func(time.Duration) { slept = true }),
	)
	require.NoError(t, err)

	count, err := r.Reclaim(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.False(t, slept)
}

func TestNewReclaimer_MissingMountPoint(t *testing.T) {
	_, err := network.NewReclaimer(filepath.Join(t.TempDir(), "nope"), "cloud-hypervisor", "ch-tap0")
	assert.ErrorIs(t, err, network.ErrOpenProcFS)
}

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

package vmconfig

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
)

const (
	// KernelCmdline points the direct kernel boot at the first partition of the root disk.
	KernelCmdline = "console=ttyS0 root=/dev/vda1 rw"

	DefaultTapName = "ch-tap0"
)

var (
	ErrSerialRequired      = errors.New("serial console argument is required")
	ErrSessionUUIDRequired = errors.New("session uuid is required")
)

// ------------------------------------------------------- PATHS --------------------------------------------------- //

// Paths locates the hypervisor binary and the shared boot images.
type Paths struct {
	Binary   string `json:"binary"`
	Kernel   string `json:"kernel"`
	Firmware string `json:"firmware"`
	RootFS   string `json:"rootfs"`
}

// DefaultPaths returns the conventional layout under baseDir.
func DefaultPaths(baseDir string) Paths {
	return Paths{
		Binary:   filepath.Join(baseDir, "bin", "cloud-hypervisor"),
		Kernel:   filepath.Join(baseDir, "bin", "vmlinux-ch"),
		Firmware: filepath.Join(baseDir, "bin", "hypervisor-fw"),
		RootFS:   filepath.Join(baseDir, "bin", "ubuntu-rootfs.img"),
	}
}

// WithDefaults fills empty fields from DefaultPaths(baseDir).
func (p Paths) WithDefaults(baseDir string) Paths {
	d := DefaultPaths(baseDir)
	if p.Binary == "" {
		p.Binary = d.Binary
	}
	if p.Kernel == "" {
		p.Kernel = d.Kernel
	}
	if p.Firmware == "" {
		p.Firmware = d.Firmware
	}
	if p.RootFS == "" {
		p.RootFS = d.RootFS
	}
	return p
}

// ------------------------------------------------------- BUILD --------------------------------------------------- //

// BuildOptions carries the per-session inputs of Build.
type BuildOptions struct {
	Paths Paths
	// WorkDir is the session scratch directory, used as the hypervisor working directory.
	WorkDir string
	// SessionUUID seeds the MAC and IP derivation.
	SessionUUID string
	// Serial is the value of --serial, e.g. "pty=/dev/pts/3" or "tty".
	Serial string
	// TapName defaults to DefaultTapName.
	TapName string
	// Subnet defaults to DefaultSubnet.
	Subnet string
}

// Config is the fully resolved launch configuration of one VM.
type Config struct {
	Recipe    Recipe
	Argv      []string
	WorkDir   string
	MemoryMiB int64
	// MAC and IP are empty when the network is disabled.
	MAC string
	IP  string
}

// Build resolves recipe into the hypervisor argv. It has no side effects.
func Build(recipe Recipe, opts BuildOptions) (Config, error) {
	recipe = recipe.Defaulted()
	if err := recipe.Validate(); err != nil {
		return Config{}, err
	}

	if opts.Serial == "" {
		return Config{}, ErrSerialRequired
	}
	if opts.SessionUUID == "" {
		return Config{}, ErrSessionUUIDRequired
	}

	memMiB, err := recipe.MemoryMiB()
	if err != nil {
		return Config{}, errors.Join(err, ErrInvalidRecipe)
	}

	boot := opts.Paths.Kernel
	if recipe.UseFirmware {
		boot = opts.Paths.Firmware
	}

	argv := []string{
		opts.Paths.Binary,
		"--cpus", "boot=" + strconv.Itoa(recipe.CPUs),
		"--memory", fmt.Sprintf("size=%dM", memMiB),
		"--kernel", boot,
		"--disk", "path=" + opts.Paths.RootFS,
		"--console", "off",
		"--serial", opts.Serial,
	}

	if !recipe.UseFirmware {
		argv = append(argv, "--cmdline", KernelCmdline)
	}

	out := Config{
		Recipe:    recipe,
		WorkDir:   opts.WorkDir,
		MemoryMiB: memMiB,
	}

	if recipe.NetworkEnabled() {
		tap := opts.TapName
		if tap == "" {
			tap = DefaultTapName
		}
		subnet := opts.Subnet
		if subnet == "" {
			subnet = DefaultSubnet
		}

		ip, err := IPFor(subnet, opts.SessionUUID)
		if err != nil {
			return Config{}, err
		}

		out.MAC = MACFor(opts.SessionUUID)
		out.IP = ip
		argv = append(argv, "--net", fmt.Sprintf("tap=%s,mac=%s,ip=%s,mask=%s", tap, out.MAC, out.IP, vmNetmask))
	}

	out.Argv = argv
	return out, nil
}

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

	"github.com/docker/go-units"
)

const (
	DefaultCPUs   = 2
	DefaultMemory = "512M"

	MaxCPUs        = 64
	MinMemoryBytes = 128 * units.MiB
)

var ErrInvalidRecipe = errors.New("invalid recipe")

// Recipe is the caller-supplied configuration of a VM.
type Recipe struct {
	// Name is a human readable label. The manager picks one when empty.
	Name string `json:"name,omitempty"`
	// CPUs is the number of boot vCPUs.
	CPUs int `json:"cpus,omitempty"`
	// Memory is the guest memory size, e.g. "512M" or "1G". Units are binary.
	Memory string `json:"memory,omitempty"`
	// UseFirmware boots through the firmware image instead of the direct kernel.
	UseFirmware bool `json:"useFirmware,omitempty"`
	// PythonPackages are installed by the init script.
	PythonPackages []string `json:"pythonPackages,omitempty"`
	// StartupScript is appended verbatim to the init script.
	StartupScript string `json:"startupScript,omitempty"`
	// Network attaches the VM to the shared tap. Nil means enabled.
	Network *bool `json:"network,omitempty"`
}

// Defaulted returns a copy of r with empty fields set to their defaults.
func (r Recipe) Defaulted() Recipe {
	if r.CPUs == 0 {
		r.CPUs = DefaultCPUs
	}
	if r.Memory == "" {
		r.Memory = DefaultMemory
	}
	if r.Network == nil {
		enabled := true
		r.Network = &enabled
	}
	return r
}

// NetworkEnabled reports whether the VM gets a network interface.
func (r Recipe) NetworkEnabled() bool {
	return r.Network == nil || *r.Network
}

// Validate checks a defaulted recipe.
func (r Recipe) Validate() error {
	var errs []error

	if r.CPUs < 1 || r.CPUs > MaxCPUs {
		errs = append(errs, fmt.Errorf("cpus must be in [1, %d], got %d", MaxCPUs, r.CPUs))
	}

	if _, err := r.MemoryMiB(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(append(errs, ErrInvalidRecipe)...)
	}
	return nil
}

// MemoryMiB parses Memory and returns it in whole MiB.
func (r Recipe) MemoryMiB() (int64, error) {
	size, err := units.RAMInBytes(r.Memory)
	if err != nil {
		return 0, fmt.Errorf("memory %q: %v", r.Memory, err)
	}
	if size < MinMemoryBytes {
		return 0, fmt.Errorf("memory must be at least %s, got %q",
			units.BytesSize(float64(MinMemoryBytes)), r.Memory)
	}
	return size / units.MiB, nil
}

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

package vmconfig_test

import (
	"testing"

	"github.com/alexandremahdhaoui/chterm/pkg/vmconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipe_Defaulted(t *testing.T) {
	r := vmconfig.Recipe{}.Defaulted()

	assert.Equal(t, 2, r.CPUs)
	assert.Equal(t, "512M", r.Memory)
	require.NotNil(t, r.Network)
	assert.True(t, *r.Network)

	disabled := false
	r = vmconfig.Recipe{CPUs: 4, Memory: "2G", Network: &disabled}.Defaulted()
	assert.Equal(t, 4, r.CPUs)
	assert.Equal(t, "2G", r.Memory)
	assert.False(t, r.NetworkEnabled())
}

func TestRecipe_Validate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		recipe vmconfig.Recipe
		valid  bool
	}{
		{name: "defaults", recipe: vmconfig.Recipe{}.Defaulted(), valid: true},
		{name: "minimum", recipe: vmconfig.Recipe{CPUs: 1, Memory: "128M"}, valid: true},
		{name: "lowercase units", recipe: vmconfig.Recipe{CPUs: 64, Memory: "4gb"}, valid: true},
		{name: "zero cpus", recipe: vmconfig.Recipe{CPUs: 0, Memory: "512M"}},
		{name: "too many cpus", recipe: vmconfig.Recipe{CPUs: 65, Memory: "512M"}},
		{name: "too little memory", recipe: vmconfig.Recipe{CPUs: 1, Memory: "64M"}},
		{name: "garbage memory", recipe: vmconfig.Recipe{CPUs: 1, Memory: "lots"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.recipe.Validate()
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, vmconfig.ErrInvalidRecipe)
		})
	}
}

func TestRecipe_MemoryMiB(t *testing.T) {
	mib, err := vmconfig.Recipe{Memory: "1.5G"}.MemoryMiB()
	require.NoError(t, err)
	assert.Equal(t, int64(1536), mib)
}

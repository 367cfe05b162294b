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

package types_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/alexandremahdhaoui/chterm/internal/types"
	"github.com/alexandremahdhaoui/chterm/pkg/console"
	"github.com/alexandremahdhaoui/chterm/pkg/process"
	"github.com/alexandremahdhaoui/chterm/pkg/vmconfig"
	"github.com/stretchr/testify/assert"
)

func TestErrorKind(t *testing.T) {
	for _, tc := range []struct {
		err      error
		expected types.Kind
	}{
		{err: fmt.Errorf("id=terminal_3: %w", types.ErrNotFound), expected: types.KindNotFound},
		{err: types.ErrProcessStopped, expected: types.KindProcessStopped},
		{err: errors.Join(errors.New("EIO"), console.ErrChannelClosed), expected: types.KindChannelClosed},
		{err: errors.Join(errors.New("EAGAIN"), console.ErrWrite), expected: types.KindWriteError},
		{err: console.ErrRead, expected: types.KindReadError},
		{err: &process.BootFailureError{Kind: process.BootDeviceBusy}, expected: types.KindBootFailure},
		{err: fmt.Errorf("%w: no such file", process.ErrLaunch), expected: types.KindLaunchError},
		{err: errors.Join(errors.New("cpus"), vmconfig.ErrInvalidRecipe), expected: types.KindInvalidRecipe},
		{err: errors.New("boom"), expected: types.KindInternal},
	} {
		t.Run(tc.err.Error(), func(t *testing.T) {
			assert.Equal(t, tc.expected, types.ErrorKind(tc.err))
		})
	}
}

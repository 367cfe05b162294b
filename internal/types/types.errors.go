package types

import (
	"errors"

	"github.com/alexandremahdhaoui/chterm/pkg/console"
	"github.com/alexandremahdhaoui/chterm/pkg/process"
	"github.com/alexandremahdhaoui/chterm/pkg/vmconfig"
)

var (
	ErrNotFound       = errors.New("terminal not found")
	ErrProcessStopped = errors.New("VM process has stopped")
)

// Kind is a stable, machine readable error category.
type Kind string

const (
	KindNotFound       Kind = "not_found"
	KindProcessStopped Kind = "process_stopped"
	KindChannelClosed  Kind = "channel_closed"
	KindWriteError     Kind = "write_error"
	KindReadError      Kind = "read_error"
	KindLaunchError    Kind = "launch_error"
	KindBootFailure    Kind = "boot_failure"
	KindInvalidRecipe  Kind = "invalid_recipe"
	KindBadRequest     Kind = "bad_request"
	KindInternal       Kind = "internal"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{err: ErrNotFound, kind: KindNotFound},
	{err: ErrProcessStopped, kind: KindProcessStopped},
	{err: console.ErrChannelClosed, kind: KindChannelClosed},
	{err: console.ErrWrite, kind: KindWriteError},
	{err: console.ErrRead, kind: KindReadError},
	{err: process.ErrBootFailure, kind: KindBootFailure},
	{err: process.ErrLaunch, kind: KindLaunchError},
	{err: vmconfig.ErrInvalidRecipe, kind: KindInvalidRecipe},
}

// ErrorKind maps err to its Kind. Unknown errors are KindInternal.
func ErrorKind(err error) Kind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

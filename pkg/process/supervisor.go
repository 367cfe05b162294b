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

package process

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

const (
	DefaultHealthCheckDelay = 2 * time.Second
	DefaultTerminateGrace   = time.Second
	DefaultReapTimeout      = time.Second

	pollInterval = 20 * time.Millisecond
)

var (
	ErrLaunch    = errors.New("failed to launch process")
	ErrTerminate = errors.New("failed to terminate process group")
)

// ---------------------------------------------------- HANDLE ----------------------------------------------------- //

// Handle is the exclusive owner of one launched process and its process group.
type Handle struct {
	pid  int
	pgid int
	proc *os.Process

	mu         sync.Mutex
	exited     bool
	exitStatus int
}

// PID returns the process id.
func (h *Handle) PID() int {
	return h.pid
}

// PGID returns the process group id, equal to the PID.
func (h *Handle) PGID() int {
	return h.pgid
}

// Exited reports whether the process has exited. It reaps the process without blocking.
func (h *Handle) Exited() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.exited {
		return true
	}

	var ws unix.WaitStatus
	wpid, err := unix.Wait4(h.pid, &ws, unix.WNOHANG, nil)

	switch {
	case errors.Is(err, unix.ECHILD):
		// reaped elsewhere; the exit status is lost.
		h.exited = true
		h.exitStatus = -1
	case err != nil, wpid != h.pid:
		return false
	default:
		h.exited = true
		h.exitStatus = ws.ExitStatus()
		if ws.Signaled() {
			h.exitStatus = 128 + int(ws.Signal())
		}
	}

	_ = h.proc.Release()
	return true
}

// ExitStatus returns the exit code, 128+signal when killed, or -1 while running or when unknown.
func (h *Handle) ExitStatus() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.exited {
		return -1
	}
	return h.exitStatus
}

// -------------------------------------------------- SUPERVISOR --------------------------------------------------- //

// LaunchSpec describes the process to start. Nil files are connected to the null device.
type LaunchSpec struct {
	Argv []string
	Dir  string
	Env  []string

	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
}

// Supervisor launches hypervisor processes in their own process group and tears them down.
// It starts no goroutines: exit is observed by polling Handle.Exited.
type Supervisor struct {
	HealthCheckDelay time.Duration
	TerminateGrace   time.Duration
	ReapTimeout      time.Duration
}

// NewSupervisor returns a Supervisor with the default delays.
func NewSupervisor() *Supervisor {
	return &Supervisor{
		HealthCheckDelay: DefaultHealthCheckDelay,
		TerminateGrace:   DefaultTerminateGrace,
		ReapTimeout:      DefaultReapTimeout,
	}
}

// Launch starts spec.Argv as the leader of a new process group.
func (s *Supervisor) Launch(ctx context.Context, spec LaunchSpec) (*Handle, error) {
	if len(spec.Argv) == 0 || spec.Argv[0] == "" {
		return nil, fmt.Errorf("%w: empty command", ErrLaunch)
	}

	// not CommandContext: the VM outlives the request that created it.
	cmd := exec.Command(spec.Argv[0], spec.Argv[1:]...)
	cmd.Dir = spec.Dir
	cmd.Env = spec.Env
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	// typed nil *os.File must not reach exec.Cmd's io.Reader/io.Writer fields.
	if spec.Stdin != nil {
		cmd.Stdin = spec.Stdin
	}
	if spec.Stdout != nil {
		cmd.Stdout = spec.Stdout
	}
	if spec.Stderr != nil {
		cmd.Stderr = spec.Stderr
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v, cmd: %s", ErrLaunch, err, strings.Join(spec.Argv, " "))
	}

	h := &Handle{
		pid:  cmd.Process.Pid,
		pgid: cmd.Process.Pid,
		proc: cmd.Process,
	}

	slog.InfoContext(ctx, "launched process", "pid", h.pid, "binary", spec.Argv[0], "dir", spec.Dir)
	return h, nil
}

// CheckHealth waits HealthCheckDelay and returns a *BootFailureError if the process has exited by
// then. drain is called once on failure to collect the buffered output used for classification.
func (s *Supervisor) CheckHealth(ctx context.Context, h *Handle, drain func() string) error {
	timer := time.NewTimer(s.HealthCheckDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	if !h.Exited() {
		return nil
	}

	output := ""
	if drain != nil {
		output = drain()
	}

	err := &BootFailureError{
		Kind:       ClassifyBootFailure(output),
		Output:     output,
		ExitStatus: h.ExitStatus(),
	}

	slog.WarnContext(ctx, "process exited during boot",
		"pid", h.pid,
		"kind", string(err.Kind),
		"exitStatus", err.ExitStatus)

	return err
}

// Terminate sends SIGTERM to the process group, waits up to TerminateGrace for the leader to exit,
// then sends SIGKILL to the group and waits up to ReapTimeout for the leader. The group is killed even
// when the leader exited within the grace period. An already exited process or a vanished group is
// not an error.
func (s *Supervisor) Terminate(h *Handle) error {
	var errs []error

	if err := signalGroup(h.pgid, unix.SIGTERM); err != nil {
		errs = append(errs, err)
	}

	exited := s.waitExited(h, s.TerminateGrace)
	if !exited {
		slog.Warn("process did not exit after SIGTERM, killing group", "pid", h.pid, "grace", s.TerminateGrace.String())
	}

	// members of the group may outlive the leader.
	if err := signalGroup(h.pgid, unix.SIGKILL); err != nil {
		errs = append(errs, err)
	}

	if !exited && !s.waitExited(h, s.ReapTimeout) {
		errs = append(errs, fmt.Errorf("%w: pid %d still running after SIGKILL", ErrTerminate, h.pid))
	}

	return errors.Join(errs...)
}

func (s *Supervisor) waitExited(h *Handle, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if h.Exited() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(pollInterval)
	}
}

func signalGroup(pgid int, sig unix.Signal) error {
	if pgid <= 0 {
		return fmt.Errorf("%w: invalid process group %d", ErrTerminate, pgid)
	}

	err := unix.Kill(-pgid, sig)
	if err == nil || errors.Is(err, unix.ESRCH) {
		return nil
	}

	return fmt.Errorf("%w: sending %s to group %d: %v", ErrTerminate, unix.SignalName(sig), pgid, err)
}

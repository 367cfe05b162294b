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

package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/alexandremahdhaoui/chterm/internal/session"
	"github.com/alexandremahdhaoui/chterm/internal/types"
	"github.com/alexandremahdhaoui/chterm/pkg/console"
	"github.com/alexandremahdhaoui/chterm/pkg/network"
	"github.com/alexandremahdhaoui/chterm/pkg/process"
	"github.com/alexandremahdhaoui/chterm/pkg/vmconfig"
	"github.com/google/uuid"
)

const (
	// HypervisorLogName is the file of a session work dir receiving the hypervisor stderr.
	HypervisorLogName = "hypervisor.log"

	bootOutputLimit = 1024
)

var (
	ErrNotFound       = types.ErrNotFound
	ErrProcessStopped = types.ErrProcessStopped

	ErrCreateTerminal = errors.New("creating terminal")
	ErrInit           = errors.New("initializing terminal controller")
)

// ---------------------------------------------------- INTERFACE --------------------------------------------------- //

// Terminal manages VM terminal sessions. An empty owner on lookup searches every owner.
type Terminal interface {
	// Init reclaims stale hypervisors and provisions the host network. Call it once at startup.
	Init(ctx context.Context) error
	// Create boots a VM for owner and registers its session.
	Create(ctx context.Context, recipe vmconfig.Recipe, owner string) (types.CreateResult, error)
	// Write sends data to the session console.
	Write(ctx context.Context, id, data, owner string) error
	// Read returns the console output available now, possibly empty.
	Read(ctx context.Context, id, owner string) (string, error)
	// Resize is acknowledged and has no effect: the serial console has no geometry.
	Resize(ctx context.Context, id string, rows, cols int, owner string) error
	// Close tears the session down and removes it from the registry.
	Close(ctx context.Context, id, owner string) error
	// List returns the sessions of owner, oldest first.
	List(ctx context.Context, owner string) []types.SessionSummary
	// GetStatus returns the detailed state of a session.
	GetStatus(ctx context.Context, id, owner string) (types.SessionStatus, error)
	// GetScreenContent returns every console chunk read so far, concatenated.
	GetScreenContent(ctx context.Context, id, owner string) (string, error)
	// CloseAll closes every session and returns how many were closed.
	CloseAll(ctx context.Context) int
}

// NetworkProvisioner ensures the shared host network exists.
type NetworkProvisioner interface {
	EnsureNetwork(ctx context.Context) (network.Status, error)
}

// Reclaimer terminates hypervisors left over from a previous run.
type Reclaimer interface {
	Reclaim(ctx context.Context) (int, error)
}

// --------------------------------------------------- CONSTRUCTORS ------------------------------------------------- //

// Options configures the terminal controller.
type Options struct {
	// Paths locates the hypervisor and the boot images.
	Paths vmconfig.Paths
	// WorkRoot holds one vm-<uuid> directory per session.
	WorkRoot string
	// TapName and Subnet are passed to the VM network configuration.
	TapName string
	Subnet  string
	// ForceStdioConsole skips PTY allocation.
	ForceStdioConsole bool
	// ReadTimeout bounds the wait of a Read call.
	ReadTimeout time.Duration
	// ScreenBufferSize is the number of chunks kept for replay.
	ScreenBufferSize int
}

// NewTerminal returns a new Terminal. reclaimer and metrics may be nil.
func NewTerminal(
	opts Options,
	supervisor *process.Supervisor,
	provisioner NetworkProvisioner,
	reclaimer Reclaimer,
	metrics *Metrics,
) Terminal {
	if opts.WorkRoot == "" {
		opts.WorkRoot = os.TempDir()
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = console.DefaultReadTimeout
	}
	if opts.ScreenBufferSize <= 0 {
		opts.ScreenBufferSize = session.DefaultScreenBufferSize
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}

	return &terminal{
		opts:        opts,
		registry:    session.NewRegistry(),
		supervisor:  supervisor,
		provisioner: provisioner,
		reclaimer:   reclaimer,
		metrics:     metrics,
	}
}

// ---------------------------------------------------- TERMINAL ---------------------------------------------------- //

type terminal struct {
	opts        Options
	registry    *session.Registry
	supervisor  *process.Supervisor
	provisioner NetworkProvisioner
	reclaimer   Reclaimer
	metrics     *Metrics

	counter atomic.Uint64
}

func (t *terminal) Init(ctx context.Context) error {
	if err := os.MkdirAll(t.opts.WorkRoot, 0o755); err != nil {
		return errors.Join(err, ErrInit)
	}

	if t.reclaimer != nil {
		n, err := t.reclaimer.Reclaim(ctx)
		if err != nil {
			slog.WarnContext(ctx, "failed to reclaim stale hypervisors", "error", err.Error())
		} else if n > 0 {
			slog.InfoContext(ctx, "reclaimed stale hypervisors", "count", n)
		}
	}

	t.ensureNetwork(ctx)
	return nil
}

func (t *terminal) Create(ctx context.Context, recipe vmconfig.Recipe, owner string) (types.CreateResult, error) {
	if owner == "" {
		owner = types.AnonymousOwner
	}

	n := t.counter.Add(1) - 1
	id := fmt.Sprintf("terminal_%d", n)

	name := recipe.Name
	if name == "" {
		name = fmt.Sprintf("CloudHV %d", n+1)
	}

	recipe = recipe.Defaulted()
	if err := recipe.Validate(); err != nil {
		return types.CreateResult{}, errors.Join(err, ErrCreateTerminal)
	}

	sess := session.New(id, owner, uuid.NewString(), name, recipe, t.opts.ScreenBufferSize)
	sess.WorkDir = filepath.Join(t.opts.WorkRoot, "vm-"+sess.UUID)

	if err := t.start(ctx, sess); err != nil {
		t.teardown(ctx, sess)
		return types.CreateResult{}, fmt.Errorf("%w: id=%s: %w", ErrCreateTerminal, id, err)
	}

	if err := sess.Transition(session.StateRunning); err != nil {
		t.teardown(ctx, sess)
		return types.CreateResult{}, errors.Join(err, ErrCreateTerminal)
	}

	if err := t.registry.Add(sess); err != nil {
		t.teardown(ctx, sess)
		return types.CreateResult{}, errors.Join(err, ErrCreateTerminal)
	}

	t.metrics.SessionsCreated.Inc()
	t.metrics.SessionsActive.Inc()

	slog.InfoContext(ctx, "terminal created",
		"id", id,
		"owner", owner,
		"pid", sess.PID(),
		"consoleMode", string(sess.ConsoleMode()),
		"ip", sess.Network.IP,
		"networkReady", sess.Network.Ready)

	return types.CreateResult{
		SessionID:   id,
		Name:        name,
		ConsoleMode: string(sess.ConsoleMode()),
	}, nil
}

// start acquires every resource of sess. On error, the caller releases what was acquired.
func (t *terminal) start(ctx context.Context, sess *session.Session) error {
	if err := os.MkdirAll(sess.WorkDir, 0o755); err != nil {
		return err
	}

	ch, err := console.Allocate(console.AllocateOptions{ForceStdio: t.opts.ForceStdioConsole})
	if err != nil {
		return err
	}
	sess.Console = ch

	cfg, err := vmconfig.Build(sess.Recipe, vmconfig.BuildOptions{
		Paths:       t.opts.Paths,
		WorkDir:     sess.WorkDir,
		SessionUUID: sess.UUID,
		Serial:      ch.SerialArg(),
		TapName:     t.opts.TapName,
		Subnet:      t.opts.Subnet,
	})
	if err != nil {
		return err
	}
	sess.Network.MAC = cfg.MAC
	sess.Network.IP = cfg.IP

	if _, err := vmconfig.WriteInitScript(sess.WorkDir, sess.Recipe); err != nil {
		return err
	}

	if sess.Recipe.NetworkEnabled() {
		sess.Network.Ready = t.ensureNetwork(ctx)
	}

	logPath := filepath.Join(sess.WorkDir, HypervisorLogName)
	logFile, err := os.Create(logPath)
	if err != nil {
		return err
	}

	spec := process.LaunchSpec{
		Argv:   cfg.Argv,
		Dir:    sess.WorkDir,
		Stdout: logFile,
		Stderr: logFile,
	}
	if ch.Mode() == console.ModeStdio {
		spec.Stdin = ch.ChildStdin()
		spec.Stdout = ch.ChildStdout()
	}

	h, err := t.supervisor.Launch(ctx, spec)
	// the child holds its own copies.
	_ = logFile.Close()
	ch.ReleaseChildSide()
	if err != nil {
		return err
	}
	sess.Process = h

	err = t.supervisor.CheckHealth(ctx, h, func() string {
		stdout := ""
		if ch.Mode() == console.ModeStdio {
			stdout = ch.Drain(bootOutputLimit)
		}
		return fmt.Sprintf("STDOUT: %s\nSTDERR: %s", stdout, readHead(logPath, bootOutputLimit))
	})

	var bootErr *process.BootFailureError
	if errors.As(err, &bootErr) {
		t.metrics.BootFailures.WithLabelValues(string(bootErr.Kind)).Inc()
	}

	return err
}

// ensureNetwork provisions the host network and reports whether it is usable. Failures are logged
// and never fail the caller.
func (t *terminal) ensureNetwork(ctx context.Context) bool {
	if t.provisioner == nil {
		return false
	}

	status, err := t.provisioner.EnsureNetwork(ctx)
	if err != nil {
		t.metrics.NetworkProvisioned.WithLabelValues("error").Inc()
		slog.WarnContext(ctx, "network provisioning failed, continuing without network", "error", err.Error())
		return false
	}

	for _, w := range status.Warnings {
		slog.WarnContext(ctx, "network provisioning warning", "warning", w)
	}

	if status.Created {
		t.metrics.NetworkProvisioned.WithLabelValues("created").Inc()
	} else {
		t.metrics.NetworkProvisioned.WithLabelValues("exists").Inc()
	}

	return true
}

func (t *terminal) Write(ctx context.Context, id, data, owner string) error {
	sess, err := t.running(id, owner)
	if err != nil {
		return err
	}

	return sess.Console.Write([]byte(data))
}

func (t *terminal) Read(ctx context.Context, id, owner string) (string, error) {
	sess, err := t.running(id, owner)
	if err != nil {
		return "", err
	}

	out, ok, err := sess.Console.TryRead(t.opts.ReadTimeout)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}

	sess.Screen.Append(out)
	return out, nil
}

func (t *terminal) Resize(ctx context.Context, id string, rows, cols int, owner string) error {
	if _, err := t.get(id, owner); err != nil {
		return err
	}

	slog.DebugContext(ctx, "resize acknowledged", "id", id, "rows", rows, "cols", cols)
	return nil
}

func (t *terminal) Close(ctx context.Context, id, owner string) error {
	// removal first: only one caller can win the session and tear it down.
	sess, ok := t.registry.Remove(owner, id)
	if !ok {
		return fmt.Errorf("%w: id=%s", ErrNotFound, id)
	}

	t.metrics.SessionsActive.Dec()
	t.teardown(ctx, sess)

	slog.InfoContext(ctx, "terminal closed", "id", id, "owner", sess.Owner)
	return nil
}

// teardown releases the process, console and work dir of sess. Failures are logged as cleanup
// warnings.
func (t *terminal) teardown(ctx context.Context, sess *session.Session) {
	_ = sess.Transition(session.StateClosing)

	warn := func(resource string, err error) {
		t.metrics.CleanupWarnings.Inc()
		slog.WarnContext(ctx, "cleanup warning", "id", sess.ID, "resource", resource, "error", err.Error())
	}

	if sess.Process != nil {
		if err := t.supervisor.Terminate(sess.Process); err != nil {
			warn("process", err)
		}
	}

	if sess.Console != nil {
		if err := sess.Console.Close(); err != nil {
			warn("console", err)
		}
	}

	if sess.WorkDir != "" {
		if err := os.RemoveAll(sess.WorkDir); err != nil {
			warn("workDir", err)
		}
	}

	_ = sess.Transition(session.StateClosed)
}

func (t *terminal) List(ctx context.Context, owner string) []types.SessionSummary {
	sessions := t.registry.List(owner)

	out := make([]types.SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		status := types.StatusStopped
		if sess.Running() {
			status = types.StatusRunning
		}

		out = append(out, types.SessionSummary{
			ID:      sess.ID,
			Name:    sess.Name,
			Created: sess.CreatedAt,
			Status:  status,
		})
	}

	return out
}

func (t *terminal) GetStatus(ctx context.Context, id, owner string) (types.SessionStatus, error) {
	sess, err := t.get(id, owner)
	if err != nil {
		return types.SessionStatus{}, err
	}

	return types.SessionStatus{
		ID:           sess.ID,
		Name:         sess.Name,
		Owner:        sess.Owner,
		Created:      sess.CreatedAt,
		Running:      sess.Running(),
		PID:          sess.PID(),
		Recipe:       sess.Recipe,
		WorkDir:      sess.WorkDir,
		ConsoleMode:  string(sess.ConsoleMode()),
		MAC:          sess.Network.MAC,
		IP:           sess.Network.IP,
		NetworkReady: sess.Network.Ready,
	}, nil
}

func (t *terminal) GetScreenContent(ctx context.Context, id, owner string) (string, error) {
	sess, err := t.get(id, owner)
	if err != nil {
		return "", err
	}

	return sess.Screen.Content(), nil
}

func (t *terminal) CloseAll(ctx context.Context) int {
	closed := 0
	for _, sess := range t.registry.List("") {
		if err := t.Close(ctx, sess.ID, ""); err == nil {
			closed++
		}
	}
	return closed
}

func (t *terminal) get(id, owner string) (*session.Session, error) {
	sess, ok := t.registry.Get(owner, id)
	if !ok {
		return nil, fmt.Errorf("%w: id=%s", ErrNotFound, id)
	}
	return sess, nil
}

func (t *terminal) running(id, owner string) (*session.Session, error) {
	sess, err := t.get(id, owner)
	if err != nil {
		return nil, err
	}
	if !sess.Running() {
		return nil, fmt.Errorf("%w: id=%s", ErrProcessStopped, id)
	}
	return sess, nil
}

func readHead(path string, limit int64) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	b, _ := io.ReadAll(io.LimitReader(f, limit))
	return string(b)
}

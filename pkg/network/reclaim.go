package network

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/prometheus/procfs"
	"golang.org/x/sys/unix"
)

var (
	ErrOpenProcFS    = errors.New("failed to open procfs")
	ErrListProcesses = errors.New("failed to list processes")
)

const (
	DefaultProcMountPoint = procfs.DefaultMountPoint
	DefaultReclaimGrace   = 3 * time.Second
)

// Reclaimer terminates hypervisor processes left over from a previous run that still hold the tap.
type Reclaimer struct {
	fs       procfs.FS
	patterns []string
	grace    time.Duration
	self     int

	kill  func(pid int, sig unix.Signal) error
	sleep func(time.Duration)
}

// ReclaimerOption configures a Reclaimer.
type ReclaimerOption func(*Reclaimer)

// WithReclaimGrace sets how long Reclaim waits after signalling processes.
func WithReclaimGrace(d time.Duration) ReclaimerOption {
	return func(r *Reclaimer) {
		r.grace = d
	}
}

// WithKillFunc replaces the function used to signal processes.
func WithKillFunc(kill func(pid int, sig unix.Signal) error) ReclaimerOption {
	return func(r *Reclaimer) {
		r.kill = kill
	}
}

// WithSleepFunc replaces the function used to wait for the grace period.
func WithSleepFunc(sleep func(time.Duration)) ReclaimerOption {
	return func(r *Reclaimer) {
		r.sleep = sleep
	}
}

// NewReclaimer returns a Reclaimer matching processes whose command line mentions binaryName
// followed by tapName. procMountPoint is usually DefaultProcMountPoint.
func NewReclaimer(procMountPoint, binaryName, tapName string, opts ...ReclaimerOption) (*Reclaimer, error) {
	fs, err := procfs.NewFS(procMountPoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenProcFS, err)
	}

	r := &Reclaimer{
		fs:       fs,
		patterns: []string{binaryName, tapName},
		grace:    DefaultReclaimGrace,
		self:     os.Getpid(),
		kill:     unix.Kill,
		sleep:    time.Sleep,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Reclaim sends SIGTERM to every matching process and waits for the grace period if at least one
// was signalled. It returns the number of processes signalled.
func (r *Reclaimer) Reclaim(ctx context.Context) (int, error) {
	procs, err := r.fs.AllProcs()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrListProcesses, err)
	}

	count := 0
	for _, p := range procs {
		if p.PID == r.self {
			continue
		}

		cmdline, err := p.CmdLine()
		if err != nil || !matchesInOrder(strings.Join(cmdline, " "), r.patterns) {
			// processes may exit while we iterate.
			continue
		}

		if err := r.kill(p.PID, unix.SIGTERM); err != nil {
			slog.WarnContext(ctx, "failed to terminate stale hypervisor", "pid", p.PID, "error", err.Error())
			continue
		}

		slog.InfoContext(ctx, "terminated stale hypervisor", "pid", p.PID)
		count++
	}

	if count > 0 {
		r.sleep(r.grace)
	}

	return count, nil
}

func matchesInOrder(s string, patterns []string) bool {
	for _, p := range patterns {
		if p == "" {
			continue
		}
		idx := strings.Index(s, p)
		if idx < 0 {
			return false
		}
		s = s[idx+len(p):]
	}
	return true
}

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

package console

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

const (
	DefaultReadTimeout  = 100 * time.Millisecond
	DefaultWriteTimeout = time.Second
	ReadChunkSize       = 4096
)

var (
	ErrAllocate      = errors.New("failed to allocate console")
	ErrChannelClosed = errors.New("console channel closed")
	ErrWrite         = errors.New("failed to write to console")
	ErrRead          = errors.New("failed to read from console")
)

// Mode records which console path was allocated.
type Mode string

const (
	// ModePTY is a pseudo-terminal pair. The hypervisor opens the slave by path.
	ModePTY Mode = "pty"
	// ModeStdio wires the hypervisor's standard streams to pipes.
	ModeStdio Mode = "stdio"
)

// ---------------------------------------------------- ALLOCATE --------------------------------------------------- //

// AllocateOptions configures Allocate.
type AllocateOptions struct {
	// ForceStdio skips the PTY attempt.
	ForceStdio bool
	// OpenPTY defaults to pty.Open.
	OpenPTY func() (master, slave *os.File, err error)
}

// Channel is the bidirectional console of one VM.
type Channel struct {
	mode Mode

	reader *os.File
	writer *os.File
	// slave stays open while the channel lives so that the master does not report EIO before the
	// hypervisor has opened it.
	slave *os.File

	childStdin  *os.File
	childStdout *os.File

	mu     sync.Mutex
	closed bool
}

// Allocate opens a PTY pair, falling back to stdio pipes when the PTY cannot be opened or when
// opts.ForceStdio is set. The chosen path is reported by Mode.
func Allocate(opts AllocateOptions) (*Channel, error) {
	if !opts.ForceStdio {
		open := opts.OpenPTY
		if open == nil {
			open = pty.Open
		}

		master, slave, err := open()
		if err == nil {
			return &Channel{
				mode:   ModePTY,
				reader: master,
				writer: master,
				slave:  slave,
			}, nil
		}

		slog.Warn("failed to open pty, falling back to stdio console", "error", err.Error())
	}

	stdinR, stdinW, err := os.Pipe()
	if err != nil {
		return nil, errors.Join(err, ErrAllocate)
	}

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		_ = stdinR.Close()
		_ = stdinW.Close()
		return nil, errors.Join(err, ErrAllocate)
	}

	return &Channel{
		mode:        ModeStdio,
		reader:      stdoutR,
		writer:      stdinW,
		childStdin:  stdinR,
		childStdout: stdoutW,
	}, nil
}

// Mode returns the allocated console path.
func (c *Channel) Mode() Mode {
	return c.mode
}

// SerialArg returns the value of the hypervisor --serial flag.
func (c *Channel) SerialArg() string {
	if c.mode == ModePTY {
		return "pty=" + c.slave.Name()
	}
	return "tty"
}

// SlavePath returns the path of the PTY slave, or an empty string in stdio mode.
func (c *Channel) SlavePath() string {
	if c.slave == nil {
		return ""
	}
	return c.slave.Name()
}

// ChildStdin returns the file the hypervisor reads its stdin from, nil in PTY mode.
func (c *Channel) ChildStdin() *os.File {
	return c.childStdin
}

// ChildStdout returns the file the hypervisor writes its stdout to, nil in PTY mode.
func (c *Channel) ChildStdout() *os.File {
	return c.childStdout
}

// ReleaseChildSide closes the parent's copies of the child-side pipe ends. It must be called once
// the hypervisor has been started, so that the channel sees EOF when the child exits.
func (c *Channel) ReleaseChildSide() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.releaseChildSide()
}

func (c *Channel) releaseChildSide() {
	for _, f := range []**os.File{&c.childStdin, &c.childStdout} {
		if *f != nil {
			_ = (*f).Close()
			*f = nil
		}
	}
}

// ------------------------------------------------------- I/O ----------------------------------------------------- //

// Write sends p to the console in a single unbuffered write.
func (c *Channel) Write(p []byte) error {
	if c.isClosed() {
		return ErrChannelClosed
	}

	// deadlines are best effort: a descriptor outside the runtime poller does not support them.
	if err := c.writer.SetWriteDeadline(time.Now().Add(DefaultWriteTimeout)); err != nil &&
		!errors.Is(err, os.ErrNoDeadline) {
		return errors.Join(err, ErrWrite)
	}

	if _, err := c.writer.Write(p); err != nil {
		if isClosedErr(err) {
			return errors.Join(err, ErrChannelClosed)
		}
		return errors.Join(err, ErrWrite)
	}

	return nil
}

// TryRead waits at most timeout for console output and reads up to ReadChunkSize bytes.
// Invalid UTF-8 is replaced with U+FFFD. ok is false when nothing was available.
func (c *Channel) TryRead(timeout time.Duration) (string, bool, error) {
	if c.isClosed() {
		return "", false, ErrChannelClosed
	}
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}

	ready, err := pollReadable(c.reader, timeout)
	if err != nil {
		if isClosedErr(err) {
			return "", false, errors.Join(err, ErrChannelClosed)
		}
		return "", false, errors.Join(err, ErrRead)
	}
	if !ready {
		return "", false, nil
	}

	if err := c.reader.SetReadDeadline(time.Now().Add(timeout)); err != nil &&
		!errors.Is(err, os.ErrNoDeadline) {
		return "", false, errors.Join(err, ErrRead)
	}

	buf := make([]byte, ReadChunkSize)
	n, err := c.reader.Read(buf)
	if n > 0 {
		return strings.ToValidUTF8(string(buf[:n]), "\uFFFD"), true, nil
	}

	switch {
	case err == nil, errors.Is(err, os.ErrDeadlineExceeded), errors.Is(err, syscall.EAGAIN):
		return "", false, nil
	case isClosedErr(err):
		return "", false, errors.Join(err, ErrChannelClosed)
	default:
		return "", false, errors.Join(err, ErrRead)
	}
}

// Drain reads what is already buffered, up to about limit bytes, waiting at most a millisecond per chunk.
func (c *Channel) Drain(limit int) string {
	var sb strings.Builder
	for sb.Len() < limit {
		s, ok, err := c.TryRead(time.Millisecond)
		if err != nil || !ok {
			break
		}
		sb.WriteString(s)
	}
	return sb.String()
}

// Close releases every descriptor of the channel. It is idempotent.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	var errs []error
	files := []*os.File{c.reader}
	if c.writer != c.reader {
		files = append(files, c.writer)
	}
	if c.slave != nil {
		files = append(files, c.slave)
	}

	for _, f := range files {
		if err := f.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", f.Name(), err))
		}
	}

	c.releaseChildSide()

	return errors.Join(errs...)
}

func (c *Channel) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

// pollReadable waits up to timeout for f to become readable. A hang-up counts as readable so that
// the following read reports it.
func pollReadable(f *os.File, timeout time.Duration) (bool, error) {
	rc, err := f.SyscallConn()
	if err != nil {
		return false, err
	}

	var (
		n     int
		fds   []unix.PollFd
		perr  error
		msecs = int(timeout.Milliseconds())
	)

	if err := rc.Control(func(fd uintptr) {
		fds = []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		n, perr = unix.Poll(fds, msecs)
	}); err != nil {
		return false, err
	}

	if errors.Is(perr, unix.EINTR) {
		return false, nil
	}
	if perr != nil {
		return false, perr
	}
	if n == 0 {
		return false, nil
	}
	if fds[0].Revents&unix.POLLNVAL != 0 {
		return false, os.ErrClosed
	}

	return true, nil
}

func isClosedErr(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, os.ErrClosed) ||
		errors.Is(err, syscall.EIO) ||
		errors.Is(err, syscall.EPIPE)
}

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

package gracefulshutdown

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// DefaultHookTimeout bounds the time given to the shutdown hooks.
const DefaultHookTimeout = 30 * time.Second

// Hook releases a resource when the application shuts down.
type Hook func(ctx context.Context)

// GracefulShutdown ties the lifetime of the application to SIGTERM and SIGINT. On shutdown it cancels
// its context, runs the registered hooks, awaits its wait group and exits.
type GracefulShutdown struct {
	ctx    context.Context
	cancel context.CancelFunc
	name   string

	once      sync.Once
	readyOnce sync.Once
	wg        *sync.WaitGroup

	mu          sync.Mutex
	hooks       []Hook
	hookTimeout time.Duration

	// ready is closed by Ready once every WaitGroup.Add call has been made.
	ready chan struct{}

	exitFunc func(int)
}

// NewWithExit creates a GracefulShutdown calling exitFunc instead of os.Exit.
func NewWithExit(name string, exitFunc func(int)) *GracefulShutdown {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)

	gs := &GracefulShutdown{
		ctx:         ctx,
		cancel:      cancel,
		name:        name,
		wg:          &sync.WaitGroup{},
		hookTimeout: DefaultHookTimeout,
		ready:       make(chan struct{}),
		exitFunc:    exitFunc,
	}

	// Shutdown runs at least once when the context is done.
	go func() {
		select {
		case <-gs.ready:
			<-ctx.Done()
		case <-ctx.Done():
			slog.Warn("GracefulShutdown: context cancelled before Ready() was called - proceeding with shutdown anyway")
		}

		gs.Shutdown(0)
	}()

	return gs
}

// New creates a GracefulShutdown cancelled by its CancelFunc, a SIGTERM or a SIGINT.
func New(name string) *GracefulShutdown {
	return NewWithExit(name, os.Exit)
}

// OnShutdown registers a hook. Hooks run in registration order after the context is cancelled and
// before the wait group is awaited.
func (s *GracefulShutdown) OnShutdown(hook Hook) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hooks = append(s.hooks, hook)
}

// SetHookTimeout overrides DefaultHookTimeout.
func (s *GracefulShutdown) SetHookTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hookTimeout = d
}

// Shutdown shuts down the application gracefully. Only the first call has any effect.
func (s *GracefulShutdown) Shutdown(exitCode int) {
	s.once.Do(func() {
		slog.InfoContext(s.ctx, "⌛ gracefully shutting down", "name", s.name)

		s.cancel()
		s.runHooks()
		s.wg.Wait()

		s.exitFunc(exitCode)
	})
}

func (s *GracefulShutdown) runHooks() {
	s.mu.Lock()
	hooks := append([]Hook(nil), s.hooks...)
	timeout := s.hookTimeout
	s.mu.Unlock()

	// s.ctx is already cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for _, hook := range hooks {
		hook(ctx)
	}
}

// Context returns the context of the graceful shutdown.
func (s *GracefulShutdown) Context() context.Context {
	return s.ctx
}

// CancelFunc returns the cancel function of the graceful shutdown.
func (s *GracefulShutdown) CancelFunc() context.CancelFunc {
	return s.cancel
}

// WaitGroup returns the wait group of the graceful shutdown.
func (s *GracefulShutdown) WaitGroup() *sync.WaitGroup {
	return s.wg
}

// Ready signals that all WaitGroup.Add() calls have been made. It must be called after every goroutine
// has called Add, otherwise a warning is logged on shutdown. Only the first call has any effect.
func (s *GracefulShutdown) Ready() {
	s.readyOnce.Do(func() {
		close(s.ready)
	})
}

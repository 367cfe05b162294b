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

package gracefulshutdown_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alexandremahdhaoui/chterm/internal/util/gracefulshutdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noExit(int) {}

func TestNew(t *testing.T) {
	gs := gracefulshutdown.NewWithExit("test-server", noExit)
	require.NotNil(t, gs)
	t.Cleanup(func() { gs.CancelFunc()() })

	assert.NoError(t, gs.Context().Err(), "context should not be cancelled initially")
	assert.NotNil(t, gs.CancelFunc())
	assert.NotNil(t, gs.WaitGroup())
}

func TestGracefulShutdown_Shutdown(t *testing.T) {
	tests := []struct {
		name       string
		exitCode   int
		wgAddCount int
	}{
		{name: "exit code 0", exitCode: 0},
		{name: "exit code 1", exitCode: 1},
		{name: "waits for the wait group", exitCode: 0, wgAddCount: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				capturedExitCode int
				exitCalled       bool
				done             sync.WaitGroup
			)

			gs := gracefulshutdown.NewWithExit("test", func(code int) {
				capturedExitCode = code
				exitCalled = true
			})

			finished := 0
			var mu sync.Mutex
			for range tt.wgAddCount {
				gs.WaitGroup().Add(1)
				done.Add(1)
				go func() {
					defer done.Done()
					defer gs.WaitGroup().Done()
					time.Sleep(10 * time.Millisecond)
					mu.Lock()
					finished++
					mu.Unlock()
				}()
			}

			gs.Shutdown(tt.exitCode)

			assert.True(t, exitCalled)
			assert.Equal(t, tt.exitCode, capturedExitCode)
			assert.Error(t, gs.Context().Err(), "context should be cancelled")

			mu.Lock()
			assert.Equal(t, tt.wgAddCount, finished)
			mu.Unlock()
			done.Wait()
		})
	}
}

func TestGracefulShutdown_Hooks(t *testing.T) {
	var (
		calls     []string
		hookCtxOK bool
	)

	exited := false
	gs := gracefulshutdown.NewWithExit("test", func(int) {
		exited = true
	})
	gs.SetHookTimeout(time.Second)

	gs.OnShutdown(func(ctx context.Context) {
		_, hasDeadline := ctx.Deadline()
		hookCtxOK = hasDeadline && ctx.Err() == nil
		calls = append(calls, "close sessions")
	})
	gs.OnShutdown(func(context.Context) {
		assert.False(t, exited, "hooks run before exit")
		calls = append(calls, "flush")
	})

	gs.Shutdown(0)

	assert.Equal(t, []string{"close sessions", "flush"}, calls)
	assert.True(t, hookCtxOK, "hook context should be live and bounded")
	assert.True(t, exited)
}

func TestGracefulShutdown_CancelTriggersShutdown(t *testing.T) {
	exited := make(chan int, 1)
	gs := gracefulshutdown.NewWithExit("test", func(code int) { exited <- code })

	hookCalled := make(chan struct{})
	gs.OnShutdown(func(context.Context) { close(hookCalled) })
	gs.Ready()

	gs.CancelFunc()()

	select {
	case code := <-exited:
		assert.Equal(t, 0, code)
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown was not triggered by the context cancellation")
	}

	select {
	case <-hookCalled:
	default:
		t.Fatal("hook was not called")
	}
}

func TestGracefulShutdown_ShutdownIdempotency(t *testing.T) {
	exitCallCount := 0
	var mu sync.Mutex

	gs := gracefulshutdown.NewWithExit("test", func(int) {
		mu.Lock()
		defer mu.Unlock()
		exitCallCount++
	})

	hookCalls := 0
	gs.OnShutdown(func(context.Context) { hookCalls++ })

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func(exitCode int) {
			defer wg.Done()
			gs.Shutdown(exitCode)
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, exitCallCount)
	assert.Equal(t, 1, hookCalls)
}

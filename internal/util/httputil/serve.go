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

package httputil

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/alexandremahdhaoui/chterm/internal/util/gracefulshutdown"
)

type contextKey string

// ServerNameContextKey holds the name of the server handling a request.
const ServerNameContextKey contextKey = "server_name"

// ShutdownTimeout bounds the time given to in-flight requests once shutdown starts.
var ShutdownTimeout = 1 * time.Minute

// ServerName returns the name of the server handling the request, or "".
func ServerName(ctx context.Context) string {
	name, _ := ctx.Value(ServerNameContextKey).(string)
	return name
}

// Serve runs the servers until gs is cancelled, then shuts them down. A server failing to listen
// initiates the shutdown with exit code 1.
func Serve(servers map[string]*http.Server, gs *gracefulshutdown.GracefulShutdown) {
	// 1. Run the servers.
	for name, server := range servers {
		ctx := context.WithValue(gs.Context(), ServerNameContextKey, name)

		server.BaseContext = func(_ net.Listener) context.Context {
			return ctx
		}

		gs.WaitGroup().Add(1)

		go func() {
			slog.InfoContext(ctx, "serving", "server", name, "addr", server.Addr)

			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.ErrorContext(ctx, "❌ received error", "server", name, "error", err)

				// Done must precede Shutdown, which awaits the wait group.
				gs.WaitGroup().Done()
				gs.Shutdown(1)

				return
			}

			gs.WaitGroup().Done()
			gs.Shutdown(0)
		}()
	}

	// 2. Signal that all Add() calls have been made.
	gs.Ready()

	// 3. Await context is done.
	<-gs.Context().Done()

	// 4. Drain every server.
	var wg sync.WaitGroup
	for name, server := range servers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			ctx := context.WithValue(context.Background(), ServerNameContextKey, name)
			ctx, cancel := context.WithTimeout(ctx, ShutdownTimeout)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.ErrorContext(ctx, "❌ received error while shutting down server", "server", name, "error", err)
				return
			}

			slog.Info("✅ gracefully shut down server", "server", name)
		}()
	}

	wg.Wait()
}

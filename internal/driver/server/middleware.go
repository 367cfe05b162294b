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

package server

import (
	"context"
	"net"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/alexandremahdhaoui/chterm/internal/types"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ClientIPContextKey is the context key for storing the client IP address.
	ClientIPContextKey contextKey = "client_ip"
	// CallerContextKey is the context key for storing the Caller of a request.
	CallerContextKey contextKey = "caller"

	// RemoteUserHeader carries the caller identity set by the authenticating proxy.
	RemoteUserHeader = "X-Remote-User"
)

// ClientIPMiddleware extracts the client IP from the request and adds it to the context.
// It checks X-Forwarded-For header first (for proxied requests), then falls back to RemoteAddr.
func ClientIPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := extractClientIP(r)
		ctx := context.WithValue(r.Context(), ClientIPContextKey, clientIP)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractClientIP extracts the client IP address from the request.
// It first checks the X-Forwarded-For header, then X-Real-IP, then RemoteAddr.
func extractClientIP(r *http.Request) string {
	// Check X-Forwarded-For header (comma-separated list, first is original client)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			// Return the first IP (original client), trimmed
			return strings.TrimSpace(ips[0])
		}
	}

	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// Fall back to RemoteAddr
	// RemoteAddr is in the format "IP:port" or "[IPv6]:port"
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// If SplitHostPort fails, return RemoteAddr as-is (might be just an IP)
		return r.RemoteAddr
	}

	return ip
}

// GetClientIP retrieves the client IP from the context.
// Returns empty string if not found.
func GetClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ClientIPContextKey).(string); ok {
		return ip
	}
	return ""
}

// Caller is the identity of a request and whether it may see the sessions of every owner.
type Caller struct {
	Identity string
	Admin    bool
}

// OwnerMiddleware stores the Caller built from the X-Remote-User header in the context.
// A missing header maps to the anonymous owner.
func OwnerMiddleware(adminUsers []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := strings.TrimSpace(r.Header.Get(RemoteUserHeader))
			if identity == "" {
				identity = types.AnonymousOwner
			}

			caller := Caller{
				Identity: identity,
				Admin:    identity != types.AnonymousOwner && slices.Contains(adminUsers, identity),
			}

			ctx := context.WithValue(r.Context(), CallerContextKey, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetCaller retrieves the Caller from the context.
// Returns the anonymous non-admin caller if not found.
func GetCaller(ctx context.Context) Caller {
	if caller, ok := ctx.Value(CallerContextKey).(Caller); ok {
		return caller
	}
	return Caller{Identity: types.AnonymousOwner}
}

// GetOwner returns the identity new sessions are created under. It is never empty.
func GetOwner(ctx context.Context) string {
	return GetCaller(ctx).Identity
}

// GetScope returns the owner used to look sessions up: the empty owner for admins, which searches
// every owner, and the caller identity otherwise.
func GetScope(ctx context.Context) string {
	caller := GetCaller(ctx)
	if caller.Admin {
		return ""
	}
	return caller.Identity
}

// LoggingMiddleware injects a request scoped logger in the context and logs every served request.
func LoggingMiddleware(log logr.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLog := log.WithValues(
				"requestID", chimw.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"clientIP", GetClientIP(r.Context()),
				"owner", GetOwner(r.Context()),
			)

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(logr.NewContext(r.Context(), reqLog)))

			reqLog.V(1).Info("request served", "status", ww.Status(), "duration", time.Since(start).String())
		})
	}
}

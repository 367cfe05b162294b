package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupMetricsServer creates an HTTP server for Prometheus metrics.
func setupMetricsServer(config *Config) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(config.MetricsServer.Path, promhttp.Handler())

	return &http.Server{ //nolint:exhaustruct
		Addr:              fmt.Sprintf(":%d", config.MetricsServer.Port),
		Handler:           mux,
		ReadHeaderTimeout: time.Second,
	}
}

// setupProbesServer creates an HTTP server for health probes (liveness and readiness).
func setupProbesServer(config *Config) *http.Server {
	mux := http.NewServeMux()

	ok := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}

	mux.HandleFunc(config.ProbesServer.LivenessPath, ok)
	mux.HandleFunc(config.ProbesServer.ReadinessPath, ok)

	return &http.Server{ //nolint:exhaustruct
		Addr:              fmt.Sprintf(":%d", config.ProbesServer.Port),
		Handler:           mux,
		ReadHeaderTimeout: time.Second,
	}
}

package controller

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "chterm"

// Metrics are the Prometheus collectors of the terminal controller.
type Metrics struct {
	SessionsActive     prometheus.Gauge
	SessionsCreated    prometheus.Counter
	BootFailures       *prometheus.CounterVec
	CleanupWarnings    prometheus.Counter
	NetworkProvisioned *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg. A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "sessions_active",
			Help:      "Number of sessions currently in the registry.",
		}),
		SessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sessions_created_total",
			Help:      "Number of sessions successfully created.",
		}),
		BootFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "boot_failures_total",
			Help:      "Number of VMs that exited during boot, by diagnosed kind.",
		}, []string{"kind"}),
		CleanupWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cleanup_warnings_total",
			Help:      "Number of resource release failures during session teardown.",
		}),
		NetworkProvisioned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "network_provision_total",
			Help:      "Number of host network provisioning attempts, by result.",
		}, []string{"result"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.SessionsActive,
			m.SessionsCreated,
			m.BootFailures,
			m.CleanupWarnings,
			m.NetworkProvisioned,
		)
	}

	return m
}

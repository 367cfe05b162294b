package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"sigs.k8s.io/yaml"
)

const (
	// ConfigPathEnvKey is the environment variable key for the config file path.
	ConfigPathEnvKey = "CHTERM_CONFIG_PATH"
	// EnvPrefix prefixes the environment variables overriding the config file.
	EnvPrefix = "CHTERM"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// loadConfig reads the YAML file named by CHTERM_CONFIG_PATH, if set, then applies the CHTERM_*
// environment overrides and the defaults.
func loadConfig() (*Config, error) {
	config := &Config{}

	if configPath := os.Getenv(ConfigPathEnvKey); configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		// Parse YAML (uses json tags)
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return nil, fmt.Errorf("reading environment overrides: %w", err)
	}

	config.setDefaults()

	if _, err := config.timings(); err != nil {
		return nil, err
	}

	return config, nil
}

// Config is used to configure the chterm-api application.
//
// Every field may be overridden by a CHTERM_* environment variable named after its path, e.g.
// CHTERM_NETWORK_TAP_NAME or CHTERM_API_SERVER_ADMIN_USERS.
type Config struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `json:"logLevel" split_words:"true"`
	// Development enables human readable logs.
	Development bool `json:"development" split_words:"true"`

	// BaseDir holds bin/ with the hypervisor and the boot images.
	BaseDir string `json:"baseDir" split_words:"true"`
	// WorkRoot holds one directory per session.
	WorkRoot string `json:"workRoot" split_words:"true"`
	// ScreenBufferSize is the number of console chunks kept per session.
	ScreenBufferSize int `json:"screenBufferSize" split_words:"true"`

	// Hypervisor overrides the paths derived from BaseDir.
	Hypervisor struct {
		Binary   string `json:"binary" split_words:"true"`
		Kernel   string `json:"kernel" split_words:"true"`
		Firmware string `json:"firmware" split_words:"true"`
		RootFS   string `json:"rootfs" split_words:"true"`
	} `json:"hypervisor" split_words:"true"`

	// Network is the host network shared by every VM.
	Network struct {
		// TapName is the singleton TAP device.
		TapName string `json:"tapName" split_words:"true"`
		// HostCIDR is the host address of the tap.
		HostCIDR string `json:"hostCIDR" split_words:"true"`
		// Subnet is the range VM addresses are derived from.
		Subnet string `json:"subnet" split_words:"true"`
		// Sudo prepends sudo to the sysctl and iptables commands.
		Sudo bool `json:"sudo" split_words:"true"`
	} `json:"network" split_words:"true"`

	// Console configures the VM serial consoles.
	Console struct {
		// ForceStdio skips PTY allocation.
		ForceStdio bool `json:"forceStdio" split_words:"true"`
		// ReadTimeout bounds one console read, e.g. "100ms".
		ReadTimeout string `json:"readTimeout" split_words:"true"`
	} `json:"console" split_words:"true"`

	// Process configures the hypervisor supervision.
	Process struct {
		// HealthCheckDelay is the time a VM gets to fail its boot, e.g. "2s".
		HealthCheckDelay string `json:"healthCheckDelay" split_words:"true"`
		// TerminateGrace is the time between SIGTERM and SIGKILL, e.g. "1s".
		TerminateGrace string `json:"terminateGrace" split_words:"true"`
	} `json:"process" split_words:"true"`

	// Reclaim configures the startup reclamation of stale hypervisors.
	Reclaim struct {
		Disabled       bool   `json:"disabled" split_words:"true"`
		ProcMountPoint string `json:"procMountPoint" split_words:"true"`
		Grace          string `json:"grace" split_words:"true"`
	} `json:"reclaim" split_words:"true"`

	// APIServer is the configuration for the API server.
	APIServer struct {
		// Port is the port for the API server.
		Port int `json:"port" split_words:"true"`
		// AdminUsers may look up the sessions of every owner.
		AdminUsers []string `json:"adminUsers" split_words:"true"`
		// StreamInterval is the console polling period of websocket streams, e.g. "100ms".
		StreamInterval string `json:"streamInterval" split_words:"true"`
		// OriginPatterns are the browser origins allowed to open a websocket stream.
		OriginPatterns []string `json:"originPatterns" split_words:"true"`
	} `json:"apiServer" split_words:"true"`

	// ProbesServer is the configuration for the probes server.
	ProbesServer struct {
		// LivenessPath is the path for the liveness probe.
		LivenessPath string `json:"livenessPath" split_words:"true"`
		// ReadinessPath is the path for the readiness probe.
		ReadinessPath string `json:"readinessPath" split_words:"true"`
		// Port is the port for the probes server.
		Port int `json:"port" split_words:"true"`
	} `json:"probesServer" split_words:"true"`

	// MetricsServer is the configuration for the metrics server.
	MetricsServer struct {
		// Path is the path for the metrics server.
		Path string `json:"path" split_words:"true"`
		// Port is the port for the metrics server.
		Port int `json:"port" split_words:"true"`
	} `json:"metricsServer" split_words:"true"`
}

func (c *Config) setDefaults() {
	setDefault(&c.LogLevel, "info")
	setDefault(&c.BaseDir, ".")
	setDefault(&c.WorkRoot, os.TempDir())
	setDefault(&c.Console.ReadTimeout, "100ms")
	setDefault(&c.Process.HealthCheckDelay, "2s")
	setDefault(&c.Process.TerminateGrace, "1s")
	setDefault(&c.Reclaim.Grace, "3s")
	setDefault(&c.APIServer.StreamInterval, "100ms")
	setDefault(&c.ProbesServer.LivenessPath, "/healthz")
	setDefault(&c.ProbesServer.ReadinessPath, "/readyz")
	setDefault(&c.MetricsServer.Path, "/metrics")

	if c.ScreenBufferSize <= 0 {
		c.ScreenBufferSize = 1000
	}
	if c.APIServer.Port == 0 {
		c.APIServer.Port = 8080
	}
	if c.MetricsServer.Port == 0 {
		c.MetricsServer.Port = 8081
	}
	if c.ProbesServer.Port == 0 {
		c.ProbesServer.Port = 8082
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// Timings are the parsed durations of a Config.
type Timings struct {
	ReadTimeout      time.Duration
	HealthCheckDelay time.Duration
	TerminateGrace   time.Duration
	ReclaimGrace     time.Duration
	StreamInterval   time.Duration
}

func (c *Config) timings() (Timings, error) {
	var (
		t    Timings
		errs []error
	)

	for _, d := range []struct {
		name  string
		value string
		out   *time.Duration
	}{
		{name: "console.readTimeout", value: c.Console.ReadTimeout, out: &t.ReadTimeout},
		{name: "process.healthCheckDelay", value: c.Process.HealthCheckDelay, out: &t.HealthCheckDelay},
		{name: "process.terminateGrace", value: c.Process.TerminateGrace, out: &t.TerminateGrace},
		{name: "reclaim.grace", value: c.Reclaim.Grace, out: &t.ReclaimGrace},
		{name: "apiServer.streamInterval", value: c.APIServer.StreamInterval, out: &t.StreamInterval},
	} {
		v, err := time.ParseDuration(d.value)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.name, err))
			continue
		}
		*d.out = v
	}

	if len(errs) > 0 {
		return Timings{}, errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}

	return t, nil
}

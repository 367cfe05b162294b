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

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/alexandremahdhaoui/chterm/internal/controller"
	"github.com/alexandremahdhaoui/chterm/internal/driver/server"
	"github.com/alexandremahdhaoui/chterm/internal/util/gracefulshutdown"
	"github.com/alexandremahdhaoui/chterm/internal/util/httputil"
	"github.com/alexandremahdhaoui/chterm/internal/util/logging"
	"github.com/alexandremahdhaoui/chterm/pkg/execcontext"
	"github.com/alexandremahdhaoui/chterm/pkg/network"
	"github.com/alexandremahdhaoui/chterm/pkg/process"
	"github.com/alexandremahdhaoui/chterm/pkg/vmconfig"
	"github.com/prometheus/client_golang/prometheus"
	utilexec "k8s.io/utils/exec"
)

const (
	Name = "chterm-api"
)

var (
	Version        = "dev" //nolint:gochecknoglobals // set by ldflags
	CommitSHA      = "n/a" //nolint:gochecknoglobals // set by ldflags
	BuildTimestamp = "n/a" //nolint:gochecknoglobals // set by ldflags
)

// ------------------------------------------------- Main ----------------------------------------------------------- //

func main() {
	_, _ = fmt.Fprintf(
		os.Stdout,
		"Starting %s version %s (%s) %s\n",
		Name,
		Version,
		CommitSHA,
		BuildTimestamp,
	)

	gs := gracefulshutdown.New(Name)
	ctx := gs.Context()

	// --------------------------------------------- Config --------------------------------------------------------- //

	config, err := loadConfig()
	if err != nil {
		slog.ErrorContext(ctx, "loading chterm-api configuration", "error", err.Error())
		gs.Shutdown(1)
		return
	}

	timings, err := config.timings()
	if err != nil {
		slog.ErrorContext(ctx, "parsing chterm-api timings", "error", err.Error())
		gs.Shutdown(1)
		return
	}

	// --------------------------------------------- Logging -------------------------------------------------------- //

	level, err := logging.ParseLevel(config.LogLevel)
	if err != nil {
		slog.ErrorContext(ctx, "parsing log level", "error", err.Error())
		gs.Shutdown(1)
		return
	}

	log, err := logging.Setup(logging.Options{Development: config.Development, Level: level})
	if err != nil {
		slog.ErrorContext(ctx, "setting up logging", "error", err.Error())
		gs.Shutdown(1)
		return
	}

	// --------------------------------------------- Adapter -------------------------------------------------------- //

	paths := vmconfig.Paths{
		Binary:   config.Hypervisor.Binary,
		Kernel:   config.Hypervisor.Kernel,
		Firmware: config.Hypervisor.Firmware,
		RootFS:   config.Hypervisor.RootFS,
	}.WithDefaults(config.BaseDir)

	var prependCmd []string
	if config.Network.Sudo {
		prependCmd = []string{"sudo"}
	}

	firewall := network.NewFirewall(execcontext.New(nil, prependCmd), utilexec.New())
	provisioner := network.NewProvisioner(network.Config{
		TapName:  config.Network.TapName,
		HostCIDR: config.Network.HostCIDR,
	}, network.NewNetlinkLinks(), firewall)

	reclaimer := newReclaimer(ctx, config, paths, provisioner.Config().TapName, timings.ReclaimGrace)

	supervisor := process.NewSupervisor()
	supervisor.HealthCheckDelay = timings.HealthCheckDelay
	supervisor.TerminateGrace = timings.TerminateGrace

	// --------------------------------------------- Controller ----------------------------------------------------- //

	terminal := controller.NewTerminal(controller.Options{
		Paths:             paths,
		WorkRoot:          config.WorkRoot,
		TapName:           provisioner.Config().TapName,
		Subnet:            config.Network.Subnet,
		ForceStdioConsole: config.Console.ForceStdio,
		ReadTimeout:       timings.ReadTimeout,
		ScreenBufferSize:  config.ScreenBufferSize,
	}, supervisor, provisioner, reclaimer, controller.NewMetrics(prometheus.DefaultRegisterer))

	if err := terminal.Init(ctx); err != nil {
		slog.ErrorContext(ctx, "initializing terminal controller", "error", err.Error())
		gs.Shutdown(1)
		return
	}

	gs.OnShutdown(func(ctx context.Context) {
		n := terminal.CloseAll(ctx)
		slog.InfoContext(ctx, "closed terminal sessions", "count", n)
	})

	// --------------------------------------------- App ------------------------------------------------------------ //

	apiServer := &http.Server{ //nolint:exhaustruct
		Addr: fmt.Sprintf(":%d", config.APIServer.Port),
		Handler: server.New(terminal, log.WithName("api"), server.Options{
			AdminUsers:     config.APIServer.AdminUsers,
			StreamInterval: timings.StreamInterval,
			OriginPatterns: config.APIServer.OriginPatterns,
		}),
		ReadHeaderTimeout: time.Second,
	}

	// --------------------------------------------- Run Server ----------------------------------------------------- //

	httputil.Serve(map[string]*http.Server{
		"api":     apiServer,
		"metrics": setupMetricsServer(config),
		"probes":  setupProbesServer(config),
	}, gs)

	slog.Info("✅ gracefully stopped", "binary", Name)
}

// newReclaimer returns nil when reclamation is disabled or /proc cannot be opened.
func newReclaimer(
	ctx context.Context,
	config *Config,
	paths vmconfig.Paths,
	tapName string,
	grace time.Duration,
) controller.Reclaimer {
	if config.Reclaim.Disabled {
		return nil
	}

	mountPoint := config.Reclaim.ProcMountPoint
	if mountPoint == "" {
		mountPoint = network.DefaultProcMountPoint
	}

	r, err := network.NewReclaimer(mountPoint, filepath.Base(paths.Binary), tapName, network.WithReclaimGrace(grace))
	if err != nil {
		slog.WarnContext(ctx, "stale hypervisor reclamation disabled", "error", err.Error())
		return nil
	}

	return r
}

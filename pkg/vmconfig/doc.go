// Package vmconfig turns a Recipe into the cloud-hypervisor command line and the session init script.
//
// Build is pure: the console allocation happens beforehand and is passed in as the serial argument.
//
//	cfg, err := vmconfig.Build(recipe, vmconfig.BuildOptions{
//		Paths:       vmconfig.DefaultPaths("/opt/chterm"),
//		WorkDir:     workDir,
//		SessionUUID: id.String(),
//		Serial:      channel.SerialArg(),
//	})
package vmconfig

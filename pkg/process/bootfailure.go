package process

import (
	"errors"
	"strings"
)

var ErrBootFailure = errors.New("VM exited during boot")

// BootFailureKind is a best-effort diagnosis of why the hypervisor exited during boot.
type BootFailureKind string

const (
	BootDeviceBusy    BootFailureKind = "device_busy"
	BootNetworkInUse  BootFailureKind = "network_in_use"
	BootMalformedArgs BootFailureKind = "malformed_args"
	BootGeneric       BootFailureKind = "generic"
)

// bootFailureMarkers is matched in order against the hypervisor output.
var bootFailureMarkers = []struct {
	marker string
	kind   BootFailureKind
}{
	{marker: "Resource busy", kind: BootDeviceBusy},
	{marker: "TapOpen", kind: BootNetworkInUse},
	{marker: "unexpected argument", kind: BootMalformedArgs},
}

// ClassifyBootFailure scans output for known hypervisor error markers. It is a heuristic and only
// drives the error message.
func ClassifyBootFailure(output string) BootFailureKind {
	for _, m := range bootFailureMarkers {
		if strings.Contains(output, m.marker) {
			return m.kind
		}
	}
	return BootGeneric
}

// BootFailureError is returned by CheckHealth when the process exited during boot.
type BootFailureError struct {
	Kind       BootFailureKind
	Output     string
	ExitStatus int
}

func (e *BootFailureError) Error() string {
	switch e.Kind {
	case BootDeviceBusy:
		return "Error booting VM: Network interface is busy. Try again in a few seconds."
	case BootNetworkInUse:
		return "Error booting VM: TAP interface error. Network may be in use."
	case BootMalformedArgs:
		return "Error booting VM: Command line argument error. " + e.Output
	default:
		return "Error booting VM: " + e.Output
	}
}

func (e *BootFailureError) Is(target error) bool {
	return target == ErrBootFailure
}

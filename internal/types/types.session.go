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

package types

import (
	"time"

	"github.com/alexandremahdhaoui/chterm/pkg/vmconfig"
)

const (
	StatusRunning = "running"
	StatusStopped = "stopped"

	// AnonymousOwner owns the sessions created without a caller identity.
	AnonymousOwner = "anonymous"
)

// SessionSummary is one entry of a session listing.
type SessionSummary struct {
	// ID is the session identifier, e.g. "terminal_0".
	ID string `json:"id"`
	// Name is the human readable label of the session.
	Name string `json:"name"`
	// Created is the creation time of the session.
	Created time.Time `json:"created"`
	// Status is StatusRunning or StatusStopped.
	Status string `json:"status"`
}

// SessionStatus is the detailed projection of one session.
type SessionStatus struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Owner   string          `json:"owner"`
	Created time.Time       `json:"created"`
	Running bool            `json:"running"`
	PID     int             `json:"pid"`
	Recipe  vmconfig.Recipe `json:"recipe"`
	WorkDir string          `json:"workDir"`

	// ConsoleMode is "pty" or "stdio".
	ConsoleMode string `json:"consoleMode"`
	// MAC and IP are empty when the VM has no network.
	MAC string `json:"mac,omitempty"`
	IP  string `json:"ip,omitempty"`
	// NetworkReady is false when host network provisioning failed for this session.
	NetworkReady bool `json:"networkReady"`
}

// CreateResult is returned by a successful session creation.
type CreateResult struct {
	SessionID   string `json:"sessionId"`
	Name        string `json:"name"`
	ConsoleMode string `json:"consoleMode"`
}

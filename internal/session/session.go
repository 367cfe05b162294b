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

package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alexandremahdhaoui/chterm/pkg/console"
	"github.com/alexandremahdhaoui/chterm/pkg/process"
	"github.com/alexandremahdhaoui/chterm/pkg/vmconfig"
)

var ErrInvalidTransition = errors.New("invalid session state transition")

// State is the lifecycle state of a Session.
type State string

const (
	StateCreating State = "creating"
	StateRunning  State = "running"
	StateClosing  State = "closing"
	StateClosed   State = "closed"
)

var transitions = map[State][]State{
	StateCreating: {StateRunning, StateClosing},
	StateRunning:  {StateClosing},
	StateClosing:  {StateClosed},
}

// Network records the addressing of a session's VM.
type Network struct {
	MAC string
	IP  string
	// Ready is false when host provisioning failed; the VM may still boot without egress.
	Ready bool
}

// Session exclusively owns one VM process, its console and its work directory.
type Session struct {
	ID        string
	Owner     string
	UUID      string
	Name      string
	CreatedAt time.Time
	Recipe    vmconfig.Recipe
	WorkDir   string
	Network   Network

	Process *process.Handle
	Console *console.Channel
	Screen  *ScreenBuffer

	mu    sync.Mutex
	state State
}

// New returns a Session in StateCreating whose screen buffer keeps screenSize chunks.
func New(id, owner, sessionUUID, name string, recipe vmconfig.Recipe, screenSize int) *Session {
	return &Session{
		ID:        id,
		Owner:     owner,
		UUID:      sessionUUID,
		Name:      name,
		CreatedAt: time.Now(),
		Recipe:    recipe,
		Screen:    NewScreenBuffer(screenSize),
		state:     StateCreating,
	}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Transition moves the session to next. There is no way back to an earlier state.
func (s *Session) Transition(next State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, allowed := range transitions[s.state] {
		if allowed == next {
			s.state = next
			return nil
		}
	}

	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.state, next)
}

// Running reports whether the VM process is still alive.
func (s *Session) Running() bool {
	return s.Process != nil && !s.Process.Exited()
}

// ConsoleMode returns the console path in use, or an empty string before allocation.
func (s *Session) ConsoleMode() console.Mode {
	if s.Console == nil {
		return ""
	}
	return s.Console.Mode()
}

// PID returns the VM process id, or 0 before launch.
func (s *Session) PID() int {
	if s.Process == nil {
		return 0
	}
	return s.Process.PID()
}

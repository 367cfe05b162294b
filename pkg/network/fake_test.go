//go:build unit

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

package network_test

import (
	utilexec "k8s.io/utils/exec"
	testingexec "k8s.io/utils/exec/testing"
)

type fakeCall struct {
	output string
	err    error
}

// newFakeExec returns a FakeExec answering one call per entry of calls, in order, and the
// recorded argv of every command created.
func newFakeExec(calls ...fakeCall) (*testingexec.FakeExec, *[][]string) {
	argvs := &[][]string{}
	fakeExec := &testingexec.FakeExec{}

	for _, call := range calls {
		runAction := func() ([]byte, []byte, error) { return nil, nil, call.err }
		outputAction := func() ([]byte, []byte, error) { return []byte(call.output), nil, call.err }

		fakeExec.CommandScript = append(fakeExec.CommandScript, func(cmd string, args ...string) utilexec.Cmd {
			*argvs = append(*argvs, append([]string{cmd}, args...))
			fakeCmd := &testingexec.FakeCmd{
				RunScript:            []testingexec.FakeAction{runAction},
				CombinedOutputScript: []testingexec.FakeAction{outputAction},
			}
			return testingexec.InitFakeCmd(fakeCmd, cmd, args...)
		})
	}

	return fakeExec, argvs
}

func exitErr(status int) error {
	return &testingexec.FakeExitError{Status: status}
}

type fakeLinks struct {
	exists      bool
	existsErr   error
	createErr   error
	uplink      string
	uplinkErr   error
	createCalls int
}

func (f *fakeLinks) TapExists(string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeLinks) CreateTap(string, string) error {
	f.createCalls++
	return f.createErr
}

func (f *fakeLinks) DefaultInterface() (string, error) {
	return f.uplink, f.uplinkErr
}

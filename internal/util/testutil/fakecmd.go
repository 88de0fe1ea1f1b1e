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

package testutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteScript writes an executable /bin/sh script called name into a fresh
// temporary directory and returns its path.
func WriteScript(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("failed to write script %q: %v", path, err)
	}
	return path
}

// FakeCommand is a stand-in for an external binary such as virsh. Every
// invocation appends its arguments as one line to a log and stores its
// stdin, so tests can assert on what was run.
type FakeCommand struct {
	Path string

	argsFile  string
	stdinFile string
}

// NewFakeCommand writes a FakeCommand called name. It prints stderr on
// standard error and exits with exitCode.
func NewFakeCommand(t *testing.T, name string, exitCode int, stderr string) *FakeCommand {
	t.Helper()

	dir := t.TempDir()
	f := &FakeCommand{
		argsFile:  filepath.Join(dir, "args"),
		stdinFile: filepath.Join(dir, "stdin"),
	}

	body := fmt.Sprintf("echo \"$@\" >> %q\ncat > %q\n", f.argsFile, f.stdinFile)
	if stderr != "" {
		stderrFile := filepath.Join(dir, "stderr")
		if err := os.WriteFile(stderrFile, []byte(stderr), 0o600); err != nil {
			t.Fatalf("failed to write stderr fixture: %v", err)
		}
		body += fmt.Sprintf("cat %q >&2\n", stderrFile)
	}
	body += fmt.Sprintf("exit %d\n", exitCode)

	f.Path = WriteScript(t, name, body)
	return f
}

// Calls returns the arguments of every invocation, space separated, in
// order. It returns nil when the command never ran.
func (f *FakeCommand) Calls(t *testing.T) []string {
	t.Helper()

	b, err := os.ReadFile(f.argsFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		t.Fatalf("failed to read %q: %v", f.argsFile, err)
	}
	return strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
}

// Stdin returns what the last invocation read on stdin.
func (f *FakeCommand) Stdin(t *testing.T) string {
	t.Helper()

	b, err := os.ReadFile(f.stdinFile)
	if err != nil {
		t.Fatalf("failed to read %q: %v", f.stdinFile, err)
	}
	return string(b)
}

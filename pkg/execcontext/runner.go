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

package execcontext

import (
	"bytes"
	gocontext "context"
	"errors"
	"fmt"
	"os/exec"
)

var (
	ErrEmptyCommand = errors.New("command is empty")
	ErrStartCommand = errors.New("failed to run command")
)

// Output is what a finished command left behind.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Success reports whether the command exited with status zero.
func (o Output) Success() bool {
	return o.ExitCode == 0
}

// Runner runs a command to completion and captures its output.
//
// A command that ran but exited non-zero is not an error: the exit code is
// reported in Output. An error is returned only when the command could not
// be run at all.
type Runner interface {
	Run(ctx gocontext.Context, stdin []byte, cmd ...string) (Output, error)
}

// NewRunner returns a Runner applying execCtx to every command.
func NewRunner(execCtx Context) Runner {
	return &runner{execCtx: execCtx}
}

type runner struct {
	execCtx Context
}

// Run implements Runner.
func (r *runner) Run(ctx gocontext.Context, stdin []byte, cmd ...string) (Output, error) {
	if len(cmd) == 0 {
		return Output{}, ErrEmptyCommand
	}

	c := exec.CommandContext(ctx, cmd[0], cmd[1:]...)
	ApplyToCmd(r.execCtx, c)

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	if stdin != nil {
		c.Stdin = bytes.NewReader(stdin)
	}

	err := c.Run()
	out := Output{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}
	if err != nil {
		return out, errors.Join(err, fmt.Errorf("cmd=%s", FormatCmd(r.execCtx, cmd...)), ErrStartCommand)
	}

	return out, nil
}

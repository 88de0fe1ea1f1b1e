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

// Package execcontext runs the external tools usb-hotplug relies on (lsusb,
// virsh) with an optional set of environment variables and an optional
// prepended command such as "sudo".
package execcontext

import (
	"maps"
	"os"
	"os/exec"
	"slices"
	"strconv"
	"strings"
)

// Context is the execution environment shared by every external command.
type Context interface {
	Envs() map[string]string
	PrependCmd() []string
}

func New(envs map[string]string, prependCmd []string) Context {
	return &context{
		envs:       maps.Clone(envs),
		prependCmd: slices.Clone(prependCmd),
	}
}

type context struct {
	envs       map[string]string
	prependCmd []string
}

// Envs implements Context.
func (c *context) Envs() map[string]string {
	return maps.Clone(c.envs)
}

// PrependCmd implements Context.
func (c *context) PrependCmd() []string {
	return slices.Clone(c.prependCmd)
}

// ApplyToCmd adds the context envs on top of the process environment and
// rewrites cmd so that it runs behind the prepended command.
func ApplyToCmd(ctx Context, cmd *exec.Cmd) {
	if envs := sortedEnvs(ctx); len(envs) > 0 {
		if cmd.Env == nil {
			cmd.Env = os.Environ()
		}
		cmd.Env = append(cmd.Env, envs...)
	}

	prependCmd := ctx.PrependCmd()
	if len(prependCmd) == 0 {
		return
	}

	wrapper := exec.Command(prependCmd[0], prependCmd[1:]...)
	cmd.Path = wrapper.Path
	// The wrapped binary is resolved by the prepended command, so a lookup
	// failure for it must not abort the run.
	cmd.Err = wrapper.Err
	cmd.Args = append(wrapper.Args, cmd.Args...)
}

// FormatCmd renders the command line as it would be typed in a shell, for
// logs and error messages. Envs come first, sorted by name.
func FormatCmd(ctx Context, cmd ...string) string {
	var parts []string
	for _, kv := range sortedEnvs(ctx) {
		k, v, _ := strings.Cut(kv, "=")
		parts = append(parts, k+"="+quoteArg(v))
	}
	for _, s := range append(ctx.PrependCmd(), cmd...) {
		parts = append(parts, quoteArg(s))
	}
	return strings.Join(parts, " ")
}

func sortedEnvs(ctx Context) []string {
	envs := ctx.Envs()
	out := make([]string, 0, len(envs))
	for _, k := range slices.Sorted(maps.Keys(envs)) {
		out = append(out, k+"="+envs[k])
	}
	return out
}

// quoteArg quotes s unless it is made only of characters a shell reads
// literally.
func quoteArg(s string) string {
	if s == "" {
		return `""`
	}
	for _, r := range s {
		if !isPlain(r) {
			return strconv.Quote(s)
		}
	}
	return s
}

func isPlain(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("-_./:=@,+%", r)
}

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

package usbdev

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/alexandremahdhaoui/usb-hotplug/pkg/execcontext"
	"github.com/fatih/color"
	"github.com/go-logr/logr"
)

var ErrRunLsusb = errors.New("failed to run lsusb")

// minLsusbFields is the number of whitespace separated tokens a line of
// lsusb output needs before it is considered a device line:
//
//	Bus 001 Device 002: ID 1d6b:0002 Linux Foundation 2.0 root hub
const minLsusbFields = 6

// LsusbLister enumerates devices by parsing the output of lsusb.
type LsusbLister struct {
	runner execcontext.Runner
	path   string
	out    io.Writer
	log    logr.Logger
}

// NewLsusbLister returns a LsusbLister running the lsusb binary found at
// path. Failures of lsusb are reported to out.
func NewLsusbLister(runner execcontext.Runner, path string, out io.Writer, log logr.Logger) *LsusbLister {
	return &LsusbLister{
		runner: runner,
		path:   path,
		out:    out,
		log:    log.WithName("lsusb"),
	}
}

// List implements Lister.
//
// A non-zero exit of lsusb is reported but whatever it printed on stdout is
// still parsed.
func (l *LsusbLister) List(ctx context.Context, filter Filter) ([]Device, error) {
	res, err := l.runner.Run(ctx, nil, l.path)
	if err != nil {
		return nil, errors.Join(err, ErrRunLsusb)
	}

	if res.Success() {
		l.log.V(1).Info("successfully ran lsusb")
	} else {
		l.log.Info("lsusb exited with an error", "exitCode", res.ExitCode)
		color.New(color.FgRed).Fprintf(l.out, "Error running lsusb: %s", res.Stderr)
	}

	devices := filter.Apply(ParseLsusb(string(res.Stdout)))
	l.log.V(1).Info("listed USB devices", "count", len(devices), "devices", devices)
	return devices, nil
}

// ParseLsusb extracts devices from lsusb output.
//
// This is a heuristic, not a parser: a line needs at least six whitespace
// separated tokens, the sixth being "vvvv:pppp", and every following token
// is part of the description. Lines that do not fit are skipped.
func ParseLsusb(text string) []Device {
	var devices []Device
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) < minLsusbFields {
			continue
		}

		vendor, product, ok := strings.Cut(fields[minLsusbFields-1], ":")
		if !ok || vendor == "" || product == "" || strings.Contains(product, ":") {
			continue
		}

		devices = append(devices, Device{
			VendorID:    "0x" + vendor,
			ProductID:   "0x" + product,
			Description: strings.Join(fields[minLsusbFields:], " "),
		})
	}
	return devices
}

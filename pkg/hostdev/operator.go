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

package hostdev

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/alexandremahdhaoui/usb-hotplug/pkg/execcontext"
	"github.com/alexandremahdhaoui/usb-hotplug/pkg/usbdev"
	"github.com/fatih/color"
	"github.com/go-logr/logr"
)

var ErrDeviceCommand = errors.New("device command failed")

// Op is a hot-plug operation understood by virsh.
type Op string

const (
	OpAttach Op = "attach"
	OpDetach Op = "detach"
)

// Command returns the virsh sub-command for op.
func (op Op) Command() string {
	return string(op) + "-device"
}

// Operator hot-plugs USB devices through virsh.
type Operator struct {
	runner execcontext.Runner
	virsh  string
	out    io.Writer
	log    logr.Logger
}

// NewOperator returns an Operator running the virsh binary found at
// virshPath. Outcomes are reported to out.
func NewOperator(runner execcontext.Runner, virshPath string, out io.Writer, log logr.Logger) *Operator {
	return &Operator{
		runner: runner,
		virsh:  virshPath,
		out:    out,
		log:    log.WithName("operator"),
	}
}

// Apply attaches or detaches dev on dom.
//
// The outcome is printed. A failing virsh returns ErrDeviceCommand once it
// has been reported; it is not retried.
func (o *Operator) Apply(ctx context.Context, op Op, dom Domain, dev usbdev.Device) error {
	fragment, err := Fragment(dev.VendorID, dev.ProductID)
	if err != nil {
		return err
	}

	cmd := []string{o.virsh, op.Command(), dom.Name(), "/dev/stdin"}
	o.log.V(1).Info("running virsh", "cmd", cmd, "xml", fragment)

	res, err := o.runner.Run(ctx, []byte(fragment), cmd...)
	if err != nil {
		color.New(color.FgRed).Fprintf(o.out, "Error running virsh: %s\n", err)
		return errors.Join(err, ErrDeviceCommand)
	}
	if !res.Success() {
		color.New(color.FgRed).Fprintf(o.out, "Error running virsh: %s", res.Stderr)
		return errors.Join(
			fmt.Errorf("op=%s vmName=%s device=%s exitCode=%d", op, dom.Name(), dev.ID(), res.ExitCode),
			ErrDeviceCommand,
		)
	}

	color.New(color.FgGreen).Fprintf(o.out, "Successfully %sed device: %s\n", op, dev.Description)
	return nil
}

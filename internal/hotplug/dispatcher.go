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

// Package hotplug drives one usb-hotplug invocation: connect to libvirt,
// resolve the running VM, then attach, detach or list USB devices.
package hotplug

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/alexandremahdhaoui/usb-hotplug/pkg/hostdev"
	"github.com/alexandremahdhaoui/usb-hotplug/pkg/selector"
	"github.com/alexandremahdhaoui/usb-hotplug/pkg/usbdev"
	"github.com/fatih/color"
	"github.com/go-logr/logr"
)

const (
	OpAttach = "attach"
	OpDetach = "detach"
	OpList   = "list"
)

// Errors returned by Run are fatal: the process must exit non-zero.
var (
	ErrOpenConnection  = errors.New("error during libvirt open")
	ErrLookupDomain    = errors.New("error during dom lookup")
	ErrDomainNotActive = errors.New("domain is not active")
)

// Hypervisor is an open connection to the hypervisor.
type Hypervisor interface {
	LookupDomain(name string) (hostdev.Domain, error)
	Close() error
}

// OpenFunc opens a Hypervisor connection to uri.
type OpenFunc func(uri string) (Hypervisor, error)

// Inspector lists the vendor:product ids attached to a domain.
type Inspector interface {
	AttachedDevices(ctx context.Context, dom hostdev.Domain) ([]string, error)
}

// Operator hot-plugs a device on a domain.
type Operator interface {
	Apply(ctx context.Context, op hostdev.Op, dom hostdev.Domain, dev usbdev.Device) error
}

// Dispatcher runs one operation against one VM.
type Dispatcher struct {
	URI       string
	Open      OpenFunc
	Lister    usbdev.Lister
	Selector  selector.Selector
	Inspector Inspector
	Operator  Operator
	// Out receives the messages meant for the operator.
	Out io.Writer
	Log logr.Logger
}

// Run executes op on the VM called vmName.
//
// Only failing to reach a running VM, or a domain XML that cannot be
// traversed, is returned as an error. Failed or cancelled operations are
// reported on Out and Run returns nil.
func (d *Dispatcher) Run(ctx context.Context, op, vmName string) error {
	log := d.Log.WithValues("op", op, "vmName", vmName)

	hv, err := d.Open(d.URI)
	if err != nil {
		return errors.Join(err, fmt.Errorf("uri=%s", d.URI), ErrOpenConnection)
	}
	defer func() {
		if err := hv.Close(); err != nil {
			log.Error(err, "failed to close libvirt connection")
		}
	}()

	dom, err := hv.LookupDomain(vmName)
	if err != nil {
		return errors.Join(err, fmt.Errorf("vmName=%s", vmName), ErrLookupDomain)
	}

	active, err := dom.IsActive()
	if err != nil || !active {
		return errors.Join(err, fmt.Errorf("domain %q is not active", dom.Name()), ErrDomainNotActive)
	}

	switch op {
	case OpAttach:
		log.V(1).Info("attach")
		return d.attach(ctx, dom)
	case OpDetach:
		log.V(1).Info("detach")
		return d.detach(ctx, dom)
	case OpList:
		log.V(1).Info("listdevs")
		return d.list(ctx, dom)
	default:
		log.Error(nil, "Unknown operation!")
		color.New(color.FgRed).Fprintf(d.Out, "Unknown operation: %s\n", op)
		return nil
	}
}

// attach offers every connected device. Devices already attached are not
// filtered out, libvirt rejects a duplicate if it has to.
func (d *Dispatcher) attach(ctx context.Context, dom hostdev.Domain) error {
	dev := d.selectDevice(ctx, nil)
	if dev == nil {
		fmt.Fprintln(d.Out, "No device selected")
		return nil
	}
	d.apply(ctx, hostdev.OpAttach, dom, *dev)
	return nil
}

func (d *Dispatcher) detach(ctx context.Context, dom hostdev.Domain) error {
	attached, err := d.Inspector.AttachedDevices(ctx, dom)
	if err != nil {
		return err
	}
	if len(attached) == 0 {
		fmt.Fprintln(d.Out, "No device attached")
		return nil
	}

	dev := d.selectDevice(ctx, usbdev.NewFilter(attached...))
	if dev == nil {
		fmt.Fprintln(d.Out, "No device selected")
		return nil
	}
	d.apply(ctx, hostdev.OpDetach, dom, *dev)
	return nil
}

func (d *Dispatcher) list(ctx context.Context, dom hostdev.Domain) error {
	attached, err := d.Inspector.AttachedDevices(ctx, dom)
	if err != nil {
		return err
	}
	for _, id := range attached {
		fmt.Fprintf(d.Out, "Attached USB host devices: %s\n", id)
	}
	return nil
}

// selectDevice lists the devices allowed by filter and lets the operator
// pick one. It returns nil when there is nothing to pick from, when the
// operator cancels, or when listing or prompting failed.
func (d *Dispatcher) selectDevice(ctx context.Context, filter usbdev.Filter) *usbdev.Device {
	devices, err := d.Lister.List(ctx, filter)
	if err != nil {
		d.Log.Error(err, "failed to list USB devices")
		color.New(color.FgRed).Fprintf(d.Out, "Error listing USB devices: %s\n", err)
		return nil
	}
	if len(devices) == 0 {
		d.Log.Info("no matching USB device found")
		return nil
	}

	dev, err := d.Selector.Select(ctx, devices)
	if err != nil {
		d.Log.Error(err, "device prompt failed")
		color.New(color.FgRed).Fprintf(d.Out, "Error selecting USB device: %s\n", err)
		return nil
	}
	return dev
}

// apply runs the operator. A failure has already been reported to the
// operator and does not change the exit status.
func (d *Dispatcher) apply(ctx context.Context, op hostdev.Op, dom hostdev.Domain, dev usbdev.Device) {
	if err := d.Operator.Apply(ctx, op, dom, dev); err != nil {
		d.Log.V(1).Info("device operation failed", "op", op, "device", dev.ID(), "error", err.Error())
	}
}

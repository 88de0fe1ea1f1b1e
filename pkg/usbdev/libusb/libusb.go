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

// Package libusb lists USB devices by asking libusb directly, through
// gousb. It is kept apart from usbdev because it needs cgo and the
// libusb-1.0 headers.
package libusb

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/alexandremahdhaoui/usb-hotplug/pkg/usbdev"
	"github.com/fatih/color"
	"github.com/go-logr/logr"
	"github.com/google/gousb"
)

var ErrInitLibusb = errors.New("failed to initialize libusb")

// Session is an open libusb context.
type Session interface {
	// OpenDevices opens every enumerated device. It returns the devices it
	// managed to open alongside the last error, usually a permission error
	// on a single device.
	OpenDevices() ([]Device, error)
	Close() error
}

// Device is an opened USB device.
type Device interface {
	IDs() (vendor, product uint16)
	Manufacturer() (string, error)
	Product() (string, error)
	Close() error
}

// OpenFunc starts a Session.
type OpenFunc func() (Session, error)

// Open starts a gousb backed Session.
func Open() (Session, error) {
	return openContext(gousb.NewContext)
}

// openContext returns the panic gousb raises when libusb cannot be
// initialized as ErrInitLibusb.
func openContext(newContext func() *gousb.Context) (s Session, err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			s, err = nil, errors.Join(cause, ErrInitLibusb)
		}
	}()

	return &session{ctx: newContext()}, nil
}

type session struct {
	ctx *gousb.Context
}

func (s *session) OpenDevices() ([]Device, error) {
	devs, err := s.ctx.OpenDevices(func(*gousb.DeviceDesc) bool { return true })

	out := make([]Device, 0, len(devs))
	for _, dev := range devs {
		out = append(out, device{dev})
	}
	return out, err
}

func (s *session) Close() error {
	return s.ctx.Close()
}

type device struct {
	*gousb.Device
}

func (d device) IDs() (vendor, product uint16) {
	return uint16(d.Desc.Vendor), uint16(d.Desc.Product)
}

// Lister enumerates devices through libusb. It implements usbdev.Lister.
type Lister struct {
	open OpenFunc
	out  io.Writer
	log  logr.Logger
}

// NewLister returns a Lister using gousb. Devices that cannot be opened are
// reported to out.
func NewLister(out io.Writer, log logr.Logger) *Lister {
	return New(Open, out, log)
}

// New returns a Lister starting its sessions with open.
func New(open OpenFunc, out io.Writer, log logr.Logger) *Lister {
	return &Lister{
		open: open,
		out:  out,
		log:  log.WithName("libusb"),
	}
}

// List implements usbdev.Lister.
//
// Devices without a manufacturer or product string are left out, they
// would show up as an empty entry in the prompt.
func (l *Lister) List(_ context.Context, filter usbdev.Filter) ([]usbdev.Device, error) {
	s, err := l.open()
	if err != nil {
		return nil, err
	}
	defer s.Close()

	devs, err := s.OpenDevices()
	if err != nil {
		l.log.Info("some USB devices could not be opened", "error", err.Error())
		color.New(color.FgRed).Fprintf(l.out, "Error opening USB devices: %s\n", err)
	}

	var devices []usbdev.Device
	for _, dev := range devs {
		manufacturer, mErr := dev.Manufacturer()
		product, pErr := dev.Product()
		vendorID, productID := dev.IDs()
		_ = dev.Close()

		if mErr != nil || pErr != nil {
			l.log.V(1).Info("cannot read USB string descriptors",
				"vendor", fmt.Sprintf("%04x", vendorID), "product", fmt.Sprintf("%04x", productID))
			continue
		}

		d, ok := deviceFromDescriptor(vendorID, productID, manufacturer, product)
		if !ok || !filter.Allows(d) {
			continue
		}
		devices = append(devices, d)
	}

	l.log.V(1).Info("listed USB devices", "count", len(devices), "devices", devices)
	return devices, nil
}

func deviceFromDescriptor(vendor, product uint16, manufacturerName, productName string) (usbdev.Device, bool) {
	if manufacturerName == "" || productName == "" {
		return usbdev.Device{}, false
	}
	return usbdev.Device{
		VendorID:    fmt.Sprintf("0x%04x", vendor),
		ProductID:   fmt.Sprintf("0x%04x", product),
		Description: manufacturerName + " " + productName,
	}, true
}

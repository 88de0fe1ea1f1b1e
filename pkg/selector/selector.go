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

// Package selector asks the operator to pick one USB device.
package selector

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexandremahdhaoui/usb-hotplug/pkg/usbdev"
	"github.com/charmbracelet/huh"
	"github.com/go-logr/logr"
)

const (
	DefaultTitle       = "USB Devices"
	DefaultDescription = "Please select an USB device"
)

var (
	ErrNoDevices    = errors.New("no device to select from")
	ErrInvalidIndex = errors.New("selected index is out of range")
	ErrPrompt       = errors.New("failed to run device prompt")
)

// Selector returns the device chosen by the operator, or nil when the
// operator cancelled. Cancelling is not an error.
type Selector interface {
	Select(ctx context.Context, devices []usbdev.Device) (*usbdev.Device, error)
}

// Prompt is a terminal single-choice menu.
type Prompt struct {
	Title       string
	Description string
	// Accessible renders the prompt as plain numbered text, for screen
	// readers and dumb terminals.
	Accessible bool

	log logr.Logger
}

func NewPrompt(log logr.Logger) *Prompt {
	return &Prompt{
		Title:       DefaultTitle,
		Description: DefaultDescription,
		log:         log.WithName("selector"),
	}
}

// Select implements Selector.
func (p *Prompt) Select(ctx context.Context, devices []usbdev.Device) (*usbdev.Device, error) {
	if len(devices) == 0 {
		return nil, ErrNoDevices
	}

	var idx int
	field := huh.NewSelect[int]().
		Title(p.Title).
		Description(p.Description).
		Options(Options(devices)...).
		Value(&idx)

	err := huh.NewForm(huh.NewGroup(field)).
		WithAccessible(p.Accessible).
		RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		p.log.V(1).Info("device selection cancelled")
		return nil, nil
	}
	if err != nil {
		return nil, errors.Join(err, ErrPrompt)
	}

	d, err := Pick(devices, idx)
	if err != nil {
		return nil, err
	}
	p.log.V(1).Info("selected device", "index", idx, "description", d.Description)
	return d, nil
}

// Options turns devices into prompt options. The option value is the index
// of the device in devices.
func Options(devices []usbdev.Device) []huh.Option[int] {
	opts := make([]huh.Option[int], 0, len(devices))
	for i, d := range devices {
		opts = append(opts, huh.NewOption(d.Description, i))
	}
	return opts
}

// Pick returns the device at idx.
func Pick(devices []usbdev.Device, idx int) (*usbdev.Device, error) {
	if idx < 0 || idx >= len(devices) {
		return nil, errors.Join(fmt.Errorf("index=%d len=%d", idx, len(devices)), ErrInvalidIndex)
	}
	d := devices[idx]
	return &d, nil
}

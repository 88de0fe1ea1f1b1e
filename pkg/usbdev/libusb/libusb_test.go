//go:build unit

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

package libusb

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/alexandremahdhaoui/usb-hotplug/pkg/usbdev"
	"github.com/go-logr/logr/testr"
	"github.com/google/gousb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	vendor, product uint16
	manufacturer    string
	name            string
	err             error
	closed          bool
}

func (d *fakeDevice) IDs() (uint16, uint16) { return d.vendor, d.product }
func (d *fakeDevice) Manufacturer() (string, error) { return d.manufacturer, d.err }
func (d *fakeDevice) Product() (string, error) { return d.name, d.err }
func (d *fakeDevice) Close() error {
	d.closed = true
	return nil
}

type fakeSession struct {
	devices []*fakeDevice
	err     error
	closed  bool
}

func (s *fakeSession) OpenDevices() ([]Device, error) {
	out := make([]Device, 0, len(s.devices))
	for _, d := range s.devices {
		out = append(out, d)
	}
	return out, s.err
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

func openFake(s *fakeSession) OpenFunc {
	return func() (Session, error) { return s, nil }
}

func TestLister_List(t *testing.T) {
	ctx := context.Background()

	t.Run("lists and filters", func(t *testing.T) {
		receiver := &fakeDevice{vendor: 0x046d, product: 0xc52b, manufacturer: "Logitech", name: "USB Receiver"}
		hub := &fakeDevice{vendor: 0x1d6b, product: 0x2, manufacturer: "Linux", name: "root hub"}
		s := &fakeSession{devices: []*fakeDevice{receiver, hub}}
		out := &bytes.Buffer{}
		l := New(openFake(s), out, testr.New(t))

		all, err := l.List(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, []usbdev.Device{
			{VendorID: "0x046d", ProductID: "0xc52b", Description: "Logitech USB Receiver"},
			{VendorID: "0x1d6b", ProductID: "0x0002", Description: "Linux root hub"},
		}, all)

		filtered, err := l.List(ctx, usbdev.NewFilter("1d6b:0002"))
		require.NoError(t, err)
		require.Len(t, filtered, 1)
		assert.Equal(t, "Linux root hub", filtered[0].Description)

		assert.True(t, s.closed)
		assert.True(t, receiver.closed)
		assert.True(t, hub.closed)
		assert.Empty(t, out.String())
	})

	t.Run("devices without string descriptors are left out", func(t *testing.T) {
		s := &fakeSession{devices: []*fakeDevice{
			{vendor: 0x0781, product: 0x5581, err: gousb.ErrorAccess},
			{vendor: 0x0781, product: 0x5582, manufacturer: "", name: "Ultra"},
			{vendor: 0x046d, product: 0xc52b, manufacturer: "Logitech", name: "USB Receiver"},
		}}

		devices, err := New(openFake(s), &bytes.Buffer{}, testr.New(t)).List(ctx, nil)
		require.NoError(t, err)
		require.Len(t, devices, 1)
		assert.Equal(t, "0x046d", devices[0].VendorID)
		for _, d := range s.devices {
			assert.True(t, d.closed)
		}
	})

	t.Run("open errors are reported and opened devices still listed", func(t *testing.T) {
		s := &fakeSession{
			devices: []*fakeDevice{{vendor: 0x046d, product: 0xc52b, manufacturer: "Logitech", name: "USB Receiver"}},
			err:     gousb.ErrorAccess,
		}
		out := &bytes.Buffer{}

		devices, err := New(openFake(s), out, testr.New(t)).List(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, devices, 1)
		assert.Contains(t, out.String(), "Error opening USB devices: "+gousb.ErrorAccess.Error())
	})

	t.Run("session errors are returned", func(t *testing.T) {
		open := func() (Session, error) { return nil, ErrInitLibusb }

		_, err := New(open, &bytes.Buffer{}, testr.New(t)).List(ctx, nil)
		assert.ErrorIs(t, err, ErrInitLibusb)
	})
}

func TestOpenContext(t *testing.T) {
	t.Run("initialization panic is returned", func(t *testing.T) {
		cause := errors.New("libusb: not found [code -5]")

		s, err := openContext(func() *gousb.Context { panic(cause) })
		assert.Nil(t, s)
		assert.ErrorIs(t, err, ErrInitLibusb)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("non error panic value", func(t *testing.T) {
		_, err := openContext(func() *gousb.Context { panic("no backend") })
		assert.ErrorIs(t, err, ErrInitLibusb)
		assert.ErrorContains(t, err, "no backend")
	})
}

func TestDeviceFromDescriptor(t *testing.T) {
	d, ok := deviceFromDescriptor(0x046d, 0xc52b, "Logitech", "USB Receiver")
	require.True(t, ok)
	assert.Equal(t, usbdev.Device{VendorID: "0x046d", ProductID: "0xc52b", Description: "Logitech USB Receiver"}, d)
	assert.Equal(t, "046d:c52b", d.ID())

	d, ok = deviceFromDescriptor(0x1d6b, 0x2, "Linux", "root hub")
	require.True(t, ok)
	assert.Equal(t, "0x0002", d.ProductID)

	_, ok = deviceFromDescriptor(0x1d6b, 0x2, "", "root hub")
	assert.False(t, ok)
	_, ok = deviceFromDescriptor(0x1d6b, 0x2, "Linux", "")
	assert.False(t, ok)
}

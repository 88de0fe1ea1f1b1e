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

package hotplug_test

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/alexandremahdhaoui/usb-hotplug/internal/hotplug"
	"github.com/alexandremahdhaoui/usb-hotplug/internal/util/mocks/mockhostdev"
	"github.com/alexandremahdhaoui/usb-hotplug/internal/util/mocks/mockhotplug"
	"github.com/alexandremahdhaoui/usb-hotplug/internal/util/mocks/mockselector"
	"github.com/alexandremahdhaoui/usb-hotplug/internal/util/mocks/mockusbdev"
	"github.com/alexandremahdhaoui/usb-hotplug/internal/util/testutil"
	"github.com/alexandremahdhaoui/usb-hotplug/pkg/execcontext"
	"github.com/alexandremahdhaoui/usb-hotplug/pkg/hostdev"
	"github.com/alexandremahdhaoui/usb-hotplug/pkg/usbdev"
	"github.com/go-logr/logr/testr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	vmName = "win11"
	uri    = "qemu:///system"
)

const twoHostdevsXML = `<domain type='kvm'>
  <name>win11</name>
  <devices>
    <hostdev mode='subsystem' type='usb' managed='yes'>
      <source><vendor id='0x046d'/><product id='0xc52b'/></source>
    </hostdev>
    <hostdev mode='subsystem' type='usb' managed='yes'>
      <source><vendor id='0x0781'/><product id='0x5581'/></source>
    </hostdev>
  </devices>
</domain>`

const noHostdevXML = `<domain type='kvm'><name>win11</name><devices><disk/></devices></domain>`

var (
	logitech = usbdev.Device{VendorID: "0x046d", ProductID: "0xc52b", Description: "Logitech, Inc. Unifying Receiver"}
	sandisk  = usbdev.Device{VendorID: "0x0781", ProductID: "0x5581", Description: "SanDisk Corp. Ultra"}
	rootHub  = usbdev.Device{VendorID: "0x1d6b", ProductID: "0x0002", Description: "Linux Foundation 2.0 root hub"}
)

type fixture struct {
	hv       *mockhotplug.MockHypervisor
	dom      *mockhostdev.MockDomain
	lister   *mockusbdev.MockLister
	selector *mockselector.MockSelector
	out      *bytes.Buffer
	virsh    *testutil.FakeCommand
	openErr  error
	openURIs []string

	dispatcher *hotplug.Dispatcher
}

// newFixture wires a Dispatcher with mocked libvirt, lister and selector, a
// real inspector, and a real operator running a fake virsh that records its
// arguments.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		hv:       mockhotplug.NewMockHypervisor(t),
		dom:      mockhostdev.NewMockDomain(t),
		lister:   mockusbdev.NewMockLister(t),
		selector: mockselector.NewMockSelector(t),
		out:      &bytes.Buffer{},
		virsh:    testutil.NewFakeCommand(t, "virsh", 0, ""),
	}

	log := testr.New(t)
	runner := execcontext.NewRunner(execcontext.New(nil, nil))
	f.dispatcher = &hotplug.Dispatcher{
		URI: uri,
		Open: func(u string) (hotplug.Hypervisor, error) {
			f.openURIs = append(f.openURIs, u)
			if f.openErr != nil {
				return nil, f.openErr
			}
			return f.hv, nil
		},
		Lister:    f.lister,
		Selector:  f.selector,
		Inspector: hostdev.NewInspector(log),
		Operator:  hostdev.NewOperator(runner, f.virsh.Path, f.out, log),
		Out:       f.out,
		Log:       log,
	}
	return f
}

// expectRunningVM sets up the happy path up to the VmActive state.
func (f *fixture) expectRunningVM() {
	f.hv.EXPECT().LookupDomain(vmName).Return(f.dom, nil)
	f.hv.EXPECT().Close().Return(nil)
	f.dom.EXPECT().IsActive().Return(true, nil)
	f.dom.EXPECT().Name().Return(vmName).Maybe()
}

func (f *fixture) virshCalls(t *testing.T) []string {
	t.Helper()
	return f.virsh.Calls(t)
}

func nilFilter() any {
	return mock.MatchedBy(func(filter usbdev.Filter) bool { return filter == nil })
}

func filterOf(ids ...string) any {
	want := usbdev.NewFilter(ids...)
	return mock.MatchedBy(func(filter usbdev.Filter) bool { return reflect.DeepEqual(want, filter) })
}

func TestDispatcher_FatalStates(t *testing.T) {
	ctx := context.Background()

	t.Run("connection failure", func(t *testing.T) {
		f := newFixture(t)
		f.openErr = errors.New("no connection driver available")

		err := f.dispatcher.Run(ctx, hotplug.OpList, vmName)
		assert.ErrorIs(t, err, hotplug.ErrOpenConnection)
		assert.Equal(t, []string{uri}, f.openURIs)
	})

	t.Run("lookup failure still closes the connection", func(t *testing.T) {
		f := newFixture(t)
		f.hv.EXPECT().LookupDomain(vmName).Return(nil, errors.New("Domain not found"))
		f.hv.EXPECT().Close().Return(nil).Once()

		err := f.dispatcher.Run(ctx, hotplug.OpList, vmName)
		assert.ErrorIs(t, err, hotplug.ErrLookupDomain)
	})

	t.Run("inactive domain", func(t *testing.T) {
		f := newFixture(t)
		f.hv.EXPECT().LookupDomain(vmName).Return(f.dom, nil)
		f.hv.EXPECT().Close().Return(nil).Once()
		f.dom.EXPECT().IsActive().Return(false, nil)
		f.dom.EXPECT().Name().Return(vmName)

		err := f.dispatcher.Run(ctx, hotplug.OpAttach, vmName)
		assert.ErrorIs(t, err, hotplug.ErrDomainNotActive)
		assert.Contains(t, err.Error(), `domain "win11" is not active`)
	})

	t.Run("activity check error", func(t *testing.T) {
		f := newFixture(t)
		f.hv.EXPECT().LookupDomain(vmName).Return(f.dom, nil)
		f.hv.EXPECT().Close().Return(nil).Once()
		f.dom.EXPECT().IsActive().Return(false, errors.New("internal error"))
		f.dom.EXPECT().Name().Return(vmName)

		err := f.dispatcher.Run(ctx, hotplug.OpDetach, vmName)
		assert.ErrorIs(t, err, hotplug.ErrDomainNotActive)
	})

	t.Run("missing source below hostdev", func(t *testing.T) {
		f := newFixture(t)
		f.expectRunningVM()
		f.dom.EXPECT().XMLDesc().Return(`<domain><devices><hostdev mode='subsystem' type='usb'/></devices></domain>`, nil)

		err := f.dispatcher.Run(ctx, hotplug.OpList, vmName)
		assert.ErrorIs(t, err, hostdev.ErrMissingSource)
		assert.Empty(t, f.out.String())
	})
}

func TestDispatcher_UnknownOperation(t *testing.T) {
	f := newFixture(t)
	f.expectRunningVM()

	err := f.dispatcher.Run(context.Background(), "reboot", vmName)
	require.NoError(t, err)

	assert.Contains(t, f.out.String(), "Unknown operation: reboot")
	assert.Empty(t, f.virshCalls(t))
}

func TestDispatcher_List(t *testing.T) {
	t.Run("two attached devices in document order", func(t *testing.T) {
		f := newFixture(t)
		f.expectRunningVM()
		f.dom.EXPECT().XMLDesc().Return(twoHostdevsXML, nil)

		err := f.dispatcher.Run(context.Background(), hotplug.OpList, vmName)
		require.NoError(t, err)

		assert.Equal(t,
			"Attached USB host devices: 0x046d:0xc52b\n"+
				"Attached USB host devices: 0x0781:0x5581\n",
			f.out.String())
	})

	t.Run("nothing attached prints nothing", func(t *testing.T) {
		f := newFixture(t)
		f.expectRunningVM()
		f.dom.EXPECT().XMLDesc().Return(noHostdevXML, nil)

		err := f.dispatcher.Run(context.Background(), hotplug.OpList, vmName)
		require.NoError(t, err)
		assert.Empty(t, f.out.String())
	})
}

func TestDispatcher_Detach(t *testing.T) {
	ctx := context.Background()

	t.Run("no device attached", func(t *testing.T) {
		f := newFixture(t)
		f.expectRunningVM()
		f.dom.EXPECT().XMLDesc().Return(noHostdevXML, nil)

		err := f.dispatcher.Run(ctx, hotplug.OpDetach, vmName)
		require.NoError(t, err)

		assert.Equal(t, "No device attached\n", f.out.String())
		assert.Empty(t, f.virshCalls(t))
	})

	t.Run("offers only attached devices and detaches the selected one", func(t *testing.T) {
		f := newFixture(t)
		f.expectRunningVM()
		f.dom.EXPECT().XMLDesc().Return(twoHostdevsXML, nil)
		f.lister.EXPECT().List(mock.Anything, filterOf("046d:c52b", "0781:5581")).
			Return([]usbdev.Device{logitech, sandisk}, nil)
		f.selector.EXPECT().Select(mock.Anything, []usbdev.Device{logitech, sandisk}).Return(&sandisk, nil)

		err := f.dispatcher.Run(ctx, hotplug.OpDetach, vmName)
		require.NoError(t, err)

		assert.Equal(t, []string{"detach-device win11 /dev/stdin"}, f.virshCalls(t))
		assert.Contains(t, f.out.String(), "Successfully detached device: SanDisk Corp. Ultra")
	})

	t.Run("attached device no longer plugged", func(t *testing.T) {
		f := newFixture(t)
		f.expectRunningVM()
		f.dom.EXPECT().XMLDesc().Return(twoHostdevsXML, nil)
		f.lister.EXPECT().List(mock.Anything, mock.Anything).Return(nil, nil)

		err := f.dispatcher.Run(ctx, hotplug.OpDetach, vmName)
		require.NoError(t, err)

		assert.Equal(t, "No device selected\n", f.out.String())
		assert.Empty(t, f.virshCalls(t))
	})
}

func TestDispatcher_Attach(t *testing.T) {
	ctx := context.Background()

	t.Run("cancelled prompt", func(t *testing.T) {
		f := newFixture(t)
		f.expectRunningVM()
		f.lister.EXPECT().List(mock.Anything, nilFilter()).Return([]usbdev.Device{rootHub, logitech}, nil)
		f.selector.EXPECT().Select(mock.Anything, mock.Anything).Return(nil, nil)

		err := f.dispatcher.Run(ctx, hotplug.OpAttach, vmName)
		require.NoError(t, err)

		assert.Equal(t, "No device selected\n", f.out.String())
		assert.Empty(t, f.virshCalls(t))
	})

	t.Run("attaches the selected device without filtering", func(t *testing.T) {
		f := newFixture(t)
		f.expectRunningVM()
		f.lister.EXPECT().List(mock.Anything, nilFilter()).Return([]usbdev.Device{rootHub, logitech}, nil)
		f.selector.EXPECT().Select(mock.Anything, []usbdev.Device{rootHub, logitech}).Return(&logitech, nil)

		err := f.dispatcher.Run(ctx, hotplug.OpAttach, vmName)
		require.NoError(t, err)

		assert.Equal(t, []string{"attach-device win11 /dev/stdin"}, f.virshCalls(t))
		assert.Contains(t, f.out.String(), "Successfully attached device: Logitech, Inc. Unifying Receiver")
	})

	t.Run("no device found skips the prompt", func(t *testing.T) {
		f := newFixture(t)
		f.expectRunningVM()
		f.lister.EXPECT().List(mock.Anything, nilFilter()).Return([]usbdev.Device{}, nil)

		err := f.dispatcher.Run(ctx, hotplug.OpAttach, vmName)
		require.NoError(t, err)

		assert.Equal(t, "No device selected\n", f.out.String())
		assert.Empty(t, f.virshCalls(t))
	})

	t.Run("lister error is reported, not fatal", func(t *testing.T) {
		f := newFixture(t)
		f.expectRunningVM()
		f.lister.EXPECT().List(mock.Anything, nilFilter()).Return(nil, usbdev.ErrRunLsusb)

		err := f.dispatcher.Run(ctx, hotplug.OpAttach, vmName)
		require.NoError(t, err)

		assert.Contains(t, f.out.String(), "Error listing USB devices")
		assert.Contains(t, f.out.String(), "No device selected")
	})

	t.Run("prompt error is reported, not fatal", func(t *testing.T) {
		f := newFixture(t)
		f.expectRunningVM()
		f.lister.EXPECT().List(mock.Anything, nilFilter()).Return([]usbdev.Device{rootHub}, nil)
		f.selector.EXPECT().Select(mock.Anything, mock.Anything).Return(nil, errors.New("could not open a new TTY"))

		err := f.dispatcher.Run(ctx, hotplug.OpAttach, vmName)
		require.NoError(t, err)

		assert.Contains(t, f.out.String(), "Error selecting USB device: could not open a new TTY")
		assert.Empty(t, f.virshCalls(t))
	})
}

func TestDispatcher_OperatorFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.expectRunningVM()
	f.lister.EXPECT().List(mock.Anything, nilFilter()).Return([]usbdev.Device{logitech}, nil)
	f.selector.EXPECT().Select(mock.Anything, mock.Anything).Return(&logitech, nil)

	failing := testutil.NewFakeCommand(t, "virsh", 1, "error: Failed to attach device\n")
	f.dispatcher.Operator = hostdev.NewOperator(execcontext.NewRunner(execcontext.New(nil, nil)), failing.Path, f.out, testr.New(t))

	err := f.dispatcher.Run(context.Background(), hotplug.OpAttach, vmName)
	require.NoError(t, err)

	assert.Contains(t, f.out.String(), "Error running virsh: error: Failed to attach device")
}

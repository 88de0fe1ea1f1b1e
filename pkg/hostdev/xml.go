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
	"errors"

	"libvirt.org/go/libvirtxml"
)

var ErrMarshalHostdev = errors.New("failed to marshal hostdev XML")

// Fragment renders the managed hostdev element binding a USB device by
// vendor and product id, as virsh attach-device/detach-device expects it.
// Both ids are used verbatim, "0x" prefix included.
func Fragment(vendorID, productID string) (string, error) {
	hd := &libvirtxml.DomainHostdev{
		Managed: "yes",
		SubsysUSB: &libvirtxml.DomainHostdevSubsysUSB{
			Source: &libvirtxml.DomainHostdevSubsysUSBSource{
				Vendor:  &libvirtxml.DomainHostDevProductVendorID{ID: vendorID},
				Product: &libvirtxml.DomainHostDevProductVendorID{ID: productID},
			},
		},
	}

	out, err := hd.Marshal()
	if err != nil {
		return "", errors.Join(err, ErrMarshalHostdev)
	}
	return out, nil
}

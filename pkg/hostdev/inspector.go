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

	"github.com/go-logr/logr"
	"libvirt.org/go/libvirtxml"
)

var (
	ErrGetDomainXML   = errors.New("failed to get domain XML")
	ErrParseDomainXML = errors.New("failed to parse domain XML")
	ErrMissingSource  = errors.New("cannot find source tag below hostdev")
)

// Inspector reads which USB devices are passed through to a running domain.
type Inspector struct {
	log logr.Logger
}

func NewInspector(log logr.Logger) *Inspector {
	return &Inspector{log: log.WithName("inspector")}
}

// AttachedDevices returns the "vendor:product" ids of the USB hostdevs of
// the live domain, in document order.
//
// A USB hostdev without a <source> is an error. Hostdevs not addressed by
// vendor and product (bus/device addressing) are skipped.
func (i *Inspector) AttachedDevices(_ context.Context, dom Domain) ([]string, error) {
	doc, err := dom.XMLDesc()
	if err != nil {
		return nil, errors.Join(err, fmt.Errorf("vmName=%s", dom.Name()), ErrGetDomainXML)
	}

	ids, _, err := ParseAttached(i.log, doc)
	if err != nil {
		return nil, errors.Join(err, fmt.Errorf("vmName=%s", dom.Name()))
	}

	for _, id := range ids {
		i.log.V(1).Info("attached USB device", "id", id)
	}
	return ids, nil
}

// ParseAttached extracts the vendor:product ids from a domain document.
// It also returns how many USB hostdevs were skipped for lack of a vendor
// or product id; those bound by bus/device address are logged.
func ParseAttached(log logr.Logger, doc string) ([]string, int, error) {
	var dom libvirtxml.Domain
	if err := dom.Unmarshal(doc); err != nil {
		return nil, 0, errors.Join(err, ErrParseDomainXML)
	}
	if dom.Devices == nil {
		return []string{}, 0, nil
	}

	ids := make([]string, 0, len(dom.Devices.Hostdevs))
	skipped := 0
	for idx, hd := range dom.Devices.Hostdevs {
		if hd.SubsysUSB == nil {
			continue
		}
		src := hd.SubsysUSB.Source
		if src == nil {
			return nil, 0, errors.Join(fmt.Errorf("hostdev=%d", idx), ErrMissingSource)
		}
		if src.Vendor == nil || src.Product == nil || src.Vendor.ID == "" || src.Product.ID == "" {
			skipped++
			if addr := src.Address; addr != nil && addr.Bus != nil && addr.Device != nil {
				log.V(1).Info("skipping USB hostdev bound by address",
					"bus", *addr.Bus,
					"device", *addr.Device)
			}
			continue
		}
		ids = append(ids, src.Vendor.ID+":"+src.Product.ID)
	}
	return ids, skipped, nil
}

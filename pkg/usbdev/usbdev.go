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

// Package usbdev enumerates the USB devices plugged into the host.
//
// LsusbLister parses the text output of lsusb. The libusb subpackage asks
// libusb directly. Both produce the same normalized Device records and
// honor the same optional Filter.
package usbdev

import (
	"context"
	"errors"
	"strings"
)

const (
	EnumeratorLsusb  = "lsusb"
	EnumeratorLibusb = "libusb"
)

var ErrUnknownEnumerator = errors.New("unknown USB enumerator")

// Device is a USB device as presented to the operator.
type Device struct {
	// VendorID is the 4-hex-digit vendor id prefixed with "0x", e.g. "0x1d6b".
	VendorID string
	// ProductID is the 4-hex-digit product id prefixed with "0x", e.g. "0x0002".
	ProductID string
	// Description is a free-form human readable name.
	Description string
}

// ID returns the "vendor:product" key of the device, lowercase and without
// the "0x" prefix.
func (d Device) ID() string {
	return NormalizeID(d.VendorID + ":" + d.ProductID)
}

// NormalizeID lowercases a "vendor:product" identifier and strips the "0x"
// prefix from both halves. Identifiers without a colon are only lowercased.
func NormalizeID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	vendor, product, ok := strings.Cut(id, ":")
	if !ok {
		return id
	}
	return strings.TrimPrefix(vendor, "0x") + ":" + strings.TrimPrefix(product, "0x")
}

// Filter is an optional set of "vendor:product" identifiers. A nil Filter
// keeps every device.
type Filter map[string]struct{}

// NewFilter builds a Filter from identifiers in either the "0x1d6b:0x0002"
// or the "1d6b:0002" form.
func NewFilter(ids ...string) Filter {
	f := make(Filter, len(ids))
	for _, id := range ids {
		f[NormalizeID(id)] = struct{}{}
	}
	return f
}

// Allows reports whether d passes the filter.
func (f Filter) Allows(d Device) bool {
	if f == nil {
		return true
	}
	_, ok := f[d.ID()]
	return ok
}

// Apply returns the devices allowed by f, in their original order.
func (f Filter) Apply(devices []Device) []Device {
	if f == nil {
		return devices
	}
	out := make([]Device, 0, len(devices))
	for _, d := range devices {
		if f.Allows(d) {
			out = append(out, d)
		}
	}
	return out
}

// Lister enumerates the USB devices currently connected to the host.
type Lister interface {
	List(ctx context.Context, filter Filter) ([]Device, error)
}

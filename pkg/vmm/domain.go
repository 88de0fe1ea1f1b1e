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

package vmm

import (
	"libvirt.org/go/libvirt"
)

// Domain wraps a libvirt domain handle.
type Domain struct {
	dom  *libvirt.Domain
	name string
}

// Name returns the domain name, falling back to the name it was looked up
// by when libvirt cannot be asked.
func (d *Domain) Name() string {
	if name, err := d.dom.GetName(); err == nil {
		return name
	}
	return d.name
}

// IsActive reports whether the domain is running.
func (d *Domain) IsActive() (bool, error) {
	return d.dom.IsActive()
}

// XMLDesc returns the live domain XML. Flag 0 asks for the running
// configuration rather than the persistent one.
func (d *Domain) XMLDesc() (string, error) {
	return d.dom.GetXMLDesc(0)
}

// Free releases the libvirt handle.
func (d *Domain) Free() error {
	return d.dom.Free()
}

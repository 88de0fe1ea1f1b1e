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

// Package vmm holds the libvirt connection usb-hotplug works through.
package vmm

import (
	"errors"
	"fmt"

	"github.com/alexandremahdhaoui/usb-hotplug/pkg/hostdev"
	"libvirt.org/go/libvirt"
)

// DefaultURI is the system-wide QEMU/KVM management endpoint.
const DefaultURI = "qemu:///system"

var (
	ErrConnectLibvirt        = errors.New("failed to connect to libvirt")
	ErrLibvirtNotInitialized = errors.New("libvirt connection is not initialized")
	ErrVMNotFound            = errors.New("VM not found")
)

// VMM is a libvirt connection.
type VMM struct {
	conn *libvirt.Connect
	uri  string

	// domains looked up through this connection, freed by Close.
	domains []*Domain
}

// Option is a functional option for configuring VMM
type Option func(*VMM)

// WithConnection sets a custom libvirt connection URI
func WithConnection(uri string) Option {
	return func(v *VMM) {
		if uri != "" {
			v.uri = uri
		}
	}
}

// NewVMM connects to libvirt, on qemu:///system unless WithConnection says
// otherwise.
func NewVMM(opts ...Option) (*VMM, error) {
	v := &VMM{
		uri: DefaultURI,
	}

	for _, opt := range opts {
		opt(v)
	}

	conn, err := libvirt.NewConnect(v.uri)
	if err != nil {
		return nil, errors.Join(err, fmt.Errorf("uri=%s", v.uri), ErrConnectLibvirt)
	}

	v.conn = conn
	return v, nil
}

// URI returns the URI the VMM is connected to.
func (v *VMM) URI() string {
	return v.uri
}

// LookupDomain returns the domain called name.
func (v *VMM) LookupDomain(name string) (hostdev.Domain, error) {
	if v.conn == nil {
		return nil, ErrLibvirtNotInitialized
	}

	dom, err := v.conn.LookupDomainByName(name)
	if err != nil {
		return nil, errors.Join(err, fmt.Errorf("vmName=%s", name), ErrVMNotFound)
	}

	d := &Domain{dom: dom, name: name}
	v.domains = append(v.domains, d)
	return d, nil
}

// Close frees every domain handle it returned, then closes the libvirt
// connection.
func (v *VMM) Close() error {
	if v.conn == nil {
		return nil
	}

	var errs []error
	for _, d := range v.domains {
		if err := d.Free(); err != nil {
			errs = append(errs, errors.Join(err, fmt.Errorf("vmName=%s", d.name)))
		}
	}
	v.domains = nil

	if _, err := v.conn.Close(); err != nil {
		errs = append(errs, err)
	}
	v.conn = nil

	return errors.Join(errs...)
}

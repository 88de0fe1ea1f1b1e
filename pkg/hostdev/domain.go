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

// Package hostdev reads and changes the USB host devices passed through to
// a libvirt domain.
package hostdev

// Domain is a handle on a libvirt domain.
type Domain interface {
	Name() string
	IsActive() (bool, error)
	// XMLDesc returns the live domain XML.
	XMLDesc() (string, error)
}

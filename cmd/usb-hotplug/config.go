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

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alexandremahdhaoui/usb-hotplug/pkg/usbdev"
	"github.com/alexandremahdhaoui/usb-hotplug/pkg/vmm"
)

const (
	// ConfigPathEnvKey is the environment variable key for the config file path
	ConfigPathEnvKey = "USB_HOTPLUG_CONFIG_PATH"
)

// Config holds the configuration for usb-hotplug
type Config struct {
	// LibvirtURI is the hypervisor connection URI (e.g., "qemu:///system")
	LibvirtURI string `json:"libvirtURI"`

	// Enumerator selects how connected USB devices are listed: "lsusb" or "libusb"
	Enumerator string `json:"enumerator"`

	// LsusbPath is the lsusb binary
	LsusbPath string `json:"lsusbPath"`

	// VirshPath is the virsh binary
	VirshPath string `json:"virshPath"`

	// PrependCmd is prepended to every external command (e.g., ["sudo", "-n"])
	PrependCmd []string `json:"prependCmd,omitempty"`

	// DevelopmentMode enables development logging
	DevelopmentMode bool `json:"developmentMode"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		LibvirtURI:      vmm.DefaultURI,
		Enumerator:      usbdev.EnumeratorLsusb,
		LsusbPath:       "lsusb",
		VirshPath:       "virsh",
		PrependCmd:      nil,
		DevelopmentMode: false,
	}
}

// LoadConfig loads configuration from a JSON file path or returns defaults with env var overrides
// If configPath is empty, it uses environment variables only
func LoadConfig(configPath string) (*Config, error) {
	config := NewDefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configPath, err)
		}

		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", configPath, err)
		}
	}

	config.applyEnvironmentOverrides()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyEnvironmentOverrides applies environment variable overrides to the config
func (c *Config) applyEnvironmentOverrides() {
	if val := os.Getenv("USB_HOTPLUG_LIBVIRT_URI"); val != "" {
		c.LibvirtURI = val
	}
	if val := os.Getenv("USB_HOTPLUG_ENUMERATOR"); val != "" {
		c.Enumerator = val
	}
	if val := os.Getenv("USB_HOTPLUG_LSUSB_PATH"); val != "" {
		c.LsusbPath = val
	}
	if val := os.Getenv("USB_HOTPLUG_VIRSH_PATH"); val != "" {
		c.VirshPath = val
	}
	if val := os.Getenv("USB_HOTPLUG_PREPEND_CMD"); val != "" {
		c.PrependCmd = strings.Fields(val)
	}
	if val := os.Getenv("USB_HOTPLUG_DEV_MODE"); val != "" {
		c.DevelopmentMode = val == "true" || val == "1" || val == "yes"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.LibvirtURI == "" {
		errs = append(errs, errors.New("libvirtURI cannot be empty"))
	}

	switch c.Enumerator {
	case usbdev.EnumeratorLsusb:
		if c.LsusbPath == "" {
			errs = append(errs, errors.New("lsusbPath cannot be empty"))
		}
	case usbdev.EnumeratorLibusb:
	default:
		errs = append(errs, fmt.Errorf("enumerator must be %q or %q, got %q",
			usbdev.EnumeratorLsusb, usbdev.EnumeratorLibusb, c.Enumerator))
	}

	if c.VirshPath == "" {
		errs = append(errs, errors.New("virshPath cannot be empty"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

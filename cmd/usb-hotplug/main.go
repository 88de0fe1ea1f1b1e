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
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alexandremahdhaoui/usb-hotplug/internal/hotplug"
	"github.com/alexandremahdhaoui/usb-hotplug/internal/util/logging"
	"github.com/alexandremahdhaoui/usb-hotplug/pkg/execcontext"
	"github.com/alexandremahdhaoui/usb-hotplug/pkg/hostdev"
	"github.com/alexandremahdhaoui/usb-hotplug/pkg/selector"
	"github.com/alexandremahdhaoui/usb-hotplug/pkg/usbdev"
	"github.com/alexandremahdhaoui/usb-hotplug/pkg/usbdev/libusb"
	"github.com/alexandremahdhaoui/usb-hotplug/pkg/vmm"
	"github.com/go-logr/logr"
	"github.com/urfave/cli/v2"
)

const (
	Name = "usb-hotplug"

	configFlag = "config"
)

var ErrUsage = errors.New("usage: usb-hotplug <attach|detach|list> <vm-name>")

// operationRunner runs one operation against one VM.
type operationRunner interface {
	Run(ctx context.Context, op, vmName string) error
}

// runnerFactory builds the operationRunner once the configuration is known.
type runnerFactory func(cfg *Config, out io.Writer, log logr.Logger) (operationRunner, error)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := newApp(os.Stdout, os.Stderr, newDispatcher)
	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %s: %v\n", Name, err)
		stop()
		os.Exit(1)
	}
}

// newApp returns the CLI. User messages go to out, logs and help for
// usage errors go to errOut.
func newApp(out, errOut io.Writer, factory runnerFactory) *cli.App {
	run := func(cCtx *cli.Context, op, vmName string) error {
		cfg, err := LoadConfig(cCtx.String(configFlag))
		if err != nil {
			return err
		}

		log := logging.Setup(logging.Options{
			Development: cfg.DevelopmentMode,
			Output:      errOut,
		}).WithName(Name)

		log.V(1).Info("loaded configuration",
			"libvirtURI", cfg.LibvirtURI,
			"enumerator", cfg.Enumerator,
			"virshPath", cfg.VirshPath,
			"prependCmd", cfg.PrependCmd)

		r, err := factory(cfg, out, log)
		if err != nil {
			return err
		}

		return r.Run(cCtx.Context, op, vmName)
	}

	opCommand := func(op, usage string) *cli.Command {
		return &cli.Command{
			Name:      op,
			Usage:     usage,
			ArgsUsage: "<vm-name>",
			Action: func(cCtx *cli.Context) error {
				if cCtx.Args().Len() != 1 {
					_ = cli.ShowCommandHelp(cCtx, op)
					return ErrUsage
				}
				return run(cCtx, op, cCtx.Args().First())
			},
		}
	}

	return &cli.App{
		Name:            Name,
		Usage:           "hot-plug host USB devices into a running libvirt VM",
		UsageText:       "usb-hotplug [--config PATH] <attach|detach|list> <vm-name>",
		Writer:          out,
		ErrWriter:       errOut,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    configFlag,
				Usage:   "Load configuration from `PATH`",
				EnvVars: []string{ConfigPathEnvKey},
			},
		},
		Commands: []*cli.Command{
			opCommand(hotplug.OpAttach, "select a connected USB device and attach it to the VM"),
			opCommand(hotplug.OpDetach, "select a USB device attached to the VM and detach it"),
			opCommand(hotplug.OpList, "list the USB devices attached to the VM"),
		},
		// Any other operation name still goes through the VM checks and is
		// reported by the dispatcher.
		Action: func(cCtx *cli.Context) error {
			if cCtx.Args().Len() != 2 {
				_ = cli.ShowAppHelp(cCtx)
				return ErrUsage
			}
			return run(cCtx, cCtx.Args().Get(0), cCtx.Args().Get(1))
		},
	}
}

// newDispatcher wires the production components.
func newDispatcher(cfg *Config, out io.Writer, log logr.Logger) (operationRunner, error) {
	runner := execcontext.NewRunner(execcontext.New(nil, cfg.PrependCmd))

	lister, err := newLister(cfg, runner, out, log.WithName("lister"))
	if err != nil {
		return nil, err
	}

	return &hotplug.Dispatcher{
		URI:       cfg.LibvirtURI,
		Open:      openHypervisor,
		Lister:    lister,
		Selector:  selector.NewPrompt(log),
		Inspector: hostdev.NewInspector(log.WithName("inspector")),
		Operator:  hostdev.NewOperator(runner, cfg.VirshPath, out, log.WithName("operator")),
		Out:       out,
		Log:       log.WithName("dispatcher"),
	}, nil
}

// newLister returns the usbdev.Lister selected by cfg.Enumerator.
func newLister(cfg *Config, runner execcontext.Runner, out io.Writer, log logr.Logger) (usbdev.Lister, error) {
	switch cfg.Enumerator {
	case usbdev.EnumeratorLsusb:
		return usbdev.NewLsusbLister(runner, cfg.LsusbPath, out, log), nil
	case usbdev.EnumeratorLibusb:
		return libusb.NewLister(out, log), nil
	default:
		return nil, errors.Join(fmt.Errorf("enumerator=%s", cfg.Enumerator), usbdev.ErrUnknownEnumerator)
	}
}

func openHypervisor(uri string) (hotplug.Hypervisor, error) {
	v, err := vmm.NewVMM(vmm.WithConnection(uri))
	if err != nil {
		return nil, err
	}
	return v, nil
}

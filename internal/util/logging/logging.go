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

// Package logging builds the usb-hotplug logger.
// It uses zap underneath, exposes it as a logr.Logger that is handed to
// every component, and bridges log/slog onto the same sink.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures the logger behavior.
type Options struct {
	// Development enables development mode logging (more verbose, human-readable).
	Development bool

	// Verbosity is the highest logr V-level that is printed. Development
	// mode raises it to at least 1.
	Verbosity int

	// Output is where logs go. Defaults to os.Stderr so that stdout is left
	// to the messages meant for the operator.
	Output io.Writer
}

// DefaultOptions returns the default logging options.
func DefaultOptions() Options {
	return Options{
		Development: false,
		Verbosity:   0,
		Output:      os.Stderr,
	}
}

// Setup builds the process logger and installs it as the slog default.
// This must be called once, early in main().
func Setup(opts Options) logr.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	verbosity := opts.Verbosity
	if opts.Development && verbosity < 1 {
		verbosity = 1
	}

	var encoder zapcore.Encoder
	if opts.Development {
		// Use console encoder for development (more readable)
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
	} else {
		// Use JSON encoder for production (structured, machine-readable)
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	// logr V(n) maps to zap level -n.
	core := zapcore.NewCore(encoder, zapcore.AddSync(out), zapcore.Level(-verbosity))

	zapOpts := []zap.Option{}
	if opts.Development {
		zapOpts = append(zapOpts, zap.AddCaller())
	}

	logger := zapr.NewLogger(zap.New(core, zapOpts...))
	slog.SetDefault(slog.New(logr.ToSlogHandler(logger)))

	return logger
}

// SetupDefault sets up logging with default options.
// Convenience function for simple cases.
func SetupDefault() logr.Logger {
	return Setup(DefaultOptions())
}

// SetupDevelopment sets up logging in development mode.
// Uses the console encoder and prints debug output.
func SetupDevelopment() logr.Logger {
	return Setup(Options{
		Development: true,
		Verbosity:   1,
		Output:      os.Stderr,
	})
}

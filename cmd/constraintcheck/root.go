// Copyright 2025 The Rivaas Authors
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
	"log/slog"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"rivaas.dev/constraint"
	"rivaas.dev/constraint/config"
)

var version = "dev"

// app holds the flags and the resolver shared by all commands.
type app struct {
	out    io.Writer
	errOut io.Writer

	configFiles []string
	envPrefix   string
	logLevel    string
	metrics     bool
	diagnostics bool
	output      string

	resolver *constraint.Resolver
	closers  []func(context.Context) error
}

// execute runs the command line and releases everything it set up.
func execute(ctx context.Context, args []string, out, errOut io.Writer) error {
	a := &app{out: out, errOut: errOut}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	return errors.Join(err, a.close(context.WithoutCancel(ctx)))
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "constraintcheck",
		Short:         "Resolve inline route constraints",
		Long:          `Resolve inline route constraints such as "range(1,10)" against the built-in constraint map, optionally extended by configuration files.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringArrayVarP(&a.configFiles, "config", "c", nil,
		"configuration file (.yaml, .json, .toml); repeatable, later files override earlier ones")
	flags.StringVar(&a.envPrefix, "env-prefix", "CONSTRAINT_",
		"prefix of environment variables read as configuration; empty disables")
	flags.StringVar(&a.logLevel, "log-level", "",
		"log level (debug, info, warn, error); overrides the configuration")
	flags.BoolVar(&a.metrics, "metrics", false,
		"write resolution metrics to stderr on exit")
	flags.BoolVar(&a.diagnostics, "diagnostics", false,
		"print diagnostic events to stderr")
	flags.StringVarP(&a.output, "output", "o", "text",
		"output format: text, json, yaml or toml")

	root.AddCommand(a.resolveCommand(), a.matchCommand(), a.listCommand())
	return root
}

// setup loads configuration and builds the resolver.
func (a *app) setup(ctx context.Context) error {
	opts := make([]config.Option, 0, len(a.configFiles)+1)
	for _, f := range a.configFiles {
		opts = append(opts, config.WithFile(f))
	}
	if a.envPrefix != "" {
		opts = append(opts, config.WithEnv(a.envPrefix))
	}

	loader, err := config.New(opts...)
	if err != nil {
		return err
	}
	settings, err := loader.Load(ctx)
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		if err = settings.Log.Level.UnmarshalText([]byte(a.logLevel)); err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
	}
	logger := settings.Logger(a.errOut)

	m := constraint.DefaultMap()
	if err = settings.Apply(m); err != nil {
		return err
	}

	resolverOpts := []constraint.Option{constraint.WithLogger(logger)}

	if a.metrics {
		provider, err := a.meterProvider()
		if err != nil {
			return err
		}
		resolverOpts = append(resolverOpts, constraint.WithMeterProvider(provider))
	}

	if a.diagnostics {
		resolverOpts = append(resolverOpts, constraint.WithDiagnostics(
			constraint.DiagnosticHandlerFunc(func(e constraint.DiagnosticEvent) {
				fmt.Fprintf(a.errOut, "diagnostic: %s: %s %v\n", e.Kind, e.Message, e.Fields)
			}),
		))
	}

	a.resolver, err = constraint.New(m, resolverOpts...)
	if err != nil {
		return err
	}

	logger.Debug("constraint map ready",
		slog.Int("keys", m.Len()),
		slog.Int("aliases", len(settings.Aliases)),
		slog.Bool("frozen", m.Frozen()))
	return nil
}

// meterProvider creates an SDK meter provider that prints its metrics to
// stderr when shut down.
func (a *app) meterProvider() (*sdkmetric.MeterProvider, error) {
	exporter, err := stdoutmetric.New(
		stdoutmetric.WithWriter(a.errOut),
		stdoutmetric.WithPrettyPrint(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout metrics exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
	)
	a.closers = append(a.closers, provider.Shutdown)
	return provider, nil
}

// close runs the registered shutdown functions.
func (a *app) close(ctx context.Context) error {
	var errs error
	for _, c := range a.closers {
		errs = errors.Join(errs, c(ctx))
	}
	return errs
}

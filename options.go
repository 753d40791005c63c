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

package constraint

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithServices sets the provider used for constructor parameters declared
// with ServiceParam. Without it, such parameters fail with
// ErrServiceUnavailable.
//
// Example:
//
//	r := constraint.MustNew(m, constraint.WithServices(constraint.Services{
//	    "clock": realClock{},
//	}))
func WithServices(provider ServiceProvider) Option {
	return func(r *Resolver) {
		r.services = provider
	}
}

// WithLogger sets the structured logger. Resolutions are logged at debug
// level and activation failures at warn level.
//
// Default: a logger that discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
		r.loggerSet = true
	}
}

// WithDiagnostics sets a handler for diagnostic events.
func WithDiagnostics(handler DiagnosticHandler) Option {
	return func(r *Resolver) {
		r.diagnostics = handler
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider used for the
// resolution counter and duration histogram.
//
// Default: the global provider from otel.GetMeterProvider.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(r *Resolver) {
		r.meterProvider = provider
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider used by
// ResolveContext.
//
// Default: the global provider from otel.GetTracerProvider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(r *Resolver) {
		r.tracerProvider = provider
	}
}

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
	"testing"

	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// TestingResolver creates a [Resolver] over [DefaultMap] for unit tests.
// It uses no-op meter and tracer providers so tests never touch the global
// OpenTelemetry state. Options override the defaults.
//
// Example:
//
//	func TestSomething(t *testing.T) {
//	    t.Parallel()
//	    r := constraint.TestingResolver(t)
//	    res, err := r.Resolve("int")
//	    ...
//	}
func TestingResolver(t testing.TB, opts ...Option) *Resolver {
	t.Helper()
	return TestingResolverWithMap(t, DefaultMap(), opts...)
}

// TestingResolverWithMap is like TestingResolver but resolves against m.
func TestingResolverWithMap(t testing.TB, m *Map, opts ...Option) *Resolver {
	t.Helper()

	defaultOpts := []Option{
		WithMeterProvider(metricnoop.NewMeterProvider()),
		WithTracerProvider(tracenoop.NewTracerProvider()),
	}

	r, err := New(m, append(defaultOpts, opts...)...)
	if err != nil {
		t.Fatalf("TestingResolver: failed to create resolver: %v", err)
	}
	return r
}

// TestingValues is shorthand for a single route value.
func TestingValues(key, value string) Values {
	return Values{key: value}
}

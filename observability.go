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
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// instrumentationName is the meter and tracer name.
const instrumentationName = "rivaas.dev/constraint"

// Outcome labels that are not an Outcome value.
const (
	outcomeError   = "error"
	outcomeInvalid = "invalid"
)

// instruments holds the metric instruments of a resolver.
type instruments struct {
	resolutions metric.Int64Counter
	duration    metric.Float64Histogram
}

// newInstruments creates the resolution counter and duration histogram.
func newInstruments(provider metric.MeterProvider) (*instruments, error) {
	meter := provider.Meter(instrumentationName)

	resolutions, err := meter.Int64Counter(
		"constraint_resolutions_total",
		metric.WithDescription("Total number of inline constraint resolutions"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolutions counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"constraint_resolution_duration_seconds",
		metric.WithDescription("Duration of inline constraint resolutions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolution duration histogram: %w", err)
	}

	return &instruments{resolutions: resolutions, duration: duration}, nil
}

// record adds one resolution to the counter and histogram.
func (i *instruments) record(ctx context.Context, key, outcome string, start time.Time) {
	attrs := metric.WithAttributes(
		attribute.String("constraint.key", key),
		attribute.String("constraint.outcome", outcome),
	)
	i.resolutions.Add(ctx, 1, attrs)
	i.duration.Record(ctx, time.Since(start).Seconds(), attrs)
}

// traceAttrs returns trace_id and span_id for the active span, if any.
func traceAttrs(ctx context.Context) []slog.Attr {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return []slog.Attr{
		slog.String("trace_id", sc.TraceID().String()),
		slog.String("span_id", sc.SpanID().String()),
	}
}

// emit sends a diagnostic event if a handler is configured.
func (r *Resolver) emit(kind DiagnosticKind, msg string, fields map[string]any) {
	if r.diagnostics == nil {
		return
	}
	r.diagnostics.OnDiagnostic(DiagnosticEvent{Kind: kind, Message: msg, Fields: fields})
}

// log writes a record with trace correlation attributes appended.
func (r *Resolver) log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	if !r.logger.Enabled(ctx, level) {
		return
	}
	attrs = append(attrs, traceAttrs(ctx)...)
	r.logger.LogAttrs(ctx, level, msg, attrs...)
}

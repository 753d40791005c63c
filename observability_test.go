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
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// counts returns resolution counts keyed by "key/outcome".
func counts(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		if sm.Scope.Name != instrumentationName {
			continue
		}
		for _, m := range sm.Metrics {
			if m.Name != "constraint_resolutions_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "unexpected data type %T", m.Data)
			for _, dp := range sum.DataPoints {
				key, _ := dp.Attributes.Value("constraint.key")
				outcome, _ := dp.Attributes.Value("constraint.outcome")
				out[key.AsString()+"/"+outcome.AsString()] += dp.Value
			}
		}
	}
	return out
}

func TestMetrics_RecordsOutcomes(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	r := TestingResolver(t, WithMeterProvider(mp))

	for _, expr := range []string{"int", "int", "nope", "slugify", "range(a,b)"} {
		_, _ = r.Resolve(expr)
	}
	_, _ = r.Resolve("   ")

	got := counts(t, reader)
	assert.Equal(t, int64(2), got["int/resolved"])
	assert.Equal(t, int64(1), got["nope/not_found"])
	assert.Equal(t, int64(1), got["slugify/wrong_capability"])
	assert.Equal(t, int64(1), got["range/error"])
	assert.Equal(t, int64(1), got["/invalid"])
}

func TestMetrics_DurationHistogram(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	r := TestingResolver(t, WithMeterProvider(mp))
	_, err := r.Resolve("range(1,10)")
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var found bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "constraint_resolution_duration_seconds" {
				continue
			}
			hist, ok := m.Data.(metricdata.Histogram[float64])
			require.True(t, ok)
			require.Len(t, hist.DataPoints, 1)
			assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
			assert.Equal(t, "s", m.Unit)
			found = true
		}
	}
	assert.True(t, found, "duration histogram not exported")
}

func TestTracing_SpanPerResolution(t *testing.T) {
	t.Parallel()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	r := TestingResolver(t, WithTracerProvider(tp))

	_, err := r.ResolveContext(context.Background(), "min(3)")
	require.NoError(t, err)
	_, err = r.ResolveContext(context.Background(), "min(x)")
	require.Error(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 2)

	ok, failed := spans[0], spans[1]
	assert.Equal(t, "constraint.Resolve", ok.Name())
	assert.Equal(t, codes.Ok, ok.Status().Code)
	assert.Contains(t, ok.Attributes(), attribute.String("constraint.expression", "min(3)"))
	assert.Contains(t, ok.Attributes(), attribute.String("constraint.outcome", "resolved"))

	assert.Equal(t, codes.Error, failed.Status().Code)
	assert.Contains(t, failed.Attributes(), attribute.String("constraint.outcome", "error"))
	require.NotEmpty(t, failed.Events(), "error should be recorded on the span")
	assert.Equal(t, "exception", failed.Events()[0].Name)
}

func TestLogging_TraceCorrelation(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	r := TestingResolver(t, WithLogger(logger), WithTracerProvider(tp))
	_, err := r.ResolveContext(context.Background(), "length(2,4)")
	require.NoError(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "constraint resolved", entry["msg"])
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "length", entry["key"])
	assert.Equal(t, "LengthConstraint", entry["type"])
	assert.Equal(t, spans[0].SpanContext().TraceID().String(), entry["trace_id"])
	assert.Equal(t, spans[0].SpanContext().SpanID().String(), entry["span_id"])
}

func TestLogging_ActivationFailureAtWarn(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	r := TestingResolver(t, WithLogger(logger))
	_, _ = r.Resolve("int")
	_, _ = r.Resolve("range(1)")

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "\n"), "only the failure is logged at warn")
	assert.Contains(t, out, "constraint activation failed")
	assert.Contains(t, out, "key=range")
	assert.NotContains(t, out, "trace_id", "no valid span with the no-op tracer")
}

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
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Resolver turns inline constraint expressions into constraint instances
// using a constraint map and an optional service provider.
//
// A Resolver is safe for concurrent use.
type Resolver struct {
	constraints *Map
	services    ServiceProvider
	logger      *slog.Logger
	loggerSet   bool
	diagnostics DiagnosticHandler

	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	instruments    *instruments
	tracer         trace.Tracer
}

// New creates a resolver over constraints.
//
// Returns an error if constraints is nil, WithLogger was given nil, or the
// metric instruments cannot be created.
//
// Example:
//
//	r, err := constraint.New(constraint.DefaultMap(),
//	    constraint.WithLogger(slog.Default()),
//	)
//	if err != nil {
//	    log.Fatalf("Failed to create resolver: %v", err)
//	}
func New(constraints *Map, opts ...Option) (*Resolver, error) {
	r := &Resolver{constraints: constraints}

	for _, opt := range opts {
		opt(r)
	}

	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("resolver configuration validation failed: %w", err)
	}

	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	if r.meterProvider == nil {
		r.meterProvider = otel.GetMeterProvider()
	}
	if r.tracerProvider == nil {
		r.tracerProvider = otel.GetTracerProvider()
	}

	inst, err := newInstruments(r.meterProvider)
	if err != nil {
		return nil, err
	}
	r.instruments = inst
	r.tracer = r.tracerProvider.Tracer(instrumentationName)

	return r, nil
}

// MustNew is like New but panics if the configuration is invalid.
func MustNew(constraints *Map, opts ...Option) *Resolver {
	r, err := New(constraints, opts...)
	if err != nil {
		panic(fmt.Sprintf("constraint.MustNew: %v", err))
	}
	return r
}

// validate checks the resolver configuration.
func (r *Resolver) validate() error {
	if r.constraints == nil {
		return ErrNilMap
	}
	if r.loggerSet && r.logger == nil {
		return ErrNilLogger
	}
	return nil
}

// Map returns the constraint map the resolver reads from.
func (r *Resolver) Map() *Map {
	return r.constraints
}

// Resolve parses expression and builds the registered constraint.
//
// An unknown key yields Outcome NotFound and a registered entry that is not
// a Constraint yields Outcome WrongCapability, both with a nil error.
// An expression without a key fails with ErrInvalidExpression. That covers
// the empty string, whitespace only, and forms like "(x)". Activation
// problems fail with *ActivationError.
//
// Example:
//
//	res, err := r.Resolve("range(1,10)")
//	if err == nil && res.OK() {
//	    res.Policy.Match("id", constraint.Values{"id": "7"}, constraint.IncomingRequest) // true
//	}
func (r *Resolver) Resolve(expression string) (Result, error) {
	return resolveWith[Constraint](context.Background(), r, expression)
}

// ResolveContext is like Resolve and records a trace span under ctx.
func (r *Resolver) ResolveContext(ctx context.Context, expression string) (Result, error) {
	return resolveWith[Constraint](ctx, r, expression)
}

// ResolveTransformer resolves expression to an outbound parameter
// transformer. A constraint key yields Outcome WrongCapability.
func (r *Resolver) ResolveTransformer(expression string) (Resolution[Transformer], error) {
	return resolveWith[Transformer](context.Background(), r, expression)
}

// Constraint resolves expression and folds the NotFound and WrongCapability
// outcomes into ErrNotFound and ErrWrongCapability, for callers that treat
// every unusable expression as a configuration error.
func (r *Resolver) Constraint(expression string) (Constraint, error) {
	res, err := r.Resolve(expression)
	if err != nil {
		return nil, err
	}
	switch res.Outcome {
	case Resolved:
		return res.Policy, nil
	case WrongCapability:
		return nil, fmt.Errorf("%w: %q (%s) is not a route constraint", ErrWrongCapability, res.Key, res.Type)
	default:
		return nil, fmt.Errorf("%w: %q", ErrNotFound, res.Key)
	}
}

// resolveWith runs ResolvePolicy for T with logging, metrics, tracing and
// diagnostics around it.
func resolveWith[T any](ctx context.Context, r *Resolver, expression string) (Resolution[T], error) {
	start := time.Now()

	ctx, span := r.tracer.Start(ctx, "constraint.Resolve",
		trace.WithAttributes(attribute.String("constraint.expression", expression)))
	defer span.End()

	res, err := ResolvePolicy[T](r.constraints, r.services, expression)
	outcome := res.Outcome.String()

	switch {
	case errors.Is(err, ErrInvalidExpression):
		outcome = outcomeInvalid
		r.log(ctx, slog.LevelWarn, "invalid inline constraint", slog.String("expression", expression))
	case err != nil:
		outcome = outcomeError
		r.log(ctx, slog.LevelWarn, "constraint activation failed",
			slog.String("expression", expression),
			slog.String("key", res.Key),
			slog.String("error", err.Error()),
		)
		r.emit(DiagActivationFailed, "constraint could not be activated", map[string]any{
			"expression": expression,
			"key":        res.Key,
			"error":      err.Error(),
		})
	case res.Outcome == NotFound:
		r.log(ctx, slog.LevelDebug, "constraint not found", slog.String("key", res.Key))
		r.emit(DiagNotFound, "no constraint registered under key", map[string]any{"key": res.Key})
	case res.Outcome == WrongCapability:
		r.log(ctx, slog.LevelDebug, "registered entry lacks requested capability",
			slog.String("key", res.Key), slog.String("type", res.Type))
		r.emit(DiagWrongCapability, "registered entry lacks requested capability", map[string]any{
			"key":  res.Key,
			"type": res.Type,
		})
	default:
		r.log(ctx, slog.LevelDebug, "constraint resolved",
			slog.String("key", res.Key),
			slog.String("type", res.Type),
			slog.Any("arguments", res.Arguments),
		)
		if reg, ok := r.constraints.Lookup(res.Key); ok && reg.Alias != "" {
			r.emit(DiagAliasExpanded, "alias expanded", map[string]any{
				"key":    res.Key,
				"target": reg.Alias,
			})
		}
	}

	span.SetAttributes(
		attribute.String("constraint.key", res.Key),
		attribute.String("constraint.outcome", outcome),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	r.instruments.record(ctx, res.Key, outcome, start)

	return res, err
}

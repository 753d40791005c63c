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
	"fmt"
	"strings"
	"time"
)

// ParamKind identifies how a constructor parameter is supplied and which
// type a literal argument is converted to.
type ParamKind uint8

const (
	KindString ParamKind = iota
	KindInt
	KindInt64
	KindFloat64
	KindBool
	KindDuration
	KindTime
	KindService // Supplied by the ServiceProvider, never by a literal
)

// String returns the kind name used in error messages.
func (k ParamKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindInt64:
		return "int64"
	case KindFloat64:
		return "float64"
	case KindBool:
		return "bool"
	case KindDuration:
		return "duration"
	case KindTime:
		return "time"
	case KindService:
		return "service"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Param declares one constructor parameter.
type Param struct {
	Name    string
	Kind    ParamKind
	Service string // Service name, only for KindService
}

// Literal declares a parameter filled from the expression's arguments.
func Literal(name string, kind ParamKind) Param {
	return Param{Name: name, Kind: kind}
}

// ServiceParam declares a parameter filled from the service provider.
func ServiceParam(name, service string) Param {
	return Param{Name: name, Kind: KindService, Service: service}
}

// Args holds converted constructor arguments in parameter order.
// The accessors panic on a kind mismatch, which only happens when a factory
// disagrees with its own parameter list.
type Args []any

// String returns argument i as a string.
func (a Args) String(i int) string { return a[i].(string) }

// Int returns argument i as an int.
func (a Args) Int(i int) int { return a[i].(int) }

// Int64 returns argument i as an int64.
func (a Args) Int64(i int) int64 { return a[i].(int64) }

// Float64 returns argument i as a float64.
func (a Args) Float64(i int) float64 { return a[i].(float64) }

// Bool returns argument i as a bool.
func (a Args) Bool(i int) bool { return a[i].(bool) }

// Duration returns argument i as a time.Duration.
func (a Args) Duration(i int) time.Duration { return a[i].(time.Duration) }

// Time returns argument i as a time.Time.
func (a Args) Time(i int) time.Time { return a[i].(time.Time) }

// Service returns argument i as supplied by the service provider.
func (a Args) Service(i int) any { return a[i] }

// Factory builds a policy instance from converted arguments.
type Factory func(args Args) (any, error)

// Constructor is one way to build a registered policy.
type Constructor struct {
	Params []Param
	New    Factory
}

// Ctor is shorthand for building a Constructor.
func Ctor(fn Factory, params ...Param) Constructor {
	return Constructor{Params: params, New: fn}
}

// literalCount returns the number of parameters that consume literal arguments.
func (c Constructor) literalCount() int {
	n := 0
	for _, p := range c.Params {
		if p.Kind != KindService {
			n++
		}
	}
	return n
}

// Signature renders the parameter list, e.g. "(min int64, max int64)".
func (c Constructor) Signature() string {
	parts := make([]string, 0, len(c.Params))
	for _, p := range c.Params {
		if p.Kind == KindService {
			parts = append(parts, p.Name+" service:"+p.Service)
			continue
		}
		parts = append(parts, p.Name+" "+p.Kind.String())
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Registration describes everything the resolver needs to build a policy.
// Exactly one of Constructors or Alias is used.
type Registration struct {
	Name         string        // Type name for diagnostics, e.g. "RangeConstraint"
	Description  string        // Optional human-readable description
	Constructors []Constructor // Available constructors
	Alias        string        // Expression this key expands to, set by Map.RegisterAlias
}

// Simple returns a registration with a single parameterless constructor.
func Simple(name string, fn func() any) Registration {
	return Registration{
		Name: name,
		Constructors: []Constructor{{
			New: func(Args) (any, error) { return fn(), nil },
		}},
	}
}

// validate checks that the registration can be activated.
func (r Registration) validate() error {
	if r.Alias != "" {
		return nil
	}
	if len(r.Constructors) == 0 {
		return fmt.Errorf("%w: %s has no constructors", ErrInvalidRegistration, r.Name)
	}
	for i, c := range r.Constructors {
		if c.New == nil {
			return fmt.Errorf("%w: %s constructor %d has no factory", ErrInvalidRegistration, r.Name, i)
		}
		for _, p := range c.Params {
			if p.Kind == KindService && p.Service == "" {
				return fmt.Errorf("%w: %s parameter %q has no service name", ErrInvalidRegistration, r.Name, p.Name)
			}
		}
	}
	return nil
}

// takesWholeArgument reports whether the raw argument text must be passed
// unsplit: exactly one constructor taking exactly one literal parameter.
func (r Registration) takesWholeArgument() bool {
	return len(r.Constructors) == 1 && r.Constructors[0].literalCount() == 1
}

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

// Direction indicates why a constraint is being evaluated.
type Direction uint8

const (
	// IncomingRequest means the route values were extracted from a request path.
	IncomingRequest Direction = iota
	// URLGeneration means the route values are being used to build a URL.
	URLGeneration
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case IncomingRequest:
		return "incoming_request"
	case URLGeneration:
		return "url_generation"
	default:
		return "unknown"
	}
}

// Values holds route values keyed by parameter name.
type Values map[string]string

// lookup returns the value for key and whether it is present.
func (v Values) lookup(key string) (string, bool) {
	if v == nil {
		return "", false
	}
	s, ok := v[key]
	return s, ok
}

// Constraint decides whether a route value satisfies a rule.
// Implementations must be safe for concurrent use once constructed.
type Constraint interface {
	// Match reports whether the value stored under key satisfies the constraint.
	Match(key string, values Values, dir Direction) bool
}

// Transformer rewrites a route value when generating outbound URLs.
// It is a parameter policy that is not a constraint.
type Transformer interface {
	TransformOutbound(value string) string
}

// Patterner is implemented by constraints that have an equivalent regular
// expression. Patterns carry no implicit anchors.
type Patterner interface {
	Pattern() string
}

// Func adapts a value predicate to the Constraint interface.
// A missing value never matches.
type Func func(value string) bool

// Match implements Constraint.
func (f Func) Match(key string, values Values, _ Direction) bool {
	v, ok := values.lookup(key)
	if !ok {
		return false
	}
	return f(v)
}

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

// Outcome tells how a resolution ended when no error occurred.
type Outcome uint8

const (
	// NotFound means no entry is registered under the key.
	NotFound Outcome = iota
	// Resolved means the entry was built and provides the requested capability.
	Resolved
	// WrongCapability means the entry was built but does not provide the
	// requested capability.
	WrongCapability
)

// String returns the outcome name used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case NotFound:
		return "not_found"
	case Resolved:
		return "resolved"
	case WrongCapability:
		return "wrong_capability"
	default:
		return "unknown"
	}
}

// Resolution is the result of resolving an expression for policy type T.
type Resolution[T any] struct {
	Outcome   Outcome
	Policy    T        // Set only when Outcome is Resolved
	Instance  any      // Built instance, set for Resolved and WrongCapability
	Key       string   // Key as written in the expression
	Type      string   // Registration name, empty when NotFound
	Arguments []string // Literal arguments passed to the constructor
}

// Result is a resolution for route constraints.
type Result = Resolution[Constraint]

// Found reports whether the key was registered.
func (r Resolution[T]) Found() bool {
	return r.Outcome != NotFound
}

// OK reports whether a policy of type T was produced.
func (r Resolution[T]) OK() bool {
	return r.Outcome == Resolved
}

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

// Package constraint resolves inline route-constraint expressions such as
// "int", "range(1,10)" or "regex(^\d{3}$)" into constraint instances.
//
// An inline constraint is the suffix of a route-template parameter
// ({id:range(1,10)}). The part before the parentheses is the constraint key,
// the text inside them holds the constructor arguments.
//
// # Constraint Map
//
// A [Map] associates case-insensitive keys with a [Registration]. A
// registration declares one or more constructors, each with an explicit
// parameter list and a factory closure, so no reflection is involved:
//
//	m := constraint.DefaultMap()
//	m.MustRegister("tenant", constraint.Registration{
//	    Name: "TenantConstraint",
//	    Constructors: []constraint.Constructor{
//	        constraint.Ctor(newTenant,
//	            constraint.Literal("name", constraint.KindString),
//	            constraint.ServiceParam("store", "tenants")),
//	    },
//	})
//
// # Resolving
//
//	r := constraint.MustNew(m, constraint.WithServices(constraint.Services{
//	    "tenants": store,
//	}))
//
//	res, err := r.Resolve("range(1,10)")
//	if err != nil {
//	    // activation failed: bad literal, missing service, no constructor
//	}
//	switch res.Outcome {
//	case constraint.Resolved:
//	    ok := res.Policy.Match("id", constraint.Values{"id": "5"}, constraint.IncomingRequest)
//	case constraint.NotFound:
//	    // unknown key
//	case constraint.WrongCapability:
//	    // registered, but not a route constraint (e.g. a parameter transformer)
//	}
//
// # Argument Splitting
//
// Arguments are split on commas and trimmed. When a registration has exactly
// one constructor and that constructor takes exactly one literal parameter,
// the whole parenthesized text is passed unsplit. This keeps commas inside
// regular expressions intact:
//
//	regex(^\d{1,3}$)  // one argument: ^\d{1,3}$
//	range(1, 10)      // two arguments: 1 and 10
//
// # Observability
//
// Resolution is logged through log/slog, counted and timed with OpenTelemetry
// metrics, and traced when [Resolver.ResolveContext] is used. A
// [DiagnosticHandler] receives configuration anomalies.
package constraint

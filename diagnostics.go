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

// DiagnosticEvent reports a resolution anomaly that usually points at a
// configuration problem. Resolution behaves the same whether events are
// collected or not.
type DiagnosticEvent struct {
	Kind    DiagnosticKind
	Message string
	Fields  map[string]any // Structured context
}

// DiagnosticKind categorizes diagnostic events.
type DiagnosticKind string

const (
	DiagNotFound         DiagnosticKind = "constraint_not_found"
	DiagWrongCapability  DiagnosticKind = "constraint_wrong_capability"
	DiagActivationFailed DiagnosticKind = "constraint_activation_failed"
	DiagAliasExpanded    DiagnosticKind = "constraint_alias_expanded"
)

// DiagnosticHandler receives diagnostic events from the resolver.
//
// Example with logging:
//
//	handler := constraint.DiagnosticHandlerFunc(func(e constraint.DiagnosticEvent) {
//	    slog.Warn(e.Message, "kind", e.Kind, "fields", e.Fields)
//	})
//	r := constraint.MustNew(m, constraint.WithDiagnostics(handler))
type DiagnosticHandler interface {
	OnDiagnostic(DiagnosticEvent)
}

// DiagnosticHandlerFunc is a function adapter for DiagnosticHandler.
type DiagnosticHandlerFunc func(DiagnosticEvent)

func (f DiagnosticHandlerFunc) OnDiagnostic(e DiagnosticEvent) {
	f(e)
}

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

// ServiceProvider supplies constructor parameters declared with ServiceParam.
// Implementations must be safe for concurrent use.
type ServiceProvider interface {
	// Service returns the service registered under name, or false if absent.
	Service(name string) (any, bool)
}

// ServiceProviderFunc adapts a function to the ServiceProvider interface.
type ServiceProviderFunc func(name string) (any, bool)

// Service implements ServiceProvider.
func (f ServiceProviderFunc) Service(name string) (any, bool) {
	return f(name)
}

// Services is a fixed set of named services.
// A nil value is treated as absent.
type Services map[string]any

// Service implements ServiceProvider.
func (s Services) Service(name string) (any, bool) {
	v, ok := s[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

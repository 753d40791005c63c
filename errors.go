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
	"errors"
	"fmt"
)

var (
	// ErrInvalidExpression indicates that the inline constraint expression is empty
	// or has no key.
	ErrInvalidExpression = errors.New("invalid inline constraint expression")

	// ErrNilMap indicates that a resolver was created without a constraint map.
	ErrNilMap = errors.New("constraint map is nil")

	// ErrNilLogger indicates that a nil logger was passed to WithLogger.
	ErrNilLogger = errors.New("logger is nil")

	// ErrInvalidKey indicates that a constraint key is empty or contains
	// parentheses or commas.
	ErrInvalidKey = errors.New("invalid constraint key")

	// ErrDuplicateKey indicates that a key is already registered.
	ErrDuplicateKey = errors.New("constraint key already registered")

	// ErrInvalidRegistration indicates that a registration has no constructors
	// or a constructor without a factory.
	ErrInvalidRegistration = errors.New("invalid constraint registration")

	// ErrMapFrozen indicates that the map no longer accepts changes.
	ErrMapFrozen = errors.New("constraint map is frozen")

	// ErrNotFound indicates that no constraint is registered under the key.
	ErrNotFound = errors.New("constraint not found")

	// ErrWrongCapability indicates that the registered entry does not provide
	// the requested capability.
	ErrWrongCapability = errors.New("registered entry does not provide the requested capability")

	// ErrNoMatchingConstructor indicates that no constructor accepts the given
	// number of literal arguments.
	ErrNoMatchingConstructor = errors.New("no constructor accepts the given arguments")

	// ErrAmbiguousConstructor indicates that more than one constructor matches
	// equally well.
	ErrAmbiguousConstructor = errors.New("multiple constructors match equally")

	// ErrArgumentConversion indicates that a literal could not be converted to
	// the declared parameter kind.
	ErrArgumentConversion = errors.New("cannot convert argument")

	// ErrServiceUnavailable indicates that a service parameter could not be
	// resolved from the service provider.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrFactoryFailed indicates that a constructor's factory returned an error
	// or panicked.
	ErrFactoryFailed = errors.New("constraint factory failed")

	// ErrAliasDepth indicates that alias expansion exceeded the nesting limit.
	ErrAliasDepth = errors.New("alias nesting too deep")
)

// ActivationError describes a failure to construct a registered constraint.
// It wraps one of the activation sentinels so callers can use [errors.Is].
type ActivationError struct {
	Key   string // Constraint key as written in the expression
	Type  string // Registration name
	Param string // Parameter involved (optional)
	Op    string // "select", "convert", "service", "construct" or "alias"
	Err   error  // Underlying error
}

// Error returns a formatted message with the activation context.
func (e *ActivationError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("constraint %q (%s): %s parameter %q: %v", e.Key, e.Type, e.Op, e.Param, e.Err)
	}
	return fmt.Sprintf("constraint %q (%s): %s: %v", e.Key, e.Type, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *ActivationError) Unwrap() error {
	return e.Err
}

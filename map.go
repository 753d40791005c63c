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
	"slices"
	"strings"
	"sync"
)

// entry keeps the key as registered alongside its registration.
type entry struct {
	key string
	reg Registration
}

// Map is a case-insensitive registry of constraint keys.
// It is populated at startup and read by resolvers; all methods are safe for
// concurrent use. After Freeze the map rejects further changes.
type Map struct {
	entries map[string]entry // Keyed by lower-cased constraint key
	frozen  bool
	mu      sync.RWMutex
}

// NewMap creates an empty constraint map.
func NewMap() *Map {
	return &Map{entries: make(map[string]entry)}
}

// normalizeKey lower-cases a key for case-insensitive lookup.
func normalizeKey(key string) string {
	return strings.ToLower(key)
}

// validateKey rejects keys that could never be parsed back out of an expression.
func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: key is empty", ErrInvalidKey)
	}
	if strings.ContainsAny(key, "(),") {
		return fmt.Errorf("%w: %q contains '(', ')' or ','", ErrInvalidKey, key)
	}
	return nil
}

// Register adds a registration under key.
// Returns an error if the key is invalid or taken, the registration is
// invalid, or the map is frozen.
func (m *Map) Register(key string, reg Registration) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if reg.Name == "" {
		reg.Name = key
	}
	if err := reg.validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.frozen {
		return fmt.Errorf("%w: cannot register %q", ErrMapFrozen, key)
	}

	norm := normalizeKey(key)
	if existing, ok := m.entries[norm]; ok {
		return fmt.Errorf("%w: %q conflicts with %q", ErrDuplicateKey, key, existing.key)
	}

	m.entries[norm] = entry{key: key, reg: reg}
	return nil
}

// MustRegister is like Register but panics on error.
// Use it for registrations made during program initialization.
func (m *Map) MustRegister(key string, reg Registration) {
	if err := m.Register(key, reg); err != nil {
		panic(fmt.Sprintf("constraint.MustRegister: %v", err))
	}
}

// RegisterAlias registers key as shorthand for expression, e.g.
// "zip" for "regex(^\d{5}$)". The target key must already be registered.
// An alias takes no arguments of its own.
func (m *Map) RegisterAlias(key, expression string) error {
	expr, err := ParseExpression(expression)
	if err != nil {
		return err
	}
	if normalizeKey(expr.Key) == normalizeKey(key) {
		return fmt.Errorf("%w: alias %q refers to itself", ErrInvalidRegistration, key)
	}
	if _, ok := m.Lookup(expr.Key); !ok {
		return fmt.Errorf("%w: alias %q targets %q", ErrNotFound, key, expr.Key)
	}

	return m.Register(key, Registration{
		Name:        "alias:" + expression,
		Description: "alias for " + expression,
		Alias:       expression,
	})
}

// Remove deletes key from the map and reports whether it was present.
func (m *Map) Remove(key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.frozen {
		return false, fmt.Errorf("%w: cannot remove %q", ErrMapFrozen, key)
	}

	norm := normalizeKey(key)
	if _, ok := m.entries[norm]; !ok {
		return false, nil
	}
	delete(m.entries, norm)
	return true, nil
}

// Lookup returns the registration for key, ignoring case.
func (m *Map) Lookup(key string) (Registration, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[normalizeKey(key)]
	return e.reg, ok
}

// Keys returns the registered keys, as originally written, sorted.
func (m *Map) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		keys = append(keys, e.key)
	}
	slices.SortFunc(keys, func(a, b string) int {
		return strings.Compare(normalizeKey(a), normalizeKey(b))
	})
	return keys
}

// Len returns the number of registered keys.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Freeze makes the map read-only.
func (m *Map) Freeze() {
	m.mu.Lock()
	m.frozen = true
	m.mu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (m *Map) Frozen() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.frozen
}

// Clone returns an unfrozen copy of the map.
func (m *Map) Clone() *Map {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c := &Map{entries: make(map[string]entry, len(m.entries))}
	for k, e := range m.entries {
		c.entries[k] = e
	}
	return c
}

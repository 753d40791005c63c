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

package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"rivaas.dev/constraint"
)

// Settings adjusts a constraint map and the resolver's logging.
type Settings struct {
	// Aliases maps new keys to the expressions they stand for.
	Aliases map[string]string `config:"aliases" validate:"dive,keys,required,excludesall=()0x2C,endkeys,required"`

	// Disabled lists built-in keys to remove.
	Disabled []string `config:"disabled" validate:"dive,required,excludesall=()0x2C"`

	// Freeze makes the map read-only after the settings are applied.
	Freeze bool `config:"freeze"`

	Log LogSettings `config:"log"`
}

// settingsKeys are the top-level keys of the settings document.
var settingsKeys = []string{"aliases", "disabled", "freeze", "log"}

// LogSettings selects the resolver log level and output format.
type LogSettings struct {
	Level  slog.Level `config:"level"`
	Format string     `config:"format" validate:"omitempty,oneof=text json"`
}

// validate is shared; validator.Validate is safe for concurrent use and
// caches struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the decoded settings.
func (s *Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewError("settings", "validate", err)
	}

	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, NewFieldError("settings", fe.Namespace(), "validate",
			fmt.Errorf("failed on %q (value %v)", fe.Tag(), fe.Value())))
	}
	return errors.Join(errs...)
}

// Apply removes the disabled keys from m, registers the aliases, and
// freezes m if requested. Aliases may refer to one another in any order.
func (s *Settings) Apply(m *constraint.Map) error {
	for _, key := range s.Disabled {
		key = strings.TrimSpace(key)
		removed, err := m.Remove(key)
		if err != nil {
			return NewFieldError("settings", "disabled", "apply", err)
		}
		if !removed {
			return NewFieldError("settings", "disabled", "apply",
				fmt.Errorf("%w: %q", constraint.ErrNotFound, key))
		}
	}

	if err := applyAliases(m, s.Aliases); err != nil {
		return err
	}

	if s.Freeze {
		m.Freeze()
	}
	return nil
}

// applyAliases registers aliases in rounds until no more succeed, so an
// alias may target another alias defined in the same document.
func applyAliases(m *constraint.Map, aliases map[string]string) error {
	pending := make([]string, 0, len(aliases))
	for k := range aliases {
		pending = append(pending, k)
	}
	slices.Sort(pending)

	for len(pending) > 0 {
		var (
			next     []string
			firstErr error
		)
		for _, key := range pending {
			err := m.RegisterAlias(key, aliases[key])
			switch {
			case err == nil:
			case errors.Is(err, constraint.ErrNotFound):
				if firstErr == nil {
					firstErr = err
				}
				next = append(next, key)
			default:
				return NewFieldError("settings", "aliases."+key, "apply", err)
			}
		}
		if len(next) == len(pending) {
			return NewFieldError("settings", "aliases."+next[0], "apply", firstErr)
		}
		pending = next
	}
	return nil
}

// Logger builds a slog logger writing to w at the configured level and
// format. The default format is text.
func (s *Settings) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: s.Log.Level}
	if s.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

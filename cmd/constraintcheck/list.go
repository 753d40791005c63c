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

package main

import (
	"github.com/spf13/cobra"
)

// entry describes one registered key.
type entry struct {
	Key          string   `json:"key" yaml:"key" toml:"key"`
	Type         string   `json:"type" yaml:"type" toml:"type"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Constructors []string `json:"constructors,omitempty" yaml:"constructors,omitempty" toml:"constructors,omitempty"`
	Alias        string   `json:"alias,omitempty" yaml:"alias,omitempty" toml:"alias,omitempty"`
}

func (a *app) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered constraint keys",
		Long: `List the keys of the constraint map after configuration has been applied,
with their constructor signatures.

Examples:
  constraintcheck list
  constraintcheck --config constraints.yaml list -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			m := a.resolver.Map()

			entries := make([]entry, 0, m.Len())
			for _, key := range m.Keys() {
				reg, ok := m.Lookup(key)
				if !ok {
					continue
				}
				e := entry{Key: key, Type: reg.Name, Description: reg.Description, Alias: reg.Alias}
				for _, c := range reg.Constructors {
					e.Constructors = append(e.Constructors, c.Signature())
				}
				entries = append(entries, e)
			}

			if a.structured() {
				return a.encode(map[string]any{"constraints": entries})
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				shape := e.Alias
				if shape == "" && len(e.Constructors) > 0 {
					shape = e.Constructors[0]
					for _, s := range e.Constructors[1:] {
						shape += " | " + s
					}
				}
				rows = append(rows, []string{e.Key, e.Type, shape, e.Description})
			}
			return a.table(rows)
		},
	}
}

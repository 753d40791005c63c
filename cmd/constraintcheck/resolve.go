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
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// resolution is one resolved expression as printed by the resolve command.
type resolution struct {
	Expression string   `json:"expression" yaml:"expression" toml:"expression"`
	Outcome    string   `json:"outcome" yaml:"outcome" toml:"outcome"`
	Type       string   `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Arguments  []string `json:"arguments,omitempty" yaml:"arguments,omitempty" toml:"arguments,omitempty"`
	Error      string   `json:"error,omitempty" yaml:"error,omitempty" toml:"error,omitempty"`
}

func (a *app) resolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve EXPRESSION...",
		Short: "Resolve expressions and report how each one was built",
		Long: `Resolve each expression against the constraint map and print its outcome:
resolved, not_found, wrong_capability, or the activation error.

Examples:
  constraintcheck resolve int 'range(1,10)' 'regex(^[a-z]+$)'
  constraintcheck resolve -o json 'length(2,4)'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]resolution, 0, len(args))
			failed := 0

			for _, expr := range args {
				res, err := a.resolver.ResolveContext(cmd.Context(), expr)
				r := resolution{
					Expression: expr,
					Outcome:    res.Outcome.String(),
					Type:       res.Type,
					Arguments:  res.Arguments,
				}
				if err != nil {
					r.Outcome = "error"
					r.Error = err.Error()
				}
				if !res.OK() || err != nil {
					failed++
				}
				results = append(results, r)
			}

			if err := a.printResolutions(results); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d expression(s) did not resolve to a constraint", failed, len(args))
			}
			return nil
		},
	}
}

func (a *app) printResolutions(results []resolution) error {
	if a.structured() {
		return a.encode(map[string]any{"resolutions": results})
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		detail := r.Type
		if len(r.Arguments) > 0 {
			detail += "(" + strings.Join(r.Arguments, ", ") + ")"
		}
		if r.Error != "" {
			detail = r.Error
		}
		rows = append(rows, []string{r.Expression, r.Outcome, detail})
	}
	return a.table(rows)
}

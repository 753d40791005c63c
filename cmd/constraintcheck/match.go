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

	"github.com/spf13/cobra"

	"rivaas.dev/constraint"
)

// matchResult is one tested value.
type matchResult struct {
	Value string `json:"value" yaml:"value" toml:"value"`
	Match bool   `json:"match" yaml:"match" toml:"match"`
}

func (a *app) matchCommand() *cobra.Command {
	var (
		parameter string
		outbound  bool
	)

	cmd := &cobra.Command{
		Use:   "match EXPRESSION VALUE...",
		Short: "Test route values against a constraint",
		Long: `Resolve EXPRESSION to a constraint and test each VALUE against it.
The command fails if the expression does not resolve to a constraint or if
any value does not match.

Examples:
  constraintcheck match 'range(1,10)' 5 50
  constraintcheck match -p slug --outbound 'regex(^[a-z-]+$)' hello-world`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			c, err := a.resolver.Constraint(args[0])
			if err != nil {
				return err
			}

			dir := constraint.IncomingRequest
			if outbound {
				dir = constraint.URLGeneration
			}

			results := make([]matchResult, 0, len(args)-1)
			rejected := 0
			for _, v := range args[1:] {
				ok := c.Match(parameter, constraint.Values{parameter: v}, dir)
				if !ok {
					rejected++
				}
				results = append(results, matchResult{Value: v, Match: ok})
			}

			if err = a.printMatches(args[0], results); err != nil {
				return err
			}
			if rejected > 0 {
				return fmt.Errorf("%d of %d value(s) rejected by %s", rejected, len(results), args[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&parameter, "parameter", "p", "value", "route parameter name the values are stored under")
	cmd.Flags().BoolVar(&outbound, "outbound", false, "evaluate for URL generation instead of an incoming request")
	return cmd
}

func (a *app) printMatches(expr string, results []matchResult) error {
	if a.structured() {
		return a.encode(map[string]any{"expression": expr, "results": results})
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{r.Value, fmt.Sprint(r.Match)})
	}
	return a.table(rows)
}

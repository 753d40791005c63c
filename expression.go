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
	"strings"
)

// Expression is a parsed inline constraint: key or key(arguments).
type Expression struct {
	Key          string // Text before the first '('
	Arguments    string // Raw text between the first '(' and the trailing ')'
	HasArguments bool   // True when the expression had a parenthesized part
}

// ParseExpression splits an inline constraint into its key and raw arguments.
//
// The key ends at the first '(' only if the expression also ends with ')'.
// Otherwise the whole expression is the key, so "range(1,10" is looked up
// verbatim and simply not found.
//
// An expression that is empty, only whitespace, or has arguments but no key
// ("(x)") fails with ErrInvalidExpression instead of being looked up, since
// no registration can have a blank key.
//
// Example:
//
//	ParseExpression("range(1,10)")  // {Key: "range", Arguments: "1,10", HasArguments: true}
//	ParseExpression("int")          // {Key: "int"}
func ParseExpression(s string) (Expression, error) {
	if strings.TrimSpace(s) == "" {
		return Expression{}, fmt.Errorf("%w: expression is empty", ErrInvalidExpression)
	}

	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return Expression{Key: s}, nil
	}

	if open == 0 {
		return Expression{}, fmt.Errorf("%w: %q has no key", ErrInvalidExpression, s)
	}

	return Expression{
		Key:          s[:open],
		Arguments:    s[open+1 : len(s)-1],
		HasArguments: true,
	}, nil
}

// String reassembles the expression.
func (e Expression) String() string {
	if !e.HasArguments {
		return e.Key
	}
	return e.Key + "(" + e.Arguments + ")"
}

// SplitArguments splits the raw arguments on commas and trims each entry.
// No parentheses or blank parentheses yield no arguments. The split is flat:
// nested parentheses are not treated specially.
func (e Expression) SplitArguments() []string {
	if !e.HasArguments || strings.TrimSpace(e.Arguments) == "" {
		return nil
	}

	parts := strings.Split(e.Arguments, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

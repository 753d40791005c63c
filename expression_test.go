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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpression(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  Expression
	}{
		{"bare key", "int", Expression{Key: "int"}},
		{"empty parens", "int()", Expression{Key: "int", HasArguments: true}},
		{"two args", "range(1,10)", Expression{Key: "range", Arguments: "1,10", HasArguments: true}},
		{"nested parens", "regex(^(a|b)$)", Expression{Key: "regex", Arguments: "^(a|b)$", HasArguments: true}},
		{"unterminated", "range(1,10", Expression{Key: "range(1,10"}},
		{"text after close", "range(1)x", Expression{Key: "range(1)x"}},
		{"whitespace kept", " int ", Expression{Key: " int "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseExpression(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestParseExpression_Invalid(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", " ", "\t\n", "()", "(a)"} {
		_, err := ParseExpression(input)
		assert.ErrorIs(t, err, ErrInvalidExpression, "%q", input)
	}
}

func TestExpression_SplitArguments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  []string
	}{
		{"int", nil},
		{"int()", nil},
		{"int(  )", nil},
		{"min(5)", []string{"5"}},
		{"range(1, 10)", []string{"1", "10"}},
		{"x(a,,b)", []string{"a", "", "b"}},
		{"regex(^(a,b)$)", []string{"^(a", "b)$"}},
	}

	for _, tt := range tests {
		expr, err := ParseExpression(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.want, expr.SplitArguments(), tt.input)
	}
}

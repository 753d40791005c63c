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
	"strings"
	"unicode"
)

// SlugifyTransformer turns "Hello World!" into "hello-world".
type SlugifyTransformer struct{}

// TransformOutbound implements Transformer.
func (SlugifyTransformer) TransformOutbound(value string) string {
	var b strings.Builder
	b.Grow(len(value))

	dash := false
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		dash = true
	}
	return b.String()
}

// LowerTransformer lower-cases route values.
type LowerTransformer struct{}

// TransformOutbound implements Transformer.
func (LowerTransformer) TransformOutbound(value string) string {
	return strings.ToLower(value)
}

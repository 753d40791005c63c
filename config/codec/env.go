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

package codec

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// TypeEnvVar is the environment-variable codec.
const TypeEnvVar Type = "env_var"

func init() {
	RegisterDecoder(TypeEnvVar, EnvVarCodec{MaxDepth: 2})
}

// EnvVarCodec decodes KEY=VALUE lines into a nested map. Keys are
// lower-cased and split on underscores into at most MaxDepth levels, so with
// MaxDepth 2 "ALIASES_ZIP_CODE" becomes aliases -> zip_code. A MaxDepth of
// zero or less splits on every underscore.
type EnvVarCodec struct {
	MaxDepth int
}

// Encode is not supported.
func (EnvVarCodec) Encode(any) ([]byte, error) {
	return nil, errors.New("encoding to environment variables is not supported")
}

// Decode implements Decoder. v must be a *map[string]any.
func (c EnvVarCodec) Decode(data []byte, v any) error {
	ptr, ok := v.(*map[string]any)
	if !ok {
		return fmt.Errorf("EnvVarCodec.Decode: expected *map[string]any, got %T", v)
	}

	conf := make(map[string]any)
	for line := range bytes.SplitSeq(data, []byte("\n")) {
		key, value, found := strings.Cut(string(line), "=")
		if !found {
			continue
		}

		parts := c.splitKey(strings.ToLower(strings.TrimSpace(key)))
		if len(parts) == 0 {
			continue
		}

		current := conf
		for _, part := range parts[:len(parts)-1] {
			next, ok := current[part].(map[string]any)
			if !ok {
				// A scalar set earlier under the same prefix is replaced.
				next = make(map[string]any)
				current[part] = next
			}
			current = next
		}
		current[parts[len(parts)-1]] = strings.TrimSpace(value)
	}

	*ptr = conf
	return nil
}

// splitKey splits key on underscores, dropping empty segments.
func (c EnvVarCodec) splitKey(key string) []string {
	var parts []string
	rest := strings.Trim(key, "_")
	for rest != "" {
		if c.MaxDepth > 0 && len(parts) == c.MaxDepth-1 {
			parts = append(parts, strings.TrimLeft(rest, "_"))
			break
		}
		head, tail, _ := strings.Cut(rest, "_")
		if head != "" {
			parts = append(parts, head)
		}
		rest = tail
	}
	return parts
}

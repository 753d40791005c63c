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

package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	"rivaas.dev/constraint/config/codec"
)

// OSEnvVar loads configuration from environment variables sharing a prefix.
// With prefix "CONSTRAINT_", CONSTRAINT_LOG_LEVEL becomes log.level.
type OSEnvVar struct {
	prefix  string
	keys    map[string]struct{}
	environ func() []string
	decoder codec.Decoder
}

// NewOSEnvVar returns a source reading variables that start with prefix.
// The prefix is stripped before decoding. When keys are given, variables
// whose top-level key is not among them are ignored, so unrelated variables
// sharing the prefix do not leak into the document.
func NewOSEnvVar(prefix string, keys ...string) *OSEnvVar {
	e := &OSEnvVar{
		prefix:  prefix,
		environ: os.Environ,
		decoder: codec.EnvVarCodec{MaxDepth: 2},
	}
	if len(keys) > 0 {
		e.keys = make(map[string]struct{}, len(keys))
		for _, k := range keys {
			e.keys[strings.ToLower(k)] = struct{}{}
		}
	}
	return e
}

// Name describes the source in errors.
func (e *OSEnvVar) Name() string {
	return "env:" + e.prefix
}

// Load decodes the matching variables into a map.
func (e *OSEnvVar) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	env := e.environ()
	matched := make([]string, 0, len(env))
	for _, kv := range env {
		if strings.HasPrefix(kv, e.prefix) {
			matched = append(matched, strings.TrimPrefix(kv, e.prefix))
		}
	}

	var conf map[string]any
	if err := e.decoder.Decode([]byte(strings.Join(matched, "\n")), &conf); err != nil {
		return nil, fmt.Errorf("failed to decode environment variables: %w", err)
	}
	if e.keys != nil {
		for k := range conf {
			if _, ok := e.keys[k]; !ok {
				delete(conf, k)
			}
		}
	}
	return conf, nil
}

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
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"rivaas.dev/constraint/config/codec"
	"rivaas.dev/constraint/config/source"
)

//go:embed schema.json
var settingsSchema []byte

// Option configures a Loader.
type Option func(*Loader) error

// Loader merges configuration sources into Settings.
// A Loader is safe for concurrent use once created.
type Loader struct {
	sources []Source
	schemas []*jsonschema.Schema
}

// WithSource adds a custom source.
func WithSource(src Source) Option {
	return func(l *Loader) error {
		if src == nil {
			return errors.New("source cannot be nil")
		}
		l.sources = append(l.sources, src)
		return nil
	}
}

// WithFile adds a file source, picking the codec from the extension
// (.yaml, .yml, .json, .toml). The path may reference environment variables
// as $VAR or ${VAR}.
//
// Example:
//
//	loader := config.MustNew(config.WithFile("${CONF_DIR}/constraints.yaml"))
func WithFile(path string) Option {
	return func(l *Loader) error {
		path = os.ExpandEnv(path)

		format, err := detectFormat(path)
		if err != nil {
			return NewError("file:"+path, "detect-format", err)
		}
		return WithFileAs(path, format)(l)
	}
}

// WithFileAs adds a file source decoded with the named codec, whatever its
// extension.
func WithFileAs(path string, codecType codec.Type) Option {
	return func(l *Loader) error {
		path = os.ExpandEnv(path)

		decoder, err := codec.GetDecoder(codecType)
		if err != nil {
			return NewError("file:"+path, "get-decoder", err)
		}
		l.sources = append(l.sources, source.NewFile(path, decoder))
		return nil
	}
}

// WithContent adds an in-memory document decoded with the named codec.
func WithContent(data []byte, codecType codec.Type) Option {
	return func(l *Loader) error {
		decoder, err := codec.GetDecoder(codecType)
		if err != nil {
			return NewError("content", "get-decoder", err)
		}
		l.sources = append(l.sources, source.NewFileContent(data, decoder))
		return nil
	}
}

// WithEnv adds the environment variables starting with prefix as a source.
// Only variables naming a settings key are read; CONSTRAINT_HOME is ignored
// while CONSTRAINT_LOG_LEVEL is decoded as log.level.
func WithEnv(prefix string) Option {
	return func(l *Loader) error {
		if prefix == "" {
			return errors.New("environment prefix cannot be empty")
		}
		l.sources = append(l.sources, source.NewOSEnvVar(prefix, settingsKeys...))
		return nil
	}
}

// WithJSONSchema adds a schema the merged document must satisfy on top of
// the built-in one, for deployments that want stricter rules, such as
// requiring certain aliases.
func WithJSONSchema(schema []byte) Option {
	return func(l *Loader) error {
		compiled, err := compileSchema(fmt.Sprintf("extra_%d.json", len(l.schemas)), schema)
		if err != nil {
			return NewError("json-schema", "compile", err)
		}
		l.schemas = append(l.schemas, compiled)
		return nil
	}
}

// New creates a Loader. All option errors are reported together.
func New(options ...Option) (*Loader, error) {
	l := &Loader{}

	var errs error
	for _, opt := range options {
		if opt == nil {
			continue
		}
		if err := opt(l); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	if errs != nil {
		return nil, errs
	}

	builtin, err := compileSchema("settings.json", settingsSchema)
	if err != nil {
		return nil, NewError("json-schema", "compile", err)
	}
	l.schemas = append([]*jsonschema.Schema{builtin}, l.schemas...)

	return l, nil
}

// MustNew is like New but panics on error.
func MustNew(options ...Option) *Loader {
	l, err := New(options...)
	if err != nil {
		panic(fmt.Sprintf("config: failed to create loader: %v", err))
	}
	return l
}

// compileSchema compiles a JSON schema document held in memory.
func compileSchema(name string, schema []byte) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schema))
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	if err = compiler.AddResource(name, doc); err != nil {
		return nil, err
	}
	return compiler.Compile(name)
}

// Load reads every source, merges them, and returns the validated settings.
// A Loader without sources yields zero Settings.
//
// Errors are *Error values naming the failing source or stage.
func (l *Loader) Load(ctx context.Context) (*Settings, error) {
	if ctx == nil {
		return nil, errors.New("context cannot be nil")
	}

	values, err := l.merge(ctx)
	if err != nil {
		return nil, err
	}

	for _, schema := range l.schemas {
		if err = schema.Validate(values); err != nil {
			return nil, NewError("json-schema", "validate", err)
		}
	}

	settings, err := decodeSettings(values)
	if err != nil {
		return nil, NewError("settings", "decode", err)
	}
	if err = settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// MustLoad is like Load but panics on error.
func (l *Loader) MustLoad(ctx context.Context) *Settings {
	s, err := l.Load(ctx)
	if err != nil {
		panic(err)
	}
	return s
}

// merge loads the sources in order, later values overriding earlier ones.
func (l *Loader) merge(ctx context.Context) (map[string]any, error) {
	merged := make(map[string]any)

	for i, src := range l.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := fmt.Sprintf("source[%d]", i)
		if n, ok := src.(namedSource); ok {
			name = n.Name()
		}

		conf, err := src.Load(ctx)
		if err != nil {
			return nil, NewError(name, "load", err)
		}
		if conf == nil {
			continue
		}

		if err = mergo.Map(&merged, normalizeMapKeys(conf), mergo.WithOverride); err != nil {
			return nil, NewError(name, "merge", err)
		}
	}

	return merged, nil
}

// normalizeMapKeys lower-cases keys recursively so sources merge regardless
// of case.
func normalizeMapKeys(m map[string]any) map[string]any {
	normalized := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = normalizeMapKeys(nested)
		}
		normalized[strings.ToLower(k)] = v
	}
	return normalized
}

// decodeSettings decodes the merged document. Strings are weakly converted,
// so "true" fills a bool and "a,b" fills a slice.
func decodeSettings(values map[string]any) (*Settings, error) {
	var s Settings

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		Result: &s,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err = decoder.Decode(values); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return &s, nil
}

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

// Package config loads constraint map settings from YAML, JSON or TOML files
// and environment variables.
//
// Sources are merged in the order given, later ones overriding earlier ones.
// The merged document is checked against an embedded JSON schema, decoded
// into [Settings] and validated before it is returned.
//
// # Document
//
//	aliases:
//	  zip: regex(^\d{5}$)
//	  page: range(1,1000)
//	disabled: [file, nonfile]
//	freeze: true
//	log:
//	  level: debug
//	  format: json
//
// # Environment
//
// With prefix "CONSTRAINT_", the same settings read:
//
//	CONSTRAINT_ALIASES_ZIP=regex(^\d{5}$)
//	CONSTRAINT_DISABLED=file,nonfile
//	CONSTRAINT_LOG_LEVEL=debug
//
// # Usage
//
//	loader := config.MustNew(
//	    config.WithFile("constraints.yaml"),
//	    config.WithEnv("CONSTRAINT_"),
//	)
//	settings, err := loader.Load(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m := constraint.DefaultMap()
//	if err := settings.Apply(m); err != nil {
//	    log.Fatal(err)
//	}
package config

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

// Package source loads raw constraint configuration from files, in-memory
// content and the process environment.
//
// Every source returns a generic map that the config package merges, checks
// against its JSON schema and decodes into settings.
//
//	decoder, _ := codec.GetDecoder(codec.TypeYAML)
//	conf, err := source.NewFile("constraints.yaml", decoder).Load(ctx)
package source

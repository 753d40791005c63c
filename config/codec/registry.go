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
	"fmt"
	"slices"
	"sync"
)

// registry holds the known encoders and decoders.
type registry struct {
	mu       sync.RWMutex
	encoders map[Type]Encoder
	decoders map[Type]Decoder
}

var defaultRegistry = &registry{
	encoders: make(map[Type]Encoder),
	decoders: make(map[Type]Decoder),
}

// RegisterEncoder makes an encoder available under name, replacing any
// previous one.
func RegisterEncoder(name Type, encoder Encoder) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.encoders[name] = encoder
}

// RegisterDecoder makes a decoder available under name, replacing any
// previous one.
func RegisterDecoder(name Type, decoder Decoder) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.decoders[name] = decoder
}

// GetEncoder returns the encoder registered under name.
func GetEncoder(name Type) (Encoder, error) {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()

	encoder, ok := defaultRegistry.encoders[name]
	if !ok {
		return nil, fmt.Errorf("encoder not found for type: %s", name)
	}
	return encoder, nil
}

// GetDecoder returns the decoder registered under name.
func GetDecoder(name Type) (Decoder, error) {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()

	decoder, ok := defaultRegistry.decoders[name]
	if !ok {
		return nil, fmt.Errorf("decoder not found for type: %s", name)
	}
	return decoder, nil
}

// EncoderTypes lists the registered encoder names, sorted.
func EncoderTypes() []Type {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()

	types := make([]Type, 0, len(defaultRegistry.encoders))
	for t := range defaultRegistry.encoders {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

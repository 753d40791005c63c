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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_BuiltIns(t *testing.T) {
	t.Parallel()

	for _, typ := range []Type{TypeYAML, TypeJSON, TypeTOML, TypeEnvVar} {
		_, err := GetDecoder(typ)
		assert.NoError(t, err, typ)
	}

	assert.Equal(t, []Type{TypeJSON, TypeTOML, TypeYAML}, EncoderTypes())

	_, err := GetDecoder("xml")
	assert.ErrorContains(t, err, "decoder not found for type: xml")
	_, err = GetEncoder(TypeEnvVar)
	assert.ErrorContains(t, err, "encoder not found")
}

func TestCodecs_RoundTrip(t *testing.T) {
	t.Parallel()

	doc := map[string]any{
		"aliases":  map[string]any{"zip": `regex(^\d{5}$)`},
		"disabled": []any{"file"},
	}

	for _, typ := range []Type{TypeYAML, TypeJSON, TypeTOML} {
		t.Run(string(typ), func(t *testing.T) {
			t.Parallel()

			enc, err := GetEncoder(typ)
			require.NoError(t, err)
			dec, err := GetDecoder(typ)
			require.NoError(t, err)

			data, err := enc.Encode(doc)
			require.NoError(t, err)

			var out map[string]any
			require.NoError(t, dec.Decode(data, &out))

			aliases, ok := out["aliases"].(map[string]any)
			require.True(t, ok, "aliases decoded as %T", out["aliases"])
			assert.Equal(t, `regex(^\d{5}$)`, aliases["zip"])
			assert.Equal(t, []any{"file"}, out["disabled"])
		})
	}
}

func TestEnvVarCodec_Decode(t *testing.T) {
	t.Parallel()

	data := []byte(`ALIASES_ZIP_CODE=regex(^\d{5}$)
DISABLED = file,nonfile
LOG_LEVEL=debug
LOG__FORMAT=json
NOEQUALS
=empty
_=x
`)

	var out map[string]any
	require.NoError(t, EnvVarCodec{MaxDepth: 2}.Decode(data, &out))

	assert.Equal(t, map[string]any{
		"aliases":  map[string]any{"zip_code": `regex(^\d{5}$)`},
		"disabled": "file,nonfile",
		"log":      map[string]any{"level": "debug", "format": "json"},
	}, out)
}

func TestEnvVarCodec_Unlimited(t *testing.T) {
	t.Parallel()

	var out map[string]any
	require.NoError(t, EnvVarCodec{}.Decode([]byte("A=1\nA_B_C=2"), &out))
	assert.Equal(t, map[string]any{"a": map[string]any{"b": map[string]any{"c": "2"}}}, out)
}

func TestEnvVarCodec_Errors(t *testing.T) {
	t.Parallel()

	var wrong map[string]string
	assert.Error(t, EnvVarCodec{}.Decode([]byte("A=1"), &wrong))

	_, err := EnvVarCodec{}.Encode(map[string]any{})
	assert.Error(t, err)
}

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

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"rivaas.dev/constraint/config/codec"
)

// structured reports whether the output flag asks for an encoded document.
func (a *app) structured() bool {
	return a.output != "" && a.output != "text"
}

// encode writes doc to stdout in the selected codec.
func (a *app) encode(doc any) error {
	enc, err := codec.GetEncoder(codec.Type(a.output))
	if err != nil {
		return fmt.Errorf("unsupported --output %q (want text or one of %v)", a.output, codec.EncoderTypes())
	}
	data, err := enc.Encode(doc)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	if _, err = a.out.Write(data); err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, err = fmt.Fprintln(a.out)
	}
	return err
}

// table writes tab-separated rows as aligned columns.
func (a *app) table(rows [][]string) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

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
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrent_Resolve resolves from many goroutines while another
// goroutine registers new keys.
func TestConcurrent_Resolve(t *testing.T) {
	t.Parallel()

	const (
		workers    = 16
		iterations = 200
	)

	m := DefaultMap()
	r := TestingResolverWithMap(t, m)

	var (
		wg       sync.WaitGroup
		failures atomic.Int64
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range iterations {
			_ = m.Register(fmt.Sprintf("dyn%d", i), Simple("Dyn", func() any { return RequiredConstraint{} }))
		}
	}()

	for w := range workers {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := range iterations {
				expr := fmt.Sprintf("range(%d,%d)", w, w+i)
				res, err := r.Resolve(expr)
				if err != nil || !res.OK() {
					failures.Add(1)
					continue
				}
				if !res.Policy.Match("id", TestingValues("id", fmt.Sprint(w)), IncomingRequest) {
					failures.Add(1)
				}
			}
		}(w)
	}

	wg.Wait()
	assert.Zero(t, failures.Load())
	assert.Equal(t, len(defaultRegistrations())+iterations, m.Len())
}

// TestConcurrent_SharedConstraint evaluates one built constraint from many
// goroutines.
func TestConcurrent_SharedConstraint(t *testing.T) {
	t.Parallel()

	c, err := TestingResolver(t).Constraint(`regex(^[a-z]+\d$)`)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]bool, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Match("slug", TestingValues("slug", fmt.Sprintf("item%d", i%10)), URLGeneration)
		}(i)
	}
	wg.Wait()

	for i, ok := range results {
		assert.True(t, ok, "goroutine %d", i)
	}
}

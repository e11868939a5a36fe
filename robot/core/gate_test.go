// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandGateMutualExclusion(t *testing.T) {
	g := NewCommandGate()

	inside := 0
	maxInside := 0
	var track sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Acquire()
			defer g.Release()

			track.Lock()
			inside++
			if inside > maxInside {
				maxInside = inside
			}
			track.Unlock()

			track.Lock()
			inside--
			track.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInside, "two holders were inside the gate at once")
}

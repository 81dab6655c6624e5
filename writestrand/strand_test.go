// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package writestrand_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/chaindb/fault"
	"github.com/bitmark-inc/chaindb/writestrand"
)

func TestConcurrentTasksEachRunOnce(t *testing.T) {
	strand := writestrand.Start()
	defer strand.Stop()

	var order []int
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = strand.Run(func() error {
				order = append(order, i)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Len(t, order, 5)
	seen := map[int]bool{}
	for _, v := range order {
		seen[v] = true
	}
	assert.Len(t, seen, 5, "every task must have run exactly once")
}

func TestRunAfterStopReturnsServiceStopped(t *testing.T) {
	strand := writestrand.Start()
	strand.Stop()

	err := strand.Run(func() error { return nil })
	assert.True(t, fault.IsErrServiceStopped(err))
}

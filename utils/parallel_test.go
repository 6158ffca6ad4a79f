package utils

import (
	"sync"
	"testing"

	"go.viam.com/test"
)

func TestParallelFor(t *testing.T) {
	origFactor := ParallelFactor
	defer func() {
		ParallelFactor = origFactor
	}()

	for _, factor := range []int{1, 2, 3, 8} {
		for _, size := range []int{0, 1, 2, 7, 100} {
			ParallelFactor = factor
			seen := make([]int, size)
			var mu sync.Mutex
			var ranges int
			ParallelFor(size, func(from, to int) {
				mu.Lock()
				ranges++
				mu.Unlock()
				for i := from; i < to; i++ {
					seen[i]++
				}
			})
			for _, count := range seen {
				test.That(t, count, test.ShouldEqual, 1)
			}
			if size == 0 {
				test.That(t, ranges, test.ShouldEqual, 0)
			} else {
				test.That(t, ranges, test.ShouldBeLessThanOrEqualTo, factor)
				test.That(t, ranges, test.ShouldBeLessThanOrEqualTo, size)
			}
		}
	}
}

func TestParallelForPropagatesPanic(t *testing.T) {
	origFactor := ParallelFactor
	defer func() {
		ParallelFactor = origFactor
	}()

	for _, factor := range []int{1, 4} {
		ParallelFactor = factor
		var finished int
		var mu sync.Mutex
		test.That(t, func() {
			ParallelFor(8, func(from, to int) {
				if from == 0 {
					panic("bad range")
				}
				mu.Lock()
				finished += to - from
				mu.Unlock()
			})
		}, test.ShouldPanicWith, "bad range")
		if factor > 1 {
			// the other ranges still ran to completion
			test.That(t, finished, test.ShouldEqual, 6)
		}
	}
}

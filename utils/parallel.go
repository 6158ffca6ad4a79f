package utils

import (
	"runtime"
	"sync"

	"go.viam.com/utils"
)

// ParallelFactor controls the max level of parallelization. This might be useful
// to set in tests where too much parallelism actually slows tests down in
// aggregate.
var ParallelFactor = runtime.GOMAXPROCS(0)

func init() {
	if ParallelFactor <= 0 {
		ParallelFactor = 1
	}
}

// ParallelFor splits [0, totalSize) into at most ParallelFactor contiguous
// ranges and calls work once per range on its own goroutine. It returns after
// every range is done. Ranges never overlap, so work may write to disjoint
// outputs without locking. If any call to work panics, ParallelFor panics
// with the first recovered value once all ranges have finished.
func ParallelFor(totalSize int, work func(from, to int)) {
	if totalSize <= 0 {
		return
	}
	numGroups := ParallelFactor
	if numGroups > totalSize {
		numGroups = totalSize
	}
	if numGroups <= 1 {
		work(0, totalSize)
		return
	}

	groupSize := totalSize / numGroups
	extra := totalSize % numGroups

	var (
		wait     sync.WaitGroup
		panicMu  sync.Mutex
		panicked bool
		panicVal interface{}
	)
	wait.Add(numGroups)
	from := 0
	for groupNum := 0; groupNum < numGroups; groupNum++ {
		to := from + groupSize
		// the first groups absorb the remainder one item each
		if groupNum < extra {
			to++
		}
		groupFrom, groupTo := from, to
		utils.PanicCapturingGo(func() {
			defer wait.Done()
			defer func() {
				if r := recover(); r != nil {
					panicMu.Lock()
					if !panicked {
						panicked, panicVal = true, r
					}
					panicMu.Unlock()
				}
			}()
			work(groupFrom, groupTo)
		})
		from = to
	}
	wait.Wait()
	if panicked {
		panic(panicVal)
	}
}

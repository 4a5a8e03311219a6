package concurrency

import (
	"context"
	"sync"
	"sync/atomic"
)

// ForEach runs fn for every index in [0, n) across at most workers goroutines
// and blocks until all of them return. Remaining indices are skipped once ctx
// is done.
func ForEach(ctx context.Context, workers, n int, fn func(ctx context.Context, i int)) {
	if n <= 0 {
		return
	}
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	var next int64 = -1
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&next, 1))
				if i >= n || ctx.Err() != nil {
					return
				}
				fn(ctx, i)
			}
		}()
	}
	wg.Wait()
}

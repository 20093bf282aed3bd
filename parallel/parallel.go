/*package parallel provides the data-parallel iteration primitive the level
set meshes fan work out over: a sweep across independent indices with a
barrier at the end.*/
package parallel

import (
	"runtime"
	"sync"
)

// NumCores is the number of workers used by ForParallel. It defaults to the
// number of logical cores.
var NumCores = runtime.NumCPU()

// For calls work(i) for every i in [0, n), in order.
func For(n int, work func(i int)) {
	for i := 0; i < n; i++ {
		work(i)
	}
}

// ForParallel calls work(i) for every i in [0, n), spread across up to
// NumCores goroutines, and returns once every call has completed. Calls must
// be independent of one another: the iteration order is unspecified.
func ForParallel(n int, work func(i int)) {
	workers := NumCores
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		For(n, work)
		return
	}

	wg := &sync.WaitGroup{}
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := w; i < n; i += workers {
				work(i)
			}
		}(w)
	}
	wg.Wait()
}

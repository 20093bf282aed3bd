package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForCoversEveryIndexOnce(t *testing.T) {
	n := 1000
	counts := make([]int, n)
	For(n, func(i int) { counts[i]++ })
	for i := range counts {
		assert.Equal(t, 1, counts[i])
	}
}

func TestForParallelCoversEveryIndexOnce(t *testing.T) {
	n := 10000
	counts := make([]int32, n)
	ForParallel(n, func(i int) { atomic.AddInt32(&counts[i], 1) })
	for i := range counts {
		assert.Equal(t, int32(1), counts[i])
	}
}

func TestForParallelBarrier(t *testing.T) {
	// Every write must be visible after ForParallel returns.
	n := 5000
	vals := make([]int, n)
	ForParallel(n, func(i int) { vals[i] = i * i })
	for i := range vals {
		assert.Equal(t, i*i, vals[i])
	}
}

func TestForParallelSmallN(t *testing.T) {
	ran := false
	ForParallel(1, func(i int) { ran = true })
	assert.True(t, ran)

	ForParallel(0, func(i int) { t.Fatal("work called for n = 0") })
}

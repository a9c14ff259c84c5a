package pool

import (
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParallelizeResultsInOrder(t *testing.T) {
	pl := NewPool(4)
	defer pl.TearDown()

	results := pl.Parallelize(100, func(i int) interface{} { return i * i })
	for i, r := range results {
		assert.Equal(t, i*i, r)
	}
}

func TestParallelizeNilPool(t *testing.T) {
	var pl *Pool
	results := pl.Parallelize(10, func(i int) interface{} { return i })
	for i, r := range results {
		assert.Equal(t, i, r)
	}
}

func TestParallelizeRunsEverything(t *testing.T) {
	pl := NewPool(3)
	defer pl.TearDown()

	var calls int64
	pl.Parallelize(50, func(i int) interface{} {
		atomic.AddInt64(&calls, 1)
		return nil
	})
	assert.Equal(t, int64(50), calls)
}

func TestLockedReader(t *testing.T) {
	r := NewLockedReader(strings.NewReader("hello"))
	buf := make([]byte, 5)
	n, err := r.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", string(buf))
}

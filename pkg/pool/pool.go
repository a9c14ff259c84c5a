// Package pool provides the explicit worker pool every batch operation of
// the ceremony core runs on. The core has no hidden process-wide executor:
// callers create a Pool, pass it down, and tear it down when done. A nil
// *Pool runs everything on the calling goroutine, which gives tests a
// deterministic single-worker executor for free.
package pool

import (
	"io"
	"runtime"
	"sync"
	"sync/atomic"
)

// parallelizeAlone calculates the result of f count times, in index order.
func parallelizeAlone(f func(int) interface{}, count int) []interface{} {
	results := make([]interface{}, count)
	for i := 0; i < len(results); i++ {
		results[i] = f(i)
	}
	return results
}

// command tells a latent worker to evaluate f at index i and store the
// result at the same index. Writing only to its own index is what lets
// batch items be mutated concurrently without synchronization.
type command struct {
	// ctr holds the number of results that still need to be produced.
	ctr *int64
	i   int
	f   func(int) interface{}
	// results is the array where the worker puts its result.
	results []interface{}
}

// worker starts up a new worker, listening to commands, and producing results.
func worker(commands <-chan command, ctrChanged chan<- struct{}) {
	for c := range commands {
		c.results[c.i] = c.f(c.i)
		atomic.AddInt64(c.ctr, -1)
		ctrChanged <- struct{}{}
	}
}

// Pool represents a pool of workers, used for parallelizing batch
// operations.
//
// Functions needing a *Pool work with a nil receiver, doing the equivalent
// work on the current goroutine instead.
//
// By creating a pool, you avoid the overhead of spinning up goroutines for
// each new operation.
type Pool struct {
	// The common channel used to send commands to the workers.
	//
	// This effectively makes a work stealing pool.
	commands chan command
	// The channel used to signal a finished task.
	ctrChanged chan struct{}
	// This holds the number of workers we've created.
	workerCount int
}

// NewPool creates a new pool, with a certain number of workers.
//
// If count <= 0, this will use the number of available CPUs instead.
func NewPool(count int) *Pool {
	var p Pool

	if count <= 0 {
		count = runtime.NumCPU()
	}

	p.commands = make(chan command)
	p.workerCount = count
	p.ctrChanged = make(chan struct{})

	for i := 0; i < count; i++ {
		go worker(p.commands, p.ctrChanged)
	}

	return &p
}

// TearDown cleanly tears down a pool, closing channels, etc.
func (p *Pool) TearDown() {
	close(p.commands)
}

// Parallelize calls a function count times, passing in indices from
// 0..count-1.
//
// The result will be a slice containing [f(0), f(1), ..., f(count - 1)].
// Every call completes before Parallelize returns; there is no guarantee
// on the order in which the calls themselves complete.
func (p *Pool) Parallelize(count int, f func(int) interface{}) []interface{} {
	if p == nil {
		return parallelizeAlone(f, count)
	}

	results := make([]interface{}, count)

	ctr := int64(count)
	cmdI := 0
	for cmdI < count {
		cmd := command{
			i:       cmdI,
			ctr:     &ctr,
			f:       f,
			results: results,
		}
		// We won't be able to send all the commands without blocking, so we
		// make sure to interleave picking off the results of workers to free
		// them up to receive our commands.
		select {
		case p.commands <- cmd:
			cmdI++
		case <-p.ctrChanged:
		}
	}
	for atomic.LoadInt64(&ctr) > 0 {
		<-p.ctrChanged
	}

	return results
}

// LockedReader wraps an io.Reader to be safe for concurrent reads.
//
// This type implements io.Reader, returning the same output.
//
// This means acquiring a lock whenever a read happens, so be aware of that
// for performance or concurrency reasons.
type LockedReader struct {
	reader io.Reader
	m      sync.Mutex
}

// NewLockedReader creates a LockedReader by wrapping an underlying value.
func NewLockedReader(r io.Reader) *LockedReader {
	// Intentionally not initializing m, since the zero value is ok
	return &LockedReader{reader: r}
}

// Read implements io.Reader for LockedReader.
//
// The behavior is to return the same output as the underlying reader. The
// difference is that it's safe to call this function concurrently.
//
// Naturally, when calling this function concurrently, what value ends up
// getting read is raced, but you won't end up reading the same value twice,
// or otherwise messing up the state of the reader.
func (r *LockedReader) Read(p []byte) (int, error) {
	r.m.Lock()
	defer r.m.Unlock()
	return r.reader.Read(p)
}

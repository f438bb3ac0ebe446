package sim

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum particle count to use parallel
// processing. Below this, single-threaded is faster due to chunk
// dispatch overhead.
const parallelThreshold = 64

// workChunk represents a range of particles for a worker to process.
// worker is the chunk ordinal, unique among in-flight chunks, so it
// doubles as a scratch-slot index.
type workChunk struct {
	start, end int
	worker     int
}

// workerPool runs data-parallel passes over index ranges on a fixed
// set of persistent workers. The tick phases never overlap, so the
// phase function is handed over through a plain field; the channel
// send that dispatches a chunk orders the write before any worker
// reads it.
type workerPool struct {
	numWorkers int
	fn         func(start, end, worker int)

	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool
}

// newWorkerPool sizes a pool; workers <= 0 uses GOMAXPROCS.
func newWorkerPool(workers int) *workerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &workerPool{numWorkers: workers}
}

// startWorkers launches persistent worker goroutines.
func (p *workerPool) startWorkers() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *workerPool) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *workerPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			p.fn(chunk.start, chunk.end, chunk.worker)
			p.doneChan <- struct{}{}
		}
	}
}

// forEach applies fn to [0, n) split into one chunk per worker and
// blocks until every chunk has completed; that wait is the phase
// barrier the tick pipeline relies on. fn receives disjoint ranges,
// and the worker argument stays below numWorkers.
func (p *workerPool) forEach(n int, fn func(start, end, worker int)) {
	if n <= 0 {
		return
	}
	if n < parallelThreshold {
		fn(0, n, 0)
		return
	}

	if !p.running {
		p.startWorkers()
	}
	p.fn = fn

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers
	dispatched := 0
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		p.workChan <- workChunk{start: start, end: end, worker: dispatched}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}

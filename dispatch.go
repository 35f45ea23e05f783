package conc

// DispatchQueue serializes calls onto a single dedicated worker Thread,
// the generic Go shape of original_source/oodle/dispatch_queues.py's
// DispatchQueue. Work items are themselves generic (via the package-level
// Dispatch/DispatchFuture/SafeDispatch functions) since Go methods cannot
// carry their own type parameters.
type DispatchQueue struct {
	cfg    *dispatchConfig
	worker *Thread
	jobs   *fifo[dispatchJob]
}

type dispatchJob struct {
	run func()
}

// NewDispatchQueue constructs a DispatchQueue and starts its worker.
func NewDispatchQueue(opts ...DispatchOption) *DispatchQueue {
	q := &DispatchQueue{
		cfg:  resolveDispatchConfig(opts),
		jobs: newFifo[dispatchJob](),
	}
	q.worker = Run(q.loop)
	return q
}

func (q *DispatchQueue) loop() {
	self := globalRegistry.current()
	for {
		job, ok := q.jobs.pop(self.stopChan())
		if !ok {
			return
		}
		job.run()
	}
}

// Stop closes the job queue and cancels the worker. A job already
// buffered may still run if the worker reaches it before observing
// cancellation; any job submitted after Stop fails fast with
// ErrQueueStopped instead of being enqueued.
func (q *DispatchQueue) Stop() {
	q.jobs.close()
	q.worker.Stop(0)
	if q.cfg.logger != nil {
		q.cfg.logger.debug("dispatch queue stopped", F("worker_id", q.worker.ID()))
	}
}

// onOwnWorker reports whether the calling goroutine is this queue's own
// worker, the condition that would deadlock a blocking Dispatch.
func (q *DispatchQueue) onOwnWorker() bool {
	return globalRegistry.current() == q.worker
}

// Dispatch enqueues fn and blocks until it has run on q's worker,
// returning its result. Calling Dispatch from q's own worker fails fast
// with ErrIllegalDispatch instead of deadlocking.
func Dispatch[R any](q *DispatchQueue, fn func() (R, error)) (R, error) {
	var zero R
	if q.onOwnWorker() {
		return zero, ErrIllegalDispatch
	}
	fut := DispatchFuture(q, fn)
	return fut.Wait()
}

// DispatchFuture enqueues fn and returns immediately with a handle to its
// eventual result, without blocking the caller. Safe to call from any
// goroutine, including q's own worker.
func DispatchFuture[R any](q *DispatchQueue, fn func() (R, error)) *Future[R] {
	fut := newFuture[R]()
	ok := q.jobs.push(dispatchJob{run: func() {
		r, err := runGuarded(fn)
		fut.resolve(r, err)
	}})
	if !ok {
		var zero R
		fut.resolve(zero, ErrQueueStopped)
	}
	return fut
}

// SafeDispatch runs fn inline if called from q's own worker (the only
// mechanism that avoids self-deadlock on a reentrant call into a
// DispatchQueue), otherwise it behaves exactly like Dispatch.
func SafeDispatch[R any](q *DispatchQueue, fn func() (R, error)) (R, error) {
	if q.onOwnWorker() {
		return fn()
	}
	fut := DispatchFuture(q, fn)
	return fut.Wait()
}

// runGuarded invokes fn, converting a panic that escapes it into an error
// result instead of crashing the dispatch worker, mirroring the teacher's
// job-execution try/except in original_source/oodle/dispatch_queues.py.
func runGuarded[R any](fn func() (R, error)) (r R, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if _, ok := rec.(exitThread); ok {
				panic(rec)
			}
			converted, _ := panicValueToError(rec)
			err = converted
		}
	}()
	return fn()
}

// Future is the handle returned by DispatchFuture: a single-assignment
// result cell, the Go analogue of concurrent.futures.Future as used by
// original_source/oodle/dispatch_queues.py.
type Future[R any] struct {
	done chan struct{}
	val  R
	err  error
}

func newFuture[R any]() *Future[R] {
	return &Future[R]{done: make(chan struct{})}
}

func (f *Future[R]) resolve(v R, err error) {
	f.val, f.err = v, err
	close(f.done)
}

// Wait blocks until the job has run, returning its result. A safe point:
// called from inside a managed worker, a concurrent Stop on that worker
// unblocks it via an exitThread panic.
func (f *Future[R]) Wait() (R, error) {
	t := globalRegistry.current()
	if t == nil {
		<-f.done
		return f.val, f.err
	}
	t.checkCancellation()
	select {
	case <-f.done:
		return f.val, f.err
	case <-t.stopChan():
		panic(exitThread{})
	}
}

// Done reports whether the job has completed without blocking.
func (f *Future[R]) Done() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

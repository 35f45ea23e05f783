package conc

import (
	"sync"
	"sync/atomic"
	"time"
)

var threadSeq atomic.Uint64

// Thread is a handle to a single managed worker goroutine: an OS-level
// thread in the sense the corpus uses the word, wrapped with a one-shot
// stop/done flag pair, a reentrant shield lock, and a registry entry so
// Shield, Sleep, and the Lock wrapper can find it without an explicit
// parameter. Grounded on original_source/oodle/threads.py's
// InterruptibleThread/Thread split: InterruptibleThread is folded into the
// unexported fields below instead of a second type, since Go has no
// equivalent to subclassing threading.Thread.
type Thread struct {
	id     uint64
	life   *lifecycle
	cfg    *threadConfig
	shield *reentrantLock

	mu            sync.Mutex
	acquiredLocks []*Lock

	exception atomic.Value // error
}

// Run spawns and starts a new worker goroutine executing fn, returning a
// handle immediately. fn is expected to periodically reach a safe point
// (Shield, Channel.Get, Sleep, Lock.Acquire, or a DispatchQueue wait)
// so that a later Stop can interrupt it.
func Run(fn func(), opts ...ThreadOption) *Thread {
	t := newThread(resolveThreadConfig(opts))
	t.start(fn)
	return t
}

// newThread allocates a Thread without starting its worker goroutine, so a
// caller whose cfg callbacks need to reference the Thread itself (see
// ThreadGroup.Run) can finish wiring them up before any goroutine can
// possibly invoke them.
func newThread(cfg *threadConfig) *Thread {
	return &Thread{
		id:     threadSeq.Add(1),
		life:   newLifecycle(),
		cfg:    cfg,
		shield: newReentrantLock(),
	}
}

// start launches the worker goroutine running fn. Must be called at most
// once per Thread.
func (t *Thread) start(fn func()) {
	go t.run(fn)
}

// ID returns the Thread's process-unique, monotonically assigned identity,
// used to annotate WorkerError.
func (t *Thread) ID() uint64 { return t.id }

// Self returns the Thread handle for the calling goroutine, or nil if it
// is not running inside a managed worker.
func Self() *Thread { return globalRegistry.current() }

func (t *Thread) run(fn func()) {
	unregister := globalRegistry.register(t)
	defer unregister()

	defer func() {
		t.releaseAllLocks()
		t.life.markStopping()
		t.life.markDone()
		if t.cfg.onDone != nil {
			t.cfg.onDone()
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			err, shutdown := panicValueToError(r)
			if !shutdown {
				t.exception.Store(err)
				if t.cfg.onException != nil {
					t.cfg.onException(err)
				}
			}
		}
	}()

	fn()
}

// Running reports whether the worker's done flag has not yet been set.
func (t *Thread) Running() bool { return !t.life.isDone() }

// Stopping reports whether a Stop has been requested, regardless of
// whether the worker has finished unwinding yet.
func (t *Thread) Stopping() bool { return t.life.isStopping() }

// Err returns the error the worker's callable panicked with, if any, or
// nil if it is still running or exited cleanly.
func (t *Thread) Err() error {
	if v := t.exception.Load(); v != nil {
		return v.(error)
	}
	return nil
}

// Stop requests cancellation and blocks up to timeout for the worker to
// reach Done. If the worker is inside a Shield for the whole timeout, Stop
// returns without requesting cancellation and the worker continues; Stop
// has no return value, so this outcome is not reported as an error
// (Stopping still reports false afterwards unless another call succeeded).
// A zero or negative timeout is non-blocking: it makes a
// single best-effort attempt to acquire the shield lock and returns
// immediately without waiting for Done, win or lose. Like the bounded
// path, it never delivers cancellation without first holding the shield
// lock — a worker inside an active Shield is left completely alone by a
// Stop(0) call, not just by a Stop(timeout); nothing retries the request
// once the shield is released, so only a later Stop call can cancel it.
// Calling Stop from inside the target worker's own goroutine converts to
// an immediate local exitThread panic (self-stop never waits on itself).
func (t *Thread) Stop(timeout time.Duration) {
	if !t.Running() {
		return
	}
	if globalRegistry.current() == t {
		t.life.markStopping()
		panic(exitThread{})
	}

	if timeout <= 0 {
		// Non-blocking: a single best-effort attempt. If the worker is
		// shielded right now, the attempt fails outright and no
		// cancellation is requested this call — never pierce the shield by
		// setting stopping without the lock in hand.
		if !t.shield.tryAcquire() {
			return
		}
		defer t.shield.release()
		t.life.markStopping()
		return
	}

	budget := NewBudget(timeout, t.cfg.clock, t.cfg.tick)
	// Acquiring the shield lock proves the target is not mid-critical
	// section; a held Shield defers cancellation until release or until
	// our budget expires. If the budget expires first, Stop returns without
	// requesting cancellation and the worker continues.
	if !t.acquireShieldWithBudget(budget) {
		return
	}
	defer t.shield.release()

	t.life.markStopping()
	if remaining := budget.Remaining(); remaining > 0 {
		t.Wait(remaining)
	}
}

// acquireShieldWithBudget attempts to take the target's shield lock,
// polling in tick-sized slices until the budget is exhausted or the
// worker finishes (in which case there is nothing left to shield against).
func (t *Thread) acquireShieldWithBudget(budget *Budget) bool {
	if t.shield.tryAcquire() {
		return true
	}
	for {
		d, err := budget.Next()
		if err != nil {
			return false
		}
		select {
		case <-t.life.done():
			return false
		case <-time.After(d):
		}
		if t.shield.tryAcquire() {
			return true
		}
	}
}

// Wait blocks up to timeout for the worker to reach Done, returning true
// if it did. A zero or negative timeout waits forever.
func (t *Thread) Wait(timeout time.Duration) bool {
	if timeout <= 0 {
		<-t.life.done()
		return true
	}
	select {
	case <-t.life.done():
		return true
	case <-time.After(timeout):
		return false
	}
}

// acquireLock blocks until l's token is free, recording the acquisition so
// the worker's teardown path (releaseAllLocks) can release it, per
// original_source/oodle/locks.py's acquired_locks bookkeeping. It is a safe
// point, per spec's "ordinary lock acquisition" entry in the suspension
// point list: a concurrent Stop on the calling worker unblocks it via an
// exitThread panic instead of leaving it parked forever.
func (t *Thread) acquireLock(l *Lock) error {
	t.checkCancellation()
	select {
	case <-l.ch:
	case <-t.stopChan():
		panic(exitThread{})
	}
	t.mu.Lock()
	t.acquiredLocks = append(t.acquiredLocks, l)
	t.mu.Unlock()
	return nil
}

// releaseLock returns l's token and removes it from the acquired set.
func (t *Thread) releaseLock(l *Lock) {
	t.mu.Lock()
	for i, held := range t.acquiredLocks {
		if held == l {
			t.acquiredLocks = append(t.acquiredLocks[:i], t.acquiredLocks[i+1:]...)
			break
		}
	}
	t.mu.Unlock()
	l.ch <- struct{}{}
}

// releaseAllLocks forcibly returns every lock token the worker still held
// when it unwound, implementing spec's "lock release on cancellation": a
// lock acquired through the Lock wrapper and never released is freed once
// the worker reaches its teardown path. The token channel has no owner
// check, so this is safe to call from the worker's own goroutine during
// unwind regardless of how it was left held.
func (t *Thread) releaseAllLocks() {
	t.mu.Lock()
	locks := t.acquiredLocks
	t.acquiredLocks = nil
	t.mu.Unlock()
	for _, l := range locks {
		l.ch <- struct{}{}
	}
}

// stopChan returns the channel that closes when cancellation has been
// requested for this worker, for use by safe points (Channel.Get,
// Sleep, Lock.Acquire, DispatchQueue waits) that select alongside their own wait.
func (t *Thread) stopChan() <-chan struct{} { return t.life.stopping() }

// checkCancellation panics with exitThread if this worker has been asked
// to stop. Safe points call this on entry and after waking from a blocking
// wait.
func (t *Thread) checkCancellation() {
	if t.life.isStopping() {
		panic(exitThread{})
	}
}

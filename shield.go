package conc

// Shield runs fn with the calling worker's reentrant shield lock held,
// deferring any concurrent Stop until fn returns (or, if Stop's own budget
// expires first, Stop returns without requesting cancellation and the
// worker continues uninterrupted; Stop reports no error in that case).
// Entry is a safe point: a worker that has already been asked to stop
// unwinds here instead of entering fn. Nested Shield calls on the same
// worker never deadlock —
// the lock counts reentrant acquisitions, per
// original_source/oodle/shields.py wrapping a threading.RLock.
//
// Shield panics with ErrMisuse if called from a goroutine that is not a
// registered worker (one started via Run or ThreadGroup.Run).
func Shield(fn func()) {
	t := globalRegistry.current()
	if t == nil {
		panic(ErrMisuse)
	}
	t.checkCancellation()
	t.shield.acquire()
	defer t.shield.release()
	fn()
}

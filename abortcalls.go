package conc

import "sync"

// AbortConcurrentCalls wraps fn so that a call already in progress on
// another goroutine causes a concurrent call to return immediately
// instead of blocking or queueing. Grounded on
// original_source/oodle/utilities.py's AbortConcurrentCallsFunctionWrapper,
// simplified from its per-instance weak-reference table (Go has no
// equivalent to wrapping a bound method per instance) to a single gate
// shared by every call to the returned closure — callers that need
// per-instance gating construct one wrapper per instance, which is the
// common case the original's decorator form was reached for anyway.
func AbortConcurrentCalls(fn func()) func() {
	var mu sync.Mutex
	return func() {
		if !mu.TryLock() {
			return
		}
		defer mu.Unlock()
		fn()
	}
}

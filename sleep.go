package conc

import "time"

// Sleep pauses the calling goroutine for d, remaining responsive to
// cancellation: called from inside a managed worker, a concurrent Stop on
// that worker wakes it early via an exitThread panic instead of letting it
// sleep out its full duration. Called from outside any managed worker, it
// behaves like time.Sleep. Grounded on
// original_source/oodle/utilities.py's sleep/_sleep_on_thread/
// _sleep_periodically split.
func Sleep(d time.Duration) {
	t := globalRegistry.current()
	if t == nil {
		time.Sleep(d)
		return
	}
	t.checkCancellation()
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-t.stopChan():
		panic(exitThread{})
	}
}

// WaitFor blocks until every one of threads has reached Done, or timeout
// elapses first, in which case it returns ErrTimeout. It does not request
// cancellation of any thread for any reason. On success any
// failures recorded by the given threads are returned as a single
// *AggregateError, mirroring
// original_source/oodle/utilities.py's wait_for raising an
// ExceptionGroup. A zero or negative timeout waits forever.
func WaitFor(timeout time.Duration, threads ...*Thread) error {
	budget := NewBudget(timeout, DefaultClock, DefaultTickGranularity)

	for _, t := range threads {
		if budget.Unbounded() {
			t.Wait(0)
			continue
		}
		for {
			remaining := budget.Remaining()
			if remaining <= 0 {
				return ErrTimeout
			}
			if t.Wait(minDuration(budget.tick, remaining)) {
				break
			}
		}
	}

	var agg AggregateError
	for _, t := range threads {
		if err := t.Err(); err != nil {
			agg.Errors = append(agg.Errors, &WorkerError{ID: t.ID(), Err: err})
		}
	}
	return agg.asError()
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

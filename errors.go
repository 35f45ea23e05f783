package conc

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel contract errors, surfaced at the package boundary per spec.
var (
	// ErrClosed is returned by Channel operations performed on a closed channel.
	ErrClosed = errors.New("conc: channel is closed")

	// ErrIllegalDispatch is returned when a DispatchQueue's own worker calls
	// Dispatch (rather than SafeDispatch) on itself, which would deadlock.
	ErrIllegalDispatch = errors.New("conc: illegal recursive dispatch")

	// ErrTimeout is returned by WaitFor and Budget.Next when their timeout
	// is exhausted. Thread.Stop has no return value and does not report it.
	ErrTimeout = errors.New("conc: timed out")

	// ErrMisuse is the value Shield panics with when called from a
	// goroutine that isn't a managed worker.
	ErrMisuse = errors.New("conc: used outside a managed worker")

	// ErrQueueStopped is returned to callers of Dispatch/DispatchFuture
	// when the target DispatchQueue has been stopped.
	ErrQueueStopped = errors.New("conc: dispatch queue stopped")
)

// WorkerError annotates an error with the identity of the worker Thread it
// came from, the way the teacher's event loop annotates log entries with a
// LoopID/TaskID.
type WorkerError struct {
	// ID is the worker's internal identity (see Thread.ID).
	ID  uint64
	Err error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("worker %d: %v", e.ID, e.Err)
}

func (e *WorkerError) Unwrap() error { return e.Err }

// AggregateError collects the errors raised by the siblings of a
// ThreadGroup (or the threads passed to WaitFor), in the order they were
// recorded. It is the Go analogue of Python's ExceptionGroup, used at
// scope-exit per spec.md §7/§8.
type AggregateError struct {
	// Errors holds one *WorkerError per failed thread, in the order each
	// failure was first observed.
	Errors []*WorkerError
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	parts := make([]string, len(e.Errors))
	for i, we := range e.Errors {
		parts[i] = we.Error()
	}
	return fmt.Sprintf("%d worker error(s): %s", len(e.Errors), strings.Join(parts, "; "))
}

// Unwrap supports errors.Is/errors.As against every contained error
// (Go 1.20+ multi-error unwrapping), mirroring the teacher's
// AggregateError.Unwrap in eventloop/errors.go.
func (e *AggregateError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, we := range e.Errors {
		errs[i] = we
	}
	return errs
}

// Is reports whether target is also an *AggregateError, regardless of
// contents — matching the teacher's pattern of aggregate-vs-aggregate
// identity checks.
func (e *AggregateError) Is(target error) bool {
	var agg *AggregateError
	return errors.As(target, &agg)
}

// empty reports whether the aggregate carries no errors, in which case
// callers should treat it as no failure occurred (nil).
func (e *AggregateError) empty() bool {
	return e == nil || len(e.Errors) == 0
}

// asError returns nil if the aggregate is empty, otherwise e. Callers
// build up an *AggregateError incrementally and convert to an error only
// at the boundary, so a successful run never allocates a non-nil error.
func (e *AggregateError) asError() error {
	if e.empty() {
		return nil
	}
	return e
}

// exitThread is the unexported sentinel panicked at a safe point once a
// Thread's cancellation token has been observed. It is recovered only by
// the worker's own wrapper (see Thread.run in thread.go) and must never
// escape to user code.
type exitThread struct{}

// panicValueToError converts a recovered panic value into an error for
// attachment to a Thread, distinguishing exitThread (shutdown-class, never
// surfaced as a user error) from everything else.
func panicValueToError(v any) (err error, shutdown bool) {
	if _, ok := v.(exitThread); ok {
		return nil, true
	}
	if err, ok := v.(error); ok {
		return err, false
	}
	return fmt.Errorf("conc: worker panicked: %v", v), false
}

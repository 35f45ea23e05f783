package conc

import (
	"runtime"
	"strconv"
	"sync"
)

// workerRegistry maps the calling goroutine to the *Thread driving it, the
// functional equivalent of the thread-local oodle.thread_locals storage
// Shield, Sleep, and Lock rely on to find "the current worker" without an
// explicit parameter. Go has no language-level thread-local storage, so
// this keys a sync.Map by goroutine ID instead — shaped like the teacher's
// registry.go (a process-wide, concurrency-safe lookup keyed by an opaque
// identity), substituting goroutineID for the teacher's pointer identity
// since no such extractor exists anywhere in the corpus.
type workerRegistry struct {
	workers sync.Map // goroutineID -> *Thread
}

var globalRegistry workerRegistry

// register associates the calling goroutine with t for the duration of its
// run, and returns a function that removes the association.
func (r *workerRegistry) register(t *Thread) (unregister func()) {
	id := goroutineID()
	r.workers.Store(id, t)
	return func() { r.workers.Delete(id) }
}

// current returns the *Thread associated with the calling goroutine, or nil
// if the caller is not running inside a managed worker.
func (r *workerRegistry) current() *Thread {
	v, ok := r.workers.Load(goroutineID())
	if !ok {
		return nil
	}
	return v.(*Thread)
}

// goroutineID extracts the numeric ID from the header line of
// runtime.Stack, e.g. "goroutine 37 [running]:". This is the standard
// (if slightly fragile) Go idiom for goroutine-local identity in the
// absence of a language primitive; it depends only on the stable header
// format runtime.Stack has used for over a decade, not on any internal
// layout.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]

	const prefix = "goroutine "
	if len(b) < len(prefix) || string(b[:len(prefix)]) != prefix {
		return 0
	}
	b = b[len(prefix):]

	i := 0
	for i < len(b) && b[i] != ' ' {
		i++
	}
	id, _ := strconv.ParseUint(string(b[:i]), 10, 64)
	return id
}

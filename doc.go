// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package conc is a structured-concurrency runtime built on top of OS
// threads (goroutines).
//
// # Architecture
//
// The coordination core is [Thread], a goroutine wrapped with a one-shot
// stop/done flag pair and a reentrant shield lock, plus [ThreadGroup], which
// runs a fan-out of workers, cancels the rest on first failure, and
// re-raises an aggregated error on scope exit. [Channel] is a closeable FIFO
// used to hand values between workers. [DispatchQueue] serializes calls onto
// a single dedicated worker, with [QueuedDispatcher] providing a
// code-generation-backed trait that routes every exported method of a type
// through its own queue. [Shield], [Sleep], and [WaitFor] are the
// cancellation-aware blocking primitives all of the above are built from.
//
// # Cancellation model
//
// Go has neither asynchronous exception injection nor a host-level "throw
// into thread" primitive. Cancellation here is cooperative: a stopped
// [Thread] sets a token that is observed only at safe points — [Shield]
// entry, [Channel.Get], [Sleep], [Lock.Acquire], and [DispatchQueue]'s wait
// for completion. Observing the token unwinds the worker's call stack via a
// panic with an unexported sentinel, recovered only by the worker's own
// top-level wrapper; user code never sees it. CPU-bound code that never
// reaches a safe point is not preempted — this is a deliberate design
// limit, not an oversight.
//
// # Thread safety
//
// Every exported type in this package is safe for concurrent use unless its
// documentation says otherwise.
package conc

package conc

// QueuedDispatcher embeds a DispatchQueue, giving a struct a single
// dedicated worker thread that all of its exported method calls can be
// routed through. Go has no runtime descriptor protocol (the mechanism
// original_source/oodle/dispatch_queues.py's QueuedDispatcher uses to
// rewrite every public method at class-construction time), so here the
// routing is generated mechanically instead: a type embeds
// QueuedDispatcher, tags itself with a //go:generate queuedgen directive,
// and cmd/queuedgen emits a wrapper type whose exported methods forward
// through SafeDispatch.
type QueuedDispatcher struct {
	Queue *DispatchQueue
}

// NewQueuedDispatcher constructs a QueuedDispatcher with its own
// DispatchQueue and worker.
func NewQueuedDispatcher(opts ...DispatchOption) QueuedDispatcher {
	return QueuedDispatcher{Queue: NewDispatchQueue(opts...)}
}

// Stop cancels the dispatcher's worker thread.
func (d QueuedDispatcher) Stop() { d.Queue.Stop() }

package conc

// Channel is a closeable, mapping-free FIFO of T, the generic counterpart
// of original_source/oodle/channels.py's Channel wrapper around
// queue.Queue. Put never blocks (the backing fifo is unbounded); Get
// blocks on an open, empty Channel and fails with ErrClosed once the
// Channel is closed and drained.
type Channel[T any] struct {
	q   *fifo[T]
	cfg *channelConfig[T]
}

// NewChannel constructs an open, empty Channel.
func NewChannel[T any](opts ...ChannelOption[T]) *Channel[T] {
	return &Channel[T]{q: newFifo[T](), cfg: resolveChannelConfig(opts)}
}

// Put enqueues v, invoking the channel's WithOnPut callback (if any) on the
// calling goroutine immediately afterward. Returns ErrClosed if the
// Channel has already been closed.
func (c *Channel[T]) Put(v T) error {
	if !c.q.push(v) {
		return ErrClosed
	}
	if c.cfg.onPut != nil {
		c.cfg.onPut(v)
	}
	return nil
}

// Get blocks until a value is available or the Channel is closed, in
// which case it returns ErrClosed once every already-buffered value has
// been drained. Called from inside a managed worker, Get is a safe
// point: a concurrent Stop on the calling worker unblocks it via an
// exitThread panic rather than leaving it parked forever.
func (c *Channel[T]) Get() (T, error) {
	var cancel <-chan struct{}
	t := globalRegistry.current()
	if t != nil {
		t.checkCancellation()
		cancel = t.stopChan()
	}
	v, ok := c.q.pop(cancel)
	if ok {
		return v, nil
	}
	if t != nil {
		t.checkCancellation()
	}
	var zero T
	return zero, ErrClosed
}

// Close marks the Channel closed, waking every blocked Get with
// ErrClosed. Idempotent.
func (c *Channel[T]) Close() { c.q.close() }

// IsClosed reports whether Close has been called.
func (c *Channel[T]) IsClosed() bool { return c.q.isClosed() }

// IsEmpty reports whether the Channel currently has no buffered values.
func (c *Channel[T]) IsEmpty() bool { return c.q.empty() }

// Next implements non-blocking iteration: it returns an already-buffered
// value without waiting, and ok=false once the Channel is (momentarily)
// empty, mirroring the teacher's StopIteration-on-empty contract rather
// than blocking like Get.
func (c *Channel[T]) Next() (v T, ok bool) {
	return c.q.tryPop()
}

// GetFirst runs each of fns concurrently in its own worker, passing every
// worker a shared Channel; the first value Put to that Channel is
// returned, and every other worker is cancelled before GetFirst returns.
// If any fn panics before a value is produced, the aggregated error is
// returned instead. Grounded on
// original_source/oodle/channels.py's Channel.get_first.
func GetFirst[T any](fns ...func(*Channel[T])) (T, error) {
	group := NewThreadGroup()
	ch := NewChannel(WithOnPut(func(T) { group.Stop() }))

	for _, fn := range fns {
		fn := fn
		group.Run(func() { fn(ch) })
	}

	// Wait blocks until every fn has either produced a value (triggering
	// group.Stop via onPut) or been cancelled; by the time it returns, no
	// fn's thread is still holding a Shield or a tracked Lock.
	waitErr := group.Wait()
	ch.Close()
	v, getErr := ch.Get()

	if getErr == nil {
		return v, nil
	}
	var zero T
	if waitErr != nil {
		return zero, waitErr
	}
	return zero, getErr
}

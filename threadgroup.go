package conc

import "sync"

// ThreadGroup fans out a set of worker Threads sharing one lifetime: the
// first worker to panic cancels every sibling, and Wait re-raises every
// recorded failure as a single *AggregateError. Grounded on
// original_source/oodle/thread_groups.py's ThreadGroup, which the original
// drives through Spawner/Mutex/Event primitives this package expresses as
// plain Go sync primitives and channels instead.
//
// Once the group's stopping has been triggered (by an explicit Stop or by
// an earlier sibling's failure), any further exception reported by a
// sibling is discarded rather than added to the aggregate: it is expected
// fallout of the cancellation already in flight, not a cause of it.
type ThreadGroup struct {
	cfg *groupConfig

	mu      sync.Mutex
	threads []*Thread
	agg     AggregateError
	stopped bool
}

// NewThreadGroup constructs an empty ThreadGroup.
func NewThreadGroup(opts ...GroupOption) *ThreadGroup {
	return &ThreadGroup{cfg: resolveGroupConfig(opts)}
}

// Run spawns fn as a new worker owned by this group and returns its
// handle. If the group has already been stopped (by a prior Stop or by an
// earlier sibling's failure), the new worker is started already
// cancelled: fn will observe Stopping()==true at its very first safe
// point.
func (g *ThreadGroup) Run(fn func()) *Thread {
	// t must be fully constructed before the worker goroutine starts:
	// newThread/start are split so the onException/onDone closures close
	// over a *Thread that already exists, rather than over a variable a
	// fast-completing worker could read before this goroutine assigns it.
	t := newThread(&threadConfig{clock: g.cfg.clock, tick: g.cfg.tick})
	t.cfg.onException = func(err error) { g.recordFailure(t, err) }
	t.cfg.onDone = func() { g.threadDone(t) }

	g.mu.Lock()
	already := g.stopped
	g.threads = append(g.threads, t)
	g.mu.Unlock()

	if already {
		t.life.markStopping()
	}
	t.start(fn)
	return t
}

// recordFailure stores the failure reported by a sibling and cancels the
// rest of the group, per spec's "cancel on first failure". Only the
// failure that actually triggers the cascade is recorded: once the group
// is already stopping, a later sibling's exception is discarded rather
// than appended, per the group's own "post-stopping exceptions are
// discarded" contract.
func (g *ThreadGroup) recordFailure(t *Thread, err error) {
	g.mu.Lock()
	first := !g.stopped
	if first {
		g.agg.Errors = append(g.agg.Errors, &WorkerError{ID: t.ID(), Err: err})
	}
	g.stopped = true
	siblings := append([]*Thread(nil), g.threads...)
	g.mu.Unlock()

	if !first {
		return
	}

	if g.cfg.logger != nil {
		g.cfg.logger.warn("group-failure", "worker failed, cancelling group siblings", F("worker_id", t.ID()), F("error", err.Error()))
	}

	g.stopSiblings(siblings, t)
}

func (g *ThreadGroup) threadDone(t *Thread) {
	// No action required beyond what run's onDone callback already did:
	// Wait observes completion by polling each Thread's own done channel.
}

func (g *ThreadGroup) stopSiblings(threads []*Thread, except *Thread) {
	for _, sibling := range threads {
		if sibling == except {
			continue
		}
		go sibling.Stop(0)
	}
}

// Stop cancels every worker currently in the group. New workers added
// after Stop via Run are started already cancelled.
func (g *ThreadGroup) Stop() {
	g.mu.Lock()
	g.stopped = true
	siblings := append([]*Thread(nil), g.threads...)
	g.mu.Unlock()

	g.stopSiblings(siblings, nil)
}

// Wait blocks until every worker spawned by this group has reached Done,
// then returns an *AggregateError wrapping every recorded failure (nil if
// none occurred). Calling Wait more than once is safe; later calls return
// the same aggregated result.
func (g *ThreadGroup) Wait() error {
	g.mu.Lock()
	threads := append([]*Thread(nil), g.threads...)
	g.mu.Unlock()

	for _, t := range threads {
		t.Wait(0)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.agg.asError()
}

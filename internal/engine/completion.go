package engine

import "sync"

// completionTracker counts shard workers that have drained and exited, and
// wakes anyone waiting for full quiescence. Each worker reports exactly
// once; waiters re-check the count on every wake, so a spurious wakeup is
// harmless.
type completionTracker struct {
	mu    sync.Mutex
	done  *sync.Cond
	count int
	total int
}

func newCompletionTracker(total int) *completionTracker {
	t := &completionTracker{total: total}
	t.done = sync.NewCond(&t.mu)
	return t
}

// workerExited records one worker exit and notifies waiters.
func (t *completionTracker) workerExited() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.count++
	t.done.Broadcast()
}

// wait blocks until every worker has exited. Safe to call before the first
// exit, and returns immediately if all workers are already done.
func (t *completionTracker) wait() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for t.count < t.total {
		t.done.Wait()
	}
}

// completed returns the number of workers that have exited so far.
func (t *completionTracker) completed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

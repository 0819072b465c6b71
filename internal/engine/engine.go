package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/avelor/settler/internal/model"
)

// Config holds engine construction parameters.
type Config struct {
	// Shards is the number of independent workers. A client always maps to
	// shard ClientID mod Shards for the lifetime of the run.
	Shards int

	// QueueCapacity is the initial per-shard queue capacity. Queues grow on
	// demand; this only tunes the first allocation.
	QueueCapacity int
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Shards:        4,
		QueueCapacity: 1000,
	}
}

// Engine fans transactions out to shard workers by client ID and owns the
// shutdown/completion protocol. A single handle is shared by every
// producer; all methods are safe for concurrent use.
type Engine struct {
	shards []*shard
	logger *slog.Logger
	runID  uuid.UUID

	shutdown  atomic.Bool
	completed *completionTracker

	routed  atomic.Int64
	refused atomic.Int64
	applied atomic.Int64
	failed  atomic.Int64
}

// shard pairs one partition's state with its queue and mutex. The mutex
// serializes the worker against the post-quiescence snapshot reader.
type shard struct {
	index int
	mu    sync.Mutex
	state *shardState
	queue *queue[model.Transaction]
}

// New builds the shard table and spawns exactly cfg.Shards workers. The
// shard slice and queue handles are immutable after construction. A nil
// logger falls back to slog.Default().
func New(cfg Config, logger *slog.Logger) (*Engine, error) {
	if cfg.Shards < 1 {
		return nil, fmt.Errorf("engine: shards must be >= 1, got %d", cfg.Shards)
	}
	if cfg.QueueCapacity < 1 {
		cfg.QueueCapacity = DefaultConfig().QueueCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		runID:     uuid.New(),
		completed: newCompletionTracker(cfg.Shards),
		shards:    make([]*shard, cfg.Shards),
	}
	e.logger = logger.With("run", e.runID.String())

	for i := range e.shards {
		e.shards[i] = &shard{
			index: i,
			state: newShardState(),
			queue: newQueue[model.Transaction](cfg.QueueCapacity),
		}
	}
	for _, sh := range e.shards {
		go e.runWorker(sh)
	}

	e.logger.Info("engine started",
		"shards", cfg.Shards,
		"queue_capacity", cfg.QueueCapacity,
	)
	return e, nil
}

// Route hands one transaction to its owning shard. It fails without
// enqueueing once shutdown has been initiated (SHUT_DOWN) or once the shard
// queue is closed (CHANNEL_CLOSED). A nil return means the transaction is
// queued and will be applied.
func (e *Engine) Route(tx model.Transaction) error {
	if e.shutdown.Load() {
		e.refused.Add(1)
		return &Error{
			Code:     CodeShutDown,
			ClientID: tx.ClientID,
			TxID:     tx.TxID,
			Message:  "engine is shut down, no new transactions accepted",
		}
	}

	sh := e.shards[int(tx.ClientID)%len(e.shards)]
	if !sh.queue.Send(tx) {
		// The flag read above can be stale; the queue's closed state,
		// checked under the queue mutex, is the authoritative gate.
		e.refused.Add(1)
		return &Error{
			Code:     CodeChannelClosed,
			ClientID: tx.ClientID,
			TxID:     tx.TxID,
			Message:  "shard queue is closed",
		}
	}
	e.routed.Add(1)
	return nil
}

// InitiateShutdown stops admission and closes every shard queue. Already
// queued transactions still drain; each worker exits once its queue
// empties. Safe to call more than once.
func (e *Engine) InitiateShutdown() {
	if !e.shutdown.CompareAndSwap(false, true) {
		return
	}
	for _, sh := range e.shards {
		sh.queue.Close()
	}
	e.logger.Info("shutdown initiated",
		"routed", e.routed.Load(),
		"refused", e.refused.Load(),
	)
}

// AwaitCompletion blocks until every shard worker has drained its queue and
// exited, or until ctx is canceled. The engine imposes no timeout of its
// own.
func (e *Engine) AwaitCompletion(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		e.completed.wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SnapshotAccounts copies every shard's account table. Call only after
// AwaitCompletion has returned. Each shard lock is taken in turn, so a
// half-applied transaction can never be observed. Ordering across and
// within shards is unspecified; deterministic consumers sort by client.
func (e *Engine) SnapshotAccounts() []model.AccountSnapshot {
	var out []model.AccountSnapshot
	for _, sh := range e.shards {
		sh.mu.Lock()
		out = append(out, sh.state.snapshot()...)
		sh.mu.Unlock()
	}
	return out
}

// Stats returns current engine counters.
func (e *Engine) Stats() Stats {
	s := Stats{
		Routed:  e.routed.Load(),
		Refused: e.refused.Load(),
		Applied: e.applied.Load(),
		Failed:  e.failed.Load(),
		Queues:  make([]QueueStats, len(e.shards)),
	}
	for i, sh := range e.shards {
		s.Queues[i] = sh.queue.Stats()
	}
	return s
}

// Stats aggregates engine counters.
type Stats struct {
	Routed  int64 // transactions accepted by Route
	Refused int64 // transactions refused by Route
	Applied int64 // transactions applied cleanly by a worker
	Failed  int64 // transactions rejected inside a shard

	Queues []QueueStats // per-shard queue counters
}

// runWorker is the single consumer for one shard. The loop ends only when
// the shard queue is closed and fully drained, and per-transaction
// failures never stop it.
func (e *Engine) runWorker(sh *shard) {
	defer e.completed.workerExited()

	logger := e.logger.With("shard", sh.index)
	logger.Debug("worker started")

	for {
		tx, ok := sh.queue.Receive()
		if !ok {
			break
		}

		sh.mu.Lock()
		err := sh.state.apply(tx)
		sh.mu.Unlock()

		if err != nil {
			e.failed.Add(1)
			logger.Warn("transaction rejected",
				"kind", tx.Kind.String(),
				"client", tx.ClientID,
				"tx", tx.TxID,
				"error", err,
			)
			continue
		}
		e.applied.Add(1)
	}

	logger.Debug("worker drained and exited")
}

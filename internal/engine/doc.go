// Package engine implements the sharded concurrent transaction engine.
//
// Clients are partitioned across shards by ClientID mod shard count. Each
// shard exclusively owns its account table and transaction log, mutated by a
// single worker goroutine consuming an unbounded queue, so transactions for
// a fixed client always apply in routing order while different shards
// proceed in parallel.
//
// Lifecycle: New spawns the workers; Route feeds them; InitiateShutdown
// stops admission and closes the queues; AwaitCompletion blocks until every
// worker has drained and exited; SnapshotAccounts then reads the final
// state.
package engine

// Package lock implements the per-key advisory lock table used by the
// blocking client protocol to serialize access to a key across the replica
// set it has quorum-locked.
//
// Big idea: a lock entry only ever records who currently holds it, if
// anyone. Acquiring is idempotent for the current holder (a client that
// retries its own AcquireLock call must not be told "denied"), and only the
// current holder may release. There is no lease or TTL — a crashed holder
// leaves the key locked until it releases; recovering from that case is left
// to an operator or a future liveness mechanism, not this table.
package lock

import "sync"

// Table is a replica's per-key lock table. It is safe for concurrent use.
type Table struct {
	mu      sync.Mutex
	holders map[string]string
}

// New creates an empty lock table.
func New() *Table {
	return &Table{holders: make(map[string]string)}
}

// Acquire attempts to grant key to clientID. It grants when the key is
// unheld, or when clientID already holds it (a no-op re-grant so a client
// retrying after a lost reply doesn't get denied by its own prior success).
// Otherwise it denies and reports the current holder.
func (t *Table) Acquire(key, clientID string) (granted bool, holder string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	current, held := t.holders[key]
	if !held || current == clientID {
		t.holders[key] = clientID
		return true, clientID
	}
	return false, current
}

// Release releases key if clientID is its current holder. Releasing a key
// not held by clientID (including an unheld key) fails and leaves the table
// unchanged.
func (t *Table) Release(key, clientID string) (ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	current, held := t.holders[key]
	if !held || current != clientID {
		return false
	}
	delete(t.holders, key)
	return true
}

// HolderOf reports the current holder of key, if any. Intended for
// debug/introspection use only, never for the lock protocol itself.
func (t *Table) HolderOf(key string) (holder string, held bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	holder, held = t.holders[key]
	return holder, held
}

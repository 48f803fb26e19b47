// Package quorum implements the generic fan-out engine every client
// operation (WriteQuery, WriteProp, ReadQuery, AcquireLock, ReleaseLock)
// dispatches through: call every target concurrently, collect replies as
// they arrive, and only decide success or failure once every goroutine has
// returned.
//
// Big idea:
//
// It would be tempting to stop as soon as enough replicas have answered
// successfully — but a caller that wants a clean accounting of which
// replicas answered and how (for read-repair, for write-back, for lock
// release) needs every reply, not just the first quorum's worth. So Do
// always waits for every target to finish, then applies the threshold and
// an accept predicate to decide success.
package quorum

import (
	"context"
	"sync"
)

// Reply pairs one target's outcome with its index in the original target
// list, so callers can recover per-replica identity (e.g. for read-repair
// write-back) without re-deriving it from the reply value itself.
type Reply[R any] struct {
	Index int
	Value R
	Err   error
}

// Result is what Do returns: every reply collected, and whether at least
// Required of them were individually accepted by the caller's predicate.
type Result[R any] struct {
	Replies  []Reply[R]
	Accepted int
	Required int
	OK       bool
}

// Do calls fn(ctx, i) once per index in [0, n) concurrently, waits for every
// call to return — there is no early exit once a quorum is reached — and
// reports success when at least required replies satisfy accept.
//
// accept receives the call's value and error; a transport error (fn
// returning a non-nil error) is always passed through, so accept can choose
// to treat it as a rejection or inspect it.
func Do[R any](ctx context.Context, n int, required int, fn func(ctx context.Context, index int) (R, error), accept func(R, error) bool) Result[R] {
	replies := make([]Reply[R], n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			value, err := fn(ctx, i)
			replies[i] = Reply[R]{Index: i, Value: value, Err: err}
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, r := range replies {
		if accept(r.Value, r.Err) {
			accepted++
		}
	}

	return Result[R]{
		Replies:  replies,
		Accepted: accepted,
		Required: required,
		OK:       accepted >= required,
	}
}

package clientproto

import (
	"context"
	"fmt"
	"time"

	"quorumkv/internal/quorum"
	"quorumkv/internal/replicarpc"
	"quorumkv/internal/tag"
)

// lockRetryBackoff is how long AcquireQuorumLocks waits between rounds that
// fail to reach quorum, mirroring the original blocking client's 5ms spin
// interval.
const lockRetryBackoff = 5 * time.Millisecond

// BlockingClient wraps the two-phase ABD protocol with a per-key advisory
// lock quorum: before either phase runs, it acquires locks on at least q
// replicas and restricts that operation's fan-out to exactly that subset. Locks are
// always released afterward, success or failure.
type BlockingClient struct {
	replicas []replicarpc.ReplicaClient
	writerID string
	w, r     int
}

// NewBlocking builds a BlockingClient over replicas, with W and R both set
// by the majority rule (N/2 + 1).
func NewBlocking(replicas []replicarpc.ReplicaClient, writerID string) *BlockingClient {
	n := len(replicas)
	q := n/2 + 1
	return &BlockingClient{replicas: replicas, writerID: writerID, w: q, r: q}
}

// Put acquires a write quorum of locks on key, runs the two-phase write
// restricted to the locked replicas, then releases the locks.
func (c *BlockingClient) Put(ctx context.Context, key, value string) error {
	locked, err := c.acquireQuorumLocks(ctx, key, c.w)
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	defer c.releaseLocks(context.Background(), key, locked)

	subset := c.subset(locked)

	maxTag, err := c.writeQueryPhase(ctx, subset, c.w, key)
	if err != nil {
		return err
	}
	newTag := maxTag.Next(c.writerID)
	return c.writePropPhase(ctx, subset, c.w, key, newTag, value)
}

// Get acquires a read quorum of locks on key, runs the two-phase read
// restricted to the locked replicas, then releases the locks.
func (c *BlockingClient) Get(ctx context.Context, key string) (string, error) {
	locked, err := c.acquireQuorumLocks(ctx, key, c.r)
	if err != nil {
		return "", fmt.Errorf("get %q: %w", key, err)
	}
	defer c.releaseLocks(context.Background(), key, locked)

	subset := c.subset(locked)

	maxTag, value, err := c.readQueryPhase(ctx, subset, c.r, key)
	if err != nil {
		return "", err
	}
	if err := c.writePropPhase(ctx, subset, c.r, key, maxTag, value); err != nil {
		return "", err
	}
	return value, nil
}

func (c *BlockingClient) subset(indices []int) []replicarpc.ReplicaClient {
	out := make([]replicarpc.ReplicaClient, len(indices))
	for i, idx := range indices {
		out[i] = c.replicas[idx]
	}
	return out
}

// acquireQuorumLocks repeatedly fans AcquireLock out to every replica not
// yet locked, until q distinct replicas have granted the lock to this
// client. A replica already granted is never asked again in a later round.
// There is no overall deadline beyond ctx — a caller that wants bounded
// blocking must pass a context with a deadline.
func (c *BlockingClient) acquireQuorumLocks(ctx context.Context, key string, q int) ([]int, error) {
	lockedSet := make(map[int]bool)

	for len(lockedSet) < q {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrLockTimeout, ctx.Err())
		default:
		}

		pending := make([]int, 0, len(c.replicas))
		for i := range c.replicas {
			if !lockedSet[i] {
				pending = append(pending, i)
			}
		}

		result := quorum.Do(ctx, len(pending), 0,
			func(ctx context.Context, i int) (replicarpc.AcquireLockReply, error) {
				return c.replicas[pending[i]].AcquireLock(ctx, replicarpc.LockRequest{Key: key, ClientID: c.writerID})
			},
			func(replicarpc.AcquireLockReply, error) bool { return true },
		)

		for i, reply := range result.Replies {
			if reply.Err == nil && reply.Value.Status.OK && reply.Value.Granted {
				lockedSet[pending[i]] = true
			}
		}

		if len(lockedSet) >= q {
			break
		}
		time.Sleep(lockRetryBackoff)
	}

	locked := make([]int, 0, len(lockedSet))
	for idx := range lockedSet {
		locked = append(locked, idx)
	}
	return locked, nil
}

// releaseLocks best-effort releases key on every replica index in locked.
// Failures are not surfaced — a lock release that never arrives leaves that
// replica locked until the same client acquires and releases it again, which
// is the accepted cost of the bounded-retry lock liveness model.
func (c *BlockingClient) releaseLocks(ctx context.Context, key string, locked []int) {
	quorum.Do(ctx, len(locked), 0,
		func(ctx context.Context, i int) (replicarpc.ReleaseLockReply, error) {
			return c.replicas[locked[i]].ReleaseLock(ctx, replicarpc.LockRequest{Key: key, ClientID: c.writerID})
		},
		func(replicarpc.ReleaseLockReply, error) bool { return true },
	)
}

// writeQueryPhase fans out to every replica in the locked subset, but like
// the original blocking client only requires the fixed quorum size, not
// every member of the subset, to succeed — a replica that times out
// mid-operation despite having granted the lock earlier does not sink the
// whole call.
func (c *BlockingClient) writeQueryPhase(ctx context.Context, replicas []replicarpc.ReplicaClient, required int, key string) (tag.Tag, error) {
	result := quorum.Do(ctx, len(replicas), required,
		func(ctx context.Context, i int) (replicarpc.WriteQueryReply, error) {
			return replicas[i].WriteQuery(ctx, key)
		},
		func(reply replicarpc.WriteQueryReply, err error) bool {
			return err == nil && reply.Status.OK
		},
	)
	if !result.OK {
		return tag.Zero, fmt.Errorf("write-query phase: %w (%d/%d)", ErrQuorumUnreached, result.Accepted, required)
	}

	maxTag := tag.Zero
	have := false
	for _, reply := range result.Replies {
		if reply.Err != nil || !reply.Value.Status.OK {
			continue
		}
		if !have || reply.Value.Tag.GreaterThan(maxTag) {
			maxTag = reply.Value.Tag
			have = true
		}
	}
	return maxTag, nil
}

func (c *BlockingClient) readQueryPhase(ctx context.Context, replicas []replicarpc.ReplicaClient, required int, key string) (tag.Tag, string, error) {
	result := quorum.Do(ctx, len(replicas), required,
		func(ctx context.Context, i int) (replicarpc.ReadQueryReply, error) {
			return replicas[i].ReadQuery(ctx, key)
		},
		func(reply replicarpc.ReadQueryReply, err error) bool {
			return err == nil && reply.Status.OK
		},
	)
	if !result.OK {
		return tag.Zero, "", fmt.Errorf("read-query phase: %w (%d/%d)", ErrQuorumUnreached, result.Accepted, required)
	}

	maxTag := tag.Zero
	maxValue := ""
	have := false
	for _, reply := range result.Replies {
		if reply.Err != nil || !reply.Value.Status.OK {
			continue
		}
		if !have || reply.Value.Tag.GreaterThan(maxTag) {
			maxTag = reply.Value.Tag
			maxValue = reply.Value.Value
			have = true
		}
	}
	return maxTag, maxValue, nil
}

func (c *BlockingClient) writePropPhase(ctx context.Context, replicas []replicarpc.ReplicaClient, required int, key string, t tag.Tag, value string) error {
	result := quorum.Do(ctx, len(replicas), required,
		func(ctx context.Context, i int) (replicarpc.WritePropReply, error) {
			return replicas[i].WriteProp(ctx, replicarpc.WritePropRequest{Key: key, Tag: t, Value: value})
		},
		func(reply replicarpc.WritePropReply, err error) bool {
			return err == nil && reply.Status.OK
		},
	)
	if !result.OK {
		return fmt.Errorf("write-prop phase: %w (%d/%d)", ErrQuorumUnreached, result.Accepted, required)
	}
	return nil
}

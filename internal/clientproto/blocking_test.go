package clientproto

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quorumkv/internal/replicarpc"
)

// writeFlakyReplica grants and releases locks normally but fails every
// WriteQuery/WriteProp call at the transport layer, simulating a replica
// that timed out mid-operation after already having granted its lock.
type writeFlakyReplica struct {
	*inProcessReplica
}

func (r *writeFlakyReplica) WriteQuery(ctx context.Context, key string) (replicarpc.WriteQueryReply, error) {
	return replicarpc.WriteQueryReply{}, fmt.Errorf("dial %s: connection refused", r.Address())
}

func (r *writeFlakyReplica) WriteProp(ctx context.Context, req replicarpc.WritePropRequest) (replicarpc.WritePropReply, error) {
	return replicarpc.WritePropReply{}, fmt.Errorf("dial %s: connection refused", r.Address())
}

func TestBlockingClient_PutThenGetRoundTrips(t *testing.T) {
	replicas := fiveReplicas()
	c := NewBlocking(replicas, "client-1")

	require.NoError(t, c.Put(context.Background(), "k", "v1"))

	value, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", value)
}

func TestBlockingClient_ReleasesLocksAfterPut(t *testing.T) {
	replicas := fiveReplicas()
	c := NewBlocking(replicas, "client-1")
	require.NoError(t, c.Put(context.Background(), "k", "v1"))

	// A second client must be able to acquire the same key's locks
	// immediately, proving the first client released them.
	c2 := NewBlocking(replicas, "client-2")
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	require.NoError(t, c2.Put(ctx, "k", "v2"))
}

func TestBlockingClient_SerializesConcurrentWritersOnSameKey(t *testing.T) {
	replicas := fiveReplicas()
	c1 := NewBlocking(replicas, "writer-1")
	c2 := NewBlocking(replicas, "writer-2")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = c1.Put(ctx, "k", "from-1")
	}()
	go func() {
		defer wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = c2.Put(ctx, "k", "from-2")
	}()
	wg.Wait()

	value, err := NewBlocking(replicas, "reader").Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Contains(t, []string{"from-1", "from-2"}, value)
}

func TestBlockingClient_AcquireQuorumLocks_TimesOutWhenHeldElsewhere(t *testing.T) {
	replicas := fiveReplicas()
	holder := NewBlocking(replicas, "holder")
	locked, err := holder.acquireQuorumLocks(context.Background(), "k", holder.w)
	require.NoError(t, err)
	// Uncontended, a single round grants every replica, not just w of them —
	// AcquireQuorumLocks only stops fanning out once w are granted, it
	// doesn't trim the set back down to w.
	require.GreaterOrEqual(t, len(locked), holder.w)
	defer holder.releaseLocks(context.Background(), "k", locked)

	contender := NewBlocking(replicas, "contender")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err = contender.acquireQuorumLocks(ctx, "k", contender.w)
	assert.ErrorIs(t, err, ErrLockTimeout)
}

func TestBlockingClient_PutSucceedsWhenOverAcquiredReplicaFailsMidPhase(t *testing.T) {
	replicas := fiveReplicas()
	// Uncontended, AcquireQuorumLocks(key, w=3) grants all 5 replicas before
	// the two-phase write ever runs — the locked subset is oversized
	// relative to w. One of those 5 then fails its WriteQuery/WriteProp
	// calls; since only w=3 successes are required, not all 5, the PUT must
	// still succeed.
	replicas[4] = &writeFlakyReplica{inProcessReplica: newInProcessReplica("replica-4")}
	c := NewBlocking(replicas, "client-1")

	require.NoError(t, c.Put(context.Background(), "k", "v1"))

	value, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", value)
}

func TestBlockingClient_AcquireQuorumLocks_SucceedsWithMinorityDown(t *testing.T) {
	replicas := fiveReplicas()
	replicas[0] = &unreachableReplica{addr: "replica-0"}
	c := NewBlocking(replicas, "client-1")

	locked, err := c.acquireQuorumLocks(context.Background(), "k", c.w)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(locked), c.w)
	for _, idx := range locked {
		assert.NotEqual(t, 0, idx)
	}
}

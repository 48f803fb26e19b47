package quorum

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDo_AllSucceed(t *testing.T) {
	result := Do(context.Background(), 5, 3,
		func(ctx context.Context, i int) (int, error) { return i, nil },
		func(v int, err error) bool { return err == nil },
	)
	assert.True(t, result.OK)
	assert.Equal(t, 5, result.Accepted)
	assert.Len(t, result.Replies, 5)
}

func TestDo_PartialFailureStillMeetsQuorum(t *testing.T) {
	result := Do(context.Background(), 5, 3,
		func(ctx context.Context, i int) (int, error) {
			if i < 2 {
				return 0, errors.New("boom")
			}
			return i, nil
		},
		func(v int, err error) bool { return err == nil },
	)
	assert.True(t, result.OK)
	assert.Equal(t, 3, result.Accepted)
}

func TestDo_BelowQuorumFails(t *testing.T) {
	result := Do(context.Background(), 5, 4,
		func(ctx context.Context, i int) (int, error) {
			if i < 2 {
				return 0, errors.New("boom")
			}
			return i, nil
		},
		func(v int, err error) bool { return err == nil },
	)
	assert.False(t, result.OK)
	assert.Equal(t, 3, result.Accepted)
}

func TestDo_WaitsForEveryReplyRegardlessOfQuorum(t *testing.T) {
	// Required is 1 — quorum is reached by the first reply — but every
	// target must still appear in Replies, since callers rely on the full
	// set for read-repair/write-back decisions.
	result := Do(context.Background(), 4, 1,
		func(ctx context.Context, i int) (int, error) { return i * 10, nil },
		func(v int, err error) bool { return err == nil },
	)
	assert.Len(t, result.Replies, 4)
	seen := make(map[int]bool)
	for _, r := range result.Replies {
		seen[r.Index] = true
		assert.Equal(t, r.Index*10, r.Value)
	}
	assert.Len(t, seen, 4)
}

func TestDo_AcceptPredicateCanRejectSuccessfulCalls(t *testing.T) {
	result := Do(context.Background(), 3, 2,
		func(ctx context.Context, i int) (int, error) { return i, nil },
		func(v int, err error) bool { return err == nil && v > 0 },
	)
	assert.True(t, result.OK)
	assert.Equal(t, 2, result.Accepted)
}

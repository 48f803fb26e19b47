package clientproto

import (
	"context"
	"fmt"

	"quorumkv/internal/quorum"
	"quorumkv/internal/replicarpc"
	"quorumkv/internal/tag"
)

// Client is the non-blocking two-phase ABD client. It fans out directly to
// every configured replica — unlike a coordinator-node design, there is no
// intermediary relaying RPCs on the client's behalf.
type Client struct {
	replicas []replicarpc.ReplicaClient
	writerID string
	w, r     int
}

// New builds a Client over replicas, with W and R both set by the majority
// rule (N/2 + 1).
func New(replicas []replicarpc.ReplicaClient, writerID string) *Client {
	n := len(replicas)
	q := n/2 + 1
	return &Client{replicas: replicas, writerID: writerID, w: q, r: q}
}

// Put runs the two-phase write: a WriteQuery phase to find the highest tag
// any replica has seen for key, then a WriteProp phase proposing one tag
// past it with value. Both phases fan out to every replica and require W
// successes.
func (c *Client) Put(ctx context.Context, key, value string) error {
	maxTag, err := c.writeQueryPhase(ctx, key)
	if err != nil {
		return err
	}

	newTag := maxTag.Next(c.writerID)
	return c.writePropPhase(ctx, key, newTag, value)
}

// Get runs the two-phase read: a ReadQuery phase to find the highest
// (tag, value) any replica holds for key, then a write-back WriteProp phase
// that propagates it so the next reader can observe it without regressing.
// Both phases fan out to every replica and require R successes.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	maxTag, value, err := c.readQueryPhase(ctx, key)
	if err != nil {
		return "", err
	}

	if err := c.writePropPhase(ctx, key, maxTag, value); err != nil {
		return "", err
	}
	return value, nil
}

func (c *Client) writeQueryPhase(ctx context.Context, key string) (tag.Tag, error) {
	result := quorum.Do(ctx, len(c.replicas), c.w,
		func(ctx context.Context, i int) (replicarpc.WriteQueryReply, error) {
			return c.replicas[i].WriteQuery(ctx, key)
		},
		func(reply replicarpc.WriteQueryReply, err error) bool {
			return err == nil && reply.Status.OK
		},
	)
	if !result.OK {
		return tag.Zero, fmt.Errorf("put %q write-query phase: %w (%d/%d)", key, ErrQuorumUnreached, result.Accepted, c.w)
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

func (c *Client) readQueryPhase(ctx context.Context, key string) (tag.Tag, string, error) {
	result := quorum.Do(ctx, len(c.replicas), c.r,
		func(ctx context.Context, i int) (replicarpc.ReadQueryReply, error) {
			return c.replicas[i].ReadQuery(ctx, key)
		},
		func(reply replicarpc.ReadQueryReply, err error) bool {
			return err == nil && reply.Status.OK
		},
	)
	if !result.OK {
		return tag.Zero, "", fmt.Errorf("get %q read-query phase: %w (%d/%d)", key, ErrQuorumUnreached, result.Accepted, c.r)
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

func (c *Client) writePropPhase(ctx context.Context, key string, t tag.Tag, value string) error {
	result := quorum.Do(ctx, len(c.replicas), c.w,
		func(ctx context.Context, i int) (replicarpc.WritePropReply, error) {
			return c.replicas[i].WriteProp(ctx, replicarpc.WritePropRequest{Key: key, Tag: t, Value: value})
		},
		func(reply replicarpc.WritePropReply, err error) bool {
			return err == nil && reply.Status.OK
		},
	)
	if !result.OK {
		return fmt.Errorf("key %q write-prop phase: %w (%d/%d)", key, ErrQuorumUnreached, result.Accepted, c.w)
	}
	return nil
}

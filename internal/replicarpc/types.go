// Package replicarpc defines the wire shapes for the five unary RPCs a
// replica exposes (WriteQuery, ReadQuery, WriteProp, AcquireLock,
// ReleaseLock) and the ReplicaClient interface the quorum fan-out engine
// and client protocols dial against.
//
// Every reply carries its own Status, kept distinct from however the
// transport reports success: a replica that is reachable but whose logical
// call failed (e.g. ReleaseLock by a non-holder) returns transport success
// with Status.OK == false. Callers must check both.
package replicarpc

import (
	"context"

	"quorumkv/internal/tag"
)

// Status is the logical outcome of an RPC, independent of transport-level
// success. A transport failure (timeout, connection refused, non-2xx with
// no parseable body) never produces a Status at all — the caller sees a Go
// error from the ReplicaClient method instead.
type Status struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// WriteQueryReply answers the max-tag phase of PUT.
type WriteQueryReply struct {
	Status Status  `json:"status"`
	Tag    tag.Tag `json:"tag"`
}

// ReadQueryReply answers the max-tag/value phase of GET.
type ReadQueryReply struct {
	Status Status  `json:"status"`
	Tag    tag.Tag `json:"tag"`
	Value  string  `json:"value"`
}

// WritePropRequest proposes a (tag, value) pair for key, sent both by PUT's
// propagate phase and by GET's write-back phase.
type WritePropRequest struct {
	Key   string  `json:"key"`
	Tag   tag.Tag `json:"tag"`
	Value string  `json:"value"`
}

// WritePropReply acknowledges a WriteProp. Status.OK is always true when the
// replica processed the proposal — WriteProp never rejects a well-formed
// request, it only decides whether to apply it.
type WritePropReply struct {
	Status Status `json:"status"`
}

// LockRequest names the key and the client asking to (re)acquire or release
// its advisory lock.
type LockRequest struct {
	Key      string `json:"key"`
	ClientID string `json:"client_id"`
}

// AcquireLockReply reports whether the lock was granted, and to whom it is
// currently held if not.
type AcquireLockReply struct {
	Status  Status `json:"status"`
	Granted bool   `json:"granted"`
	Holder  string `json:"holder,omitempty"`
}

// ReleaseLockReply reports whether the release succeeded.
type ReleaseLockReply struct {
	Status Status `json:"status"`
}

// ReplicaClient is the per-replica stub the quorum fan-out engine and the
// client protocols call through. A non-nil error means the RPC did not
// complete at the transport layer (timeout, dial failure, malformed
// response) — it carries no Status, because there is none to report.
type ReplicaClient interface {
	// Address identifies the replica this stub talks to. The blocking client
	// selects its locked subset by replica index, not by Address.
	Address() string

	WriteQuery(ctx context.Context, key string) (WriteQueryReply, error)
	ReadQuery(ctx context.Context, key string) (ReadQueryReply, error)
	WriteProp(ctx context.Context, req WritePropRequest) (WritePropReply, error)
	AcquireLock(ctx context.Context, req LockRequest) (AcquireLockReply, error)
	ReleaseLock(ctx context.Context, req LockRequest) (ReleaseLockReply, error)
}

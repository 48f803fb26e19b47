package clientproto

import "errors"

// ErrQuorumUnreached is returned by any phase of PUT or GET that failed to
// collect enough successful replies from the fan-out to meet its threshold.
var ErrQuorumUnreached = errors.New("quorum not reached")

// ErrLockTimeout is returned by the blocking protocol when a quorum of
// per-key locks could not be acquired within the caller's context deadline.
var ErrLockTimeout = errors.New("lock acquisition timed out")

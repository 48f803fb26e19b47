package replicarpc

import (
	"quorumkv/internal/lock"
	"quorumkv/internal/store"
)

// Service implements the replica side of the five RPCs over a register
// store and a lock table. It holds no transport concerns — transport/http
// adapts this to gin routes.
type Service struct {
	store *store.Store
	locks *lock.Table
}

// NewService wires a register store and a lock table into one replica
// service. Both are owned exclusively by this Service once constructed.
func NewService(s *store.Store, l *lock.Table) *Service {
	return &Service{store: s, locks: l}
}

// WriteQuery answers the max-tag phase of PUT for key.
func (s *Service) WriteQuery(key string) WriteQueryReply {
	return WriteQueryReply{
		Status: Status{OK: true},
		Tag:    s.store.WriteQuery(key),
	}
}

// ReadQuery answers the max-tag/value phase of GET for key.
func (s *Service) ReadQuery(key string) ReadQueryReply {
	entry := s.store.ReadQuery(key)
	return ReadQueryReply{
		Status: Status{OK: true},
		Tag:    entry.Tag,
		Value:  entry.Value,
	}
}

// WriteProp applies a proposed (tag, value) under the store's merge rule.
func (s *Service) WriteProp(req WritePropRequest) WritePropReply {
	s.store.WriteProp(req.Key, req.Tag, req.Value)
	return WritePropReply{Status: Status{OK: true}}
}

// AcquireLock grants or denies req.ClientID the lock on req.Key.
func (s *Service) AcquireLock(req LockRequest) AcquireLockReply {
	granted, holder := s.locks.Acquire(req.Key, req.ClientID)
	return AcquireLockReply{
		Status:  Status{OK: true},
		Granted: granted,
		Holder:  holder,
	}
}

// ReleaseLock releases req.Key if req.ClientID currently holds it. A release
// attempt by a non-holder is a well-formed request that simply fails its
// logical check — Status.OK reflects that failure, not a transport error.
func (s *Service) ReleaseLock(req LockRequest) ReleaseLockReply {
	ok := s.locks.Release(req.Key, req.ClientID)
	if !ok {
		return ReleaseLockReply{Status: Status{OK: false, Error: "not lock holder"}}
	}
	return ReleaseLockReply{Status: Status{OK: true}}
}

// Dump exposes the store's non-durable debug snapshot.
func (s *Service) Dump() map[string]store.Entry {
	return s.store.Dump()
}

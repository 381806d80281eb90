// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package score

import (
	"context"
	"sync"
)

// Backend is a backing policy for the score store.
type Backend interface {
	// Type returns the registered backend type, e.g. "redis".
	Type() string

	// Load returns the persisted mapping.
	Load(ctx context.Context) (Mapping, error)

	// Put writes name's absolute new value. snapshot is the full mapping
	// after the write; durable backends persist it whole, remote backends
	// only write the named entry.
	Put(ctx context.Context, name string, value int, snapshot Mapping) error

	// Subscribe registers fn to receive the entries other writers put
	// from now on. Echoes of this backend's own writes are not delivered.
	// Backends without remote writers return a no-op subscription.
	Subscribe(ctx context.Context, fn func(Mapping)) (Subscription, error)

	Close() error
}

// Pinger is implemented by backends that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Subscription is a cancellation handle for a backend subscription.
type Subscription interface {
	Cancel()
}

// SubscriptionFunc adapts a function to Subscription. The function runs at most once.
func SubscriptionFunc(fn func()) Subscription {
	return &funcSubscription{fn: fn}
}

type funcSubscription struct {
	once sync.Once
	fn   func()
}

func (s *funcSubscription) Cancel() {
	s.once.Do(s.fn)
}

// NopSubscription is returned by backends that never push updates.
var NopSubscription Subscription = SubscriptionFunc(func() {})

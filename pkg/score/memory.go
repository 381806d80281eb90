// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package score

import "context"

// MemoryBackendType is the ephemeral, in-process backing policy.
const MemoryBackendType = "memory"

// MemoryBackend keeps nothing beyond the store's own mapping; scores are
// lost when the process exits.
type MemoryBackend struct{}

// NewMemoryBackend creates an ephemeral backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (b *MemoryBackend) Type() string { return MemoryBackendType }

func (b *MemoryBackend) Load(ctx context.Context) (Mapping, error) {
	return Mapping{}, nil
}

func (b *MemoryBackend) Put(ctx context.Context, name string, value int, snapshot Mapping) error {
	return nil
}

func (b *MemoryBackend) Subscribe(ctx context.Context, fn func(Mapping)) (Subscription, error) {
	return NopSubscription, nil
}

func (b *MemoryBackend) Close() error { return nil }

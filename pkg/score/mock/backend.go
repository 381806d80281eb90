package mock

import (
	"context"
	"slices"
	"sync"

	"github.com/AccelByte/extend-flick-countdown/pkg/score"
)

// Put records one Backend.Put call.
type Put struct {
	Name     string
	Value    int
	Snapshot score.Mapping
}

// Backend is a mock implementation of score.Backend for testing
type Backend struct {
	// Function fields for custom behavior
	LoadFunc      func(ctx context.Context) (score.Mapping, error)
	PutFunc       func(ctx context.Context, name string, value int, snapshot score.Mapping) error
	SubscribeFunc func(ctx context.Context, fn func(score.Mapping)) (score.Subscription, error)

	// Simple fields for common scenarios
	Initial  score.Mapping
	LoadErr  error
	PutErr   error
	PingErr  error
	TypeName string

	mu          sync.Mutex
	puts        []Put
	subscribers []func(score.Mapping)
	cancelled   int
	closed      bool
}

// NewBackend creates a new mock backend
func NewBackend() *Backend {
	return &Backend{TypeName: "mock"}
}

// WithInitial sets the mapping Load returns
func (b *Backend) WithInitial(m score.Mapping) *Backend {
	b.Initial = m
	return b
}

// WithLoadError sets an error for Load
func (b *Backend) WithLoadError(err error) *Backend {
	b.LoadErr = err
	return b
}

// WithPutError sets an error for Put
func (b *Backend) WithPutError(err error) *Backend {
	b.PutErr = err
	return b
}

func (b *Backend) Type() string { return b.TypeName }

// Load returns mocked stored scores
func (b *Backend) Load(ctx context.Context) (score.Mapping, error) {
	if b.LoadFunc != nil {
		return b.LoadFunc(ctx)
	}
	if b.LoadErr != nil {
		return nil, b.LoadErr
	}
	return b.Initial.Clone(), nil
}

// Put records the write
func (b *Backend) Put(ctx context.Context, name string, value int, snapshot score.Mapping) error {
	b.mu.Lock()
	b.puts = append(b.puts, Put{Name: name, Value: value, Snapshot: snapshot.Clone()})
	b.mu.Unlock()

	if b.PutFunc != nil {
		return b.PutFunc(ctx, name, value, snapshot)
	}
	return b.PutErr
}

// Subscribe registers fn for Push
func (b *Backend) Subscribe(ctx context.Context, fn func(score.Mapping)) (score.Subscription, error) {
	if b.SubscribeFunc != nil {
		return b.SubscribeFunc(ctx, fn)
	}

	b.mu.Lock()
	b.subscribers = append(b.subscribers, fn)
	b.mu.Unlock()

	return score.SubscriptionFunc(func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.subscribers = nil
		b.cancelled++
	}), nil
}

// Ping returns PingErr
func (b *Backend) Ping(ctx context.Context) error {
	return b.PingErr
}

func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// Push simulates entries written by another writer
func (b *Backend) Push(m score.Mapping) {
	b.mu.Lock()
	subscribers := slices.Clone(b.subscribers)
	b.mu.Unlock()

	for _, fn := range subscribers {
		fn(m)
	}
}

// Puts returns the recorded writes
func (b *Backend) Puts() []Put {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Put(nil), b.puts...)
}

// Cancelled returns how many subscriptions were cancelled
func (b *Backend) Cancelled() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cancelled
}

// Closed reports whether Close was called
func (b *Backend) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

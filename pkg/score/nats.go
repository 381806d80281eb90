// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package score

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/AccelByte/extend-flick-countdown/pkg/common"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/sirupsen/logrus"
)

// NATSBackendType is the shared remote backing policy on a JetStream KeyValue bucket.
const NATSBackendType = "nats"

const watcherStopTimeout = 2 * time.Second

var natsKeyPattern = regexp.MustCompile(`^[-/_=.a-zA-Z0-9]+$`)

// NATSBackendConfig configures the NATS backend.
type NATSBackendConfig struct {
	Bucket string
}

// NATSBackend keeps one KeyValue entry per participant. Watching the
// bucket yields every put made after the watch started.
type NATSBackend struct {
	nc     *nats.Conn
	kv     jetstream.KeyValue
	bucket string

	// values this backend put whose watcher echo has not arrived yet
	mu     sync.Mutex
	echoes map[string][]int
}

// NewNATSBackend creates or binds the bucket cfg.Bucket.
func NewNATSBackend(ctx context.Context, nc *nats.Conn, cfg NATSBackendConfig) (*NATSBackend, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: nats bucket is required", ErrInvalidConfig)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      cfg.Bucket,
		Description: "flick scores",
		History:     1,
	})
	if err != nil {
		return nil, fmt.Errorf("create key value bucket %s: %w", cfg.Bucket, err)
	}

	logrus.Infof("bound NATS score bucket %s", cfg.Bucket)
	return &NATSBackend{nc: nc, kv: kv, bucket: cfg.Bucket, echoes: make(map[string][]int)}, nil
}

func (b *NATSBackend) Type() string { return NATSBackendType }

// Load reads every key of the bucket, ordered by name.
func (b *NATSBackend) Load(ctx context.Context) (Mapping, error) {
	keys, err := b.kv.Keys(ctx)
	if errors.Is(err, jetstream.ErrNoKeysFound) {
		return Mapping{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list keys of %s: %w", b.bucket, err)
	}

	values := make(map[string]int, len(keys))
	for _, key := range keys {
		entry, err := b.kv.Get(ctx, key)
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", key, err)
		}
		v, err := parseScore(entry.Value())
		if err != nil {
			logrus.Warnf("skipping %s: %v", key, err)
			continue
		}
		values[key] = v
	}
	return FromMap(values), nil
}

// Put writes name's absolute value. Concurrent writers resolve last-write-wins.
func (b *NATSBackend) Put(ctx context.Context, name string, value int, snapshot Mapping) error {
	if !natsKeyPattern.MatchString(name) {
		return fmt.Errorf("%w: %q is not a valid key", ErrInvalidValue, name)
	}
	b.expectEcho(name, value)
	if _, err := b.kv.Put(ctx, name, []byte(strconv.Itoa(value))); err != nil {
		b.consumeEcho(name, value)
		return fmt.Errorf("put %s: %w", name, err)
	}
	return nil
}

func (b *NATSBackend) expectEcho(name string, value int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.echoes[name] = append(b.echoes[name], value)
}

// consumeEcho reports whether value is a pending echo of name and forgets it.
func (b *NATSBackend) consumeEcho(name string, value int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	pending := b.echoes[name]
	i := slices.Index(pending, value)
	if i < 0 {
		return false
	}
	pending = slices.Delete(pending, i, i+1)
	if len(pending) == 0 {
		delete(b.echoes, name)
	} else {
		b.echoes[name] = pending
	}
	return true
}

// Subscribe watches the whole bucket for puts by other writers.
// Deletes are ignored; a participant never loses its entry.
func (b *NATSBackend) Subscribe(ctx context.Context, fn func(Mapping)) (Subscription, error) {
	watcher, err := b.kv.WatchAll(context.Background(), jetstream.UpdatesOnly(), jetstream.IgnoreDeletes())
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", b.bucket, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer common.Recover("nats score watcher")

		for entry := range watcher.Updates() {
			if entry == nil || entry.Operation() != jetstream.KeyValuePut {
				continue
			}
			v, err := parseScore(entry.Value())
			if err != nil {
				logrus.Warnf("skipping %s: %v", entry.Key(), err)
				continue
			}
			if b.consumeEcho(entry.Key(), v) {
				continue
			}
			fn(Mapping{{Name: entry.Key(), Score: v}})
		}
	}()

	logrus.Infof("watching NATS score bucket %s", b.bucket)

	return SubscriptionFunc(func() {
		if err := watcher.Stop(); err != nil {
			logrus.Warnf("failed to stop score watcher: %v", err)
		}
		select {
		case <-done:
		case <-time.After(watcherStopTimeout):
			logrus.Warnf("score watcher on %s did not stop in %s", b.bucket, watcherStopTimeout)
		}
	}), nil
}

// Ping implements Pinger.
func (b *NATSBackend) Ping(ctx context.Context) error {
	if status := b.nc.Status(); status != nats.CONNECTED {
		return fmt.Errorf("nats connection is %s", status)
	}
	return nil
}

// Close leaves the connection to its owner.
func (b *NATSBackend) Close() error {
	return nil
}

func parseScore(raw []byte) (int, error) {
	v, err := strconv.Atoi(string(raw))
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidValue, raw)
	}
	return v, nil
}

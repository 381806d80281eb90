// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package score

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/AccelByte/extend-flick-countdown/pkg/common"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// RedisBackendType is the shared remote backing policy on Redis.
	RedisBackendType = "redis"
	// redisKeyPrefix is the prefix for all score keys
	redisKeyPrefix = "flick_countdown:"
)

// RedisBackendConfig configures the Redis backend.
type RedisBackendConfig struct {
	Namespace string
}

// RedisBackend stores scores in a hash under the namespace and announces
// every write, with its value, on a pub/sub channel.
type RedisBackend struct {
	client  redis.UniversalClient
	hashKey string
	channel string
	origin  string

	mu     sync.Mutex
	closed bool
}

// NewRedisBackend creates a Redis backend. The client is owned by the caller.
func NewRedisBackend(client redis.UniversalClient, cfg RedisBackendConfig) *RedisBackend {
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	return &RedisBackend{
		client:  client,
		hashKey: makeRedisKey(cfg.Namespace, "scores"),
		channel: makeRedisKey(cfg.Namespace, "changed"),
		origin:  uuid.New().String(),
	}
}

// changeMessage is published on the channel after every Put.
type changeMessage struct {
	Origin string `json:"origin"`
	Name   string `json:"name"`
	Value  int    `json:"value"`
}

// makeRedisKey creates a Redis key for a namespace
func makeRedisKey(namespace, suffix string) string {
	return fmt.Sprintf("%s%s:%s", redisKeyPrefix, namespace, suffix)
}

func (r *RedisBackend) Type() string { return RedisBackendType }

// Load reads the whole hash, ordered by name.
func (r *RedisBackend) Load(ctx context.Context) (Mapping, error) {
	data, err := r.client.HGetAll(ctx, r.hashKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read scores: %w", err)
	}

	values := make(map[string]int, len(data))
	for name, raw := range data {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			logrus.Warnf("skipping %s: %v (%q)", name, ErrInvalidValue, raw)
			continue
		}
		values[name] = v
	}
	return FromMap(values), nil
}

// Put sets name's absolute value and announces the change. Concurrent
// writers racing on one name resolve last-write-wins.
func (r *RedisBackend) Put(ctx context.Context, name string, value int, snapshot Mapping) error {
	payload, err := json.Marshal(changeMessage{Origin: r.origin, Name: name, Value: value})
	if err != nil {
		return fmt.Errorf("failed to encode change for %s: %w", name, err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.hashKey, name, value)
		pipe.Publish(ctx, r.channel, payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set score for %s: %w", name, err)
	}
	return nil
}

// Subscribe delivers every change announced by other writers until the
// subscription is cancelled.
func (r *RedisBackend) Subscribe(ctx context.Context, fn func(Mapping)) (Subscription, error) {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	pubsub := r.client.Subscribe(ctx, r.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", r.channel, err)
	}

	done := make(chan struct{})

	go func() {
		defer close(done)
		defer common.Recover("redis score subscription")

		for msg := range pubsub.Channel() {
			r.deliver(msg.Payload, fn)
		}
	}()

	logrus.Infof("subscribed to score changes on %s", r.channel)

	return SubscriptionFunc(func() {
		if err := pubsub.Close(); err != nil {
			logrus.Warnf("failed to close score subscription: %v", err)
		}
		<-done
		logrus.Infof("unsubscribed from %s", r.channel)
	}), nil
}

func (r *RedisBackend) deliver(payload string, fn func(Mapping)) {
	var change changeMessage
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		logrus.Warnf("skipping malformed score change %q: %v", payload, err)
		return
	}
	if change.Origin == r.origin {
		return
	}
	if change.Name == "" || change.Value < 0 {
		logrus.Warnf("skipping %s: %v (%d)", change.Name, ErrInvalidValue, change.Value)
		return
	}
	fn(Mapping{{Name: change.Name, Score: change.Value}})
}

// Ping implements Pinger.
func (r *RedisBackend) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close marks the backend closed. The Redis client is left open.
func (r *RedisBackend) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

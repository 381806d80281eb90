// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/AccelByte/extend-flick-countdown/internal/config"
	"github.com/AccelByte/extend-flick-countdown/pkg/score"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Connections holds the clients dialed for remote score backends.
type Connections struct {
	Redis *redis.Client
	NATS  *nats.Conn
}

// Close releases every open client.
func (c *Connections) Close() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logrus.Errorf("Redis close error: %v", err)
		}
		c.Redis = nil
	}
	if c.NATS != nil {
		c.NATS.Close()
		c.NATS = nil
	}
}

// RegisterRemoteBackends registers the redis and nats backend types.
// Their factories dial on first use and keep the client in conns.
//
// The memory and sqlite types are registered by pkg/score itself since
// they need no external client.
func RegisterRemoteBackends(cfg *config.Config, conns *Connections) {
	score.RegisterBackendType(score.RedisBackendType, func(ctx context.Context, bc score.BackendConfig) (score.Backend, error) {
		if conns.Redis == nil {
			client, err := ConnectRedis(ctx, cfg)
			if err != nil {
				return nil, err
			}
			conns.Redis = client
		}
		return score.NewRedisBackend(conns.Redis, score.RedisBackendConfig{Namespace: bc.Namespace}), nil
	})

	score.RegisterBackendType(score.NATSBackendType, func(ctx context.Context, bc score.BackendConfig) (score.Backend, error) {
		if conns.NATS == nil {
			nc, err := ConnectNATS(ctx, cfg)
			if err != nil {
				return nil, err
			}
			conns.NATS = nc
		}
		return score.NewNATSBackend(ctx, conns.NATS, score.NATSBackendConfig{
			Bucket: bc.String("bucket", bc.Namespace),
		})
	})
}

// InitScoreStore creates the configured backend and a store seeded with
// the participants, registers listeners and then loads it.
func InitScoreStore(ctx context.Context, cfg *config.Config, namespace string, participants []string, conns *Connections, listeners ...func(score.Mapping)) (*score.Store, error) {
	if namespace == "" {
		namespace = score.DefaultNamespace
	}

	backend, err := score.CreateBackend(ctx, score.BackendConfig{
		Type:      cfg.ScoreBackend,
		Namespace: namespace,
		Parameters: map[string]interface{}{
			"path":   cfg.SQLitePath,
			"bucket": cfg.NATSBucket,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s score backend: %w", cfg.ScoreBackend, err)
	}

	store := score.NewStore(backend, &score.Lockdown{}, participants...)
	for _, fn := range listeners {
		store.OnChange(fn)
	}
	if err := store.Load(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to load scores: %w", err)
	}

	logrus.Infof("initialized %s score store with %d participants", backend.Type(), len(store.Snapshot()))
	return store, nil
}

// ConnectRedis dials Redis and retries the first ping with exponential backoff.
func ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.RedisPassword,
		DB:           0, // use default DB
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	err := backoff.Retry(
		func() error {
			_, err := client.Ping(ctx).Result()
			if err != nil {
				logrus.Warnf("Redis connection failed: %v, retrying...", err)
				return err
			}
			return nil
		},
		retryPolicy(ctx, cfg),
	)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr(), err)
	}

	logrus.Info("Redis client initialized")
	return client, nil
}

// ConnectNATS dials NATS, retrying with exponential backoff.
func ConnectNATS(ctx context.Context, cfg *config.Config) (*nats.Conn, error) {
	var nc *nats.Conn

	err := backoff.Retry(
		func() error {
			conn, err := nats.Connect(cfg.NATSURL,
				nats.Name(cfg.ServiceName),
				nats.MaxReconnects(-1),
				nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
					if err != nil {
						logrus.Warnf("NATS disconnected: %v", err)
					}
				}),
				nats.ReconnectHandler(func(c *nats.Conn) {
					logrus.Infof("NATS reconnected to %s", c.ConnectedUrl())
				}),
			)
			if err != nil {
				logrus.Warnf("NATS connection failed: %v, retrying...", err)
				return err
			}
			nc = conn
			return nil
		},
		retryPolicy(ctx, cfg),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.NATSURL, err)
	}

	logrus.Info("NATS connection initialized")
	return nc, nil
}

func retryPolicy(ctx context.Context, cfg *config.Config) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if cfg.RedisRetryDelayMs > 0 {
		b.InitialInterval = time.Duration(cfg.RedisRetryDelayMs) * time.Millisecond
	}
	retries := cfg.RedisMaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}

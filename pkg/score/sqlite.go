// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package score

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const (
	// SQLiteBackendType is the local durable backing policy.
	SQLiteBackendType = "sqlite"
	// DefaultNamespace is the key scores are stored under when none is configured.
	DefaultNamespace = "flick-scores"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS score_state (
    namespace TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteBackendConfig configures the local durable backend.
type SQLiteBackendConfig struct {
	Path        string
	Namespace   string
	BusyTimeout time.Duration
}

// SQLiteBackend persists the whole mapping as one JSON document keyed by
// namespace in a local SQLite file.
type SQLiteBackend struct {
	db        *sql.DB
	namespace string
}

// OpenSQLiteBackend opens (and creates if needed) the database at cfg.Path.
func OpenSQLiteBackend(ctx context.Context, cfg SQLiteBackendConfig) (*SQLiteBackend, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("%w: sqlite path is required", ErrInvalidConfig)
	}
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
		cfg.Path, cfg.BusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", cfg.Path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database %s: %w", cfg.Path, err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logrus.Infof("opened sqlite score store at %s (namespace %s)", cfg.Path, cfg.Namespace)
	return &SQLiteBackend{db: db, namespace: cfg.Namespace}, nil
}

func (b *SQLiteBackend) Type() string { return SQLiteBackendType }

// Load reads the stored mapping; an unknown namespace yields an empty mapping.
func (b *SQLiteBackend) Load(ctx context.Context) (Mapping, error) {
	var data string
	err := b.db.QueryRowContext(ctx,
		`SELECT value FROM score_state WHERE namespace = ?`, b.namespace).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		logrus.Infof("no stored scores for namespace %s", b.namespace)
		return Mapping{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read scores: %w", err)
	}

	var m Mapping
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scores: %w", err)
	}
	for _, e := range m {
		if e.Score < 0 {
			return nil, fmt.Errorf("%w: %s=%d", ErrInvalidValue, e.Name, e.Score)
		}
	}
	return m, nil
}

// Put stores snapshot as the namespace's document.
func (b *SQLiteBackend) Put(ctx context.Context, name string, value int, snapshot Mapping) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal scores: %w", err)
	}

	_, err = b.db.ExecContext(ctx, `
INSERT INTO score_state (namespace, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(namespace) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		b.namespace, string(data))
	if err != nil {
		return fmt.Errorf("failed to write scores: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Subscribe(ctx context.Context, fn func(Mapping)) (Subscription, error) {
	return NopSubscription, nil
}

// Ping implements Pinger.
func (b *SQLiteBackend) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

// Config holds all application configuration loaded from environment variables.
// This struct uses github.com/caarlos0/env for automatic environment variable parsing.
//
// Event data (target date, participants, final texts) lives in the event
// file at EventConfigPath; TARGET_DATE overrides the file's target.
type Config struct {
	// ============================================================
	// Server configuration
	// ============================================================
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8000"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"FlickCountdown"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// ============================================================
	// Countdown configuration
	// ============================================================
	EventConfigPath string `env:"EVENT_CONFIG_PATH" envDefault:"config/countdown.yaml"`
	TargetDate      string `env:"TARGET_DATE"`
	TimeZone        string `env:"TIME_ZONE"`
	TickIntervalMs  int    `env:"TICK_INTERVAL_MS" envDefault:"1000"`

	// ============================================================
	// Score backend configuration
	// ============================================================
	ScoreBackend   string `env:"SCORE_BACKEND" envDefault:"memory"`
	ScoreNamespace string `env:"SCORE_NAMESPACE"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"flick.db"`

	// ============================================================
	// Redis configuration
	// ============================================================
	RedisHost         string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort         string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword     string `env:"REDIS_PASSWORD"`
	RedisMaxRetries   int    `env:"REDIS_MAX_RETRIES" envDefault:"5"`
	RedisRetryDelayMs int    `env:"REDIS_RETRY_DELAY_MS" envDefault:"1000"`

	// ============================================================
	// NATS configuration
	// ============================================================
	NATSURL    string `env:"NATS_URL" envDefault:"nats://localhost:4222"`
	NATSBucket string `env:"NATS_BUCKET"`

	// ============================================================
	// Telemetry configuration
	// ============================================================
	OtelEnabled bool   `env:"OTEL_ENABLED" envDefault:"true"`
	ZipkinURL   string `env:"OTEL_EXPORTER_ZIPKIN_ENDPOINT"`
}

// RedisAddr returns host:port for the Redis client.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"fmt"
	"time"

	"github.com/AccelByte/extend-flick-countdown/pkg/score"
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Load reads configuration from environment variables.
// It attempts to load from .env file first (for local development),
// then parses environment variables into the Config struct.
func Load() (*Config, error) {
	// In production (Docker/K8s), environment variables are injected directly
	if err := godotenv.Load(); err != nil {
		logrus.Warnf("no .env file found or error loading it: %v (this is normal in production)", err)
	} else {
		logrus.Infof("loaded environment variables from .env file")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}

	return cfg, nil
}

// Validate performs custom validation on the configuration.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT: %d (must be 1-65535)", c.HTTPPort)
	}

	if c.MetricsPort < 1 || c.MetricsPort > 65535 {
		return fmt.Errorf("invalid METRICS_PORT: %d (must be 1-65535)", c.MetricsPort)
	}

	if c.HTTPPort == c.MetricsPort {
		return fmt.Errorf("HTTP_PORT and METRICS_PORT must differ (both %d)", c.HTTPPort)
	}

	if c.TickIntervalMs <= 0 {
		return fmt.Errorf("invalid TICK_INTERVAL_MS: %d (must be positive)", c.TickIntervalMs)
	}

	if !knownBackend(c.ScoreBackend) {
		return fmt.Errorf("invalid SCORE_BACKEND: %q (known: %v)", c.ScoreBackend, score.BackendTypes())
	}

	if c.TimeZone != "" {
		if _, err := time.LoadLocation(c.TimeZone); err != nil {
			return fmt.Errorf("invalid TIME_ZONE %q: %w", c.TimeZone, err)
		}
	}

	return nil
}

// TickInterval returns the countdown tick period.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

// LogrusLevel parses LogLevel, falling back to info.
func (c *Config) LogrusLevel() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// Backend types wired in bootstrap are not all registered at validation
// time, so the names are listed here.
func knownBackend(name string) bool {
	switch name {
	case score.MemoryBackendType, score.SQLiteBackendType, score.RedisBackendType, score.NATSBackendType:
		return true
	}
	for _, t := range score.BackendTypes() {
		if t == name {
			return true
		}
	}
	return false
}

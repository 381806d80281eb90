// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package score

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// HealthChecker provides backend health check functionality
type HealthChecker struct {
	backend Backend
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(backend Backend) *HealthChecker {
	return &HealthChecker{backend: backend}
}

// Check pings the backend when it supports it. Backends without a
// Pinger are always healthy.
func (h *HealthChecker) Check(ctx context.Context) error {
	pinger, ok := h.backend.(Pinger)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := pinger.Ping(ctx); err != nil {
		logrus.Errorf("%s backend health check failed: %v", h.backend.Type(), err)
		return err
	}

	logrus.Debugf("%s backend health check passed", h.backend.Type())
	return nil
}

// IsHealthy returns true if the backend is reachable
func (h *HealthChecker) IsHealthy(ctx context.Context) bool {
	return h.Check(ctx) == nil
}

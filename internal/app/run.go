// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
)

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}

	// Wait for shutdown signal
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logrus.Info("shutdown signal received")
	return a.Shutdown(context.Background())
}

// Start launches the hub, the servers and the countdown.
func (a *App) Start(ctx context.Context) error {
	go a.hub.Start(a.runCtx)

	if err := a.httpServer.Start(ctx); err != nil {
		return err
	}
	if a.metricsServer != nil {
		if err := a.metricsServer.Start(ctx); err != nil {
			return err
		}
	}

	if a.engine != nil {
		if err := a.engine.Start(a.runCtx); err != nil {
			return err
		}
	} else if !a.store.Lockdown().Engaged() {
		logrus.Warn("countdown is disabled, scores stay open")
	}

	logrus.Info("application started successfully")
	return nil
}

// Shutdown gracefully shuts down all application components.
//
// Components are shut down in reverse dependency order:
// 1. Stop the countdown
// 2. Stop accepting new requests (HTTP + metrics servers)
// 3. Disconnect display clients and cancel the score subscription
// 4. Close external connections (Redis, NATS)
// 5. Flush telemetry data (OpenTelemetry)
//
// Shutdown errors are logged but don't stop the shutdown sequence.
func (a *App) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down application...")

	if a.engine != nil {
		a.engine.Stop()
	}

	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			logrus.Errorf("HTTP server shutdown error: %v", err)
		}
	}
	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			logrus.Errorf("metrics server shutdown error: %v", err)
		}
	}

	a.release(ctx)

	logrus.Info("application shutdown complete")
	return nil
}

// release cancels background work and closes external resources.
func (a *App) release(ctx context.Context) {
	a.releaseOnce.Do(func() {
		if a.cancelRun != nil {
			a.cancelRun()
		}

		if a.store != nil {
			if err := a.store.Close(); err != nil {
				logrus.Errorf("score store close error: %v", err)
			}
		}

		if a.conns != nil {
			a.conns.Close()
		}

		if a.shutdownTelemetry != nil {
			if err := a.shutdownTelemetry(ctx); err != nil {
				logrus.Errorf("telemetry shutdown error: %v", err)
			}
		}
	})
}

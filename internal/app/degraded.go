// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-flick-countdown/internal/config"
	"github.com/AccelByte/extend-flick-countdown/internal/server"
	"github.com/AccelByte/extend-flick-countdown/pkg/display"
	"github.com/AccelByte/extend-flick-countdown/pkg/score"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// startupFailure fails every health check with the startup error.
type startupFailure struct {
	err error
}

func (f startupFailure) Check(ctx context.Context) error {
	return fmt.Errorf("startup failed: %w", f.err)
}

// NewDegraded creates an application that only serves the display with
// the reload notice raised. Scores are locked and empty, and the health
// check reports cause. It is what main runs when New fails.
func NewDegraded(cfg *config.Config, cause error) (*App, error) {
	logrus.Warnf("serving degraded display after startup failure: %v", cause)

	a := &App{
		cfg:   cfg,
		clock: clockwork.NewRealClock(),
	}
	a.runCtx, a.cancelRun = context.WithCancel(context.Background())

	a.surface = display.NewMemory(display.DefaultLayout())
	a.hub = display.NewHub(a.surface, display.DefaultHubConfig())
	a.hub.Alert(StartupFailedNotice)

	a.store = score.NewStore(score.NewMemoryBackend(), nil)
	a.store.Freeze()

	a.httpServer = server.NewHTTPServer(cfg.HTTPPort, a.store, a.hub, startupFailure{err: cause})
	if err := a.httpServer.Setup(); err != nil {
		a.release(context.Background())
		return nil, fmt.Errorf("failed to setup HTTP server: %w", err)
	}

	return a, nil
}

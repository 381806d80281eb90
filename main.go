// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package main

import (
	"context"
	"os"

	"github.com/AccelByte/extend-flick-countdown/internal/app"
	"github.com/AccelByte/extend-flick-countdown/internal/config"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.Infof("starting flick countdown server..")

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid config: %v", err)
	}
	logrus.SetLevel(cfg.LogrusLevel())

	ctx := context.Background()

	application, startErr := app.New(ctx, cfg)
	if startErr != nil {
		logrus.Errorf("failed to initialize application: %v", startErr)

		// keep serving the display so clients see the reload notice
		application, err = app.NewDegraded(cfg, startErr)
		if err != nil {
			logrus.Errorf("failed to start degraded display: %v", err)
			os.Exit(1)
		}
	}

	if err := application.Run(ctx); err != nil {
		logrus.Errorf("application error: %v", err)
		os.Exit(1)
	}
	if startErr != nil {
		os.Exit(1)
	}
}

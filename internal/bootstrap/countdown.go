// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"fmt"

	"github.com/AccelByte/extend-flick-countdown/internal/config"
	"github.com/AccelByte/extend-flick-countdown/pkg/completion"
	"github.com/AccelByte/extend-flick-countdown/pkg/countdown"
	"github.com/AccelByte/extend-flick-countdown/pkg/display"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// InitCountdown parses the event target and creates the engine, wired to
// run handler on expiry. Errors wrap countdown.ErrInvalidTarget when the
// target date is unusable.
func InitCountdown(
	cfg *config.Config,
	event *config.Event,
	clock clockwork.Clock,
	surface display.Surface,
	handler *completion.Handler,
) (*countdown.Engine, error) {
	target, err := event.Target()
	if err != nil {
		return nil, err
	}

	engine, err := countdown.NewEngine(countdown.Config{
		Target:   target,
		Interval: cfg.TickInterval(),
	}, clock, surface, handler.Run)
	if err != nil {
		return nil, fmt.Errorf("failed to create countdown engine: %w", err)
	}

	logrus.Infof("initialized countdown to %s (tick %s)", target, cfg.TickInterval())
	return engine, nil
}

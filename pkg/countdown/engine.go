// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package countdown

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AccelByte/extend-flick-countdown/pkg/common"
	"github.com/AccelByte/extend-flick-countdown/pkg/display"
	"github.com/AccelByte/extend-flick-countdown/pkg/metrics"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// DefaultInterval is the tick period used when Config.Interval is zero.
const DefaultInterval = time.Second

// Config holds the countdown parameters.
type Config struct {
	Target   time.Time
	Interval time.Duration
}

// ExpireFunc runs once when the countdown reaches its target.
type ExpireFunc func(ctx context.Context)

// Engine publishes the remaining time to a display surface on every tick
// and runs the expiry callback once the target is reached.
type Engine struct {
	source   *TimeSource
	clock    clockwork.Clock
	target   time.Time
	interval time.Duration
	surface  display.Surface
	onExpire ExpireFunc

	mu      sync.Mutex
	task    *Task
	started bool
	expired bool

	expireOnce sync.Once
}

// NewEngine validates cfg and creates an idle engine. clock may be nil
// to use the real clock.
func NewEngine(cfg Config, clock clockwork.Clock, surface display.Surface, onExpire ExpireFunc) (*Engine, error) {
	if cfg.Target.IsZero() {
		return nil, fmt.Errorf("%w: target not set", ErrInvalidTarget)
	}
	if cfg.Interval < 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInterval, cfg.Interval)
	}
	if cfg.Interval == 0 {
		cfg.Interval = DefaultInterval
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Engine{
		source:   NewTimeSource(clock),
		clock:    clock,
		target:   cfg.Target,
		interval: cfg.Interval,
		surface:  surface,
		onExpire: onExpire,
	}, nil
}

// Target returns the instant the engine counts down to.
func (e *Engine) Target() time.Time {
	return e.target
}

// Start runs one tick immediately, then schedules a tick every interval.
// Calling Start again before Stop returns ErrAlreadyStarted.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return ErrAlreadyStarted
	}
	e.started = true
	e.mu.Unlock()

	logrus.Infof("countdown started, target %s", e.target.Format(time.RFC3339))

	e.Tick(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.expired || !e.started {
		return nil
	}
	e.task = Every(e.clock, e.interval, func() { e.Tick(ctx) })
	return nil
}

// Tick publishes the time left. Once the target is reached it stops the
// schedule, runs the expiry callback and zeroes the fields; the callback
// runs only on the first such tick.
func (e *Engine) Tick(ctx context.Context) (Remaining, bool) {
	metrics.CountdownTicksTotal.Inc()

	remaining, ok := e.source.Until(e.target)
	if !ok {
		e.expire(ctx)
		return Remaining{}, false
	}

	e.publish(remaining)
	return remaining, true
}

func (e *Engine) expire(ctx context.Context) {
	e.expireOnce.Do(func() {
		e.mu.Lock()
		e.expired = true
		e.mu.Unlock()
		e.Stop()

		logrus.Info("countdown reached its target")
		if e.onExpire != nil {
			func() {
				defer common.Recover("countdown expiry")
				e.onExpire(ctx)
			}()
		}

		e.publish(Remaining{})
		metrics.CountdownCompleted.Set(1)
	})
}

// Expired reports whether the target has been reached.
func (e *Engine) Expired() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.expired
}

// Stop cancels the tick schedule. It is safe to call on a stopped engine.
func (e *Engine) Stop() {
	e.mu.Lock()
	task := e.task
	e.task = nil
	e.started = false
	e.mu.Unlock()

	if task != nil {
		task.Stop()
	}
}

func (e *Engine) publish(r Remaining) {
	fields := []struct {
		id    string
		value int
	}{
		{display.ElementDays, r.Days},
		{display.ElementHours, r.Hours},
		{display.ElementMinutes, r.Minutes},
		{display.ElementSeconds, r.Seconds},
	}

	for _, f := range fields {
		if err := e.surface.SetText(f.id, common.Pad(f.value)); err != nil {
			if errors.Is(err, display.ErrElementNotFound) {
				logrus.Debugf("countdown field skipped: %v", err)
				continue
			}
			logrus.Errorf("failed to update countdown field %s: %v", f.id, err)
		}
	}
}

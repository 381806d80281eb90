// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/AccelByte/extend-flick-countdown/internal/bootstrap"
	"github.com/AccelByte/extend-flick-countdown/internal/config"
	"github.com/AccelByte/extend-flick-countdown/internal/server"
	"github.com/AccelByte/extend-flick-countdown/pkg/completion"
	"github.com/AccelByte/extend-flick-countdown/pkg/countdown"
	"github.com/AccelByte/extend-flick-countdown/pkg/display"
	"github.com/AccelByte/extend-flick-countdown/pkg/score"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// Notices shown on the display when startup goes wrong.
const (
	InvalidTargetNotice = "Erro: Data de destino inválida. Por favor, contate o administrador."
	StartupFailedNotice = "Ocorreu um erro ao carregar a página. Por favor, recarregue."
)

// App holds all application dependencies and manages the application lifecycle.
type App struct {
	cfg   *config.Config
	event *config.Event
	clock clockwork.Clock

	surface    *display.Memory
	hub        *display.Hub
	store      *score.Store
	completion *completion.Handler
	engine     *countdown.Engine
	conns      *bootstrap.Connections

	httpServer        *server.HTTPServer
	metricsServer     *server.MetricsServer
	shutdownTelemetry func(context.Context) error

	// runCtx scopes the hub loop and the remote score subscription.
	runCtx      context.Context
	cancelRun   context.CancelFunc
	releaseOnce sync.Once
}

// Option customizes an App.
type Option func(*App)

// WithClock replaces the real clock driving the countdown.
func WithClock(clock clockwork.Clock) Option {
	return func(a *App) { a.clock = clock }
}

// New creates and initializes a new application instance.
//
// Components are initialized in dependency order:
// 1. Telemetry
// 2. Display surface and WebSocket hub
// 3. Event file
// 4. Score store (backend, seed participants, scoreboard rendering)
// 5. Completion handler and countdown engine
// 6. Servers (HTTP, metrics)
//
// An invalid target date does not fail startup: the countdown is disabled
// and a notice is raised on the display. Any other failure, including a
// panic, releases what was set up and is returned; see NewDegraded.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (app *App, err error) {
	logrus.Info("initializing application...")

	a := &App{
		cfg:   cfg,
		clock: clockwork.NewRealClock(),
		conns: &bootstrap.Connections{},
	}
	for _, opt := range opts {
		opt(a)
	}
	a.runCtx, a.cancelRun = context.WithCancel(context.Background())

	defer func() {
		if r := recover(); r != nil {
			app, err = nil, a.fail(fmt.Errorf("panic during startup: %v", r))
		}
	}()

	// ============================================================
	// Step 1: Setup telemetry
	// ============================================================
	if cfg.OtelEnabled {
		shutdownTelemetry, err := server.SetupTelemetry(ctx, cfg.ServiceName, cfg.Environment, 0, cfg.ZipkinURL)
		if err != nil {
			return nil, a.fail(fmt.Errorf("failed to setup telemetry: %w", err))
		}
		a.shutdownTelemetry = shutdownTelemetry
	}

	// ============================================================
	// Step 2: Display surface
	// ============================================================
	a.surface = display.NewMemory(display.DefaultLayout())
	a.hub = display.NewHub(a.surface, display.DefaultHubConfig())

	// ============================================================
	// Step 3: Load event configuration
	// ============================================================
	event, err := config.LoadEvent(cfg.EventConfigPath)
	if err != nil {
		return nil, a.fail(fmt.Errorf("failed to load event config from %s: %w", cfg.EventConfigPath, err))
	}
	event.ApplyOverrides(cfg)
	a.event = event
	logrus.Infof("loaded event configuration from %s", cfg.EventConfigPath)

	// ============================================================
	// Step 4: Score store
	// ============================================================
	bootstrap.RegisterRemoteBackends(cfg, a.conns)

	// the presenter listens before Load so the loaded mapping and every
	// remote change after it render in order
	presenter := display.NewPresenter(a.hub)
	store, err := bootstrap.InitScoreStore(a.runCtx, cfg, event.Namespace, event.Participants, a.conns, presenter.Render)
	if err != nil {
		return nil, a.fail(fmt.Errorf("failed to init score store: %w", err))
	}
	a.store = store

	a.hub.OnFlick(func(ctx context.Context, name string) {
		store.Increment(ctx, name)
	})

	// ============================================================
	// Step 5: Completion and countdown
	// ============================================================
	a.completion = completion.NewHandler(store, a.hub, event.Final)

	engine, err := bootstrap.InitCountdown(cfg, event, a.clock, a.hub, a.completion)
	switch {
	case errors.Is(err, countdown.ErrInvalidTarget):
		logrus.Errorf("countdown disabled: %v", err)
		a.hub.Alert(InvalidTargetNotice)
	case err != nil:
		return nil, a.fail(fmt.Errorf("failed to init countdown: %w", err))
	default:
		a.engine = engine
	}

	// ============================================================
	// Step 6: Setup servers
	// ============================================================
	a.httpServer = server.NewHTTPServer(cfg.HTTPPort, store, a.hub, score.NewHealthChecker(store.Backend()))
	if err := a.httpServer.Setup(); err != nil {
		return nil, a.fail(fmt.Errorf("failed to setup HTTP server: %w", err))
	}

	a.metricsServer = server.NewMetricsServer(cfg.MetricsPort, "/metrics")
	if err := a.metricsServer.Setup(); err != nil {
		return nil, a.fail(fmt.Errorf("failed to setup metrics server: %w", err))
	}

	logrus.Info("application initialized successfully")

	return a, nil
}

// Surface returns the display state shared with clients.
func (a *App) Surface() *display.Memory {
	return a.surface
}

// Store returns the score store.
func (a *App) Store() *score.Store {
	return a.store
}

// Completion returns the end-of-countdown handler.
func (a *App) Completion() *completion.Handler {
	return a.completion
}

// CountdownEnabled reports whether the target date was usable.
func (a *App) CountdownEnabled() bool {
	return a.engine != nil
}

// fail releases whatever was set up.
func (a *App) fail(err error) error {
	logrus.Errorf("application startup failed: %v", err)
	a.release(context.Background())
	return err
}

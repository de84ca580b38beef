// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/platepicker/internal/api"
	"github.com/tomtom215/platepicker/internal/auth"
	"github.com/tomtom215/platepicker/internal/authz"
	"github.com/tomtom215/platepicker/internal/events"
	"github.com/tomtom215/platepicker/internal/logging"
	"github.com/tomtom215/platepicker/internal/supervisor"
	"github.com/tomtom215/platepicker/internal/supervisor/services"
)

// HTTPHandler builds the routed handler with sessions, authorization and
// rate limits applied.
func (a *App) HTTPHandler() (http.Handler, error) {
	cfg := a.Config

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return nil, fmt.Errorf("init session tokens: %w", err)
	}
	enforcer, err := authz.NewEnforcer(authz.EnforcerConfig{
		AdminUsernames: cfg.Security.AdminUsernames,
		CacheSize:      1024,
		CacheTTL:       5 * time.Minute,
	})
	if err != nil {
		return nil, fmt.Errorf("init authorization: %w", err)
	}

	deps := api.Deps{
		Engine:   a.Engine,
		Recorder: a.Recorder,
		Accounts: a.Accounts,
		JWT:      jwtManager,
	}
	if a.DB != nil {
		deps.DB = a.DB
	}
	if a.Trainer != nil {
		deps.Trainer = a.Trainer
		deps.Model = a.Scorer
	}
	handler, err := api.NewHandler(cfg, deps)
	if err != nil {
		return nil, err
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	mw := api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(&cfg.Security))
	return api.NewRouter(handler, mw, enforcer).SetupChi(), nil
}

// Serve runs the HTTP server, the event router and the scheduled retrain
// under one supervisor tree until ctx is canceled.
func (a *App) Serve(ctx context.Context) error {
	cfg := a.Config

	handler, err := a.HTTPHandler()
	if err != nil {
		return err
	}
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), treeCfg)
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	// Data layer
	if a.Trainer != nil && (cfg.Recommend.RetrainInterval > 0 || cfg.Recommend.TrainOnStartup) {
		tree.AddDataService(services.NewRetrainService(a.Trainer, services.RetrainServiceConfig{
			Interval:       cfg.Recommend.RetrainInterval,
			TrainOnStartup: cfg.Recommend.TrainOnStartup,
			Timeout:        cfg.Recommend.TrainTimeout,
		}))
		logging.Info().Dur("interval", cfg.Recommend.RetrainInterval).Msg("Retrain service added to supervisor tree")
	}

	// Messaging layer
	router := events.NewRouter(a.Bus.Subscriber(), events.RouterConfigFrom(&cfg.Events))
	var trigger events.RetrainTrigger
	if a.Trainer != nil {
		trigger = a.Trainer
	}
	events.Register(router, a.Engine.Bandit(), trigger)
	tree.AddMessagingService(router)

	// API layer
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree")
	if err := <-tree.ServeBackground(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	return nil
}

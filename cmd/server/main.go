// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/insightops/internal/api"
	"github.com/tomtom215/insightops/internal/auth"
	"github.com/tomtom215/insightops/internal/authz"
	"github.com/tomtom215/insightops/internal/changefeed"
	"github.com/tomtom215/insightops/internal/config"
	"github.com/tomtom215/insightops/internal/logging"
	"github.com/tomtom215/insightops/internal/metrics"
	"github.com/tomtom215/insightops/internal/query"
	"github.com/tomtom215/insightops/internal/store"
	"github.com/tomtom215/insightops/internal/supervisor"
	"github.com/tomtom215/insightops/internal/supervisor/services"
	ws "github.com/tomtom215/insightops/internal/websocket"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("storage_backend", cfg.Storage.Backend).
		Str("storage_path", cfg.Storage.Path).
		Msg("Starting InsightOps with supervisor tree")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// === DATA LAYER ===

	snapshotter, closeSnapshotter, err := openSnapshotter(&cfg.Storage, tree)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open snapshot backend")
	}
	defer func() {
		if err := closeSnapshotter(); err != nil {
			logging.Error().Err(err).Msg("Error closing snapshot backend")
		}
	}()

	var seed store.SeedFunc
	if cfg.Storage.SeedEvents {
		//nolint:gosec // demo data, not security sensitive
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		seed = store.SeedFuncFor(rng, query.SystemClock{}, cfg.Storage.SeedCount)
	}
	eventStore, err := store.Open(ctx, snapshotter, seed)
	if err != nil {
		// Fatal skips deferred calls.
		_ = closeSnapshotter()
		logging.Fatal().Err(err).Msg("Failed to load events")
	}
	logging.Info().Int("events", eventStore.Len()).Msg("Event store ready")

	wmLogger := changefeed.NewLogger()
	pubSub := changefeed.NewPubSub(wmLogger)
	defer func() {
		if err := pubSub.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing change feed")
		}
	}()
	eventStore.SetPublisher(changefeed.NewPublisher(pubSub))

	// === MESSAGING LAYER ===

	wsHub := ws.NewHub()
	tree.AddMessagingService(wsHub)
	tree.AddDataService(changefeed.NewForwarder(pubSub, wsHub, wmLogger))

	// === API LAYER ===

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		_ = closeSnapshotter()
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}
	users, err := auth.NewSeededDirectory(auth.DefaultBcryptCost, auth.DefaultSeedUsers())
	if err != nil {
		_ = closeSnapshotter()
		logging.Fatal().Err(err).Msg("Failed to seed user directory")
	}
	authenticator := auth.NewAuthenticator(jwtManager, users, api.WriteError)
	logging.Info().
		Int("users", users.Len()).
		Dur("session_timeout", jwtManager.Timeout()).
		Msg("Authentication initialized")

	enforcer, err := authz.NewEnforcer(cfg.Security.Authz)
	if err != nil {
		_ = closeSnapshotter()
		logging.Fatal().Err(err).Msg("Failed to load authorization policy")
	}

	loginLimiter := auth.NewLoginLimiter(cfg.Security.LoginRateLimit, cfg.Security.LoginRateBurst)
	tree.AddAPIService(loginLimiter)

	chiMiddleware := api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security))
	handler := api.NewHandler(api.HandlerDeps{
		Store:          eventStore,
		Authenticator:  authenticator,
		Limiter:        loginLimiter,
		Hub:            wsHub,
		AllowedOrigins: chiMiddleware.Origins(),
	})
	router := api.NewRouter(handler, authenticator, enforcer, chiMiddleware)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	// WriteTimeout stays unset so /events/stream connections are not cut.
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	// === START SUPERVISOR TREE ===

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	stop()

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// openSnapshotter builds the configured backend. The badger backend also
// registers its value log GC with the data layer.
func openSnapshotter(cfg *config.StorageConfig, tree *supervisor.SupervisorTree) (store.Snapshotter, func() error, error) {
	switch cfg.Backend {
	case config.StorageBadger:
		db, err := store.OpenBadger(store.BadgerOptions{
			Path:       cfg.Path,
			SyncWrites: cfg.SyncWrites,
		})
		if err != nil {
			return nil, nil, err
		}
		tree.AddDataService(services.NewBadgerGCService(db, services.DefaultGCInterval, services.DefaultGCDiscardRatio))
		return db, db.Close, nil

	case config.StorageFile, "":
		snap := store.NewFileSnapshotter(cfg.Path)
		logging.Info().Str("path", snap.Path()).Msg("Using JSON file snapshot")
		return snap, func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

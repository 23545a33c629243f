// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/classmatch/internal/api"
	"github.com/tomtom215/classmatch/internal/catalog"
	"github.com/tomtom215/classmatch/internal/config"
	"github.com/tomtom215/classmatch/internal/logging"
	"github.com/tomtom215/classmatch/internal/recommend"
	"github.com/tomtom215/classmatch/internal/recommend/algorithms"
	"github.com/tomtom215/classmatch/internal/supervisor"
	"github.com/tomtom215/classmatch/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// initialLoadTimeout bounds the catalog load at startup.
const initialLoadTimeout = time.Minute

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.LoggingInit())
	logging.Info().Str("version", version).Str("config", cfg.String()).Msg("Starting Classmatch")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Catalog
	catalogCfg := cfg.CatalogConfig()
	repo := catalog.NewRepository(catalog.NewSource(catalogCfg), catalogCfg.Format)

	if catalogCfg.SnapshotPath != "" {
		snapshots, err := catalog.OpenSnapshotStore(catalogCfg.SnapshotPath)
		if err != nil {
			logging.Fatal().Err(err).Str("path", catalogCfg.SnapshotPath).Msg("Failed to open catalog snapshot store")
		}
		defer func() {
			if err := snapshots.Close(); err != nil {
				logging.Error().Err(err).Msg("Failed to close catalog snapshot store")
			}
		}()
		repo.SetSnapshotStore(snapshots)
	}

	loadCtx, cancelLoad := context.WithTimeout(ctx, initialLoadTimeout)
	cat, err := repo.Reload(loadCtx)
	cancelLoad()
	if err != nil {
		logging.Error().Err(err).Msg("Initial catalog load failed")
		// Without a snapshot the API reports CATALOG_UNAVAILABLE until a
		// scheduled or manual reload succeeds.
		if restored, rerr := repo.Restore(); rerr != nil {
			logging.Error().Err(rerr).Msg("No catalog snapshot to restore, serving without a catalog")
		} else {
			logging.Warn().
				Int("resources", len(restored.Resources)).
				Str("source", restored.Source).
				Msg("Serving last-known-good catalog until the source recovers")
		}
	} else {
		logging.Info().
			Int("resources", len(cat.Resources)).
			Int64("version", cat.Version).
			Str("source", cat.Source).
			Msg("Catalog ready")
	}

	// Recommendation engine
	recCfg := cfg.RecommendConfig()
	engine, err := recommend.NewEngine(recCfg, algorithms.NewModels(recCfg), repo, logging.WithComponent("recommend"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	// HTTP API
	handler := api.NewHandler(engine, repo, api.HandlerConfig{
		Version:        version,
		ReloadInterval: cfg.Server.ReloadInterval,
		ReloadBurst:    cfg.Server.ReloadBurst,
	})
	mwConfig := api.NewChiMiddlewareConfig(
		cfg.Server.CORSOrigins,
		cfg.Server.RateLimitReqs,
		cfg.Server.RateLimitWindow,
		cfg.Server.RateLimitDisabled,
	)
	if cfg.Server.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	router := api.NewRouter(handler, mwConfig, 0)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Supervisor tree
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout + time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	if catalogCfg.ReloadSchedule != "" {
		reloadSvc, err := services.NewCatalogReloadService(repo, catalogCfg.ReloadSchedule, services.DefaultReloadTimeout)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to create catalog reload service")
		}
		tree.AddCatalogService(reloadSvc)
	} else {
		logging.Info().Msg("Scheduled catalog reloads disabled")
	}

	logging.Info().Str("addr", server.Addr).Msg("Supervisor tree starting")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
		}
	}
	logging.Info().Msg("Classmatch stopped")
}

// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/tomtom215/classmatch/internal/logging"
	"github.com/tomtom215/classmatch/internal/recommend"
)

// DefaultReloadTimeout bounds a single scheduled reload.
const DefaultReloadTimeout = 2 * time.Minute

// CatalogReloader reloads the catalog. Satisfied by *catalog.Repository.
type CatalogReloader interface {
	Reload(ctx context.Context) (*recommend.Catalog, error)
}

// CatalogReloadService reloads the catalog on a cron schedule.
//
// A failed reload is logged and the next tick tries again; the repository
// keeps serving its previous snapshot. A reload still running when the
// next tick fires is skipped rather than queued.
type CatalogReloadService struct {
	reloader CatalogReloader
	schedule cron.Schedule
	spec     string
	timeout  time.Duration
	logger   zerolog.Logger

	runs     atomic.Int64
	failures atomic.Int64
}

// NewCatalogReloadService parses spec with the standard five-field cron
// parser, which also accepts descriptors such as "@every 15m" and "@hourly".
func NewCatalogReloadService(reloader CatalogReloader, spec string, timeout time.Duration) (*CatalogReloadService, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog reload schedule %q: %w", spec, err)
	}
	svc := NewCatalogReloadServiceWithSchedule(reloader, schedule, timeout)
	svc.spec = spec
	return svc, nil
}

// NewCatalogReloadServiceWithSchedule uses an already parsed schedule.
func NewCatalogReloadServiceWithSchedule(reloader CatalogReloader, schedule cron.Schedule, timeout time.Duration) *CatalogReloadService {
	if timeout <= 0 {
		timeout = DefaultReloadTimeout
	}
	return &CatalogReloadService{
		reloader: reloader,
		schedule: schedule,
		spec:     "custom",
		timeout:  timeout,
		logger:   logging.WithComponent("catalog-reload"),
	}
}

// Serve implements suture.Service. It returns when ctx is canceled, after
// any running reload has finished.
func (s *CatalogReloadService) Serve(ctx context.Context) error {
	cronLogger := cronLogAdapter{logger: s.logger}
	c := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	c.Schedule(s.schedule, cron.FuncJob(func() { s.RunOnce(ctx) }))

	c.Start()
	s.logger.Info().Str("schedule", s.spec).Msg("Catalog reload scheduler started")

	<-ctx.Done()
	<-c.Stop().Done()
	s.logger.Info().Msg("Catalog reload scheduler stopped")
	return ctx.Err()
}

// RunOnce performs one reload with the service timeout.
func (s *CatalogReloadService) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	ctx = logging.ContextWithCorrelationID(ctx, logging.GenerateCorrelationID())
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.runs.Add(1)
	start := time.Now()
	cat, err := s.reloader.Reload(ctx)
	if err != nil {
		s.failures.Add(1)
		s.logger.Warn().
			Err(err).
			Str("correlation_id", logging.CorrelationIDFromContext(ctx)).
			Msg("Scheduled catalog reload failed")
		return
	}
	s.logger.Debug().
		Int64("version", cat.Version).
		Int("resources", len(cat.Resources)).
		Dur("duration", time.Since(start)).
		Msg("Scheduled catalog reload completed")
}

// Runs returns the number of reload attempts.
func (s *CatalogReloadService) Runs() int64 { return s.runs.Load() }

// Failures returns the number of failed reload attempts.
func (s *CatalogReloadService) Failures() int64 { return s.failures.Load() }

// String implements fmt.Stringer.
func (s *CatalogReloadService) String() string {
	return "catalog-reload"
}

// cronLogAdapter routes cron's own logging through zerolog.
type cronLogAdapter struct {
	logger zerolog.Logger
}

var _ cron.Logger = cronLogAdapter{}

func (a cronLogAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (a cronLogAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	a.logger.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}

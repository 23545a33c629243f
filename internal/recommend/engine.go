// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/classmatch/internal/metrics"
)

// Outcomes recorded per pipeline run.
const (
	outcomeRanked  = "ranked"
	outcomeEmpty   = "empty"
	outcomeInvalid = "invalid"
	outcomeError   = "error"
)

// Engine runs the recommendation pipeline over the current catalog snapshot.
// It holds no model state: every call obtains fresh models from the factory.
// It is safe for concurrent use.
type Engine struct {
	config  *Config
	logger  zerolog.Logger
	models  Models
	catalog CatalogProvider

	requestCount    atomic.Int64
	errorCount      atomic.Int64
	emptyCount      atomic.Int64
	weightFallbacks atomic.Int64
	treeFallbacks   atomic.Int64
}

// Stats are cumulative engine counters.
type Stats struct {
	RequestCount        int64 `json:"request_count"`
	ErrorCount          int64 `json:"error_count"`
	EmptyCount          int64 `json:"empty_count"`
	WeightFallbacks     int64 `json:"weight_fallbacks"`
	ClassifierFallbacks int64 `json:"classifier_fallbacks"`
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, models Models, catalog CatalogProvider, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if models == nil {
		return nil, fmt.Errorf("models factory is required")
	}

	return &Engine{
		config:  cfg.Clone(),
		logger:  logger.With().Str("component", "recommend").Logger(),
		models:  models,
		catalog: catalog,
	}, nil
}

// Recommend ranks the catalog for a teacher profile.
//
// Steps run strictly in order: weights, eligibility, clustering, scoring,
// sorting, truncation. An empty eligible set short-circuits with an empty
// ranking. A *ValidationError is returned before any model runs.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	e.requestCount.Add(1)

	req, err := e.prepareRequest(req)
	if err != nil {
		e.record(req.Strategy, outcomeInvalid, start, 0)
		return nil, err
	}
	logger := e.createRequestLogger(req)
	logger.Debug().Msg("processing recommendation request")

	snapshot, err := e.loadCatalog(ctx)
	if err != nil {
		e.errorCount.Add(1)
		e.record(req.Strategy, outcomeError, start, 0)
		return nil, err
	}
	resources := snapshot.Resources

	diag := Diagnostics{
		Strategy:       req.Strategy,
		CatalogVersion: snapshot.Version,
		TotalResources: len(resources),
		Warnings:       []string{},
	}

	weights, err := e.resolveWeights(ctx, req.Strategy, resources, &diag, logger)
	if err != nil {
		e.errorCount.Add(1)
		e.record(req.Strategy, outcomeError, start, 0)
		return nil, err
	}
	diag.Weights = weights

	eligibility, err := e.models.EligibilityFilter(req.Strategy).Filter(ctx, &req.Profile, resources)
	if err != nil {
		e.errorCount.Add(1)
		e.record(req.Strategy, outcomeError, start, 0)
		return nil, fmt.Errorf("filter eligible resources: %w", err)
	}
	diag.Eligibility = eligibility
	e.observeEligibility(eligibility, &diag, logger)

	eligible, indexes := eligibleSubset(resources, eligibility.Eligible)
	diag.EligibleCount = len(eligible)
	diag.FilterRate = filterRate(len(resources), len(eligible))

	if len(eligible) == 0 {
		logger.Debug().Msg("no eligible resources")
		e.emptyCount.Add(1)
		e.record(req.Strategy, outcomeEmpty, start, 0)
		return e.emptyResult(diag), nil
	}

	clustering, err := e.models.Clusterer().Cluster(ctx, &req.Profile, eligible)
	if err != nil {
		if !IsModelFitError(err) {
			e.errorCount.Add(1)
			e.record(req.Strategy, outcomeError, start, len(eligible))
			return nil, fmt.Errorf("cluster eligible resources: %w", err)
		}
		metrics.RecordModelFitError("cluster")
		diag.Warnings = append(diag.Warnings, err.Error())
		logger.Warn().Err(err).Msg("clustering degraded")
	}
	if clustering != nil {
		diag.Clustering = clustering
		diag.Warnings = append(diag.Warnings, clustering.Warnings...)
		metrics.ClusterSilhouette.Set(clustering.Silhouette)
	}

	items := e.scoreItems(req, eligible, indexes, weights, clustering)
	sortRanking(items)
	diag.MeanScore, diag.MedianScore = scoreStats(items)

	if len(items) > req.TopN {
		items = items[:req.TopN]
	}
	for i := range items {
		items[i].Rank = i + 1
	}
	diag.ReturnedCount = len(items)

	e.record(req.Strategy, outcomeRanked, start, len(eligible))
	logger.Debug().
		Int("total", diag.TotalResources).
		Int("eligible", diag.EligibleCount).
		Int("returned", diag.ReturnedCount).
		Dur("latency", time.Since(start)).
		Msg("recommendation complete")

	return &Result{Ranking: items, Diagnostics: diag}, nil
}

// Diagnostics runs each model on the current catalog and returns their
// reports for inspection. Model fit errors are reported, not returned.
func (e *Engine) Diagnostics(ctx context.Context, profile TeacherProfile) (*DiagnosticsBundle, error) {
	req, err := e.prepareRequest(Request{Profile: profile})
	if err != nil {
		return nil, err
	}
	logger := e.createRequestLogger(req)

	snapshot, err := e.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	bundle := &DiagnosticsBundle{
		Strategy:       req.Strategy,
		CatalogVersion: snapshot.Version,
	}

	regression, err := e.models.WeightFitter().Fit(ctx, snapshot.Resources)
	switch {
	case err == nil:
		bundle.Regression = regression
	case IsModelFitError(err):
		bundle.RegressionError = err.Error()
	default:
		return nil, fmt.Errorf("fit weights: %w", err)
	}

	eligibility, err := e.models.EligibilityFilter(req.Strategy).Filter(ctx, &req.Profile, snapshot.Resources)
	if err != nil {
		return nil, fmt.Errorf("filter eligible resources: %w", err)
	}
	bundle.Eligibility = eligibility

	eligible, _ := eligibleSubset(snapshot.Resources, eligibility.Eligible)
	if len(eligible) == 0 {
		bundle.ClusteringError = "no eligible resources to cluster"
		return bundle, nil
	}

	clustering, err := e.models.Clusterer().Cluster(ctx, &req.Profile, eligible)
	switch {
	case err == nil:
		bundle.Clustering = clustering
	case IsModelFitError(err):
		bundle.ClusteringError = err.Error()
	default:
		return nil, fmt.Errorf("cluster eligible resources: %w", err)
	}

	logger.Debug().Int("eligible", len(eligible)).Msg("diagnostics complete")
	return bundle, nil
}

// prepareRequest applies defaults, validates the profile and generates a
// request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) (Request, error) {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	if req.Strategy == "" {
		req.Strategy = e.config.Strategy
	}

	var fields []FieldError
	if !req.Strategy.Valid() {
		fields = append(fields, FieldError{
			Field:   "strategy",
			Tag:     "oneof",
			Message: fmt.Sprintf("strategy must be one of [%s %s]", StrategyML, StrategyRules),
		})
	}
	if req.TopN < 0 {
		fields = append(fields, FieldError{
			Field:   "top_n",
			Tag:     "gte",
			Message: "top_n must be at least 0",
		})
	}

	req.Profile.Normalize()
	if err := req.Profile.Validate(); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			fields = append(fields, verr.Fields...)
		}
	}
	if len(fields) > 0 {
		return req, &ValidationError{Fields: fields}
	}

	if req.TopN == 0 {
		req.TopN = e.config.Limits.DefaultTopN
	}
	if req.TopN > e.config.Limits.MaxTopN {
		req.TopN = e.config.Limits.MaxTopN
	}

	return req, nil
}

// createRequestLogger creates a logger with request context.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req Request) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Str("strategy", string(req.Strategy)).
		Str("subject", req.Profile.Subject).
		Logger()
}

// loadCatalog returns the current non-empty catalog snapshot.
func (e *Engine) loadCatalog(ctx context.Context) (*Catalog, error) {
	if e.catalog == nil {
		return nil, ErrNoCatalog
	}
	snapshot, err := e.catalog.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get catalog: %w", err)
	}
	if snapshot == nil || len(snapshot.Resources) == 0 {
		return nil, ErrEmptyCatalog
	}
	return snapshot, nil
}

// resolveWeights fits regression weights for the ML strategy, falling back to
// the configured defaults on a degenerate fit. The rule strategy always uses
// the defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) resolveWeights(ctx context.Context, strategy Strategy, resources []Resource, diag *Diagnostics, logger zerolog.Logger) (Characteristics, error) {
	defaults := e.config.Regression.DefaultWeights.Normalize()
	if strategy == StrategyRules {
		return defaults, nil
	}

	report, err := e.models.WeightFitter().Fit(ctx, resources)
	if err == nil {
		diag.Regression = report
		return report.Weights, nil
	}
	if !IsModelFitError(err) {
		return Characteristics{}, fmt.Errorf("fit weights: %w", err)
	}

	e.weightFallbacks.Add(1)
	metrics.RecordModelFitError("regression")
	diag.WeightsFallback = true
	diag.Warnings = append(diag.Warnings, fmt.Sprintf("using default weights: %v", err))
	logger.Warn().Err(err).Msg("weight regression degraded, using default weights")
	return defaults, nil
}

// observeEligibility records classifier quality and surfaces its warnings.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) observeEligibility(report *EligibilityReport, diag *Diagnostics, logger zerolog.Logger) {
	if report.FallbackToRules {
		e.treeFallbacks.Add(1)
	}
	if report.Method != string(StrategyRules) {
		metrics.RecordClassifier(report.TrainAccuracy, report.FallbackToRules)
	}
	if report.SingleClass {
		metrics.RecordModelFitError("classifier")
	}
	for _, w := range report.Warnings {
		logger.Warn().Str("method", report.Method).Msg(w)
	}
	diag.Warnings = append(diag.Warnings, report.Warnings...)
}

// scoreItems computes final scores and explanation fields for the eligible
// resources. indexes maps each eligible resource to its catalog position.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) scoreItems(req Request, eligible []Resource, indexes []int, weights Characteristics, clustering *ClusterReport) []RankedItem {
	explainer := e.models.Explainer()
	blend := e.config.Blend

	archetypes := make(map[int]string)
	if clustering != nil {
		for _, c := range clustering.Clusters {
			archetypes[c.ID] = c.Archetype
		}
	}

	items := make([]RankedItem, len(eligible))
	for i := range eligible {
		r := &eligible[i]
		exp := explainer.Explain(&req.Profile, r)
		base := r.Characteristics.Dot(weights)

		item := RankedItem{
			ID:              r.ID,
			Name:            r.Name,
			Area:            r.Area,
			Category:        r.Category,
			Description:     r.Description,
			FinalScore:      base,
			ClusterID:       -1,
			Distances:       exp.Distances,
			Characteristics: r.Characteristics,
			References:      nonNil(r.References),
			Reasons:         nonNil(exp.Reasons),
			catalogIndex:    indexes[i],
		}

		if req.Strategy == StrategyRules {
			item.FinalScore = blend.Base*base + blend.Association*exp.Association + blend.Similarity*exp.Similarity
			item.Components = &ScoreComponents{
				Base:        base,
				Association: exp.Association,
				Similarity:  exp.Similarity,
			}
		}

		if clustering != nil && i < len(clustering.Assignments) {
			item.ClusterID = clustering.Assignments[i]
			item.Archetype = archetypes[item.ClusterID]
		}
		items[i] = item
	}
	return items
}

// emptyResult returns a result with no ranked items.
//
//nolint:gocritic // hugeParam: diag passed by value for immutability
func (e *Engine) emptyResult(diag Diagnostics) *Result {
	return &Result{
		Ranking:     []RankedItem{},
		Diagnostics: diag,
	}
}

// record updates engine metrics for one run.
func (e *Engine) record(strategy Strategy, outcome string, start time.Time, eligible int) {
	if strategy == "" {
		strategy = e.config.Strategy
	}
	metrics.RecordRecommendation(string(strategy), outcome, time.Since(start), eligible)
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

// Stats returns cumulative engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		RequestCount:        e.requestCount.Load(),
		ErrorCount:          e.errorCount.Load(),
		EmptyCount:          e.emptyCount.Load(),
		WeightFallbacks:     e.weightFallbacks.Load(),
		ClassifierFallbacks: e.treeFallbacks.Load(),
	}
}

// eligibleSubset returns the eligible resources in catalog order along with
// their catalog positions.
func eligibleSubset(resources []Resource, eligible []bool) ([]Resource, []int) {
	var subset []Resource
	var indexes []int
	for i := range resources {
		if i < len(eligible) && eligible[i] {
			subset = append(subset, resources[i])
			indexes = append(indexes, i)
		}
	}
	return subset, indexes
}

// sortRanking orders items by descending final score. Equal scores keep
// catalog order.
func sortRanking(items []RankedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].FinalScore != items[j].FinalScore {
			return items[i].FinalScore > items[j].FinalScore
		}
		return items[i].catalogIndex < items[j].catalogIndex
	})
}

// scoreStats returns the mean and the median of the final scores. The median
// is the element at index n/2 of the ascending scores.
func scoreStats(items []RankedItem) (mean, median float64) {
	if len(items) == 0 {
		return 0, 0
	}
	scores := make([]float64, len(items))
	var sum float64
	for i := range items {
		scores[i] = items[i].FinalScore
		sum += scores[i]
	}
	sort.Float64s(scores)
	return sum / float64(len(scores)), scores[len(scores)/2]
}

// filterRate returns the percentage of resources that were filtered out.
func filterRate(total, eligible int) float64 {
	if total == 0 {
		return 0
	}
	return float64(total-eligible) / float64(total) * 100
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

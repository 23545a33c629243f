// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package recommend

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

// mockCatalog implements CatalogProvider for testing.
type mockCatalog struct {
	catalog *Catalog
	err     error
}

func (m *mockCatalog) GetAll(ctx context.Context) (*Catalog, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.catalog, nil
}

func (m *mockCatalog) GetByID(ctx context.Context, id string) (*Resource, error) {
	for i := range m.catalog.Resources {
		if m.catalog.Resources[i].ID == id {
			return &m.catalog.Resources[i], nil
		}
	}
	return nil, ErrResourceNotFound
}

// mockFitter implements WeightFitter for testing.
type mockFitter struct {
	report *RegressionReport
	err    error
	calls  *atomic.Int32
}

func (m *mockFitter) Fit(ctx context.Context, resources []Resource) (*RegressionReport, error) {
	m.calls.Add(1)
	return m.report, m.err
}

// mockFilter implements EligibilityFilter with a predicate.
type mockFilter struct {
	method   string
	eligible func(r *Resource) bool
	calls    *atomic.Int32
}

func (m *mockFilter) Filter(ctx context.Context, p *TeacherProfile, resources []Resource) (*EligibilityReport, error) {
	m.calls.Add(1)
	report := &EligibilityReport{Method: m.method, TrainAccuracy: 1, Warnings: []string{}}
	for i := range resources {
		ok := m.eligible == nil || m.eligible(&resources[i])
		report.Eligible = append(report.Eligible, ok)
		if ok {
			report.EligibleIDs = append(report.EligibleIDs, resources[i].ID)
		}
	}
	return report, nil
}

// mockClusterer puts every resource in cluster 0.
type mockClusterer struct {
	err error
}

func (m *mockClusterer) Cluster(ctx context.Context, p *TeacherProfile, resources []Resource) (*ClusterReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	report := &ClusterReport{
		K:           1,
		Assignments: make([]int, len(resources)),
		Clusters:    []ClusterProfile{{ID: 0, Archetype: "Multi-purpose", Size: len(resources)}},
		Warnings:    []string{},
	}
	return report, nil
}

// mockExplainer returns fixed association and similarity.
type mockExplainer struct {
	association float64
	similarity  float64
}

func (m *mockExplainer) Explain(p *TeacherProfile, r *Resource) Explanation {
	return Explanation{Association: m.association, Similarity: m.similarity, Reasons: []string{"fixed"}}
}

// mockModels implements Models for testing.
type mockModels struct {
	fitter     *mockFitter
	filter     *mockFilter
	clusterer  *mockClusterer
	explainer  *mockExplainer
	fitCalls   atomic.Int32
	filterCall atomic.Int32
}

func newMockModels() *mockModels {
	m := &mockModels{
		clusterer: &mockClusterer{},
		explainer: &mockExplainer{association: 0.5, similarity: 0.2},
	}
	m.fitter = &mockFitter{
		report: &RegressionReport{Weights: DefaultConfig().Regression.DefaultWeights.Normalize()},
		calls:  &m.fitCalls,
	}
	m.filter = &mockFilter{method: "decision_tree", calls: &m.filterCall}
	return m
}

func (m *mockModels) WeightFitter() WeightFitter { return m.fitter }

func (m *mockModels) EligibilityFilter(s Strategy) EligibilityFilter { return m.filter }

func (m *mockModels) Clusterer() Clusterer { return m.clusterer }

func (m *mockModels) Explainer() Explainer { return m.explainer }

func testResource(id string, ease, engagement, adaptability, infra, cost float64) Resource {
	return Resource{
		ID:   id,
		Name: "Resource " + id,
		Area: SubjectMultidisciplinary,
		Characteristics: Characteristics{
			EaseOfUse:                  ease,
			EngagementPotential:        engagement,
			PedagogicalAdaptability:    adaptability,
			InfrastructureRequirements: infra,
			CostAccessibility:          cost,
		},
		Tags:       []string{},
		Modalities: []string{"in_person"},
		Devices:    []string{"computer"},
		References: []string{},
	}
}

func testCatalog() *Catalog {
	return &Catalog{
		Version: 1,
		Resources: []Resource{
			testResource("a", 0.5, 0.5, 0.5, 0.5, 0.5),
			testResource("b", 0.9, 0.9, 0.9, 0.9, 0.9),
			testResource("c", 0.7, 0.7, 0.7, 0.7, 0.7),
			testResource("d", 0.9, 0.9, 0.9, 0.9, 0.9),
			testResource("e", 0.2, 0.2, 0.2, 0.2, 0.2),
		},
	}
}

func testProfile() TeacherProfile {
	p := DefaultTeacherProfile()
	p.Subject = "Mathematics"
	p.Modality = "in_person"
	return p
}

func newTestEngine(t *testing.T, models Models, catalog CatalogProvider) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig(), models, catalog, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func TestNewEngine(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		models  Models
		wantErr bool
	}{
		{name: "nil config uses defaults", cfg: nil, models: newMockModels()},
		{name: "valid config", cfg: DefaultConfig(), models: newMockModels()},
		{
			name: "invalid config",
			cfg: func() *Config {
				c := DefaultConfig()
				c.Limits.DefaultTopN = 0
				return c
			}(),
			models:  newMockModels(),
			wantErr: true,
		},
		{name: "nil models", cfg: DefaultConfig(), models: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEngine(tt.cfg, tt.models, &mockCatalog{catalog: testCatalog()}, zerolog.Nop())
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewEngine() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && e == nil {
				t.Fatal("NewEngine() returned nil engine")
			}
		})
	}
}

func TestEngine_Recommend_Validation(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Request)
		wantField string
	}{
		{
			name:      "missing subject",
			modify:    func(r *Request) { r.Profile.Subject = "" },
			wantField: "subject",
		},
		{
			name:      "familiarity out of range",
			modify:    func(r *Request) { r.Profile.TechFamiliarity = 1.5 },
			wantField: "tech_familiarity",
		},
		{
			name:      "unknown strategy",
			modify:    func(r *Request) { r.Strategy = "magic" },
			wantField: "strategy",
		},
		{
			name:      "negative top_n",
			modify:    func(r *Request) { r.TopN = -1 },
			wantField: "top_n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			models := newMockModels()
			e := newTestEngine(t, models, &mockCatalog{catalog: testCatalog()})

			req := Request{Profile: testProfile()}
			tt.modify(&req)

			_, err := e.Recommend(context.Background(), req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Recommend() error = %v, want *ValidationError", err)
			}

			found := false
			for _, f := range verr.Fields {
				if f.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("ValidationError fields = %+v, want field %q", verr.Fields, tt.wantField)
			}
			if models.fitCalls.Load() != 0 || models.filterCall.Load() != 0 {
				t.Error("models ran before validation completed")
			}
		})
	}
}

func TestEngine_Recommend_CatalogErrors(t *testing.T) {
	upstream := errors.New("source down")

	tests := []struct {
		name    string
		catalog CatalogProvider
		wantErr error
	}{
		{name: "no provider", catalog: nil, wantErr: ErrNoCatalog},
		{name: "empty catalog", catalog: &mockCatalog{catalog: &Catalog{}}, wantErr: ErrEmptyCatalog},
		{name: "provider error is wrapped", catalog: &mockCatalog{err: upstream}, wantErr: upstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, newMockModels(), tt.catalog)
			_, err := e.Recommend(context.Background(), Request{Profile: testProfile()})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Recommend() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEngine_Recommend_Ranking(t *testing.T) {
	e := newTestEngine(t, newMockModels(), &mockCatalog{catalog: testCatalog()})

	result, err := e.Recommend(context.Background(), Request{Profile: testProfile()})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	wantOrder := []string{"b", "d", "c", "a", "e"}
	if len(result.Ranking) != len(wantOrder) {
		t.Fatalf("len(Ranking) = %d, want %d", len(result.Ranking), len(wantOrder))
	}
	for i, id := range wantOrder {
		if result.Ranking[i].ID != id {
			t.Errorf("Ranking[%d].ID = %q, want %q", i, result.Ranking[i].ID, id)
		}
		if result.Ranking[i].Rank != i+1 {
			t.Errorf("Ranking[%d].Rank = %d, want %d", i, result.Ranking[i].Rank, i+1)
		}
	}

	if result.Ranking[0].FinalScore != result.Ranking[1].FinalScore {
		t.Errorf("identical resources scored %v and %v", result.Ranking[0].FinalScore, result.Ranking[1].FinalScore)
	}
	for i := 1; i < len(result.Ranking); i++ {
		if result.Ranking[i].FinalScore > result.Ranking[i-1].FinalScore {
			t.Errorf("Ranking not sorted at %d: %v > %v", i, result.Ranking[i].FinalScore, result.Ranking[i-1].FinalScore)
		}
	}

	d := result.Diagnostics
	if d.TotalResources != 5 || d.EligibleCount != 5 || d.ReturnedCount != 5 {
		t.Errorf("counts = %d/%d/%d, want 5/5/5", d.TotalResources, d.EligibleCount, d.ReturnedCount)
	}
	if d.FilterRate != 0 {
		t.Errorf("FilterRate = %v, want 0", d.FilterRate)
	}
	if math.Abs(d.MedianScore-0.7) > 1e-9 {
		t.Errorf("MedianScore = %v, want 0.7", d.MedianScore)
	}
	if math.Abs(d.MeanScore-0.64) > 1e-9 {
		t.Errorf("MeanScore = %v, want 0.64", d.MeanScore)
	}
	if result.Ranking[0].Archetype != "Multi-purpose" {
		t.Errorf("Archetype = %q, want %q", result.Ranking[0].Archetype, "Multi-purpose")
	}
}

func TestEngine_Recommend_TopN(t *testing.T) {
	tests := []struct {
		name string
		topN int
		want int
	}{
		{name: "default top n covers catalog", topN: 0, want: 5},
		{name: "explicit top n truncates", topN: 2, want: 2},
		{name: "top n above catalog size", topN: 50, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, newMockModels(), &mockCatalog{catalog: testCatalog()})
			result, err := e.Recommend(context.Background(), Request{Profile: testProfile(), TopN: tt.topN})
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if len(result.Ranking) != tt.want {
				t.Errorf("len(Ranking) = %d, want %d", len(result.Ranking), tt.want)
			}
			if result.Diagnostics.EligibleCount != 5 {
				t.Errorf("EligibleCount = %d, want 5", result.Diagnostics.EligibleCount)
			}
		})
	}
}

func TestEngine_Recommend_WeightFallback(t *testing.T) {
	models := newMockModels()
	models.fitter.report = nil
	models.fitter.err = NewModelFitError("regression", ErrRankDeficient, "test")

	e := newTestEngine(t, models, &mockCatalog{catalog: testCatalog()})
	result, err := e.Recommend(context.Background(), Request{Profile: testProfile()})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	d := result.Diagnostics
	if !d.WeightsFallback {
		t.Error("WeightsFallback = false, want true")
	}
	if d.Regression != nil {
		t.Error("Regression report set after a failed fit")
	}
	want := DefaultConfig().Regression.DefaultWeights.Normalize()
	if d.Weights != want {
		t.Errorf("Weights = %+v, want %+v", d.Weights, want)
	}
	if math.Abs(d.Weights.Sum()-1) > 1e-6 {
		t.Errorf("Weights sum = %v, want 1", d.Weights.Sum())
	}
	if len(d.Warnings) == 0 {
		t.Error("Warnings empty, want fallback reason")
	}
	if got := e.Stats().WeightFallbacks; got != 1 {
		t.Errorf("Stats().WeightFallbacks = %d, want 1", got)
	}
}

func TestEngine_Recommend_FitErrorPropagates(t *testing.T) {
	models := newMockModels()
	models.fitter.report = nil
	models.fitter.err = context.Canceled

	e := newTestEngine(t, models, &mockCatalog{catalog: testCatalog()})
	_, err := e.Recommend(context.Background(), Request{Profile: testProfile()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Recommend() error = %v, want context.Canceled", err)
	}
}

func TestEngine_Recommend_EmptyEligible(t *testing.T) {
	models := newMockModels()
	models.filter.eligible = func(r *Resource) bool { return false }

	e := newTestEngine(t, models, &mockCatalog{catalog: testCatalog()})
	result, err := e.Recommend(context.Background(), Request{Profile: testProfile()})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if result.Ranking == nil || len(result.Ranking) != 0 {
		t.Errorf("Ranking = %v, want empty non-nil", result.Ranking)
	}
	d := result.Diagnostics
	if d.EligibleCount != 0 || d.TotalResources != 5 {
		t.Errorf("EligibleCount = %d, TotalResources = %d, want 0 and 5", d.EligibleCount, d.TotalResources)
	}
	if d.FilterRate != 100 {
		t.Errorf("FilterRate = %v, want 100", d.FilterRate)
	}
	if d.Regression == nil || d.Eligibility == nil {
		t.Error("empty result dropped regression or eligibility diagnostics")
	}
	if d.Clustering != nil {
		t.Error("Clustering set on an empty result")
	}
	if got := e.Stats().EmptyCount; got != 1 {
		t.Errorf("Stats().EmptyCount = %d, want 1", got)
	}
}

func TestEngine_Recommend_RulesStrategy(t *testing.T) {
	models := newMockModels()
	e := newTestEngine(t, models, &mockCatalog{catalog: testCatalog()})

	result, err := e.Recommend(context.Background(), Request{Profile: testProfile(), Strategy: StrategyRules})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if models.fitCalls.Load() != 0 {
		t.Error("rules strategy ran the weight regression")
	}

	top := result.Ranking[0]
	if top.Components == nil {
		t.Fatal("Components = nil, want blend components")
	}
	want := 0.30*top.Components.Base + 0.35*0.5 + 0.35*0.2
	if math.Abs(top.FinalScore-want) > 1e-12 {
		t.Errorf("FinalScore = %v, want %v", top.FinalScore, want)
	}
	if math.Abs(top.Components.Base-0.9) > 1e-9 {
		t.Errorf("Components.Base = %v, want 0.9", top.Components.Base)
	}
	if result.Diagnostics.Strategy != StrategyRules {
		t.Errorf("Diagnostics.Strategy = %q, want %q", result.Diagnostics.Strategy, StrategyRules)
	}
}

func TestEngine_Recommend_ClusterFitErrorDegrades(t *testing.T) {
	models := newMockModels()
	models.clusterer.err = NewModelFitError("cluster", ErrTooFewSamples, "test")

	e := newTestEngine(t, models, &mockCatalog{catalog: testCatalog()})
	result, err := e.Recommend(context.Background(), Request{Profile: testProfile()})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if result.Ranking[0].ClusterID != -1 {
		t.Errorf("ClusterID = %d, want -1", result.Ranking[0].ClusterID)
	}
	if len(result.Diagnostics.Warnings) == 0 {
		t.Error("Warnings empty, want cluster degradation")
	}
}

func TestEngine_Recommend_Deterministic(t *testing.T) {
	e := newTestEngine(t, newMockModels(), &mockCatalog{catalog: testCatalog()})

	first, err := e.Recommend(context.Background(), Request{Profile: testProfile()})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	second, err := e.Recommend(context.Background(), Request{Profile: testProfile()})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	for i := range first.Ranking {
		if first.Ranking[i].ID != second.Ranking[i].ID || first.Ranking[i].FinalScore != second.Ranking[i].FinalScore {
			t.Errorf("Ranking[%d] differs between runs", i)
		}
	}
	if got := e.Stats().RequestCount; got != 2 {
		t.Errorf("Stats().RequestCount = %d, want 2", got)
	}
}

func TestEngine_Diagnostics(t *testing.T) {
	models := newMockModels()
	models.fitter.report = nil
	models.fitter.err = NewModelFitError("regression", ErrConstantColumn, "column ease_of_use")

	e := newTestEngine(t, models, &mockCatalog{catalog: testCatalog()})
	bundle, err := e.Diagnostics(context.Background(), testProfile())
	if err != nil {
		t.Fatalf("Diagnostics() error = %v", err)
	}
	if bundle.Regression != nil || bundle.RegressionError == "" {
		t.Errorf("Regression = %v, RegressionError = %q, want error string only", bundle.Regression, bundle.RegressionError)
	}
	if bundle.Eligibility == nil {
		t.Error("Eligibility = nil")
	}
	if bundle.Clustering == nil {
		t.Error("Clustering = nil")
	}
	if bundle.CatalogVersion != 1 {
		t.Errorf("CatalogVersion = %d, want 1", bundle.CatalogVersion)
	}
}

func TestEngine_GetConfig(t *testing.T) {
	e := newTestEngine(t, newMockModels(), &mockCatalog{catalog: testCatalog()})

	cfg := e.GetConfig()
	cfg.Limits.DefaultTopN = 99
	if e.GetConfig().Limits.DefaultTopN == 99 {
		t.Error("GetConfig() returned the engine's own config")
	}
}

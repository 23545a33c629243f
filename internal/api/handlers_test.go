// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/classmatch/internal/catalog"
	"github.com/tomtom215/classmatch/internal/models"
	"github.com/tomtom215/classmatch/internal/recommend"
	"github.com/tomtom215/classmatch/internal/recommend/algorithms"
)

const testCatalogPath = "../catalog/testdata/catalog.json"

// testEnv is a router backed by a real repository and engine.
type testEnv struct {
	handler     http.Handler
	repo        *catalog.Repository
	catalogPath string
}

// newTestEnv copies the test catalog into a temp dir so tests can rewrite it.
func newTestEnv(t *testing.T, load bool, mwConfig *ChiMiddlewareConfig) *testEnv {
	t.Helper()

	data, err := os.ReadFile(testCatalogPath)
	if err != nil {
		t.Fatalf("read test catalog: %v", err)
	}
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	repo := catalog.NewRepository(catalog.NewFileSource(path), catalog.FormatAuto)
	if load {
		if _, err := repo.Reload(context.Background()); err != nil {
			t.Fatalf("Reload() error = %v", err)
		}
	}

	cfg := recommend.DefaultConfig()
	engine, err := recommend.NewEngine(cfg, algorithms.NewModels(cfg), repo, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	if mwConfig == nil {
		mwConfig = NewChiMiddlewareConfig([]string{"*"}, 1000, time.Minute, true)
	}
	handler := NewHandler(engine, repo, HandlerConfig{Version: "test"})
	router := NewRouter(handler, mwConfig, 0)

	return &testEnv{handler: router.SetupChi(), repo: repo, catalogPath: path}
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// envelope decodes the response envelope, keeping data raw.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	return env
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v (data %s)", err, env.Data)
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		load       bool
		breakAfter bool
		wantStatus string
	}{
		{name: "not loaded", load: false, wantStatus: models.HealthUnavailable},
		{name: "loaded", load: true, wantStatus: models.HealthHealthy},
		{name: "failed reload", load: true, breakAfter: true, wantStatus: models.HealthDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.load, nil)
			if tt.breakAfter {
				if err := os.WriteFile(env.catalogPath, []byte("{not json"), 0o600); err != nil {
					t.Fatal(err)
				}
				if _, err := env.repo.Reload(context.Background()); err == nil {
					t.Fatal("Reload() of malformed catalog succeeded")
				}
			}

			rec := env.do(t, http.MethodGet, "/health", "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
			}

			var health models.HealthStatus
			decodeData(t, decodeEnvelope(t, rec), &health)
			if health.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", health.Status, tt.wantStatus)
			}
			if health.Version != "test" {
				t.Errorf("Version = %q, want test", health.Version)
			}
			if tt.load && (health.CatalogVersion != 1 || health.CatalogResources != 24) {
				t.Errorf("catalog = v%d/%d resources, want v1/24", health.CatalogVersion, health.CatalogResources)
			}
		})
	}
}

func TestListResources(t *testing.T) {
	env := newTestEnv(t, true, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/resources", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	resp := decodeEnvelope(t, rec)
	if resp.Status != models.StatusSuccess {
		t.Errorf("Status = %q, want success", resp.Status)
	}
	var data struct {
		Resources []recommend.Resource `json:"resources"`
		Count     int                  `json:"count"`
		Version   int64                `json:"version"`
	}
	decodeData(t, resp, &data)
	if data.Count != 24 || len(data.Resources) != 24 {
		t.Errorf("count = %d (%d resources), want 24", data.Count, len(data.Resources))
	}
	if data.Resources[0].ID != "geogebra" {
		t.Errorf("first resource = %q, want geogebra (catalog order)", data.Resources[0].ID)
	}
	if data.Version != 1 {
		t.Errorf("version = %d, want 1", data.Version)
	}
}

func TestGetResource(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		load     bool
		wantCode int
		wantErr  string
	}{
		{name: "found", id: "phet", load: true, wantCode: http.StatusOK},
		{name: "unknown id", id: "chalkboard", load: true, wantCode: http.StatusNotFound, wantErr: ErrCodeNotFound},
		{name: "not loaded", id: "phet", load: false, wantCode: http.StatusServiceUnavailable, wantErr: ErrCodeCatalogUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.load, nil)

			rec := env.do(t, http.MethodGet, "/api/v1/resources/"+tt.id, "")
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}

			resp := decodeEnvelope(t, rec)
			if tt.wantErr != "" {
				if resp.Error == nil || resp.Error.Code != tt.wantErr {
					t.Errorf("error = %+v, want code %s", resp.Error, tt.wantErr)
				}
				return
			}
			var resource recommend.Resource
			decodeData(t, resp, &resource)
			if resource.ID != tt.id || resource.Area != recommend.SubjectNaturalSciences {
				t.Errorf("resource = %s (%s), want %s", resource.ID, resource.Area, tt.id)
			}
		})
	}
}

func TestRecommendations(t *testing.T) {
	env := newTestEnv(t, true, nil)

	tests := []struct {
		name         string
		body         string
		wantStrategy recommend.Strategy
		wantMax      int
	}{
		{
			name:         "default strategy",
			body:         `{"subject":"Mathematics","modality":"in_person"}`,
			wantStrategy: recommend.StrategyML,
			wantMax:      10,
		},
		{
			name:         "rules strategy with top_n",
			body:         `{"subject":"Mathematics","modality":"in_person","strategy":"rules","top_n":3}`,
			wantStrategy: recommend.StrategyRules,
			wantMax:      3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/v1/recommendations", tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
			}

			resp := decodeEnvelope(t, rec)
			if resp.Metadata.RequestID == "" {
				t.Error("metadata.request_id is empty")
			}
			if got := rec.Header().Get("X-Request-ID"); got != resp.Metadata.RequestID {
				t.Errorf("X-Request-ID = %q, metadata.request_id = %q", got, resp.Metadata.RequestID)
			}

			var result recommend.Result
			decodeData(t, resp, &result)
			if result.Diagnostics.Strategy != tt.wantStrategy {
				t.Errorf("strategy = %q, want %q", result.Diagnostics.Strategy, tt.wantStrategy)
			}
			if len(result.Ranking) == 0 || len(result.Ranking) > tt.wantMax {
				t.Fatalf("len(ranking) = %d, want 1..%d", len(result.Ranking), tt.wantMax)
			}
			for i := 1; i < len(result.Ranking); i++ {
				if result.Ranking[i].FinalScore > result.Ranking[i-1].FinalScore {
					t.Errorf("ranking not sorted at %d: %v > %v", i, result.Ranking[i].FinalScore, result.Ranking[i-1].FinalScore)
				}
			}
			for _, item := range result.Ranking {
				if item.Area != "Mathematics" && item.Area != recommend.SubjectMultidisciplinary {
					t.Errorf("item %s has area %q outside the subject", item.ID, item.Area)
				}
			}
		})
	}
}

func TestRecommendations_Deterministic(t *testing.T) {
	env := newTestEnv(t, true, nil)
	body := `{"subject":"Physics","modality":"hybrid","tech_familiarity":0.8,"teaching_style":"investigative"}`

	first := decodeEnvelope(t, env.do(t, http.MethodPost, "/api/v1/recommendations", body))
	second := decodeEnvelope(t, env.do(t, http.MethodPost, "/api/v1/recommendations", body))

	if !bytes.Equal(first.Data, second.Data) {
		t.Errorf("identical requests gave different results:\n%s\n%s", first.Data, second.Data)
	}
}

func TestRecommendations_NoEligibleResources(t *testing.T) {
	env := newTestEnv(t, true, nil)

	rec := env.do(t, http.MethodPost, "/api/v1/recommendations", `{"subject":"Mathematics","modality":"field_trip"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var result recommend.Result
	decodeData(t, decodeEnvelope(t, rec), &result)
	if len(result.Ranking) != 0 || result.Diagnostics.EligibleCount != 0 {
		t.Errorf("ranking = %d items, eligible = %d, want empty", len(result.Ranking), result.Diagnostics.EligibleCount)
	}
	if result.Diagnostics.TotalResources != 24 {
		t.Errorf("TotalResources = %d, want 24", result.Diagnostics.TotalResources)
	}
}

func TestRecommendations_Errors(t *testing.T) {
	tests := []struct {
		name     string
		load     bool
		body     string
		wantCode int
		wantErr  string
		wantText string
	}{
		{name: "empty body", load: true, body: "", wantCode: http.StatusBadRequest, wantErr: ErrCodeBadRequest},
		{name: "malformed json", load: true, body: `{"subject":`, wantCode: http.StatusBadRequest, wantErr: ErrCodeBadRequest},
		{name: "unknown field", load: true, body: `{"subject":"Mathematics","modality":"remote","colour":"red"}`, wantCode: http.StatusBadRequest, wantErr: ErrCodeBadRequest},
		{name: "missing subject", load: true, body: `{"modality":"remote"}`, wantCode: http.StatusBadRequest, wantErr: ErrCodeValidation, wantText: "subject"},
		{name: "out of range answer", load: true, body: `{"subject":"Mathematics","modality":"remote","tech_familiarity":1.5}`, wantCode: http.StatusBadRequest, wantErr: ErrCodeValidation, wantText: "tech_familiarity"},
		{name: "unknown strategy", load: true, body: `{"subject":"Mathematics","modality":"remote","strategy":"magic"}`, wantCode: http.StatusBadRequest, wantErr: ErrCodeValidation, wantText: "strategy"},
		{name: "catalog not loaded", load: false, body: `{"subject":"Mathematics","modality":"remote"}`, wantCode: http.StatusServiceUnavailable, wantErr: ErrCodeCatalogUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.load, nil)

			rec := env.do(t, http.MethodPost, "/api/v1/recommendations", tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantCode, rec.Body.String())
			}

			resp := decodeEnvelope(t, rec)
			if resp.Status != models.StatusError || resp.Error == nil {
				t.Fatalf("envelope = %+v, want error", resp)
			}
			if resp.Error.Code != tt.wantErr {
				t.Errorf("code = %q, want %q", resp.Error.Code, tt.wantErr)
			}
			if tt.wantText != "" && !strings.Contains(rec.Body.String(), tt.wantText) {
				t.Errorf("body %s does not mention %q", rec.Body.String(), tt.wantText)
			}
		})
	}
}

func TestRecommendations_BodyTooLarge(t *testing.T) {
	env := newTestEnv(t, true, nil)
	body := `{"subject":"` + strings.Repeat("m", 128<<10) + `","modality":"remote"}`

	rec := env.do(t, http.MethodPost, "/api/v1/recommendations", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if resp := decodeEnvelope(t, rec); resp.Error == nil || resp.Error.Code != ErrCodeBadRequest {
		t.Errorf("error = %+v, want BAD_REQUEST", resp.Error)
	}
}

func TestRecommendationDiagnostics(t *testing.T) {
	env := newTestEnv(t, true, nil)

	rec := env.do(t, http.MethodPost, "/api/v1/recommendations/diagnostics", `{"subject":"Mathematics","modality":"in_person"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var bundle recommend.DiagnosticsBundle
	decodeData(t, decodeEnvelope(t, rec), &bundle)
	if bundle.CatalogVersion != 1 {
		t.Errorf("CatalogVersion = %d, want 1", bundle.CatalogVersion)
	}
	if bundle.Eligibility == nil || len(bundle.Eligibility.EligibleIDs) == 0 {
		t.Errorf("Eligibility = %+v, want eligible ids", bundle.Eligibility)
	}
	if bundle.Regression == nil && bundle.RegressionError == "" {
		t.Error("neither a regression report nor a regression error")
	}

	rec = env.do(t, http.MethodPost, "/api/v1/recommendations/diagnostics", `{"modality":"in_person"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status without subject = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestMethodology(t *testing.T) {
	env := newTestEnv(t, true, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/methodology", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var m models.Methodology
	decodeData(t, decodeEnvelope(t, rec), &m)
	if m.DefaultStrategy != string(recommend.StrategyML) {
		t.Errorf("DefaultStrategy = %q, want ml", m.DefaultStrategy)
	}
	if len(m.Stages) != 6 {
		t.Errorf("len(Stages) = %d, want 6", len(m.Stages))
	}
	for i, stage := range m.Stages {
		if stage.Order != i+1 {
			t.Errorf("Stages[%d].Order = %d, want %d", i, stage.Order, i+1)
		}
	}
	want := "Score = (Base x 0.30) + (Association x 0.35) + (Similarity x 0.35)"
	if got := m.ScoreFormulas[string(recommend.StrategyRules)]; got != want {
		t.Errorf("rules formula = %q, want %q", got, want)
	}
	if len(m.References) == 0 {
		t.Error("no references")
	}
}

func TestReloadCatalog(t *testing.T) {
	env := newTestEnv(t, true, nil)

	rec := env.do(t, http.MethodPost, "/api/v1/catalog/reload", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var result models.ReloadResult
	decodeData(t, decodeEnvelope(t, rec), &result)
	if result.Changed || result.Version != 1 || result.Resources != 24 {
		t.Errorf("result = %+v, want unchanged v1 with 24 resources", result)
	}

	// Default burst is one; the next manual reload is throttled.
	rec = env.do(t, http.MethodPost, "/api/v1/catalog/reload", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second reload status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("throttled reload has no Retry-After header")
	}
	if resp := decodeEnvelope(t, rec); resp.Error == nil || resp.Error.Code != ErrCodeRateLimited {
		t.Errorf("error = %+v, want RATE_LIMITED", resp.Error)
	}
}

func TestReloadCatalog_Changed(t *testing.T) {
	env := newTestEnv(t, true, nil)

	doc := `{"resources":[{"id":"slate","name":"Slate","area":"Multidisciplinary","ease_of_use":0.9,"engagement_potential":0.5,"pedagogical_adaptability":0.5,"infrastructure_requirements":0.5,"cost_accessibility":1,"modalities":["in_person"]}]}`
	if err := os.WriteFile(env.catalogPath, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	rec := env.do(t, http.MethodPost, "/api/v1/catalog/reload", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var result models.ReloadResult
	decodeData(t, decodeEnvelope(t, rec), &result)
	if !result.Changed || result.Version != 2 || result.Resources != 1 {
		t.Errorf("result = %+v, want changed v2 with 1 resource", result)
	}
}

func TestReloadCatalog_Failure(t *testing.T) {
	env := newTestEnv(t, true, nil)
	if err := os.WriteFile(env.catalogPath, []byte(`{"resources":[]}`), 0o600); err != nil {
		t.Fatal(err)
	}

	rec := env.do(t, http.MethodPost, "/api/v1/catalog/reload", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != ErrCodeCatalogUnavailable {
		t.Errorf("error = %+v, want CATALOG_UNAVAILABLE", resp.Error)
	}

	// The previous snapshot keeps serving.
	if rec := env.do(t, http.MethodGet, "/api/v1/resources/geogebra", ""); rec.Code != http.StatusOK {
		t.Errorf("resource after failed reload: status = %d, want %d", rec.Code, http.StatusOK)
	}
}

// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package recommend

import (
	"context"
	"time"

	"github.com/tomtom215/classmatch/internal/validation"
)

// Tokens with fixed meaning inside questionnaires and catalogs.
const (
	// SubjectMultidisciplinary marks a resource usable in every subject.
	SubjectMultidisciplinary = "Multidisciplinary"

	// SubjectNaturalSciences is the combined area shared by the science subjects.
	SubjectNaturalSciences = "Physics/Chemistry/Biology"

	// DeviceNone in a profile's device access means students have no devices.
	DeviceNone = "none"

	// DeviceComputer is the device a resource must support for lab use.
	DeviceComputer = "computer"

	// InfrastructureLab marks a school computer lab.
	InfrastructureLab = "lab"
)

// ScienceSubjects are the subjects served by SubjectNaturalSciences resources.
var ScienceSubjects = []string{"Physics", "Chemistry", "Biology"}

// TeacherProfile is a completed teacher/classroom questionnaire.
// Continuous answers are in [0, 1]; use DefaultTeacherProfile as the base
// when decoding so absent answers keep their neutral defaults.
type TeacherProfile struct {
	// Teacher
	Subject         string  `json:"subject" validate:"required,max=120"`
	TechFamiliarity float64 `json:"tech_familiarity" validate:"probability"`
	TeachingStyle   string  `json:"teaching_style" validate:"max=120"`
	LessonObjective string  `json:"lesson_objective" validate:"max=120"`
	PrepTime        float64 `json:"prep_time" validate:"probability"`

	// Class
	ClassSize    int      `json:"class_size" validate:"gte=1,lte=1000"`
	Engagement   float64  `json:"engagement" validate:"probability"`
	DeviceAccess []string `json:"device_access" validate:"unique"`
	Connectivity float64  `json:"connectivity" validate:"probability"`
	Performance  float64  `json:"performance" validate:"probability"`

	// Lesson context
	Modality        string   `json:"modality" validate:"required,max=120"`
	LessonDuration  float64  `json:"lesson_duration" validate:"probability"`
	NeedsAssessment bool     `json:"needs_assessment"`
	Infrastructure  []string `json:"infrastructure" validate:"unique"`
}

// DefaultTeacherProfile returns a profile with every optional answer at its default.
func DefaultTeacherProfile() TeacherProfile {
	return TeacherProfile{
		TechFamiliarity: 0.5,
		PrepTime:        0.5,
		ClassSize:       30,
		Engagement:      0.5,
		DeviceAccess:    []string{},
		Connectivity:    0.5,
		Performance:     0.5,
		LessonDuration:  0.5,
		Infrastructure:  []string{},
	}
}

// Normalize replaces nil token sets with empty ones.
func (p *TeacherProfile) Normalize() {
	if p.DeviceAccess == nil {
		p.DeviceAccess = []string{}
	}
	if p.Infrastructure == nil {
		p.Infrastructure = []string{}
	}
}

// Validate checks required answers and ranges.
// Returns *ValidationError on failure.
func (p *TeacherProfile) Validate() error {
	if verr := validation.ValidateStruct(p); verr != nil {
		return newValidationError(verr)
	}
	return nil
}

// Characteristics are the five intrinsic scores describing a resource.
// The same shape carries scoring weights and per-cluster means.
type Characteristics struct {
	EaseOfUse                  float64 `json:"ease_of_use" yaml:"ease_of_use" validate:"probability"`
	EngagementPotential        float64 `json:"engagement_potential" yaml:"engagement_potential" validate:"probability"`
	PedagogicalAdaptability    float64 `json:"pedagogical_adaptability" yaml:"pedagogical_adaptability" validate:"probability"`
	InfrastructureRequirements float64 `json:"infrastructure_requirements" yaml:"infrastructure_requirements" validate:"probability"`
	CostAccessibility          float64 `json:"cost_accessibility" yaml:"cost_accessibility" validate:"probability"`
}

// NumCharacteristics is the length of a characteristic vector.
const NumCharacteristics = 5

// CharacteristicNames lists characteristics in canonical scoring order.
// Regression coefficients and weight vectors follow this order.
var CharacteristicNames = []string{
	"ease_of_use",
	"engagement_potential",
	"pedagogical_adaptability",
	"infrastructure_requirements",
	"cost_accessibility",
}

// CharacteristicIndex returns the canonical position of a characteristic name.
func CharacteristicIndex(name string) (int, bool) {
	for i, n := range CharacteristicNames {
		if n == name {
			return i, true
		}
	}
	return -1, false
}

// Vector returns the characteristics in canonical order.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (c Characteristics) Vector() []float64 {
	return []float64{
		c.EaseOfUse,
		c.EngagementPotential,
		c.PedagogicalAdaptability,
		c.InfrastructureRequirements,
		c.CostAccessibility,
	}
}

// CharacteristicsFromVector builds Characteristics from a canonical-order vector.
// Missing trailing entries are zero.
func CharacteristicsFromVector(v []float64) Characteristics {
	var c Characteristics
	fields := []*float64{
		&c.EaseOfUse,
		&c.EngagementPotential,
		&c.PedagogicalAdaptability,
		&c.InfrastructureRequirements,
		&c.CostAccessibility,
	}
	for i := 0; i < len(fields) && i < len(v); i++ {
		*fields[i] = v[i]
	}
	return c
}

// Dot returns the weighted sum of c by w.
//
//nolint:gocritic // value receivers are intentional for immutable semantics
func (c Characteristics) Dot(w Characteristics) float64 {
	return c.EaseOfUse*w.EaseOfUse +
		c.EngagementPotential*w.EngagementPotential +
		c.PedagogicalAdaptability*w.PedagogicalAdaptability +
		c.InfrastructureRequirements*w.InfrastructureRequirements +
		c.CostAccessibility*w.CostAccessibility
}

// Sum returns the sum of all five values.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (c Characteristics) Sum() float64 {
	return c.EaseOfUse + c.EngagementPotential + c.PedagogicalAdaptability +
		c.InfrastructureRequirements + c.CostAccessibility
}

// Normalize returns a copy scaled to sum to 1.0.
// All-zero input yields equal weights.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (c Characteristics) Normalize() Characteristics {
	sum := c.Sum()
	if sum == 0 {
		const equalWeight = 1.0 / NumCharacteristics
		return Characteristics{
			EaseOfUse: equalWeight, EngagementPotential: equalWeight,
			PedagogicalAdaptability: equalWeight, InfrastructureRequirements: equalWeight,
			CostAccessibility: equalWeight,
		}
	}

	return Characteristics{
		EaseOfUse:                  c.EaseOfUse / sum,
		EngagementPotential:        c.EngagementPotential / sum,
		PedagogicalAdaptability:    c.PedagogicalAdaptability / sum,
		InfrastructureRequirements: c.InfrastructureRequirements / sum,
		CostAccessibility:          c.CostAccessibility / sum,
	}
}

// ToMap returns the values keyed by characteristic name.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (c Characteristics) ToMap() map[string]float64 {
	v := c.Vector()
	m := make(map[string]float64, len(v))
	for i, name := range CharacteristicNames {
		m[name] = v[i]
	}
	return m
}

// Resource is a catalog entry describing one educational technology.
type Resource struct {
	ID          string `json:"id" yaml:"id" validate:"required,max=120"`
	Name        string `json:"name" yaml:"name" validate:"required"`
	Area        string `json:"area" yaml:"area" validate:"required"`
	Category    string `json:"category" yaml:"category"`
	Description string `json:"description" yaml:"description"`

	Characteristics `yaml:",inline"`

	Tags           []string `json:"tags" yaml:"tags"`
	Modalities     []string `json:"modalities" yaml:"modalities"`
	Devices        []string `json:"devices" yaml:"devices"`
	HasAssessment  bool     `json:"has_assessment" yaml:"has_assessment"`
	OfflineCapable bool     `json:"offline_capable" yaml:"offline_capable"`
	References     []string `json:"references" yaml:"references"`
}

// Normalize replaces nil sets with empty ones so encoded catalogs never carry null.
func (r *Resource) Normalize() {
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if r.Modalities == nil {
		r.Modalities = []string{}
	}
	if r.Devices == nil {
		r.Devices = []string{}
	}
	if r.References == nil {
		r.References = []string{}
	}
}

// Validate checks identity fields and characteristic ranges.
func (r *Resource) Validate() error {
	if verr := validation.ValidateStruct(r); verr != nil {
		return newValidationError(verr)
	}
	return nil
}

// Catalog is an immutable snapshot of the resource catalog.
// Resources keep their source order; that order breaks score ties.
type Catalog struct {
	Resources []Resource `json:"resources"`
	Version   int64      `json:"version"`
	Source    string     `json:"source"`
	LoadedAt  time.Time  `json:"loaded_at"`
}

// CatalogProvider exposes the current catalog snapshot.
// Implementations must never mutate a snapshot after returning it.
type CatalogProvider interface {
	// GetAll returns the current snapshot.
	GetAll(ctx context.Context) (*Catalog, error)

	// GetByID returns a single resource.
	// Returns ErrResourceNotFound if no resource has the id.
	GetByID(ctx context.Context, id string) (*Resource, error)
}

// Strategy selects how eligibility is decided and how items are scored.
type Strategy string

const (
	// StrategyML filters with a decision tree trained on rule labels and scores
	// with regression-derived weights.
	StrategyML Strategy = "ml"

	// StrategyRules filters with the rule engine directly and scores with a
	// blend of fixed-weight base score, association and similarity.
	StrategyRules Strategy = "rules"
)

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	return s == StrategyML || s == StrategyRules
}

// Request is a single recommendation request.
type Request struct {
	// Profile is the questionnaire to recommend for.
	Profile TeacherProfile `json:"profile"`

	// Strategy overrides Config.Strategy when set.
	Strategy Strategy `json:"strategy,omitempty"`

	// TopN is the number of items to return.
	// Defaults to Config.Limits.DefaultTopN if zero.
	TopN int `json:"top_n,omitempty"`

	// RequestID is used for logging only; it never reaches the result.
	RequestID string `json:"-"`
}

// Distances are per-dimension absolute differences between the profile vector
// and a resource's paired characteristic vector.
type Distances struct {
	FamiliarityEase            float64 `json:"familiarity_ease"`
	PrepAdaptability           float64 `json:"prep_adaptability"`
	ConnectivityInfrastructure float64 `json:"connectivity_infrastructure"`
	Engagement                 float64 `json:"engagement"`
	PerformanceAccessibility   float64 `json:"performance_accessibility"`
}

// Explanation is the profile-relative context computed for one resource.
type Explanation struct {
	Distances   Distances `json:"distances"`
	Association float64   `json:"association"`
	Similarity  float64   `json:"similarity"`
	Reasons     []string  `json:"reasons"`
}

// ScoreComponents break down a rule-strategy final score.
type ScoreComponents struct {
	Base        float64 `json:"base"`
	Association float64 `json:"association"`
	Similarity  float64 `json:"similarity"`
}

// RankedItem is one recommendation with its explanation.
type RankedItem struct {
	Rank        int    `json:"rank"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Area        string `json:"area"`
	Category    string `json:"category"`
	Description string `json:"description"`

	FinalScore float64          `json:"final_score"`
	Components *ScoreComponents `json:"components,omitempty"`

	ClusterID int    `json:"cluster_id"`
	Archetype string `json:"archetype"`

	Distances       Distances       `json:"distances"`
	Characteristics Characteristics `json:"characteristics"`
	References      []string        `json:"references"`
	Reasons         []string        `json:"reasons"`

	// catalogIndex is the resource's position in the catalog snapshot.
	catalogIndex int
}

// Result is the ranked recommendation list plus aggregate diagnostics.
type Result struct {
	Ranking     []RankedItem `json:"ranking"`
	Diagnostics Diagnostics  `json:"diagnostics"`
}

// Diagnostics aggregate how a Result was produced.
// They carry no wall-clock values: equal inputs give equal diagnostics.
type Diagnostics struct {
	Strategy       Strategy `json:"strategy"`
	CatalogVersion int64    `json:"catalog_version"`

	TotalResources int     `json:"total_resources"`
	EligibleCount  int     `json:"eligible_count"`
	ReturnedCount  int     `json:"returned_count"`
	FilterRate     float64 `json:"filter_rate"`
	MeanScore      float64 `json:"mean_score"`
	MedianScore    float64 `json:"median_score"`

	Weights         Characteristics `json:"weights"`
	WeightsFallback bool            `json:"weights_fallback"`

	Regression  *RegressionReport  `json:"regression,omitempty"`
	Eligibility *EligibilityReport `json:"eligibility,omitempty"`
	Clustering  *ClusterReport     `json:"clustering,omitempty"`

	Warnings []string `json:"warnings"`
}

// RegressionReport describes a weight regression fit.
type RegressionReport struct {
	Target       string          `json:"target"`
	Samples      int             `json:"samples"`
	R2           float64         `json:"r2"`
	RMSE         float64         `json:"rmse"`
	Coefficients []float64       `json:"coefficients"`
	Intercept    float64         `json:"intercept"`
	Weights      Characteristics `json:"weights"`
}

// FeatureImportance is the impurity reduction credited to one encoded feature.
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// EligibilityReport describes how the eligible subset was decided.
type EligibilityReport struct {
	Method string `json:"method"`

	// Eligible and Labels align with the catalog order.
	Eligible []bool `json:"-"`
	Labels   []bool `json:"-"`

	EligibleIDs     []string            `json:"eligible_ids"`
	Importances     []FeatureImportance `json:"importances,omitempty"`
	TrainAccuracy   float64             `json:"train_accuracy"`
	CVAccuracy      float64             `json:"cv_accuracy"`
	CVFolds         int                 `json:"cv_folds"`
	CVScores        []float64           `json:"cv_scores,omitempty"`
	CVSkipped       bool                `json:"cv_skipped"`
	SingleClass     bool                `json:"single_class"`
	FallbackToRules bool                `json:"fallback_to_rules"`
	Disagreements   []string            `json:"disagreements"`
	TreeDepth       int                 `json:"tree_depth"`
	TreeLeaves      int                 `json:"tree_leaves"`
	Degraded        string              `json:"degraded,omitempty"`
	Warnings        []string            `json:"warnings"`
}

// ClusterProfile summarizes one cluster of eligible resources.
type ClusterProfile struct {
	ID               int             `json:"id"`
	Archetype        string          `json:"archetype"`
	Size             int             `json:"size"`
	ResourceIDs      []string        `json:"resource_ids"`
	Centroid         []float64       `json:"centroid"`
	CentroidOriginal []float64       `json:"centroid_original"`
	Means            Characteristics `json:"means"`
	TopTags          []string        `json:"top_tags"`
	DominantArea     string          `json:"dominant_area"`
	AssessmentRate   float64         `json:"assessment_rate"`
	OfflineRate      float64         `json:"offline_rate"`
}

// KScore is the silhouette measured for one candidate cluster count.
type KScore struct {
	K          int     `json:"k"`
	Silhouette float64 `json:"silhouette"`
}

// ClusterReport describes a clustering of eligible resources.
type ClusterReport struct {
	K         int    `json:"k"`
	Selection string `json:"selection"`

	// Assignments align with the clustered resources' order.
	Assignments []int `json:"assignments"`

	Clusters         []ClusterProfile `json:"clusters"`
	Inertia          float64          `json:"inertia"`
	Silhouette       float64          `json:"silhouette"`
	DaviesBouldin    float64          `json:"davies_bouldin"`
	CalinskiHarabasz float64          `json:"calinski_harabasz"`
	Candidates       []KScore         `json:"candidates,omitempty"`
	NearestCluster   int              `json:"nearest_cluster"`
	NearestDistance  float64          `json:"nearest_distance"`
	Warnings         []string         `json:"warnings"`
}

// DiagnosticsBundle exposes each model's report for debugging.
// Fit errors are reported as strings next to the report they replaced.
type DiagnosticsBundle struct {
	Strategy        Strategy           `json:"strategy"`
	CatalogVersion  int64              `json:"catalog_version"`
	Eligibility     *EligibilityReport `json:"eligibility"`
	Regression      *RegressionReport  `json:"regression,omitempty"`
	RegressionError string             `json:"regression_error,omitempty"`
	Clustering      *ClusterReport     `json:"clustering,omitempty"`
	ClusteringError string             `json:"clustering_error,omitempty"`
}

// WeightFitter derives scoring weights from the catalog.
type WeightFitter interface {
	Fit(ctx context.Context, resources []Resource) (*RegressionReport, error)
}

// EligibilityFilter decides which catalog resources suit a profile.
// The report's Eligible slice must align with resources.
type EligibilityFilter interface {
	Filter(ctx context.Context, profile *TeacherProfile, resources []Resource) (*EligibilityReport, error)
}

// Clusterer groups eligible resources and profiles the groups.
type Clusterer interface {
	Cluster(ctx context.Context, profile *TeacherProfile, resources []Resource) (*ClusterReport, error)
}

// Explainer computes profile-relative explanation fields for one resource.
type Explainer interface {
	Explain(profile *TeacherProfile, resource *Resource) Explanation
}

// Models builds fresh model instances. Each Recommend call asks for new
// instances; fit-time state is never shared between requests.
type Models interface {
	WeightFitter() WeightFitter
	EligibilityFilter(strategy Strategy) EligibilityFilter
	Clusterer() Clusterer
	Explainer() Explainer
}

// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package algorithms

import (
	"math"
	"slices"

	"github.com/tomtom215/classmatch/internal/recommend"
)

// FeatureNames is the fixed order of encoded resource features.
// Importance reports index into this slice; never reorder it.
var FeatureNames = []string{
	"subject_match",
	"device_match",
	"connectivity_ok",
	"modality_match",
	"assessment_ok",
	"ease_of_use",
	"engagement_potential",
	"pedagogical_adaptability",
	"infrastructure_requirements",
	"cost_accessibility",
	"style_match",
	"objective_match",
	"offline_capable",
	"familiarity_ratio",
}

// NumFeatures is the length of an encoded resource vector.
const NumFeatures = 14

// ProfileDimensions names the paired dimensions of the profile and resource
// vectors used for distances and clustering.
var ProfileDimensions = []string{
	"familiarity_ease",
	"prep_adaptability",
	"connectivity_infrastructure",
	"engagement",
	"performance_accessibility",
}

// minEaseForRatio keeps the familiarity ratio finite for resources with zero ease.
const minEaseForRatio = 0.1

// FeatureEncoder turns profiles and resources into fixed-order numeric vectors.
// Encoding is pure and deterministic.
type FeatureEncoder struct {
	rules *RuleEngine
}

// NewFeatureEncoder creates an encoder whose compatibility indicators use the
// given rule engine, so indicators match the labels exactly.
func NewFeatureEncoder(rules *RuleEngine) *FeatureEncoder {
	return &FeatureEncoder{rules: rules}
}

// EncodeResource returns the NumFeatures-long vector for a resource in the
// context of a profile, ordered as FeatureNames.
func (f *FeatureEncoder) EncodeResource(p *recommend.TeacherProfile, r *recommend.Resource) []float64 {
	return []float64{
		boolToFloat(f.rules.SubjectMatch(p, r)),
		boolToFloat(f.rules.DevicesAvailable(p, r)),
		boolToFloat(f.rules.ConnectivityOK(p, r)),
		boolToFloat(f.rules.ModalityMatch(p, r)),
		boolToFloat(f.rules.AssessmentOK(p, r)),
		r.EaseOfUse,
		r.EngagementPotential,
		r.PedagogicalAdaptability,
		r.InfrastructureRequirements,
		r.CostAccessibility,
		boolToFloat(p.TeachingStyle != "" && slices.Contains(r.Tags, p.TeachingStyle)),
		boolToFloat(p.LessonObjective != "" && slices.Contains(r.Tags, p.LessonObjective)),
		boolToFloat(r.OfflineCapable),
		math.Min(p.TechFamiliarity/math.Max(r.EaseOfUse, minEaseForRatio), 1.0),
	}
}

// EncodeCatalog encodes every resource, preserving order.
func (f *FeatureEncoder) EncodeCatalog(p *recommend.TeacherProfile, resources []recommend.Resource) [][]float64 {
	X := make([][]float64, len(resources))
	for i := range resources {
		X[i] = f.EncodeResource(p, &resources[i])
	}
	return X
}

// EncodeProfile returns the 5D profile vector:
// techFamiliarity, prepTime, connectivity, engagement, performance.
func EncodeProfile(p *recommend.TeacherProfile) []float64 {
	return []float64{
		p.TechFamiliarity,
		p.PrepTime,
		p.Connectivity,
		p.Engagement,
		p.Performance,
	}
}

// ResourceVector returns the resource's 5D characteristic vector in the order
// that pairs with EncodeProfile: easeOfUse, pedagogicalAdaptability,
// infrastructureRequirements, engagementPotential, costAccessibility.
func ResourceVector(r *recommend.Resource) []float64 {
	return []float64{
		r.EaseOfUse,
		r.PedagogicalAdaptability,
		r.InfrastructureRequirements,
		r.EngagementPotential,
		r.CostAccessibility,
	}
}

// boolToFloat encodes a boolean indicator.
func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

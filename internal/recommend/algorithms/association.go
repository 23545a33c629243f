// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package algorithms

import (
	"fmt"
	"math"
	"slices"

	"github.com/tomtom215/classmatch/internal/recommend"
)

// lowAnswer is the questionnaire value below which a class need is "low".
const lowAnswer = 0.5

// AssociationScorer measures contextual fit between a profile and a resource
// with five fixed association rules. Each rule contributes a confidence
// weight; the score is their mean.
type AssociationScorer struct{}

// NewAssociationScorer creates an association scorer.
func NewAssociationScorer() *AssociationScorer {
	return &AssociationScorer{}
}

// Score returns the mean of the five rule contributions.
func (a *AssociationScorer) Score(p *recommend.TeacherProfile, r *recommend.Resource) float64 {
	rules := [...]float64{
		a.styleRule(p, r),
		a.objectiveRule(p, r),
		a.engagementRule(p, r),
		a.performanceRule(p, r),
		a.prepTimeRule(p, r),
	}
	var sum float64
	for _, v := range rules {
		sum += v
	}
	return sum / float64(len(rules))
}

func (a *AssociationScorer) styleRule(p *recommend.TeacherProfile, r *recommend.Resource) float64 {
	if hasTag(r, p.TeachingStyle) {
		return 0.25
	}
	return 0
}

func (a *AssociationScorer) objectiveRule(p *recommend.TeacherProfile, r *recommend.Resource) float64 {
	if hasTag(r, p.LessonObjective) {
		return 0.25
	}
	return 0
}

func (a *AssociationScorer) engagementRule(p *recommend.TeacherProfile, r *recommend.Resource) float64 {
	if p.Engagement < lowAnswer {
		switch {
		case r.EngagementPotential >= 0.85:
			return 0.20
		case r.EngagementPotential >= 0.70:
			return 0.10
		}
	}
	return 0.05
}

func (a *AssociationScorer) performanceRule(p *recommend.TeacherProfile, r *recommend.Resource) float64 {
	if p.Performance < lowAnswer {
		if r.HasAssessment {
			return 0.15
		}
		return 0.05
	}
	return 0.10
}

func (a *AssociationScorer) prepTimeRule(p *recommend.TeacherProfile, r *recommend.Resource) float64 {
	if p.PrepTime < lowAnswer {
		switch {
		case r.EaseOfUse >= 0.85:
			return 0.15
		case r.EaseOfUse >= 0.70:
			return 0.08
		}
	}
	return 0.05
}

// ActivatedRules describes the rules that fired at full strength.
func (a *AssociationScorer) ActivatedRules(p *recommend.TeacherProfile, r *recommend.Resource) []string {
	reasons := []string{}
	if hasTag(r, p.TeachingStyle) {
		reasons = append(reasons, fmt.Sprintf("Compatible with teaching style %s", p.TeachingStyle))
	}
	if hasTag(r, p.LessonObjective) {
		reasons = append(reasons, fmt.Sprintf("Suited to lesson objective %s", p.LessonObjective))
	}
	if p.Engagement < lowAnswer && r.EngagementPotential >= 0.85 {
		reasons = append(reasons, "High potential to raise class engagement")
	}
	if p.Performance < lowAnswer && r.HasAssessment {
		reasons = append(reasons, "Offers automatic assessment to track progress")
	}
	if p.PrepTime < lowAnswer && r.EaseOfUse >= 0.85 {
		reasons = append(reasons, "Quick to prepare and use with limited time")
	}
	return reasons
}

func hasTag(r *recommend.Resource, tag string) bool {
	return tag != "" && slices.Contains(r.Tags, tag)
}

// ContextExplainer computes distances, association and similarity for one
// profile/resource pair.
type ContextExplainer struct {
	association *AssociationScorer
}

// NewContextExplainer creates an explainer.
func NewContextExplainer() *ContextExplainer {
	return &ContextExplainer{association: NewAssociationScorer()}
}

// Explain implements recommend.Explainer.
func (e *ContextExplainer) Explain(p *recommend.TeacherProfile, r *recommend.Resource) recommend.Explanation {
	pv := EncodeProfile(p)
	rv := ResourceVector(r)

	return recommend.Explanation{
		Distances: recommend.Distances{
			FamiliarityEase:            math.Abs(pv[0] - rv[0]),
			PrepAdaptability:           math.Abs(pv[1] - rv[1]),
			ConnectivityInfrastructure: math.Abs(pv[2] - rv[2]),
			Engagement:                 math.Abs(pv[3] - rv[3]),
			PerformanceAccessibility:   math.Abs(pv[4] - rv[4]),
		},
		Association: e.association.Score(p, r),
		Similarity:  Similarity(pv, rv),
		Reasons:     e.association.ActivatedRules(p, r),
	}
}

// Similarity maps the Euclidean distance between two 5D unit-range vectors
// to [0, 1]: max(0, 1 - dist/sqrt(5)).
func Similarity(profileVec, resourceVec []float64) float64 {
	maxDist := math.Sqrt(float64(len(profileVec)))
	if maxDist == 0 {
		return 0
	}
	return math.Max(0, 1-euclidean(profileVec, resourceVec)/maxDist)
}

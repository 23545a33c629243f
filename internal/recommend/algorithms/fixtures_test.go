// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package algorithms

import (
	"github.com/tomtom215/classmatch/internal/recommend"
)

// resourceOpt customizes a test resource.
type resourceOpt func(r *recommend.Resource)

func withArea(area string) resourceOpt {
	return func(r *recommend.Resource) { r.Area = area }
}

func withTags(tags ...string) resourceOpt {
	return func(r *recommend.Resource) { r.Tags = tags }
}

func withModalities(m ...string) resourceOpt {
	return func(r *recommend.Resource) { r.Modalities = m }
}

func withDevices(d ...string) resourceOpt {
	return func(r *recommend.Resource) { r.Devices = d }
}

func withAssessment() resourceOpt {
	return func(r *recommend.Resource) { r.HasAssessment = true }
}

func withOffline() resourceOpt {
	return func(r *recommend.Resource) { r.OfflineCapable = true }
}

// newResource builds a resource with characteristics in canonical order:
// ease, engagement, adaptability, infrastructure, cost.
func newResource(id string, c [5]float64, opts ...resourceOpt) recommend.Resource {
	r := recommend.Resource{
		ID:              id,
		Name:            "Resource " + id,
		Area:            recommend.SubjectMultidisciplinary,
		Category:        "tool",
		Characteristics: recommend.CharacteristicsFromVector(c[:]),
		Tags:            []string{},
		Modalities:      []string{"in_person", "remote"},
		Devices:         []string{"computer", "tablet"},
		References:      []string{},
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// sampleCatalog is a varied catalog with mixed eligibility for mathProfile.
func sampleCatalog() []recommend.Resource {
	return []recommend.Resource{
		newResource("quiz-arena", [5]float64{0.95, 0.95, 0.70, 0.80, 0.90}, withTags("gamified", "review", "practice"), withAssessment()),
		newResource("geo-lab", [5]float64{0.60, 0.85, 0.95, 0.40, 1.00}, withArea("Mathematics"), withTags("investigative", "projects", "visual"), withOffline()),
		newResource("sim-physics", [5]float64{0.55, 0.90, 0.90, 0.35, 0.95}, withArea(recommend.SubjectNaturalSciences), withTags("investigative", "practice")),
		newResource("board-collab", [5]float64{0.85, 0.80, 0.92, 0.70, 0.75}, withTags("collaborative", "projects"), withModalities("in_person")),
		newResource("code-blocks", [5]float64{0.75, 0.90, 0.88, 0.60, 1.00}, withTags("projects", "practice"), withAssessment(), withOffline()),
		newResource("flashcards", [5]float64{0.92, 0.75, 0.60, 0.90, 0.85}, withTags("review", "expository"), withAssessment(), withOffline()),
		newResource("history-map", [5]float64{0.80, 0.70, 0.75, 0.65, 0.90}, withArea("History"), withTags("visual", "expository")),
		newResource("video-lessons", [5]float64{0.90, 0.65, 0.55, 0.50, 0.80}, withTags("expository"), withModalities("remote")),
		newResource("stats-sheet", [5]float64{0.50, 0.55, 0.80, 0.85, 0.70}, withArea("Mathematics"), withTags("investigative", "data"), withOffline(), withDevices("computer")),
		newResource("poll-live", [5]float64{0.97, 0.88, 0.50, 0.75, 0.95}, withTags("gamified", "review"), withAssessment()),
		newResource("lab-kit", [5]float64{0.65, 0.92, 0.85, 0.30, 0.60}, withArea(recommend.SubjectNaturalSciences), withTags("practice", "investigative"), withModalities("in_person"), withDevices("tablet")),
		newResource("story-maker", [5]float64{0.88, 0.82, 0.78, 0.80, 0.85}, withTags("projects", "collaborative"), withOffline()),
	}
}

// mathProfile is a mid-range Mathematics profile.
func mathProfile() *recommend.TeacherProfile {
	p := recommend.DefaultTeacherProfile()
	p.Subject = "Mathematics"
	p.TechFamiliarity = 0.6
	p.TeachingStyle = "investigative"
	p.LessonObjective = "practice"
	p.PrepTime = 0.4
	p.Engagement = 0.3
	p.DeviceAccess = []string{"computer"}
	p.Connectivity = 0.7
	p.Performance = 0.4
	p.Modality = "in_person"
	p.Infrastructure = []string{"projector"}
	return &p
}

func testRules() *RuleEngine {
	return NewRuleEngine(recommend.DefaultConfig().Rules)
}

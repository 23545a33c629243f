// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package algorithms

import (
	"slices"

	"github.com/tomtom215/classmatch/internal/recommend"
)

// Archetype labels.
const (
	ArchetypeBeginnerFriendly      = "Beginner-Friendly"
	ArchetypeAdvancedInvestigative = "Advanced-Investigative"
	ArchetypeGamificationReview    = "Gamification & Review"
	ArchetypeCollaborativeCreative = "Collaborative-Creative"
	ArchetypeVirtualLab            = "Virtual Lab"
	ArchetypeMultipurpose          = "Multi-purpose"
)

// ArchetypeRule labels a cluster whose profile matches.
type ArchetypeRule struct {
	Label string
	Match func(cp *recommend.ClusterProfile) bool
}

// DefaultArchetypes are evaluated in order; the first match wins.
var DefaultArchetypes = []ArchetypeRule{
	{
		Label: ArchetypeBeginnerFriendly,
		Match: func(cp *recommend.ClusterProfile) bool {
			return cp.Means.EaseOfUse >= 0.85 && cp.Means.EngagementPotential >= 0.80
		},
	},
	{
		Label: ArchetypeAdvancedInvestigative,
		Match: func(cp *recommend.ClusterProfile) bool {
			return cp.Means.PedagogicalAdaptability >= 0.85 && slices.Contains(cp.TopTags, "investigative")
		},
	},
	{
		Label: ArchetypeGamificationReview,
		Match: func(cp *recommend.ClusterProfile) bool {
			return cp.Means.EngagementPotential >= 0.90 && slices.Contains(cp.TopTags, "review")
		},
	},
	{
		Label: ArchetypeCollaborativeCreative,
		Match: func(cp *recommend.ClusterProfile) bool {
			return cp.Means.PedagogicalAdaptability >= 0.90 && slices.Contains(cp.TopTags, "projects")
		},
	},
	{
		Label: ArchetypeVirtualLab,
		Match: func(cp *recommend.ClusterProfile) bool {
			return slices.Contains(cp.TopTags, "practice") && cp.Means.EngagementPotential >= 0.85
		},
	},
}

// AssignArchetype returns the label of the first matching rule, or
// ArchetypeMultipurpose.
func AssignArchetype(rules []ArchetypeRule, cp *recommend.ClusterProfile) string {
	for _, r := range rules {
		if r.Match(cp) {
			return r.Label
		}
	}
	return ArchetypeMultipurpose
}

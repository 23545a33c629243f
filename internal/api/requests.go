// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package api

import (
	"github.com/tomtom215/classmatch/internal/recommend"
)

// RecommendationRequest is the body of POST /api/v1/recommendations.
// The questionnaire answers sit at the top level next to the optional
// strategy and top_n overrides:
//
//	{
//	  "subject": "Mathematics",
//	  "tech_familiarity": 0.6,
//	  "modality": "in_person",
//	  "device_access": ["computer"],
//	  "strategy": "rules",
//	  "top_n": 5
//	}
type RecommendationRequest struct {
	recommend.TeacherProfile

	Strategy recommend.Strategy `json:"strategy,omitempty"`
	TopN     int                `json:"top_n,omitempty"`
}

// newRecommendationRequest returns a request whose absent answers keep
// their neutral defaults after decoding.
func newRecommendationRequest() RecommendationRequest {
	return RecommendationRequest{TeacherProfile: recommend.DefaultTeacherProfile()}
}

// EngineRequest converts the body to an engine request.
func (req *RecommendationRequest) EngineRequest(requestID string) recommend.Request {
	return recommend.Request{
		Profile:   req.TeacherProfile,
		Strategy:  req.Strategy,
		TopN:      req.TopN,
		RequestID: requestID,
	}
}

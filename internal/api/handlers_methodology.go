// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/classmatch/internal/models"
	"github.com/tomtom215/classmatch/internal/recommend"
)

var methodologyReferences = []string{
	"Agrawal, R., & Srikant, R. (1994). Fast algorithms for mining association rules",
	"MacQueen, J. (1967). Some methods for classification and analysis of multivariate observations",
	"Breiman, L., Friedman, J., Olshen, R., & Stone, C. (1984). Classification and Regression Trees",
	"Rousseeuw, P. J. (1987). Silhouettes: a graphical aid to the interpretation and validation of cluster analysis",
	"Arthur, D., & Vassilvitskii, S. (2007). k-means++: the advantages of careful seeding",
}

// Methodology handles GET /api/v1/methodology.
// The score formulas reflect the running configuration.
func (h *Handler) Methodology(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, r, buildMethodology(h.engine.GetConfig()), start)
}

// buildMethodology describes the pipeline for the given configuration.
func buildMethodology(cfg *recommend.Config) models.Methodology {
	ml := string(recommend.StrategyML)
	rules := string(recommend.StrategyRules)
	both := []string{ml, rules}

	return models.Methodology{
		DefaultStrategy: string(cfg.Strategy),
		Strategies: map[string]string{
			ml:    "Decision tree trained on rule labels filters the catalog; regression-derived weights score it",
			rules: "Rule engine filters the catalog; a blend of weighted, association and similarity scores ranks it",
		},
		ScoreFormulas: map[string]string{
			ml: "Score = sum(characteristic_i * weight_i)",
			rules: fmt.Sprintf("Score = (Base x %.2f) + (Association x %.2f) + (Similarity x %.2f)",
				cfg.Blend.Base, cfg.Blend.Association, cfg.Blend.Similarity),
		},
		Stages: []models.MethodologyStage{
			{
				Order:       1,
				Name:        "Weight regression",
				Description: fmt.Sprintf("Least squares fit of %s on the other characteristics; falls back to default weights on degenerate data", cfg.Regression.Target),
				Strategies:  []string{ml},
			},
			{
				Order:       2,
				Name:        "Eligibility classification",
				Description: fmt.Sprintf("Rules label each resource; a CART tree (max depth %d) learns the labels and is trusted only when it agrees with them", cfg.Classifier.MaxDepth),
				Strategies:  both,
			},
			{
				Order:       3,
				Name:        "Clustering",
				Description: fmt.Sprintf("Seeded k-means++ over eligible resources (k=%d, %d restarts) names an archetype per cluster", cfg.Cluster.K, cfg.Cluster.NInit),
				Strategies:  both,
			},
			{
				Order:       4,
				Name:        "Association analysis",
				Description: "Five contextual rules match teaching style, lesson objective, engagement, performance and preparation time",
				Strategies:  []string{rules},
			},
			{
				Order:       5,
				Name:        "Similarity",
				Description: "Euclidean distance between the profile vector and each resource's paired characteristics, scaled to [0, 1]",
				Strategies:  []string{rules},
			},
			{
				Order:       6,
				Name:        "Ranking",
				Description: fmt.Sprintf("Stable descending sort by score, ties kept in catalog order, truncated to top %d (max %d)", cfg.Limits.DefaultTopN, cfg.Limits.MaxTopN),
				Strategies:  both,
			},
		},
		References: methodologyReferences,
	}
}

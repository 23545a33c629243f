// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package algorithms

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/tomtom215/classmatch/internal/recommend"
)

// Cluster selection modes reported in ClusterReport.Selection.
const (
	SelectionFixed      = "fixed"
	SelectionSilhouette = "silhouette"
	SelectionFallback   = "fallback"
)

// topTagCount is the number of most frequent tags kept per cluster.
const topTagCount = 3

// ClusterEngine groups eligible resources by their standardized characteristic
// vectors and names each group with an archetype.
type ClusterEngine struct {
	config     recommend.ClusterConfig
	seed       int64
	archetypes []ArchetypeRule
}

// NewClusterEngine creates a cluster engine with the default archetypes.
func NewClusterEngine(cfg recommend.ClusterConfig, seed int64) *ClusterEngine {
	return &ClusterEngine{
		config:     cfg,
		seed:       seed,
		archetypes: DefaultArchetypes,
	}
}

// Cluster runs seeded k-means over the resources and profiles each cluster.
//
//nolint:gocritic // X follows standard linear algebra notation
func (e *ClusterEngine) Cluster(ctx context.Context, profile *recommend.TeacherProfile, resources []recommend.Resource) (*recommend.ClusterReport, error) {
	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	report := &recommend.ClusterReport{
		Assignments: []int{},
		Clusters:    []recommend.ClusterProfile{},
		Warnings:    []string{},
	}
	n := len(resources)
	if n == 0 {
		report.Selection = SelectionFixed
		report.NearestCluster = -1
		return report, nil
	}

	raw := make([][]float64, n)
	for i := range resources {
		raw[i] = ResourceVector(&resources[i])
	}
	scaler := FitStandardScaler(raw)
	X := scaler.TransformAll(raw)
	distinct := distinctRows(X)

	k, err := e.chooseK(ctx, report, X, distinct)
	if err != nil {
		return nil, err
	}
	report.K = k

	res := runKMeans(X, e.params(k))
	report.Assignments = res.Labels
	report.Inertia = res.Inertia
	report.Silhouette = silhouetteScore(X, res.Labels, k)
	if e.config.ExtraMetrics {
		report.DaviesBouldin = daviesBouldinScore(X, res.Labels, res.Centroids)
		report.CalinskiHarabasz = calinskiHarabaszScore(X, res.Labels, res.Centroids)
	}

	for c := 0; c < k; c++ {
		cp := profileCluster(c, resources, res.Labels)
		cp.Centroid = res.Centroids[c]
		cp.CentroidOriginal = scaler.Inverse(res.Centroids[c])
		cp.Archetype = AssignArchetype(e.archetypes, &cp)
		report.Clusters = append(report.Clusters, cp)
	}

	report.NearestCluster, report.NearestDistance = nearestCentroid(scaler.Transform(EncodeProfile(profile)), res.Centroids)
	return report, nil
}

// chooseK fixes or selects the number of clusters and records warnings.
//
//nolint:gocritic // X follows standard linear algebra notation
func (e *ClusterEngine) chooseK(ctx context.Context, report *recommend.ClusterReport, X [][]float64, distinct int) (int, error) {
	if e.config.K > 0 {
		report.Selection = SelectionFixed
		k := e.config.K
		if k > distinct {
			report.Warnings = append(report.Warnings, fmt.Sprintf(
				"requested %d clusters but only %d distinct resources, using %d", k, distinct, distinct))
			k = distinct
		}
		return max(k, 1), nil
	}

	hi := min(e.config.MaxK, distinct-1)
	if hi < e.config.MinK {
		k := max(min(distinct, e.config.MinK), 1)
		report.Selection = SelectionFallback
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"%d distinct resources are too few to select k by silhouette, using %d", distinct, k))
		return k, nil
	}

	report.Selection = SelectionSilhouette
	bestK, bestScore := hi, math.Inf(-1)
	for k := e.config.MinK; k <= hi; k++ {
		if ContextCancelled(ctx) {
			return 0, ctx.Err()
		}
		res := runKMeans(X, e.params(k))
		score := silhouetteScore(X, res.Labels, k)
		report.Candidates = append(report.Candidates, recommend.KScore{K: k, Silhouette: score})
		if score > bestScore {
			bestK, bestScore = k, score
		}
	}
	return bestK, nil
}

func (e *ClusterEngine) params(k int) kmeansParams {
	return kmeansParams{
		K:         k,
		NInit:     e.config.NInit,
		MaxIter:   e.config.MaxIter,
		Tolerance: e.config.Tolerance,
		Seed:      e.seed,
	}
}

// profileCluster summarizes the members of cluster c.
func profileCluster(c int, resources []recommend.Resource, labels []int) recommend.ClusterProfile {
	cp := recommend.ClusterProfile{
		ID:          c,
		ResourceIDs: []string{},
		TopTags:     []string{},
	}

	var sum [recommend.NumCharacteristics]float64
	var tags, areas []string
	var withAssessment, offline int
	for i := range resources {
		if labels[i] != c {
			continue
		}
		r := &resources[i]
		cp.Size++
		cp.ResourceIDs = append(cp.ResourceIDs, r.ID)
		for j, v := range r.Characteristics.Vector() {
			sum[j] += v
		}
		tags = append(tags, r.Tags...)
		areas = append(areas, r.Area)
		if r.HasAssessment {
			withAssessment++
		}
		if r.OfflineCapable {
			offline++
		}
	}
	if cp.Size == 0 {
		return cp
	}

	size := float64(cp.Size)
	means := make([]float64, recommend.NumCharacteristics)
	for j := range means {
		means[j] = sum[j] / size
	}
	cp.Means = recommend.CharacteristicsFromVector(means)
	cp.TopTags = mostCommon(tags, topTagCount)
	if top := mostCommon(areas, 1); len(top) > 0 {
		cp.DominantArea = top[0]
	}
	cp.AssessmentRate = float64(withAssessment) / size
	cp.OfflineRate = float64(offline) / size
	return cp
}

// mostCommon returns up to n values by descending frequency.
// Equal counts keep first-occurrence order.
func mostCommon(values []string, n int) []string {
	counts := make(map[string]int, len(values))
	var order []string
	for _, v := range values {
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}
	sort.SliceStable(order, func(a, b int) bool {
		return counts[order[a]] > counts[order[b]]
	})
	if len(order) > n {
		order = order[:n]
	}
	if order == nil {
		return []string{}
	}
	return order
}

// nearestCentroid returns the index and distance of the closest centroid.
// Ties go to the lowest index.
func nearestCentroid(point []float64, centroids [][]float64) (int, float64) {
	best, bestDist := -1, math.Inf(1)
	for c, centroid := range centroids {
		if d := euclidean(point, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	if best < 0 {
		return -1, 0
	}
	return best, bestDist
}

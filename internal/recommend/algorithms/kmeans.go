// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package algorithms

import (
	"math"
	"math/rand"
)

// kmeansResult is the outcome of the best k-means restart.
type kmeansResult struct {
	Labels     []int
	Centroids  [][]float64
	Inertia    float64
	Iterations int
}

// kmeansParams configures a k-means run.
type kmeansParams struct {
	K         int
	NInit     int
	MaxIter   int
	Tolerance float64
	Seed      int64
}

// runKMeans performs NInit seeded k-means++ restarts and keeps the lowest
// inertia. Ties keep the earlier restart. K must not exceed the number of
// distinct rows.
//
//nolint:gocritic // X follows standard linear algebra notation
func runKMeans(X [][]float64, p kmeansParams) kmeansResult {
	//nolint:gosec // G404: math/rand is acceptable for ML initialization (not security)
	rng := rand.New(rand.NewSource(p.Seed))

	nInit := p.NInit
	if nInit < 1 {
		nInit = 1
	}

	var best kmeansResult
	best.Inertia = math.Inf(1)
	for run := 0; run < nInit; run++ {
		centroids := kmeansPlusPlus(X, p.K, rng)
		res := lloyd(X, centroids, p.MaxIter, p.Tolerance)
		if res.Inertia < best.Inertia {
			best = res
		}
	}
	return best
}

// kmeansPlusPlus picks k initial centroids with D² sampling.
//
//nolint:gocritic // X follows standard linear algebra notation
func kmeansPlusPlus(X [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(X)
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, cloneRow(X[rng.Intn(n)]))

	dist := make([]float64, n)
	for i, row := range X {
		dist[i] = squaredDistance(row, centroids[0])
	}

	for len(centroids) < k {
		var total float64
		for _, d := range dist {
			total += d
		}

		next := -1
		if total > 0 {
			r := rng.Float64() * total
			var cum float64
			for i, d := range dist {
				cum += d
				if d > 0 && cum >= r {
					next = i
					break
				}
			}
		}
		if next < 0 {
			// Fall back to the farthest remaining point.
			for i, d := range dist {
				if next < 0 || d > dist[next] {
					next = i
				}
			}
		}

		c := cloneRow(X[next])
		centroids = append(centroids, c)
		for i, row := range X {
			if d := squaredDistance(row, c); d < dist[i] {
				dist[i] = d
			}
		}
	}
	return centroids
}

// lloyd iterates assignment and update steps from the given centroids.
// Empty clusters are reseeded at the point farthest from its centroid.
//
//nolint:gocritic // X follows standard linear algebra notation
func lloyd(X [][]float64, centroids [][]float64, maxIter int, tol float64) kmeansResult {
	n, k := len(X), len(centroids)
	dim := len(X[0])
	labels := make([]int, n)

	iter := 0
	for iter < maxIter {
		iter++
		assign(X, centroids, labels)

		next := make([][]float64, k)
		counts := make([]int, k)
		for c := range next {
			next[c] = make([]float64, dim)
		}
		for i, row := range X {
			c := labels[i]
			counts[c]++
			for j, v := range row {
				next[c][j] += v
			}
		}
		for c := range next {
			if counts[c] == 0 {
				next[c] = cloneRow(X[farthestPoint(X, centroids, labels)])
				continue
			}
			for j := range next[c] {
				next[c][j] /= float64(counts[c])
			}
		}

		var shift float64
		for c := range next {
			shift += squaredDistance(next[c], centroids[c])
		}
		centroids = next
		if shift <= tol {
			break
		}
	}

	inertia := assign(X, centroids, labels)
	return kmeansResult{
		Labels:     labels,
		Centroids:  centroids,
		Inertia:    inertia,
		Iterations: iter,
	}
}

// assign labels every row with its nearest centroid (lowest index on ties)
// and returns the inertia.
//
//nolint:gocritic // X follows standard linear algebra notation
func assign(X [][]float64, centroids [][]float64, labels []int) float64 {
	var inertia float64
	for i, row := range X {
		best, bestDist := 0, math.Inf(1)
		for c, centroid := range centroids {
			if d := squaredDistance(row, centroid); d < bestDist {
				best, bestDist = c, d
			}
		}
		labels[i] = best
		inertia += bestDist
	}
	return inertia
}

//nolint:gocritic // X follows standard linear algebra notation
func farthestPoint(X [][]float64, centroids [][]float64, labels []int) int {
	far, farDist := 0, -1.0
	for i, row := range X {
		if d := squaredDistance(row, centroids[labels[i]]); d > farDist {
			far, farDist = i, d
		}
	}
	return far
}

// silhouetteScore is the mean silhouette coefficient. It is 0 unless there are
// at least 2 and at most n-1 distinct labels.
//
//nolint:gocritic // X follows standard linear algebra notation
func silhouetteScore(X [][]float64, labels []int, k int) float64 {
	n := len(X)
	sizes := make([]int, k)
	for _, l := range labels {
		sizes[l]++
	}
	nonEmpty := 0
	for _, s := range sizes {
		if s > 0 {
			nonEmpty++
		}
	}
	if nonEmpty < 2 || nonEmpty > n-1 {
		return 0
	}

	var total float64
	sums := make([]float64, k)
	for i := range X {
		if sizes[labels[i]] <= 1 {
			continue // singleton clusters score 0
		}
		for c := range sums {
			sums[c] = 0
		}
		for j := range X {
			if i != j {
				sums[labels[j]] += euclidean(X[i], X[j])
			}
		}

		own := labels[i]
		a := sums[own] / float64(sizes[own]-1)
		b := math.Inf(1)
		for c := range sums {
			if c == own || sizes[c] == 0 {
				continue
			}
			b = math.Min(b, sums[c]/float64(sizes[c]))
		}
		if m := math.Max(a, b); m > 0 {
			total += (b - a) / m
		}
	}
	return total / float64(n)
}

// daviesBouldinScore is 0 for fewer than 2 non-empty clusters.
//
//nolint:gocritic // X follows standard linear algebra notation
func daviesBouldinScore(X [][]float64, labels []int, centroids [][]float64) float64 {
	k := len(centroids)
	scatter := make([]float64, k)
	sizes := make([]int, k)
	for i, row := range X {
		c := labels[i]
		scatter[c] += euclidean(row, centroids[c])
		sizes[c]++
	}

	var active []int
	for c := range scatter {
		if sizes[c] > 0 {
			scatter[c] /= float64(sizes[c])
			active = append(active, c)
		}
	}
	if len(active) < 2 {
		return 0
	}

	var total float64
	for _, i := range active {
		worst := 0.0
		for _, j := range active {
			if i == j {
				continue
			}
			sep := euclidean(centroids[i], centroids[j])
			if sep == 0 {
				continue
			}
			worst = math.Max(worst, (scatter[i]+scatter[j])/sep)
		}
		total += worst
	}
	return total / float64(len(active))
}

// calinskiHarabaszScore is 0 when undefined (k < 2, n <= k, or no
// within-cluster dispersion).
//
//nolint:gocritic // X follows standard linear algebra notation
func calinskiHarabaszScore(X [][]float64, labels []int, centroids [][]float64) float64 {
	n, k := len(X), len(centroids)
	if k < 2 || n <= k {
		return 0
	}

	dim := len(X[0])
	mean := make([]float64, dim)
	for _, row := range X {
		for j, v := range row {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= float64(n)
	}

	sizes := make([]int, k)
	var within float64
	for i, row := range X {
		sizes[labels[i]]++
		within += squaredDistance(row, centroids[labels[i]])
	}
	var between float64
	for c, centroid := range centroids {
		between += float64(sizes[c]) * squaredDistance(centroid, mean)
	}
	if within == 0 {
		return 0
	}
	return (between / float64(k-1)) / (within / float64(n-k))
}

// distinctRows counts rows that differ in at least one value.
//
//nolint:gocritic // X follows standard linear algebra notation
func distinctRows(X [][]float64) int {
	var count int
	for i := range X {
		dup := false
		for j := 0; j < i; j++ {
			if squaredDistance(X[i], X[j]) == 0 {
				dup = true
				break
			}
		}
		if !dup {
			count++
		}
	}
	return count
}

func cloneRow(row []float64) []float64 {
	return append([]float64(nil), row...)
}

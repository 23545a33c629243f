// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package algorithms

import (
	"errors"
	"math"
)

var (
	errNotPositiveDefinite = errors.New("matrix is not positive definite")
	errDimensionMismatch   = errors.New("dimension mismatch")
)

// pivotEpsilon is the smallest Cholesky pivot treated as non-zero.
const pivotEpsilon = 1e-12

// choleskyDecomposition computes the lower-triangular L with A = L * L^T.
// A must be symmetric positive definite.
//
//nolint:gocritic // A and L follow standard linear algebra notation
func choleskyDecomposition(A [][]float64) ([][]float64, error) {
	n := len(A)
	L := make([][]float64, n)
	for i := range L {
		if len(A[i]) != n {
			return nil, errDimensionMismatch
		}
		L[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sum := A[i][j]
			for k := 0; k < j; k++ {
				sum -= L[i][k] * L[j][k]
			}

			if i == j {
				if sum <= pivotEpsilon || math.IsNaN(sum) {
					return nil, errNotPositiveDefinite
				}
				L[i][j] = math.Sqrt(sum)
			} else {
				L[i][j] = sum / L[j][j]
			}
		}
	}

	return L, nil
}

// choleskySolve solves A x = b given the Cholesky factor L of A.
//
//nolint:gocritic // L follows standard linear algebra notation
func choleskySolve(L [][]float64, b []float64) ([]float64, error) {
	n := len(L)
	if len(b) != n {
		return nil, errDimensionMismatch
	}

	// Forward substitution: L y = b
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := b[i]
		for k := 0; k < i; k++ {
			sum -= L[i][k] * y[k]
		}
		y[i] = sum / L[i][i]
	}

	// Back substitution: L^T x = y
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := y[i]
		for k := i + 1; k < n; k++ {
			sum -= L[k][i] * x[k]
		}
		x[i] = sum / L[i][i]
	}

	return x, nil
}

// choleskyCondition estimates the condition number of A from its Cholesky
// factor as the squared ratio of the largest to the smallest pivot.
//
//nolint:gocritic // L follows standard linear algebra notation
func choleskyCondition(L [][]float64) float64 {
	if len(L) == 0 {
		return 1
	}
	lo, hi := math.Inf(1), 0.0
	for i := range L {
		d := L[i][i]
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	if lo <= 0 {
		return math.Inf(1)
	}
	r := hi / lo
	return r * r
}

// gramMatrix returns X^T X for an n×p matrix X.
//
//nolint:gocritic // X follows standard linear algebra notation
func gramMatrix(X [][]float64) [][]float64 {
	if len(X) == 0 {
		return nil
	}
	p := len(X[0])
	G := make([][]float64, p)
	for i := range G {
		G[i] = make([]float64, p)
	}
	for _, row := range X {
		for i := 0; i < p; i++ {
			for j := 0; j <= i; j++ {
				G[i][j] += row[i] * row[j]
			}
		}
	}
	for i := 0; i < p; i++ {
		for j := 0; j < i; j++ {
			G[j][i] = G[i][j]
		}
	}
	return G
}

// transposeMulVec returns X^T y.
//
//nolint:gocritic // X follows standard linear algebra notation
func transposeMulVec(X [][]float64, y []float64) []float64 {
	if len(X) == 0 {
		return nil
	}
	out := make([]float64, len(X[0]))
	for r, row := range X {
		for j, v := range row {
			out[j] += v * y[r]
		}
	}
	return out
}

// euclidean returns the Euclidean distance between equal-length vectors.
func euclidean(a, b []float64) float64 {
	return math.Sqrt(squaredDistance(a, b))
}

// squaredDistance returns the squared Euclidean distance between equal-length vectors.
func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// allFinite reports whether every value is neither NaN nor infinite.
func allFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

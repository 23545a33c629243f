// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package algorithms

import "math"

// StandardScaler centers columns on their mean and divides by the population
// standard deviation.
type StandardScaler struct {
	Mean  []float64
	Scale []float64

	// Constant marks columns with zero variance. Their scale is 1.
	Constant []bool
}

// FitStandardScaler computes column statistics for X.
// X must be non-empty with rows of equal length.
//
//nolint:gocritic // X follows standard linear algebra notation
func FitStandardScaler(X [][]float64) *StandardScaler {
	if len(X) == 0 {
		return &StandardScaler{}
	}
	p := len(X[0])
	n := float64(len(X))
	s := &StandardScaler{
		Mean:     make([]float64, p),
		Scale:    make([]float64, p),
		Constant: make([]bool, p),
	}

	for _, row := range X {
		for j, v := range row {
			s.Mean[j] += v
		}
	}
	for j := range s.Mean {
		s.Mean[j] /= n
	}

	for _, row := range X {
		for j, v := range row {
			d := v - s.Mean[j]
			s.Scale[j] += d * d
		}
	}
	for j := range s.Scale {
		std := math.Sqrt(s.Scale[j] / n)
		if std < 1e-12 {
			s.Scale[j] = 1
			s.Constant[j] = true
			continue
		}
		s.Scale[j] = std
	}

	return s
}

// HasConstant reports whether any column had zero variance.
func (s *StandardScaler) HasConstant() bool {
	for _, c := range s.Constant {
		if c {
			return true
		}
	}
	return false
}

// Transform returns a standardized copy of one row.
func (s *StandardScaler) Transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return out
}

// TransformAll returns standardized copies of all rows.
//
//nolint:gocritic // X follows standard linear algebra notation
func (s *StandardScaler) TransformAll(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = s.Transform(row)
	}
	return out
}

// Inverse maps a standardized row back to original units.
func (s *StandardScaler) Inverse(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = v*s.Scale[j] + s.Mean[j]
	}
	return out
}

// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package algorithms

import (
	"context"
	"math"

	"github.com/tomtom215/classmatch/internal/recommend"
)

const modelRegression = "regression"

// WeightRegressor derives scoring weights by regressing one characteristic on
// all five standardized characteristics. Weights are the normalized absolute
// coefficients.
type WeightRegressor struct {
	config recommend.RegressionConfig
}

// NewWeightRegressor creates a regressor.
func NewWeightRegressor(cfg recommend.RegressionConfig) *WeightRegressor {
	if cfg.MaxCondition <= 1 {
		cfg.MaxCondition = 1e10
	}
	if cfg.Target == "" {
		cfg.Target = "pedagogical_adaptability"
	}
	return &WeightRegressor{config: cfg}
}

// Fit solves the normal equations for the catalog.
// Degenerate inputs return *recommend.ModelFitError and never NaN weights.
//
//nolint:gocritic // X and G follow standard linear algebra notation
func (w *WeightRegressor) Fit(ctx context.Context, resources []recommend.Resource) (*recommend.RegressionReport, error) {
	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	target, ok := recommend.CharacteristicIndex(w.config.Target)
	if !ok {
		return nil, recommend.NewModelFitError(modelRegression, recommend.ErrConstantColumn, "unknown target %q", w.config.Target)
	}

	n := len(resources)
	if n < 2 {
		return nil, recommend.NewModelFitError(modelRegression, recommend.ErrTooFewSamples, "%d rows, need at least 2", n)
	}

	X := make([][]float64, n)
	y := make([]float64, n)
	for i := range resources {
		X[i] = resources[i].Characteristics.Vector()
		y[i] = X[i][target]
	}

	scaler := FitStandardScaler(X)
	for j, c := range scaler.Constant {
		if c {
			return nil, recommend.NewModelFitError(modelRegression, recommend.ErrConstantColumn, "column %s", recommend.CharacteristicNames[j])
		}
	}
	Z := scaler.TransformAll(X)

	var yMean float64
	for _, v := range y {
		yMean += v
	}
	yMean /= float64(n)
	yc := make([]float64, n)
	for i, v := range y {
		yc[i] = v - yMean
	}

	// Centered predictors make the intercept the target mean.
	G := gramMatrix(Z)
	L, err := choleskyDecomposition(G)
	if err != nil {
		return nil, recommend.NewModelFitError(modelRegression, recommend.ErrRankDeficient, "%d rows: %v", n, err)
	}
	if cond := choleskyCondition(L); cond > w.config.MaxCondition {
		return nil, recommend.NewModelFitError(modelRegression, recommend.ErrRankDeficient, "condition %.3g exceeds %.3g", cond, w.config.MaxCondition)
	}

	beta, err := choleskySolve(L, transposeMulVec(Z, yc))
	if err != nil {
		return nil, recommend.NewModelFitError(modelRegression, recommend.ErrRankDeficient, "%v", err)
	}
	if !allFinite(beta...) {
		return nil, recommend.NewModelFitError(modelRegression, recommend.ErrNonFinite, "coefficients")
	}

	var absSum float64
	for _, b := range beta {
		absSum += math.Abs(b)
	}
	if absSum < pivotEpsilon {
		return nil, recommend.NewModelFitError(modelRegression, recommend.ErrRankDeficient, "all coefficients are zero")
	}

	weights := make([]float64, len(beta))
	for j, b := range beta {
		weights[j] = math.Abs(b) / absSum
	}

	var ssRes, ssTot float64
	for i, row := range Z {
		pred := yMean
		for j, v := range row {
			pred += beta[j] * v
		}
		r := y[i] - pred
		ssRes += r * r
		ssTot += yc[i] * yc[i]
	}
	r2 := 1.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}
	rmse := math.Sqrt(ssRes / float64(n))
	if !allFinite(r2, rmse, yMean) {
		return nil, recommend.NewModelFitError(modelRegression, recommend.ErrNonFinite, "fit statistics")
	}

	return &recommend.RegressionReport{
		Target:       w.config.Target,
		Samples:      n,
		R2:           r2,
		RMSE:         rmse,
		Coefficients: beta,
		Intercept:    yMean,
		Weights:      recommend.CharacteristicsFromVector(weights),
	}, nil
}

// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package algorithms

import (
	"errors"
	"sort"

	"github.com/tomtom215/classmatch/internal/recommend"
)

// minImpurityDecrease is the smallest gain accepted for a split.
const minImpurityDecrease = 1e-12

var errNoTrainingData = errors.New("no training data")

// treeNode is one node of a binary classification tree.
// Samples with x[Feature] <= Threshold go left.
type treeNode struct {
	Leaf      bool
	Class     bool
	Feature   int
	Threshold float64
	Left      *treeNode
	Right     *treeNode
}

// DecisionTree is a CART classifier over boolean labels using weighted Gini impurity.
// Splits are searched feature by feature in index order and threshold by
// threshold in ascending order; the first best split wins ties.
type DecisionTree struct {
	config recommend.ClassifierConfig

	root        *treeNode
	nFeatures   int
	importances []float64
	depth       int
	leaves      int
}

// NewDecisionTree creates an unfitted tree.
func NewDecisionTree(cfg recommend.ClassifierConfig) *DecisionTree {
	if cfg.MaxDepth < 1 {
		cfg.MaxDepth = 5
	}
	if cfg.MinSamplesSplit < 2 {
		cfg.MinSamplesSplit = 2
	}
	if cfg.MinSamplesLeaf < 1 {
		cfg.MinSamplesLeaf = 1
	}
	return &DecisionTree{config: cfg}
}

// Fit grows the tree. Sample weights may be nil for uniform weighting.
//
//nolint:gocritic // X follows standard linear algebra notation
func (t *DecisionTree) Fit(X [][]float64, y []bool, weights []float64) error {
	if len(X) == 0 || len(X) != len(y) {
		return errNoTrainingData
	}
	if weights == nil {
		weights = make([]float64, len(y))
		for i := range weights {
			weights[i] = 1
		}
	}

	t.nFeatures = len(X[0])
	t.importances = make([]float64, t.nFeatures)
	t.depth = 0
	t.leaves = 0

	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	t.root = t.grow(X, y, weights, idx, 0)
	return nil
}

// grow builds the subtree for the samples in idx.
//
//nolint:gocritic // X follows standard linear algebra notation
func (t *DecisionTree) grow(X [][]float64, y []bool, w []float64, idx []int, depth int) *treeNode {
	if depth > t.depth {
		t.depth = depth
	}

	wPos, wNeg := classWeights(y, w, idx)
	node := &treeNode{Leaf: true, Class: wPos > wNeg}

	if depth >= t.config.MaxDepth || len(idx) < t.config.MinSamplesSplit || wPos == 0 || wNeg == 0 {
		t.leaves++
		return node
	}

	feature, threshold, gain, ok := t.bestSplit(X, y, w, idx, wPos, wNeg)
	if !ok {
		t.leaves++
		return node
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	t.importances[feature] += gain
	node.Leaf = false
	node.Feature = feature
	node.Threshold = threshold
	node.Left = t.grow(X, y, w, left, depth+1)
	node.Right = t.grow(X, y, w, right, depth+1)
	return node
}

// bestSplit returns the split with the largest weighted impurity decrease.
//
//nolint:gocritic // X follows standard linear algebra notation
func (t *DecisionTree) bestSplit(X [][]float64, y []bool, w []float64, idx []int, wPos, wNeg float64) (int, float64, float64, bool) {
	total := wPos + wNeg
	parent := total * gini(wPos, wNeg)

	bestFeature, bestThreshold, bestGain := -1, 0.0, minImpurityDecrease
	sorted := make([]int, len(idx))

	for f := 0; f < t.nFeatures; f++ {
		copy(sorted, idx)
		sort.SliceStable(sorted, func(a, b int) bool {
			return X[sorted[a]][f] < X[sorted[b]][f]
		})

		var lPos, lNeg float64
		for k := 0; k < len(sorted)-1; k++ {
			i := sorted[k]
			if y[i] {
				lPos += w[i]
			} else {
				lNeg += w[i]
			}

			cur, next := X[i][f], X[sorted[k+1]][f]
			if cur == next {
				continue
			}
			if k+1 < t.config.MinSamplesLeaf || len(sorted)-k-1 < t.config.MinSamplesLeaf {
				continue
			}

			rPos, rNeg := wPos-lPos, wNeg-lNeg
			child := (lPos+lNeg)*gini(lPos, lNeg) + (rPos+rNeg)*gini(rPos, rNeg)
			gain := parent - child
			if gain > bestGain+minImpurityDecrease {
				bestFeature = f
				bestThreshold = (cur + next) / 2
				bestGain = gain
			}
		}
	}

	return bestFeature, bestThreshold, bestGain, bestFeature >= 0
}

// Predict classifies one sample.
func (t *DecisionTree) Predict(x []float64) bool {
	node := t.root
	if node == nil {
		return false
	}
	for !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Class
}

// PredictAll classifies every row.
//
//nolint:gocritic // X follows standard linear algebra notation
func (t *DecisionTree) PredictAll(X [][]float64) []bool {
	out := make([]bool, len(X))
	for i, row := range X {
		out[i] = t.Predict(row)
	}
	return out
}

// Importances returns impurity decreases per feature normalized to sum to 1.
// A tree without splits returns all zeros.
func (t *DecisionTree) Importances() []float64 {
	out := make([]float64, len(t.importances))
	var sum float64
	for _, v := range t.importances {
		sum += v
	}
	if sum == 0 {
		return out
	}
	for i, v := range t.importances {
		out[i] = v / sum
	}
	return out
}

// Depth returns the depth of the deepest leaf.
func (t *DecisionTree) Depth() int { return t.depth }

// Leaves returns the number of leaves.
func (t *DecisionTree) Leaves() int { return t.leaves }

// classWeights sums sample weights per class over idx.
func classWeights(y []bool, w []float64, idx []int) (pos, neg float64) {
	for _, i := range idx {
		if y[i] {
			pos += w[i]
		} else {
			neg += w[i]
		}
	}
	return pos, neg
}

// gini returns the Gini impurity of a weighted binary node.
func gini(pos, neg float64) float64 {
	total := pos + neg
	if total == 0 {
		return 0
	}
	p := pos / total
	q := neg / total
	return 1 - p*p - q*q
}

// balancedWeights returns class-balanced sample weights n / (2 * n_c).
func balancedWeights(y []bool) []float64 {
	var nPos int
	for _, v := range y {
		if v {
			nPos++
		}
	}
	n := len(y)
	nNeg := n - nPos

	w := make([]float64, n)
	for i, v := range y {
		switch {
		case v && nPos > 0:
			w[i] = float64(n) / (2 * float64(nPos))
		case !v && nNeg > 0:
			w[i] = float64(n) / (2 * float64(nNeg))
		default:
			w[i] = 1
		}
	}
	return w
}

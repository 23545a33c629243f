// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package algorithms

import (
	"context"
	"fmt"

	"github.com/tomtom215/classmatch/internal/recommend"
)

// Eligibility methods reported in EligibilityReport.Method.
const (
	MethodDecisionTree = "decision_tree"
	MethodRules        = "rules"
)

// TreeFilter decides eligibility with a decision tree trained on rule labels.
// Every catalog row is both a training example and an inference target.
type TreeFilter struct {
	config  recommend.ClassifierConfig
	rules   *RuleEngine
	encoder *FeatureEncoder
}

// NewTreeFilter creates a tree-backed eligibility filter.
func NewTreeFilter(cfg recommend.ClassifierConfig, rules *RuleEngine) *TreeFilter {
	return &TreeFilter{
		config:  cfg,
		rules:   rules,
		encoder: NewFeatureEncoder(rules),
	}
}

// Filter labels, trains, cross-validates and predicts.
// When the tree disagrees with the rules more than TrustThreshold allows, the
// rule labels are used and the report records the fallback.
//
//nolint:gocritic // X follows standard linear algebra notation
func (f *TreeFilter) Filter(ctx context.Context, profile *recommend.TeacherProfile, resources []recommend.Resource) (*recommend.EligibilityReport, error) {
	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	report := &recommend.EligibilityReport{
		Method:        MethodDecisionTree,
		Disagreements: []string{},
		Warnings:      []string{},
	}
	n := len(resources)
	if n == 0 {
		report.Eligible = []bool{}
		report.Labels = []bool{}
		report.EligibleIDs = []string{}
		report.CVSkipped = true
		return report, nil
	}

	X := f.encoder.EncodeCatalog(profile, resources)
	labels := f.rules.Label(profile, resources)
	report.Labels = labels

	nPos := countTrue(labels)
	if nPos == 0 || nPos == n {
		return f.singleClass(report, resources, labels[0]), nil
	}

	tree := NewDecisionTree(f.config)
	var weights []float64
	if f.config.ClassBalanced {
		weights = balancedWeights(labels)
	}
	if err := tree.Fit(X, labels, weights); err != nil {
		return nil, recommend.NewModelFitError("classifier", recommend.ErrTooFewSamples, "%v", err)
	}

	predicted := tree.PredictAll(X)
	var agree int
	for i := range predicted {
		if predicted[i] == labels[i] {
			agree++
		} else {
			report.Disagreements = append(report.Disagreements, resources[i].ID)
		}
	}
	report.TrainAccuracy = float64(agree) / float64(n)
	report.TreeDepth = tree.Depth()
	report.TreeLeaves = tree.Leaves()
	report.Importances = namedImportances(tree.Importances())

	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}
	f.crossValidate(report, X, labels)

	report.Eligible = predicted
	if report.TrainAccuracy < 1 {
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"decision tree agrees with rule labels on %.1f%% of resources (%d disagreements)",
			report.TrainAccuracy*100, len(report.Disagreements)))
	}
	if report.TrainAccuracy < f.config.TrustThreshold {
		report.Eligible = append([]bool(nil), labels...)
		report.FallbackToRules = true
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"tree agreement %.3f below trust threshold %.3f, using rule labels",
			report.TrainAccuracy, f.config.TrustThreshold))
	}

	report.EligibleIDs = eligibleIDs(resources, report.Eligible)
	return report, nil
}

// singleClass builds the report for a catalog whose labels are all equal.
func (f *TreeFilter) singleClass(report *recommend.EligibilityReport, resources []recommend.Resource, class bool) *recommend.EligibilityReport {
	n := len(resources)
	report.Eligible = make([]bool, n)
	for i := range report.Eligible {
		report.Eligible[i] = class
	}
	report.EligibleIDs = eligibleIDs(resources, report.Eligible)
	report.TrainAccuracy = 1
	report.CVSkipped = true
	report.SingleClass = true
	report.TreeLeaves = 1
	report.Importances = namedImportances(make([]float64, NumFeatures))

	state := "ineligible"
	if class {
		state = "eligible"
	}
	report.Degraded = fmt.Sprintf("%v: all %d resources are %s, predicting the constant class", recommend.ErrSingleClass, n, state)
	report.Warnings = append(report.Warnings, report.Degraded)
	return report
}

// crossValidate runs stratified k-fold without shuffling, k = min(CVFolds, n).
// Samples of each class are dealt to folds round-robin in catalog order.
//
//nolint:gocritic // X follows standard linear algebra notation
func (f *TreeFilter) crossValidate(report *recommend.EligibilityReport, X [][]float64, y []bool) {
	n := len(y)
	k := f.config.CVFolds
	if k > n {
		k = n
	}
	if k < 2 {
		report.CVSkipped = true
		return
	}

	nPos := countTrue(y)
	if minClass := min(nPos, n-nPos); minClass < k {
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"least populated class has %d members, fewer than %d folds", minClass, k))
	}

	fold := make([]int, n)
	var seenPos, seenNeg int
	for i, v := range y {
		if v {
			fold[i] = seenPos % k
			seenPos++
		} else {
			fold[i] = seenNeg % k
			seenNeg++
		}
	}

	scores := make([]float64, 0, k)
	for fi := 0; fi < k; fi++ {
		var trainX, testX [][]float64
		var trainY, testY []bool
		for i := range y {
			if fold[i] == fi {
				testX = append(testX, X[i])
				testY = append(testY, y[i])
			} else {
				trainX = append(trainX, X[i])
				trainY = append(trainY, y[i])
			}
		}
		if len(testX) == 0 || len(trainX) == 0 {
			continue
		}

		tree := NewDecisionTree(f.config)
		var weights []float64
		if f.config.ClassBalanced {
			weights = balancedWeights(trainY)
		}
		if err := tree.Fit(trainX, trainY, weights); err != nil {
			continue
		}

		var correct int
		for i, row := range testX {
			if tree.Predict(row) == testY[i] {
				correct++
			}
		}
		scores = append(scores, float64(correct)/float64(len(testX)))
	}

	if len(scores) == 0 {
		report.CVSkipped = true
		return
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	report.CVFolds = len(scores)
	report.CVScores = scores
	report.CVAccuracy = sum / float64(len(scores))
}

// RuleFilter decides eligibility with the rule engine directly.
type RuleFilter struct {
	rules *RuleEngine
}

// NewRuleFilter creates a model-free eligibility filter.
func NewRuleFilter(rules *RuleEngine) *RuleFilter {
	return &RuleFilter{rules: rules}
}

// Filter evaluates every resource with the rule engine.
func (f *RuleFilter) Filter(ctx context.Context, profile *recommend.TeacherProfile, resources []recommend.Resource) (*recommend.EligibilityReport, error) {
	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	labels := f.rules.Label(profile, resources)
	return &recommend.EligibilityReport{
		Method:        MethodRules,
		Eligible:      labels,
		Labels:        labels,
		EligibleIDs:   eligibleIDs(resources, labels),
		TrainAccuracy: 1,
		CVSkipped:     true,
		Disagreements: []string{},
		Warnings:      []string{},
	}, nil
}

// namedImportances pairs importances with FeatureNames.
func namedImportances(values []float64) []recommend.FeatureImportance {
	out := make([]recommend.FeatureImportance, len(values))
	for i, v := range values {
		out[i] = recommend.FeatureImportance{Feature: FeatureNames[i], Importance: v}
	}
	return out
}

// eligibleIDs returns the ids of eligible resources in catalog order.
func eligibleIDs(resources []recommend.Resource, eligible []bool) []string {
	ids := make([]string, 0, len(resources))
	for i := range resources {
		if eligible[i] {
			ids = append(ids, resources[i].ID)
		}
	}
	return ids
}

func countTrue(values []bool) int {
	var n int
	for _, v := range values {
		if v {
			n++
		}
	}
	return n
}

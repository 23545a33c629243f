// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package algorithms

import (
	"slices"

	"github.com/tomtom215/classmatch/internal/recommend"
)

// RuleID identifies one eligibility rule.
type RuleID int

const (
	// RuleNone means no rule failed.
	RuleNone RuleID = iota
	// RuleSubject requires the resource area to serve the profile's subject.
	RuleSubject
	// RuleFamiliarity requires easy tools for teachers with low tech familiarity.
	RuleFamiliarity
	// RuleDevices requires lab computers when students have no devices.
	RuleDevices
	// RuleConnectivity requires offline support on poor connections.
	RuleConnectivity
	// RuleModality requires support for the lesson modality.
	RuleModality
	// RuleAssessment requires built-in assessment when the teacher needs it.
	RuleAssessment
)

// String returns the rule name.
func (r RuleID) String() string {
	switch r {
	case RuleNone:
		return "none"
	case RuleSubject:
		return "subject"
	case RuleFamiliarity:
		return "familiarity"
	case RuleDevices:
		return "devices"
	case RuleConnectivity:
		return "connectivity"
	case RuleModality:
		return "modality"
	case RuleAssessment:
		return "assessment"
	default:
		return "unknown"
	}
}

// Verdict is the outcome of evaluating all rules for one resource.
type Verdict struct {
	Eligible   bool
	FailedRule RuleID
}

// rule pairs an id with its predicate. Predicates return true when the
// resource passes.
type rule struct {
	id    RuleID
	check func(p *recommend.TeacherProfile, r *recommend.Resource) bool
}

// RuleEngine is the deterministic eligibility oracle. Rules run in a fixed
// order and evaluation stops at the first failure.
type RuleEngine struct {
	cfg   recommend.RulesConfig
	rules []rule
}

// NewRuleEngine creates a rule engine with the given thresholds.
func NewRuleEngine(cfg recommend.RulesConfig) *RuleEngine {
	e := &RuleEngine{cfg: cfg}
	e.rules = []rule{
		{RuleSubject, e.SubjectMatch},
		{RuleFamiliarity, e.FamiliarityOK},
		{RuleDevices, e.DevicesAvailable},
		{RuleConnectivity, e.ConnectivityOK},
		{RuleModality, e.ModalityMatch},
		{RuleAssessment, e.AssessmentOK},
	}
	return e
}

// Eligible reports whether the resource passes every rule.
func (e *RuleEngine) Eligible(p *recommend.TeacherProfile, r *recommend.Resource) bool {
	return e.Evaluate(p, r).Eligible
}

// Evaluate runs the rules in order and reports the first failure.
func (e *RuleEngine) Evaluate(p *recommend.TeacherProfile, r *recommend.Resource) Verdict {
	for _, rl := range e.rules {
		if !rl.check(p, r) {
			return Verdict{Eligible: false, FailedRule: rl.id}
		}
	}
	return Verdict{Eligible: true, FailedRule: RuleNone}
}

// SubjectMatch passes multidisciplinary resources, exact subject matches, and
// combined-science resources for the science subjects.
func (e *RuleEngine) SubjectMatch(p *recommend.TeacherProfile, r *recommend.Resource) bool {
	if r.Area == recommend.SubjectMultidisciplinary || r.Area == p.Subject {
		return true
	}
	return r.Area == recommend.SubjectNaturalSciences && slices.Contains(recommend.ScienceSubjects, p.Subject)
}

// FamiliarityOK fails hard-to-use resources for teachers with low familiarity.
func (e *RuleEngine) FamiliarityOK(p *recommend.TeacherProfile, r *recommend.Resource) bool {
	return !(p.TechFamiliarity < e.cfg.LowFamiliarity && r.EaseOfUse < e.cfg.MinEaseOfUse)
}

// DevicesAvailable requires a lab and computer support when students have no devices.
func (e *RuleEngine) DevicesAvailable(p *recommend.TeacherProfile, r *recommend.Resource) bool {
	if !slices.Contains(p.DeviceAccess, recommend.DeviceNone) {
		return true
	}
	return slices.Contains(p.Infrastructure, recommend.InfrastructureLab) &&
		slices.Contains(r.Devices, recommend.DeviceComputer)
}

// ConnectivityOK requires offline support when connectivity is poor.
func (e *RuleEngine) ConnectivityOK(p *recommend.TeacherProfile, r *recommend.Resource) bool {
	return !(p.Connectivity < e.cfg.OfflineConnectivity && !r.OfflineCapable)
}

// ModalityMatch requires the resource to support the lesson modality.
func (e *RuleEngine) ModalityMatch(p *recommend.TeacherProfile, r *recommend.Resource) bool {
	return slices.Contains(r.Modalities, p.Modality)
}

// AssessmentOK requires built-in assessment when the teacher needs it.
func (e *RuleEngine) AssessmentOK(p *recommend.TeacherProfile, r *recommend.Resource) bool {
	return !p.NeedsAssessment || r.HasAssessment
}

// Label evaluates every resource and returns the eligibility labels in order.
//
//nolint:gocritic // rangeValCopy avoided by indexing
func (e *RuleEngine) Label(p *recommend.TeacherProfile, resources []recommend.Resource) []bool {
	labels := make([]bool, len(resources))
	for i := range resources {
		labels[i] = e.Eligible(p, &resources[i])
	}
	return labels
}

// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package models

import "time"

// ReloadResult is returned by POST /api/v1/catalog/reload.
type ReloadResult struct {
	Version   int64     `json:"version"`
	Changed   bool      `json:"changed"`
	Resources int       `json:"resources"`
	Source    string    `json:"source"`
	LoadedAt  time.Time `json:"loaded_at"`
}

// MethodologyStage describes one step of the recommendation pipeline.
type MethodologyStage struct {
	Order       int      `json:"order"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Strategies  []string `json:"strategies"`
}

// Methodology is returned by GET /api/v1/methodology.
type Methodology struct {
	DefaultStrategy string             `json:"default_strategy"`
	Strategies      map[string]string  `json:"strategies"`
	ScoreFormulas   map[string]string  `json:"score_formulas"`
	Stages          []MethodologyStage `json:"stages"`
	References      []string           `json:"references"`
}

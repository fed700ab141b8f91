package models

import (
	"github.com/google/uuid"
)

// EntityRiskReport is the normalized, display-ready risk assessment for a
// single entity. The report builder guarantees every text field is a non-empty
// string regardless of how malformed the model output was.
type EntityRiskReport struct {
	EntityInfo     string `json:"entity_info"`
	Litigation     string `json:"litigation"`
	Sanctions      string `json:"sanctions"`
	Reputation     string `json:"reputation"`
	PEPExposure    string `json:"pep_exposure"`
	ComplianceGaps string `json:"compliance_gaps"`
	// RiskScore is the model's own composite estimate, 0-100. 50 when the
	// model omitted a numeric score; 0 when the response could not be parsed
	// at all (unscored, distinct from "model said mid-risk").
	RiskScore int `json:"risk_score"`
}

// SearchSource is one web citation from the backend's grounding metadata.
type SearchSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// RiskAnalysisResult is the immutable snapshot of one completed investigation.
type RiskAnalysisResult struct {
	ID         uuid.UUID        `json:"id"`
	EntityName string           `json:"entity_name"`
	AnalyzedAt string           `json:"analyzed_at"`
	Report     EntityRiskReport `json:"report"`
	Sources    []SearchSource   `json:"sources"`
}

// EventSeverity and EventCategory values match the taxonomy the feed prompt
// instructs the model to use.
type EventSeverity string

const (
	SeverityHigh   EventSeverity = "HIGH"
	SeverityMedium EventSeverity = "MEDIUM"
	SeverityLow    EventSeverity = "LOW"
)

type EventCategory string

const (
	CategoryLitigation EventCategory = "LITIGATION"
	CategorySanctions  EventCategory = "SANCTIONS"
	CategoryReputation EventCategory = "REPUTATION"
	CategoryPEP        EventCategory = "PEP"
	CategoryCompliance EventCategory = "COMPLIANCE"
)

// GlobalEvent is one adverse-news item in the global feed. Unlike
// EntityRiskReport, fields are decoded as-is: a field the model omitted stays
// a zero value, and the presentation layer deals with it.
type GlobalEvent struct {
	Headline  string        `json:"headline"`
	Summary   string        `json:"summary"`
	Insights  string        `json:"insights"`
	Location  string        `json:"location"`
	Source    string        `json:"source"`
	Severity  EventSeverity `json:"severity"`
	Category  EventCategory `json:"category"`
	Timestamp string        `json:"timestamp"`
	URL       string        `json:"url"`
}

// CategoryScores are the per-category heuristic sub-scores, each in [0,10].
type CategoryScores struct {
	Sanctions   float64 `json:"sanctions"`
	Litigation  float64 `json:"litigation"`
	Reputation  float64 `json:"reputation"`
	PEPExposure float64 `json:"pep_exposure"`
	Compliance  float64 `json:"compliance"`
}

// DerivedAnalytics is recomputed from a report on every read; the trend series
// takes fresh random draws each time, so two calls with the same report are
// not expected to match.
type DerivedAnalytics struct {
	Categories   CategoryScores `json:"categories"`
	Severity     float64        `json:"severity"`
	Likelihood   float64        `json:"likelihood"`
	ResidualRisk int            `json:"residual_risk"`
	Trend        []float64      `json:"trend"`
}

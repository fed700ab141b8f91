package risk

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/david/riskwatch/internal/ai"
	"github.com/david/riskwatch/internal/models"
	"github.com/google/uuid"
)

// Service owns the two model-backed operations: per-entity risk analysis and
// the global adverse-news feed. Each call issues exactly one generation
// request and returns an independent, immutable result; there is no retry,
// no caching and no shared state between in-flight calls.
type Service struct {
	ai  ai.Generator
	cfg *Config
}

func NewService(client ai.Generator, cfg *Config) *Service {
	return &Service{ai: client, cfg: cfg}
}

const entityPromptTemplate = `You are an expert due-diligence analyst. Research the entity "%s" using live web search and produce an adverse-media risk assessment.

Return a JSON object with this exact shape:
{
  "entityInfo": "string",
  "litigation": "string",
  "sanctions": "string",
  "reputation": "string",
  "pepExposure": "string",
  "complianceGaps": "string",
  "riskScore": number
}

Instructions:
1. entityInfo: who the entity is (jurisdiction, industry, ownership).
2. litigation: lawsuits, prosecutions, regulatory actions.
3. sanctions: presence on sanctions or watch lists, export restrictions.
4. reputation: adverse media coverage, controversies, public criticism.
5. pepExposure: political ties or politically exposed persons involved.
6. complianceGaps: known AML/KYC failures, fines, remediation orders.
7. riskScore: your overall severity estimate from 0 (clean) to 100 (critical).
8. For any category with no adverse findings, write exactly: "No significant adverse records identified in public sources."

Respond ONLY with the JSON object.`

// degradedCategory fills every category of the fallback report when the model
// response could not be read as JSON.
const degradedCategory = "Data unavailable due to a formatting error in the model response."

const degradedInfoPrefix = "The analysis could not be read as structured data. Raw model output: "

// AnalyzeEntity runs one full investigation. It fails only when the backend
// call itself fails; any structural problem in the model's output is absorbed
// into a degraded-but-renderable report.
func (s *Service) AnalyzeEntity(ctx context.Context, entityName string) (*models.RiskAnalysisResult, error) {
	prompt := fmt.Sprintf(entityPromptTemplate, entityName)

	resp, err := s.ai.GenerateGrounded(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("entity analysis request failed: %w", err)
	}

	return &models.RiskAnalysisResult{
		ID:         uuid.New(),
		EntityName: entityName,
		AnalyzedAt: time.Now().UTC().Format(time.RFC3339),
		Report:     buildReport(resp.Text),
		Sources:    filterSources(resp.Citations),
	}, nil
}

// buildReport normalizes the model's text into a complete EntityRiskReport.
// Total: every input yields a report with all six fields set.
func buildReport(text string) models.EntityRiskReport {
	obj, err := ai.DecodeObject(text)
	if err != nil {
		log.Printf("risk report extraction failed, using degraded report: %v", err)
		return degradedReport(text)
	}

	return models.EntityRiskReport{
		EntityInfo:     formatField(obj["entityInfo"]),
		Litigation:     formatField(obj["litigation"]),
		Sanctions:      formatField(obj["sanctions"]),
		Reputation:     formatField(obj["reputation"]),
		PEPExposure:    formatField(obj["pepExposure"]),
		ComplianceGaps: formatField(obj["complianceGaps"]),
		RiskScore:      parseRiskScore(obj["riskScore"]),
	}
}

// formatField flattens one category value and upholds the report invariant
// that no field is ever empty: an empty string or empty object from the model
// renders as the no-data sentinel.
func formatField(v any) string {
	s := FormatValue(v, 0)
	if s == "" {
		return NoData
	}
	return s
}

// degradedReport anchors the fallback on the entity-info field so the UI can
// show what the model actually said, truncated. RiskScore 0 marks the report
// as unscored, distinct from the mid-risk default of 50.
func degradedReport(raw string) models.EntityRiskReport {
	return models.EntityRiskReport{
		EntityInfo:     degradedInfoPrefix + TruncateText(raw, 150),
		Litigation:     degradedCategory,
		Sanctions:      degradedCategory,
		Reputation:     degradedCategory,
		PEPExposure:    degradedCategory,
		ComplianceGaps: degradedCategory,
		RiskScore:      0,
	}
}

// parseRiskScore takes the decoded riskScore value. Non-numeric shapes (the
// model sometimes returns "riskScore": "low") default to 50; numeric values
// are rounded and clamped into the declared 0-100 range.
func parseRiskScore(v any) int {
	f, ok := v.(float64)
	if !ok {
		return 50
	}
	score := int(math.Round(f))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// filterSources keeps citations with both a title and a URI, preserving the
// backend's order. Duplicates are kept as-is.
func filterSources(citations []ai.Citation) []models.SearchSource {
	sources := make([]models.SearchSource, 0, len(citations))
	for _, c := range citations {
		if c.Title == "" || c.URI == "" {
			continue
		}
		sources = append(sources, models.SearchSource{Title: c.Title, URI: c.URI})
	}
	return sources
}

const feedPromptTemplate = `You are a financial-crime news desk. Using live web search, find exactly %d adverse-media events from the last 7 days involving companies or public figures. At least %d of the %d events must come from %s.

Each event must match one category: LITIGATION, SANCTIONS, REPUTATION, PEP, COMPLIANCE.

Return a JSON array with this exact shape:
[
  {
    "headline": "string",
    "summary": "2-3 sentence summary",
    "insights": "why this matters for due diligence",
    "location": "city or country",
    "source": "publisher name",
    "severity": "HIGH" | "MEDIUM" | "LOW",
    "category": "LITIGATION" | "SANCTIONS" | "REPUTATION" | "PEP" | "COMPLIANCE",
    "timestamp": "display date, e.g. Aug 29, 2026",
    "url": "verifiable source URL"
  }
]

Rules:
1. Only real, verifiable events with working source URLs and real publisher names.
2. Do not invent entities or repeat the same story twice.
3. RESPOND ONLY WITH THE JSON ARRAY.`

// GlobalUpdates fetches the global adverse-news feed. Every failure — backend
// or parse — degrades to an empty list: there is no single entity to anchor a
// placeholder record against, and an empty feed is a valid, unambiguous
// "nothing found". Event fields are decoded as-is, with no normalization.
func (s *Service) GlobalUpdates(ctx context.Context) []models.GlobalEvent {
	prompt := fmt.Sprintf(feedPromptTemplate,
		s.cfg.Feed.EventCount, s.cfg.Feed.RegionalMinimum, s.cfg.Feed.EventCount, s.cfg.Feed.Region)

	resp, err := s.ai.GenerateGrounded(ctx, prompt)
	if err != nil {
		log.Printf("global updates request failed: %v", err)
		return []models.GlobalEvent{}
	}

	var events []models.GlobalEvent
	if err := ai.DecodeArray(resp.Text, &events); err != nil {
		log.Printf("global updates extraction failed: %v", err)
		return []models.GlobalEvent{}
	}
	if events == nil {
		events = []models.GlobalEvent{}
	}
	return events
}

package risk

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/david/riskwatch/internal/ai"
	"github.com/david/riskwatch/internal/models"
	"github.com/google/uuid"
)

type fakeGenerator struct {
	result *ai.GroundedResult
	err    error
}

func (f *fakeGenerator) GenerateGrounded(_ context.Context, _ string) (*ai.GroundedResult, error) {
	return f.result, f.err
}

func testConfig() *Config {
	return &Config{
		Model: "test-model",
		Feed: FeedConfig{
			EventCount:      8,
			Region:          "Latin America",
			RegionalMinimum: 5,
		},
		Trend: TrendConfig{Windows: []int{30, 60, 90}, DefaultDays: 30},
	}
}

func newTestService(result *ai.GroundedResult, err error) *Service {
	return NewService(&fakeGenerator{result: result, err: err}, testConfig())
}

const wellFormedResponse = `Here is my assessment:
{
  "entityInfo": "Acme Corp, a Delaware holding company.",
  "litigation": "Two ongoing lawsuits over contract disputes.",
  "sanctions": "No significant adverse records identified in public sources.",
  "reputation": {"pressTone": "negative", "controversies": ["price fixing claims"]},
  "pepExposure": null,
  "complianceGaps": ["Late AML filings in 2021", "Missing UBO register entry"],
  "riskScore": 62
}`

func TestAnalyzeEntityWellFormed(t *testing.T) {
	svc := newTestService(&ai.GroundedResult{
		Text: wellFormedResponse,
		Citations: []ai.Citation{
			{Title: "Reuters", URI: "https://reuters.com/a"},
			{Title: "", URI: "https://example.com/untitled"},
			{Title: "No link", URI: ""},
			{Title: "Reuters", URI: "https://reuters.com/a"},
		},
	}, nil)

	result, err := svc.AnalyzeEntity(context.Background(), "Acme Corp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.EntityName != "Acme Corp" {
		t.Errorf("expected entity name, got %q", result.EntityName)
	}
	if result.ID == uuid.Nil {
		t.Error("expected a non-nil result ID")
	}
	if _, err := time.Parse(time.RFC3339, result.AnalyzedAt); err != nil {
		t.Errorf("AnalyzedAt not RFC3339: %v", err)
	}

	r := result.Report
	if r.RiskScore != 62 {
		t.Errorf("expected risk score 62, got %d", r.RiskScore)
	}
	if r.EntityInfo != "Acme Corp, a Delaware holding company." {
		t.Errorf("unexpected entityInfo: %q", r.EntityInfo)
	}
	if r.PEPExposure != NoData {
		t.Errorf("null field should render the sentinel, got %q", r.PEPExposure)
	}
	if !strings.Contains(r.ComplianceGaps, "• Late AML filings in 2021") {
		t.Errorf("array field should render bullets, got %q", r.ComplianceGaps)
	}
	if !strings.Contains(r.Reputation, "Press Tone: negative") {
		t.Errorf("object field should render labeled entries, got %q", r.Reputation)
	}

	// Duplicates kept, incomplete citations dropped, order preserved.
	if len(result.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(result.Sources))
	}
	if result.Sources[0].Title != "Reuters" || result.Sources[1].URI != "https://reuters.com/a" {
		t.Errorf("unexpected sources: %v", result.Sources)
	}
}

func TestAnalyzeEntityRiskScoreHandling(t *testing.T) {
	tests := []struct {
		name     string
		response string
		expected int
	}{
		{"non-numeric score defaults to 50", `{"entityInfo": "x", "riskScore": "low"}`, 50},
		{"missing score defaults to 50", `{"entityInfo": "x"}`, 50},
		{"fractional score rounds", `{"riskScore": 71.6}`, 72},
		{"out-of-range score clamps high", `{"riskScore": 250}`, 100},
		{"out-of-range score clamps low", `{"riskScore": -4}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&ai.GroundedResult{Text: tt.response}, nil)
			result, err := svc.AnalyzeEntity(context.Background(), "Acme")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Report.RiskScore != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result.Report.RiskScore)
			}
		})
	}
}

func TestAnalyzeEntityEmptyFieldsGetSentinel(t *testing.T) {
	svc := newTestService(&ai.GroundedResult{Text: `{"litigation": "", "sanctions": {}, "riskScore": 10}`}, nil)
	result, err := svc.AnalyzeEntity(context.Background(), "Acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := result.Report
	for name, field := range map[string]string{
		"entityInfo": r.EntityInfo,
		"litigation": r.Litigation,
		"sanctions":  r.Sanctions,
	} {
		if field != NoData {
			t.Errorf("expected sentinel for %s, got %q", name, field)
		}
	}
}

func TestAnalyzeEntityDegradedReport(t *testing.T) {
	responses := []string{
		"",
		"I'm sorry, I could not find structured information about that entity.",
		`{"entityInfo": "Acme", "riskScore":`,
		`{"a":1} junk {"b":2}`,
	}

	for _, raw := range responses {
		svc := newTestService(&ai.GroundedResult{Text: raw}, nil)
		result, err := svc.AnalyzeEntity(context.Background(), "Acme")
		if err != nil {
			t.Fatalf("degraded path must not error, got %v for %q", err, raw)
		}

		r := result.Report
		if r.RiskScore != 0 {
			t.Errorf("degraded report must be unscored, got %d", r.RiskScore)
		}
		for name, field := range map[string]string{
			"litigation": r.Litigation,
			"sanctions":  r.Sanctions,
			"reputation": r.Reputation,
			"pep":        r.PEPExposure,
			"compliance": r.ComplianceGaps,
		} {
			if field != degradedCategory {
				t.Errorf("expected degraded %s message, got %q", name, field)
			}
		}
		if !strings.HasPrefix(r.EntityInfo, degradedInfoPrefix) {
			t.Errorf("expected raw-excerpt prefix, got %q", r.EntityInfo)
		}
		if len(r.EntityInfo) > len(degradedInfoPrefix)+150 {
			t.Errorf("excerpt longer than 150 chars: %d", len(r.EntityInfo)-len(degradedInfoPrefix))
		}
	}
}

func TestAnalyzeEntityDegradedExcerptTruncates(t *testing.T) {
	raw := strings.Repeat("x", 500)
	svc := newTestService(&ai.GroundedResult{Text: raw}, nil)
	result, err := svc.AnalyzeEntity(context.Background(), "Acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	excerpt := strings.TrimPrefix(result.Report.EntityInfo, degradedInfoPrefix)
	if len(excerpt) != 150 {
		t.Errorf("expected 150-char excerpt, got %d", len(excerpt))
	}
}

func TestAnalyzeEntityBackendErrorPropagates(t *testing.T) {
	backendErr := errors.New("quota exceeded")
	svc := newTestService(nil, backendErr)

	if _, err := svc.AnalyzeEntity(context.Background(), "Acme"); !errors.Is(err, backendErr) {
		t.Fatalf("expected backend error to propagate, got %v", err)
	}
}

func TestGlobalUpdates(t *testing.T) {
	t.Run("well-formed array", func(t *testing.T) {
		svc := newTestService(&ai.GroundedResult{Text: `Found these:
[
  {"headline": "Bank fined", "severity": "HIGH", "category": "COMPLIANCE", "source": "FT", "url": "https://ft.com/x"},
  {"headline": "Court ruling", "severity": "LOW", "category": "LITIGATION"}
]`}, nil)

		events := svc.GlobalUpdates(context.Background())
		if len(events) != 2 {
			t.Fatalf("expected 2 events, got %d", len(events))
		}
		if events[0].Severity != models.SeverityHigh {
			t.Errorf("unexpected severity: %v", events[0].Severity)
		}
		// No defaulting on the feed path: omitted fields stay zero values.
		if events[1].URL != "" || events[1].Source != "" {
			t.Errorf("expected missing fields to pass through empty, got %+v", events[1])
		}
	})

	t.Run("prose degrades to empty list", func(t *testing.T) {
		svc := newTestService(&ai.GroundedResult{Text: "no adverse events found today"}, nil)
		if events := svc.GlobalUpdates(context.Background()); len(events) != 0 {
			t.Fatalf("expected empty list, got %v", events)
		}
	})

	t.Run("corrupted span degrades to empty list", func(t *testing.T) {
		svc := newTestService(&ai.GroundedResult{Text: `[{"headline":"x"}] stray ]`}, nil)
		if events := svc.GlobalUpdates(context.Background()); len(events) != 0 {
			t.Fatalf("expected empty list, got %v", events)
		}
	})

	t.Run("backend error degrades to empty list", func(t *testing.T) {
		svc := newTestService(nil, errors.New("network down"))
		events := svc.GlobalUpdates(context.Background())
		if events == nil || len(events) != 0 {
			t.Fatalf("expected non-nil empty list, got %v", events)
		}
	})
}

package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/david/riskwatch/internal/ai"
	"github.com/david/riskwatch/internal/risk"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Runs one entity investigation from the terminal and prints the report,
// sources and derived analytics.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: investigate <entity name>")
	}
	entity := strings.Join(os.Args[1:], " ")

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY is required")
	}

	cfg, err := risk.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	svc := risk.NewService(ai.NewGeminiClient("", apiKey, cfg.Model), cfg)

	ctx := context.Background()
	result, err := svc.AnalyzeEntity(ctx, entity)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Risk report: %s (%s)", result.EntityName, result.AnalyzedAt)
	t.AppendHeader(table.Row{"Category", "Findings"})
	t.AppendRow(table.Row{"Entity", result.Report.EntityInfo})
	t.AppendRow(table.Row{"Litigation", result.Report.Litigation})
	t.AppendRow(table.Row{"Sanctions", result.Report.Sanctions})
	t.AppendRow(table.Row{"Reputation", result.Report.Reputation})
	t.AppendRow(table.Row{"PEP Exposure", result.Report.PEPExposure})
	t.AppendRow(table.Row{"Compliance Gaps", result.Report.ComplianceGaps})
	t.Render()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	analytics := risk.ComputeAnalytics(result.Report, cfg.Trend.DefaultDays, rng)

	t = table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRow(table.Row{"Model risk score", result.Report.RiskScore})
	t.AppendRow(table.Row{"Severity", analytics.Severity})
	t.AppendRow(table.Row{"Likelihood", analytics.Likelihood})
	t.AppendRow(table.Row{"Residual risk", analytics.ResidualRisk})
	t.Render()

	if len(result.Sources) > 0 {
		t = table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Source", "URL"})
		for _, src := range result.Sources {
			t.AppendRow(table.Row{src.Title, src.URI})
		}
		t.Render()
	}
}

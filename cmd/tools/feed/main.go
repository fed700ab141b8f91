package main

import (
	"context"
	"log"
	"os"

	"github.com/david/riskwatch/internal/ai"
	"github.com/david/riskwatch/internal/risk"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Fetches the global adverse-media feed and prints it as a table.
func main() {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY is required")
	}

	cfg, err := risk.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	svc := risk.NewService(ai.NewGeminiClient("", apiKey, cfg.Model), cfg)

	events := svc.GlobalUpdates(context.Background())
	if len(events) == 0 {
		log.Println("No events returned.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Severity", "Category", "Headline", "Location", "Source", "Date"})
	for _, ev := range events {
		t.AppendRow(table.Row{ev.Severity, ev.Category, ev.Headline, ev.Location, ev.Source, ev.Timestamp})
	}
	t.Render()
}

package main

import (
	"log"
	"os"

	"github.com/david/riskwatch/internal/ai"
	"github.com/david/riskwatch/internal/api"
	"github.com/david/riskwatch/internal/risk"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY is required")
	}

	cfg, err := risk.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client := ai.NewGeminiClient("", apiKey, cfg.Model)
	svc := risk.NewService(client, cfg)

	srv := api.NewServer(svc, cfg)
	log.Printf("Server starting on port %s...", port)
	if err := srv.Start(port); err != nil {
		log.Fatal(err)
	}
}

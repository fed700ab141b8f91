package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Generator is the single surface the risk builders need from the model
// backend: one grounded generation call per request.
type Generator interface {
	GenerateGrounded(ctx context.Context, prompt string) (*GroundedResult, error)
}

// Citation is one web source the backend claims to have used.
type Citation struct {
	Title string
	URI   string
}

// GroundedResult is the raw outcome of a search-grounded generation call:
// free-form text (the model is asked for JSON but does not reliably comply)
// plus zero or more citations in the backend's own order.
type GroundedResult struct {
	Text      string
	Citations []Citation
}

type GeminiClient struct {
	BaseURL string
	APIKey  string
	Model   string
}

func NewGeminiClient(baseURL, apiKey, model string) *GeminiClient {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
	}
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generateTool struct {
	GoogleSearch struct{} `json:"google_search"`
}

type generateRequest struct {
	Contents []generateContent `json:"contents"`
	Tools    []generateTool    `json:"tools"`
}

type groundingWeb struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

type groundingChunk struct {
	Web *groundingWeb `json:"web"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []generatePart `json:"parts"`
		} `json:"content"`
		GroundingMetadata struct {
			GroundingChunks []groundingChunk `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
}

// GenerateGrounded issues one generateContent call with the google_search tool
// enabled. Structured-output mode is unavailable when search grounding is on,
// so the returned text is whatever the model produced.
func (c *GeminiClient) GenerateGrounded(ctx context.Context, prompt string) (*GroundedResult, error) {
	reqBody := generateRequest{
		Contents: []generateContent{{Parts: []generatePart{{Text: prompt}}}},
		Tools:    []generateTool{{}},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.BaseURL, c.Model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.APIKey)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini returned status: %d", resp.StatusCode)
	}

	var parsedResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsedResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(parsedResp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	cand := parsedResp.Candidates[0]
	result := &GroundedResult{}
	for _, part := range cand.Content.Parts {
		result.Text += part.Text
	}
	for _, chunk := range cand.GroundingMetadata.GroundingChunks {
		if chunk.Web == nil {
			continue
		}
		result.Citations = append(result.Citations, Citation{
			Title: chunk.Web.Title,
			URI:   chunk.Web.URI,
		})
	}

	return result, nil
}

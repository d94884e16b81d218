package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Generator produces a completion for a system/user message pair.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// GeminiClient calls the Gemini generateContent endpoint.
type GeminiClient struct {
	client  *resty.Client
	apiKey  string
	model   string
	baseURL string
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewGeminiClient constructs a client for the given API key and model.
func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{
		client:  resty.New().SetTimeout(60 * time.Second),
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://generativelanguage.googleapis.com/v1beta/models",
	}
}

// NewGeminiClientWithURL points the client at a custom base URL (for tests).
func NewGeminiClientWithURL(baseURL, apiKey, model string) *GeminiClient {
	c := NewGeminiClient(apiKey, model)
	c.baseURL = baseURL
	return c
}

// Generate sends the prompt pair and returns the first candidate's text
// with any markdown code fences stripped.
func (g *GeminiClient) Generate(ctx context.Context, system, user string) (string, error) {
	url := fmt.Sprintf("%s/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)

	req := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: user}},
		}},
	}
	if system != "" {
		req.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: system}}}
	}

	var resp geminiResponse
	httpResp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(url)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	if resp.Error != nil {
		return "", fmt.Errorf("gemini error: %s", resp.Error.Message)
	}
	if httpResp.IsError() {
		return "", fmt.Errorf("gemini returned status %d", httpResp.StatusCode())
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no content")
	}

	return StripCodeFence(resp.Candidates[0].Content.Parts[0].Text), nil
}

// StripCodeFence removes a surrounding markdown code fence, which Gemini
// sometimes wraps around structured answers.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimSuffix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	return strings.TrimSpace(s)
}

// Package sentiment summarizes accumulated review text through a generative
// model. The service is a black box to the rest of the system: one call in,
// one plain-text summary or an error out, no retries.
package sentiment

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/cinemind/cinemind/internal/config"
)

const prompt = "Analyze the sentiment of the following movie reviews and provide a single plain-text summary of the overall sentiment. " +
	"Do not include any titles, headings, author names, or individual review analysis. Focus only on the overall sentiment " +
	"and key points expressed collectively in the reviews:\n\n"

// Analyzer produces an overall-sentiment summary for a block of review text.
type Analyzer interface {
	Summarize(ctx context.Context, reviews string) (string, error)
}

type disabled struct{}

func (disabled) Summarize(context.Context, string) (string, error) {
	return "", fmt.Errorf("sentiment analysis is not configured")
}

// Disabled returns an analyzer that always fails. Used when no API key is
// configured, so the endpoint stays mounted and reports the real problem.
func Disabled() Analyzer { return disabled{} }

// GeminiAnalyzer implements Analyzer on top of the Gemini API.
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

// NewGeminiAnalyzer builds an analyzer from the configured API key and model.
func NewGeminiAnalyzer(ctx context.Context, cfg config.GeminiConfig) (*GeminiAnalyzer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiAnalyzer{client: client, model: cfg.Model}, nil
}

// Summarize sends the reviews to the model and returns its trimmed text
// response.
func (g *GeminiAnalyzer) Summarize(ctx context.Context, reviews string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt+reviews), nil)
	if err != nil {
		return "", fmt.Errorf("sentiment analysis request failed: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("sentiment model returned an empty response")
	}
	return text, nil
}

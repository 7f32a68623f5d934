package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiClient generates text through the Gemini API backend.
type GeminiClient struct {
	client *genai.Client
	opts   Options
}

func NewGeminiClient(ctx context.Context, apiKey string, opts Options) (*GeminiClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if strings.TrimSpace(opts.Model) == "" || strings.HasPrefix(opts.Model, "gpt-") {
		opts.Model = defaultGeminiModel
	}
	return &GeminiClient{client: client, opts: opts}, nil
}

func (g *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(g.opts.Temperature)),
		MaxOutputTokens: int32(g.opts.MaxTokens),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.opts.Model, genai.Text(prompt), cfg)
	if err != nil {
		return "", classify(ctx, err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(part.Text)
		}
	}

	if builder.Len() == 0 {
		return "", fmt.Errorf("%w: gemini returned no text", ErrEmptyCompletion)
	}
	return builder.String(), nil
}

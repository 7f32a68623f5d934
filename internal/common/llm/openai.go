package llm

import (
	"context"
	"fmt"
	"strings"

	commonhttp "hiring-platform/internal/common/http"
)

// OpenAIClient speaks the chat-completions wire format, which most hosted
// and self-hosted model gateways accept.
type OpenAIClient struct {
	http    *commonhttp.Client
	baseURL string
	apiKey  string
	opts    Options
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func NewOpenAIClient(baseURL, apiKey string, opts Options) *OpenAIClient {
	return &OpenAIClient{
		// The per-call deadline comes from opts.Timeout via the context.
		http:    commonhttp.NewClient(0),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		opts:    opts,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	body := chatRequest{
		Model:       c.opts.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.opts.Temperature,
		MaxTokens:   c.opts.MaxTokens,
	}
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}

	var resp chatResponse
	if err := c.http.PostJSON(ctx, c.baseURL+"/chat/completions", headers, body, &resp); err != nil {
		return "", classify(ctx, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrEmptyCompletion)
	}
	return resp.Choices[0].Message.Content, nil
}

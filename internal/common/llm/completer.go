// Package llm talks to hosted language models. Callers only see the
// Completer interface: one prompt in, generated text out.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hiring-platform/internal/common/config"
)

var (
	ErrLLMTimeout       = errors.New("LLM_TIMEOUT")
	ErrLLMRequestFailed = errors.New("LLM_REQUEST_FAILED")
	ErrEmptyCompletion  = errors.New("LLM_EMPTY_COMPLETION")
)

// Completer returns the text a model generates for a single user prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Options are the generation parameters shared by every provider.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

func OptionsFromConfig(cfg config.LLMConfig) Options {
	return Options{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     config.GetDuration(cfg.Timeout),
	}
}

// New returns the Completer for the configured provider, or nil when no
// external capability is configured.
func New(ctx context.Context, cfg config.LLMConfig) (Completer, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	opts := OptionsFromConfig(cfg)
	switch cfg.Provider {
	case "", "openai":
		return NewOpenAIClient(cfg.BaseURL, cfg.APIKey, opts), nil
	case "gemini":
		client, err := NewGeminiClient(ctx, cfg.APIKey, opts)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

// classify maps a transport error onto the package sentinels.
func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrLLMTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrLLMRequestFailed, err)
}

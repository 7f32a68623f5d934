// Package terms turns free text into weighted skill terms, asking a
// language model when one is configured and tokenizing locally otherwise.
package terms

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"hiring-platform/internal/common/llm"
	"hiring-platform/internal/common/logger"
	"hiring-platform/internal/common/metrics"
	"hiring-platform/internal/matching"
)

const DefaultTimeout = 30 * time.Second

var tracer = otel.Tracer("hiring-platform/matching/terms")

type Config struct {
	CacheSize int
	Timeout   time.Duration
}

// Extractor never fails: every path ends in a non-nil TermWeights.
type Extractor struct {
	completer llm.Completer
	cache     *memoCache
	timeout   time.Duration
	logger    logger.Logger
}

// NewExtractor builds an extractor. A nil completer selects the local
// tokenizer for every text.
func NewExtractor(cfg Config, completer llm.Completer, log logger.Logger) (*Extractor, error) {
	cache, err := newMemoCache(cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Extractor{
		completer: completer,
		cache:     cache,
		timeout:   cfg.Timeout,
		logger:    log.WithFields(map[string]interface{}{"component": "term-extractor"}),
	}, nil
}

// Extract memoizes per text for the whole process. The computation ignores
// the caller's cancellation; only the extractor timeout bounds it.
func (e *Extractor) Extract(ctx context.Context, text string) matching.TermWeights {
	computeCtx := context.WithoutCancel(ctx)
	weights, hit := e.cache.getOrCompute(text, func() matching.TermWeights {
		return e.extract(computeCtx, text)
	})
	if hit {
		metrics.TermExtractions.WithLabelValues(metrics.SourceCache).Inc()
	}
	return weights
}

func (e *Extractor) extract(ctx context.Context, text string) matching.TermWeights {
	if e.completer == nil {
		metrics.TermExtractions.WithLabelValues(metrics.SourceFallback).Inc()
		return Tokenize(text)
	}

	ctx, span := tracer.Start(ctx, "terms.extract")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.completer.Complete(ctx, buildPrompt(text))
	if err != nil {
		e.logger.Warn("llm extraction failed, tokenizing input", map[string]interface{}{
			"error":      err.Error(),
			"textLength": len(text),
		})
		span.SetAttributes(attribute.String("terms.source", metrics.SourceFallback))
		metrics.TermExtractions.WithLabelValues(metrics.SourceFallback).Inc()
		return Tokenize(text)
	}

	if weights, ok := ParseTermWeights(raw); ok {
		span.SetAttributes(
			attribute.String("terms.source", metrics.SourceLLM),
			attribute.Int("terms.count", len(weights)),
		)
		metrics.TermExtractions.WithLabelValues(metrics.SourceLLM).Inc()
		return weights
	}

	e.logger.Warn("unparseable llm answer, tokenizing response", map[string]interface{}{
		"responseLength": len(raw),
	})
	span.SetAttributes(attribute.String("terms.source", metrics.SourceParseFallback))
	metrics.TermExtractions.WithLabelValues(metrics.SourceParseFallback).Inc()
	return Tokenize(raw)
}

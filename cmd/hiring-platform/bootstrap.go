package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hiring-platform/internal/common/config"
	"hiring-platform/internal/common/database"
	"hiring-platform/internal/common/llm"
	"hiring-platform/internal/common/logger"
	"hiring-platform/internal/common/observability"
	"hiring-platform/internal/matching/suggest"
	"hiring-platform/internal/matching/terms"
	"hiring-platform/internal/store"
)

// runtime holds what every subcommand needs before it does its own work.
type runtime struct {
	cfg *config.Config
	zap *zap.Logger
	log logger.Logger
	pg  *database.PostgresClient
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadFromFile(cfgFile)
	}
	return config.Load()
}

func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
	})

	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(ctx, cfg.Database.Postgres)
		return err
	}, 10, 2*time.Second, log, "PostgreSQL connection")
	if err != nil {
		_ = zapLog.Sync()
		return nil, err
	}
	log.Info("PostgreSQL connected successfully", nil)

	return &runtime{cfg: cfg, zap: zapLog, log: log, pg: pg}, nil
}

func (r *runtime) close() {
	if err := r.pg.Close(); err != nil {
		r.log.Warn("postgres close failed", map[string]interface{}{"error": err.Error()})
	}
	_ = r.zap.Sync()
}

// newEngine wires the term extractor and match suggestion engine over the
// Postgres store.
func (r *runtime) newEngine(ctx context.Context, st *store.Store, obs *observability.Observability) (*suggest.Engine, error) {
	completer, err := llm.New(ctx, r.cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("llm client: %w", err)
	}
	if completer == nil {
		r.log.Info("no language model configured, using the fallback tokenizer", nil)
	}

	extractor, err := terms.NewExtractor(terms.Config{
		CacheSize: r.cfg.LLM.CacheSize,
		Timeout:   config.GetDuration(r.cfg.LLM.Timeout),
	}, completer, r.log)
	if err != nil {
		return nil, fmt.Errorf("term extractor: %w", err)
	}

	return suggest.NewEngine(st, extractor, suggest.Config{
		Threshold: r.cfg.Matching.Threshold,
		Limit:     r.cfg.Matching.MaxSuggestions,
	}, obs, r.log), nil
}

// retryWithBackoff retries operation with exponential backoff.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

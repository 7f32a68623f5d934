package matchsuggestions

import (
	"time"

	"hiring-platform/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// MaxRetries caps the retries a retryable failure gets.
	MaxRetries int
}

func LoadConfig(cfg *config.Config) *Config {
	wc := config.GetWorkerConfig(cfg, TaskType)
	return &Config{
		Timeout:    config.GetDuration(wc.Timeout),
		MaxRetries: wc.MaxRetries,
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const developmentSecretKey = "dev-secret-change-me"

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on
// top and lets environment variables override any key (database.postgres.host
// becomes DATABASE_POSTGRES_HOST).
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return finalize(v)
}

// LoadFromFile loads a single explicit config file.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finalize(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func finalize(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it during
// Unmarshal, including keys missing from the yaml files.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "hiring-platform")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")

	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", 15000)
	v.SetDefault("server.write_timeout", 120000)
	v.SetDefault("server.shutdown_timeout", 15000)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})

	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.postgres.url", "")
	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.database", "hiring_platform")
	v.SetDefault("database.postgres.user", "postgres")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.postgres.max_connections", 25)
	v.SetDefault("database.postgres.max_idle", 5)
	v.SetDefault("database.postgres.sslmode", "disable")
	v.SetDefault("database.redis.address", "")
	v.SetDefault("database.redis.password", "")
	v.SetDefault("database.redis.db", 0)
	v.SetDefault("database.elasticsearch.url", "")
	v.SetDefault("database.elasticsearch.username", "")
	v.SetDefault("database.elasticsearch.password", "")
	v.SetDefault("database.elasticsearch.index", "challenges")

	v.SetDefault("auth.secret_key", "")
	v.SetDefault("auth.algorithm", "HS256")
	v.SetDefault("auth.access_token_expire_minutes", 30)
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gpt-3.5-turbo")
	v.SetDefault("llm.timeout", 30000)
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.max_tokens", 500)
	v.SetDefault("llm.cache_size", 100)

	v.SetDefault("matching.threshold", 0.3)
	v.SetDefault("matching.max_suggestions", 10)

	v.SetDefault("features.match_suggestions", true)
	v.SetDefault("features.uploads", true)
	v.SetDefault("features.search", false)
	v.SetDefault("features.notifications", false)
	v.SetDefault("features.workflows", false)

	v.SetDefault("uploads.dir", "uploads")
	v.SetDefault("uploads.max_size_mb", 10)

	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("aws.ses.enabled", false)
	v.SetDefault("aws.ses.from_email", "")
	v.SetDefault("aws.sns.enabled", false)
	v.SetDefault("aws.sns.topic_arn", "")

	v.SetDefault("camunda.broker_address", "")
	v.SetDefault("camunda.plaintext", true)
	v.SetDefault("camunda.max_jobs_active", 10)
	v.SetDefault("camunda.timeout", 30000)
	v.SetDefault("camunda.request_timeout", 30000)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("observability.service_name", "hiring-platform")
	v.SetDefault("observability.metrics_enabled", true)
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig honors the environment names older deployments of
// the platform used.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Auth.SecretKey == "" {
		cfg.Auth.SecretKey = os.Getenv("SECRET_KEY")
	}
	if val := os.Getenv("ALGORITHM"); val != "" && os.Getenv("AUTH_ALGORITHM") == "" {
		cfg.Auth.Algorithm = val
	}
	if val := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); val != "" && os.Getenv("AUTH_ACCESS_TOKEN_EXPIRE_MINUTES") == "" {
		if minutes, err := strconv.Atoi(val); err == nil {
			cfg.Auth.AccessTokenExpireMinutes = minutes
		}
	}
	if cfg.Database.Postgres.URL == "" {
		cfg.Database.Postgres.URL = os.Getenv("DATABASE_URL")
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.LLM.APIKey == "" && cfg.LLM.Provider == "gemini" {
		cfg.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Auth.SecretKey == "" && cfg.App.Environment != "production" {
		cfg.Auth.SecretKey = developmentSecretKey
	}
	if cfg.Database.Elasticsearch.URL == "" && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		cfg.Database.Elasticsearch.URL = cfg.Database.Elasticsearch.Addresses[0]
	}
	if cfg.LLM.CacheSize <= 0 {
		cfg.LLM.CacheSize = 100
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Database.Postgres.URL == "" {
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required")
		}
		if cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required")
		}
	}

	if cfg.Auth.SecretKey == "" {
		return fmt.Errorf("auth.secret_key is required in %s", cfg.App.Environment)
	}
	switch cfg.Auth.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("auth.algorithm %q is not supported", cfg.Auth.Algorithm)
	}
	if cfg.Auth.AccessTokenExpireMinutes <= 0 {
		return fmt.Errorf("auth.access_token_expire_minutes must be positive")
	}

	switch cfg.LLM.Provider {
	case "openai", "gemini", "none", "":
	default:
		return fmt.Errorf("llm.provider %q is not supported", cfg.LLM.Provider)
	}

	if cfg.Features.Search && cfg.Database.Elasticsearch.GetURL() == "" {
		return fmt.Errorf("database.elasticsearch.url is required when features.search is enabled")
	}
	if cfg.Features.Notifications && !cfg.AWS.SES.Enabled && !cfg.AWS.SNS.Enabled {
		return fmt.Errorf("aws.ses or aws.sns must be enabled when features.notifications is enabled")
	}
	if cfg.AWS.SES.Enabled && cfg.AWS.SES.FromEmail == "" {
		return fmt.Errorf("aws.ses.from_email is required when SES is enabled")
	}
	if cfg.AWS.SNS.Enabled && cfg.AWS.SNS.TopicARN == "" {
		return fmt.Errorf("aws.sns.topic_arn is required when SNS is enabled")
	}
	if cfg.Features.Workflows && cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required when features.workflows is enabled")
	}

	return nil
}

func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}
	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
		MaxRetries:    3,
	}
}

func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}

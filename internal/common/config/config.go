package config

import "fmt"

type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Server        ServerConfig            `mapstructure:"server"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Auth          AuthConfig              `mapstructure:"auth"`
	LLM           LLMConfig               `mapstructure:"llm"`
	Matching      MatchingConfig          `mapstructure:"matching"`
	Features      FeaturesConfig          `mapstructure:"features"`
	Uploads       UploadsConfig           `mapstructure:"uploads"`
	AWS           AWSConfig               `mapstructure:"aws"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Observability ObservabilityConfig     `mapstructure:"observability"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port               int      `mapstructure:"port"`
	ReadTimeout        int      `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout       int      `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout    int      `mapstructure:"shutdown_timeout"` // milliseconds
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
	AutoMigrate   bool                `mapstructure:"auto_migrate"`
}

type PostgresConfig struct {
	URL            string `mapstructure:"url"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN prefers an explicit connection URL over the discrete fields.
func (p PostgresConfig) GetDSN() string {
	if p.URL != "" {
		return p.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	URL       string   `mapstructure:"url"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

// RedisConfig is optional; an empty Address disables token revocation.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AuthConfig struct {
	SecretKey                string `mapstructure:"secret_key"`
	Algorithm                string `mapstructure:"algorithm"`
	AccessTokenExpireMinutes int    `mapstructure:"access_token_expire_minutes"`
	BcryptCost               int    `mapstructure:"bcrypt_cost"`
}

type LLMConfig struct {
	Provider    string  `mapstructure:"provider"` // openai | gemini | none
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	CacheSize   int     `mapstructure:"cache_size"`
}

// Enabled reports whether an external extraction capability is configured.
func (l LLMConfig) Enabled() bool {
	return l.Provider != "none" && l.APIKey != ""
}

type MatchingConfig struct {
	Threshold      float64 `mapstructure:"threshold"`
	MaxSuggestions int     `mapstructure:"max_suggestions"`
}

type FeaturesConfig struct {
	MatchSuggestions bool `mapstructure:"match_suggestions"`
	Uploads          bool `mapstructure:"uploads"`
	Search           bool `mapstructure:"search"`
	Notifications    bool `mapstructure:"notifications"`
	Workflows        bool `mapstructure:"workflows"`
}

type UploadsConfig struct {
	Dir       string `mapstructure:"dir"`
	MaxSizeMB int    `mapstructure:"max_size_mb"`
}

func (u UploadsConfig) MaxBytes() int64 {
	return int64(u.MaxSizeMB) << 20
}

type AWSConfig struct {
	Region string `mapstructure:"region"`
	SES    struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"ses"`
	SNS struct {
		Enabled  bool   `mapstructure:"enabled"`
		TopicARN string `mapstructure:"topic_arn"`
	} `mapstructure:"sns"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	Plaintext      bool   `mapstructure:"plaintext"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type ObservabilityConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
}

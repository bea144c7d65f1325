package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	Snapshot   SnapshotConfig   `yaml:"snapshot"`
	LLM        LLMConfig        `yaml:"llm"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Floors     FloorsConfig     `yaml:"floors"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// SnapshotConfig points at the MQTT feed carrying the shared sensor
// reading. An empty broker URL disables the feed; the roster then
// keeps serving its startup state.
type SnapshotConfig struct {
	BrokerURL string `yaml:"broker_url"`
	Topic     string `yaml:"topic"`
	ClientID  string `yaml:"client_id"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
}

// LLMConfig configures the chat assistant's upstream model API. The
// API key comes from the OPENAI_API_KEY environment variable, never
// from this file.
type LLMConfig struct {
	APIBase               string        `yaml:"api_base"`
	Model                 string        `yaml:"model"`
	VisionModel           string        `yaml:"vision_model"`
	MaxTokens             int           `yaml:"max_tokens"`
	VisionMaxTokens       int           `yaml:"vision_max_tokens"`
	RequestTimeoutSeconds int           `yaml:"request_timeout_seconds"`
	RequestTimeout        time.Duration `yaml:"-"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// FloorsConfig describes the static machine roster.
type FloorsConfig struct {
	Count           int `yaml:"count"`
	WashersPerFloor int `yaml:"washers_per_floor"`
	DryersPerFloor  int `yaml:"dryers_per_floor"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills every unset field with its default value.
func (cfg *Config) ApplyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 5
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.Snapshot.Topic == "" {
		cfg.Snapshot.Topic = "laundry/sensor"
	}
	if cfg.Snapshot.ClientID == "" {
		cfg.Snapshot.ClientID = "laundrifyd"
	}

	if cfg.LLM.APIBase == "" {
		cfg.LLM.APIBase = "https://api.openai.com/v1"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-4o-mini"
	}
	if cfg.LLM.VisionModel == "" {
		cfg.LLM.VisionModel = "gpt-4o"
	}
	if cfg.LLM.MaxTokens <= 0 {
		cfg.LLM.MaxTokens = 200
	}
	if cfg.LLM.VisionMaxTokens <= 0 {
		cfg.LLM.VisionMaxTokens = 500
	}
	if cfg.LLM.RequestTimeoutSeconds <= 0 {
		cfg.LLM.RequestTimeoutSeconds = 30
	}
	cfg.LLM.RequestTimeout = time.Duration(cfg.LLM.RequestTimeoutSeconds) * time.Second

	if cfg.WorkerPool.Size <= 0 {
		cfg.WorkerPool.Size = 1
	}

	if cfg.Floors.Count <= 0 {
		cfg.Floors.Count = 14
	}
	if cfg.Floors.WashersPerFloor <= 0 {
		cfg.Floors.WashersPerFloor = 3
	}
	if cfg.Floors.DryersPerFloor <= 0 {
		cfg.Floors.DryersPerFloor = 3
	}
}

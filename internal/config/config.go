package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"

	"github.com/aslinsheeba/flona-ai/internal/plan"
)

type Config struct {
	Port             int              `json:"port"`
	LogConfig        logger.LogConfig `json:"log_config"`
	FileStore        FileStoreConfig  `json:"file_store"`
	AI               AIConfig         `json:"ai"`
	Transcribe       TranscribeConfig `json:"transcribe"`
	Database         *DatabaseConfig  `json:"database"`
	Plan             plan.Config      `json:"plan"`
	EmbedCache       EmbedCacheConfig `json:"embed_cache"`
	Upload           UploadConfig     `json:"upload"`
	RateLimitSeconds int              `json:"rate_limit_seconds"`
	CORSAllowlist    []string         `json:"cors_allowlist"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type AIConfig struct {
	Provider      string      `json:"provider"`
	Data          interface{} `json:"data"`
	Model         string      `json:"model"`
	EmbedModel    string      `json:"embed_model"`
	Timeout       int         `json:"timeout"`
	MaxInputChars int         `json:"max_input_chars"`
	// Fallbacks are tried in order when the primary provider fails.
	// Model names default to the primary's when left empty.
	Fallbacks []AIFallbackConfig `json:"fallbacks"`
}

type AIFallbackConfig struct {
	Provider   string      `json:"provider"`
	Data       interface{} `json:"data"`
	Model      string      `json:"model"`
	EmbedModel string      `json:"embed_model"`
}

// TranscribeConfig configures the Gemini-backed A-roll transcriber.
// Leaving it empty disables the /process upload pipeline; /plan keeps
// working with caller-supplied segments.
type TranscribeConfig struct {
	APIKey string `json:"api_key"`
	Model  string `json:"model"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

type EmbedCacheConfig struct {
	LruSize       int `json:"lru_size"`
	LruTTLMinutes int `json:"lru_ttl_minutes"`
	RetentionDays int `json:"retention_days"`
}

type UploadConfig struct {
	MaxSizeMB   int64  `json:"max_size_mb"`
	MaxAgeHours int    `json:"max_age_hours"`
	CleanupCron string `json:"cleanup_cron"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.FileStore.Type == "" {
		cfg.FileStore.Type = "local"
		cfg.FileStore.Data = map[string]interface{}{"dir": "uploads"}
	}
	if cfg.AI.Provider == "" {
		return nil, fmt.Errorf("ai.provider is required")
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-flash-latest"
	}
	if cfg.AI.EmbedModel == "" {
		cfg.AI.EmbedModel = "text-embedding-004"
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = 60
	}
	for i := range cfg.AI.Fallbacks {
		fb := &cfg.AI.Fallbacks[i]
		if fb.Provider == "" {
			return nil, fmt.Errorf("ai.fallbacks[%d].provider is required", i)
		}
		if fb.Model == "" {
			fb.Model = cfg.AI.Model
		}
		if fb.EmbedModel == "" {
			fb.EmbedModel = cfg.AI.EmbedModel
		}
	}
	if cfg.Transcribe.Model == "" {
		cfg.Transcribe.Model = "gemini-flash-latest"
	}
	if (cfg.Plan == plan.Config{}) {
		cfg.Plan = plan.DefaultConfig()
	}
	if err := cfg.Plan.Validate(); err != nil {
		return nil, fmt.Errorf("plan config: %w", err)
	}
	if cfg.EmbedCache.LruSize == 0 {
		cfg.EmbedCache.LruSize = 10000
	}
	if cfg.EmbedCache.LruTTLMinutes == 0 {
		cfg.EmbedCache.LruTTLMinutes = 120
	}
	if cfg.EmbedCache.RetentionDays == 0 {
		cfg.EmbedCache.RetentionDays = 30
	}
	if cfg.Upload.MaxSizeMB == 0 {
		cfg.Upload.MaxSizeMB = 512
	}
	if cfg.Upload.MaxAgeHours == 0 {
		cfg.Upload.MaxAgeHours = 24
	}
	if cfg.Upload.CleanupCron == "" {
		cfg.Upload.CleanupCron = "0 * * * *"
	}
	return &cfg, nil
}

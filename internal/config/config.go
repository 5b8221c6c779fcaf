package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port              int              `json:"port"`
	BaseURL           string           `json:"base_url"`
	JWTSecret         string           `json:"jwt_secret"`
	JWTTTLHours       int              `json:"jwt_ttl_hours"`
	AdminPasswordHash string           `json:"admin_password_hash"`
	CORSAllowlist     []string         `json:"cors_allowlist"`
	LogConfig         logger.LogConfig `json:"log_config"`
	Database          DatabaseConfig   `json:"database"`
	Redis             RedisConfig      `json:"redis"`
	FileStore         FileStoreConfig  `json:"file_store"`
	Sync              SyncConfig       `json:"sync"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// SyncConfig tunes the export/import pipeline. Batch sizes bound per-query
// and per-task memory, not the total export size.
type SyncConfig struct {
	ExportBatchSize      int    `json:"export_batch_size"`
	ImportBatchSize      int    `json:"import_batch_size"`
	ImportMaxBytes       int64  `json:"import_max_bytes"`
	LeaseTTLSeconds      int    `json:"lease_ttl_seconds"`
	TickSpec             string `json:"tick_spec"`
	CountCacheTTLSeconds int    `json:"count_cache_ttl_seconds"`
	ExportMaxAgeHours    int    `json:"export_max_age_hours"`
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
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required")
	}
	if cfg.AdminPasswordHash == "" {
		return nil, fmt.Errorf("admin_password_hash is required")
	}
	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return nil, fmt.Errorf("database.dsn or database.host is required")
	}
	if cfg.JWTTTLHours == 0 {
		cfg.JWTTTLHours = 72
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.FileStore.Type == "" {
		return nil, fmt.Errorf("file_store.type is required")
	}
	applySyncDefaults(&cfg.Sync)
	return &cfg, nil
}

func applySyncDefaults(sync *SyncConfig) {
	if sync.ExportBatchSize <= 0 {
		sync.ExportBatchSize = 500
	}
	if sync.ImportBatchSize <= 0 {
		sync.ImportBatchSize = 50
	}
	if sync.ImportMaxBytes <= 0 {
		sync.ImportMaxBytes = 64 * 1024 * 1024
	}
	if sync.LeaseTTLSeconds <= 0 {
		sync.LeaseTTLSeconds = 60
	}
	if sync.TickSpec == "" {
		sync.TickSpec = "* * * * *"
	}
	if sync.CountCacheTTLSeconds <= 0 {
		sync.CountCacheTTLSeconds = 30
	}
	if sync.ExportMaxAgeHours <= 0 {
		sync.ExportMaxAgeHours = 7 * 24
	}
}

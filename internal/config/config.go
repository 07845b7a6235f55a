// file: internal/config/config.go
// version: 2.0.0
// guid: 7b8c9d0e-1f2a-3b4c-5d6e-7f8a9b0c1d2e

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	DataPath     string // conditions catalog, .json or .yaml
	StaticDir    string // front end served at /
	WatchData    bool   // hot reload the catalog when the file changes
	DatabasePath string
	DatabaseType string // "pebble" (default), "sqlite" or "memory"
	EnableSQLite bool   // Must be true to use SQLite (safety flag)

	Host string
	Port int

	LogLevel  string
	LogFormat string // "console" or "json"

	RateLimitPerMinute int
	RateLimitBurst     int
	MaxBodyBytes       int64
	SearchCacheTTL     time.Duration
}

var AppConfig Config

// SetDefaults registers every default with viper.
func SetDefaults() {
	viper.SetDefault("data_path", "data/conditions.json")
	viper.SetDefault("static_dir", "public")
	viper.SetDefault("watch_data", true)
	viper.SetDefault("database_path", "progress.pebble")
	viper.SetDefault("database_type", "pebble")
	viper.SetDefault("enable_sqlite3_i_know_the_risks", false)
	viper.SetDefault("host", "localhost")
	viper.SetDefault("port", 3000)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "console")
	viper.SetDefault("rate_limit_per_minute", 600)
	viper.SetDefault("rate_limit_burst", 60)
	viper.SetDefault("max_body_bytes", 1<<20)
	viper.SetDefault("search_cache_ttl", 30*time.Second)
}

// InitConfig initializes the application configuration
func InitConfig() {
	SetDefaults()

	AppConfig = Config{
		DataPath:           viper.GetString("data_path"),
		StaticDir:          viper.GetString("static_dir"),
		WatchData:          viper.GetBool("watch_data"),
		DatabasePath:       viper.GetString("database_path"),
		DatabaseType:       strings.ToLower(strings.TrimSpace(viper.GetString("database_type"))),
		EnableSQLite:       viper.GetBool("enable_sqlite3_i_know_the_risks"),
		Host:               viper.GetString("host"),
		Port:               viper.GetInt("port"),
		LogLevel:           viper.GetString("log_level"),
		LogFormat:          viper.GetString("log_format"),
		RateLimitPerMinute: viper.GetInt("rate_limit_per_minute"),
		RateLimitBurst:     viper.GetInt("rate_limit_burst"),
		MaxBodyBytes:       viper.GetInt64("max_body_bytes"),
		SearchCacheTTL:     viper.GetDuration("search_cache_ttl"),
	}

	// Normalize database type
	if AppConfig.DatabaseType == "sqlite3" {
		AppConfig.DatabaseType = "sqlite"
	}
	if AppConfig.DatabaseType == "" {
		AppConfig.DatabaseType = "pebble"
	}
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	if c.DataPath == "" {
		return fmt.Errorf("data_path must be set")
	}
	switch c.DatabaseType {
	case "pebble", "sqlite", "memory":
	default:
		return fmt.Errorf("unsupported database_type %q (supported: pebble, sqlite, memory)", c.DatabaseType)
	}
	if c.DatabaseType != "memory" && c.DatabasePath == "" {
		return fmt.Errorf("database_path must be set for database_type %s", c.DatabaseType)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.RateLimitPerMinute < 0 || c.RateLimitBurst < 0 {
		return fmt.Errorf("rate limits must not be negative")
	}
	return nil
}

// Package config loads server configuration from environment variables
// and an optional config file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the server. Values are read by
// viper from a config file or USASPENDING_* environment variables.
type Config struct {
	// BaseURL is the USAspending API root.
	BaseURL string `mapstructure:"base_url"`
	// UpstreamTimeout bounds each upstream request.
	UpstreamTimeout time.Duration `mapstructure:"upstream_timeout"`
	// Port is the HTTP listen port for serve mode.
	Port string `mapstructure:"port"`
	// Token, when set, requires Bearer auth on the HTTP /mcp routes.
	Token string `mapstructure:"token"`
	// CacheTTL bounds reference-data cache entries in serve mode.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	// WarmSchedule is a cron expression for reference-cache warming in
	// serve mode. Empty disables the warmer.
	WarmSchedule string `mapstructure:"warm_schedule"`
	// TLSCertFile and TLSKeyFile enable TLS when both are set.
	TLSCertFile string `mapstructure:"tls_cert_file"`
	TLSKeyFile  string `mapstructure:"tls_key_file"`
	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`
}

// Load reads configuration from the optional file at path and the
// environment, applying defaults for everything unset.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("base_url", "https://api.usaspending.gov/api/v2")
	v.SetDefault("upstream_timeout", 30*time.Second)
	v.SetDefault("port", "3000")
	v.SetDefault("token", "")
	v.SetDefault("cache_ttl", 12*time.Hour)
	v.SetDefault("warm_schedule", "")
	v.SetDefault("tls_cert_file", "")
	v.SetDefault("tls_key_file", "")
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("USASPENDING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

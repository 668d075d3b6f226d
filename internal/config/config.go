package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all settings for the backend. It is constructed once in
// main and passed explicitly to every component that needs it.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
}

type ServerConfig struct {
	Address      string `mapstructure:"address"`
	Mode         string `mapstructure:"mode"` // gin mode: debug or release
	CORSOrigins  string `mapstructure:"cors_origins"`
	EnablePprof  bool   `mapstructure:"enable_pprof"`
	EnableSeed   bool   `mapstructure:"enable_seed"` // seed default categories on first start
	MetricsRoute bool   `mapstructure:"metrics_route"`
}

type DatabaseConfig struct {
	// DSN for the sqlite database file. ":memory:" is allowed for tests.
	DSN string `mapstructure:"dsn"`
}

type JWTConfig struct {
	Secret        string        `mapstructure:"secret"`
	ExpireMinutes int           `mapstructure:"expire_minutes"`
	Expiry        time.Duration `mapstructure:"-"`
}

// Load reads the configuration from an optional YAML file and the
// environment. Environment variables use the FINANCE_ prefix with
// underscores, e.g. FINANCE_SERVER_ADDRESS.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.enable_seed", true)
	v.SetDefault("server.metrics_route", true)
	v.SetDefault("database.dsn", "data/finance.db")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expire_minutes", 30)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("FINANCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("could not parse configuration: %w", err)
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret must be set, e.g. via FINANCE_JWT_SECRET")
	}

	if cfg.JWT.ExpireMinutes <= 0 {
		cfg.JWT.ExpireMinutes = 30
	}
	cfg.JWT.Expiry = time.Duration(cfg.JWT.ExpireMinutes) * time.Minute

	return &cfg, nil
}

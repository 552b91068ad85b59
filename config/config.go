// Package config holds termscan's typed configuration.
//
// Configuration hierarchy (highest to lowest priority):
//  1. CLI flags
//  2. Environment variables (TERMSCAN_*)
//  3. Config file (~/.termscan/config.yaml)
//  4. Defaults
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/termscan/core/fetch"
	"github.com/gaurav-prasanna/termscan/core/store"
)

// EnvPrefix is the prefix for environment overrides, e.g. TERMSCAN_FETCH_TIMEOUT.
const EnvPrefix = "TERMSCAN"

// Config is the full runtime configuration.
type Config struct {
	Fetch  FetchConfig  `mapstructure:"fetch" yaml:"fetch"`
	Report ReportConfig `mapstructure:"report" yaml:"report"`
	Store  StoreConfig  `mapstructure:"store" yaml:"store"`
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// FetchConfig controls the page fetcher.
type FetchConfig struct {
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UserAgent     string        `mapstructure:"user_agent" yaml:"user_agent"`
	MaxBytes      int64         `mapstructure:"max_bytes" yaml:"max_bytes"`
	RatePerSecond float64       `mapstructure:"rate_per_second" yaml:"rate_per_second"`
	Burst         int           `mapstructure:"burst" yaml:"burst"`
	RespectRobots bool          `mapstructure:"respect_robots" yaml:"respect_robots"`
}

// ReportConfig controls report rendering and the artifact location.
type ReportConfig struct {
	Title     string `mapstructure:"title" yaml:"title"`
	Name      string `mapstructure:"name" yaml:"name"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
}

// StoreConfig selects where analysis results live between requests.
type StoreConfig struct {
	Backend string        `mapstructure:"backend" yaml:"backend"` // memory | redis
	TTL     time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Redis   RedisConfig   `mapstructure:"redis" yaml:"redis"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Address  string `mapstructure:"address" yaml:"address"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`
}

// ServerConfig controls the HTTP surface.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
	Mode string `mapstructure:"mode" yaml:"mode"` // gin mode: debug | release | test
}

// LogConfig controls zerolog output.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // console | json
}

// Default returns the built-in configuration.
func Default() Config {
	f := fetch.DefaultOptions()
	r := store.DefaultRedisOptions()
	return Config{
		Fetch: FetchConfig{
			Timeout:       f.Timeout,
			UserAgent:     f.UserAgent,
			MaxBytes:      f.MaxBytes,
			RatePerSecond: f.RatePerSecond,
			Burst:         f.Burst,
			RespectRobots: f.RespectRobots,
		},
		Report: ReportConfig{
			Title: "Website Analysis",
			Name:  "terms_analysis.pdf",
		},
		Store: StoreConfig{
			Backend: "memory",
			TTL:     store.DefaultTTL,
			Redis:   RedisConfig{Address: r.Address, DB: r.DB},
		},
		Server: ServerConfig{
			Addr: ":8080",
			Mode: "release",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// SetDefaults registers every default on v so env variables and config
// files can override individual keys.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("fetch.timeout", d.Fetch.Timeout)
	v.SetDefault("fetch.user_agent", d.Fetch.UserAgent)
	v.SetDefault("fetch.max_bytes", d.Fetch.MaxBytes)
	v.SetDefault("fetch.rate_per_second", d.Fetch.RatePerSecond)
	v.SetDefault("fetch.burst", d.Fetch.Burst)
	v.SetDefault("fetch.respect_robots", d.Fetch.RespectRobots)
	v.SetDefault("report.title", d.Report.Title)
	v.SetDefault("report.name", d.Report.Name)
	v.SetDefault("report.output_dir", d.Report.OutputDir)
	v.SetDefault("store.backend", d.Store.Backend)
	v.SetDefault("store.ttl", d.Store.TTL)
	v.SetDefault("store.redis.address", d.Store.Redis.Address)
	v.SetDefault("store.redis.password", d.Store.Redis.Password)
	v.SetDefault("store.redis.db", d.Store.Redis.DB)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// BindEnv enables TERMSCAN_* overrides, mapping "." in keys to "_".
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive, got %s", c.Fetch.Timeout)
	}
	if c.Report.Name == "" {
		return fmt.Errorf("report.name must not be empty")
	}
	if strings.ContainsAny(c.Report.Name, `/\`) {
		return fmt.Errorf("report.name must be a file name, got %q", c.Report.Name)
	}
	switch c.Store.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("store.backend must be memory or redis, got %q", c.Store.Backend)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

// FetchOptions converts the fetch section into fetcher options.
func (c Config) FetchOptions() fetch.Options {
	return fetch.Options{
		Timeout:       c.Fetch.Timeout,
		UserAgent:     c.Fetch.UserAgent,
		MaxBytes:      c.Fetch.MaxBytes,
		RatePerSecond: c.Fetch.RatePerSecond,
		Burst:         c.Fetch.Burst,
		RespectRobots: c.Fetch.RespectRobots,
	}
}

// RedisOptions converts the redis section into store options.
func (c Config) RedisOptions() store.RedisOptions {
	return store.RedisOptions{
		Address:  c.Store.Redis.Address,
		Password: c.Store.Redis.Password,
		DB:       c.Store.Redis.DB,
	}
}

// Package config loads service settings from flags, environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/nekruzvatanshoev/addrsuggest/pkg/addrsuggest/cache"
	"github.com/nekruzvatanshoev/addrsuggest/pkg/addrsuggest/upstream"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment variables, e.g. ADDRSUGGEST_DATASET_URL.
const EnvPrefix = "ADDRSUGGEST"

// Keys double as flag names.
const (
	KeyAddr            = "addr"
	KeyEnv             = "env"
	KeyDatasetURL      = "dataset-url"
	KeyAppToken        = "app-token"
	KeyUpstreamTimeout = "upstream-timeout"
	KeyUpstreamRPS     = "upstream-rps"
	KeyUpstreamBurst   = "upstream-burst"
	KeyCacheTTL        = "cache-ttl"
	KeyRedisURL        = "redis-url"
)

// Config holds the service settings
type Config struct {
	Addr            string
	Env             string
	DatasetURL      string
	AppToken        string
	UpstreamTimeout time.Duration
	UpstreamRPS     float64
	UpstreamBurst   int
	CacheTTL        time.Duration
	RedisURL        string
}

// RegisterFlags declares every setting on fs with its default.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(KeyAddr, ":8080", "HTTP listen address")
	fs.String(KeyEnv, "production", "runtime environment (development enables debug text logs)")
	fs.String(KeyDatasetURL, upstream.DefaultDatasetURL, "property dataset resource URL")
	fs.String(KeyAppToken, "", "dataset application token sent as X-App-Token")
	fs.Duration(KeyUpstreamTimeout, 0, "per-call dataset timeout, 0 for none")
	fs.Float64(KeyUpstreamRPS, 5, "dataset calls per second, 0 for unlimited")
	fs.Int(KeyUpstreamBurst, 10, "dataset call burst")
	fs.Duration(KeyCacheTTL, cache.DefaultTTL, "how long a primary lookup is reused")
	fs.String(KeyRedisURL, "", "redis URL for the lookup cache, empty disables caching")
}

// Load reads a .env file if present, binds fs into v and returns validated settings.
func Load(v *viper.Viper, fs *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	cfg := &Config{
		Addr:            v.GetString(KeyAddr),
		Env:             v.GetString(KeyEnv),
		DatasetURL:      v.GetString(KeyDatasetURL),
		AppToken:        v.GetString(KeyAppToken),
		UpstreamTimeout: v.GetDuration(KeyUpstreamTimeout),
		UpstreamRPS:     v.GetFloat64(KeyUpstreamRPS),
		UpstreamBurst:   v.GetInt(KeyUpstreamBurst),
		CacheTTL:        v.GetDuration(KeyCacheTTL),
		RedisURL:        v.GetString(KeyRedisURL),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatasetURL == "" {
		c.DatasetURL = upstream.DefaultDatasetURL
	}
	u, err := url.Parse(c.DatasetURL)
	if err != nil {
		return fmt.Errorf("dataset url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("dataset url %q must be absolute", c.DatasetURL)
	}

	if c.UpstreamTimeout < 0 {
		return errors.New("upstream timeout must not be negative")
	}
	if c.UpstreamRPS < 0 {
		return errors.New("upstream rps must not be negative")
	}
	if c.UpstreamBurst < 1 {
		c.UpstreamBurst = 1
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = cache.DefaultTTL
	}
	return nil
}

// UpstreamOptions maps the settings onto the dataset client.
func (c *Config) UpstreamOptions() upstream.Options {
	return upstream.Options{
		DatasetURL: c.DatasetURL,
		AppToken:   c.AppToken,
		Timeout:    c.UpstreamTimeout,
		RPS:        c.UpstreamRPS,
		Burst:      c.UpstreamBurst,
	}
}

// Package config loads stepform-cli settings from defaults, an optional config
// file and STEPFORM_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvConfig names the environment variable that points at a config file.
const EnvConfig = "STEPFORM_CONFIG"

// Sink kinds.
const (
	SinkLog    = "log"
	SinkMemory = "memory"
	SinkHTTP   = "http"
	SinkSQLite = "sqlite"
	SinkRedis  = "redis"
)

// Config holds application configuration.
type Config struct {
	Catalog CatalogConfig
	Sink    SinkConfig
	Output  OutputConfig
	Log     LogConfig
}

// CatalogConfig points at an optional YAML step catalog. Empty uses the
// built-in steps.
type CatalogConfig struct {
	Path string
}

// SinkConfig selects where completed submissions are delivered.
type SinkConfig struct {
	Kind        string
	SQLitePath  string        `mapstructure:"sqlite_path"`
	HTTPURL     string        `mapstructure:"http_url"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	RedisAddr   string        `mapstructure:"redis_addr"`
	RedisStream string        `mapstructure:"redis_stream"`
	RedisTTL    time.Duration `mapstructure:"redis_ttl"`
}

// OutputConfig controls the receipt printed after a submission.
type OutputConfig struct {
	Format   string
	Template string
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration. path overrides STEPFORM_CONFIG; when both are
// empty only defaults and environment variables apply.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("catalog.path", "")
	v.SetDefault("sink.kind", SinkLog)
	v.SetDefault("sink.sqlite_path", "stepform.db")
	v.SetDefault("sink.http_url", "")
	v.SetDefault("sink.http_timeout", 10*time.Second)
	v.SetDefault("sink.redis_addr", "localhost:6379")
	v.SetDefault("sink.redis_stream", "stepform:submissions")
	v.SetDefault("sink.redis_ttl", time.Duration(0))
	v.SetDefault("output.format", "pretty")
	v.SetDefault("output.template", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetEnvPrefix("STEPFORM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	c.normalize()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) normalize() {
	c.Sink.Kind = strings.ToLower(strings.TrimSpace(c.Sink.Kind))
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
}

// Validate rejects unknown sink kinds, output formats and log settings.
func (c Config) Validate() error {
	var errs []error
	switch c.Sink.Kind {
	case SinkLog, SinkMemory:
	case SinkHTTP:
		if c.Sink.HTTPURL == "" {
			errs = append(errs, errors.New("sink.http_url is required for the http sink"))
		}
		if c.Sink.HTTPTimeout < 0 {
			errs = append(errs, errors.New("sink.http_timeout must not be negative"))
		}
	case SinkSQLite:
		if c.Sink.SQLitePath == "" {
			errs = append(errs, errors.New("sink.sqlite_path is required for the sqlite sink"))
		}
	case SinkRedis:
		if c.Sink.RedisAddr == "" {
			errs = append(errs, errors.New("sink.redis_addr is required for the redis sink"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown sink.kind %q", c.Sink.Kind))
	}

	switch c.Output.Format {
	case "json", "pretty":
	default:
		errs = append(errs, fmt.Errorf("unknown output.format %q", c.Output.Format))
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log.level %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log.format %q", c.Log.Format))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

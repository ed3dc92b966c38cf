// Package config loads the process configuration of the datasetter server.
//
// Values come from an optional YAML, JSON or TOML file, overridden by
// DATASETTER_* environment variables (DATASETTER_SERVER_ADDR overrides
// server.addr).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hupe1980/datasetter"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "DATASETTER"

// Config is the root configuration document.
type Config struct {
	Server   ServerConfig    `mapstructure:"server"`
	Log      LogConfig       `mapstructure:"log"`
	S3       S3Config        `mapstructure:"s3"`
	MinIO    MinIOConfig     `mapstructure:"minio"`
	Datasets []DatasetConfig `mapstructure:"datasets"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// RateLimit is the per-client budget in requests per minute. Zero disables
	// rate limiting.
	RateLimit       int           `mapstructure:"rate_limit"`
	Burst           int           `mapstructure:"burst"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Metrics         bool          `mapstructure:"metrics"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// S3Config configures the AWS clients used by s3:// and dynamodb sources.
type S3Config struct {
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
}

// MinIOConfig configures the client used by minio:// sources.
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Secure    bool   `mapstructure:"secure"`
}

// DatasetConfig declares one served dataset.
type DatasetConfig struct {
	URI         string                  `mapstructure:"uri"`
	Name        string                  `mapstructure:"name"`
	Description string                  `mapstructure:"description"`
	Facets      []string                `mapstructure:"facets"`
	Columns     []datasetter.ColumnInfo `mapstructure:"columns"`
	Source      SourceConfig            `mapstructure:"source"`
}

// Metadata returns the descriptive document of the dataset.
func (d DatasetConfig) Metadata() datasetter.Metadata {
	return datasetter.Metadata{
		Name:        d.Name,
		Description: d.Description,
		Columns:     d.Columns,
		Facets:      d.Facets,
	}
}

func defaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.rate_limit", 0)
	v.SetDefault("server.burst", 20)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.metrics", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("s3.region", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("minio.endpoint", "")
	v.SetDefault("minio.access_key", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("minio.secure", true)
}

// Load reads the configuration file at path and applies environment
// overrides. An empty path searches ./datasetter.{yaml,json,toml} and
// /etc/datasetter; a missing file is not an error then.
func Load(path string) (*Config, error) {
	v := viper.New()
	defaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("datasetter")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/datasetter/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for errors that would only surface
// at serve time.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative, got %d", c.Server.RateLimit)
	}
	if c.Server.RateLimit > 0 && c.Server.Burst <= 0 {
		return fmt.Errorf("server.burst must be positive when rate limiting, got %d", c.Server.Burst)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	seen := make(map[string]struct{}, len(c.Datasets))
	for i, d := range c.Datasets {
		uri := strings.Trim(d.URI, "/")
		if uri == "" {
			return fmt.Errorf("datasets[%d]: uri is required", i)
		}
		if _, dup := seen[uri]; dup {
			return fmt.Errorf("datasets[%d]: duplicate uri %q", i, uri)
		}
		seen[uri] = struct{}{}

		if err := d.Source.Validate(); err != nil {
			return fmt.Errorf("datasets[%d] (%s): %w", i, uri, err)
		}
		for _, col := range d.Columns {
			if col.Type == "" {
				continue
			}
			if _, err := parseKind(col.Type); err != nil {
				return fmt.Errorf("datasets[%d] (%s): column %q: %w", i, uri, col.Name, err)
			}
		}
	}
	return nil
}

// SlogLevel parses the configured level name.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// Logger builds the process logger.
func (l LogConfig) Logger() (*datasetter.Logger, error) {
	lvl, err := l.SlogLevel()
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(l.Format, "json") {
		return datasetter.NewJSONLogger(lvl), nil
	}
	return datasetter.NewTextLogger(lvl), nil
}

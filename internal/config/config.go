// Package config loads settings from an optional YAML file, .env and PORTAL_* variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultBaseURL is the production backend.
const DefaultBaseURL = "https://walrus-app-fioy4.ondigitalocean.app/api"

// Config is the whole application configuration.
type Config struct {
	BaseURL     string        `mapstructure:"base_url" validate:"required,url"`
	Dev         bool          `mapstructure:"dev"`
	Storage     StorageConfig `mapstructure:"storage"`
	Admin       AdminConfig   `mapstructure:"admin"`
	Server      ServerConfig  `mapstructure:"server"`
	Spaces      SpacesConfig  `mapstructure:"spaces"`
	ProxyDomain string        `mapstructure:"proxy_domain" validate:"required,hostname_rfc1123"`
}

// StorageConfig selects the durable storage backend.
type StorageConfig struct {
	Backend     string `mapstructure:"backend" validate:"oneof=memory file redis postgres"`
	Path        string `mapstructure:"path"`
	RedisAddr   string `mapstructure:"redis_addr" validate:"required_if=Backend redis"`
	PostgresDSN string `mapstructure:"postgres_dsn" validate:"required_if=Backend postgres"`
	Namespace   string `mapstructure:"namespace" validate:"required"`
	// SealKey, when set, encrypts every stored value.
	SealKey string `mapstructure:"seal_key"`
}

// AdminConfig controls how long admin elevation lasts.
type AdminConfig struct {
	TimeBoxed bool          `mapstructure:"time_boxed"`
	TTL       time.Duration `mapstructure:"ttl" validate:"gt=0"`
	Sweep     time.Duration `mapstructure:"sweep" validate:"gt=0"`
}

// ServerConfig is used by portal-server only.
type ServerConfig struct {
	HTTPAddr       string        `mapstructure:"http_addr" validate:"required"`
	HealthAddr     string        `mapstructure:"health_addr" validate:"required"`
	ProbeInterval  time.Duration `mapstructure:"probe_interval" validate:"gt=0"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// SpacesConfig is the S3-compatible bucket for uploads.
type SpacesConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Region   string `mapstructure:"region"`
	Bucket   string `mapstructure:"bucket"`
	Key      string `mapstructure:"key"`
	Secret   string `mapstructure:"secret"`
	CDN      string `mapstructure:"cdn"`
}

// Enabled reports whether uploads can be stored.
func (s SpacesConfig) Enabled() bool { return s.Endpoint != "" && s.Bucket != "" }

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("dev", false)
	v.SetDefault("proxy_domain", "digitaloceanspaces.com")

	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.path", "")
	v.SetDefault("storage.redis_addr", "")
	v.SetDefault("storage.postgres_dsn", "")
	v.SetDefault("storage.namespace", "school-portal")
	v.SetDefault("storage.seal_key", "")

	v.SetDefault("admin.time_boxed", true)
	v.SetDefault("admin.ttl", 10*time.Minute)
	v.SetDefault("admin.sweep", time.Minute)

	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("server.health_addr", ":8081")
	v.SetDefault("server.probe_interval", 30*time.Second)
	v.SetDefault("server.allowed_origins", []string{"*"})

	for _, k := range []string{"endpoint", "region", "bucket", "key", "secret", "cdn"} {
		v.SetDefault("spaces."+k, "")
	}
}

// Load reads configuration. path may be empty; a missing .env is not an error.
// Environment variables use the PORTAL_ prefix with dots as underscores,
// e.g. PORTAL_STORAGE_BACKEND.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("PORTAL")
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
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

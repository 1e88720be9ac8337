// Package config loads lenna's settings from an optional YAML file, a .env
// file and LENNA_* environment variables, in increasing precedence.
package config

import (
	"log/slog"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/KirkDiggler/lenna/internal/errors"
)

// EnvPrefix prefixes every environment override, e.g. LENNA_CACHE_BACKEND.
const EnvPrefix = "LENNA"

// Cache backends.
const (
	BackendFS     = "fs"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendObject = "object"
)

// Config holds all configuration for the application.
type Config struct {
	Wiki   WikiConfig   `mapstructure:"wiki"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Redis  RedisConfig  `mapstructure:"redis"`
	SQLite SQLiteConfig `mapstructure:"sqlite"`
	Object ObjectConfig `mapstructure:"object"`
	HTTP   HTTPConfig   `mapstructure:"http"`
	GRPC   GRPCConfig   `mapstructure:"grpc"`
	Log    LogConfig    `mapstructure:"log"`
}

// WikiConfig points at the MediaWiki API.
type WikiConfig struct {
	BaseURL           string        `mapstructure:"base_url" default:"https://iopwiki.com/api.php"`
	UserAgent         string        `mapstructure:"user_agent" default:"LennaBot/1.0 (https://github.com/KirkDiggler/lenna)"`
	From              string        `mapstructure:"from"`
	Timeout           time.Duration `mapstructure:"timeout" default:"30s"`
	WeaponsPage       string        `mapstructure:"weapons_page" default:"GFL2_Weapons"`
	StatusEffectsPage string        `mapstructure:"status_effects_page" default:"GFL2_Status_Effects"`
}

// CacheConfig selects the page cache backend.
type CacheConfig struct {
	Backend string `mapstructure:"backend" default:"fs"`
	// Dir is used by the fs backend.
	Dir    string        `mapstructure:"dir" default:"data/cache"`
	MaxAge time.Duration `mapstructure:"max_age" default:"24h"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Endpoints []string `mapstructure:"endpoints" default:"localhost:6379"`
	Password  string   `mapstructure:"password"`
	DB        int      `mapstructure:"db" default:"0"`
	KeyPrefix string   `mapstructure:"key_prefix" default:"pagecache:"`
	UseTLS    bool     `mapstructure:"use_tls" default:"false"`
}

// SQLiteConfig configures the sqlite backend.
type SQLiteConfig struct {
	Path  string `mapstructure:"path" default:"data/lenna.db"`
	Table string `mapstructure:"table" default:"page_cache"`
}

// ObjectConfig configures the S3-compatible object store backend.
type ObjectConfig struct {
	Endpoint  string `mapstructure:"endpoint" default:"localhost:9000"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket" default:"lenna"`
	Prefix    string `mapstructure:"prefix" default:"pagecache/"`
	UseSSL    bool   `mapstructure:"use_ssl" default:"false"`
}

// HTTPConfig configures the lookup API.
type HTTPConfig struct {
	Port            int           `mapstructure:"port" default:"8080"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" default:"60s"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" default:"30s"`
}

// GRPCConfig configures the health endpoint.
type GRPCConfig struct {
	Port int `mapstructure:"port" default:"50051"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level" default:"info"`
	Format string `mapstructure:"format" default:"text"`
}

// Load reads configuration. path is an optional YAML file; a .env next to
// it (or in the working directory) is applied to the environment first.
func Load(path string) (*Config, error) {
	envPath := ".env"
	if path != "" {
		envPath = filepath.Join(filepath.Dir(path), ".env")
	}
	// missing .env is fine
	_ = godotenv.Overload(envPath)

	v := viper.New()
	bindValues(v, Config{}, "")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapWithCodef(err, errors.CodeInvalidArgument, "failed to read config %s", path)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid config")
	}

	return &cfg, nil
}

// bindValues registers every mapstructure key with its default tag so
// AutomaticEnv can see it.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		v.SetDefault(key, field.Tag.Get("default"))
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Wiki.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}

	var err error
	switch c.Cache.Backend {
	case BackendRedis:
		err = c.Redis.Validate()
	case BackendSQLite:
		err = c.SQLite.Validate()
	case BackendObject:
		err = c.Object.Validate()
	}
	if err != nil {
		return err
	}

	if err := c.HTTP.Validate(); err != nil {
		return err
	}
	if err := c.GRPC.Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}

// Validate validates the wiki configuration.
func (c *WikiConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required),
		validation.Field(&c.UserAgent, validation.Required),
		validation.Field(&c.Timeout, validation.Required),
		validation.Field(&c.WeaponsPage, validation.Required),
		validation.Field(&c.StatusEffectsPage, validation.Required),
	)
}

// Validate validates the cache configuration.
func (c *CacheConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required,
			validation.In(BackendFS, BackendRedis, BackendSQLite, BackendObject)),
		validation.Field(&c.Dir, validation.When(c.Backend == BackendFS, validation.Required)),
		validation.Field(&c.MaxAge, validation.Min(time.Duration(0))),
	)
}

// Validate validates the redis configuration.
func (c *RedisConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Endpoints, validation.Required),
		validation.Field(&c.DB, validation.Min(0)),
	)
}

// Validate validates the sqlite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.Table, validation.Required),
	)
}

// Validate validates the object store configuration.
func (c *ObjectConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Endpoint, validation.Required),
		validation.Field(&c.Bucket, validation.Required),
	)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// Validate validates the gRPC configuration.
func (c *GRPCConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// Validate validates the log configuration.
func (c *LogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.Format, validation.In("text", "json")),
	)
}

// SlogLevel maps Level onto slog.
func (c *LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

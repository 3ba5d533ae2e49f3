/*
Package config loads the console's YAML configuration.

PURPOSE:
  One typed Config for the whole process, loaded once at startup. Every
  section has a sane default so a minimal file (or none of the optional
  keys) still produces a runnable console pointed at a local backend.

SECTIONS:
  app:          Name, environment, log level
  server:       Listen address, timeouts, allowed CORS origins
  upstream:     Inventory API base URL and request timeout
  cache:        Fresh and max-age windows for snapshot reads
  preferences:  Backend selection (memory | sqlite | redis) and its settings

SEE ALSO:
  - cmd/console/main.go: Loads and validates on startup
  - config/console.example.yaml: Annotated example file
*/
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Backend names accepted by preferences.backend.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config is the full process configuration.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Upstream    UpstreamConfig    `mapstructure:"upstream"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Preferences PreferencesConfig `mapstructure:"preferences"`
}

// AppConfig identifies the process.
type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// UpstreamConfig points at the inventory backend.
type UpstreamConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig sets the snapshot cache windows. Fresh is how long a value
// is served without any fetch; MaxAge is how long a stale value may still
// be served while a background refresh runs.
type CacheConfig struct {
	Fresh  time.Duration `mapstructure:"fresh"`
	MaxAge time.Duration `mapstructure:"max_age"`
}

// PreferencesConfig selects and configures the preference store backend.
type PreferencesConfig struct {
	Backend    string      `mapstructure:"backend"`
	SQLitePath string      `mapstructure:"sqlite_path"`
	Redis      RedisConfig `mapstructure:"redis"`
}

// RedisConfig configures the redis preference backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Load reads the config file at path and applies defaults for any key the
// file omits.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config failed: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Defaults are static; an unmarshal failure here is a programming
		// error.
		panic(fmt.Sprintf("default config invalid: %v", err))
	}
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "inventory-console")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:8080"})

	v.SetDefault("upstream.base_url", "http://localhost:9000")
	v.SetDefault("upstream.timeout", 10*time.Second)

	v.SetDefault("cache.fresh", 30*time.Second)
	v.SetDefault("cache.max_age", 5*time.Minute)

	v.SetDefault("preferences.backend", BackendMemory)
	v.SetDefault("preferences.sqlite_path", "console.db")
	v.SetDefault("preferences.redis.addr", "localhost:6379")
	v.SetDefault("preferences.redis.db", 0)
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream.base_url is required")
	}
	if c.Cache.Fresh <= 0 {
		return fmt.Errorf("cache.fresh must be positive")
	}
	if c.Cache.MaxAge < c.Cache.Fresh {
		return fmt.Errorf("cache.max_age must be >= cache.fresh")
	}
	switch c.Preferences.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Preferences.SQLitePath == "" {
			return fmt.Errorf("preferences.sqlite_path is required for the sqlite backend")
		}
	case BackendRedis:
		if c.Preferences.Redis.Addr == "" {
			return fmt.Errorf("preferences.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown preferences.backend %q", c.Preferences.Backend)
	}
	return nil
}

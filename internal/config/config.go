package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Database *DatabaseConfig `mapstructure:"database"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Redis    *RedisConfig    `mapstructure:"redis"`
	Upload   *UploadConfig   `mapstructure:"upload"`
}

type APIConfig struct {
	Environment        string        `mapstructure:"environment"`
	Port               string        `mapstructure:"port"`
	BaseURL            string        `mapstructure:"base_url"`
	JWTSigningKey      string        `mapstructure:"jwt_signing_key"`
	TokenTTL           time.Duration `mapstructure:"token_ttl"`
	AllowedCORSDomains []string      `mapstructure:"allowed_cors_domains"`
	AdminEmail         string        `mapstructure:"admin_email"`
	AdminPassword      string        `mapstructure:"admin_password"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig selects the storage driver. "sqlite" is meant for local development.
type DatabaseConfig struct {
	Driver     string `mapstructure:"driver"`
	URL        string `mapstructure:"url"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig enables the auth rate limiter when Addr is set.
type RedisConfig struct {
	Addr           string        `mapstructure:"addr"`
	Password       string        `mapstructure:"password"`
	DB             int           `mapstructure:"db"`
	LoginRateLimit int64         `mapstructure:"login_rate_limit"`
	RateWindow     time.Duration `mapstructure:"rate_window"`
}

type UploadConfig struct {
	Dir     string `mapstructure:"dir"`
	MaxSize int64  `mapstructure:"max_size"`
}

var defaults = map[string]any{
	"api.environment":          "development",
	"api.port":                 "5000",
	"api.base_url":             "localhost:5000",
	"api.jwt_signing_key":      "",
	"api.token_ttl":            "720h",
	"api.allowed_cors_domains": []string{},
	"api.admin_email":          "",
	"api.admin_password":       "",
	"gin.mode":                 "debug",
	"database.driver":          "postgres",
	"database.url":             "",
	"database.sqlite_path":     "eventhub.db",
	"postgres.host":            "localhost",
	"postgres.port":            "5432",
	"postgres.user":            "postgres",
	"postgres.password":        "",
	"postgres.db":              "eventhub",
	"postgres.sslmode":         "disable",
	"redis.addr":               "",
	"redis.password":           "",
	"redis.db":                 0,
	"redis.login_rate_limit":   10,
	"redis.rate_window":        "1m",
	"upload.dir":               "uploads",
	"upload.max_size":          5 << 20,
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the YAML file at path, then applies environment overrides such as
// API_PORT or POSTGRES_HOST. A missing file leaves the defaults in place.
func Load(path string) (*AppConfig, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	var conf AppConfig
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}

	return &conf, nil
}

func (c *AppConfig) validate() error {
	if c.API.JWTSigningKey == "" {
		return errors.New("api.jwt_signing_key is required")
	}
	if c.Database.Driver != "postgres" && c.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	return nil
}

// Watch calls onChange whenever the file at path is written. Changes are not applied
// to a running server.
func Watch(path string, onChange func(e fsnotify.Event)) {
	v := newViper(path)
	v.OnConfigChange(onChange)
	v.WatchConfig()
}

package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	OAuth      OAuthConfig
	Cloudinary CloudinaryConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type LogConfig struct {
	Level  string
	Pretty bool
}

// Load reads configuration from an optional file plus COURIER_* environment
// variables, falling back to development defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		_ = v.ReadInConfig()
	}

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")

	v.SetDefault("database.dsn", "courier:courier@tcp(localhost:3306)/courier?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", "1h")

	v.SetDefault("jwt.access_secret", "change-me-in-production")
	v.SetDefault("jwt.refresh_secret", "change-me-refresh")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "courier")

	v.SetDefault("oauth.google_client_id", "")
	v.SetDefault("oauth.google_client_secret", "")
	v.SetDefault("oauth.google_redirect_url", "")

	v.SetDefault("cloudinary.cloud_name", "")
	v.SetDefault("cloudinary.api_key", "")
	v.SetDefault("cloudinary.api_secret", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetEnvPrefix("courier")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("server.port"),
			Env:          v.GetString("server.env"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		Database: DatabaseConfig{
			DSN:             v.GetString("database.dsn"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
		},
		JWT: JWTConfig{
			AccessSecret:  v.GetString("jwt.access_secret"),
			RefreshSecret: v.GetString("jwt.refresh_secret"),
			AccessExpiry:  v.GetDuration("jwt.access_expiry"),
			RefreshExpiry: v.GetDuration("jwt.refresh_expiry"),
			Issuer:        v.GetString("jwt.issuer"),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     v.GetString("oauth.google_client_id"),
			GoogleClientSecret: v.GetString("oauth.google_client_secret"),
			GoogleRedirectURL:  v.GetString("oauth.google_redirect_url"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: v.GetString("cloudinary.cloud_name"),
			APIKey:    v.GetString("cloudinary.api_key"),
			APISecret: v.GetString("cloudinary.api_secret"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Pretty: v.GetBool("log.pretty"),
		},
	}
	return cfg, nil
}

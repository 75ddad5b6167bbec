package config

import (
	"errors"
	"log"
	"strings"

	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RabbitMQ  RabbitMQConfig
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type StoreConfig struct {
	Driver        string
	MigrationsDir string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Requests      int
	WindowSeconds int
}

type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RabbitMQConfig struct {
	URL string
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// ErrMissingJWTSecret is returned by Validate when tokens cannot be verified
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

// Validate rejects configurations that would run with an empty token key.
// Only the in-memory development mode may start without a secret.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) != "" {
		return nil
	}
	if c.Store.Driver == StoreDriverMemory && c.IsDevelopment() {
		return nil
	}
	return ErrMissingJWTSecret
}

// Load reads configuration from .env and the environment
func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	viper.SetDefault("MIGRATIONS_DIR", "migrations")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("RATE_LIMIT_REQUESTS", 60)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:     viper.GetString("SERVER_PORT"),
			Env:      viper.GetString("SERVER_ENV"),
			LogLevel: viper.GetString("LOG_LEVEL"),
		},
		Store: StoreConfig{
			Driver:        strings.ToLower(viper.GetString("STORE_DRIVER")),
			MigrationsDir: viper.GetString("MIGRATIONS_DIR"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Requests:      viper.GetInt("RATE_LIMIT_REQUESTS"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("JWT_SECRET"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		RabbitMQ: RabbitMQConfig{
			URL: viper.GetString("RABBITMQ_URL"),
		},
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Minio contains object storage parameters, used when IMAGE_BACKEND=minio.
type Minio struct {
	Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET" envDefault:"feedhub-images"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort   string `env:"SERVER_PORT" envDefault:"8080"`
	MySQLDSN     string `env:"MYSQL_DSN" envDefault:"user:password@tcp(localhost:3306)/feedhub?charset=utf8mb4&parseTime=True&loc=Local"`
	JWTSecret    string `env:"JWT_SECRET" envDefault:"change-me"`
	RedisAddr    string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass    string `env:"REDIS_PASSWORD"`
	RedisDB      int    `env:"REDIS_DB" envDefault:"0"`
	PageSize     int    `env:"PAGE_SIZE" envDefault:"2"`
	ImageBackend string `env:"IMAGE_BACKEND" envDefault:"disk"`
	ImageDir     string `env:"IMAGE_DIR" envDefault:"images"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	Minio        Minio  `envPrefix:"MINIO_"`
}

// Load builds Config from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

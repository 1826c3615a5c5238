package config

import (
	"fmt"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on images without zoneinfo

	"complaint-portal/shared/pkg/mongodb"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:":8001"`
	MongoDB    mongodb.Config
	RedisURL   string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	JWTSecret  string `env:"JWT_SECRET,required"`

	Minio MinioConfig

	MaxImageBytes   int64         `env:"MAX_IMAGE_BYTES" envDefault:"10485760"`
	SequenceBackend string        `env:"SEQUENCE_BACKEND" envDefault:"redis"`
	StatsCacheTTL   time.Duration `env:"STATS_CACHE_TTL" envDefault:"30s"`
	Timezone        string        `env:"TIMEZONE" envDefault:"Africa/Kigali"`

	loc *time.Location
}

type MinioConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"MINIO_ACCESS_KEY" envDefault:"minioadmin"`
	SecretKey string `env:"MINIO_SECRET_KEY" envDefault:"minioadmin"`
	Bucket    string `env:"MINIO_BUCKET" envDefault:"complaint-images"`
	UseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.loc = loc

	switch cfg.SequenceBackend {
	case "redis", "count":
	default:
		return nil, fmt.Errorf("SEQUENCE_BACKEND must be redis or count, got %q", cfg.SequenceBackend)
	}

	return cfg, nil
}

// Location is the zone used for complaint code years and date filters.
// A Config built by hand falls back to UTC.
func (c *Config) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

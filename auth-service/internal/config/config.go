package config

import (
	"fmt"
	"time"

	"complaint-portal/shared/pkg/mongodb"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string `env:"SERVER_PORT" envDefault:":8000"`
	MongoDB         mongodb.Config
	RedisURL        string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	JWTSecret       string        `env:"JWT_SECRET,required"`
	JWTTTL          time.Duration `env:"JWT_TTL" envDefault:"72h"`
	ProfileCacheTTL time.Duration `env:"PROFILE_CACHE_TTL" envDefault:"5m"`

	Admin AdminConfig
}

// AdminConfig describes the bootstrap administrator. Leaving the email
// empty disables the bootstrap.
type AdminConfig struct {
	Name     string `env:"ADMIN_NAME" envDefault:"System Administrator"`
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.JWTTTL <= 0 {
		return nil, fmt.Errorf("JWT_TTL must be positive, got %s", cfg.JWTTTL)
	}
	if cfg.Admin.Email != "" && len(cfg.Admin.Password) < 6 {
		return nil, fmt.Errorf("ADMIN_PASSWORD must be at least 6 characters")
	}
	return cfg, nil
}

package config

import (
	"github.com/caarlos0/env/v10"
	_ "github.com/joho/godotenv/autoload"

	"complaint-portal/shared/pkg/mongodb"
)

// Config holds all application configuration
type Config struct {
	MongoDB   mongodb.Config
	Server    ServerConfig
	RedisURL  string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	JWTSecret string `env:"JWT_SECRET,required"`
	// SeedOnStart inserts the default categories and locations at startup.
	SeedOnStart bool `env:"SEED_ON_START" envDefault:"false"`
}

type ServerConfig struct {
	Port string `env:"SERVER_PORT" envDefault:"8003"`
}

func NewConfig() (*Config, error) {
	cfg := new(Config)
	err := env.Parse(cfg)

	return cfg, err
}

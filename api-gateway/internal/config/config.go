package config

import (
	"fmt"
	"net/url"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort          string   `env:"SERVER_PORT" envDefault:":8080"`
	AuthServiceURL      string   `env:"AUTH_SERVICE_URL" envDefault:"http://auth-service:8000"`
	ComplaintServiceURL string   `env:"COMPLAINT_SERVICE_URL" envDefault:"http://complaint-service:8001"`
	ReferenceServiceURL string   `env:"REFERENCE_SERVICE_URL" envDefault:"http://reference-service:8003"`
	CORSOrigins         []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := new(Config)
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	for name, raw := range map[string]string{
		"AUTH_SERVICE_URL":      cfg.AuthServiceURL,
		"COMPLAINT_SERVICE_URL": cfg.ComplaintServiceURL,
		"REFERENCE_SERVICE_URL": cfg.ReferenceServiceURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}

	return cfg, nil
}

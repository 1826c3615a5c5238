package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerPort)
	assert.Equal(t, "http://auth-service:8000", cfg.AuthServiceURL)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSOrigins)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://portal.gov.rw,https://admin.portal.gov.rw")
	t.Setenv("REFERENCE_SERVICE_URL", "http://10.0.0.5:8003")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://portal.gov.rw", "https://admin.portal.gov.rw"}, cfg.CORSOrigins)
	assert.Equal(t, "http://10.0.0.5:8003", cfg.ReferenceServiceURL)
}

func TestLoadConfig_RejectsRelativeUpstream(t *testing.T) {
	t.Setenv("COMPLAINT_SERVICE_URL", "complaint-service")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "COMPLAINT_SERVICE_URL must be an absolute URL")
}

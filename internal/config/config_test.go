package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SantaTabla/Shop-Backend/internal/config"
)

func writeConfigFile(t *testing.T, contents string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	t.Setenv("CONFIG_FILE", path)
}

func TestLoadReadsYAML(t *testing.T) {
	writeConfigFile(t, `
env: prod
web_url: https://shop.santatabla.ar
port: "9090"
jwt_secret: file-secret
admin:
  email: admin@shop.com
  password: admin-secret
smtp:
  host: smtp.example.com
  port: "587"
  email: noreply@shop.com
`)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "file-secret", cfg.JWTSecret)
	assert.Equal(t, "admin@shop.com", cfg.Admin.Email)
	assert.Equal(t, "smtp.example.com", cfg.SMTP.Host)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	writeConfigFile(t, `
port: "9090"
jwt_secret: file-secret
`)
	t.Setenv("PORT", "3000")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "env-secret", cfg.JWTSecret)
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
}

func TestValidateRequiresSecrets(t *testing.T) {
	cfg := config.Config{}
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "secret"
	assert.Error(t, cfg.Validate(), "admin credentials are still missing")

	cfg.Admin.Email = "admin@shop.com"
	cfg.Admin.Password = "admin-secret"
	assert.NoError(t, cfg.Validate())
}

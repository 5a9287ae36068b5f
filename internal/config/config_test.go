package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// chdir moves into an empty dir so no stray .env is picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t)
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, DefaultBaseURL, cfg.BaseURL)
	require.Equal(t, "file", cfg.Storage.Backend)
	require.Equal(t, "school-portal", cfg.Storage.Namespace)
	require.True(t, cfg.Admin.TimeBoxed)
	require.Equal(t, 10*time.Minute, cfg.Admin.TTL)
	require.Equal(t, time.Minute, cfg.Admin.Sweep)
	require.Equal(t, ":8080", cfg.Server.HTTPAddr)
	require.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	require.Equal(t, "digitaloceanspaces.com", cfg.ProxyDomain)
	require.False(t, cfg.Spaces.Enabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t)
	t.Setenv("PORTAL_BASE_URL", "http://localhost:3000/api")
	t.Setenv("PORTAL_STORAGE_BACKEND", "redis")
	t.Setenv("PORTAL_STORAGE_REDIS_ADDR", "localhost:6379")
	t.Setenv("PORTAL_ADMIN_TTL", "90s")
	t.Setenv("PORTAL_ADMIN_TIME_BOXED", "false")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:3000/api", cfg.BaseURL)
	require.Equal(t, "redis", cfg.Storage.Backend)
	require.Equal(t, "localhost:6379", cfg.Storage.RedisAddr)
	require.Equal(t, 90*time.Second, cfg.Admin.TTL)
	require.False(t, cfg.Admin.TimeBoxed)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORTAL_DEV=true\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("PORTAL_DEV") })

	cfg, err := Load("")
	require.NoError(t, err)
	require.True(t, cfg.Dev)
}

func TestLoad_YAML(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "portal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  backend: postgres
  postgres_dsn: postgres://u:p@localhost/portal
server:
  http_addr: ":9000"
spaces:
  endpoint: https://fra1.digitaloceanspaces.com
  bucket: school
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "postgres", cfg.Storage.Backend)
	require.Equal(t, ":9000", cfg.Server.HTTPAddr)
	require.True(t, cfg.Spaces.Enabled())
}

func TestLoad_Invalid(t *testing.T) {
	chdir(t)

	t.Setenv("PORTAL_STORAGE_BACKEND", "floppy")
	_, err := Load("")
	require.Error(t, err)

	t.Setenv("PORTAL_STORAGE_BACKEND", "redis")
	_, err = Load("")
	require.ErrorContains(t, err, "RedisAddr")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
cache:
  backend: redis
  issues_ttl: 5m
github:
  per_page: 50
admin:
  signing_key: secret
  subjects: [ops]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, BackendRedis, cfg.Cache.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Cache.IssuesTTL)
	assert.Equal(t, 24*time.Hour, cfg.Cache.ContributorsTTL, "default kept")
	assert.Equal(t, 50, cfg.GitHub.PerPage)
	assert.Equal(t, "https://api.github.com", cfg.GitHub.BaseURL)
	assert.Equal(t, []string{"ops"}, cfg.Admin.Subjects)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "cache:\n  backend: file\n")
	t.Setenv("CACHE_DIR", "/var/cache/ghmirror")
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("ADMIN_SIGNING_KEY", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/cache/ghmirror", cfg.Cache.Dir)
	assert.Equal(t, "ghp_test", cfg.GitHub.Token)
	assert.Equal(t, "from-env", cfg.Admin.SigningKey)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Cache.Backend)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, "server: [unterminated")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Cache: CacheConfig{Backend: BackendFile, Dir: t.TempDir()},
			Admin: AdminConfig{SigningKey: "k"},
		}
	}

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("FileBackendNeedsDir", func(t *testing.T) {
		cfg := valid()
		cfg.Cache.Dir = ""
		assert.ErrorIs(t, cfg.Validate(), ErrCacheDirRequired)
	})

	t.Run("MemoryBackendNeedsNoDir", func(t *testing.T) {
		cfg := valid()
		cfg.Cache.Backend = BackendMemory
		cfg.Cache.Dir = ""
		assert.NoError(t, cfg.Validate())
	})

	t.Run("UnknownBackend", func(t *testing.T) {
		cfg := valid()
		cfg.Cache.Backend = "s3"
		assert.ErrorIs(t, cfg.Validate(), ErrUnknownBackend)
	})

	t.Run("SigningKeyRequired", func(t *testing.T) {
		cfg := valid()
		cfg.Admin.SigningKey = ""
		assert.ErrorIs(t, cfg.Validate(), ErrSigningKeyRequired)
	})
}

func TestPostgresDSN(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", DB: "gh", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=gh sslmode=disable", cfg.DSN())
}

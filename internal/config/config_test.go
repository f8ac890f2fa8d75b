package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, DriverSQLite, c.DatabaseDriver)
	assert.Equal(t, "file:avisos.db", c.DatabaseDSN)
	assert.Equal(t, DefaultUsers, c.Users)
	assert.Equal(t, 15, c.RetentionDays)
	assert.Equal(t, 24*time.Hour, c.PurgeInterval)
	assert.Equal(t, 5*time.Minute, c.PurgeRetryDelay)
	assert.False(t, c.TrackSubcategory)
	assert.False(t, c.ArchiveEnabled())
	require.NoError(t, c.Validate())
}

func TestLoadDefaults_UsersAreCopied(t *testing.T) {
	c := defaults()
	c.Users[0] = "Mallory"
	assert.Equal(t, "Pedro", DefaultUsers[0])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"driver", func(c *Config) { c.DatabaseDriver = "mysql" }, "unsupported database driver"},
		{"dsn", func(c *Config) { c.DatabaseDSN = "" }, "dsn is empty"},
		{"users", func(c *Config) { c.Users = nil }, "user list is empty"},
		{"retention", func(c *Config) { c.RetentionDays = 0 }, "retention days"},
		{"interval", func(c *Config) { c.PurgeInterval = 0 }, "purge interval"},
		{"cache", func(c *Config) { c.CacheSize = -1 }, "cache size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()

	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"AVISOS_HTTP_ADDR=:7000\nAVISOS_DB_DSN=file:env.db\nAVISOS_RETENTION_DAYS=20\n"), 0o600))

	jsonFile := writeTempJSON(t, dir, "cfg.json", map[string]any{
		"database_dsn":   "file:json.db",
		"purge_interval": "12h",
	})

	t.Setenv("AVISOS_LOG_LEVEL", "debug")

	cfg, err := Load(envFile, jsonFile, []string{"-r", "30", "-x", "ignored"})
	require.NoError(t, err)

	want := defaults()
	want.HTTPAddr = ":7000"
	want.DatabaseDSN = "file:json.db"
	want.RetentionDays = 30
	want.PurgeInterval = 12 * time.Hour
	want.LogLevel = "debug"

	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestLoad_InvalidResult(t *testing.T) {
	_, err := Load("", "", []string{"-driver", "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}

func TestLoad_MissingFiles(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"), "", nil)
	assert.Error(t, err)

	_, err = Load("", filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.Error(t, err)
}

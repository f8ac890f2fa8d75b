package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadJSON_AllFields(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"http_addr":         "127.0.0.1:9000",
		"database_driver":   "pgx",
		"database_dsn":      "postgres://localhost/avisos",
		"users":             []string{"Isa", "Joan"},
		"retention_days":    7,
		"purge_interval":    "6h",
		"purge_retry_delay": "1m",
		"purge_timeout":     30000000000,
		"track_subcategory": true,
		"log_level":         "warn",
		"log_format":        "json",
		"cache_size":        0,
		"s3_access_key":     "key",
		"s3_secret_key":     "secret",
		"s3_bucket":         "bucket",
		"s3_region":         "eu-west-1",
		"s3_base_endpoint":  "http://127.0.0.1:9000/",
		"s3_prefix":         "archive",
		"ws_write_timeout":  "5s",
		"ws_ping_interval":  "15s",
		"shutdown_timeout":  "3s",
	})

	c := defaults()
	require.NoError(t, c.LoadJSON(path))

	assert.Equal(t, "127.0.0.1:9000", c.HTTPAddr)
	assert.Equal(t, DriverPostgres, c.DatabaseDriver)
	assert.Equal(t, "postgres://localhost/avisos", c.DatabaseDSN)
	assert.Equal(t, []string{"Isa", "Joan"}, c.Users)
	assert.Equal(t, 7, c.RetentionDays)
	assert.Equal(t, 6*time.Hour, c.PurgeInterval)
	assert.Equal(t, time.Minute, c.PurgeRetryDelay)
	assert.Equal(t, 30*time.Second, c.PurgeTimeout)
	assert.True(t, c.TrackSubcategory)
	assert.Equal(t, "warn", c.LogLevel)
	assert.Equal(t, "json", c.LogFormat)
	assert.Equal(t, 0, c.CacheSize)
	assert.Equal(t, "bucket", c.S3Bucket)
	assert.Equal(t, "eu-west-1", c.S3Region)
	assert.Equal(t, "archive", c.S3Prefix)
	assert.Equal(t, 5*time.Second, c.WSWriteTimeout)
	assert.Equal(t, 15*time.Second, c.WSPingInterval)
	assert.Equal(t, 3*time.Second, c.ShutdownTimeout)
}

func TestLoadJSON_PartialKeepsCurrent(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{"log_level": "debug"})

	c := defaults()
	require.NoError(t, c.LoadJSON(path))

	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, 256, c.CacheSize)
	assert.Equal(t, 24*time.Hour, c.PurgeInterval)
}

func TestLoadJSON_Errors(t *testing.T) {
	c := defaults()
	require.NoError(t, c.LoadJSON(""))

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"purge_interval": "soon"}`), 0o600))
	assert.Error(t, c.LoadJSON(bad))
}

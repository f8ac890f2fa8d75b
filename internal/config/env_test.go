package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_ProcessOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "avisos.env")
	require.NoError(t, os.WriteFile(path, []byte(`
AVISOS_DB_DRIVER=pgx
AVISOS_DB_DSN=postgres://file
AVISOS_USERS=Pedro, Isa ,,Joan
AVISOS_TRACK_SUBCATEGORY=true
AVISOS_PURGE_RETRY_DELAY=30s
AVISOS_S3_BUCKET=avisos-archive
`), 0o600))

	t.Setenv("AVISOS_DB_DSN", "postgres://process")
	t.Setenv("AVISOS_CACHE_SIZE", "64")

	c := defaults()
	require.NoError(t, c.LoadEnv(path))

	assert.Equal(t, DriverPostgres, c.DatabaseDriver)
	assert.Equal(t, "postgres://process", c.DatabaseDSN)
	assert.Equal(t, []string{"Pedro", "Isa", "Joan"}, c.Users)
	assert.True(t, c.TrackSubcategory)
	assert.Equal(t, 30*time.Second, c.PurgeRetryDelay)
	assert.Equal(t, 64, c.CacheSize)
	assert.True(t, c.ArchiveEnabled())
}

func TestApplyEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"bad bool", map[string]string{"AVISOS_TRACK_SUBCATEGORY": "maybe"}},
		{"bad int", map[string]string{"AVISOS_RETENTION_DAYS": "fifteen"}},
		{"bad duration", map[string]string{"AVISOS_PURGE_INTERVAL": "daily"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			assert.Error(t, c.applyEnv(tt.vars))
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a ,b,"))
	assert.Empty(t, splitList(""))
}

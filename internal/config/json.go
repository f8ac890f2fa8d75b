package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/avisos/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Pointer and
// zero-value fields that are absent leave the current Config value alone.
// Durations accept "24h" style strings or integer nanoseconds.
type JsonConfig struct {
	HTTPAddr         string          `json:"http_addr"`
	DatabaseDriver   string          `json:"database_driver"`
	DatabaseDSN      string          `json:"database_dsn"`
	Users            []string        `json:"users"`
	RetentionDays    int             `json:"retention_days"`
	PurgeInterval    *timex.Duration `json:"purge_interval"`
	PurgeRetryDelay  *timex.Duration `json:"purge_retry_delay"`
	PurgeTimeout     *timex.Duration `json:"purge_timeout"`
	TrackSubcategory *bool           `json:"track_subcategory"`
	LogLevel         string          `json:"log_level"`
	LogFormat        string          `json:"log_format"`
	CacheSize        *int            `json:"cache_size"`
	S3AccessKey      string          `json:"s3_access_key"`
	S3SecretKey      string          `json:"s3_secret_key"`
	S3Bucket         string          `json:"s3_bucket"`
	S3Region         string          `json:"s3_region"`
	S3BaseEndpoint   string          `json:"s3_base_endpoint"`
	S3Prefix         string          `json:"s3_prefix"`
	WSWriteTimeout   *timex.Duration `json:"ws_write_timeout"`
	WSPingInterval   *timex.Duration `json:"ws_ping_interval"`
	ShutdownTimeout  *timex.Duration `json:"shutdown_timeout"`
}

// LoadJSON overlays values from the JSON file at path. An empty path is a no-op.
func (c *Config) LoadJSON(path string) error {
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	j := &JsonConfig{}
	if err := json.Unmarshal(file, j); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setStr(&c.HTTPAddr, j.HTTPAddr)
	setStr(&c.DatabaseDriver, j.DatabaseDriver)
	setStr(&c.DatabaseDSN, j.DatabaseDSN)
	setStr(&c.LogLevel, j.LogLevel)
	setStr(&c.LogFormat, j.LogFormat)
	setStr(&c.S3AccessKey, j.S3AccessKey)
	setStr(&c.S3SecretKey, j.S3SecretKey)
	setStr(&c.S3Bucket, j.S3Bucket)
	setStr(&c.S3Region, j.S3Region)
	setStr(&c.S3BaseEndpoint, j.S3BaseEndpoint)
	setStr(&c.S3Prefix, j.S3Prefix)

	if len(j.Users) > 0 {
		c.Users = j.Users
	}
	if j.RetentionDays != 0 {
		c.RetentionDays = j.RetentionDays
	}
	if j.TrackSubcategory != nil {
		c.TrackSubcategory = *j.TrackSubcategory
	}
	if j.CacheSize != nil {
		c.CacheSize = *j.CacheSize
	}

	setDur(&c.PurgeInterval, j.PurgeInterval)
	setDur(&c.PurgeRetryDelay, j.PurgeRetryDelay)
	setDur(&c.PurgeTimeout, j.PurgeTimeout)
	setDur(&c.WSWriteTimeout, j.WSWriteTimeout)
	setDur(&c.WSPingInterval, j.WSPingInterval)
	setDur(&c.ShutdownTimeout, j.ShutdownTimeout)
	return nil
}

func setStr(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDur(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}

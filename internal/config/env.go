package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "AVISOS_"

// LoadEnv overlays values from envFile (if not empty) and then from the
// process environment. Process variables win over the file.
//
// Recognised keys (prefixed with AVISOS_): HTTP_ADDR, DB_DRIVER, DB_DSN,
// USERS (comma separated), RETENTION_DAYS, PURGE_INTERVAL,
// PURGE_RETRY_DELAY, PURGE_TIMEOUT, TRACK_SUBCATEGORY, LOG_LEVEL,
// LOG_FORMAT, CACHE_SIZE, S3_ACCESS_KEY, S3_SECRET_KEY, S3_BUCKET,
// S3_REGION, S3_ENDPOINT, S3_PREFIX, WS_WRITE_TIMEOUT, WS_PING_INTERVAL,
// SHUTDOWN_TIMEOUT.
func (c *Config) LoadEnv(envFile string) error {
	vars := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		if err != nil {
			return fmt.Errorf("read env file %s: %w", envFile, err)
		}
		for k, v := range m {
			vars[k] = v
		}
	}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(k, envPrefix) {
			vars[k] = v
		}
	}
	return c.applyEnv(vars)
}

func (c *Config) applyEnv(vars map[string]string) error {
	str := func(key string, dst *string) {
		if v, ok := vars[envPrefix+key]; ok {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := vars[envPrefix+key]
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, key, err)
		}
		*dst = d
		return nil
	}
	integer := func(key string, dst *int) error {
		v, ok := vars[envPrefix+key]
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, key, err)
		}
		*dst = n
		return nil
	}

	str("HTTP_ADDR", &c.HTTPAddr)
	str("DB_DRIVER", &c.DatabaseDriver)
	str("DB_DSN", &c.DatabaseDSN)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)
	str("S3_ACCESS_KEY", &c.S3AccessKey)
	str("S3_SECRET_KEY", &c.S3SecretKey)
	str("S3_BUCKET", &c.S3Bucket)
	str("S3_REGION", &c.S3Region)
	str("S3_ENDPOINT", &c.S3BaseEndpoint)
	str("S3_PREFIX", &c.S3Prefix)

	if v, ok := vars[envPrefix+"USERS"]; ok {
		c.Users = splitList(v)
	}
	if v, ok := vars[envPrefix+"TRACK_SUBCATEGORY"]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sTRACK_SUBCATEGORY: %w", envPrefix, err)
		}
		c.TrackSubcategory = b
	}

	for _, f := range []func() error{
		func() error { return integer("RETENTION_DAYS", &c.RetentionDays) },
		func() error { return integer("CACHE_SIZE", &c.CacheSize) },
		func() error { return dur("PURGE_INTERVAL", &c.PurgeInterval) },
		func() error { return dur("PURGE_RETRY_DELAY", &c.PurgeRetryDelay) },
		func() error { return dur("PURGE_TIMEOUT", &c.PurgeTimeout) },
		func() error { return dur("WS_WRITE_TIMEOUT", &c.WSWriteTimeout) },
		func() error { return dur("WS_PING_INTERVAL", &c.WSPingInterval) },
		func() error { return dur("SHUTDOWN_TIMEOUT", &c.ShutdownTimeout) },
	} {
		if err := f(); err != nil {
			return err
		}
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

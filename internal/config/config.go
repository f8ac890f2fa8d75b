// Package config handles configuration for the avisos daemon and CLI,
// including defaults, dotenv/environment overlay, JSON overlay and
// command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/avisos/internal/flagx"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// DefaultUsers is the fixed set of acting identities shipped with the app.
var DefaultUsers = []string{"Pedro", "Isa", "Lourdes", "Alexia", "Albert", "Joan"}

// Config holds runtime settings.
//
// The S3 fields are only used when S3Bucket is set; otherwise purged notes
// are not archived.
type Config struct {
	HTTPAddr       string
	DatabaseDriver string
	DatabaseDSN    string
	Users          []string

	RetentionDays    int
	PurgeInterval    time.Duration
	PurgeRetryDelay  time.Duration
	PurgeTimeout     time.Duration
	TrackSubcategory bool

	LogLevel  string
	LogFormat string
	CacheSize int

	S3AccessKey    string
	S3SecretKey    string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3Prefix       string

	WSWriteTimeout  time.Duration
	WSPingInterval  time.Duration
	ShutdownTimeout time.Duration
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.DatabaseDriver = DriverSQLite
	c.DatabaseDSN = "file:avisos.db"
	c.Users = append([]string(nil), DefaultUsers...)

	c.RetentionDays = 15
	c.PurgeInterval = 24 * time.Hour
	c.PurgeRetryDelay = 5 * time.Minute
	c.PurgeTimeout = time.Minute
	c.TrackSubcategory = false

	c.LogLevel = "info"
	c.LogFormat = "text"
	c.CacheSize = 256

	c.S3Region = "us-east-1"
	c.S3Prefix = "purged"

	c.WSWriteTimeout = 10 * time.Second
	c.WSPingInterval = 30 * time.Second
	c.ShutdownTimeout = 10 * time.Second
}

// ArchiveEnabled reports whether purged notes should be copied to S3.
func (c *Config) ArchiveEnabled() bool { return c.S3Bucket != "" }

// Validate checks the combined configuration for values the app cannot run with.
func (c *Config) Validate() error {
	var errs []error
	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.DatabaseDriver))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database dsn is empty"))
	}
	if len(c.Users) == 0 {
		errs = append(errs, errors.New("user list is empty"))
	}
	if c.RetentionDays <= 0 {
		errs = append(errs, fmt.Errorf("retention days must be positive, got %d", c.RetentionDays))
	}
	if c.PurgeInterval <= 0 {
		errs = append(errs, errors.New("purge interval must be positive"))
	}
	if c.PurgeRetryDelay <= 0 {
		errs = append(errs, errors.New("purge retry delay must be positive"))
	}
	if c.CacheSize < 0 {
		errs = append(errs, errors.New("cache size must not be negative"))
	}
	return errors.Join(errs...)
}

// Load builds a Config by applying defaults, then the optional dotenv file
// and AVISOS_* environment variables, then the optional JSON file and
// finally the given command-line args.
func Load(envFile, jsonFile string, args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := cfg.LoadEnv(envFile); err != nil {
		return nil, err
	}
	if err := cfg.LoadJSON(jsonFile); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load driven by the process arguments (-e/-env-file and
// -c/-config select the optional files).
func LoadConfig() (*Config, error) {
	return Load(flagx.EnvFileFlag(), flagx.JsonConfigFlags(), os.Args[1:])
}

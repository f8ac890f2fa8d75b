package config

import (
	"flag"
	"io"
	"strings"

	"github.com/dmitrijs2005/avisos/internal/flagx"
)

// parseFlags overlays Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     HTTP bind address (e.g. ":8080")
//	-driver       database driver: sqlite or pgx
//	-d string     database DSN
//	-u string     comma separated user list
//	-r int        recycle bin retention, days
//	-i duration   purge sweep interval
//	-l string     log level
//	-b string     S3 archive bucket (enables archiving)
//
// args are filtered through flagx.FilterArgs first so flags owned by other
// layers (-c, -e) are not reported as unknown.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-driver", "-d", "-u", "-r", "-i", "-l", "-b"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to serve HTTP")
	fs.StringVar(&config.DatabaseDriver, "driver", config.DatabaseDriver, "database driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	users := fs.String("u", strings.Join(config.Users, ","), "comma separated users")
	fs.IntVar(&config.RetentionDays, "r", config.RetentionDays, "recycle bin retention (days)")
	fs.DurationVar(&config.PurgeInterval, "i", config.PurgeInterval, "purge sweep interval")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 archive bucket")

	if err := fs.Parse(args); err != nil {
		return err
	}

	config.Users = splitList(*users)
	return nil
}

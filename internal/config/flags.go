package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/dataroom/internal/flagx"
)

var knownFlags = []string{
	"-driver", "-d", "-content", "-u", "-p", "-b", "-g", "-e",
	"-s", "-t", "-log-level", "-log-format", "-export-dir",
}

// parseFlags overlays cfg with command-line flags:
//
//	-driver string      database driver (sqlite, pgx)
//	-d string           database DSN
//	-content string     payload backend (db, s3)
//	-u / -p string      S3 access key / secret key
//	-b string           S3 bucket
//	-g string           S3 region
//	-e string           S3 base endpoint
//	-s string           session signing secret
//	-t duration         session lifetime, e.g. 12h
//	-log-level string   debug, info, warn, error
//	-log-format string  text or json
//	-export-dir string  default directory for exports
//
// Unknown arguments are filtered out first so other flags (-c) do not
// interfere.
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("dataroom", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DatabaseDriver, "driver", cfg.DatabaseDriver, "database driver")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.ContentBackend, "content", cfg.ContentBackend, "payload backend")
	fs.StringVar(&cfg.S3User, "u", cfg.S3User, "S3 access key")
	fs.StringVar(&cfg.S3Password, "p", cfg.S3Password, "S3 secret key")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&cfg.SessionSecret, "s", cfg.SessionSecret, "session signing secret")
	fs.DurationVar(&cfg.SessionTTL, "t", cfg.SessionTTL, "session lifetime")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format")
	fs.StringVar(&cfg.ExportDir, "export-dir", cfg.ExportDir, "export directory")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		panic(err)
	}
}

package config

import (
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/dataroom/internal/logging"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	ContentBackendDB = "db"
	ContentBackendS3 = "s3"
)

// Config holds runtime settings.
//
// ContentBackend selects where file payloads live: "db" keeps them in the
// files table, "s3" in the configured bucket. An empty SessionSecret makes
// the auth service generate and persist one.
type Config struct {
	DatabaseDriver string
	DatabaseDSN    string
	ContentBackend string
	S3User         string
	S3Password     string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	SessionSecret  string
	SessionTTL     time.Duration
	LogLevel       string
	LogFormat      string
	ExportDir      string
}

// LoadDefaults populates c with local development defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "dataroom.db"
	c.ContentBackend = ContentBackendDB
	c.S3Bucket = "dataroom"
	c.S3Region = "us-east-1"
	c.SessionTTL = 24 * time.Hour
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.ExportDir = "exports"
}

// LoadConfig builds a Config from defaults, environment, an optional config
// file and os.Args. Malformed input panics.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFile(cfg, args)
	parseFlags(cfg, args)
	return cfg
}

// Validate checks cross-field constraints that the loaders cannot.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DatabaseDriver, validation.Required,
			validation.In("sqlite", "sqlite3", "pgx", "postgres", "postgresql")),
		validation.Field(&c.DatabaseDSN, validation.Required),
		validation.Field(&c.ContentBackend, validation.Required,
			validation.In(ContentBackendDB, ContentBackendS3)),
		validation.Field(&c.S3Bucket,
			validation.When(c.ContentBackend == ContentBackendS3, validation.Required)),
		validation.Field(&c.S3Region,
			validation.When(c.ContentBackend == ContentBackendS3, validation.Required)),
		validation.Field(&c.SessionTTL, validation.Min(time.Second)),
		validation.Field(&c.LogLevel, validation.By(func(any) error {
			_, err := logging.ParseLevel(c.LogLevel)
			return err
		})),
		validation.Field(&c.LogFormat, validation.In("text", "json")),
	)
}

// UsesS3 reports whether payloads go to object storage.
func (c *Config) UsesS3() bool {
	return strings.EqualFold(c.ContentBackend, ContentBackendS3)
}

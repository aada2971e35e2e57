package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// dotEnvFile is read from the working directory when present.
var dotEnvFile = ".env"

const envPrefix = "DATAROOM_"

// parseEnv loads .env (without replacing variables already set) and then
// overlays every DATAROOM_* variable that is set.
func parseEnv(cfg *Config) {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(fmt.Errorf("load %s: %w", dotEnvFile, err))
	}

	strs := map[string]*string{
		"DB_DRIVER":       &cfg.DatabaseDriver,
		"DB_DSN":          &cfg.DatabaseDSN,
		"CONTENT_BACKEND": &cfg.ContentBackend,
		"S3_USER":         &cfg.S3User,
		"S3_PASSWORD":     &cfg.S3Password,
		"S3_BUCKET":       &cfg.S3Bucket,
		"S3_REGION":       &cfg.S3Region,
		"S3_ENDPOINT":     &cfg.S3BaseEndpoint,
		"SESSION_SECRET":  &cfg.SessionSecret,
		"LOG_LEVEL":       &cfg.LogLevel,
		"LOG_FORMAT":      &cfg.LogFormat,
		"EXPORT_DIR":      &cfg.ExportDir,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(envPrefix + "SESSION_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(fmt.Errorf("%sSESSION_TTL: %w", envPrefix, err))
		}
		cfg.SessionTTL = d
	}
}

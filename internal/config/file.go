package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/dataroom/internal/flagx"
	"github.com/dmitrijs2005/dataroom/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the config file. Pointer fields tell
// a missing key apart from an empty value.
type FileConfig struct {
	DatabaseDriver *string         `json:"database_driver" yaml:"database_driver"`
	DatabaseDSN    *string         `json:"database_dsn" yaml:"database_dsn"`
	ContentBackend *string         `json:"content_backend" yaml:"content_backend"`
	S3User         *string         `json:"s3_user" yaml:"s3_user"`
	S3Password     *string         `json:"s3_password" yaml:"s3_password"`
	S3Bucket       *string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region       *string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint *string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	SessionSecret  *string         `json:"session_secret" yaml:"session_secret"`
	SessionTTL     *timex.Duration `json:"session_ttl" yaml:"session_ttl"`
	LogLevel       *string         `json:"log_level" yaml:"log_level"`
	LogFormat      *string         `json:"log_format" yaml:"log_format"`
	ExportDir      *string         `json:"export_dir" yaml:"export_dir"`
}

// parseFile overlays cfg with the file named by -c/-config, if any. Read
// or decode errors panic.
func parseFile(cfg *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&cfg.DatabaseDriver, fc.DatabaseDriver)
	set(&cfg.DatabaseDSN, fc.DatabaseDSN)
	set(&cfg.ContentBackend, fc.ContentBackend)
	set(&cfg.S3User, fc.S3User)
	set(&cfg.S3Password, fc.S3Password)
	set(&cfg.S3Bucket, fc.S3Bucket)
	set(&cfg.S3Region, fc.S3Region)
	set(&cfg.S3BaseEndpoint, fc.S3BaseEndpoint)
	set(&cfg.SessionSecret, fc.SessionSecret)
	set(&cfg.LogLevel, fc.LogLevel)
	set(&cfg.LogFormat, fc.LogFormat)
	set(&cfg.ExportDir, fc.ExportDir)
	if fc.SessionTTL != nil {
		cfg.SessionTTL = fc.SessionTTL.Duration
	}
}

// Package config loads runtime configuration for the dataroom CLI.
//
// Sources & precedence, later ones win:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, then DATAROOM_* environment
//     variables.
//  3. Optional config file selected with -c or -config. Files ending in
//     .yaml or .yml are read as YAML, anything else as JSON. Only keys present
//     in the file override.
//  4. Command-line flags.
//
// # File schema
//
// Durations accept strings like "24h" or integer nanoseconds:
//
//	{
//	  "database_driver": "sqlite",
//	  "database_dsn": "dataroom.db",
//	  "content_backend": "s3",
//	  "s3_bucket": "dataroom",
//	  "session_ttl": "12h",
//	  "log_level": "debug"
//	}
package config

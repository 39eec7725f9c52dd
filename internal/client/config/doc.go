// Package config loads runtime configuration for the admissions CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the admissions API
//	-d string   path of the local SQLite database file
//	-i int      online status check interval (seconds)
//	-s int      background sync interval (seconds)
//	-t int      per-request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "30s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://emis.example.org",
//	  "database_dsn": "emis.db",
//	  "online_check_interval": "3s",
//	  "sync_interval": "30s",
//	  "request_timeout": "15s"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config

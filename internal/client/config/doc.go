// Package config loads runtime configuration for the myday CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c/--config or MYDAY_CONFIG. The
//     format follows the extension: .json, .toml, .yaml or .yml.
//  3. MYDAY_* environment variables.
//  4. Command-line flags, applied by the cli package.
//
// # File schema
//
// Durations accept strings like "3s" or integer nanoseconds:
//
//	database_path = "/home/me/.myday/myday.db"
//	owner_id      = "uid-123"
//	backend       = "grpc"
//	server_addr   = "127.0.0.1:50051"
//	request_timeout = "10s"
//
//	[s3]
//	bucket   = "myday"
//	endpoint = "http://127.0.0.1:9000"
package config

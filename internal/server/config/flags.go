package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/myday/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-m string   HTTP bind address for health and metrics
//	-d string   PostgreSQL DSN
//	-s string   token HMAC secret key
//	-l string   log level
//	-t duration graceful shutdown timeout
//
// Arguments not in this list are ignored so the binary can share its
// command line with the config file flag.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-m", "-d", "-s", "-l", "-t"})

	fs := flag.NewFlagSet("docstore", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.GRPCAddr, "a", config.GRPCAddr, "address and port to run the gRPC server")
	fs.StringVar(&config.HTTPAddr, "m", config.HTTPAddr, "address and port for health and metrics")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	shutdown := fs.Duration("t", config.ShutdownTimeout, "graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	config.ShutdownTimeout = *shutdown
	return nil
}

// parseEnv reads DOCSTORE_* variables.
func parseEnv(config *Config, getenv func(string) string) error {
	for name, dst := range map[string]*string{
		"DOCSTORE_GRPC_ADDR":    &config.GRPCAddr,
		"DOCSTORE_HTTP_ADDR":    &config.HTTPAddr,
		"DOCSTORE_DATABASE_DSN": &config.DatabaseDSN,
		"DOCSTORE_SECRET_KEY":   &config.SecretKey,
		"DOCSTORE_LOG_LEVEL":    &config.LogLevel,
	} {
		if v := getenv(name); v != "" {
			*dst = v
		}
	}
	if v := getenv("DOCSTORE_SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("DOCSTORE_SHUTDOWN_TIMEOUT: %w", err)
		}
		config.ShutdownTimeout = d
	}
	return nil
}

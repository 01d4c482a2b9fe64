package config

import (
	"github.com/dmitrijs2005/myday/internal/flagx"
	"github.com/dmitrijs2005/myday/internal/timex"
)

// FileConfig is the on-disk shape of the configuration. Durations accept
// both "10s" strings and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading config files.
// Non-empty fields are copied into the runtime Config.
type FileConfig struct {
	GRPCAddr        string         `json:"grpc_addr" toml:"grpc_addr" yaml:"grpc_addr"`
	HTTPAddr        string         `json:"http_addr" toml:"http_addr" yaml:"http_addr"`
	DatabaseDSN     string         `json:"database_dsn" toml:"database_dsn" yaml:"database_dsn"`
	SecretKey       string         `json:"secret_key" toml:"secret_key" yaml:"secret_key"`
	LogLevel        string         `json:"log_level" toml:"log_level" yaml:"log_level"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout" toml:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// parseFile loads the config file named by -c/-config, falling back to
// DOCSTORE_CONFIG. No file means nothing to load.
func parseFile(config *Config, args []string, getenv func(string) string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		path = getenv("DOCSTORE_CONFIG")
	}
	if path == "" {
		return nil
	}

	var c FileConfig
	if err := flagx.DecodeFile(path, &c); err != nil {
		return err
	}

	for _, f := range []struct {
		dst *string
		v   string
	}{
		{&config.GRPCAddr, c.GRPCAddr},
		{&config.HTTPAddr, c.HTTPAddr},
		{&config.DatabaseDSN, c.DatabaseDSN},
		{&config.SecretKey, c.SecretKey},
		{&config.LogLevel, c.LogLevel},
	} {
		if f.v != "" {
			*f.dst = f.v
		}
	}
	if c.ShutdownTimeout.Duration != 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	return nil
}

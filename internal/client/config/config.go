package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dmitrijs2005/myday/internal/flagx"
	"github.com/dmitrijs2005/myday/internal/timex"
)

// Remote backends.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendGRPC   = "grpc"
	BackendS3     = "s3"
)

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Config holds runtime settings for the myday CLI.
type Config struct {
	DatabasePath string
	OwnerID      string
	AccessToken  string

	Backend    string
	ServerAddr string
	S3         S3Config

	LogFile  string
	LogLevel string

	SyncWorkers    int
	RequestTimeout time.Duration
	EnrichTimeout  time.Duration
	WatchDebounce  time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	dir := defaultDataDir()
	c.DatabasePath = filepath.Join(dir, "myday.db")
	c.Backend = BackendNone
	c.ServerAddr = "127.0.0.1:50051"
	c.S3 = S3Config{Bucket: "myday", Region: "us-east-1"}
	c.LogFile = filepath.Join(dir, "myday.log")
	c.LogLevel = "info"
	c.SyncWorkers = 4
	c.RequestTimeout = 10 * time.Second
	c.EnrichTimeout = 10 * time.Second
	c.WatchDebounce = 200 * time.Millisecond
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".myday"
	}
	return filepath.Join(home, ".myday")
}

// Load applies defaults, then the config file, then the environment.
// args are the raw command-line arguments; getenv is usually os.Getenv.
func Load(args []string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	path := flagx.ConfigFileFlag(args)
	if path == "" {
		path = getenv("MYDAY_CONFIG")
	}
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendNone, BackendMemory:
	case BackendGRPC:
		if c.ServerAddr == "" {
			return fmt.Errorf("backend %q needs a server address", c.Backend)
		}
	case BackendS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("backend %q needs a bucket", c.Backend)
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path is empty")
	}
	if c.SyncWorkers < 1 {
		return fmt.Errorf("sync workers must be positive, got %d", c.SyncWorkers)
	}
	return nil
}

// fileConfig is the on-disk shape. Empty values leave the current setting.
type fileConfig struct {
	DatabasePath   string         `json:"database_path" toml:"database_path" yaml:"database_path"`
	OwnerID        string         `json:"owner_id" toml:"owner_id" yaml:"owner_id"`
	AccessToken    string         `json:"access_token" toml:"access_token" yaml:"access_token"`
	Backend        string         `json:"backend" toml:"backend" yaml:"backend"`
	ServerAddr     string         `json:"server_addr" toml:"server_addr" yaml:"server_addr"`
	LogFile        string         `json:"log_file" toml:"log_file" yaml:"log_file"`
	LogLevel       string         `json:"log_level" toml:"log_level" yaml:"log_level"`
	SyncWorkers    int            `json:"sync_workers" toml:"sync_workers" yaml:"sync_workers"`
	RequestTimeout timex.Duration `json:"request_timeout" toml:"request_timeout" yaml:"request_timeout"`
	EnrichTimeout  timex.Duration `json:"enrich_timeout" toml:"enrich_timeout" yaml:"enrich_timeout"`
	WatchDebounce  timex.Duration `json:"watch_debounce" toml:"watch_debounce" yaml:"watch_debounce"`
	S3             struct {
		Bucket    string `json:"bucket" toml:"bucket" yaml:"bucket"`
		Region    string `json:"region" toml:"region" yaml:"region"`
		Endpoint  string `json:"endpoint" toml:"endpoint" yaml:"endpoint"`
		AccessKey string `json:"access_key" toml:"access_key" yaml:"access_key"`
		SecretKey string `json:"secret_key" toml:"secret_key" yaml:"secret_key"`
	} `json:"s3" toml:"s3" yaml:"s3"`
}

func (c *Config) applyFile(path string) error {
	var fc fileConfig
	if err := flagx.DecodeFile(path, &fc); err != nil {
		return err
	}

	setString(&c.DatabasePath, fc.DatabasePath)
	setString(&c.OwnerID, fc.OwnerID)
	setString(&c.AccessToken, fc.AccessToken)
	setString(&c.Backend, fc.Backend)
	setString(&c.ServerAddr, fc.ServerAddr)
	setString(&c.LogFile, fc.LogFile)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.S3.Bucket, fc.S3.Bucket)
	setString(&c.S3.Region, fc.S3.Region)
	setString(&c.S3.Endpoint, fc.S3.Endpoint)
	setString(&c.S3.AccessKey, fc.S3.AccessKey)
	setString(&c.S3.SecretKey, fc.S3.SecretKey)
	if fc.SyncWorkers != 0 {
		c.SyncWorkers = fc.SyncWorkers
	}
	setDuration(&c.RequestTimeout, fc.RequestTimeout.Duration)
	setDuration(&c.EnrichTimeout, fc.EnrichTimeout.Duration)
	setDuration(&c.WatchDebounce, fc.WatchDebounce.Duration)
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	setString(&c.DatabasePath, getenv("MYDAY_DB"))
	setString(&c.OwnerID, getenv("MYDAY_OWNER"))
	setString(&c.AccessToken, getenv("MYDAY_TOKEN"))
	setString(&c.Backend, getenv("MYDAY_BACKEND"))
	setString(&c.ServerAddr, getenv("MYDAY_SERVER"))
	setString(&c.LogFile, getenv("MYDAY_LOG_FILE"))
	setString(&c.LogLevel, getenv("MYDAY_LOG_LEVEL"))
	setString(&c.S3.Bucket, getenv("MYDAY_S3_BUCKET"))
	setString(&c.S3.Region, getenv("MYDAY_S3_REGION"))
	setString(&c.S3.Endpoint, getenv("MYDAY_S3_ENDPOINT"))
	setString(&c.S3.AccessKey, getenv("MYDAY_S3_ACCESS_KEY"))
	setString(&c.S3.SecretKey, getenv("MYDAY_S3_SECRET_KEY"))

	if v := getenv("MYDAY_SYNC_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MYDAY_SYNC_WORKERS: %w", err)
		}
		c.SyncWorkers = n
	}
	for name, dst := range map[string]*time.Duration{
		"MYDAY_REQUEST_TIMEOUT": &c.RequestTimeout,
		"MYDAY_ENRICH_TIMEOUT":  &c.EnrichTimeout,
		"MYDAY_WATCH_DEBOUNCE":  &c.WatchDebounce,
	} {
		if v := getenv(name); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*dst = d
		}
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}

package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"

	"github.com/syssam/persist/dialect"
	"github.com/syssam/persist/dialect/sql"
)

// Config describes how to open an EntityManager. It is read from YAML or
// JSONC files by LoadConfig.
type Config struct {
	// Driver is the database/sql driver name (sqlite, mysql, postgres, pgx).
	Driver string `yaml:"driver" json:"driver"`
	// DSN is the data source name passed to the driver.
	DSN string `yaml:"dsn" json:"dsn"`
	// Dialect overrides the DDL dialect derived from Driver.
	Dialect string `yaml:"dialect,omitempty" json:"dialect,omitempty"`
	// Debug logs every statement.
	Debug bool `yaml:"debug,omitempty" json:"debug,omitempty"`
	// SlowThreshold enables statement statistics and logs statements
	// slower than the duration (e.g. "200ms").
	SlowThreshold string `yaml:"slow_threshold,omitempty" json:"slow_threshold,omitempty"`
}

var (
	errConfigInvalid  = errors.New("persist: invalid config")
	errDriverRequired = errors.New("driver is required")
	errDSNRequired    = errors.New("dsn is required")
)

// LoadConfig reads a config file. Files ending in .json, .jsonc or .hujson
// are parsed as JSON with comments, every other file as YAML.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		return nil, fmt.Errorf("persist: read config: %w", err)
	}
	cfg, err := ParseConfig(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}
	return cfg, nil
}

// ParseConfig parses config data in the format named by ext (".yaml",
// ".json", ...) and validates it.
func ParseConfig(data []byte, ext string) (*Config, error) {
	var cfg Config
	switch ext {
	case ".json", ".jsonc", ".hujson":
		standardized, err := hujson.Standardize(data)
		if err != nil {
			return nil, fmt.Errorf("invalid JSONC: %w", err)
		}
		if err := json.Unmarshal(standardized, &cfg); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the config for missing or malformed settings.
func (c *Config) Validate() error {
	if c.Driver == "" {
		return errDriverRequired
	}
	if c.DSN == "" {
		return errDSNRequired
	}
	if _, err := c.dialect(); err != nil {
		return err
	}
	if c.Driver == dialect.MySQL {
		if _, err := mysql.ParseDSN(c.DSN); err != nil {
			return fmt.Errorf("mysql dsn: %w", err)
		}
	}
	if _, err := c.slowThreshold(); err != nil {
		return err
	}
	return nil
}

func (c *Config) dialect() (dialect.Dialect, error) {
	if c.Dialect != "" {
		return dialect.For(c.Dialect)
	}
	return dialect.For(c.Driver)
}

func (c *Config) slowThreshold() (time.Duration, error) {
	if c.SlowThreshold == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.SlowThreshold)
	if err != nil {
		return 0, fmt.Errorf("slow_threshold: %w", err)
	}
	return d, nil
}

// Open opens the database described by cfg and returns an EntityManager
// over it. The manager owns the connection pool; release it with Close.
func Open(cfg *Config, opts ...Option) (*EntityManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errConfigInvalid, err)
	}
	drv, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.Dialect != "" {
		d, _ := cfg.dialect()
		opts = append([]Option{WithDialect(d)}, opts...)
	}
	em := New(configure(cfg, drv), opts...)
	em.closer = drv
	return em, nil
}

// configure wraps drv with the debug and statistics drivers the config asks for.
func configure(cfg *Config, drv *sql.Driver) Executor {
	var exec Executor = drv
	if cfg.Debug {
		exec = sql.NewDebugDriver(exec)
	}
	if threshold, _ := cfg.slowThreshold(); threshold > 0 {
		exec = sql.NewStatsDriver(exec, sql.WithSlowThreshold(threshold), sql.WithSlowQueryLog(nil))
	}
	return exec
}

// Package config resolves learntool's settings from defaults, the
// config.yml file in the data directory, a .env file, LEARNTOOL_*
// environment variables and command-line overrides, in that order.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/learntool/internal/logger"
	"github.com/abhisek/learntool/internal/store"
)

// FileName is the config file looked up in the data directory.
const FileName = "config.yml"

// LogFileName is the default log file inside the data directory.
const LogFileName = "learntool.log"

// Config holds all settings.
type Config struct {
	// DataDir is resolved from flags and the environment, never from the
	// config file that lives inside it.
	DataDir string `yaml:"-"`

	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
	Practice PracticeConfig `yaml:"practice"`
	Test     TestConfig     `yaml:"test"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver string `yaml:"driver"` // "files" or "sqlite"
	DSN    string `yaml:"dsn"`    // sqlite only; defaults to <data dir>/learntool.db
}

// LogConfig configures the log file.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// PracticeConfig configures practice mode.
type PracticeConfig struct {
	MinQuestions int `yaml:"min_questions"`
}

// TestConfig configures test mode.
type TestConfig struct {
	MinQuestions int `yaml:"min_questions"`
	DefaultSize  int `yaml:"default_size"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Storage:  StorageConfig{Driver: string(store.DriverFiles)},
		Log:      LogConfig{Level: "info"},
		Practice: PracticeConfig{MinQuestions: 5},
		Test:     TestConfig{MinQuestions: 5, DefaultSize: 10},
	}
}

// Overrides are values given on the command line. Empty fields are unset.
type Overrides struct {
	DataDir  string
	DB       string
	LogLevel string
}

// Load resolves the configuration. A .env file in the working directory is
// loaded first if present; it never overrides variables already set.
func Load(ov Overrides) (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}
	return resolve(ov, os.Getenv)
}

// loadDotEnv loads path into the environment. A missing file is not an
// error; an unreadable or malformed one is.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

func resolve(ov Overrides, getenv func(string) string) (Config, error) {
	cfg := Default()

	cfg.DataDir = ov.DataDir
	if cfg.DataDir == "" {
		dir, err := store.DefaultDataDir()
		if err != nil {
			return Config{}, err
		}
		cfg.DataDir = dir
	}

	if err := cfg.mergeFile(filepath.Join(cfg.DataDir, FileName)); err != nil {
		return Config{}, err
	}
	if err := cfg.mergeEnv(getenv); err != nil {
		return Config{}, err
	}

	if ov.DB != "" {
		cfg.Storage.Driver = string(store.DriverSQLite)
		cfg.Storage.DSN = ov.DB
	}
	if ov.LogLevel != "" {
		cfg.Log.Level = ov.LogLevel
	}

	cfg.fillPaths()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	return c.decode(data)
}

// Parse decodes YAML on top of the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := cfg.decode(data); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("parse config: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return fmt.Errorf("parse config: multiple YAML documents are not supported")
		}
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func (c *Config) mergeEnv(getenv func(string) string) error {
	if v := getenv("LEARNTOOL_STORAGE"); v != "" {
		c.Storage.Driver = v
	}
	if v := getenv("LEARNTOOL_DB"); v != "" {
		c.Storage.Driver = string(store.DriverSQLite)
		c.Storage.DSN = v
	}
	if v := getenv("LEARNTOOL_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("LEARNTOOL_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := getenv("LEARNTOOL_TEST_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LEARNTOOL_TEST_SIZE=%q is not a number: %w", v, err)
		}
		c.Test.DefaultSize = n
	}
	return nil
}

// fillPaths defaults file locations into the data directory and anchors
// relative paths there.
func (c *Config) fillPaths() {
	if c.Log.File == "" {
		c.Log.File = LogFileName
	}
	c.Log.File = c.inDataDir(c.Log.File)

	if store.Driver(c.Storage.Driver) == store.DriverSQLite {
		if c.Storage.DSN == "" {
			c.Storage.DSN = store.DatabaseFile
		}
		c.Storage.DSN = c.inDataDir(c.Storage.DSN)
	}
}

func (c *Config) inDataDir(p string) string {
	// URI-style DSNs such as "file::memory:" are used as given.
	if filepath.IsAbs(p) || strings.HasPrefix(p, "file:") {
		return p
	}
	return filepath.Join(c.DataDir, p)
}

// Validate rejects unknown drivers and levels and non-positive sizes.
func (c Config) Validate() error {
	switch store.Driver(c.Storage.Driver) {
	case store.DriverFiles, store.DriverSQLite:
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Practice.MinQuestions < 1 {
		return fmt.Errorf("config: practice.min_questions must be positive, got %d", c.Practice.MinQuestions)
	}
	if c.Test.MinQuestions < 1 {
		return fmt.Errorf("config: test.min_questions must be positive, got %d", c.Test.MinQuestions)
	}
	if c.Test.DefaultSize < c.Test.MinQuestions {
		return fmt.Errorf("config: test.default_size %d is below test.min_questions %d",
			c.Test.DefaultSize, c.Test.MinQuestions)
	}
	return nil
}

// StorageLocation returns the argument for store.Open.
func (c Config) StorageLocation() string {
	if store.Driver(c.Storage.Driver) == store.DriverSQLite {
		return c.Storage.DSN
	}
	return c.DataDir
}

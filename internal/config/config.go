package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	App      App      `yaml:"app"`
	Database Database `yaml:"database"`
}

type App struct {
	Port string `yaml:"port"`
	// ShutdownTimeout is in seconds.
	ShutdownTimeout int    `yaml:"shutdown_timeout"`
	LogLevel        string `yaml:"log_level"`
}

type Database struct {
	Driver        string `yaml:"driver"`
	URL           string `yaml:"url"`
	MaxOpenConns  int    `yaml:"max_open_conns"`
	RunMigrations bool   `yaml:"run_migrations"`
}

func Default() Config {
	return Config{
		App: App{
			Port:            ":8080",
			ShutdownTimeout: 10,
			LogLevel:        "info",
		},
		Database: Database{
			Driver:        StorageDriverPostgres,
			MaxOpenConns:  10,
			RunMigrations: true,
		},
	}
}

// Load applies, in order: defaults, the YAML file named by CONFIG_FILE
// (segments.yaml when unset, skipped if missing), .env, then the process
// environment.
func Load() (Config, error) {
	cfg := Default()
	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "segments.yaml"
	}
	if err := LoadFromFile(configFile, &cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return cfg, err
		}
		slog.Default().Debug("config file not found, using defaults", "file", configFile)
	}
	if err := godotenv.Load(); err != nil {
		slog.Default().Warn("Could not load .env file. Using OS environment variables.", "err", err)
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func LoadFromFile(filename string, cfg *Config) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}
	return nil
}

func ApplyEnv(cfg *Config) error {
	if port := os.Getenv("APP_PORT"); port != "" {
		cfg.App.Port = port
	}
	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		timeout, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.App.ShutdownTimeout = timeout
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.App.LogLevel = level
	}
	if driver := os.Getenv("STORAGE_DRIVER"); driver != "" {
		cfg.Database.Driver = driver
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}
	if v := os.Getenv("DB_MAX_OPEN_CONNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DB_MAX_OPEN_CONNS: %w", err)
		}
		cfg.Database.MaxOpenConns = n
	}
	if v := os.Getenv("RUN_MIGRATIONS"); v != "" {
		run, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("RUN_MIGRATIONS: %w", err)
		}
		cfg.Database.RunMigrations = run
	}
	return nil
}

func (c Config) Validate() error {
	if c.App.Port == "" {
		return errors.New("APP_PORT not set in environment or config file")
	}
	if c.App.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be a positive number of seconds")
	}
	switch c.Database.Driver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if c.Database.URL == "" {
			return errors.New("DATABASE_URL not set in environment or config file")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Database.Driver)
	}
	return nil
}

func (a App) SlogLevel() slog.Level {
	switch strings.ToLower(a.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

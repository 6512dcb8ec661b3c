// Package config provides functionality for managing configuration options
// for the application using command-line flags, a JSON file, a .env file
// and environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string `json:"database_dsn" validate:"required"`

	// LogLevel is the minimum level written to the log.
	LogLevel string `json:"log_level" validate:"oneof=debug info warn error"`

	// SeedDefaultAdmin creates the default admin account on startup when it
	// does not exist yet.
	SeedDefaultAdmin bool `json:"seed_default_admin"`

	// Config is the path to the Config file.
	Config string `json:"-"`

	// EnvFile is the path to an optional .env file.
	EnvFile string `json:"-"`
}

var validate = validator.New()

// Parse parses the command-line flags, the config file and environment
// variables. It exits the process when the result is invalid.
func Parse() *Options {
	options, err := ParseArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return options
}

// ParseArgs builds Options from args. Later sources override earlier ones:
// flag defaults and values, then the JSON config file, then environment
// variables (including those loaded from the .env file, which never
// override variables already set).
func ParseArgs(args []string) (*Options, error) {
	options := &Options{}

	flags := flag.NewFlagSet("sms", flag.ContinueOnError)
	flags.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flags.StringVar(&options.LogLevel, "l", "info", "log level")
	flags.BoolVar(&options.SeedDefaultAdmin, "seed", true, "create the default admin if missing")
	flags.StringVar(&options.Config, "config", "config.json", "path to config file")
	flags.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
	flags.StringVar(&options.EnvFile, "env", ".env", "path to .env file")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if err := loadEnvFile(options.EnvFile); err != nil {
		return nil, err
	}

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}
	if err := loadFile(options.Config, options); err != nil {
		return nil, err
	}

	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		options.LogLevel = level
	}
	if seed := os.Getenv("SEED_DEFAULT_ADMIN"); seed != "" {
		v, err := strconv.ParseBool(seed)
		if err != nil {
			return nil, fmt.Errorf("SEED_DEFAULT_ADMIN: %w", err)
		}
		options.SeedDefaultAdmin = v
	}
	options.LogLevel = strings.ToLower(options.LogLevel)

	if err := validate.Struct(options); err != nil {
		return nil, err
	}
	return options, nil
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error while loading env file: %w", err)
	}
	return nil
}

func loadFile(path string, options *Options) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}
	if err := json.Unmarshal(data, options); err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}
	return nil
}

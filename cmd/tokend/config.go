package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/ollyware/tokend/internal/logger"
)

const (
	defaultListenAddr   = "localhost:8000"
	defaultLoggingLevel = logger.LevelInfo
	defaultDatabasePath = "data/tokens.db"
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the token service will be run
	ListenAddr string

	// Path of the sqlite database file; parent directory is created on startup
	DatabasePath string

	// Shared secret expected in the X-Admin-Key header on /admin endpoints
	// Required, there is no default on purpose
	AdminKey string
}

func NewConfig() *Config {
	return &Config{
		LogLevel:     defaultLoggingLevel,
		ListenAddr:   defaultListenAddr,
		DatabasePath: defaultDatabasePath,
	}
}

// Validate ensures required options are set before the app starts
func (c *Config) Validate() error {
	if c.AdminKey == "" {
		return errors.New("admin key is required: set ADMIN_KEY or pass --admin-key")
	}

	return nil
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		c.LoadEnv(func(key string) string {
			return envMap[key]
		})
		return nil
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) {
		return func(value string) {
			if value != "" {
				*o = value
			}
		}
	}

	envMap := map[string]func(string){
		"RUN_ADDRESS":   setString(&c.ListenAddr),
		"DATABASE_PATH": setString(&c.DatabasePath),
		"ADMIN_KEY":     setString(&c.AdminKey),
		"LOG_LEVEL":     setString(&c.LogLevel),
	}

	for key, parseFn := range envMap {
		parseFn(getenv(key))
	}
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("tokend", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabasePath, "database", "d", c.DatabasePath, "Path of the sqlite database file")
	fs.StringVarP(&c.AdminKey, "admin-key", "k", c.AdminKey, "Admin key expected in the X-Admin-Key header")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")

	return fs.Parse(args)
}

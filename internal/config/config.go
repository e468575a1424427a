package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// LocalEnvFile is loaded before processing the environment when ENVIRONMENT is "local".
const LocalEnvFile = ".env.local"

// Config holds application configuration loaded from environment variables.
type Config struct {
	Environment     string        `envconfig:"ENVIRONMENT" default:"local"`
	ProjectName     string        `envconfig:"PROJECT_NAME" default:"Vehicle Catalog"`
	Port            int           `envconfig:"PORT" default:"8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL     string        `envconfig:"DATABASE_URL" required:"true"`
	Version         string        `envconfig:"VERSION" default:"dev"`
	MigrateOnStart  bool          `envconfig:"MIGRATE_ON_START" default:"true"`
	SeedOnStart     bool          `envconfig:"SEED_ON_START" default:"true"`
	SeedPath        string        `envconfig:"SEED_PATH" default:""`
	MetricsEnabled  bool          `envconfig:"METRICS_ENABLED" default:"true"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

// Load reads configuration from environment variables into a Config struct.
// In the local environment the variables in .env.local are loaded first; values
// already present in the process environment win.
func Load() (*Config, error) {
	env := os.Getenv("ENVIRONMENT")
	if env == "" || env == "local" {
		if err := godotenv.Load(LocalEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", LocalEnvFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

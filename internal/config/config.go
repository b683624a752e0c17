package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type DatabaseOptions struct {
	URL         string `env:"DATABASE_URL,required"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

type ImportOptions struct {
	BaseDir           string `env:"IMPORT_BASE_DIR" envDefault:"."`
	MaxUpload         int64  `env:"IMPORT_MAX_UPLOAD" envDefault:"10485760"`
	MaxReportedErrors int    `env:"BATCH_MAX_REPORTED_ERRORS" envDefault:"20"`
	BcryptCost        int    `env:"BCRYPT_COST" envDefault:"10"`
}

type Configuration struct {
	Database DatabaseOptions
	Import   ImportOptions

	Port      int    `env:"PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// ExpiringWithinDays is the window in which a contract counts as expiring soon.
	ExpiringWithinDays int `env:"CONTRACT_EXPIRING_WITHIN_DAYS" envDefault:"30"`
}

// LoadEnv loads whichever of envFiles exist into the process environment and
// reports how many were found.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// Load reads .env files, then parses and validates the environment.
func Load(envFiles ...string) (*Configuration, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env", ".env.local"}
	}
	if _, err := LoadEnv(envFiles); err != nil {
		return nil, fmt.Errorf("load env files: %w", err)
	}

	c := &Configuration{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Configuration) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if c.Import.MaxUpload <= 0 {
		errs = append(errs, fmt.Errorf("IMPORT_MAX_UPLOAD must be positive, got %d", c.Import.MaxUpload))
	}
	if c.Import.MaxReportedErrors <= 0 {
		errs = append(errs, fmt.Errorf("BATCH_MAX_REPORTED_ERRORS must be positive, got %d", c.Import.MaxReportedErrors))
	}
	if c.Import.BcryptCost < bcrypt.MinCost || c.Import.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.Import.BcryptCost))
	}
	if c.ExpiringWithinDays < 0 {
		errs = append(errs, fmt.Errorf("CONTRACT_EXPIRING_WITHIN_DAYS must not be negative, got %d", c.ExpiringWithinDays))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

func (c *Configuration) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch strings.ToLower(c.LogLevel) {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

// Logger builds the process logger writing to out.
func (c *Configuration) Logger(out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(c.LogrusLogLevel())
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/correcaminos/cuotas/internal/receipt"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	DBPath string

	// Logging
	LogLevel string

	// Receipt object storage (optional; inline mode when unset)
	S3 receipt.Config

	// Settlement notices (optional; skipped when unset)
	PostmarkToken string
	FromEmail     string
}

func Load() *Config {
	return &Config{
		Port:     getEnv("CUOTAS_PORT", "8080"),
		DBPath:   getEnv("CUOTAS_DB_PATH", "cuotas.db"),
		LogLevel: getEnv("CUOTAS_LOG_LEVEL", "info"),
		S3: receipt.Config{
			Endpoint:  getEnv("CUOTAS_S3_ENDPOINT", ""),
			Bucket:    getEnv("CUOTAS_S3_BUCKET", ""),
			Region:    getEnv("CUOTAS_S3_REGION", "auto"),
			AccessKey: getEnv("CUOTAS_S3_ACCESS_KEY", ""),
			SecretKey: getEnv("CUOTAS_S3_SECRET_KEY", ""),
		},
		PostmarkToken: getEnv("CUOTAS_POSTMARK_TOKEN", ""),
		FromEmail:     getEnv("CUOTAS_FROM_EMAIL", ""),
	}
}

// Validate returns an error describing every invalid setting.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		errs = append(errs, "database path cannot be empty")
	}

	// S3 settings are all-or-nothing
	if c.S3.Bucket != "" || c.S3.AccessKey != "" || c.S3.SecretKey != "" {
		if c.S3.Bucket == "" || c.S3.AccessKey == "" || c.S3.SecretKey == "" {
			errs = append(errs, "receipt storage needs CUOTAS_S3_BUCKET, CUOTAS_S3_ACCESS_KEY and CUOTAS_S3_SECRET_KEY together")
		}
	}

	if c.PostmarkToken != "" && c.FromEmail == "" {
		errs = append(errs, "CUOTAS_FROM_EMAIL is required when CUOTAS_POSTMARK_TOKEN is set")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

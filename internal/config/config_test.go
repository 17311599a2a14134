package config

import (
	"os"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	valid := Config{Port: "8080", DBPath: "cuotas.db", LogLevel: "info"}

	tests := []struct {
		name        string
		mutate      func(*Config)
		errorString string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:        "non-numeric port",
			mutate:      func(c *Config) { c.Port = "abc" },
			errorString: `invalid port "abc": must be a number`,
		},
		{
			name:        "port out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "empty database path",
			mutate:      func(c *Config) { c.DBPath = "" },
			errorString: "database path cannot be empty",
		},
		{
			name:        "partial S3 settings",
			mutate:      func(c *Config) { c.S3.Bucket = "receipts" },
			errorString: "receipt storage needs",
		},
		{
			name: "complete S3 settings",
			mutate: func(c *Config) {
				c.S3.Bucket = "receipts"
				c.S3.AccessKey = "key"
				c.S3.SecretKey = "secret"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errorString == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Validate() error = %v, want error containing %q", err, tt.errorString)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"CUOTAS_PORT", "CUOTAS_DB_PATH", "CUOTAS_LOG_LEVEL", "CUOTAS_S3_BUCKET"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %v, want 8080", cfg.Port)
	}
	if cfg.DBPath != "cuotas.db" {
		t.Errorf("DBPath = %v, want cuotas.db", cfg.DBPath)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.S3.Region != "auto" {
		t.Errorf("S3.Region = %v, want auto", cfg.S3.Region)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CUOTAS_PORT", "9090")
	t.Setenv("CUOTAS_DB_PATH", "/tmp/test.db")
	t.Setenv("CUOTAS_S3_BUCKET", "receipts")
	t.Setenv("CUOTAS_S3_ACCESS_KEY", "key")
	t.Setenv("CUOTAS_S3_SECRET_KEY", "secret")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %v, want 9090", cfg.Port)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath = %v, want /tmp/test.db", cfg.DBPath)
	}
	if cfg.S3.Bucket != "receipts" {
		t.Errorf("S3.Bucket = %v, want receipts", cfg.S3.Bucket)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

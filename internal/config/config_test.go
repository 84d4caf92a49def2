package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			DefaultRole:     "backend",
			DefaultLevel:    "mid",
			ConfidenceLevel: 0.95,
			DefaultMargin:   4.0,
		},
		Oracle: OracleConfig{
			Enabled:             false,
			Timeout:             2 * time.Second,
			SimilarityThreshold: 0.6,
		},
		Server: ServerConfig{
			Port: "8080",
			TLS:  TLSConfig{Mode: "disabled"},
		},
		App: AppConfig{
			LogLevel:         "info",
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "text", "markdown"},
			MaxFileSize:      1024 * 1024,
		},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid config",
			mutate:      func(c *Config) {},
			expectError: false,
		},
		{
			name: "oracle enabled without api key",
			mutate: func(c *Config) {
				c.Oracle.Enabled = true
				c.Oracle.APIKey = ""
			},
			expectError: true,
			errorMsg:    "oracle API key is required",
		},
		{
			name: "oracle enabled with vault configured",
			mutate: func(c *Config) {
				c.Oracle.Enabled = true
				c.Vault.Enabled = true
			},
			expectError: false,
		},
		{
			name: "zero oracle timeout",
			mutate: func(c *Config) {
				c.Oracle.Timeout = 0
			},
			expectError: true,
			errorMsg:    "oracle timeout must be positive",
		},
		{
			name: "similarity threshold above one",
			mutate: func(c *Config) {
				c.Oracle.SimilarityThreshold = 1.5
			},
			expectError: true,
			errorMsg:    "similarity threshold",
		},
		{
			name: "confidence level out of range",
			mutate: func(c *Config) {
				c.Engine.ConfidenceLevel = 1.0
			},
			expectError: true,
			errorMsg:    "confidence level",
		},
		{
			name: "missing server port",
			mutate: func(c *Config) {
				c.Server.Port = ""
			},
			expectError: true,
			errorMsg:    "server port is required",
		},
		{
			name: "default format not in supported list",
			mutate: func(c *Config) {
				c.App.DefaultFormat = "xml"
			},
			expectError: true,
			errorMsg:    "invalid default format: xml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTLSConfig(t *testing.T) {
	tests := []struct {
		name        string
		tls         TLSConfig
		expectError bool
		errorMsg    string
	}{
		{
			name:        "disabled mode",
			tls:         TLSConfig{Mode: "disabled"},
			expectError: false,
		},
		{
			name: "server mode valid",
			tls: TLSConfig{
				Mode:     "server",
				CertFile: "/path/to/cert.pem",
				KeyFile:  "/path/to/key.pem",
			},
			expectError: false,
		},
		{
			name: "server mode missing key",
			tls: TLSConfig{
				Mode:     "server",
				CertFile: "/path/to/cert.pem",
			},
			expectError: true,
			errorMsg:    "certificate and key files are required",
		},
		{
			name:        "invalid mode",
			tls:         TLSConfig{Mode: "mutual"},
			expectError: true,
			errorMsg:    "invalid TLS mode: mutual",
		},
		{
			name: "invalid min version",
			tls: TLSConfig{
				Mode:       "server",
				CertFile:   "/path/to/cert.pem",
				KeyFile:    "/path/to/key.pem",
				MinVersion: "1.1",
			},
			expectError: true,
			errorMsg:    "invalid TLS minVersion",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Server.TLS = tt.tls

			err := cfg.ValidateTLSConfig()
			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

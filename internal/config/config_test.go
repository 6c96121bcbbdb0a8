package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:                  "development",
		Port:                 "8000",
		JWTSecret:            "secure-secret-at-least-32-chars-long",
		DBPassword:           "secure-password",
		DBSSLMode:            "disable",
		PageSize:             10,
		IndexCacheTTLSeconds: 20,
		SessionTTLHours:      24,
		MediaBackend:         "local",
	}
}

func TestConfig_ValidateSSLMode(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		sslMode     string
		expectError bool
	}{
		{"Production with empty SSL mode", "production", "", true},
		{"Production with disable SSL mode", "production", "disable", true},
		{"Production with require SSL mode", "production", "require", false},
		{"Prod with verify-full SSL mode", "prod", "verify-full", false},
		{"Development with disable SSL mode", "development", "disable", false},
		{"Test with empty SSL mode", "test", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			c.Env = tt.env
			c.DBSSLMode = tt.sslMode

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateListingAndMedia(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero page size", func(c *Config) { c.PageSize = 0 }},
		{"negative cache ttl", func(c *Config) { c.IndexCacheTTLSeconds = -1 }},
		{"zero session ttl", func(c *Config) { c.SessionTTLHours = 0 }},
		{"s3 without bucket", func(c *Config) { c.MediaBackend = "s3" }},
		{"unknown media backend", func(c *Config) { c.MediaBackend = "ftp" }},
		{"missing port", func(c *Config) { c.Port = "" }},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}

	c := validConfig()
	c.MediaBackend = "s3"
	c.S3Bucket = "yatube-media"
	assert.NoError(t, c.Validate())
}

func TestConfig_ProductionRejectsDefaultSecret(t *testing.T) {
	c := validConfig()
	c.Env = "production"
	c.DBSSLMode = "require"
	c.JWTSecret = defaultJWTSecret
	assert.Error(t, c.Validate())

	c.JWTSecret = "short"
	assert.Error(t, c.Validate())
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	defer viper.Reset()

	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")
	t.Setenv("PAGE_SIZE", "5")
	t.Setenv("MEDIA_BACKEND", " Local ")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, 5, c.PageSize)
	assert.Equal(t, "local", c.MediaBackend)
	assert.Equal(t, 20, c.IndexCacheTTLSeconds)
	assert.Equal(t, "yatube_session", c.SessionCookie)
}

package config

import (
	"fmt"
	"strings"
)

// requirement names a config value that must be non-empty in an environment
type requirement struct {
	name  string
	value func(*Config) string
}

var (
	baseRequirements = []requirement{
		{"SERVER_PORT", func(c *Config) string { return c.ServerPort }},
		{"DB_HOST", func(c *Config) string { return c.DBHost }},
		{"DB_PORT", func(c *Config) string { return c.DBPort }},
		{"DB_NAME", func(c *Config) string { return c.DBName }},
		{"DB_USER", func(c *Config) string { return c.DBUser }},
		{"JWT_SECRET", func(c *Config) string { return c.JWTSecret }},
	}

	// Production additionally needs real secrets and an object store
	productionRequirements = []requirement{
		{"DB_PASSWORD", func(c *Config) string { return c.DBPassword }},
		{"DB_SSL_MODE", func(c *Config) string { return c.DBSSLMode }},
		{"REDIS_URL", func(c *Config) string { return c.RedisURL }},
		{"S3_ACCESS_KEY", func(c *Config) string { return c.S3AccessKey }},
		{"S3_SECRET_KEY", func(c *Config) string { return c.S3SecretKey }},
	}
)

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	reqs := baseRequirements
	if cfg.Environment == Production {
		reqs = append(append([]requirement{}, baseRequirements...), productionRequirements...)
	}

	var errors []string
	for _, r := range reqs {
		if r.value(cfg) == "" {
			errors = append(errors, fmt.Sprintf("required setting %s is not set", r.name))
		}
	}

	if cfg.Environment == Production && cfg.JWTSecret == "your-secret-key" {
		errors = append(errors, "JWT_SECRET must not use the development default in production")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}

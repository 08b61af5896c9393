package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	DatabaseURL string `yaml:"database_url"`
	JWKSURL     string `yaml:"jwks_url"`
	CORSOrigins string `yaml:"cors_origins"`
	TablePrefix string `yaml:"table_prefix"`
	// Debug flags
	Debug bool `yaml:"debug"`
}

// Load builds the configuration from environment variables, then applies an
// optional YAML overlay (INKWELL_CONFIG, default "inkwell.yaml") so local
// setups can pin values without exporting a dozen variables.
func Load() (*Config, error) {
	env := getEnv("ENVIRONMENT", "dev")

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWKSURL:     getEnv("JWKS_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: getEnv("TABLE_PREFIX", getTablePrefix(env)),
		Debug:       getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}

	if err := cfg.applyFileOverlay(getEnv("INKWELL_CONFIG", "inkwell.yaml")); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyFileOverlay merges values from a YAML file over the env-derived
// config. A missing file is not an error; a malformed one is.
func (c *Config) applyFileOverlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if overlay.Port != "" {
		c.Port = overlay.Port
	}
	if overlay.Environment != "" {
		c.Environment = overlay.Environment
	}
	if overlay.DatabaseURL != "" {
		c.DatabaseURL = overlay.DatabaseURL
	}
	if overlay.JWKSURL != "" {
		c.JWKSURL = overlay.JWKSURL
	}
	if overlay.CORSOrigins != "" {
		c.CORSOrigins = overlay.CORSOrigins
	}
	if overlay.TablePrefix != "" {
		c.TablePrefix = overlay.TablePrefix
	}

	return nil
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

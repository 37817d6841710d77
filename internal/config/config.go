// Package config loads layered configuration the way the original
// Rust service does with the config crate: built-in defaults,
// overridden by a run-environment file, overridden by an optional
// local file, overridden by APP_-prefixed environment variables.
// yaml.v3 is used for the file layers since no viper-equivalent
// appears anywhere in the example pack; os.Getenv covers the final
// override layer.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the fully resolved application configuration.
type Config struct {
	RunEnv string `yaml:"run_env"`

	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`

	Database struct {
		URL               string        `yaml:"url"`
		MaxConnections    int32         `yaml:"max_connections"`
		ConnectionTimeout time.Duration `yaml:"connection_timeout"`
	} `yaml:"database"`

	Redis struct {
		Addr string `yaml:"addr"`
	} `yaml:"redis"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`

	Metrics struct {
		Namespace string `yaml:"namespace"`
	} `yaml:"metrics"`
}

func defaults() Config {
	var c Config
	c.RunEnv = "development"
	c.HTTP.Addr = ":8080"
	c.Database.MaxConnections = 10
	c.Database.ConnectionTimeout = 5 * time.Second
	c.Redis.Addr = "localhost:6379"
	c.Logging.Level = "info"
	c.Logging.Format = "json"
	c.Metrics.Namespace = "auctionhouse"
	return c
}

// Load resolves configuration from, in increasing precedence:
// built-in defaults, configDir/<RUN_ENV>.yaml, configDir/local.yaml,
// and APP_-prefixed environment variables.
func Load(configDir string) (Config, error) {
	cfg := defaults()

	runEnv := os.Getenv("RUN_ENV")
	if runEnv != "" {
		cfg.RunEnv = runEnv
	}

	if err := mergeFile(&cfg, fmt.Sprintf("%s/%s.yaml", configDir, cfg.RunEnv)); err != nil {
		return Config{}, err
	}
	if err := mergeFile(&cfg, fmt.Sprintf("%s/local.yaml", configDir)); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

// mergeFile overlays the YAML document at path onto cfg, if it
// exists. A missing file is not an error — only local.yaml and the
// per-environment file are optional by design.
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies APP_-prefixed environment variables as
// the final, highest-precedence layer.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("APP_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("APP_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("APP_DATABASE_MAX_CONNECTIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Database.MaxConnections = int32(n)
		}
	}
	if v := os.Getenv("APP_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("APP_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("APP_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("APP_METRICS_NAMESPACE"); v != "" {
		cfg.Metrics.Namespace = v
	}
}

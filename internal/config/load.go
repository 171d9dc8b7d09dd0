package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads and parses the configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills in the values a config file may omit.
func applyDefaults(cfg *Config) {
	if cfg.WorkDir == "" {
		cfg.WorkDir = os.TempDir()
	}
	if cfg.VirtType == "" {
		cfg.VirtType = "hvm"
	}
	if cfg.VolType == "" {
		cfg.VolType = "standard"
	}
	if cfg.AWS.UtilUser == "" {
		cfg.AWS.UtilUser = "root"
	}
	if cfg.AWS.TestUser == "" {
		cfg.AWS.TestUser = "fedora"
	}
	if cfg.AWS.BucketPrefix == "" {
		cfg.AWS.BucketPrefix = "fedora-test"
	}
	if cfg.AWS.TestVolumeSize == 0 {
		cfg.AWS.TestVolumeSize = 3
	}
	if cfg.Notify.TopicPrefix == "" {
		cfg.Notify.TopicPrefix = "fedimg"
	}
	if cfg.Metrics.Job == "" {
		cfg.Metrics.Job = "fedimg"
	}
}

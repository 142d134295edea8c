// Package config loads the facade configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ghostpay/ghostpay/internal/logging"
)

type Config struct {
	// Processor selects the backend: "stripe" or "authorizeNet".
	Processor    string             `yaml:"processor"`
	Stripe       StripeConfig       `yaml:"stripe"`
	AuthorizeNet AuthorizeNetConfig `yaml:"authorize_net"`
	Logging      logging.Config     `yaml:"logging"`
}

type StripeConfig struct {
	PublishKey string `yaml:"publish_key"`
	SecretKey  string `yaml:"secret_key"`
}

type AuthorizeNetConfig struct {
	APILoginID     string `yaml:"api_login_id"`
	TransactionKey string `yaml:"transaction_key"`
	Sandbox        bool   `yaml:"sandbox"`
	// Endpoint overrides the API URL; used by tests.
	Endpoint string `yaml:"endpoint,omitempty"`
}

// Load reads the config file named by CONFIG_PATH, defaulting to
// ./configs/ghostpay.yaml.
func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/ghostpay.yaml"
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ReplicaConfig holds a replica process's environment-sourced settings.
// Tags:
//
//	env: environment variable name
//	envDefault: value used when the variable is unset
type ReplicaConfig struct {
	NodeID   string `env:"QUORUMKV_NODE_ID" envDefault:""`
	Addr     string `env:"QUORUMKV_ADDR" envDefault:":8080"`
	LogLevel string `env:"QUORUMKV_LOG_LEVEL" envDefault:"info"`
}

// LoadReplicaConfig parses ReplicaConfig from the environment and validates
// it. NodeID defaults to empty and is not checked here; it only identifies
// the replica in log output, and cmd/replica refuses to start without it.
func LoadReplicaConfig() (*ReplicaConfig, error) {
	cfg := &ReplicaConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse replica config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks ReplicaConfig for required fields and recognized values.
func (c *ReplicaConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("QUORUMKV_ADDR is required")
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("QUORUMKV_LOG_LEVEL must be one of debug, info, warn, error (got %q)", c.LogLevel)
	}
	return nil
}

// ClientConfig holds a client process's environment-sourced settings.
type ClientConfig struct {
	ReplicaListPath string `env:"QUORUMKV_REPLICAS_FILE" envDefault:"servers.conf"`
	LogLevel        string `env:"QUORUMKV_LOG_LEVEL" envDefault:"info"`
}

// LoadClientConfig parses ClientConfig from the environment.
func LoadClientConfig() (*ClientConfig, error) {
	cfg := &ClientConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse client config: %w", err)
	}
	return cfg, nil
}

package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapgeo/pkg/adapter"
)

// DefaultSchemaForType returns the default schema for a database type.
func DefaultSchemaForType(dbType string) string {
	switch strings.ToLower(dbType) {
	case "postgres", "postgis":
		return "public"
	case "mysql", "mariadb":
		return ""
	default:
		return "main"
	}
}

// Validate checks if the target configuration is valid.
// The adapter registry decides which types are available.
func (t *TargetConfig) Validate() error {
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}
	if !adapter.IsRegistered(strings.ToLower(t.Type)) {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Available: adapter.ListAdapters(),
		}
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.StatePath == "" {
		return fmt.Errorf("state_path is required")
	}
	if c.Target == nil {
		return fmt.Errorf("target is required")
	}
	if err := c.Target.Validate(); err != nil {
		return fmt.Errorf("invalid target configuration: %w", err)
	}
	for name, t := range c.Targets {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("invalid target %q: %w", name, err)
		}
	}
	return nil
}

// Package config provides configuration management for the leapgeo CLI.
//
// Configuration is layered with koanf: built-in defaults, then leapgeo.yaml,
// then LEAPGEO_ environment variables, then explicitly set command-line flags.
package config

import (
	"strings"

	"github.com/leapstack-labs/leapgeo/pkg/core"
)

// TargetConfig holds database target configuration.
type TargetConfig struct {
	Type string `koanf:"type"` // sqlite, postgres, mysql, duckdb

	// File-based databases (SQLite, DuckDB)
	Database string `koanf:"database"` // file path or database name

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	Schema string `koanf:"schema"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`

	// Params holds adapter-specific configuration (spatialite extension, duckdb settings, ...)
	Params map[string]any `koanf:"params"`
}

// ApplyDefaults fills in the schema and port for the target type.
func (t *TargetConfig) ApplyDefaults() {
	if t == nil {
		return
	}
	if t.Schema == "" {
		t.Schema = DefaultSchemaForType(t.Type)
	}
	if t.Port == 0 {
		switch strings.ToLower(t.Type) {
		case "postgres", "postgis":
			t.Port = 5432
		case "mysql", "mariadb":
			t.Port = 3306
		}
	}
}

// AdapterConfig converts the target into the adapter connection config.
func (t *TargetConfig) AdapterConfig() core.AdapterConfig {
	return core.AdapterConfig{
		Type:     strings.ToLower(t.Type),
		Path:     t.Database,
		Database: t.Database,
		Host:     t.Host,
		Port:     t.Port,
		Username: t.User,
		Password: t.Password,
		Schema:   t.Schema,
		Options:  t.Options,
		Params:   t.Params,
	}
}

// Config holds all CLI configuration options.
type Config struct {
	ColumnsFile  string                   `koanf:"columns_file"`
	StatePath    string                   `koanf:"state_path"`
	Environment  string                   `koanf:"environment"`
	Verbose      bool                     `koanf:"verbose"`
	OutputFormat string                   `koanf:"output"`
	Target       *TargetConfig            `koanf:"target"`
	Targets      map[string]*TargetConfig `koanf:"targets"` // extra named targets inspected by capabilities
	Environments map[string]EnvConfig     `koanf:"environments"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// EnvConfig holds environment-specific configuration overrides.
type EnvConfig struct {
	ColumnsFile string        `koanf:"columns_file"`
	Target      *TargetConfig `koanf:"target"`
}

// Default configuration values.
const (
	ConfigFileName    = "leapgeo.yaml"
	ConfigFileNameAlt = "leapgeo.yml"
	DefaultStateFile  = ".leapgeo/journal.db"
	DefaultColumns    = "columns.yaml"
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

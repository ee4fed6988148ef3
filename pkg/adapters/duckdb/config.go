package duckdb

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/leapstack-labs/leapgeo/pkg/adapter"
	"github.com/leapstack-labs/leapgeo/pkg/core"
)

// SpatialExtension is loaded on every connection unless SkipSpatial is set.
const SpatialExtension = "spatial"

// Params holds DuckDB-specific configuration.
// Parsed from adapter.Config.Params using mapstructure.
type Params struct {
	// Extensions to install and load in addition to spatial (e.g., "httpfs")
	Extensions []string `mapstructure:"extensions"`

	// Secrets for cloud storage authentication
	Secrets []SecretConfig `mapstructure:"secrets"`

	// Settings to apply at session level (e.g., memory_limit, threads)
	Settings map[string]string `mapstructure:"settings"`

	// SkipSpatial disables the implicit spatial extension.
	SkipSpatial bool `mapstructure:"skip_spatial"`
}

// SecretConfig defines a DuckDB secret for cloud storage.
type SecretConfig struct {
	// Type: "s3", "gcs", "azure", "r2", "huggingface"
	Type string `mapstructure:"type"`

	// Provider: "config", "credential_chain", "service_account", etc.
	Provider string `mapstructure:"provider"`

	Region string `mapstructure:"region,omitempty"`

	// Scope limits the secret to specific paths (string or []string)
	Scope any `mapstructure:"scope,omitempty"`

	KeyID    string `mapstructure:"key_id,omitempty"`
	Secret   string `mapstructure:"secret,omitempty"`
	Endpoint string `mapstructure:"endpoint,omitempty"`

	// URLStyle: "vhost" or "path" for S3
	URLStyle string `mapstructure:"url_style,omitempty"`

	UseSSL *bool `mapstructure:"use_ssl,omitempty"`
}

// identPattern matches the names that are spliced into INSTALL, LOAD, SET
// and CREATE SECRET statements unquoted.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func parseParams(raw map[string]any) (*Params, error) {
	p := &Params{}
	if err := adapter.Params(core.AdapterConfig{Type: "duckdb", Params: raw}, p); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Params) validate() error {
	var errs []error
	check := func(what, name string) {
		if !identPattern.MatchString(name) {
			errs = append(errs, fmt.Errorf("invalid duckdb %s %q", what, name))
		}
	}
	for _, ext := range p.Extensions {
		if strings.TrimSpace(ext) != "" {
			check("extension", strings.TrimSpace(ext))
		}
	}
	for k := range p.Settings {
		check("setting", k)
	}
	for _, s := range p.Secrets {
		check("secret type", s.Type)
		if s.Provider != "" {
			check("secret provider", s.Provider)
		}
	}
	return errors.Join(errs...)
}

// extensions returns the extensions to load, spatial first, without duplicates.
func (p *Params) extensions() []string {
	var out []string
	seen := map[string]bool{}
	add := func(name string) {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}
	if !p.SkipSpatial {
		add(SpatialExtension)
	}
	for _, ext := range p.Extensions {
		add(ext)
	}
	return out
}

// settingStatements renders SET statements in key order.
func (p *Params) settingStatements() []string {
	keys := make([]string, 0, len(p.Settings))
	for k := range p.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	stmts := make([]string, 0, len(keys))
	for _, k := range keys {
		stmts = append(stmts, fmt.Sprintf("SET %s = %s", k, quote(p.Settings[k])))
	}
	return stmts
}

// buildCreateSecretSQL renders an unnamed CREATE SECRET statement.
func buildCreateSecretSQL(s SecretConfig) string {
	opts := []string{"TYPE " + s.Type}
	if s.Provider != "" {
		opts = append(opts, "PROVIDER "+s.Provider)
	}
	if s.Region != "" {
		opts = append(opts, "REGION "+quote(s.Region))
	}
	if scope := scopeSQL(s.Scope); scope != "" {
		opts = append(opts, "SCOPE "+scope)
	}
	if s.KeyID != "" {
		opts = append(opts, "KEY_ID "+quote(s.KeyID))
	}
	if s.Secret != "" {
		opts = append(opts, "SECRET "+quote(s.Secret))
	}
	if s.Endpoint != "" {
		opts = append(opts, "ENDPOINT "+quote(s.Endpoint))
	}
	if s.URLStyle != "" {
		opts = append(opts, "URL_STYLE "+quote(s.URLStyle))
	}
	if s.UseSSL != nil {
		opts = append(opts, fmt.Sprintf("USE_SSL %t", *s.UseSSL))
	}
	return "CREATE SECRET (\n    " + strings.Join(opts, ",\n    ") + "\n)"
}

func scopeSQL(scope any) string {
	var paths []string
	switch v := scope.(type) {
	case nil:
		return ""
	case string:
		return quote(v)
	case []string:
		paths = v
	case []any:
		for _, p := range v {
			paths = append(paths, fmt.Sprint(p))
		}
	default:
		return quote(fmt.Sprint(v))
	}
	if len(paths) == 0 {
		return ""
	}
	quoted := make([]string, len(paths))
	for i, p := range paths {
		quoted[i] = quote(p)
	}
	return "(" + strings.Join(quoted, ", ") + ")"
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

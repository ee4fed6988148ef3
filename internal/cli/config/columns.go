package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapgeo/pkg/core"
)

// ColumnsFile is the on-disk list of spatial columns managed by leapgeo.
//
//	columns:
//	  - table: roads
//	    column: geom
//	    srid: 4326
//	    type: LINESTRING
//	    spatial_index: true
type ColumnsFile struct {
	Columns []core.SpatialColumn `yaml:"columns"`
}

// LoadColumns reads and validates a columns file. Order is preserved; it is
// the order columns are created (and the reverse of the order they are dropped).
func LoadColumns(path string) ([]core.SpatialColumn, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from user config
	if err != nil {
		return nil, fmt.Errorf("failed to read columns file: %w", err)
	}
	return ParseColumns(data)
}

// ParseColumns decodes a columns document, rejecting unknown keys.
func ParseColumns(data []byte) ([]core.SpatialColumn, error) {
	var f ColumnsFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse columns file: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Columns))
	var errs []error
	for i, c := range f.Columns {
		if c.Table == "" || c.Column == "" {
			errs = append(errs, fmt.Errorf("columns[%d]: table and column are required", i))
			continue
		}
		if _, dup := seen[c.QualifiedName()]; dup {
			errs = append(errs, fmt.Errorf("columns[%d]: duplicate column %s", i, c.QualifiedName()))
		}
		seen[c.QualifiedName()] = struct{}{}
		if c.Dimension != 0 && (c.Dimension < 2 || c.Dimension > 4) {
			errs = append(errs, fmt.Errorf("columns[%d]: dimension must be between 2 and 4", i))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return f.Columns, nil
}

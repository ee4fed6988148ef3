package core

import "strings"

// SpatialColumn describes a geometry column declared on a table.
type SpatialColumn struct {
	Table        string `yaml:"table" koanf:"table"`
	Column       string `yaml:"column" koanf:"column"`
	SRID         int    `yaml:"srid" koanf:"srid"`
	GeometryType string `yaml:"type" koanf:"type"` // POINT, LINESTRING, POLYGON, GEOMETRY, ...
	Dimension    int    `yaml:"dimension" koanf:"dimension"`
	Nullable     bool   `yaml:"nullable" koanf:"nullable"`
	SpatialIndex bool   `yaml:"spatial_index" koanf:"spatial_index"`
}

// QualifiedName returns "table.column".
func (c SpatialColumn) QualifiedName() string {
	return c.Table + "." + c.Column
}

// NotNullFlag returns the not-null flag expected by metadata catalogs:
// 0 if the column is nullable, 1 otherwise.
func (c SpatialColumn) NotNullFlag() int {
	if c.Nullable {
		return 0
	}
	return 1
}

// NormalizedType returns the upper-cased geometry subtype, GEOMETRY if unset.
func (c SpatialColumn) NormalizedType() string {
	if c.GeometryType == "" {
		return "GEOMETRY"
	}
	return strings.ToUpper(c.GeometryType)
}

// EffectiveDimension returns the coordinate dimension, 2 if unset.
func (c SpatialColumn) EffectiveDimension() int {
	if c.Dimension <= 0 {
		return 2
	}
	return c.Dimension
}

// IndexName returns the name of the secondary spatial index for the column,
// idx_<table>_<column>. SpatiaLite derives its R*Tree table name the same way.
func (c SpatialColumn) IndexName() string {
	return "idx_" + c.Table + "_" + c.Column
}

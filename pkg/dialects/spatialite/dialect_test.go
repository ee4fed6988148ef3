package spatialite

import (
	"testing"

	"github.com/leapstack-labs/leapgeo/pkg/core"
	"github.com/leapstack-labs/leapgeo/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpatiaLite_Overrides(t *testing.T) {
	tests := []struct {
		name     string
		op       dialect.Operation
		expected string
	}{
		{"length uses GLength over ST_Length", dialect.Length, "GLength"},
		{"mbr equal keeps the SpatiaLite spelling", dialect.MbrEqual, "MBREqual"},
		{"distance", dialect.Distance, "Distance"},
		{"svg", dialect.SVG, "AsSVG"},
		{"fgf", dialect.FGF, "AsFGF"},
		{"is_valid", IsValid, "IsValid"},
		{"re-enabled over mysql marker", dialect.IsRing, "IsRing"},
		{"bbox accessor", dialect.MbrMinX, "MbrMinX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := SpatiaLite.Resolve(tt.op)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, b.FuncName())
		})
	}
}

func TestSpatiaLite_InheritsMySQL(t *testing.T) {
	b, err := SpatiaLite.Resolve(dialect.Intersects)
	require.NoError(t, err)
	assert.Equal(t, "ST_Intersects", b.FuncName())

	b, err = SpatiaLite.Resolve(dialect.MbrContains)
	require.NoError(t, err)
	assert.Equal(t, "MBRContains", b.FuncName())
}

func TestSpatiaLite_WithinDistanceIsRewriteOnly(t *testing.T) {
	b, err := SpatiaLite.Resolve(dialect.WithinDistance)
	require.NoError(t, err)
	assert.True(t, b.IsRewrite())
	assert.Empty(t, b.FuncName())
}

func TestSpatiaLite_Chain(t *testing.T) {
	assert.Equal(t, []string{"spatialite", "mysql", "ogc"}, SpatiaLite.Chain())
	assert.Equal(t, "SELECT sqlite_version()", SpatiaLite.VersionQuery())
	assert.Equal(t, "sqlite3", SpatiaLite.GooseDialect())
}

func TestSpatiaLite_Gate(t *testing.T) {
	assert.True(t, SpatiaLite.Capabilities(core.MustParseVersion("3.6.0")).SpatialIndex)
	assert.True(t, SpatiaLite.Capabilities(core.MustParseVersion("3.45.1")).SpatialIndex)
	assert.False(t, SpatiaLite.Capabilities(core.MustParseVersion("3.5.9")).SpatialIndex)
}

func TestSpatiaLite_NameDispatch(t *testing.T) {
	op, ok := SpatiaLite.LookupName("is_valid")
	require.True(t, ok)
	assert.Equal(t, IsValid, op)

	c := dialect.NewCompiler(SpatiaLite, dialect.Capabilities{})
	e, err := c.CallName("svg", core.Col("roads", "geom"))
	require.NoError(t, err)
	assert.Equal(t, "AsSVG(roads.geom)", c.SQL(e))
}
